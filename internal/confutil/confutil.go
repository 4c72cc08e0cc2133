/*
 * Copyright © 2025 Kaleido, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
 * an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package confutil

import "time"

// P returns a pointer to the supplied value, for building config defaults.
func P[T any](v T) *T {
	return &v
}

func Bool(bVal *bool, def bool) bool {
	if bVal == nil {
		return def
	}
	return *bVal
}

func Float64Min(fVal *float64, min float64, def float64) float64 {
	if fVal == nil || *fVal < min {
		return def
	}
	return *fVal
}

func StringNotEmpty(sVal *string, def string) string {
	if sVal == nil || *sVal == "" {
		return def
	}
	return *sVal
}

// DurationMin parses a duration string config value, falling back to the
// default when unset, unparseable, or below the supplied minimum.
func DurationMin(sVal *string, min time.Duration, def string) time.Duration {
	defDuration, _ := time.ParseDuration(def)
	if sVal == nil {
		return defDuration
	}
	d, err := time.ParseDuration(*sVal)
	if err != nil || d < min {
		return defDuration
	}
	return d
}
