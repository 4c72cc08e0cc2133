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

package gstypes

// FeeTier is a pool fee expressed in hundredths of a basis point.
type FeeTier int

const (
	FeeTierPercent00_05 FeeTier = 500    // 0.05%
	FeeTierPercent00_30 FeeTier = 3000   // 0.30%
	FeeTierPercent01_00 FeeTier = 10000  // 1.00%
)

// AllFeeTiers lists the tiers supported by the protocol, used when quoting
// without an explicit fee tier.
var AllFeeTiers = []FeeTier{
	FeeTierPercent00_05,
	FeeTierPercent00_30,
	FeeTierPercent01_00,
}
