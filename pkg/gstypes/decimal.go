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

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/msgs"
)

// DecFromAny coerces a decoded JSON value (string, number, or json.Number)
// into a LegacyDec. The gateway is inconsistent about whether numeric fields
// arrive quoted, so every numeric response field goes through here.
func DecFromAny(ctx context.Context, v interface{}, name string) (math.LegacyDec, error) {
	var s string
	switch tv := v.(type) {
	case nil:
		return math.LegacyDec{}, i18n.NewError(ctx, msgs.MsgInvalidAmount, name, "missing")
	case string:
		s = tv
	case json.Number:
		s = tv.String()
	case float64:
		s = fmt.Sprintf("%v", tv)
	case int:
		s = fmt.Sprintf("%d", tv)
	case int64:
		s = fmt.Sprintf("%d", tv)
	default:
		return math.LegacyDec{}, i18n.NewError(ctx, msgs.MsgInvalidAmount, name, fmt.Sprintf("%v", v))
	}
	d, err := math.LegacyNewDecFromStr(strings.TrimSpace(s))
	if err != nil {
		return math.LegacyDec{}, i18n.NewError(ctx, msgs.MsgInvalidAmount, name, s)
	}
	return d, nil
}

// DecString formats a LegacyDec the way the GalaChain APIs expect amounts:
// plain decimal notation with no trailing fractional zeros.
func DecString(d math.LegacyDec) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
