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
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) math.LegacyDec {
	d, err := math.LegacyNewDecFromStr(s)
	require.NoError(t, err)
	return d
}

func TestValidateNumericAmount(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateNumericAmount(ctx, dec(t, "1.23"), "amount", false))
	assert.Regexp(t, "GS001040", ValidateNumericAmount(ctx, dec(t, "-1"), "amount", false))
	assert.Regexp(t, "GS001040", ValidateNumericAmount(ctx, dec(t, "0"), "amount", false))
	assert.NoError(t, ValidateNumericAmount(ctx, dec(t, "0"), "amount", true))
	assert.Regexp(t, "GS001040", ValidateNumericAmount(ctx, math.LegacyDec{}, "amount", true))
}

func TestValidatePriceValues(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidatePriceValues(ctx, dec(t, "2"), dec(t, "1"), dec(t, "4")))
	assert.Regexp(t, "GS001041", ValidatePriceValues(ctx, dec(t, "2"), dec(t, "4"), dec(t, "1")))
	assert.Regexp(t, "GS001040", ValidatePriceValues(ctx, dec(t, "-1"), dec(t, "1"), dec(t, "4")))
}

func TestValidateTokenDecimals(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateTokenDecimals(ctx, 8, "tokenDecimals"))
	assert.NoError(t, ValidateTokenDecimals(ctx, 0, "tokenDecimals"))
	assert.Regexp(t, "GS001048", ValidateTokenDecimals(ctx, -1, "tokenDecimals"))
}

func TestValidateTickRange(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateTickRange(ctx, -120, 120))
	assert.Regexp(t, "GS001042", ValidateTickRange(ctx, 120, -120))
	assert.Regexp(t, "GS001042", ValidateTickRange(ctx, 0, 0))
	assert.Regexp(t, "GS001043", ValidateTickRange(ctx, MinTick-1, 0))
	assert.Regexp(t, "GS001043", ValidateTickRange(ctx, 0, MaxTick+1))
}

func TestValidateFeeAndTickSpacing(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateFee(ctx, FeeTierPercent00_30))
	assert.Regexp(t, "GS001045", ValidateFee(ctx, FeeTier(-1)))
	assert.NoError(t, ValidateTickSpacing(ctx, 60))
	assert.Regexp(t, "GS001044", ValidateTickSpacing(ctx, 0))
}

func TestValidateWalletAddress(t *testing.T) {
	ctx := context.Background()

	trimmed, err := ValidateWalletAddress(ctx, " eth|abc ")
	require.NoError(t, err)
	assert.Equal(t, "eth|abc", trimmed)

	_, err = ValidateWalletAddress(ctx, "")
	assert.Regexp(t, "GS001046", err)

	_, err = ValidateWalletAddress(ctx, "   ")
	assert.Regexp(t, "GS001047", err)
}
