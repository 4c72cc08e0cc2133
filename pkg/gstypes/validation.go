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
	"strings"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/msgs"
)

// Tick bounds supported by the DEX contract.
const (
	MinTick = -886800
	MaxTick = 886800
)

// ValidateNumericAmount checks an amount is set, and positive (or
// non-negative when allowZero is set).
func ValidateNumericAmount(ctx context.Context, amount math.LegacyDec, name string, allowZero bool) error {
	if amount.IsNil() {
		return i18n.NewError(ctx, msgs.MsgInvalidAmount, name, "must be set")
	}
	if !allowZero && amount.IsZero() {
		return i18n.NewError(ctx, msgs.MsgInvalidAmount, name, "must be positive")
	}
	if amount.IsNegative() {
		if allowZero {
			return i18n.NewError(ctx, msgs.MsgInvalidAmount, name, "must be non-negative")
		}
		return i18n.NewError(ctx, msgs.MsgInvalidAmount, name, "must be positive")
	}
	return nil
}

func ValidatePriceValues(ctx context.Context, spotPrice, lowerPrice, upperPrice math.LegacyDec) error {
	if err := ValidateNumericAmount(ctx, spotPrice, "spotPrice", false); err != nil {
		return err
	}
	if err := ValidateNumericAmount(ctx, lowerPrice, "lowerPrice", false); err != nil {
		return err
	}
	if err := ValidateNumericAmount(ctx, upperPrice, "upperPrice", false); err != nil {
		return err
	}
	if lowerPrice.GT(upperPrice) {
		return i18n.NewError(ctx, msgs.MsgInvalidPriceRange, DecString(lowerPrice), DecString(upperPrice))
	}
	return nil
}

func ValidateTokenDecimals(ctx context.Context, decimals int, name string) error {
	if decimals < 0 {
		return i18n.NewError(ctx, msgs.MsgInvalidTokenDecimals, name)
	}
	return nil
}

func ValidateTickRange(ctx context.Context, tickLower, tickUpper int) error {
	if tickLower >= tickUpper {
		return i18n.NewError(ctx, msgs.MsgInvalidTickOrder, tickLower, tickUpper)
	}
	if tickLower < MinTick || tickUpper > MaxTick {
		return i18n.NewError(ctx, msgs.MsgInvalidTickBounds, MinTick, MaxTick)
	}
	return nil
}

func ValidateFee(ctx context.Context, fee FeeTier) error {
	if fee < 0 {
		return i18n.NewError(ctx, msgs.MsgInvalidFee)
	}
	return nil
}

func ValidateTickSpacing(ctx context.Context, tickSpacing int) error {
	if tickSpacing <= 0 {
		return i18n.NewError(ctx, msgs.MsgInvalidTickSpacing)
	}
	return nil
}

// ValidateWalletAddress trims and checks a wallet address, which may come
// from the operation call or from the client-level default.
func ValidateWalletAddress(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", i18n.NewError(ctx, msgs.MsgMissingWalletAddress)
	}
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", i18n.NewError(ctx, msgs.MsgInvalidWalletAddress)
	}
	return trimmed, nil
}
