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

// Package swaps implements token swap submission against the GalaChain DEX.
package swaps

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/bundler"
	"github.com/gala-dex/gswap-go/pkg/events"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// Sqrt price limits accepted by the DEX contract. The values are fixed by
// the chaincode and only ever travel as strings in payloads.
const (
	MinSqrtPriceLimit = "0.000000000000000000094212147"
	MaxSqrtPriceLimit = "18446050999999999999"
)

// SwapAmount is either an ExactInput or an ExactOutput specification.
type SwapAmount interface {
	// amounts returns the raw payload amount plus the optional
	// amountOutMinimum / amountInMaximum fields, already sign-adjusted the
	// way the chaincode expects them.
	amounts(ctx context.Context) (amount string, outMin, inMax *string, err error)
}

// ExactInput swaps a fixed amount of the input token, optionally enforcing a
// minimum output.
type ExactInput struct {
	AmountIn         math.LegacyDec
	AmountOutMinimum *math.LegacyDec
}

func (a ExactInput) amounts(ctx context.Context) (string, *string, *string, error) {
	if err := gstypes.ValidateNumericAmount(ctx, a.AmountIn, "exactIn", false); err != nil {
		return "", nil, nil, err
	}
	var outMin *string
	if a.AmountOutMinimum != nil {
		if err := gstypes.ValidateNumericAmount(ctx, *a.AmountOutMinimum, "amountOutMinimum", true); err != nil {
			return "", nil, nil, err
		}
		// Output amounts are negative from the pool's perspective
		neg := gstypes.DecString(a.AmountOutMinimum.Neg())
		outMin = &neg
	}
	inMax := gstypes.DecString(a.AmountIn)
	return gstypes.DecString(a.AmountIn), outMin, &inMax, nil
}

// ExactOutput swaps for a fixed amount of the output token, optionally
// enforcing a maximum input.
type ExactOutput struct {
	AmountOut       math.LegacyDec
	AmountInMaximum *math.LegacyDec
}

func (a ExactOutput) amounts(ctx context.Context) (string, *string, *string, error) {
	if err := gstypes.ValidateNumericAmount(ctx, a.AmountOut, "exactOut", false); err != nil {
		return "", nil, nil, err
	}
	var inMax *string
	if a.AmountInMaximum != nil {
		if err := gstypes.ValidateNumericAmount(ctx, *a.AmountInMaximum, "amountInMaximum", false); err != nil {
			return "", nil, nil, err
		}
		s := gstypes.DecString(*a.AmountInMaximum)
		inMax = &s
	}
	neg := gstypes.DecString(a.AmountOut.Neg())
	return neg, &neg, inMax, nil
}

// SwapService submits swap operations through the bundler.
type SwapService struct {
	bundler       *bundler.BundlerService
	walletAddress string
}

func NewSwapService(bs *bundler.BundlerService, walletAddress string) *SwapService {
	return &SwapService{bundler: bs, walletAddress: walletAddress}
}

// Swap submits a swap of tokenIn for tokenOut on the pool at the given fee
// tier. walletAddress may be empty to use the service default.
func (s *SwapService) Swap(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, fee gstypes.FeeTier, amount SwapAmount, walletAddress string) (*events.PendingTransaction, error) {
	if amount == nil {
		return nil, i18n.NewError(ctx, msgs.MsgExactAmountRequired)
	}
	if walletAddress == "" {
		walletAddress = s.walletAddress
	}
	wallet, err := gstypes.ValidateWalletAddress(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, fee); err != nil {
		return nil, err
	}

	ordering, err := gstypes.GetTokenOrdering[any](ctx, tokenIn, tokenOut, false, nil, nil)
	if err != nil {
		return nil, err
	}

	rawAmount, outMin, inMax, err := amount.amounts(ctx)
	if err != nil {
		return nil, err
	}

	sqrtPriceLimit := MaxSqrtPriceLimit
	if ordering.ZeroForOne {
		sqrtPriceLimit = MinSqrtPriceLimit
	}

	toSign := map[string]interface{}{
		"token0":         ordering.Token0.Payload(),
		"token1":         ordering.Token1.Payload(),
		"fee":            int(fee),
		"amount":         rawAmount,
		"zeroForOne":     ordering.ZeroForOne,
		"sqrtPriceLimit": sqrtPriceLimit,
		"recipient":      wallet,
	}
	if outMin != nil {
		toSign["amountOutMinimum"] = *outMin
	}
	if inMax != nil {
		toSign["amountInMaximum"] = *inMax
	}

	return s.bundler.Submit(ctx, "Swap", toSign, SwapStringsInstructions(ordering.Token0, ordering.Token1, fee, wallet))
}

// SwapStringsInstructions builds the composite-key hints the bundler uses to
// pre-resolve the chain objects a swap touches.
func SwapStringsInstructions(token0, token1 gstypes.TokenClassKey, fee gstypes.FeeTier, wallet string) []string {
	token0Key := token0.Join("$")
	token1Key := token1.Join("$")
	poolString := fmt.Sprintf("$pool$%s$%s$%d", token0Key, token1Key, fee)
	return []string{
		poolString,
		fmt.Sprintf("$tokenBalance$%s$%s", token0Key, wallet),
		fmt.Sprintf("$tokenBalance$%s$%s", token1Key, wallet),
		fmt.Sprintf("$tokenBalance$%s$%s", token0Key, poolString),
		fmt.Sprintf("$tokenBalance$%s$%s", token1Key, poolString),
	}
}
