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

// Package quoting implements read-only swap quoting, including best-price
// discovery across all fee tiers of a pair.
package quoting

import (
	"context"
	"errors"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/sync/errgroup"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// QuotingService quotes swaps against the DEX contract through the gateway.
type QuotingService struct {
	http     *gshttp.Client
	baseURL  string
	basePath string
}

func NewQuotingService(conf *gsconf.SDKConfig, httpClient *gshttp.Client) *QuotingService {
	return &QuotingService{
		http:     httpClient,
		baseURL:  confutil.StringNotEmpty(conf.GatewayBaseURL, *gsconf.Defaults.GatewayBaseURL),
		basePath: confutil.StringNotEmpty(conf.DexContractBasePath, *gsconf.Defaults.DexContractBasePath),
	}
}

// QuoteExactInput quotes swapping a fixed input amount. With a nil fee the
// quote runs against every fee tier concurrently and returns the one with
// the highest output.
func (qs *QuotingService) QuoteExactInput(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, amountIn math.LegacyDec, fee *gstypes.FeeTier) (*gstypes.GetQuoteResult, error) {
	if err := gstypes.ValidateNumericAmount(ctx, amountIn, "amountIn", false); err != nil {
		return nil, err
	}
	if fee != nil {
		return qs.quoteOneTier(ctx, tokenIn, tokenOut, *fee, amountIn, true)
	}
	return qs.quoteAllTiers(ctx, tokenIn, tokenOut, amountIn, true)
}

// QuoteExactOutput quotes swapping for a fixed output amount. With a nil fee
// the quote runs against every fee tier concurrently and returns the one
// requiring the least input.
func (qs *QuotingService) QuoteExactOutput(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, amountOut math.LegacyDec, fee *gstypes.FeeTier) (*gstypes.GetQuoteResult, error) {
	if err := gstypes.ValidateNumericAmount(ctx, amountOut, "amountOut", false); err != nil {
		return nil, err
	}
	if fee != nil {
		return qs.quoteOneTier(ctx, tokenIn, tokenOut, *fee, amountOut, false)
	}
	return qs.quoteAllTiers(ctx, tokenIn, tokenOut, amountOut, false)
}

func (qs *QuotingService) quoteAllTiers(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, amount math.LegacyDec, isExactInput bool) (*gstypes.GetQuoteResult, error) {
	quotes := make([]*gstypes.GetQuoteResult, len(gstypes.AllFeeTiers))
	errs := make([]error, len(gstypes.AllFeeTiers))

	g, gctx := errgroup.WithContext(ctx)
	for i, tier := range gstypes.AllFeeTiers {
		g.Go(func() error {
			quotes[i], errs[i] = qs.quoteSingle(gctx, tokenIn, tokenOut, tier, amount, isExactInput)
			return nil
		})
	}
	_ = g.Wait()

	var best *gstypes.GetQuoteResult
	var firstErr error
	for i := range gstypes.AllFeeTiers {
		if err := errs[i]; err != nil {
			// Absent pools are expected during tier discovery
			if !isPoolAbsenceError(err) && firstErr == nil {
				firstErr = err
			}
			continue
		}
		q := quotes[i]
		if best == nil {
			best = q
		} else if isExactInput && q.OutTokenAmount.GT(best.OutTokenAmount) {
			best = q
		} else if !isExactInput && best.InTokenAmount.GT(q.InTokenAmount) {
			best = q
		}
	}
	if best != nil {
		return best, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, i18n.NewError(ctx, msgs.MsgNoPoolAvailable, tokenIn, tokenOut)
}

// quoteOneTier quotes a caller-specified fee tier, mapping pool absence to a
// tier-specific error rather than leaving the raw gateway error to surface.
func (qs *QuotingService) quoteOneTier(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, fee gstypes.FeeTier, amount math.LegacyDec, isExactInput bool) (*gstypes.GetQuoteResult, error) {
	quote, err := qs.quoteSingle(ctx, tokenIn, tokenOut, fee, amount, isExactInput)
	if err != nil && isPoolAbsenceError(err) {
		return nil, i18n.NewError(ctx, msgs.MsgNoPoolAvailableAtFeeTier, tokenIn, tokenOut, fee)
	}
	return quote, err
}

func isPoolAbsenceError(err error) bool {
	var apiErr *gshttp.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorKey == "CONFLICT" || apiErr.ErrorKey == "OBJECT_NOT_FOUND"
	}
	return false
}

func (qs *QuotingService) quoteSingle(ctx context.Context, tokenIn, tokenOut gstypes.TokenClassKey, fee gstypes.FeeTier, amount math.LegacyDec, isExactInput bool) (*gstypes.GetQuoteResult, error) {
	if err := gstypes.ValidateFee(ctx, fee); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering[any](ctx, tokenIn, tokenOut, false, nil, nil)
	if err != nil {
		return nil, err
	}

	formattedAmount := amount
	if !isExactInput {
		formattedAmount = amount.Neg()
	}

	var envelope struct {
		Data fftypes.JSONObject `json:"Data"`
	}
	err = qs.http.Post(ctx, qs.baseURL, qs.basePath, "/QuoteExactAmount", map[string]interface{}{
		"token0": ordering.Token0.String(),
		"token1": ordering.Token1.String(),
		"fee":    int(fee),
		"amount": gstypes.DecString(formattedAmount),
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidResponseShape, "/QuoteExactAmount")
	}
	return buildQuoteResult(ctx, ordering.ZeroForOne, fee, envelope.Data)
}

func buildQuoteResult(ctx context.Context, zeroForOne bool, fee gstypes.FeeTier, data fftypes.JSONObject) (*gstypes.GetQuoteResult, error) {
	amount0, err := gstypes.DecFromAny(ctx, data["amount0"], "amount0")
	if err != nil {
		return nil, err
	}
	amount1, err := gstypes.DecFromAny(ctx, data["amount1"], "amount1")
	if err != nil {
		return nil, err
	}
	currentSqrtPrice, err := gstypes.DecFromAny(ctx, data["currentSqrtPrice"], "currentSqrtPrice")
	if err != nil {
		return nil, err
	}
	newSqrtPrice, err := gstypes.DecFromAny(ctx, data["newSqrtPrice"], "newSqrtPrice")
	if err != nil {
		return nil, err
	}
	// Price inversion and impact both divide by these
	if currentSqrtPrice.IsZero() {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidAmount, "currentSqrtPrice", "must be positive")
	}
	if newSqrtPrice.IsZero() {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidAmount, "newSqrtPrice", "must be positive")
	}

	currentPrice := currentSqrtPrice.Mul(currentSqrtPrice)
	newPrice := newSqrtPrice.Mul(newSqrtPrice)
	if !zeroForOne {
		currentPrice = math.LegacyOneDec().Quo(currentPrice)
		newPrice = math.LegacyOneDec().Quo(newPrice)
	}

	inAmount, outAmount := amount0, amount1
	if !zeroForOne {
		inAmount, outAmount = amount1, amount0
	}

	return &gstypes.GetQuoteResult{
		Amount0:              amount0,
		Amount1:              amount1,
		CurrentPoolSqrtPrice: currentSqrtPrice,
		NewPoolSqrtPrice:     newSqrtPrice,
		CurrentPrice:         currentPrice,
		NewPrice:             newPrice,
		InTokenAmount:        inAmount.Abs(),
		OutTokenAmount:       outAmount.Abs(),
		PriceImpact:          newPrice.Sub(currentPrice).Quo(currentPrice),
		FeeTier:              fee,
	}, nil
}
