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

// Package positions manages concentrated liquidity positions: queries,
// liquidity add/remove submissions, and fee collection.
package positions

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/bundler"
	"github.com/gala-dex/gswap-go/pkg/events"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
	"github.com/gala-dex/gswap-go/pkg/pools"
)

// PositionService serves liquidity position queries through the gateway and
// position mutations through the bundler.
type PositionService struct {
	http          *gshttp.Client
	bundler       *bundler.BundlerService
	baseURL       string
	basePath      string
	walletAddress string
}

func NewPositionService(conf *gsconf.SDKConfig, httpClient *gshttp.Client, bs *bundler.BundlerService) *PositionService {
	return &PositionService{
		http:          httpClient,
		bundler:       bs,
		baseURL:       confutil.StringNotEmpty(conf.GatewayBaseURL, *gsconf.Defaults.GatewayBaseURL),
		basePath:      confutil.StringNotEmpty(conf.DexContractBasePath, *gsconf.Defaults.DexContractBasePath),
		walletAddress: confutil.StringNotEmpty(conf.WalletAddress, ""),
	}
}

// PositionRef identifies one position within a pool.
type PositionRef struct {
	Token0ClassKey gstypes.TokenClassKey
	Token1ClassKey gstypes.TokenClassKey
	Fee            gstypes.FeeTier
	TickLower      int
	TickUpper      int
}

// GetUserPositions pages through all positions owned by an address. A zero
// limit and empty bookmark fetch the first page with the server default
// page size.
func (ps *PositionService) GetUserPositions(ctx context.Context, ownerAddress string, limit int, bookmark string) (*gstypes.GetUserPositionsResult, error) {
	owner, err := gstypes.ValidateWalletAddress(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{"user": owner}
	if limit > 0 {
		body["limit"] = limit
	}
	if bookmark != "" {
		body["bookMark"] = bookmark
	}

	data, err := ps.postForData(ctx, "/GetUserPositions", body)
	if err != nil {
		return nil, err
	}

	result := &gstypes.GetUserPositionsResult{
		Bookmark: data.GetString("nextBookMark"),
	}
	for _, entry := range data.GetObjectArray("positions") {
		pos, err := ps.parseListedPosition(ctx, entry)
		if err != nil {
			return nil, err
		}
		result.Positions = append(result.Positions, pos)
	}
	return result, nil
}

// GetPosition fetches the full state of one position.
func (ps *PositionService) GetPosition(ctx context.Context, ownerAddress string, ref PositionRef) (*gstypes.GetPositionResult, error) {
	owner, err := gstypes.ValidateWalletAddress(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	data, err := ps.postForData(ctx, "/GetPositions", map[string]interface{}{
		"owner":     owner,
		"token0":    ref.Token0ClassKey.Payload(),
		"token1":    ref.Token1ClassKey.Payload(),
		"fee":       int(ref.Fee),
		"tickLower": ref.TickLower,
		"tickUpper": ref.TickUpper,
	})
	if err != nil {
		return nil, err
	}
	return ps.parsePosition(ctx, data)
}

// GetPositionByID scans the owner's positions for a matching id and fetches
// its full state. Returns nil when the owner holds no such position.
func (ps *PositionService) GetPositionByID(ctx context.Context, ownerAddress, positionID string) (*gstypes.GetPositionResult, error) {
	listed, err := ps.GetUserPositions(ctx, ownerAddress, 0, "")
	if err != nil {
		return nil, err
	}
	for _, pos := range listed.Positions {
		if pos.PositionID == positionID {
			return ps.GetPosition(ctx, ownerAddress, PositionRef{
				Token0ClassKey: pos.Token0ClassKey,
				Token1ClassKey: pos.Token1ClassKey,
				Fee:            pos.Fee,
				TickLower:      pos.TickLower,
				TickUpper:      pos.TickUpper,
			})
		}
	}
	return nil, nil
}

// EstimateRemoveLiquidity previews the token amounts a liquidity removal
// would currently return, without submitting anything.
func (ps *PositionService) EstimateRemoveLiquidity(ctx context.Context, ownerAddress, positionID string, token0, token1 gstypes.TokenClassKey, fee gstypes.FeeTier, tickLower, tickUpper int, amount math.LegacyDec) (*gstypes.RemoveLiquidityEstimate, error) {
	owner, err := gstypes.ValidateWalletAddress(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, fee); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateTickRange(ctx, tickLower, tickUpper); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, amount, "amount", false); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering[any](ctx, token0, token1, false, nil, nil)
	if err != nil {
		return nil, err
	}

	data, err := ps.postForData(ctx, "/GetRemoveLiquidityEstimation", map[string]interface{}{
		"tickLower":  tickLower,
		"tickUpper":  tickUpper,
		"amount":     gstypes.DecString(amount),
		"token0":     ordering.Token0.Payload(),
		"token1":     ordering.Token1.Payload(),
		"fee":        int(fee),
		"owner":      owner,
		"positionId": positionID,
	})
	if err != nil {
		return nil, err
	}

	est := &gstypes.RemoveLiquidityEstimate{}
	if est.Amount0, err = gstypes.DecFromAny(ctx, data["amount0"], "amount0"); err != nil {
		return nil, err
	}
	if est.Amount1, err = gstypes.DecFromAny(ctx, data["amount1"], "amount1"); err != nil {
		return nil, err
	}
	return est, nil
}

// AddLiquidityByTicksParams describes an add-liquidity submission with an
// explicit tick range. Token0/Token1 must already be in canonical order.
type AddLiquidityByTicksParams struct {
	Token0         gstypes.TokenClassKey
	Token1         gstypes.TokenClassKey
	Fee            gstypes.FeeTier
	TickLower      int
	TickUpper      int
	Amount0Desired math.LegacyDec
	Amount1Desired math.LegacyDec
	Amount0Min     math.LegacyDec
	Amount1Min     math.LegacyDec
	PositionID     string
	WalletAddress  string
}

func (ps *PositionService) AddLiquidityByTicks(ctx context.Context, params AddLiquidityByTicksParams) (*events.PendingTransaction, error) {
	wallet, err := ps.resolveWallet(ctx, params.WalletAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, params.Fee); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateTickRange(ctx, params.TickLower, params.TickUpper); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering(ctx, params.Token0, params.Token1, true,
		[2]math.LegacyDec{params.Amount0Desired, params.Amount0Min},
		[2]math.LegacyDec{params.Amount1Desired, params.Amount1Min})
	if err != nil {
		return nil, err
	}
	return ps.submitLiquidityChange(ctx, "AddLiquidity", wallet, ordering.Token0, ordering.Token1, params.Fee, map[string]interface{}{
		"token0":         ordering.Token0.Payload(),
		"token1":         ordering.Token1.Payload(),
		"fee":            int(params.Fee),
		"owner":          wallet,
		"tickLower":      params.TickLower,
		"tickUpper":      params.TickUpper,
		"amount0Desired": gstypes.DecString(ordering.Token0Data[0]),
		"amount1Desired": gstypes.DecString(ordering.Token1Data[0]),
		"amount0Min":     gstypes.DecString(ordering.Token0Data[1]),
		"amount1Min":     gstypes.DecString(ordering.Token1Data[1]),
		"positionId":     params.PositionID,
	})
}

// AddLiquidityByPriceParams describes an add-liquidity submission with a
// price range, converted to ticks at the pool's tick spacing.
type AddLiquidityByPriceParams struct {
	Token0         gstypes.TokenClassKey
	Token1         gstypes.TokenClassKey
	Fee            gstypes.FeeTier
	TickSpacing    int
	MinPrice       math.LegacyDec
	MaxPrice       math.LegacyDec
	Amount0Desired math.LegacyDec
	Amount1Desired math.LegacyDec
	Amount0Min     math.LegacyDec
	Amount1Min     math.LegacyDec
	PositionID     string
	WalletAddress  string
}

func (ps *PositionService) AddLiquidityByPrice(ctx context.Context, params AddLiquidityByPriceParams) (*events.PendingTransaction, error) {
	wallet, err := ps.resolveWallet(ctx, params.WalletAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, params.Fee); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateTickSpacing(ctx, params.TickSpacing); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, params.MinPrice, "minPrice", true); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, params.MaxPrice, "maxPrice", false); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering(ctx, params.Token0, params.Token1, true,
		[2]math.LegacyDec{params.Amount0Desired, params.Amount0Min},
		[2]math.LegacyDec{params.Amount1Desired, params.Amount1Min})
	if err != nil {
		return nil, err
	}

	minTicks, err := pools.CalculateTicksForPrice(ctx, params.MinPrice, params.TickSpacing)
	if err != nil {
		return nil, err
	}
	maxTicks, err := pools.CalculateTicksForPrice(ctx, params.MaxPrice, params.TickSpacing)
	if err != nil {
		return nil, err
	}

	// A reversed pair mirrors the price range around the pool's canonical
	// orientation
	tickLower, tickUpper := minTicks, maxTicks
	if !ordering.ZeroForOne {
		tickLower, tickUpper = -maxTicks, -minTicks
	}

	return ps.submitLiquidityChange(ctx, "AddLiquidity", wallet, ordering.Token0, ordering.Token1, params.Fee, map[string]interface{}{
		"token0":         ordering.Token0.Payload(),
		"token1":         ordering.Token1.Payload(),
		"fee":            int(params.Fee),
		"owner":          wallet,
		"tickLower":      tickLower,
		"tickUpper":      tickUpper,
		"amount0Desired": gstypes.DecString(ordering.Token0Data[0]),
		"amount1Desired": gstypes.DecString(ordering.Token1Data[0]),
		"amount0Min":     gstypes.DecString(ordering.Token0Data[1]),
		"amount1Min":     gstypes.DecString(ordering.Token1Data[1]),
		"positionId":     params.PositionID,
	})
}

// RemoveLiquidityParams describes a liquidity removal submission. Nil
// minimum amounts default to zero.
type RemoveLiquidityParams struct {
	Token0        gstypes.TokenClassKey
	Token1        gstypes.TokenClassKey
	Fee           gstypes.FeeTier
	TickLower     int
	TickUpper     int
	Amount        math.LegacyDec
	Amount0Min    *math.LegacyDec
	Amount1Min    *math.LegacyDec
	PositionID    string
	WalletAddress string
}

func (ps *PositionService) RemoveLiquidity(ctx context.Context, params RemoveLiquidityParams) (*events.PendingTransaction, error) {
	wallet, err := ps.resolveWallet(ctx, params.WalletAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, params.Fee); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateTickRange(ctx, params.TickLower, params.TickUpper); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, params.Amount, "amount", false); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering(ctx, params.Token0, params.Token1, true,
		decOrZero(params.Amount0Min), decOrZero(params.Amount1Min))
	if err != nil {
		return nil, err
	}
	return ps.submitLiquidityChange(ctx, "RemoveLiquidity", wallet, ordering.Token0, ordering.Token1, params.Fee, map[string]interface{}{
		"token0":     ordering.Token0.Payload(),
		"token1":     ordering.Token1.Payload(),
		"fee":        int(params.Fee),
		"tickLower":  params.TickLower,
		"tickUpper":  params.TickUpper,
		"amount":     gstypes.DecString(params.Amount),
		"amount0Min": gstypes.DecString(ordering.Token0Data),
		"amount1Min": gstypes.DecString(ordering.Token1Data),
		"positionId": params.PositionID,
	})
}

// CollectPositionFeesParams describes a fee collection submission.
type CollectPositionFeesParams struct {
	Token0           gstypes.TokenClassKey
	Token1           gstypes.TokenClassKey
	Fee              gstypes.FeeTier
	TickLower        int
	TickUpper        int
	Amount0Requested math.LegacyDec
	Amount1Requested math.LegacyDec
	PositionID       string
	WalletAddress    string
}

func (ps *PositionService) CollectPositionFees(ctx context.Context, params CollectPositionFeesParams) (*events.PendingTransaction, error) {
	wallet, err := ps.resolveWallet(ctx, params.WalletAddress)
	if err != nil {
		return nil, err
	}
	if err := gstypes.ValidateFee(ctx, params.Fee); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateTickRange(ctx, params.TickLower, params.TickUpper); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, params.Amount0Requested, "amount0Requested", true); err != nil {
		return nil, err
	}
	if err := gstypes.ValidateNumericAmount(ctx, params.Amount1Requested, "amount1Requested", true); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering(ctx, params.Token0, params.Token1, true,
		params.Amount0Requested, params.Amount1Requested)
	if err != nil {
		return nil, err
	}
	return ps.submitLiquidityChange(ctx, "CollectPositionFees", wallet, ordering.Token0, ordering.Token1, params.Fee, map[string]interface{}{
		"token0":           ordering.Token0.Payload(),
		"token1":           ordering.Token1.Payload(),
		"fee":              int(params.Fee),
		"amount0Requested": gstypes.DecString(ordering.Token0Data),
		"amount1Requested": gstypes.DecString(ordering.Token1Data),
		"tickLower":        params.TickLower,
		"tickUpper":        params.TickUpper,
		"positionId":       params.PositionID,
	})
}

// CalculateOptimalPositionSize computes how much of the other token pairs
// with tokenAmount for a position spanning [lowerPrice, upperPrice] at the
// current spot price, adjusting for the two tokens' decimal precision.
func CalculateOptimalPositionSize(ctx context.Context, tokenAmount, spotPrice, lowerPrice, upperPrice math.LegacyDec, tokenDecimals, otherTokenDecimals int) (math.LegacyDec, error) {
	if err := gstypes.ValidateNumericAmount(ctx, tokenAmount, "tokenAmount", false); err != nil {
		return math.LegacyDec{}, err
	}
	if err := gstypes.ValidatePriceValues(ctx, spotPrice, lowerPrice, upperPrice); err != nil {
		return math.LegacyDec{}, err
	}
	if err := gstypes.ValidateTokenDecimals(ctx, tokenDecimals, "tokenDecimals"); err != nil {
		return math.LegacyDec{}, err
	}
	if err := gstypes.ValidateTokenDecimals(ctx, otherTokenDecimals, "otherTokenDecimals"); err != nil {
		return math.LegacyDec{}, err
	}
	sqrtSpot, err := spotPrice.ApproxSqrt()
	if err != nil {
		return math.LegacyDec{}, err
	}
	sqrtLower, err := lowerPrice.ApproxSqrt()
	if err != nil {
		return math.LegacyDec{}, err
	}
	sqrtUpper, err := upperPrice.ApproxSqrt()
	if err != nil {
		return math.LegacyDec{}, err
	}

	// A spot above the range goes negative and clamps to zero below, but a
	// spot at (or rounding to) the upper bound would divide by zero
	denominator := sqrtUpper.Sub(sqrtSpot)
	if denominator.IsZero() {
		return math.LegacyDec{}, i18n.NewError(ctx, msgs.MsgInvalidAmount, "spotPrice", "must not equal upperPrice")
	}

	scale := pow10(tokenDecimals - otherTokenDecimals)
	liquidity := tokenAmount.Mul(scale).Mul(sqrtSpot).Mul(sqrtUpper).Quo(denominator)
	yAmount := liquidity.Mul(sqrtSpot.Sub(sqrtLower))
	untruncated := yAmount.Quo(scale)

	result := roundToDecimals(untruncated, otherTokenDecimals)
	if result.IsNegative() {
		return math.LegacyZeroDec(), nil
	}
	return result, nil
}

func (ps *PositionService) resolveWallet(ctx context.Context, walletAddress string) (string, error) {
	if walletAddress == "" {
		walletAddress = ps.walletAddress
	}
	return gstypes.ValidateWalletAddress(ctx, walletAddress)
}

func (ps *PositionService) postForData(ctx context.Context, endpoint string, body map[string]interface{}) (fftypes.JSONObject, error) {
	var envelope struct {
		Data fftypes.JSONObject `json:"Data"`
	}
	if err := ps.http.Post(ctx, ps.baseURL, ps.basePath, endpoint, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidResponseShape, endpoint)
	}
	return envelope.Data, nil
}

func (ps *PositionService) submitLiquidityChange(ctx context.Context, method, wallet string, token0, token1 gstypes.TokenClassKey, fee gstypes.FeeTier, toSign map[string]interface{}) (*events.PendingTransaction, error) {
	token0Key := token0.Join("$")
	token1Key := token1.Join("$")
	poolString := fmt.Sprintf("$pool$%s$%s$%d", token0Key, token1Key, fee)
	stringsInstructions := []string{
		poolString,
		fmt.Sprintf("$userPosition$%s", wallet),
		fmt.Sprintf("$tokenBalance$%s$%s", token0Key, wallet),
		fmt.Sprintf("$tokenBalance$%s$%s", token1Key, wallet),
		fmt.Sprintf("$tokenBalance$%s$%s", token0Key, poolString),
		fmt.Sprintf("$tokenBalance$%s$%s", token1Key, poolString),
	}
	return ps.bundler.Submit(ctx, method, toSign, stringsInstructions)
}

func (ps *PositionService) parseListedPosition(ctx context.Context, entry fftypes.JSONObject) (*gstypes.LiquidityPosition, error) {
	token0, err := parseTokenClassAny(ctx, entry["token0ClassKey"])
	if err != nil {
		return nil, err
	}
	token1, err := parseTokenClassAny(ctx, entry["token1ClassKey"])
	if err != nil {
		return nil, err
	}
	liquidity, err := gstypes.DecFromAny(ctx, entry["liquidity"], "liquidity")
	if err != nil {
		return nil, err
	}
	return &gstypes.LiquidityPosition{
		PoolHash:       entry.GetString("poolHash"),
		PositionID:     entry.GetString("positionId"),
		Token0ClassKey: token0,
		Token1ClassKey: token1,
		Token0Img:      entry.GetString("token0Img"),
		Token1Img:      entry.GetString("token1Img"),
		Token0Symbol:   entry.GetString("token0Symbol"),
		Token1Symbol:   entry.GetString("token1Symbol"),
		Fee:            gstypes.FeeTier(entry.GetInt64("fee")),
		Liquidity:      liquidity,
		TickLower:      int(entry.GetInt64("tickLower")),
		TickUpper:      int(entry.GetInt64("tickUpper")),
		CreatedAt:      entry.GetString("createdAt"),
	}, nil
}

func (ps *PositionService) parsePosition(ctx context.Context, data fftypes.JSONObject) (*gstypes.GetPositionResult, error) {
	token0, err := parseTokenClassAny(ctx, data["token0ClassKey"])
	if err != nil {
		return nil, err
	}
	token1, err := parseTokenClassAny(ctx, data["token1ClassKey"])
	if err != nil {
		return nil, err
	}

	res := &gstypes.GetPositionResult{
		Fee:            gstypes.FeeTier(data.GetInt64("fee")),
		PoolHash:       data.GetString("poolHash"),
		PositionID:     data.GetString("positionId"),
		TickLower:      int(data.GetInt64("tickLower")),
		TickUpper:      int(data.GetInt64("tickUpper")),
		Token0ClassKey: token0,
		Token1ClassKey: token1,
	}
	for _, f := range []struct {
		name string
		dst  *math.LegacyDec
	}{
		{"feeGrowthInside0Last", &res.FeeGrowthInside0Last},
		{"feeGrowthInside1Last", &res.FeeGrowthInside1Last},
		{"liquidity", &res.Liquidity},
		{"tokensOwed0", &res.TokensOwed0},
		{"tokensOwed1", &res.TokensOwed1},
	} {
		if *f.dst, err = gstypes.DecFromAny(ctx, data[f.name], f.name); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// parseTokenClassAny accepts both wire encodings of a token class key: the
// pipe-joined string and the four-field object.
func parseTokenClassAny(ctx context.Context, v interface{}) (gstypes.TokenClassKey, error) {
	switch tv := v.(type) {
	case string:
		return gstypes.ParseTokenClassKey(ctx, tv)
	case map[string]interface{}:
		obj := fftypes.JSONObject(tv)
		t := gstypes.TokenClassKey{
			Collection:    obj.GetString("collection"),
			Category:      obj.GetString("category"),
			Type:          obj.GetString("type"),
			AdditionalKey: obj.GetString("additionalKey"),
		}
		if t.Collection == "" || t.Category == "" || t.Type == "" || t.AdditionalKey == "" {
			return gstypes.TokenClassKey{}, i18n.NewError(ctx, msgs.MsgInvalidTokenClassKey, obj.String())
		}
		return t, nil
	default:
		return gstypes.TokenClassKey{}, i18n.NewError(ctx, msgs.MsgInvalidTokenClassKey, fmt.Sprintf("%v", v))
	}
}

func decOrZero(d *math.LegacyDec) math.LegacyDec {
	if d == nil || d.IsNil() {
		return math.LegacyZeroDec()
	}
	return *d
}

func pow10(n int) math.LegacyDec {
	ten := math.LegacyNewDec(10)
	if n >= 0 {
		return ten.Power(uint64(n))
	}
	return math.LegacyOneDec().Quo(ten.Power(uint64(-n)))
}

// roundToDecimals rounds half away from zero at the given number of decimal
// places.
func roundToDecimals(d math.LegacyDec, decimals int) math.LegacyDec {
	scale := pow10(decimals)
	scaled := d.Mul(scale)
	return math.LegacyNewDecFromInt(scaled.RoundInt()).Quo(scale)
}
