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

// Package pools provides pool state queries and tick/price conversion math.
package pools

import (
	"context"
	stdmath "math"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// PoolService queries DEX pool state through the gateway.
type PoolService struct {
	http     *gshttp.Client
	baseURL  string
	basePath string
}

func NewPoolService(conf *gsconf.SDKConfig, httpClient *gshttp.Client) *PoolService {
	return &PoolService{
		http:     httpClient,
		baseURL:  confutil.StringNotEmpty(conf.GatewayBaseURL, *gsconf.Defaults.GatewayBaseURL),
		basePath: confutil.StringNotEmpty(conf.DexContractBasePath, *gsconf.Defaults.DexContractBasePath),
	}
}

// GetPoolData fetches the current on-chain state of the pool for a token
// pair at a fee tier. The pair may be given in either order.
func (ps *PoolService) GetPoolData(ctx context.Context, token0, token1 gstypes.TokenClassKey, fee gstypes.FeeTier) (*gstypes.PoolData, error) {
	if err := gstypes.ValidateFee(ctx, fee); err != nil {
		return nil, err
	}
	ordering, err := gstypes.GetTokenOrdering[any](ctx, token0, token1, false, nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data fftypes.JSONObject `json:"Data"`
	}
	err = ps.http.Post(ctx, ps.baseURL, ps.basePath, "/GetPoolData", map[string]interface{}{
		"token0": ordering.Token0.String(),
		"token1": ordering.Token1.String(),
		"fee":    int(fee),
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidResponseShape, "/GetPoolData")
	}
	return ps.parsePoolData(ctx, ordering.Token0, ordering.Token1, envelope.Data)
}

func (ps *PoolService) parsePoolData(ctx context.Context, token0, token1 gstypes.TokenClassKey, data fftypes.JSONObject) (*gstypes.PoolData, error) {
	pd := &gstypes.PoolData{
		Fee:            gstypes.FeeTier(data.GetInt64("fee")),
		ProtocolFees:   int(data.GetInt64("protocolFees")),
		TickSpacing:    int(data.GetInt64("tickSpacing")),
		Token0:         data.GetString("token0"),
		Token1:         data.GetString("token1"),
		Token0ClassKey: data.GetObject("token0ClassKey"),
		Token1ClassKey: data.GetObject("token1ClassKey"),
	}
	if pd.Token0 == "" {
		pd.Token0 = token0.String()
	}
	if pd.Token1 == "" {
		pd.Token1 = token1.String()
	}

	pd.Bitmap = map[string]string{}
	for k, v := range data.GetObject("bitmap") {
		if s, ok := v.(string); ok {
			pd.Bitmap[k] = s
		}
	}

	var err error
	for _, f := range []struct {
		name string
		dst  *math.LegacyDec
	}{
		{"feeGrowthGlobal0", &pd.FeeGrowthGlobal0},
		{"feeGrowthGlobal1", &pd.FeeGrowthGlobal1},
		{"grossPoolLiquidity", &pd.GrossPoolLiquidity},
		{"liquidity", &pd.Liquidity},
		{"maxLiquidityPerTick", &pd.MaxLiquidityPerTick},
		{"protocolFeesToken0", &pd.ProtocolFeesToken0},
		{"protocolFeesToken1", &pd.ProtocolFeesToken1},
		{"sqrtPrice", &pd.SqrtPrice},
	} {
		if *f.dst, err = gstypes.DecFromAny(ctx, data[f.name], f.name); err != nil {
			return nil, err
		}
	}
	return pd, nil
}

// CalculateTicksForPrice converts a token0/token1 price to the nearest
// initializable tick at the given spacing, clamped to the tick range the
// contract supports. A zero price maps to the minimum tick.
func CalculateTicksForPrice(ctx context.Context, price math.LegacyDec, tickSpacing int) (int, error) {
	if err := gstypes.ValidateNumericAmount(ctx, price, "price", true); err != nil {
		return 0, err
	}
	if err := gstypes.ValidateTickSpacing(ctx, tickSpacing); err != nil {
		return 0, err
	}
	if price.IsZero() {
		return gstypes.MinTick, nil
	}

	priceFloat, err := price.Float64()
	if err != nil {
		return 0, err
	}
	rawTicks := int(stdmath.Round(stdmath.Log(priceFloat) / stdmath.Log(1.0001)))
	ticks := floorDiv(rawTicks, tickSpacing) * tickSpacing
	if ticks < gstypes.MinTick {
		return gstypes.MinTick, nil
	}
	if ticks > gstypes.MaxTick {
		return gstypes.MaxTick, nil
	}
	return ticks, nil
}

// CalculatePriceForTicks returns the token0/token1 price at a tick. The
// minimum tick maps to zero.
func CalculatePriceForTicks(ctx context.Context, tick int) (math.LegacyDec, error) {
	if tick < gstypes.MinTick || tick > gstypes.MaxTick {
		return math.LegacyDec{}, i18n.NewError(ctx, msgs.MsgInvalidTickBounds, gstypes.MinTick, gstypes.MaxTick)
	}
	if tick == gstypes.MinTick {
		return math.LegacyZeroDec(), nil
	}

	base := math.LegacyMustNewDecFromStr("1.0001")
	if tick >= 0 {
		return base.Power(uint64(tick)), nil
	}
	return math.LegacyOneDec().Quo(base.Power(uint64(-tick))), nil
}

// CalculateSpotPrice derives the current inToken/outToken exchange rate from
// a pool's sqrt price, accounting for the pair's canonical ordering.
func CalculateSpotPrice(ctx context.Context, inToken, outToken gstypes.TokenClassKey, poolSqrtPrice math.LegacyDec) (math.LegacyDec, error) {
	if err := gstypes.ValidateNumericAmount(ctx, poolSqrtPrice, "poolSqrtPrice", false); err != nil {
		return math.LegacyDec{}, err
	}
	ordering, err := gstypes.GetTokenOrdering[any](ctx, inToken, outToken, false, nil, nil)
	if err != nil {
		return math.LegacyDec{}, err
	}
	poolPrice := poolSqrtPrice.Mul(poolSqrtPrice)
	if ordering.ZeroForOne {
		return poolPrice, nil
	}
	return math.LegacyOneDec().Quo(poolPrice), nil
}

// floorDiv matches mathematical floor division for negative numerators.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
