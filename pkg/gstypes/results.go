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
	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
)

// TransactionResult is the terminal outcome of a submitted transaction, as
// observed by waiting on the bundler event stream. When a transaction is
// retired without anybody waiting on it (or times out silently), Data is
// empty and TransactionHash equals TxID.
type TransactionResult struct {
	TxID            string             `json:"txId"`
	TransactionHash string             `json:"transactionHash"`
	Data            fftypes.JSONObject `json:"Data"`
}

// GetQuoteResult is the outcome of a swap quote against a single pool.
// Prices are always expressed in terms of the requested in/out direction,
// regardless of the pool's canonical token ordering.
type GetQuoteResult struct {
	Amount0              math.LegacyDec
	Amount1              math.LegacyDec
	CurrentPoolSqrtPrice math.LegacyDec
	NewPoolSqrtPrice     math.LegacyDec
	CurrentPrice         math.LegacyDec
	NewPrice             math.LegacyDec
	InTokenAmount        math.LegacyDec
	OutTokenAmount       math.LegacyDec
	PriceImpact          math.LegacyDec
	FeeTier              FeeTier
}

type PoolData struct {
	Bitmap              map[string]string
	Fee                 FeeTier
	FeeGrowthGlobal0    math.LegacyDec
	FeeGrowthGlobal1    math.LegacyDec
	GrossPoolLiquidity  math.LegacyDec
	Liquidity           math.LegacyDec
	MaxLiquidityPerTick math.LegacyDec
	ProtocolFees        int
	ProtocolFeesToken0  math.LegacyDec
	ProtocolFeesToken1  math.LegacyDec
	SqrtPrice           math.LegacyDec
	TickSpacing         int
	Token0              string
	Token0ClassKey      fftypes.JSONObject
	Token1              string
	Token1ClassKey      fftypes.JSONObject
}

type LiquidityPosition struct {
	PoolHash       string
	PositionID     string
	Token0ClassKey TokenClassKey
	Token1ClassKey TokenClassKey
	Token0Img      string
	Token1Img      string
	Token0Symbol   string
	Token1Symbol   string
	Fee            FeeTier
	Liquidity      math.LegacyDec
	TickLower      int
	TickUpper      int
	CreatedAt      string
}

type GetUserPositionsResult struct {
	Positions []*LiquidityPosition
	Bookmark  string
}

type GetPositionResult struct {
	Fee                  FeeTier
	FeeGrowthInside0Last math.LegacyDec
	FeeGrowthInside1Last math.LegacyDec
	Liquidity            math.LegacyDec
	PoolHash             string
	PositionID           string
	TickLower            int
	TickUpper            int
	Token0ClassKey       TokenClassKey
	Token1ClassKey       TokenClassKey
	TokensOwed0          math.LegacyDec
	TokensOwed1          math.LegacyDec
}

// RemoveLiquidityEstimate is the pair of amounts a liquidity removal would
// currently return.
type RemoveLiquidityEstimate struct {
	Amount0 math.LegacyDec
	Amount1 math.LegacyDec
}

type AssetBalance struct {
	Image    string
	Name     string
	Decimals int
	Verify   bool
	Symbol   string
	Quantity math.LegacyDec
}

type GetUserAssetsResult struct {
	Tokens []*AssetBalance
	Count  int
}
