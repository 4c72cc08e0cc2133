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

// Package assets serves wallet token balance queries from the DEX backend.
package assets

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

const maxAssetPageSize = 100

// AssetService queries wallet balances from the DEX backend.
type AssetService struct {
	http    *gshttp.Client
	baseURL string
}

func NewAssetService(conf *gsconf.SDKConfig, httpClient *gshttp.Client) *AssetService {
	return &AssetService{
		http:    httpClient,
		baseURL: confutil.StringNotEmpty(conf.DexBackendBaseURL, *gsconf.Defaults.DexBackendBaseURL),
	}
}

// GetUserAssets returns one page of the owner's token balances. Pages are
// 1-based and the page size is capped at 100.
func (as *AssetService) GetUserAssets(ctx context.Context, ownerAddress string, page, limit int) (*gstypes.GetUserAssetsResult, error) {
	owner, err := gstypes.ValidateWalletAddress(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidPage)
	}
	if limit < 1 || limit > maxAssetPageSize {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidLimit, maxAssetPageSize)
	}

	var envelope struct {
		Data fftypes.JSONObject `json:"data"`
	}
	err = as.http.Get(ctx, as.baseURL, "/user/assets", "", map[string]string{
		"address": owner,
		"page":    strconv.Itoa(page),
		"limit":   strconv.Itoa(limit),
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidResponseShape, "/user/assets")
	}

	result := &gstypes.GetUserAssetsResult{
		Count: int(envelope.Data.GetInt64("count")),
	}
	for _, token := range envelope.Data.GetObjectArray("token") {
		quantity := math.LegacyZeroDec()
		if raw, ok := token["quantity"]; ok {
			if quantity, err = gstypes.DecFromAny(ctx, raw, "quantity"); err != nil {
				return nil, err
			}
		}
		result.Tokens = append(result.Tokens, &gstypes.AssetBalance{
			Image:    token.GetString("image"),
			Name:     token.GetString("name"),
			Decimals: int(token.GetInt64("decimals")),
			Verify:   token.GetBool("verify"),
			Symbol:   token.GetString("symbol"),
			Quantity: quantity,
		})
	}
	return result, nil
}
