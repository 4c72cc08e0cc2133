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

// Package gsclient is the top-level entry point of the SDK, wiring the
// individual services together over shared HTTP and event transports.
package gsclient

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/pkg/assets"
	"github.com/gala-dex/gswap-go/pkg/bundler"
	"github.com/gala-dex/gswap-go/pkg/events"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/pools"
	"github.com/gala-dex/gswap-go/pkg/positions"
	"github.com/gala-dex/gswap-go/pkg/quoting"
	"github.com/gala-dex/gswap-go/pkg/signer"
	"github.com/gala-dex/gswap-go/pkg/swaps"
)

// GSwap is the main entry point for interacting with the gSwap DEX. All
// services share one HTTP client and one event service; write operations
// require a signer, read operations do not.
type GSwap struct {
	Events    *events.EventService
	Bundler   *bundler.BundlerService
	Swaps     *swaps.SwapService
	Pools     *pools.PoolService
	Positions *positions.PositionService
	Quoting   *quoting.QuotingService
	Assets    *assets.AssetService
}

// New builds a client from the supplied configuration. s may be nil for a
// read-only client.
func New(ctx context.Context, conf *gsconf.SDKConfig, s signer.GalaChainSigner) *GSwap {
	if conf == nil {
		defaults := gsconf.Defaults
		conf = &defaults
	}
	if conf.LogLevel != nil {
		log.SetLevel(*conf.LogLevel)
	}

	httpClient := gshttp.New(ctx, &conf.HTTP)
	eventService := events.NewEventService(ctx, conf)
	bundlerService := bundler.NewBundlerService(conf, httpClient, s, eventService)
	walletAddress := confutil.StringNotEmpty(conf.WalletAddress, "")

	return &GSwap{
		Events:    eventService,
		Bundler:   bundlerService,
		Swaps:     swaps.NewSwapService(bundlerService, walletAddress),
		Pools:     pools.NewPoolService(conf, httpClient),
		Positions: positions.NewPositionService(conf, httpClient, bundlerService),
		Quoting:   quoting.NewQuotingService(conf, httpClient),
		Assets:    assets.NewAssetService(conf, httpClient),
	}
}

// ConnectEventSocket establishes the bundler event socket so submitted
// transactions can be waited on for confirmation.
func (g *GSwap) ConnectEventSocket(ctx context.Context) error {
	return g.Events.ConnectEventSocket(ctx)
}

// DisconnectEventSocket tears the event socket down, failing any waits
// still outstanding.
func (g *GSwap) DisconnectEventSocket(ctx context.Context) {
	g.Events.DisconnectEventSocket(ctx)
}
