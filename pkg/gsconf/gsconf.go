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

// Package gsconf holds the externally supplied configuration for the SDK.
// All fields are optional pointers; unset values resolve to Defaults.
package gsconf

import "github.com/gala-dex/gswap-go/internal/confutil"

type SDKConfig struct {
	GatewayBaseURL         *string      `json:"gatewayBaseURL"`
	DexContractBasePath    *string      `json:"dexContractBasePath"`
	TokenContractBasePath  *string      `json:"tokenContractBasePath"`
	BundlerBaseURL         *string      `json:"bundlerBaseURL"`
	BundlingAPIBasePath    *string      `json:"bundlingAPIBasePath"`
	DexBackendBaseURL      *string      `json:"dexBackendBaseURL"`
	TransactionWaitTimeout *string      `json:"transactionWaitTimeout"`
	WalletAddress          *string      `json:"walletAddress"`
	LogLevel               *string      `json:"logLevel"`
	HTTP                   HTTPConfig   `json:"http"`
	Events                 EventsConfig `json:"events"`
}

type HTTPConfig struct {
	RequestTimeout *string `json:"requestTimeout"`
	UserAgent      *string `json:"userAgent"`
}

type EventsConfig struct {
	Reconnect ReconnectConfig `json:"reconnect"`
}

// ReconnectConfig controls re-establishment of the bundler event socket after
// an unexpected drop. The policy is deliberately configuration-driven rather
// than hardcoded in the transport.
type ReconnectConfig struct {
	Enabled      *bool    `json:"enabled"`
	InitialDelay *string  `json:"initialDelay"`
	MaximumDelay *string  `json:"maximumDelay"`
	Factor       *float64 `json:"factor"`
}

var Defaults = SDKConfig{
	GatewayBaseURL:         confutil.P("https://gateway-mainnet.galachain.com"),
	DexContractBasePath:    confutil.P("/api/asset/dexv3-contract"),
	TokenContractBasePath:  confutil.P("/api/asset/token-contract"),
	BundlerBaseURL:         confutil.P("https://bundle-backend-prod1.defi.gala.com"),
	BundlingAPIBasePath:    confutil.P("/bundle"),
	DexBackendBaseURL:      confutil.P("https://dex-backend-prod1.defi.gala.com"),
	TransactionWaitTimeout: confutil.P("300s"),
	HTTP: HTTPConfig{
		RequestTimeout: confutil.P("30s"),
		UserAgent:      confutil.P("gswap-go/0.1"),
	},
	Events: EventsConfig{
		Reconnect: ReconnectConfig{
			Enabled:      confutil.P(true),
			InitialDelay: confutil.P("250ms"),
			MaximumDelay: confutil.P("30s"),
			Factor:       confutil.P(2.0),
		},
	},
}
