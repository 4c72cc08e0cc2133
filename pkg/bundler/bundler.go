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

// Package bundler submits signed chaincode operations to the GalaChain
// transaction bundler and hands back pending-transaction handles that can be
// waited on for confirmation.
package bundler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/gshttp"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/events"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/signer"
)

// BundlerService signs operation payloads and submits them to the bundling
// API. One instance is shared by all trading services of a client.
type BundlerService struct {
	http     *gshttp.Client
	signer   signer.GalaChainSigner
	events   *events.EventService
	baseURL  string
	basePath string
}

type bundlerRequest struct {
	Method              string                 `json:"method"`
	SignedDTO           map[string]interface{} `json:"signedDto"`
	StringsInstructions []string               `json:"stringsInstructions"`
}

type bundlerResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Error   bool        `json:"error"`
}

func NewBundlerService(conf *gsconf.SDKConfig, httpClient *gshttp.Client, s signer.GalaChainSigner, es *events.EventService) *BundlerService {
	return &BundlerService{
		http:     httpClient,
		signer:   s,
		events:   es,
		baseURL:  confutil.StringNotEmpty(conf.BundlerBaseURL, *gsconf.Defaults.BundlerBaseURL),
		basePath: confutil.StringNotEmpty(conf.BundlingAPIBasePath, *gsconf.Defaults.BundlingAPIBasePath),
	}
}

// SignObject stamps the payload with a fresh unique key and signs it for the
// named chaincode method. The unique key format is fixed by the bundler's
// replay protection and must not change.
func (bs *BundlerService) SignObject(ctx context.Context, methodName string, obj map[string]interface{}) (map[string]interface{}, error) {
	if bs.signer == nil {
		return nil, i18n.NewError(ctx, msgs.MsgNoSigner)
	}
	if _, ok := obj["uniqueKey"]; !ok {
		obj["uniqueKey"] = fmt.Sprintf("galaswap - operation - %s", uuid.New().String())
	}
	return bs.signer.SignObject(ctx, methodName, obj)
}

// SendBundlerRequest posts a signed payload to the bundling API, registers
// the returned transaction id for confirmation tracking, and returns the
// pending handle.
func (bs *BundlerService) SendBundlerRequest(ctx context.Context, method string, signedDTO map[string]interface{}, stringsInstructions []string) (*events.PendingTransaction, error) {
	if stringsInstructions == nil {
		stringsInstructions = []string{}
	}
	var res bundlerResponse
	err := bs.http.Post(ctx, bs.baseURL, bs.basePath, "", &bundlerRequest{
		Method:              method,
		SignedDTO:           signedDTO,
		StringsInstructions: stringsInstructions,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Error {
		return nil, i18n.NewError(ctx, msgs.MsgRequestFailed, method, res.Message)
	}
	txID, ok := res.Data.(string)
	if !ok || txID == "" {
		return nil, i18n.NewError(ctx, msgs.MsgInvalidBundlerTxID, method)
	}

	log.L(ctx).Debugf("Bundler accepted %s as transaction %s", method, txID)
	if regErr := bs.events.RegisterTxID(ctx, txID); regErr != nil {
		// Extremely unlikely (bundler ids are unique) but the submission
		// itself succeeded, so surface the handle anyway
		log.L(ctx).Warnf("Could not track transaction %s: %s", txID, regErr)
	}
	return events.NewPendingTransaction(txID, res.Message, bs.events), nil
}

// Submit is the common sign-then-send path used by the trading services.
func (bs *BundlerService) Submit(ctx context.Context, method string, obj map[string]interface{}, stringsInstructions []string) (*events.PendingTransaction, error) {
	signed, err := bs.SignObject(ctx, method, obj)
	if err != nil {
		return nil, err
	}
	return bs.SendBundlerRequest(ctx, method, signed, stringsInstructions)
}
