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

// Package signer provides payload signing for write operations submitted to
// the bundler. GalaChain signatures are secp256k1 over the keccak256 hash of
// the canonical (sorted-key, compact) JSON form of the payload.
package signer

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"

	"github.com/gala-dex/gswap-go/internal/msgs"
)

// GalaChainSigner signs the payload of a single named contract method call,
// returning the payload with the signature attached.
type GalaChainSigner interface {
	SignObject(ctx context.Context, methodName string, obj map[string]interface{}) (map[string]interface{}, error)
}

// PrivateKeySigner signs locally with a raw secp256k1 private key.
type PrivateKeySigner struct {
	keypair *secp256k1.KeyPair
}

func NewPrivateKeySigner(ctx context.Context, privateKey string) (*PrivateKeySigner, error) {
	keyHex := strings.TrimPrefix(privateKey, "0x")
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgInvalidPrivateKey)
	}
	keypair, err := secp256k1.NewSecp256k1KeyPair(keyBytes)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgInvalidPrivateKey)
	}
	return &PrivateKeySigner{keypair: keypair}, nil
}

func (s *PrivateKeySigner) SignObject(ctx context.Context, methodName string, obj map[string]interface{}) (map[string]interface{}, error) {
	canonical, err := canonicalJSON(obj)
	if err != nil {
		return nil, err
	}
	// SignDirect applies keccak256 to the message before signing
	sig, err := s.keypair.SignDirect(canonical)
	if err != nil {
		return nil, err
	}

	signed := make(map[string]interface{}, len(obj)+1)
	for k, v := range obj {
		signed[k] = v
	}
	signed["signature"] = base64.StdEncoding.EncodeToString(compactRSV(sig))
	return signed, nil
}

// canonicalJSON relies on encoding/json emitting object keys in sorted
// order, which matches GalaChain's canonicalisation for string-keyed maps.
func canonicalJSON(obj map[string]interface{}) ([]byte, error) {
	return json.Marshal(obj)
}

func compactRSV(sig *secp256k1.SignatureData) []byte {
	out := make([]byte, 65)
	sig.R.FillBytes(out[0:32])
	sig.S.FillBytes(out[32:64])
	out[64] = byte(sig.V.Int64())
	return out
}

// GalaWalletSigner is the placeholder for browser-extension wallet signing,
// which has no headless equivalent.
type GalaWalletSigner struct {
	WalletAddress string
}

func (s *GalaWalletSigner) SignObject(ctx context.Context, methodName string, obj map[string]interface{}) (map[string]interface{}, error) {
	return nil, i18n.NewError(ctx, msgs.MsgWalletSignerUnavailable)
}
