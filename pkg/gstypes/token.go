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
	"context"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"

	"github.com/gala-dex/gswap-go/internal/msgs"
)

// TokenClassKey identifies a GalaChain token class. The canonical string form
// joins the four components with "|", e.g. "GALA|Unit|none|none".
type TokenClassKey struct {
	Collection    string `json:"collection"`
	Category      string `json:"category"`
	Type          string `json:"type"`
	AdditionalKey string `json:"additionalKey"`
}

func (t TokenClassKey) String() string {
	return t.Join("|")
}

// Join returns the string form of the key using the supplied separator.
// The bundler's strings-instructions use "$" rather than "|".
func (t TokenClassKey) Join(separator string) string {
	return strings.Join([]string{t.Collection, t.Category, t.Type, t.AdditionalKey}, separator)
}

// Payload returns the GalaChain API representation of the key, as a plain
// map so it composes into payloads for canonical signing.
func (t TokenClassKey) Payload() map[string]interface{} {
	return map[string]interface{}{
		"collection":    t.Collection,
		"category":      t.Category,
		"type":          t.Type,
		"additionalKey": t.AdditionalKey,
	}
}

// ParseTokenClassKey parses the canonical pipe-separated form. All four
// components must be present and non-empty.
func ParseTokenClassKey(ctx context.Context, s string) (TokenClassKey, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return TokenClassKey{}, i18n.NewError(ctx, msgs.MsgInvalidTokenClassKey, s)
	}
	for _, p := range parts {
		if p == "" {
			return TokenClassKey{}, i18n.NewError(ctx, msgs.MsgInvalidTokenClassKey, s)
		}
	}
	return TokenClassKey{
		Collection:    parts[0],
		Category:      parts[1],
		Type:          parts[2],
		AdditionalKey: parts[3],
	}, nil
}

// MustParseTokenClassKey is for static token keys in tests and examples.
func MustParseTokenClassKey(s string) TokenClassKey {
	t, err := ParseTokenClassKey(context.Background(), s)
	if err != nil {
		panic(err)
	}
	return t
}

// CompareTokens orders two token class keys case-insensitively by their
// canonical string form, returning -1, 0 or 1.
func CompareTokens(first, second TokenClassKey) int {
	a := strings.ToLower(first.String())
	b := strings.ToLower(second.String())
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TokenOrdering is the canonical (token0, token1) ordering of a pair, with
// any caller-supplied per-token data re-aligned to match.
type TokenOrdering[T any] struct {
	Token0     TokenClassKey
	Token1     TokenClassKey
	ZeroForOne bool
	Token0Data T
	Token1Data T
}

// GetTokenOrdering returns the canonical ordering for a token pair. When
// assertCorrectness is set, the pair must already be correctly ordered.
func GetTokenOrdering[T any](ctx context.Context, first, second TokenClassKey, assertCorrectness bool, firstData, secondData T) (*TokenOrdering[T], error) {
	if CompareTokens(first, second) < 0 {
		return &TokenOrdering[T]{
			Token0:     first,
			Token1:     second,
			ZeroForOne: true,
			Token0Data: firstData,
			Token1Data: secondData,
		}, nil
	}
	if assertCorrectness {
		return nil, i18n.NewError(ctx, msgs.MsgIncorrectTokenOrdering, first, second)
	}
	return &TokenOrdering[T]{
		Token0:     second,
		Token1:     first,
		ZeroForOne: false,
		Token0Data: secondData,
		Token1Data: firstData,
	}, nil
}
