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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenClassKeyRoundTrip(t *testing.T) {
	key, err := ParseTokenClassKey(context.Background(), "GALA|Unit|none|none")
	require.NoError(t, err)
	assert.Equal(t, "GALA", key.Collection)
	assert.Equal(t, "GALA|Unit|none|none", key.String())
	assert.Equal(t, "GALA$Unit$none$none", key.Join("$"))
}

func TestParseTokenClassKeyInvalid(t *testing.T) {
	for _, bad := range []string{"invalid", "a|b|c", "a|b|c|d|e", "a||c|d", ""} {
		_, err := ParseTokenClassKey(context.Background(), bad)
		assert.Regexp(t, "GS001030", err, bad)
	}
}

func TestTokenClassKeyPayload(t *testing.T) {
	key := MustParseTokenClassKey("GALA|Unit|none|none")
	assert.Equal(t, map[string]interface{}{
		"collection":    "GALA",
		"category":      "Unit",
		"type":          "none",
		"additionalKey": "none",
	}, key.Payload())
}

func TestCompareTokensCaseInsensitive(t *testing.T) {
	gala := MustParseTokenClassKey("GALA|Unit|none|none")
	gusdc := MustParseTokenClassKey("GUSDC|Unit|none|none")
	lower := MustParseTokenClassKey("gala|unit|NONE|NONE")

	assert.Equal(t, -1, CompareTokens(gala, gusdc))
	assert.Equal(t, 1, CompareTokens(gusdc, gala))
	assert.Equal(t, 0, CompareTokens(gala, lower))
}

func TestGetTokenOrderingCorrect(t *testing.T) {
	gala := MustParseTokenClassKey("GALA|Unit|none|none")
	gusdc := MustParseTokenClassKey("GUSDC|Unit|none|none")

	ordering, err := GetTokenOrdering(context.Background(), gala, gusdc, false, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, gala, ordering.Token0)
	assert.True(t, ordering.ZeroForOne)
	assert.Equal(t, "a", ordering.Token0Data)
	assert.Equal(t, "b", ordering.Token1Data)
}

func TestGetTokenOrderingReversed(t *testing.T) {
	gala := MustParseTokenClassKey("GALA|Unit|none|none")
	gusdc := MustParseTokenClassKey("GUSDC|Unit|none|none")

	ordering, err := GetTokenOrdering(context.Background(), gusdc, gala, false, "in", "out")
	require.NoError(t, err)
	assert.Equal(t, gala, ordering.Token0)
	assert.False(t, ordering.ZeroForOne)
	// Attached data follows the tokens through the swap
	assert.Equal(t, "out", ordering.Token0Data)
	assert.Equal(t, "in", ordering.Token1Data)
}

func TestGetTokenOrderingAssertCorrectness(t *testing.T) {
	gala := MustParseTokenClassKey("GALA|Unit|none|none")
	gusdc := MustParseTokenClassKey("GUSDC|Unit|none|none")

	_, err := GetTokenOrdering[any](context.Background(), gusdc, gala, true, nil, nil)
	assert.Regexp(t, "GS001031", err)
}
