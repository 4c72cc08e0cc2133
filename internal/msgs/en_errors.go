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

package msgs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

// The prefix must be registered before the first FFE call below, so ffe is
// built by an initializer that performs the registration first.
var ffe = func() func(key, translation string, statusHints ...int) i18n.ErrorMessageKey {
	i18n.RegisterPrefix("GS00", "gSwap SDK")
	return func(key, translation string, statusHints ...int) i18n.ErrorMessageKey {
		return i18n.FFE(language.AmericanEnglish, key, translation, statusHints...)
	}
}()

var (
	// Generic
	MsgNoSigner                = ffe("GS001000", "This method requires a signer. Provide a signer when constructing the GSwap client")
	MsgInvalidPrivateKey       = ffe("GS001001", "Private key must be a hexadecimal string")
	MsgWalletSignerUnavailable = ffe("GS001002", "Gala wallet signing is not available in this environment")

	// Transaction waiter
	MsgSocketConnectionRequired = ffe("GS001010", "This method requires a socket connection. Did you call ConnectEventSocket()?")
	MsgTxAlreadyRegistered      = ffe("GS001011", "Transaction ID '%s' is already registered for waiting")
	MsgTxNotRegistered          = ffe("GS001012", "Transaction ID '%s' is not registered for waiting")
	MsgTxAlreadyWaited          = ffe("GS001013", "Transaction ID '%s' already has a waiter attached")
	MsgTxWaitTimeout            = ffe("GS001014", "Transaction wait timed out for transaction ID '%s'")
	MsgTxWaitFailed             = ffe("GS001015", "Transaction wait failed for transaction ID '%s'")
	MsgTxWaiterDisabled         = ffe("GS001016", "Transaction waiter disabled while transaction ID '%s' was pending")

	// HTTP / remote services
	MsgRequestFailed        = ffe("GS001020", "Request to %s failed: %s")
	MsgUnexpectedHTTPError  = ffe("GS001021", "Unexpected HTTP error %d from %s")
	MsgGalaChainError       = ffe("GS001022", "GalaChain error %s from %s: %s")
	MsgInvalidResponseShape = ffe("GS001023", "Unexpected response structure from %s")
	MsgInvalidBundlerTxID   = ffe("GS001024", "Invalid bundler response: missing transaction id")

	// Tokens and pools
	MsgInvalidTokenClassKey     = ffe("GS001030", "Invalid token class key '%s'")
	MsgIncorrectTokenOrdering   = ffe("GS001031", "Token ordering is incorrect. token0 '%s' should sort below token1 '%s'")
	MsgNoPoolAvailable          = ffe("GS001032", "No pools available for the specified token pair %s/%s")
	MsgNoPoolAvailableAtFeeTier = ffe("GS001033", "No pool available for the token pair %s/%s at fee tier %d")

	// Validation
	MsgInvalidAmount         = ffe("GS001040", "Invalid %s: %s")
	MsgInvalidPriceRange     = ffe("GS001041", "Invalid price range: lower price %s must be less than or equal to upper price %s")
	MsgInvalidTickOrder      = ffe("GS001042", "Invalid tick range: tickLower %d must be less than tickUpper %d")
	MsgInvalidTickBounds     = ffe("GS001043", "Invalid tick range: ticks must be between %d and %d")
	MsgInvalidTickSpacing    = ffe("GS001044", "Invalid tick spacing: must be a positive integer")
	MsgInvalidFee            = ffe("GS001045", "Invalid fee: must be a non-negative integer")
	MsgMissingWalletAddress  = ffe("GS001046", "No wallet address provided. Pass one to the operation, or set one on the GSwap client")
	MsgInvalidWalletAddress  = ffe("GS001047", "Invalid wallet address: must be a non-empty string")
	MsgInvalidTokenDecimals  = ffe("GS001048", "Invalid %s: must be a non-negative integer")
	MsgExactAmountRequired   = ffe("GS001049", "Swap amount must specify either exact-in or exact-out")
	MsgInvalidPage           = ffe("GS001050", "Invalid page: must be a positive integer")
	MsgInvalidLimit          = ffe("GS001051", "Invalid limit: must be an integer between 1 and %d")
)
