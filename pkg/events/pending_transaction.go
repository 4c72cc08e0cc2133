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

package events

import (
	"context"

	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// Waiter is the confirmation surface a submitted transaction waits against.
type Waiter interface {
	Wait(ctx context.Context, txID string) (*gstypes.TransactionResult, error)
}

// PendingTransaction is the handle returned from a fire-and-forget style
// submission: the transaction id and message are available immediately, and
// Wait blocks for chain confirmation.
type PendingTransaction struct {
	TxID    string
	Message string
	waiter  Waiter
}

func NewPendingTransaction(txID, message string, waiter Waiter) *PendingTransaction {
	return &PendingTransaction{
		TxID:    txID,
		Message: message,
		waiter:  waiter,
	}
}

// Wait blocks until the transaction is confirmed, fails, or times out.
func (p *PendingTransaction) Wait(ctx context.Context) (*gstypes.TransactionResult, error) {
	return p.waiter.Wait(ctx, p.TxID)
}
