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
	"sync"
	"time"

	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// TransactionFailedError carries the raw failure payload delivered by the
// bundler for a transaction that a consumer was actively waiting on.
type TransactionFailedError struct {
	TxID            string
	TransactionHash string
	Detail          fftypes.JSONObject
	err             error
}

func (e *TransactionFailedError) Error() string {
	return e.err.Error()
}

// pendingWait tracks one outstanding transaction id.
//
// Outcome fields are written exactly once, under the waiter's lock, strictly
// before done is closed. A goroutine unblocked by done therefore observes a
// fully written outcome without re-taking the lock.
type pendingWait struct {
	txID        string
	waited      bool
	resolved    bool
	result      *gstypes.TransactionResult
	err         error
	done        chan struct{}
	cancelTimer func()
}

// TransactionWaiter reconciles, per transaction id, three racing sources —
// a blocking Wait call, a push notification, and a timeout — into exactly
// one terminal outcome. Whichever of {notify, timer} acts first performs the
// resolve; the loser finds the entry gone (or already resolved) and becomes
// a no-op.
//
// A transaction resolved before anyone waited stays briefly observable: the
// entry is marked resolved with the synthetic accepted outcome and its
// original timer is left running as the retirement sweep, so a late Wait
// still returns immediately rather than blocking or failing.
type TransactionWaiter struct {
	lock    sync.Mutex
	enabled bool
	pending map[string]*pendingWait
	clock   Clock
}

func NewTransactionWaiter(clock Clock) *TransactionWaiter {
	if clock == nil {
		clock = RealClock()
	}
	return &TransactionWaiter{
		pending: make(map[string]*pendingWait),
		clock:   clock,
	}
}

// SetEnabled(false) force-resolves every pending entry with a failure and
// clears the map, so no waiter can block forever once the transport that
// would have delivered its notification is gone.
func (w *TransactionWaiter) SetEnabled(ctx context.Context, enabled bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.enabled = enabled
	if enabled {
		return
	}
	for txID, pw := range w.pending {
		if pw.cancelTimer != nil {
			pw.cancelTimer()
		}
		if !pw.resolved {
			pw.resolved = true
			pw.err = &TransactionFailedError{
				TxID: txID,
				err:  i18n.NewError(ctx, msgs.MsgTxWaiterDisabled, txID),
			}
			close(pw.done)
			failedCounter.Inc()
		}
		delete(w.pending, txID)
		pendingGauge.Dec()
	}
}

// RegisterTxID creates the pending entry for a transaction id and starts its
// timeout. While the waiter is disabled the registration is accepted as a
// no-op, so a subsequent Wait fails fast rather than blocking on an event
// that can never arrive.
func (w *TransactionWaiter) RegisterTxID(ctx context.Context, txID string, timeout time.Duration) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if _, exists := w.pending[txID]; exists {
		return i18n.NewError(ctx, msgs.MsgTxAlreadyRegistered, txID)
	}
	if !w.enabled {
		log.L(ctx).Debugf("Waiter disabled - not registering transaction %s", txID)
		return nil
	}

	pw := &pendingWait{
		txID: txID,
		done: make(chan struct{}),
	}
	w.pending[txID] = pw
	pw.cancelTimer = w.clock.ScheduleTimer(ctx, timeout, func() {
		w.onTimeout(ctx, txID)
	})
	registeredCounter.Inc()
	pendingGauge.Inc()
	return nil
}

// Wait blocks until the transaction resolves, returning the terminal
// outcome. At most one waiter may be attached to a transaction id.
//
// Context cancellation abandons the wait without retiring the entry; the
// timer or a notification still performs the terminal resolution later.
func (w *TransactionWaiter) Wait(ctx context.Context, txID string) (*gstypes.TransactionResult, error) {
	w.lock.Lock()
	pw, exists := w.pending[txID]
	if !exists {
		w.lock.Unlock()
		return nil, i18n.NewError(ctx, msgs.MsgTxNotRegistered, txID)
	}
	if pw.resolved {
		// Resolved before anyone waited - retire the entry and hand back the outcome
		if pw.cancelTimer != nil {
			pw.cancelTimer()
		}
		delete(w.pending, txID)
		pendingGauge.Dec()
		w.lock.Unlock()
		return pw.result, pw.err
	}
	if pw.waited {
		w.lock.Unlock()
		return nil, i18n.NewError(ctx, msgs.MsgTxAlreadyWaited, txID)
	}
	pw.waited = true
	done := pw.done
	w.lock.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Belt and braces - the resolver already cancelled any live timer
	if pw.cancelTimer != nil {
		pw.cancelTimer()
	}
	return pw.result, pw.err
}

// NotifySuccess resolves a transaction with the real payload when a waiter
// is attached. With no waiter attached the data is discarded and the entry
// resolves to the synthetic accepted outcome, left for a late Wait to
// observe (the running timer retires it otherwise).
func (w *TransactionWaiter) NotifySuccess(ctx context.Context, txID string, data fftypes.JSONObject) {
	w.lock.Lock()
	defer w.lock.Unlock()
	pw, exists := w.pending[txID]
	if !exists || pw.resolved {
		return
	}
	pw.resolved = true
	if pw.waited {
		if pw.cancelTimer != nil {
			pw.cancelTimer()
		}
		delete(w.pending, txID)
		pendingGauge.Dec()
		txHash := data.GetString("transactionId")
		if txHash == "" {
			txHash = txID
		}
		resultData := data.GetObject("Data")
		if resultData == nil {
			resultData = fftypes.JSONObject{}
		}
		pw.result = &gstypes.TransactionResult{
			TxID:            txID,
			TransactionHash: txHash,
			Data:            resultData,
		}
	} else {
		pw.result = syntheticAccepted(txID)
	}
	confirmedCounter.Inc()
	close(pw.done)
}

// NotifyFailure resolves a transaction as failed when a waiter is attached.
// An unobserved failure is moot - the caller never requested the result -
// and resolves to the synthetic accepted outcome instead.
func (w *TransactionWaiter) NotifyFailure(ctx context.Context, txID string, detail fftypes.JSONObject) {
	w.lock.Lock()
	defer w.lock.Unlock()
	pw, exists := w.pending[txID]
	if !exists || pw.resolved {
		return
	}
	pw.resolved = true
	if pw.waited {
		if pw.cancelTimer != nil {
			pw.cancelTimer()
		}
		delete(w.pending, txID)
		pendingGauge.Dec()
		pw.err = &TransactionFailedError{
			TxID:            txID,
			TransactionHash: detail.GetString("transactionId"),
			Detail:          detail,
			err:             i18n.NewError(ctx, msgs.MsgTxWaitFailed, txID),
		}
		failedCounter.Inc()
	} else {
		pw.result = syntheticAccepted(txID)
		confirmedCounter.Inc()
	}
	close(pw.done)
}

func (w *TransactionWaiter) onTimeout(ctx context.Context, txID string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	pw, exists := w.pending[txID]
	if !exists {
		// Resolved and retired before the timer fired
		return
	}
	delete(w.pending, txID)
	pendingGauge.Dec()
	if pw.resolved {
		// Retirement sweep for an entry resolved with no waiter attached
		return
	}
	pw.resolved = true
	if pw.waited {
		pw.err = i18n.NewError(ctx, msgs.MsgTxWaitTimeout, txID)
		timeoutCounter.Inc()
	} else {
		pw.result = syntheticAccepted(txID)
		confirmedCounter.Inc()
	}
	log.L(ctx).Debugf("Transaction %s timed out (waited=%t)", txID, pw.waited)
	close(pw.done)
}

// PendingCount reports the number of in-flight entries, including resolved
// entries not yet observed or swept.
func (w *TransactionWaiter) PendingCount() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.pending)
}

// A silent timeout or unobserved failure after submission is treated as a
// presumptive success, carrying the transaction id as both id and hash.
func syntheticAccepted(txID string) *gstypes.TransactionResult {
	return &gstypes.TransactionResult{
		TxID:            txID,
		TransactionHash: txID,
		Data:            fftypes.JSONObject{},
	}
}
