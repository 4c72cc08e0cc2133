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
	"testing"
	"time"

	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

type waitOutcome struct {
	result *gstypes.TransactionResult
	err    error
}

func newEnabledWaiter(t *testing.T) (*TransactionWaiter, *FakeClockForTesting) {
	clock := &FakeClockForTesting{}
	w := NewTransactionWaiter(clock)
	w.SetEnabled(context.Background(), true)
	return w, clock
}

func startWait(w *TransactionWaiter, ctx context.Context, txID string) chan waitOutcome {
	ch := make(chan waitOutcome, 1)
	go func() {
		res, err := w.Wait(ctx, txID)
		ch <- waitOutcome{result: res, err: err}
	}()
	return ch
}

func waitForWaiterAttached(t *testing.T, w *TransactionWaiter, txID string) {
	require.Eventually(t, func() bool {
		w.lock.Lock()
		defer w.lock.Unlock()
		pw := w.pending[txID]
		return pw != nil && pw.waited
	}, 2*time.Second, time.Millisecond)
}

func TestWaitNotRegistered(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	_, err := w.Wait(context.Background(), "tx-unknown")
	assert.Regexp(t, "GS001012", err)
}

func TestRegisterWhileDisabledIsNoop(t *testing.T) {
	clock := &FakeClockForTesting{}
	w := NewTransactionWaiter(clock)

	err := w.RegisterTxID(context.Background(), "tx1", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, w.PendingCount())

	_, err = w.Wait(context.Background(), "tx1")
	assert.Regexp(t, "GS001012", err)
}

func TestDuplicateRegistration(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	err := w.RegisterTxID(ctx, "tx1", time.Minute)
	assert.Regexp(t, "GS001011", err)
}

func TestWaitedSuccessDeliversRealPayload(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	w.NotifySuccess(ctx, "tx1", fftypes.JSONObject{
		"transactionId": "0xabc123",
		"Data":          map[string]interface{}{"amount": "100"},
	})

	out := <-ch
	require.NoError(t, out.err)
	assert.Equal(t, "tx1", out.result.TxID)
	assert.Equal(t, "0xabc123", out.result.TransactionHash)
	assert.Equal(t, "100", out.result.Data.GetString("amount"))
	assert.Zero(t, w.PendingCount())
}

func TestWaitedSuccessFallsBackToTxIDHash(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	w.NotifySuccess(ctx, "tx1", fftypes.JSONObject{})

	out := <-ch
	require.NoError(t, out.err)
	assert.Equal(t, "tx1", out.result.TransactionHash)
	assert.NotNil(t, out.result.Data)
}

func TestWaitedFailureDeliversDetail(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	w.NotifyFailure(ctx, "tx1", fftypes.JSONObject{
		"transactionId": "0xdead",
		"reason":        "INSUFFICIENT_LIQUIDITY",
	})

	out := <-ch
	require.Error(t, out.err)
	assert.Regexp(t, "GS001015", out.err)
	var failErr *TransactionFailedError
	require.ErrorAs(t, out.err, &failErr)
	assert.Equal(t, "tx1", failErr.TxID)
	assert.Equal(t, "0xdead", failErr.TransactionHash)
	assert.Equal(t, "INSUFFICIENT_LIQUIDITY", failErr.Detail.GetString("reason"))
	assert.Zero(t, w.PendingCount())
}

func TestWaitedTimeout(t *testing.T) {
	w, clock := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	clock.Advance(60_000)

	out := <-ch
	require.Error(t, out.err)
	assert.Regexp(t, "GS001014", out.err)
	assert.Nil(t, out.result)
	assert.Zero(t, w.PendingCount())
}

func TestUnwaitedTimeoutRetiresEntry(t *testing.T) {
	w, clock := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	clock.Advance(60_000)

	assert.Zero(t, w.PendingCount())
	_, err := w.Wait(ctx, "tx1")
	assert.Regexp(t, "GS001012", err)

	// The id can be reused once the entry has retired
	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
}

func TestNotifyBeforeWaitReturnsSyntheticSuccess(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	w.NotifySuccess(ctx, "tx1", fftypes.JSONObject{
		"transactionId": "0xabc123",
		"Data":          map[string]interface{}{"amount": "100"},
	})

	// Entry stays observable until waited on or swept
	assert.Equal(t, 1, w.PendingCount())

	res, err := w.Wait(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", res.TxID)
	assert.Equal(t, "tx1", res.TransactionHash)
	assert.Empty(t, res.Data)
	assert.Zero(t, w.PendingCount())
}

func TestUnwaitedFailureBecomesSyntheticSuccess(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	w.NotifyFailure(ctx, "tx1", fftypes.JSONObject{"reason": "whatever"})

	res, err := w.Wait(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", res.TxID)
	assert.Equal(t, "tx1", res.TransactionHash)
}

func TestResolvedTombstoneSweptByTimer(t *testing.T) {
	w, clock := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	w.NotifySuccess(ctx, "tx1", fftypes.JSONObject{})
	assert.Equal(t, 1, w.PendingCount())

	clock.Advance(60_000)
	assert.Zero(t, w.PendingCount())

	_, err := w.Wait(ctx, "tx1")
	assert.Regexp(t, "GS001012", err)
}

func TestNotifyUnknownTxIsNoop(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	w.NotifySuccess(ctx, "tx-unknown", fftypes.JSONObject{})
	w.NotifyFailure(ctx, "tx-unknown", fftypes.JSONObject{})
	assert.Zero(t, w.PendingCount())
}

func TestSecondConcurrentWaitRejected(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	_, err := w.Wait(ctx, "tx1")
	assert.Regexp(t, "GS001013", err)

	w.NotifySuccess(ctx, "tx1", fftypes.JSONObject{})
	out := <-ch
	require.NoError(t, out.err)
}

func TestDisableFailsAllPending(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", time.Minute))
	require.NoError(t, w.RegisterTxID(ctx, "tx2", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	w.SetEnabled(ctx, false)

	out := <-ch
	require.Error(t, out.err)
	assert.Regexp(t, "GS001016", out.err)
	assert.Zero(t, w.PendingCount())
}

func TestWaitContextCancelDoesNotRetireEntry(t *testing.T) {
	w, _ := newEnabledWaiter(t)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, w.RegisterTxID(context.Background(), "tx1", time.Minute))
	ch := startWait(w, ctx, "tx1")
	waitForWaiterAttached(t, w, "tx1")

	cancel()
	out := <-ch
	assert.ErrorIs(t, out.err, context.Canceled)
	assert.Equal(t, 1, w.PendingCount())

	// The notification still performs the terminal resolution
	w.NotifySuccess(context.Background(), "tx1", fftypes.JSONObject{})
	assert.Zero(t, w.PendingCount())
}

func TestZeroTimeoutFiresImmediately(t *testing.T) {
	w, clock := newEnabledWaiter(t)
	ctx := context.Background()

	require.NoError(t, w.RegisterTxID(ctx, "tx1", 0))
	clock.Advance(0)
	assert.Zero(t, w.PendingCount())
}

func TestTimeoutSurvivesRegistrationContextCancel(t *testing.T) {
	// Real clock: registrations routinely arrive on request-scoped contexts,
	// and the timeout must still retire the entry after those are cancelled
	w := NewTransactionWaiter(nil)
	w.SetEnabled(context.Background(), true)

	regCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.RegisterTxID(regCtx, "tx1", 20*time.Millisecond))
	cancel()

	require.Eventually(t, func() bool {
		return w.PendingCount() == 0
	}, 2*time.Second, 5*time.Millisecond)

	// The id is reusable once retired
	require.NoError(t, w.RegisterTxID(context.Background(), "tx1", time.Minute))
}
