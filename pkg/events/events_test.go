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
	"fmt"
	"testing"

	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gala-dex/gswap-go/pkg/gsconf"
)

type fakeSocket struct {
	emitter   *Emitter
	connected bool
	startErr  error
	stops     int
}

func (f *fakeSocket) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.connected = true
	return nil
}

func (f *fakeSocket) Stop() {
	f.connected = false
	f.stops++
}

func (f *fakeSocket) Connected() bool { return f.connected }

func (f *fakeSocket) Events() *Emitter { return f.emitter }

func newTestEventService(t *testing.T) (*EventService, *fakeSocket, *FakeClockForTesting, *int) {
	conf := gsconf.Defaults
	clock := &FakeClockForTesting{}
	socket := &fakeSocket{emitter: &Emitter{}}
	dials := 0
	es := newEventService(context.Background(), &conf, func(ctx context.Context, baseURL string, _ *gsconf.EventsConfig) TradeEventEmitter {
		dials++
		return socket
	}, clock)
	return es, socket, clock, &dials
}

func TestConnectEventSocketIdempotent(t *testing.T) {
	es, _, _, dials := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.ConnectEventSocket(ctx))
	assert.Equal(t, 1, *dials)
	assert.True(t, es.Connected())
}

func TestConnectEventSocketFailure(t *testing.T) {
	es, socket, _, _ := newTestEventService(t)
	socket.startErr = fmt.Errorf("pop")

	err := es.ConnectEventSocket(context.Background())
	assert.Regexp(t, "pop", err)
	assert.False(t, es.Connected())
}

func TestWaitWithoutConnectionFailsFast(t *testing.T) {
	es, _, _, _ := newTestEventService(t)
	_, err := es.Wait(context.Background(), "tx1")
	assert.Regexp(t, "GS001010", err)
}

func TestProcessedEventResolvesWait(t *testing.T) {
	es, socket, _, _ := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.RegisterTxID(ctx, "tx1"))

	ch := make(chan waitOutcome, 1)
	go func() {
		res, err := es.Wait(ctx, "tx1")
		ch <- waitOutcome{result: res, err: err}
	}()
	waitForWaiterAttached(t, es.waiter, "tx1")

	socket.emitter.Emit(Event{
		Type:   Event_Transaction,
		TxID:   "tx1",
		Status: "PROCESSED",
		Data:   fftypes.JSONObject{"transactionId": "0xfeed"},
	})

	out := <-ch
	require.NoError(t, out.err)
	assert.Equal(t, "0xfeed", out.result.TransactionHash)
}

func TestFailedEventResolvesWait(t *testing.T) {
	es, socket, _, _ := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.RegisterTxID(ctx, "tx1"))

	ch := make(chan waitOutcome, 1)
	go func() {
		res, err := es.Wait(ctx, "tx1")
		ch <- waitOutcome{result: res, err: err}
	}()
	waitForWaiterAttached(t, es.waiter, "tx1")

	socket.emitter.Emit(Event{
		Type:   Event_Transaction,
		TxID:   "tx1",
		Status: "FAILED",
		Data:   fftypes.JSONObject{"reason": "SLIPPAGE"},
	})

	out := <-ch
	assert.Regexp(t, "GS001015", out.err)
}

func TestUnknownStatusIgnored(t *testing.T) {
	es, socket, _, _ := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.RegisterTxID(ctx, "tx1"))

	socket.emitter.Emit(Event{Type: Event_Transaction, TxID: "tx1", Status: "PENDING"})
	assert.Equal(t, 1, es.waiter.PendingCount())
}

func TestDisconnectFailsPendingAndStopsSocket(t *testing.T) {
	es, socket, _, _ := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	require.NoError(t, es.RegisterTxID(ctx, "tx1"))

	es.DisconnectEventSocket(ctx)
	assert.False(t, es.Connected())
	assert.Equal(t, 1, socket.stops)
	assert.Zero(t, es.waiter.PendingCount())

	// Registrations while disconnected are accepted but inert
	require.NoError(t, es.RegisterTxID(ctx, "tx2"))
	assert.Zero(t, es.waiter.PendingCount())
}

func TestReconnectAfterSocketDropped(t *testing.T) {
	es, socket, _, dials := newTestEventService(t)
	ctx := context.Background()

	require.NoError(t, es.ConnectEventSocket(ctx))
	socket.connected = false

	require.NoError(t, es.ConnectEventSocket(ctx))
	assert.Equal(t, 2, *dials)
	assert.True(t, es.Connected())
}
