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

// Package events provides transaction confirmation tracking for bundler
// submissions: a websocket transport that listens for per-transaction status
// pushes, and a waiter that reconciles those pushes with blocking consumers
// and timeouts.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/internal/msgs"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
	"github.com/gala-dex/gswap-go/pkg/gstypes"
)

// SocketFactory builds the transport an EventService connects through.
// Swappable so tests can supply an in-memory transport.
type SocketFactory func(ctx context.Context, baseURL string, conf *gsconf.EventsConfig) TradeEventEmitter

// EventService owns the single event socket connection and the transaction
// waiter fed by it. One instance serves all trading services of a client;
// connecting is explicit and idempotent.
type EventService struct {
	lock        sync.Mutex
	socket      TradeEventEmitter
	listenerID  ListenerID
	waiter      *TransactionWaiter
	socketURL   string
	conf        *gsconf.EventsConfig
	waitTimeout time.Duration
	newSocket   SocketFactory
}

func NewEventService(ctx context.Context, conf *gsconf.SDKConfig) *EventService {
	return newEventService(ctx, conf, NewSocketClient, RealClock())
}

func newEventService(_ context.Context, conf *gsconf.SDKConfig, factory SocketFactory, clock Clock) *EventService {
	return &EventService{
		waiter:      NewTransactionWaiter(clock),
		socketURL:   confutil.StringNotEmpty(conf.BundlerBaseURL, *gsconf.Defaults.BundlerBaseURL),
		conf:        &conf.Events,
		waitTimeout: confutil.DurationMin(conf.TransactionWaitTimeout, 1*time.Millisecond, *gsconf.Defaults.TransactionWaitTimeout),
		newSocket:   factory,
	}
}

// ConnectEventSocket establishes the event socket if it is not already up,
// and enables confirmation tracking. Safe to call repeatedly.
func (es *EventService) ConnectEventSocket(ctx context.Context) error {
	es.lock.Lock()
	defer es.lock.Unlock()

	if es.socket != nil && es.socket.Connected() {
		return nil
	}
	if es.socket != nil {
		// A previous connection that dropped and exhausted (or disabled)
		// reconnection - tear it down before dialing fresh
		es.socket.Events().Off(Event_Transaction, es.listenerID)
		es.socket.Stop()
		es.socket = nil
	}

	socket := es.newSocket(ctx, es.socketURL, es.conf)
	if err := socket.Start(ctx); err != nil {
		return err
	}
	es.listenerID = socket.Events().On(Event_Transaction, func(ev Event) {
		es.handleTransactionEvent(ctx, ev)
	})
	es.socket = socket
	es.waiter.SetEnabled(ctx, true)
	return nil
}

// DisconnectEventSocket tears down the socket and disables the waiter,
// force-failing anything still pending. Safe to call when not connected.
func (es *EventService) DisconnectEventSocket(ctx context.Context) {
	es.lock.Lock()
	socket := es.socket
	listenerID := es.listenerID
	es.socket = nil
	es.lock.Unlock()

	if socket != nil {
		socket.Events().Off(Event_Transaction, listenerID)
		socket.Stop()
	}
	es.waiter.SetEnabled(ctx, false)
}

// Connected reports whether the event socket is currently established.
func (es *EventService) Connected() bool {
	es.lock.Lock()
	defer es.lock.Unlock()
	return es.socket != nil && es.socket.Connected()
}

// RegisterTxID begins confirmation tracking for a submitted transaction,
// with the configured wait timeout.
func (es *EventService) RegisterTxID(ctx context.Context, txID string) error {
	return es.waiter.RegisterTxID(ctx, txID, es.waitTimeout)
}

// Wait blocks until the registered transaction resolves. It fails fast if
// the event socket has never been connected, since no notification could
// ever arrive to unblock it.
func (es *EventService) Wait(ctx context.Context, txID string) (*gstypes.TransactionResult, error) {
	es.lock.Lock()
	connected := es.socket != nil
	es.lock.Unlock()
	if !connected {
		return nil, i18n.NewError(ctx, msgs.MsgSocketConnectionRequired)
	}
	return es.waiter.Wait(ctx, txID)
}

// Waiter exposes the underlying transaction waiter, primarily so submission
// gateways can hand out PendingTransaction handles bound to it.
func (es *EventService) Waiter() *TransactionWaiter {
	return es.waiter
}

func (es *EventService) handleTransactionEvent(ctx context.Context, ev Event) {
	switch ev.Status {
	case txStatusProcessed:
		es.waiter.NotifySuccess(ctx, ev.TxID, ev.Data)
	case txStatusFailed:
		es.waiter.NotifyFailure(ctx, ev.TxID, ev.Data)
	default:
		log.L(ctx).Debugf("Ignoring transaction %s event with status %q", ev.TxID, ev.Status)
	}
}
