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
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/hyperledger/firefly-common/pkg/retry"

	"github.com/gala-dex/gswap-go/internal/confutil"
	"github.com/gala-dex/gswap-go/pkg/gsconf"
)

const (
	txStatusProcessed = "PROCESSED"
	txStatusFailed    = "FAILED"
)

// socketFrame is the wire shape of one bundler push notification.
type socketFrame struct {
	Event  string             `json:"event"`
	Status string             `json:"status"`
	Data   fftypes.JSONObject `json:"data"`
}

// TradeEventEmitter is the transport behind the event service: something that
// maintains a connection to the bundler's notification stream and surfaces
// what it hears through an Emitter.
type TradeEventEmitter interface {
	Start(ctx context.Context) error
	Stop()
	Connected() bool
	Events() *Emitter
}

type socketClient struct {
	url       string
	emitter   *Emitter
	reconnect bool
	retry     *retry.Retry

	lock      sync.Mutex
	conn      *websocket.Conn
	connected bool
	stopped   bool
	cancelCtx context.CancelFunc
	loopDone  chan struct{}
}

// NewSocketClient builds a websocket transport for the bundler event stream.
// baseURL is the https bundler endpoint; the socket scheme is derived from it.
func NewSocketClient(ctx context.Context, baseURL string, conf *gsconf.EventsConfig) TradeEventEmitter {
	return &socketClient{
		url:       DeriveSocketURL(baseURL),
		emitter:   &Emitter{},
		reconnect: confutil.Bool(conf.Reconnect.Enabled, *gsconf.Defaults.Events.Reconnect.Enabled),
		retry: &retry.Retry{
			InitialDelay: confutil.DurationMin(conf.Reconnect.InitialDelay, 1*time.Millisecond, *gsconf.Defaults.Events.Reconnect.InitialDelay),
			MaximumDelay: confutil.DurationMin(conf.Reconnect.MaximumDelay, 1*time.Millisecond, *gsconf.Defaults.Events.Reconnect.MaximumDelay),
			Factor:       confutil.Float64Min(conf.Reconnect.Factor, 1.0, *gsconf.Defaults.Events.Reconnect.Factor),
		},
	}
}

// DeriveSocketURL maps an http(s) endpoint to its ws(s) equivalent.
func DeriveSocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}

func (sc *socketClient) Events() *Emitter {
	return sc.emitter
}

func (sc *socketClient) Connected() bool {
	sc.lock.Lock()
	defer sc.lock.Unlock()
	return sc.connected
}

// Start dials the socket and launches the read loop. The initial dial is
// synchronous so the caller knows whether a connection was established;
// reconnection after a drop happens in the background.
func (sc *socketClient) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	conn, _, err := websocket.DefaultDialer.DialContext(runCtx, sc.url, nil)
	if err != nil {
		cancel()
		return err
	}

	sc.lock.Lock()
	sc.conn = conn
	sc.connected = true
	sc.stopped = false
	sc.cancelCtx = cancel
	sc.loopDone = make(chan struct{})
	loopDone := sc.loopDone
	sc.lock.Unlock()

	log.L(ctx).Infof("Event socket connected to %s", sc.url)
	sc.emitter.Emit(Event{Type: Event_Connected})

	go func() {
		defer close(loopDone)
		sc.runLoop(runCtx, conn)
	}()
	return nil
}

// Stop closes the connection and prevents any reconnection attempt.
func (sc *socketClient) Stop() {
	sc.lock.Lock()
	sc.stopped = true
	sc.connected = false
	conn := sc.conn
	cancel := sc.cancelCtx
	loopDone := sc.loopDone
	sc.lock.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if loopDone != nil {
		<-loopDone
	}
}

func (sc *socketClient) runLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		sc.readLoop(ctx, conn)

		sc.lock.Lock()
		sc.connected = false
		stopped := sc.stopped
		sc.lock.Unlock()

		reason := "connection closed"
		if stopped || ctx.Err() != nil {
			reason = "client stopped"
		}
		sc.emitter.Emit(Event{Type: Event_Disconnected, Reason: reason})

		if stopped || ctx.Err() != nil || !sc.reconnect {
			return
		}

		var newConn *websocket.Conn
		err := sc.retry.Do(ctx, "event socket reconnect", func(attempt int) (bool, error) {
			c, _, dialErr := websocket.DefaultDialer.DialContext(ctx, sc.url, nil)
			if dialErr != nil {
				log.L(ctx).Warnf("Event socket reconnect attempt %d failed: %s", attempt, dialErr)
				return true, dialErr
			}
			newConn = c
			return false, nil
		})
		if err != nil {
			return
		}

		sc.lock.Lock()
		if sc.stopped {
			sc.lock.Unlock()
			_ = newConn.Close()
			return
		}
		sc.conn = newConn
		sc.connected = true
		sc.lock.Unlock()

		conn = newConn
		log.L(ctx).Infof("Event socket reconnected to %s", sc.url)
		sc.emitter.Emit(Event{Type: Event_Connected})
	}
}

func (sc *socketClient) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				sc.emitter.Emit(Event{Type: Event_Error, Err: err})
			}
			return
		}
		sc.handleFrame(ctx, payload)
	}
}

func (sc *socketClient) handleFrame(ctx context.Context, payload []byte) {
	var frame socketFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		log.L(ctx).Warnf("Discarding undecodable event frame: %s", err)
		sc.emitter.Emit(Event{Type: Event_Error, Err: err})
		return
	}
	if frame.Event == "" {
		log.L(ctx).Debugf("Discarding event frame with no transaction id")
		return
	}
	sc.emitter.Emit(Event{
		Type:   Event_Transaction,
		TxID:   frame.Event,
		Status: frame.Status,
		Data:   frame.Data,
	})
}
