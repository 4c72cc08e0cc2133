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
	"sync"

	"github.com/hyperledger/firefly-common/pkg/fftypes"
)

type EventType int

const (
	Event_Connected    EventType = iota // the transport established (or re-established) its connection
	Event_Disconnected                  // the transport lost or dropped its connection
	Event_Error                         // the transport hit an error it could not attribute to a single transaction
	Event_Transaction                   // a per-transaction status notification arrived
)

func (t EventType) String() string {
	switch t {
	case Event_Connected:
		return "connected"
	case Event_Disconnected:
		return "disconnected"
	case Event_Error:
		return "error"
	case Event_Transaction:
		return "transaction"
	}
	return "unknown"
}

// Event is the discriminated notification delivered by a TradeEventEmitter.
// TxID, Status and Data are set for Event_Transaction; Reason for
// Event_Disconnected; Err for Event_Error.
type Event struct {
	Type   EventType
	TxID   string
	Status string
	Data   fftypes.JSONObject
	Reason string
	Err    error
}

// ListenerID identifies a registered handler so it can be detached.
type ListenerID int

// Emitter is a handler table keyed by event type. Handlers registered for a
// type are invoked synchronously, in registration order, on the emitting
// goroutine.
type Emitter struct {
	lock      sync.Mutex
	nextID    ListenerID
	listeners map[EventType][]registration
}

type registration struct {
	id ListenerID
	fn func(Event)
}

func (e *Emitter) On(t EventType, fn func(Event)) ListenerID {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[EventType][]registration)
	}
	e.nextID++
	e.listeners[t] = append(e.listeners[t], registration{id: e.nextID, fn: fn})
	return e.nextID
}

func (e *Emitter) Off(t EventType, id ListenerID) {
	e.lock.Lock()
	defer e.lock.Unlock()
	regs := e.listeners[t]
	for i, r := range regs {
		if r.id == id {
			e.listeners[t] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (e *Emitter) Emit(ev Event) {
	e.lock.Lock()
	regs := make([]registration, len(e.listeners[ev.Type]))
	copy(regs, e.listeners[ev.Type])
	e.lock.Unlock()
	for _, r := range regs {
		r.fn(ev)
	}
}
