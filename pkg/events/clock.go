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
	"sort"
	"sync"
	"time"
)

type Clock interface {
	//wrapper of time.Now()
	//primarily to allow artificial clocks to be injected for testing
	Now() time.Time
	// ScheduleTimer fires f once after the duration, unless cancelled first.
	// A zero or negative duration fires as soon as the scheduler runs.
	ScheduleTimer(ctx context.Context, duration time.Duration, f func()) (cancel func())
}

type realClock struct{}

func RealClock() Clock {
	return &realClock{}
}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// The timer's lifetime is deliberately detached from the caller's context:
// a registration made on a request-scoped context must still time out after
// the request completes. Only the returned cancel func stops it.
func (c *realClock) ScheduleTimer(ctx context.Context, duration time.Duration, f func()) (cancel func()) {
	timerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if duration < 0 {
		duration = 0
	}
	timer := time.NewTimer(duration)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			f()
		case <-timerCtx.Done():
			return
		}
	}()
	return cancel
}

// FakeClockForTesting lets tests fire timers deterministically by advancing
// a virtual millisecond counter.
type FakeClockForTesting struct {
	lock          sync.Mutex
	currentTime   int
	pendingTimers []*pendingTimer
}

type pendingTimer struct {
	fireTime  int
	callback  func()
	cancelled bool
}

func (c *FakeClockForTesting) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return time.UnixMilli(int64(c.currentTime))
}

func (c *FakeClockForTesting) ScheduleTimer(_ context.Context, duration time.Duration, f func()) (cancel func()) {
	c.lock.Lock()
	defer c.lock.Unlock()
	t := &pendingTimer{
		fireTime: c.currentTime + int(duration.Milliseconds()),
		callback: f,
	}
	c.pendingTimers = append(c.pendingTimers, t)
	return func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		t.cancelled = true
	}
}

// Advance moves the virtual clock forward, firing any due timers in order.
// Callbacks run on the caller's goroutine, outside the clock's lock.
func (c *FakeClockForTesting) Advance(ms int) {
	c.lock.Lock()
	c.currentTime += ms
	var due []*pendingTimer
	var remaining []*pendingTimer
	for _, t := range c.pendingTimers {
		if !t.cancelled && t.fireTime <= c.currentTime {
			due = append(due, t)
		} else if !t.cancelled {
			remaining = append(remaining, t)
		}
	}
	c.pendingTimers = remaining
	sort.SliceStable(due, func(i, j int) bool { return due[i].fireTime < due[j].fireTime })
	c.lock.Unlock()

	for _, t := range due {
		t.callback()
	}
}
