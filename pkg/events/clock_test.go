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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClockFiresDueTimersInOrder(t *testing.T) {
	c := &FakeClockForTesting{}
	var fired []string
	c.ScheduleTimer(context.Background(), 20*time.Millisecond, func() { fired = append(fired, "b") })
	c.ScheduleTimer(context.Background(), 10*time.Millisecond, func() { fired = append(fired, "a") })
	c.ScheduleTimer(context.Background(), 50*time.Millisecond, func() { fired = append(fired, "c") })

	c.Advance(25)
	assert.Equal(t, []string{"a", "b"}, fired)
	c.Advance(25)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
}

func TestFakeClockCancel(t *testing.T) {
	c := &FakeClockForTesting{}
	var fired bool
	cancel := c.ScheduleTimer(context.Background(), 10*time.Millisecond, func() { fired = true })
	cancel()
	c.Advance(100)
	assert.False(t, fired)
}

func TestFakeClockNow(t *testing.T) {
	c := &FakeClockForTesting{}
	before := c.Now()
	c.Advance(1500)
	assert.Equal(t, int64(1500), c.Now().Sub(before).Milliseconds())
}

func TestRealClockFires(t *testing.T) {
	c := RealClock()
	fired := make(chan struct{})
	c.ScheduleTimer(context.Background(), time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		require.Fail(t, "timer did not fire")
	}
}

func TestRealClockCancel(t *testing.T) {
	c := RealClock()
	fired := make(chan struct{})
	cancel := c.ScheduleTimer(context.Background(), 50*time.Millisecond, func() { close(fired) })
	cancel()
	select {
	case <-fired:
		require.Fail(t, "cancelled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRealClockSurvivesCallerContextCancel(t *testing.T) {
	c := RealClock()
	ctx, cancelCtx := context.WithCancel(context.Background())
	fired := make(chan struct{})
	c.ScheduleTimer(ctx, 10*time.Millisecond, func() { close(fired) })
	cancelCtx()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		require.Fail(t, "timer died with the caller's context")
	}
}

func TestRealClockNegativeDurationClamped(t *testing.T) {
	c := RealClock()
	fired := make(chan struct{})
	c.ScheduleTimer(context.Background(), -time.Second, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		require.Fail(t, "timer did not fire")
	}
}
