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

import "github.com/prometheus/client_golang/prometheus"

var METRICS_NAMESPACE = "gswap"
var METRICS_SUBSYSTEM = "txwaiter"

var registeredCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: METRICS_NAMESPACE,
	Subsystem: METRICS_SUBSYSTEM,
	Name:      "transactions_registered_total",
})

var confirmedCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: METRICS_NAMESPACE,
	Subsystem: METRICS_SUBSYSTEM,
	Name:      "transactions_confirmed_total",
})

var failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: METRICS_NAMESPACE,
	Subsystem: METRICS_SUBSYSTEM,
	Name:      "transactions_failed_total",
})

var timeoutCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: METRICS_NAMESPACE,
	Subsystem: METRICS_SUBSYSTEM,
	Name:      "wait_timeouts_total",
})

var pendingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
	Namespace: METRICS_NAMESPACE,
	Subsystem: METRICS_SUBSYSTEM,
	Name:      "transactions_pending",
})

// MetricsInit registers the waiter's collectors with the default registry.
// Safe to skip entirely for callers that do not scrape metrics.
func MetricsInit() {
	prometheus.Register(registeredCounter)
	prometheus.Register(confirmedCounter)
	prometheus.Register(failedCounter)
	prometheus.Register(timeoutCounter)
	prometheus.Register(pendingGauge)
}
