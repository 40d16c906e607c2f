// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// routeUnmatched labels requests that reached middleware without a mux pattern.
const routeUnmatched = "unmatched"

var (
	statusRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbackup_status_requests_total",
			Help: "Requests to the status API of a scheduled backup, by route and status class",
		},
		[]string{"route", "code_class"},
	)

	statusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "qbackup_status_request_duration_seconds",
			Help: "Time to serve a status API request, by route",
			// run reports are small in-memory documents
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"route"},
	)

	statusReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qbackup_status_ready",
			Help: "1 once a backup run has finished since the scheduler started, 0 otherwise",
		},
	)

	statusRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbackup_status_rate_limited_total",
			Help: "Status API requests rejected with 429, by route",
		},
		[]string{"route"},
	)

	statusPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbackup_status_handler_panics_total",
			Help: "Panics recovered in status API handlers, by route",
		},
		[]string{"route"},
	)
)

// routeLabel returns the registered pattern of r, keeping label cardinality
// bounded to the routes the server knows.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return routeUnmatched
	}
	return r.Pattern
}

// codeClass maps a status code to "2xx", "4xx" and so on.
func codeClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
