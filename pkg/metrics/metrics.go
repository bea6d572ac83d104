// Copyright 2025 The Runtime Validation Layer Authors
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

package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Namespace and subsystem for all metrics.
	namespace = "xrconf"
	subsystem = "layer"

	// Conformance findings by severity and intercepted call.
	findingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "findings_total",
			Help:      "Total number of conformance findings by severity and function",
		},
		[]string{"severity", "function"},
	)

	// Calls passing through the layer.
	interceptedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intercepted_calls_total",
			Help:      "Total number of intercepted runtime calls by function",
		},
		[]string{"function"},
	)

	// Live handle-state nodes tracked by the registry.
	liveHandles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "live_handles",
			Help:      "Number of live handle-state nodes by object type",
		},
		[]string{"object_type"},
	)

	// Wall-clock time spent blocked in forwarded image waits.
	imageWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "image_wait_duration_seconds",
			Help:      "Duration of forwarded swapchain image waits in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.011, 0.016, 0.032, 0.1, 0.5, 1},
		},
		[]string{"outcome"},
	)
)

// SetupMetricsEndpoint starts an HTTP server to expose metrics.
// This should be called once at layer startup.
func SetupMetricsEndpoint(addr string, log *zap.SugaredLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics endpoint failed: %s", err)
		}
	}()

	return server
}

// IncFinding increments the finding counter for a severity and function.
func IncFinding(severity, function string) {
	findingsTotal.WithLabelValues(severity, function).Inc()
}

// IncInterceptedCall increments the intercepted-call counter.
func IncInterceptedCall(function string) {
	interceptedCallsTotal.WithLabelValues(function).Inc()
}

// HandleRegistered adjusts the live-handle gauge after a registration.
func HandleRegistered(objectType string) {
	liveHandles.WithLabelValues(objectType).Inc()
}

// HandleUnregistered adjusts the live-handle gauge after an unregistration.
func HandleUnregistered(objectType string) {
	liveHandles.WithLabelValues(objectType).Dec()
}

// ObserveImageWait records the wall-clock time a forwarded image wait
// blocked for, labeled with the result outcome.
func ObserveImageWait(outcome string, duration time.Duration) {
	imageWaitDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
