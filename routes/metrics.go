/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strokeward_http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strokeward_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	loginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strokeward_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	riskProjectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strokeward_risk_projections_total",
		Help: "Risk projection reports generated.",
	})
)

func observeRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
