// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProtectedRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	f := newServer()

	cases := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/auth/me"},
		{method: http.MethodPost, path: "/api/auth/logout"},
		{method: http.MethodGet, path: "/api/patients"},
		{method: http.MethodPost, path: "/api/patients/register"},
		{method: http.MethodGet, path: "/api/appointments"},
		{method: http.MethodPost, path: "/api/appointments/book"},
		{method: http.MethodGet, path: "/api/doctors"},
		{method: http.MethodGet, path: "/api/analytics/future-predictions"},
		{method: http.MethodGet, path: "/api/admin/stats"},
		{method: http.MethodGet, path: "/api/security/logs"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			f.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}

func TestHealthzReportsDegradedWithoutDatabase(t *testing.T) {
	t.Parallel()

	f := newServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	t.Parallel()

	f := newServer()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
