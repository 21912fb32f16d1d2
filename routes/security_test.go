// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flamego/flamego"
)

func TestSecurityLogsRejectsBadParams(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Get("/api/security/logs", SecurityLogs)

	cases := []struct {
		name string
		path string
	}{
		{name: "non-numeric limit", path: "/api/security/logs?limit=abc"},
		{name: "zero limit", path: "/api/security/logs?limit=0"},
		{name: "negative limit", path: "/api/security/logs?limit=-5"},
		{name: "non-numeric hours", path: "/api/security/logs?hours=week"},
		{name: "zero hours", path: "/api/security/logs?hours=0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}
