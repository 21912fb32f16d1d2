/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"

	"github.com/strokeward/strokeward/db"
)

// Healthz reports service liveness including database connectivity.
func Healthz(c flamego.Context) {
	if err := db.Ping(c.Request().Context()); err != nil {
		writeJSON(c, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}

	writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}
