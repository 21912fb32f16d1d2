/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flamego/flamego"

	"github.com/strokeward/strokeward/db"
)

const (
	defaultLogWindowHours = 168
	defaultLogLimit       = 100
	maxLogLimit           = 1000
)

// SecurityLogs returns the audit trail for admins, newest first. The window
// defaults to the last week and the page size is capped.
func SecurityLogs(c flamego.Context) {
	filters := db.SecurityEventFilters{
		EventType: c.Query("event_type"),
		Severity:  c.Query("severity"),
		Status:    c.Query("status"),
		Limit:     defaultLogLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		if limit > maxLogLimit {
			limit = maxLogLimit
		}
		filters.Limit = limit
	}

	hours := defaultLogWindowHours
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(c, http.StatusBadRequest, "invalid hours")
			return
		}
		hours = parsed
	}
	filters.Since = time.Now().Add(-time.Duration(hours) * time.Hour)

	events, err := db.ListSecurityEvents(c.Request().Context(), filters)
	if err != nil {
		logger.Error("Failed to list security events", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list security logs")
		return
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
