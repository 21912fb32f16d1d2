// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"testing"
	"time"
)

func TestRecordAndListSecurityEvents(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	user := mustCreateUser(t, "alice", RolePatient)
	role := string(RolePatient)

	err := RecordSecurityEvent(ctx, RecordSecurityEventInput{
		EventType:   EventLoginSuccess,
		Description: "User logged in",
		UserID:      &user.ID,
		Username:    &user.Username,
		UserRole:    &role,
		IPAddress:   stringPtr("192.0.2.1"),
	})
	if err != nil {
		t.Fatalf("RecordSecurityEvent failed: %v", err)
	}

	err = RecordSecurityEvent(ctx, RecordSecurityEventInput{
		EventType:   EventLoginFailed,
		Description: "Bad password",
		Username:    &user.Username,
		Status:      "failure",
		Severity:    "warning",
	})
	if err != nil {
		t.Fatalf("RecordSecurityEvent failed: %v", err)
	}

	events, err := ListSecurityEvents(ctx, SecurityEventFilters{})
	if err != nil {
		t.Fatalf("ListSecurityEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].EventType != EventLoginFailed {
		t.Fatalf("expected newest event first, got %q", events[0].EventType)
	}

	// Defaults fill in when the caller leaves status and severity empty.
	success := events[1]
	if success.Status != "success" || success.Severity != "info" {
		t.Fatalf("expected default status/severity, got %q/%q", success.Status, success.Severity)
	}
	if success.IPAddress == nil || *success.IPAddress != "192.0.2.1" {
		t.Fatalf("expected recorded IP address, got %v", success.IPAddress)
	}
}

func TestListSecurityEventsFilters(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	user := mustCreateUser(t, "bob", RolePatient)

	for i := 0; i < 3; i++ {
		if err := RecordSecurityEvent(ctx, RecordSecurityEventInput{
			EventType:   EventLoginFailed,
			Description: "Bad password",
			UserID:      &user.ID,
			Status:      "failure",
			Severity:    "warning",
		}); err != nil {
			t.Fatalf("RecordSecurityEvent failed: %v", err)
		}
	}
	if err := RecordSecurityEvent(ctx, RecordSecurityEventInput{
		EventType:   EventLogout,
		Description: "User logged out",
		UserID:      &user.ID,
	}); err != nil {
		t.Fatalf("RecordSecurityEvent failed: %v", err)
	}

	failed, err := ListSecurityEvents(ctx, SecurityEventFilters{EventType: EventLoginFailed})
	if err != nil {
		t.Fatalf("ListSecurityEvents(event type) failed: %v", err)
	}
	if len(failed) != 3 {
		t.Fatalf("expected 3 failed logins, got %d", len(failed))
	}

	warnings, err := ListSecurityEvents(ctx, SecurityEventFilters{Severity: "warning"})
	if err != nil {
		t.Fatalf("ListSecurityEvents(severity) failed: %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d", len(warnings))
	}

	limited, err := ListSecurityEvents(ctx, SecurityEventFilters{Limit: 2})
	if err != nil {
		t.Fatalf("ListSecurityEvents(limit) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 events, got %d", len(limited))
	}

	none, err := ListSecurityEvents(ctx, SecurityEventFilters{Since: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("ListSecurityEvents(since) failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no events in the future window, got %d", len(none))
	}
}
