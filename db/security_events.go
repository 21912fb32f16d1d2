/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Security event types recorded in the audit trail.
const (
	EventUserRegister   = "USER_REGISTER"
	EventLoginSuccess   = "LOGIN_SUCCESS"
	EventLoginFailed    = "LOGIN_FAILED"
	EventLogout         = "LOGOUT"
	EventPasswordChange = "PASSWORD_CHANGE"
	EventPasswordReset  = "PASSWORD_RESET"
	EventUserCreated    = "USER_CREATED"
	EventUserUpdated    = "USER_UPDATED"
	EventUserDeleted    = "USER_DELETED"
	EventPatientDeleted = "PATIENT_DELETED"
)

// RecordSecurityEventInput defines the audit entry fields. User details are
// stored denormalized so the trail survives account deletion.
type RecordSecurityEventInput struct {
	EventType   string
	Description string
	UserID      *uuid.UUID
	Username    *string
	UserRole    *string
	IPAddress   *string
	UserAgent   *string
	Status      string // success, failure, warning, error
	Severity    string // info, warning, error, critical
}

// RecordSecurityEvent appends an entry to the audit trail.
func RecordSecurityEvent(ctx context.Context, input RecordSecurityEventInput) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if input.Status == "" {
		input.Status = "success"
	}
	if input.Severity == "" {
		input.Severity = "info"
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO security_events (event_type, description, user_id, username, user_role,
			ip_address, user_agent, status, severity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		input.EventType,
		input.Description,
		input.UserID,
		input.Username,
		input.UserRole,
		input.IPAddress,
		input.UserAgent,
		input.Status,
		input.Severity,
	)
	if err != nil {
		return fmt.Errorf("failed to record security event: %w", err)
	}
	return nil
}

// SecurityEventFilters narrows audit trail listings. Zero values are
// ignored; Limit is capped by the caller.
type SecurityEventFilters struct {
	EventType string
	UserID    *uuid.UUID
	Severity  string
	Status    string
	Since     time.Time
	Limit     int
}

// ListSecurityEvents returns audit entries newest first.
func ListSecurityEvents(ctx context.Context, filters SecurityEventFilters) ([]SecurityEvent, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT id, event_type, description, user_id, username, user_role,
			ip_address, user_agent, status, severity, created_at
		FROM security_events`
	conditions := []string{}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filters.Since.IsZero() {
		conditions = append(conditions, "created_at >= "+arg(filters.Since))
	}
	if filters.EventType != "" {
		conditions = append(conditions, "event_type = "+arg(filters.EventType))
	}
	if filters.UserID != nil {
		conditions = append(conditions, "user_id = "+arg(*filters.UserID))
	}
	if filters.Severity != "" {
		conditions = append(conditions, "severity = "+arg(filters.Severity))
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = "+arg(filters.Status))
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		query += ` LIMIT ` + arg(filters.Limit)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list security events: %w", err)
	}
	defer rows.Close()

	var events []SecurityEvent
	for rows.Next() {
		var event SecurityEvent
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Description,
			&event.UserID,
			&event.Username,
			&event.UserRole,
			&event.IPAddress,
			&event.UserAgent,
			&event.Status,
			&event.Severity,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan security event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security events: %w", err)
	}

	return events, nil
}
