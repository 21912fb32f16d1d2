/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appointmentColumns = `id, patient_id, doctor_id, appointment_date, appointment_time,
	reason, urgency, status, notes, created_at, updated_at`

// CreateAppointmentInput defines data for booking an appointment.
type CreateAppointmentInput struct {
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	AppointmentDate time.Time
	AppointmentTime string
	Reason          string
	Urgency         Urgency
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.Reason,
		&a.Urgency,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAppointment books an appointment in scheduled state.
func CreateAppointment(ctx context.Context, input CreateAppointmentInput) (*Appointment, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, appointment_time,
			reason, urgency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + appointmentColumns

	appointment, err := scanAppointment(pool.QueryRow(ctx, query,
		input.PatientID,
		input.DoctorID,
		input.AppointmentDate,
		input.AppointmentTime,
		input.Reason,
		input.Urgency,
		AppointmentScheduled,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

// GetAppointment returns an appointment by ID.
func GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	appointment, err := scanAppointment(pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

// AppointmentScope narrows appointment listings to one side of the booking.
type AppointmentScope struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

// ListAppointments returns appointments soonest first, optionally scoped to
// a patient or a doctor.
func ListAppointments(ctx context.Context, scope AppointmentScope) ([]Appointment, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	args := []any{}
	switch {
	case scope.PatientID != nil:
		query += ` WHERE patient_id = $1`
		args = append(args, *scope.PatientID)
	case scope.DoctorID != nil:
		query += ` WHERE doctor_id = $1`
		args = append(args, *scope.DoctorID)
	}
	query += ` ORDER BY appointment_date, appointment_time`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// RescheduleAppointment moves an appointment to a new date and time.
func RescheduleAppointment(ctx context.Context, id string, date time.Time, timeOfDay string) (*Appointment, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	appointment, err := scanAppointment(pool.QueryRow(ctx, `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+appointmentColumns,
		date, timeOfDay, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	return appointment, nil
}

// CancelAppointment marks an appointment cancelled.
func CancelAppointment(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	command, err := pool.Exec(ctx, `
		UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2
	`, AppointmentCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	if command.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// CountAppointmentsOnDate counts appointments scheduled for the given day.
func CountAppointmentsOnDate(ctx context.Context, date time.Time) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	var count int
	err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE appointment_date = $1 AND status = $2`,
		date, AppointmentScheduled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
