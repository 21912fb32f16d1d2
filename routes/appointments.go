/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"github.com/google/uuid"

	"github.com/strokeward/strokeward/db"
	"github.com/strokeward/strokeward/utils"
)

func parseAppointmentDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errMissingDate
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errInvalidDate
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return time.Time{}, errDateInPast
	}
	return date, nil
}

func parseAppointmentTime(value string) (string, error) {
	if _, err := time.Parse("15:04", value); err != nil {
		return "", errInvalidTime
	}
	return value, nil
}

type bookAppointmentRequest struct {
	PatientID string `json:"patient_id" validate:"omitempty,uuid"`
	DoctorID  string `json:"doctor_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=500"`
	Urgency   string `json:"urgency" validate:"omitempty,oneof=routine urgent emergency"`
}

// BookAppointment schedules a future appointment with an active doctor.
// Patient accounts book for their own record; staff name the patient.
func BookAppointment(c flamego.Context, user *db.User) {
	var request bookAppointmentRequest
	if !decodeJSON(c, &request) {
		return
	}

	date, err := parseAppointmentDate(request.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	timeOfDay, err := parseAppointmentTime(request.Time)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	var patientID uuid.UUID
	if user.Role == db.RolePatient {
		patient, err := db.GetPatientByCreator(c.Request().Context(), user.ID)
		if err != nil {
			if errors.Is(err, db.ErrPatientNotFound) {
				writeError(c, http.StatusBadRequest, "no patient record linked to this account")
				return
			}
			logger.Error("Failed to resolve patient record", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to book appointment")
			return
		}
		patientID = patient.ID
	} else {
		if request.PatientID == "" {
			writeError(c, http.StatusBadRequest, "patient_id is required")
			return
		}
		parsed, err := uuid.Parse(request.PatientID)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid patient id")
			return
		}
		if _, err := db.GetPatient(c.Request().Context(), parsed.String()); err != nil {
			writeError(c, http.StatusNotFound, "patient not found")
			return
		}
		patientID = parsed
	}

	doctor, err := db.GetUserByID(c.Request().Context(), request.DoctorID)
	if err != nil || doctor.Role != db.RoleDoctor || !doctor.IsActive {
		writeError(c, http.StatusBadRequest, "doctor not available")
		return
	}

	urgency := db.UrgencyRoutine
	if request.Urgency != "" {
		urgency = db.Urgency(request.Urgency)
	}

	appointment, err := db.CreateAppointment(c.Request().Context(), db.CreateAppointmentInput{
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Reason:          utils.SanitizeInput(request.Reason),
		Urgency:         urgency,
	})
	if err != nil {
		logger.Error("Failed to create appointment", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to book appointment")
		return
	}

	writeJSON(c, http.StatusCreated, appointmentResponse(appointment))
}

// ListAppointmentsHandler returns appointments scoped to the caller's role:
// patients see their own, doctors see their schedule, admins see everything.
func ListAppointmentsHandler(c flamego.Context, user *db.User) {
	scope := db.AppointmentScope{}
	switch user.Role {
	case db.RolePatient:
		patient, err := db.GetPatientByCreator(c.Request().Context(), user.ID)
		if err != nil {
			if errors.Is(err, db.ErrPatientNotFound) {
				writeJSON(c, http.StatusOK, map[string]any{"appointments": []any{}, "count": 0})
				return
			}
			logger.Error("Failed to resolve patient record", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to list appointments")
			return
		}
		scope.PatientID = &patient.ID
	case db.RoleDoctor:
		scope.DoctorID = &user.ID
	}

	appointments, err := db.ListAppointments(c.Request().Context(), scope)
	if err != nil {
		logger.Error("Failed to list appointments", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	responses := make([]map[string]any, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, appointmentResponse(&appointments[i]))
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"appointments": responses,
		"count":        len(responses),
	})
}

// loadAppointmentForUser fetches an appointment and enforces that patients
// and doctors only touch their own bookings.
func loadAppointmentForUser(c flamego.Context, user *db.User) *db.Appointment {
	appointment, err := db.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrAppointmentNotFound) {
			writeError(c, http.StatusNotFound, "appointment not found")
			return nil
		}
		logger.Error("Failed to get appointment", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to get appointment")
		return nil
	}

	switch user.Role {
	case db.RolePatient:
		patient, err := db.GetPatientByCreator(c.Request().Context(), user.ID)
		if err != nil || patient.ID != appointment.PatientID {
			logAccessDenied(c, "appointment not owned", http.StatusForbidden,
				"user_id", user.ID.String())
			writeError(c, http.StatusForbidden, "not your appointment")
			return nil
		}
	case db.RoleDoctor:
		if appointment.DoctorID != user.ID {
			logAccessDenied(c, "appointment not owned", http.StatusForbidden,
				"user_id", user.ID.String())
			writeError(c, http.StatusForbidden, "not your appointment")
			return nil
		}
	}

	return appointment
}

// CancelAppointmentHandler marks an appointment cancelled.
func CancelAppointmentHandler(c flamego.Context, user *db.User) {
	appointment := loadAppointmentForUser(c, user)
	if appointment == nil {
		return
	}

	if appointment.Status == db.AppointmentCancelled {
		writeError(c, http.StatusConflict, "appointment already cancelled")
		return
	}

	if err := db.CancelAppointment(c.Request().Context(), appointment.ID.String()); err != nil {
		logger.Error("Failed to cancel appointment", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to cancel appointment")
		return
	}

	writeJSON(c, http.StatusOK, map[string]string{"message": "appointment cancelled"})
}

type rescheduleRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// RescheduleAppointmentHandler moves an appointment to a new future slot.
func RescheduleAppointmentHandler(c flamego.Context, user *db.User) {
	appointment := loadAppointmentForUser(c, user)
	if appointment == nil {
		return
	}

	if appointment.Status != db.AppointmentScheduled {
		writeError(c, http.StatusConflict, "only scheduled appointments can be rescheduled")
		return
	}

	var request rescheduleRequest
	if !decodeJSON(c, &request) {
		return
	}

	date, err := parseAppointmentDate(request.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	timeOfDay, err := parseAppointmentTime(request.Time)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	moved, err := db.RescheduleAppointment(c.Request().Context(), appointment.ID.String(), date, timeOfDay)
	if err != nil {
		logger.Error("Failed to reschedule appointment", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to reschedule appointment")
		return
	}

	writeJSON(c, http.StatusOK, appointmentResponse(moved))
}

// appointmentResponse formats an appointment with the API's date string.
func appointmentResponse(a *db.Appointment) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"patient_id": a.PatientID,
		"doctor_id":  a.DoctorID,
		"date":       a.DateString(),
		"time":       a.AppointmentTime,
		"reason":     a.Reason,
		"urgency":    a.Urgency,
		"status":     a.Status,
		"notes":      a.Notes,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}
