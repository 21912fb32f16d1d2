// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func testContext() context.Context {
	return context.Background()
}

func stringPtr(value string) *string {
	return &value
}

func mustCreateUser(t *testing.T, username string, role Role) *User {
	t.Helper()
	user, err := CreateUser(testContext(), CreateUserInput{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.org", username),
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustCreatePatient(t *testing.T, input CreatePatientInput) *Patient {
	t.Helper()
	if input.Gender == "" {
		input.Gender = "Female"
	}
	if input.EverMarried == "" {
		input.EverMarried = "No"
	}
	if input.WorkType == "" {
		input.WorkType = "Private"
	}
	if input.ResidenceType == "" {
		input.ResidenceType = "Urban"
	}
	if input.SmokingStatus == "" {
		input.SmokingStatus = "never smoked"
	}
	patient, err := CreatePatient(testContext(), input)
	if err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}
	return patient
}

func mustCreateAppointment(t *testing.T, patientID, doctorID string, date time.Time) *Appointment {
	t.Helper()
	patient, err := GetPatient(testContext(), patientID)
	if err != nil {
		t.Fatalf("failed to load patient: %v", err)
	}
	doctor, err := GetUserByID(testContext(), doctorID)
	if err != nil {
		t.Fatalf("failed to load doctor: %v", err)
	}
	appointment, err := CreateAppointment(testContext(), CreateAppointmentInput{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		AppointmentTime: "09:30",
		Reason:          "Follow-up",
		Urgency:         UrgencyRoutine,
	})
	if err != nil {
		t.Fatalf("failed to create appointment: %v", err)
	}
	return appointment
}
