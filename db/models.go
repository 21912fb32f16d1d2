/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/strokeward/strokeward/risk"
)

// Role represents a portal account role
type Role string

// Role values represent supported account roles.
const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ValidRole reports whether the given role is one of the supported values.
func ValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Urgency represents how quickly an appointment is needed
type Urgency string

// Urgency values represent supported appointment urgencies.
const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

// AppointmentStatus values.
const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// User represents a portal account (admin, doctor or patient).
type User struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Role           Role       `db:"role" json:"role"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Phone          *string    `db:"phone" json:"phone"`
	Specialization *string    `db:"specialization" json:"specialization"`
	LicenseNumber  *string    `db:"license_number" json:"license_number"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastLogin      *time.Time `db:"last_login" json:"last_login"`
}

// Patient represents a stroke-care patient record.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Gender           string     `db:"gender" json:"gender"`
	Age              float64    `db:"age" json:"age"`
	Hypertension     int        `db:"hypertension" json:"hypertension"`
	HeartDisease     int        `db:"heart_disease" json:"heart_disease"`
	EverMarried      string     `db:"ever_married" json:"ever_married"`
	WorkType         string     `db:"work_type" json:"work_type"`
	ResidenceType    string     `db:"residence_type" json:"residence_type"`
	AvgGlucoseLevel  float64    `db:"avg_glucose_level" json:"avg_glucose_level"`
	BMI              float64    `db:"bmi" json:"bmi"`
	SmokingStatus    string     `db:"smoking_status" json:"smoking_status"`
	Stroke           int        `db:"stroke" json:"stroke"`
	StrokeRisk       int        `db:"stroke_risk" json:"stroke_risk"`
	RiskLevel        risk.Level `db:"risk_level" json:"risk_level"`
	CreatedBy        *uuid.UUID `db:"created_by" json:"created_by"`
	AssignedDoctorID *uuid.UUID `db:"assigned_doctor_id" json:"assigned_doctor_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// RiskRecord converts the stored patient row into the analytics engine's
// input shape.
func (p Patient) RiskRecord() risk.PatientRecord {
	return risk.PatientRecord{
		Age:             p.Age,
		Gender:          p.Gender,
		Hypertension:    p.Hypertension,
		HeartDisease:    p.HeartDisease,
		Stroke:          p.Stroke,
		AvgGlucoseLevel: p.AvgGlucoseLevel,
		BMI:             p.BMI,
		SmokingStatus:   p.SmokingStatus,
		RiskLevel:       p.RiskLevel,
	}
}

// MedicalRecord represents one entry in a patient's medical history.
type MedicalRecord struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	RecordType  string     `db:"record_type" json:"record_type"`
	Description string     `db:"description" json:"description"`
	DoctorID    *uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Medications *string    `db:"medications" json:"medications"`
	Notes       *string    `db:"notes" json:"notes"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Appointment represents a booking between a patient and a doctor.
type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"-"`
	AppointmentTime string            `db:"appointment_time" json:"appointment_time"`
	Reason          string            `db:"reason" json:"reason"`
	Urgency         Urgency           `db:"urgency" json:"urgency"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           *string           `db:"notes" json:"notes"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// DateString returns the appointment date in the API's YYYY-MM-DD format.
func (a Appointment) DateString() string {
	return a.AppointmentDate.Format("2006-01-02")
}

// SecurityEvent represents one entry in the security audit trail. Account
// details are denormalized so events outlive user deletion.
type SecurityEvent struct {
	ID          int64      `db:"id" json:"id"`
	EventType   string     `db:"event_type" json:"event_type"`
	Description string     `db:"description" json:"description"`
	UserID      *uuid.UUID `db:"user_id" json:"user_id"`
	Username    *string    `db:"username" json:"username"`
	UserRole    *string    `db:"user_role" json:"user_role"`
	IPAddress   *string    `db:"ip_address" json:"ip_address"`
	UserAgent   *string    `db:"user_agent" json:"user_agent"`
	Status      string     `db:"status" json:"status"`
	Severity    string     `db:"severity" json:"severity"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PasswordResetToken stores a hashed single-use reset token.
type PasswordResetToken struct {
	TokenHash string     `db:"token_hash"`
	UserID    uuid.UUID  `db:"user_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
