/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/strokeward/strokeward/db"
	"github.com/strokeward/strokeward/risk"
	"github.com/strokeward/strokeward/utils"
)

// patientPayload carries the clinical fields shared by registration and
// self-registration. Ranges follow the intake form limits.
type patientPayload struct {
	Gender           string  `json:"gender" validate:"required,oneof=Male Female Other"`
	Age              float64 `json:"age" validate:"min=0,max=120"`
	Hypertension     int     `json:"hypertension" validate:"min=0,max=1"`
	HeartDisease     int     `json:"heart_disease" validate:"min=0,max=1"`
	EverMarried      string  `json:"ever_married" validate:"omitempty,oneof=Yes No"`
	WorkType         string  `json:"work_type" validate:"omitempty,max=50"`
	ResidenceType    string  `json:"residence_type" validate:"omitempty,oneof=Urban Rural"`
	AvgGlucoseLevel  float64 `json:"avg_glucose_level" validate:"min=50,max=300"`
	BMI              float64 `json:"bmi" validate:"min=10,max=60"`
	SmokingStatus    string  `json:"smoking_status" validate:"omitempty,max=50"`
	Stroke           int     `json:"stroke" validate:"min=0,max=1"`
	AssignedDoctorID string  `json:"assigned_doctor_id" validate:"omitempty,uuid"`
}

func (p patientPayload) createInput() db.CreatePatientInput {
	input := db.CreatePatientInput{
		Gender:          p.Gender,
		Age:             p.Age,
		Hypertension:    p.Hypertension,
		HeartDisease:    p.HeartDisease,
		EverMarried:     p.EverMarried,
		WorkType:        p.WorkType,
		ResidenceType:   p.ResidenceType,
		AvgGlucoseLevel: p.AvgGlucoseLevel,
		BMI:             p.BMI,
		SmokingStatus:   p.SmokingStatus,
		Stroke:          p.Stroke,
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
		input.SmokingStatus = risk.SmokingUnknown
	}
	return input
}

// RegisterPatient creates a patient record on behalf of clinical staff. A
// doctor registering a patient becomes the assigned doctor unless the
// payload names another one.
func RegisterPatient(c flamego.Context, user *db.User) {
	var payload patientPayload
	if !decodeJSON(c, &payload) {
		return
	}

	input := payload.createInput()
	input.CreatedBy = &user.ID

	if payload.AssignedDoctorID != "" {
		doctorID, err := uuid.Parse(payload.AssignedDoctorID)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid assigned doctor id")
			return
		}
		input.AssignedDoctorID = &doctorID
	} else if user.Role == db.RoleDoctor {
		input.AssignedDoctorID = &user.ID
	}

	patient, err := db.CreatePatient(c.Request().Context(), input)
	if err != nil {
		logger.Error("Failed to create patient", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to register patient")
		return
	}

	writeJSON(c, http.StatusCreated, patient)
}

type selfRegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	patientPayload
}

// SelfRegisterPatient creates a patient account together with its clinical
// record in one request. The account always gets the patient role.
func SelfRegisterPatient(c flamego.Context) {
	var request selfRegisterRequest
	if !decodeJSON(c, &request) {
		return
	}

	request.Username = utils.SanitizeInput(request.Username)
	request.FirstName = utils.SanitizeInput(request.FirstName)
	request.LastName = utils.SanitizeInput(request.LastName)

	if err := utils.ValidateEmail(request.Email); err != nil {
		writeError(c, http.StatusBadRequest, "invalid email format")
		return
	}
	if err := utils.ValidatePassword(request.Password); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := db.CreateUser(c.Request().Context(), db.CreateUserInput{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hash),
		Role:         db.RolePatient,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateUsername):
			writeError(c, http.StatusConflict, "username already taken")
		case errors.Is(err, db.ErrDuplicateEmail):
			writeError(c, http.StatusConflict, "email already registered")
		default:
			logger.Error("Failed to create user", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	input := request.createInput()
	input.CreatedBy = &user.ID

	patient, err := db.CreatePatient(c.Request().Context(), input)
	if err != nil {
		logger.Error("Failed to create patient record", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	username, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventUserRegister,
		Description: "Patient self-registered",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    role,
	})

	token, err := issueAccessToken(user, time.Now())
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	writeJSON(c, http.StatusCreated, map[string]any{
		"token":   token,
		"user":    user,
		"patient": patient,
	})
}

// ListPatientsHandler returns patient records: every record for admins, only
// assigned ones for doctors.
func ListPatientsHandler(c flamego.Context, user *db.User) {
	var doctorID *uuid.UUID
	if user.Role == db.RoleDoctor {
		doctorID = &user.ID
	}

	filters := db.PatientFilters{}
	if level := c.Query("risk_level"); level != "" {
		riskLevel := risk.Level(level)
		filters.RiskLevel = &riskLevel
	}
	if gender := c.Query("gender"); gender != "" {
		filters.Gender = &gender
	}

	patients, err := db.ListPatients(c.Request().Context(), doctorID, filters)
	if err != nil {
		logger.Error("Failed to list patients", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list patients")
		return
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"patients": patients,
		"count":    len(patients),
	})
}

// loadPatientForUser fetches a patient and enforces that doctors only reach
// records assigned to them.
func loadPatientForUser(c flamego.Context, user *db.User) *db.Patient {
	patient, err := db.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			writeError(c, http.StatusNotFound, "patient not found")
			return nil
		}
		logger.Error("Failed to get patient", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to get patient")
		return nil
	}

	if user.Role == db.RoleDoctor {
		if patient.AssignedDoctorID == nil || *patient.AssignedDoctorID != user.ID {
			logAccessDenied(c, "patient not assigned", http.StatusForbidden,
				"user_id", user.ID.String())
			writeError(c, http.StatusForbidden, "patient not assigned to you")
			return nil
		}
	}

	return patient
}

// GetPatientHandler returns a single patient record.
func GetPatientHandler(c flamego.Context, user *db.User) {
	patient := loadPatientForUser(c, user)
	if patient == nil {
		return
	}
	writeJSON(c, http.StatusOK, patient)
}

type updatePatientRequest struct {
	Gender          *string  `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Age             *float64 `json:"age" validate:"omitempty,min=0,max=120"`
	Hypertension    *int     `json:"hypertension" validate:"omitempty,min=0,max=1"`
	HeartDisease    *int     `json:"heart_disease" validate:"omitempty,min=0,max=1"`
	EverMarried     *string  `json:"ever_married" validate:"omitempty,oneof=Yes No"`
	WorkType        *string  `json:"work_type" validate:"omitempty,max=50"`
	ResidenceType   *string  `json:"residence_type" validate:"omitempty,oneof=Urban Rural"`
	AvgGlucoseLevel *float64 `json:"avg_glucose_level" validate:"omitempty,min=50,max=300"`
	BMI             *float64 `json:"bmi" validate:"omitempty,min=10,max=60"`
	SmokingStatus   *string  `json:"smoking_status" validate:"omitempty,max=50"`
	Stroke          *int     `json:"stroke" validate:"omitempty,min=0,max=1"`
}

// UpdatePatientHandler applies a partial update. The stored risk score is
// recomputed by the db layer when any scoring input changes.
func UpdatePatientHandler(c flamego.Context, user *db.User) {
	patient := loadPatientForUser(c, user)
	if patient == nil {
		return
	}

	var request updatePatientRequest
	if !decodeJSON(c, &request) {
		return
	}

	updated, err := db.UpdatePatient(c.Request().Context(), patient.ID.String(), db.UpdatePatientInput{
		Gender:          request.Gender,
		Age:             request.Age,
		Hypertension:    request.Hypertension,
		HeartDisease:    request.HeartDisease,
		EverMarried:     request.EverMarried,
		WorkType:        request.WorkType,
		ResidenceType:   request.ResidenceType,
		AvgGlucoseLevel: request.AvgGlucoseLevel,
		BMI:             request.BMI,
		SmokingStatus:   request.SmokingStatus,
		Stroke:          request.Stroke,
	})
	if err != nil {
		logger.Error("Failed to update patient", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to update patient")
		return
	}

	writeJSON(c, http.StatusOK, updated)
}

// DeletePatientHandler removes a patient record and its history.
func DeletePatientHandler(c flamego.Context, user *db.User) {
	id := c.Param("id")
	if err := db.DeletePatient(c.Request().Context(), id); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			writeError(c, http.StatusNotFound, "patient not found")
			return
		}
		logger.Error("Failed to delete patient", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to delete patient")
		return
	}

	username, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventPatientDeleted,
		Description: "Patient record deleted",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    role,
		Severity:    "warning",
	})

	writeJSON(c, http.StatusOK, map[string]string{"message": "patient deleted"})
}

// ListPatientRecordsHandler returns a patient's medical history.
func ListPatientRecordsHandler(c flamego.Context, user *db.User) {
	patient := loadPatientForUser(c, user)
	if patient == nil {
		return
	}

	records, err := db.ListMedicalRecords(c.Request().Context(), patient.ID.String())
	if err != nil {
		logger.Error("Failed to list medical records", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

type addRecordRequest struct {
	RecordType  string `json:"record_type" validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=2000"`
	Medications string `json:"medications" validate:"omitempty,max=1000"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// AddPatientRecordHandler appends an entry to a patient's medical history.
func AddPatientRecordHandler(c flamego.Context, user *db.User) {
	patient := loadPatientForUser(c, user)
	if patient == nil {
		return
	}

	var request addRecordRequest
	if !decodeJSON(c, &request) {
		return
	}

	input := db.CreateMedicalRecordInput{
		PatientID:   patient.ID,
		RecordType:  utils.SanitizeInput(request.RecordType),
		Description: utils.SanitizeInput(request.Description),
	}
	if user.Role == db.RoleDoctor {
		input.DoctorID = &user.ID
	}
	if request.Medications != "" {
		medications := utils.SanitizeInput(request.Medications)
		input.Medications = &medications
	}
	if request.Notes != "" {
		notes := utils.SanitizeInput(request.Notes)
		input.Notes = &notes
	}

	record, err := db.AddMedicalRecord(c.Request().Context(), input)
	if err != nil {
		logger.Error("Failed to add medical record", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to add record")
		return
	}

	writeJSON(c, http.StatusCreated, record)
}

// PredictStroke scores an ad-hoc set of clinical values without persisting
// anything. Values are coerced with the same parse-or-default rules the
// projection engine uses, so partial or loosely-typed input still scores.
func PredictStroke(c flamego.Context) {
	var values map[string]any
	if err := json.NewDecoder(c.Request().Body().ReadCloser()).Decode(&values); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record := risk.RecordFromValues(values)
	score := risk.ScoreStrokeRisk(record)
	level := risk.LevelForScore(score)

	writeJSON(c, http.StatusOK, map[string]any{
		"risk_score":      score,
		"risk_level":      level,
		"recommendations": predictionRecommendations(record, level),
	})
}

func predictionRecommendations(record risk.PatientRecord, level risk.Level) []string {
	recommendations := []string{}

	if level == risk.LevelHigh {
		recommendations = append(recommendations, "Schedule a consultation with a stroke specialist")
	}
	if record.Hypertension == 1 {
		recommendations = append(recommendations, "Monitor blood pressure regularly")
	}
	if record.HeartDisease == 1 {
		recommendations = append(recommendations, "Continue cardiac follow-up care")
	}
	if record.AvgGlucoseLevel > 120 {
		recommendations = append(recommendations, "Review diet and glucose management")
	}
	if record.BMI > 25 {
		recommendations = append(recommendations, "Discuss weight management options")
	}
	if record.SmokingStatus == risk.SmokingActive {
		recommendations = append(recommendations, "Consider a smoking cessation program")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Maintain current healthy lifestyle")
	}

	return recommendations
}
