/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/strokeward/strokeward/risk"
)

const patientColumns = `id, gender, age, hypertension, heart_disease, ever_married,
	work_type, residence_type, avg_glucose_level, bmi, smoking_status, stroke,
	stroke_risk, risk_level, created_by, assigned_doctor_id, created_at, updated_at`

// CreatePatientInput defines data for registering a patient record. The
// stored risk score and level are derived, never supplied by callers.
type CreatePatientInput struct {
	Gender           string
	Age              float64
	Hypertension     int
	HeartDisease     int
	EverMarried      string
	WorkType         string
	ResidenceType    string
	AvgGlucoseLevel  float64
	BMI              float64
	SmokingStatus    string
	Stroke           int
	CreatedBy        *uuid.UUID
	AssignedDoctorID *uuid.UUID
}

// UpdatePatientInput defines the mutable patient fields. Nil fields are left
// unchanged; when any risk input changes the stored score is recomputed.
type UpdatePatientInput struct {
	Gender          *string
	Age             *float64
	Hypertension    *int
	HeartDisease    *int
	EverMarried     *string
	WorkType        *string
	ResidenceType   *string
	AvgGlucoseLevel *float64
	BMI             *float64
	SmokingStatus   *string
	Stroke          *int
}

// PatientFilters narrows patient listings.
type PatientFilters struct {
	RiskLevel *risk.Level
	Gender    *string
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(
		&p.ID,
		&p.Gender,
		&p.Age,
		&p.Hypertension,
		&p.HeartDisease,
		&p.EverMarried,
		&p.WorkType,
		&p.ResidenceType,
		&p.AvgGlucoseLevel,
		&p.BMI,
		&p.SmokingStatus,
		&p.Stroke,
		&p.StrokeRisk,
		&p.RiskLevel,
		&p.CreatedBy,
		&p.AssignedDoctorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePatient registers a patient record, scoring its stroke risk at
// insertion time.
func CreatePatient(ctx context.Context, input CreatePatientInput) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	score := risk.ScoreStrokeRisk(risk.PatientRecord{
		Age:             input.Age,
		Hypertension:    input.Hypertension,
		HeartDisease:    input.HeartDisease,
		Stroke:          input.Stroke,
		AvgGlucoseLevel: input.AvgGlucoseLevel,
		BMI:             input.BMI,
		SmokingStatus:   input.SmokingStatus,
	})
	level := risk.LevelForScore(score)

	query := `
		INSERT INTO patients (gender, age, hypertension, heart_disease, ever_married,
			work_type, residence_type, avg_glucose_level, bmi, smoking_status, stroke,
			stroke_risk, risk_level, created_by, assigned_doctor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + patientColumns

	patient, err := scanPatient(pool.QueryRow(ctx, query,
		input.Gender,
		input.Age,
		input.Hypertension,
		input.HeartDisease,
		input.EverMarried,
		input.WorkType,
		input.ResidenceType,
		input.AvgGlucoseLevel,
		input.BMI,
		input.SmokingStatus,
		input.Stroke,
		score,
		level,
		input.CreatedBy,
		input.AssignedDoctorID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// GetPatient returns a patient record by ID.
func GetPatient(ctx context.Context, id string) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	patient, err := scanPatient(pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// GetPatientByCreator returns the patient record created by the given
// account. Self-registered patients are linked to their accounts this way.
func GetPatientByCreator(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	patient, err := scanPatient(pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE created_by = $1 ORDER BY created_at LIMIT 1`,
		userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by creator: %w", err)
	}
	return patient, nil
}

// ListPatients returns patient records newest first, optionally narrowed by
// filters and by assigned doctor.
func ListPatients(ctx context.Context, doctorID *uuid.UUID, filters PatientFilters) ([]Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `SELECT ` + patientColumns + ` FROM patients`
	conditions := []string{}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if doctorID != nil {
		conditions = append(conditions, "assigned_doctor_id = "+arg(*doctorID))
	}
	if filters.RiskLevel != nil {
		conditions = append(conditions, "risk_level = "+arg(*filters.RiskLevel))
	}
	if filters.Gender != nil {
		conditions = append(conditions, "gender = "+arg(*filters.Gender))
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// UpdatePatient applies the non-nil fields of input. If any scoring input
// changed, the stored stroke risk and level are recomputed from the merged
// record.
func UpdatePatient(ctx context.Context, id string, input UpdatePatientInput) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	current, err := GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	sets := []string{}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	rescore := false
	if input.Gender != nil {
		current.Gender = *input.Gender
		sets = append(sets, "gender = "+arg(*input.Gender))
	}
	if input.Age != nil {
		current.Age = *input.Age
		sets = append(sets, "age = "+arg(*input.Age))
		rescore = true
	}
	if input.Hypertension != nil {
		current.Hypertension = *input.Hypertension
		sets = append(sets, "hypertension = "+arg(*input.Hypertension))
		rescore = true
	}
	if input.HeartDisease != nil {
		current.HeartDisease = *input.HeartDisease
		sets = append(sets, "heart_disease = "+arg(*input.HeartDisease))
		rescore = true
	}
	if input.EverMarried != nil {
		current.EverMarried = *input.EverMarried
		sets = append(sets, "ever_married = "+arg(*input.EverMarried))
	}
	if input.WorkType != nil {
		current.WorkType = *input.WorkType
		sets = append(sets, "work_type = "+arg(*input.WorkType))
	}
	if input.ResidenceType != nil {
		current.ResidenceType = *input.ResidenceType
		sets = append(sets, "residence_type = "+arg(*input.ResidenceType))
	}
	if input.AvgGlucoseLevel != nil {
		current.AvgGlucoseLevel = *input.AvgGlucoseLevel
		sets = append(sets, "avg_glucose_level = "+arg(*input.AvgGlucoseLevel))
		rescore = true
	}
	if input.BMI != nil {
		current.BMI = *input.BMI
		sets = append(sets, "bmi = "+arg(*input.BMI))
		rescore = true
	}
	if input.SmokingStatus != nil {
		current.SmokingStatus = *input.SmokingStatus
		sets = append(sets, "smoking_status = "+arg(*input.SmokingStatus))
		rescore = true
	}
	if input.Stroke != nil {
		current.Stroke = *input.Stroke
		sets = append(sets, "stroke = "+arg(*input.Stroke))
		rescore = true
	}

	if len(sets) == 0 {
		return current, nil
	}

	if rescore {
		score := risk.ScoreStrokeRisk(current.RiskRecord())
		sets = append(sets, "stroke_risk = "+arg(score))
		sets = append(sets, "risk_level = "+arg(risk.LevelForScore(score)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE patients SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + patientColumns

	patient, err := scanPatient(pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// DeletePatient removes a patient record and its medical history.
func DeletePatient(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	command, err := pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if command.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// CreateMedicalRecordInput defines data for a medical history entry.
type CreateMedicalRecordInput struct {
	PatientID   uuid.UUID
	RecordType  string
	Description string
	DoctorID    *uuid.UUID
	Medications *string
	Notes       *string
}

// AddMedicalRecord appends an entry to a patient's medical history.
func AddMedicalRecord(ctx context.Context, input CreateMedicalRecordInput) (*MedicalRecord, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var record MedicalRecord
	query := `
		INSERT INTO medical_records (patient_id, record_type, description, doctor_id, medications, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, patient_id, record_type, description, doctor_id, medications, notes, created_at
	`
	if err := pool.QueryRow(ctx, query,
		input.PatientID,
		input.RecordType,
		input.Description,
		input.DoctorID,
		input.Medications,
		input.Notes,
	).Scan(
		&record.ID,
		&record.PatientID,
		&record.RecordType,
		&record.Description,
		&record.DoctorID,
		&record.Medications,
		&record.Notes,
		&record.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to add medical record: %w", err)
	}
	return &record, nil
}

// ListMedicalRecords returns a patient's medical history, newest first.
func ListMedicalRecords(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, patient_id, record_type, description, doctor_id, medications, notes, created_at
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	defer rows.Close()

	var records []MedicalRecord
	for rows.Next() {
		var record MedicalRecord
		if err := rows.Scan(
			&record.ID,
			&record.PatientID,
			&record.RecordType,
			&record.Description,
			&record.DoctorID,
			&record.Medications,
			&record.Notes,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan medical record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medical records: %w", err)
	}

	return records, nil
}
