/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"

	"github.com/strokeward/strokeward/db"
	"github.com/strokeward/strokeward/risk"
)

// ListDoctors returns the active doctor directory for booking.
func ListDoctors(c flamego.Context) {
	doctors, err := db.ListActiveDoctors(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list doctors", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list doctors")
		return
	}

	directory := make([]map[string]any, 0, len(doctors))
	for _, doctor := range doctors {
		directory = append(directory, map[string]any{
			"id":             doctor.ID,
			"first_name":     doctor.FirstName,
			"last_name":      doctor.LastName,
			"specialization": doctor.Specialization,
		})
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"doctors": directory,
		"count":   len(directory),
	})
}

// DoctorPatients returns the caller's assigned patients.
func DoctorPatients(c flamego.Context, user *db.User) {
	patients, err := db.ListPatients(c.Request().Context(), &user.ID, db.PatientFilters{})
	if err != nil {
		logger.Error("Failed to list assigned patients", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list patients")
		return
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"patients": patients,
		"count":    len(patients),
	})
}

// DoctorStats summarizes the caller's assigned patients for the doctor
// dashboard. The cohort is small enough to aggregate in memory.
func DoctorStats(c flamego.Context, user *db.User) {
	patients, err := db.ListPatients(c.Request().Context(), &user.ID, db.PatientFilters{})
	if err != nil {
		logger.Error("Failed to list assigned patients", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	riskDistribution := map[string]int{}
	genderDistribution := map[string]int{}
	hypertensionCases := 0
	heartDiseaseCases := 0
	strokeCases := 0
	totalAge := 0.0

	for _, patient := range patients {
		riskDistribution[string(patient.RiskLevel)]++
		genderDistribution[patient.Gender]++
		if patient.Hypertension == 1 {
			hypertensionCases++
		}
		if patient.HeartDisease == 1 {
			heartDiseaseCases++
		}
		if patient.Stroke == 1 {
			strokeCases++
		}
		totalAge += patient.Age
	}

	averageAge := 0.0
	if len(patients) > 0 {
		averageAge = totalAge / float64(len(patients))
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"total_patients":      len(patients),
		"high_risk_patients":  riskDistribution[string(risk.LevelHigh)],
		"risk_distribution":   riskDistribution,
		"gender_distribution": genderDistribution,
		"hypertension_cases":  hypertensionCases,
		"heart_disease_cases": heartDiseaseCases,
		"stroke_cases":        strokeCases,
		"average_age":         averageAge,
	})
}
