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

// DashboardStats returns the SQL-aggregated patient statistics.
func DashboardStats(c flamego.Context) {
	stats, err := db.GetDashboardStats(c.Request().Context())
	if err != nil {
		logger.Error("Failed to compute dashboard stats", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(c, http.StatusOK, stats)
}

// RiskFactors returns comorbidity counts and the smoking distribution.
func RiskFactors(c flamego.Context) {
	stats, err := db.GetRiskFactorStats(c.Request().Context())
	if err != nil {
		logger.Error("Failed to compute risk factor stats", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(c, http.StatusOK, stats)
}

// FuturePredictions runs the risk projection engine over the full patient
// population and returns the report.
func FuturePredictions(c flamego.Context) {
	patients, err := db.ListPatients(c.Request().Context(), nil, db.PatientFilters{})
	if err != nil {
		logger.Error("Failed to load patients for projections", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to generate projections")
		return
	}

	records := make([]risk.PatientRecord, 0, len(patients))
	for _, patient := range patients {
		records = append(records, patient.RiskRecord())
	}

	report := risk.AnalyzeFuturePredictions(records)
	riskProjectionsTotal.Inc()

	writeJSON(c, http.StatusOK, report)
}
