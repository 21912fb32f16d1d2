/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/strokeward/strokeward/risk"
)

// AgeStats summarizes the patient age column.
type AgeStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// DashboardStats aggregates the whole patient table for the analytics
// dashboard.
type DashboardStats struct {
	TotalPatients      int            `json:"total_patients"`
	StrokeCases        int            `json:"stroke_cases"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
	GenderDistribution map[string]int `json:"gender_distribution"`
	AgeStats           AgeStats       `json:"age_stats"`
	AvgGlucose         float64        `json:"avg_glucose"`
	AvgBMI             float64        `json:"avg_bmi"`
	HypertensionCases  int            `json:"hypertension_cases"`
	HeartDiseaseCases  int            `json:"heart_disease_cases"`
}

// RiskFactorStats summarizes comorbidity prevalence across all patients.
type RiskFactorStats struct {
	HypertensionCases   int            `json:"hypertension_cases"`
	HeartDiseaseCases   int            `json:"heart_disease_cases"`
	SmokingDistribution map[string]int `json:"smoking_distribution"`
}

// SystemStats is the admin overview of the whole portal.
type SystemStats struct {
	TotalPatients     int `json:"total_patients"`
	TotalDoctors      int `json:"total_doctors"`
	TotalAdmins       int `json:"total_admins"`
	HighRiskPatients  int `json:"high_risk_patients"`
	TodayAppointments int `json:"today_appointments"`
	TotalUsers        int `json:"total_users"`
}

// GetDashboardStats computes the dashboard aggregates in SQL so the whole
// patient table never crosses the wire.
func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	stats := DashboardStats{
		RiskDistribution:   map[string]int{},
		GenderDistribution: map[string]int{},
	}

	err := pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stroke = 1),
			COUNT(*) FILTER (WHERE hypertension = 1),
			COUNT(*) FILTER (WHERE heart_disease = 1),
			COALESCE(AVG(age), 0),
			COALESCE(MIN(age), 0),
			COALESCE(MAX(age), 0),
			COALESCE(AVG(avg_glucose_level), 0),
			COALESCE(AVG(bmi), 0)
		FROM patients
	`).Scan(
		&stats.TotalPatients,
		&stats.StrokeCases,
		&stats.HypertensionCases,
		&stats.HeartDiseaseCases,
		&stats.AgeStats.Average,
		&stats.AgeStats.Min,
		&stats.AgeStats.Max,
		&stats.AvgGlucose,
		&stats.AvgBMI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	riskDist, err := groupedCounts(ctx, `SELECT risk_level, COUNT(*) FROM patients GROUP BY risk_level`)
	if err != nil {
		return nil, err
	}
	stats.RiskDistribution = riskDist

	genderDist, err := groupedCounts(ctx, `SELECT gender, COUNT(*) FROM patients GROUP BY gender`)
	if err != nil {
		return nil, err
	}
	stats.GenderDistribution = genderDist

	return &stats, nil
}

// GetRiskFactorStats computes comorbidity counts and the smoking-status
// distribution.
func GetRiskFactorStats(ctx context.Context) (*RiskFactorStats, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var stats RiskFactorStats
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE hypertension = 1),
			COUNT(*) FILTER (WHERE heart_disease = 1)
		FROM patients
	`).Scan(&stats.HypertensionCases, &stats.HeartDiseaseCases)
	if err != nil {
		return nil, fmt.Errorf("failed to compute risk factor stats: %w", err)
	}

	smoking, err := groupedCounts(ctx, `SELECT smoking_status, COUNT(*) FROM patients GROUP BY smoking_status`)
	if err != nil {
		return nil, err
	}
	stats.SmokingDistribution = smoking

	return &stats, nil
}

// GetSystemStats computes the admin overview counters.
func GetSystemStats(ctx context.Context, today time.Time) (*SystemStats, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var stats SystemStats
	err := pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM patients WHERE risk_level = $1),
			(SELECT COUNT(*) FROM users WHERE role = $2),
			(SELECT COUNT(*) FROM users WHERE role = $3),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM appointments WHERE appointment_date = $4 AND status = $5)
	`, risk.LevelHigh, RoleDoctor, RoleAdmin, today, AppointmentScheduled).Scan(
		&stats.TotalPatients,
		&stats.HighRiskPatients,
		&stats.TotalDoctors,
		&stats.TotalAdmins,
		&stats.TotalUsers,
		&stats.TodayAppointments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute system stats: %w", err)
	}

	return &stats, nil
}

func groupedCounts(ctx context.Context, query string) (map[string]int, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute distribution: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		counts[key] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}

	return counts, nil
}
