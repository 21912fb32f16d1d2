// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"testing"
	"time"

	"github.com/strokeward/strokeward/risk"
)

func TestGetDashboardStats(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	empty, err := GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if empty.TotalPatients != 0 {
		t.Fatalf("expected zero patients, got %d", empty.TotalPatients)
	}

	mustCreatePatient(t, CreatePatientInput{
		Gender: "Female", Age: 30, AvgGlucoseLevel: 100, BMI: 22,
	})
	mustCreatePatient(t, CreatePatientInput{
		Gender: "Male", Age: 70, Hypertension: 1, HeartDisease: 1,
		AvgGlucoseLevel: 200, BMI: 34, Stroke: 1,
	})

	stats, err := GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalPatients != 2 {
		t.Fatalf("expected 2 patients, got %d", stats.TotalPatients)
	}
	if stats.StrokeCases != 1 {
		t.Fatalf("expected 1 stroke case, got %d", stats.StrokeCases)
	}
	if stats.HypertensionCases != 1 || stats.HeartDiseaseCases != 1 {
		t.Fatalf("expected 1 hypertension and 1 heart disease case")
	}
	if stats.AgeStats.Average != 50 || stats.AgeStats.Min != 30 || stats.AgeStats.Max != 70 {
		t.Fatalf("unexpected age stats: %+v", stats.AgeStats)
	}
	if stats.AvgGlucose != 150 {
		t.Fatalf("expected avg glucose 150, got %v", stats.AvgGlucose)
	}
	if stats.GenderDistribution["Female"] != 1 || stats.GenderDistribution["Male"] != 1 {
		t.Fatalf("unexpected gender distribution: %v", stats.GenderDistribution)
	}
	if stats.RiskDistribution[string(risk.LevelLow)] != 1 {
		t.Fatalf("expected 1 low-risk patient, got %v", stats.RiskDistribution)
	}
	if stats.RiskDistribution[string(risk.LevelHigh)] != 1 {
		t.Fatalf("expected 1 high-risk patient, got %v", stats.RiskDistribution)
	}
}

func TestGetRiskFactorStats(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	mustCreatePatient(t, CreatePatientInput{
		Age: 30, AvgGlucoseLevel: 100, BMI: 22, SmokingStatus: risk.SmokingActive,
	})
	mustCreatePatient(t, CreatePatientInput{
		Age: 40, Hypertension: 1, AvgGlucoseLevel: 110, BMI: 24, SmokingStatus: risk.SmokingActive,
	})
	mustCreatePatient(t, CreatePatientInput{
		Age: 50, Hypertension: 1, AvgGlucoseLevel: 120, BMI: 26, SmokingStatus: risk.SmokingNever,
	})

	stats, err := GetRiskFactorStats(ctx)
	if err != nil {
		t.Fatalf("GetRiskFactorStats failed: %v", err)
	}
	if stats.HypertensionCases != 2 {
		t.Fatalf("expected 2 hypertension cases, got %d", stats.HypertensionCases)
	}
	if stats.HeartDiseaseCases != 0 {
		t.Fatalf("expected 0 heart disease cases, got %d", stats.HeartDiseaseCases)
	}
	if stats.SmokingDistribution[risk.SmokingActive] != 2 {
		t.Fatalf("expected 2 active smokers, got %v", stats.SmokingDistribution)
	}
	if stats.SmokingDistribution[risk.SmokingNever] != 1 {
		t.Fatalf("expected 1 never smoker, got %v", stats.SmokingDistribution)
	}
}

func TestGetSystemStats(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	mustCreateUser(t, "admin1", RoleAdmin)
	doctor := mustCreateUser(t, "doc1", RoleDoctor)
	mustCreateUser(t, "doc2", RoleDoctor)
	mustCreateUser(t, "pat1", RolePatient)

	patient := mustCreatePatient(t, CreatePatientInput{
		Age: 72, Hypertension: 1, AvgGlucoseLevel: 180, BMI: 33,
	})
	mustCreatePatient(t, CreatePatientInput{
		Age: 25, AvgGlucoseLevel: 100, BMI: 21,
	})

	today := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	mustCreateAppointment(t, patient.ID.String(), doctor.ID.String(), today)
	cancelled := mustCreateAppointment(t, patient.ID.String(), doctor.ID.String(), today)
	if err := CancelAppointment(ctx, cancelled.ID.String()); err != nil {
		t.Fatalf("CancelAppointment failed: %v", err)
	}
	mustCreateAppointment(t, patient.ID.String(), doctor.ID.String(), today.AddDate(0, 0, 1))

	stats, err := GetSystemStats(ctx, today)
	if err != nil {
		t.Fatalf("GetSystemStats failed: %v", err)
	}
	if stats.TotalUsers != 4 {
		t.Fatalf("expected 4 users, got %d", stats.TotalUsers)
	}
	if stats.TotalDoctors != 2 {
		t.Fatalf("expected 2 doctors, got %d", stats.TotalDoctors)
	}
	if stats.TotalAdmins != 1 {
		t.Fatalf("expected 1 admin, got %d", stats.TotalAdmins)
	}
	if stats.TotalPatients != 2 {
		t.Fatalf("expected 2 patients, got %d", stats.TotalPatients)
	}
	if stats.HighRiskPatients != 1 {
		t.Fatalf("expected 1 high-risk patient, got %d", stats.HighRiskPatients)
	}
	if stats.TodayAppointments != 1 {
		t.Fatalf("expected 1 appointment today, got %d", stats.TodayAppointments)
	}
}
