// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"testing"
	"time"

	"github.com/strokeward/strokeward/risk"
)

func TestValidRole(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{role: RoleAdmin, want: true},
		{role: RoleDoctor, want: true},
		{role: RolePatient, want: true},
		{role: Role("superuser"), want: false},
		{role: Role(""), want: false},
	}

	for _, tc := range cases {
		if got := ValidRole(tc.role); got != tc.want {
			t.Fatalf("ValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestAppointmentDateString(t *testing.T) {
	appointment := Appointment{
		AppointmentDate: time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
	}
	if got := appointment.DateString(); got != "2026-03-07" {
		t.Fatalf("expected 2026-03-07, got %q", got)
	}
}

func TestPatientRiskRecord(t *testing.T) {
	patient := Patient{
		Gender:          "Male",
		Age:             67,
		Hypertension:    1,
		HeartDisease:    0,
		Stroke:          1,
		AvgGlucoseLevel: 160.5,
		BMI:             31.2,
		SmokingStatus:   risk.SmokingFormer,
		RiskLevel:       risk.LevelHigh,
	}

	record := patient.RiskRecord()
	if record.Age != 67 || record.Gender != "Male" {
		t.Fatalf("unexpected record identity fields: %+v", record)
	}
	if record.Hypertension != 1 || record.HeartDisease != 0 || record.Stroke != 1 {
		t.Fatalf("unexpected record flags: %+v", record)
	}
	if record.AvgGlucoseLevel != 160.5 || record.BMI != 31.2 {
		t.Fatalf("unexpected record measurements: %+v", record)
	}
	if record.SmokingStatus != risk.SmokingFormer || record.RiskLevel != risk.LevelHigh {
		t.Fatalf("unexpected record status fields: %+v", record)
	}
}
