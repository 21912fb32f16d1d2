/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package risk holds the portal's stroke-risk computations: the rule-based
// per-patient scorer used when records are created or updated, and the
// projection engine that aggregates a patient list into age-cohort trends,
// comorbidity impact and short-term high-risk projections.
//
// Everything in this package is pure: no I/O, no shared state, no errors.
// Malformed input degrades to zero values instead of failing, since the
// results feed advisory dashboards rather than clinical decisions.
package risk

import (
	"math"
	"strconv"
)

// Level is the coarse three-valued risk classification attached to each
// patient record.
type Level string

// Level values.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Smoking status values as stored on patient records.
const (
	SmokingActive  = "Smokes"
	SmokingFormer  = "Formerly smoked"
	SmokingNever   = "Never smoked"
	SmokingUnknown = "Unknown"
)

// PatientRecord is the engine's view of a patient. Binary comorbidity flags
// keep whatever integer value coercion produced; the impact partitions match
// on exactly 0 and exactly 1, so out-of-range values fall into neither group.
type PatientRecord struct {
	Age             float64 `json:"age"`
	Gender          string  `json:"gender"`
	Hypertension    int     `json:"hypertension"`
	HeartDisease    int     `json:"heart_disease"`
	Stroke          int     `json:"stroke"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   string  `json:"smoking_status"`
	RiskLevel       Level   `json:"risk_level"`
}

// riskLevelOf resolves a record's classification, defaulting to low when the
// upstream service left it unset.
func riskLevelOf(p PatientRecord) Level {
	if p.RiskLevel == "" {
		return LevelLow
	}
	return p.RiskLevel
}

// normalize returns a fresh slice the engine can aggregate over without ever
// touching the caller's records. Non-finite numeric fields collapse to 0 and
// a missing risk level becomes low.
func normalize(patients []PatientRecord) []PatientRecord {
	normalized := make([]PatientRecord, 0, len(patients))
	for _, p := range patients {
		record := p
		record.Age = finiteOrZero(p.Age)
		record.AvgGlucoseLevel = finiteOrZero(p.AvgGlucoseLevel)
		record.BMI = finiteOrZero(p.BMI)
		record.RiskLevel = riskLevelOf(p)
		normalized = append(normalized, record)
	}
	return normalized
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NumberOrZero converts an arbitrary decoded JSON value to a float64.
// Parse failures, NaN, infinities, nil and non-numeric types all map to 0.
func NumberOrZero(v any) float64 {
	switch value := v.(type) {
	case float64:
		return finiteOrZero(value)
	case float32:
		return finiteOrZero(float64(value))
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	case bool:
		if value {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// BinaryOrZero converts an arbitrary decoded JSON value to an integer flag.
// The value is truncated, not clamped: "1" and 1.0 become 1, while 2 stays 2
// and is excluded from both sides of a comorbidity partition.
func BinaryOrZero(v any) int {
	return int(NumberOrZero(v))
}

// RecordFromValues builds a PatientRecord from loosely-typed JSON values,
// applying the parse-or-default coercion contract to every numeric field.
func RecordFromValues(values map[string]any) PatientRecord {
	record := PatientRecord{
		Age:             NumberOrZero(values["age"]),
		Hypertension:    BinaryOrZero(values["hypertension"]),
		HeartDisease:    BinaryOrZero(values["heart_disease"]),
		Stroke:          BinaryOrZero(values["stroke"]),
		AvgGlucoseLevel: NumberOrZero(values["avg_glucose_level"]),
		BMI:             NumberOrZero(values["bmi"]),
	}
	if gender, ok := values["gender"].(string); ok {
		record.Gender = gender
	}
	if smoking, ok := values["smoking_status"].(string); ok {
		record.SmokingStatus = smoking
	}
	if level, ok := values["risk_level"].(string); ok {
		record.RiskLevel = Level(level)
	}
	return record
}
