/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package risk

// Additive rule-based stroke risk scoring. Scores are percentages capped at
// 100 and classified by fixed thresholds; both are advisory values shown on
// the dashboards, not clinical predictions.
const (
	maxRiskScore = 100

	thresholdHighScore   = 50
	thresholdMediumScore = 25
)

// ScoreStrokeRisk computes the rule-based risk score for a single patient.
// Each contributing factor adds a fixed weight; the sum is capped at 100.
func ScoreStrokeRisk(p PatientRecord) int {
	score := 0

	switch {
	case p.Age > 60:
		score += 30
	case p.Age > 45:
		score += 15
	}

	if p.Hypertension == 1 {
		score += 25
	}
	if p.HeartDisease == 1 {
		score += 20
	}

	switch {
	case p.AvgGlucoseLevel > 150:
		score += 15
	case p.AvgGlucoseLevel > 120:
		score += 8
	}

	switch {
	case p.BMI > 30:
		score += 10
	case p.BMI > 25:
		score += 5
	}

	switch p.SmokingStatus {
	case SmokingActive:
		score += 10
	case SmokingFormer:
		score += 5
	}

	if p.Stroke == 1 {
		score += 30
	}

	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}

// LevelForScore classifies a risk score into the three-valued risk level.
func LevelForScore(score int) Level {
	switch {
	case score >= thresholdHighScore:
		return LevelHigh
	case score >= thresholdMediumScore:
		return LevelMedium
	default:
		return LevelLow
	}
}
