// SPDX-FileCopyrightText: 2025 The Strokeward Authors
// SPDX-License-Identifier: Apache-2.0

package risk

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeFuturePredictionsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, input := range [][]PatientRecord{nil, {}} {
		report := AnalyzeFuturePredictions(input)

		if report.SummaryMetrics.TotalPatients != 0 {
			t.Fatalf("expected zero total patients, got %d", report.SummaryMetrics.TotalPatients)
		}
		if len(report.RiskProgression) != 0 {
			t.Fatalf("expected empty risk progression, got %d entries", len(report.RiskProgression))
		}
		if report.Projections.CurrentHighRiskPercentage != 0 {
			t.Fatalf("expected zero current percentage, got %d", report.Projections.CurrentHighRiskPercentage)
		}

		items := report.Projections.RecommendedActionItems
		if len(items) != 1 || items[0] != noDataMessage {
			t.Fatalf("expected exactly the no-data message, got %v", items)
		}
	}
}

func TestAnalyzeFuturePredictionsTotalCount(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 7, 42} {
		patients := make([]PatientRecord, size)
		for i := range patients {
			patients[i] = PatientRecord{Age: float64(20 + i%60)}
		}

		report := AnalyzeFuturePredictions(patients)
		if report.SummaryMetrics.TotalPatients != size {
			t.Fatalf("size %d: expected total %d, got %d", size, size, report.SummaryMetrics.TotalPatients)
		}
	}
}

func TestCohortPartitionExhaustiveAndDisjoint(t *testing.T) {
	t.Parallel()

	// Ages straddling every cohort boundary.
	ages := []float64{0, 12, 39.9, 40, 45, 49.9, 50, 55, 59.9, 60, 61, 88, 103}
	patients := make([]PatientRecord, len(ages))
	for i, age := range ages {
		patients[i] = PatientRecord{Age: age}
	}

	report := AnalyzeFuturePredictions(patients)

	sum := 0
	for _, cohort := range report.RiskProgression {
		if cohort.PatientCount == 0 {
			t.Fatalf("empty cohort %q should have been omitted", cohort.AgeGroup)
		}
		sum += cohort.PatientCount
	}
	if sum != len(patients) {
		t.Fatalf("cohort counts sum to %d, want %d", sum, len(patients))
	}

	wantOrder := []string{"Under 40", "40-50", "50-60", "60+"}
	if len(report.RiskProgression) != len(wantOrder) {
		t.Fatalf("expected %d cohorts, got %d", len(wantOrder), len(report.RiskProgression))
	}
	for i, cohort := range report.RiskProgression {
		if cohort.AgeGroup != wantOrder[i] {
			t.Fatalf("cohort %d: got %q, want %q", i, cohort.AgeGroup, wantOrder[i])
		}
	}
}

func TestCohortOrderIndependentOfInputOrder(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 72}, {Age: 20}, {Age: 55}, {Age: 44},
	}

	report := AnalyzeFuturePredictions(patients)

	want := []string{"Under 40", "40-50", "50-60", "60+"}
	for i, cohort := range report.RiskProgression {
		if cohort.AgeGroup != want[i] {
			t.Fatalf("cohort %d: got %q, want %q", i, cohort.AgeGroup, want[i])
		}
	}
}

func TestEmptyCohortsOmitted(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{{Age: 30}, {Age: 65}}
	report := AnalyzeFuturePredictions(patients)

	if len(report.RiskProgression) != 2 {
		t.Fatalf("expected 2 occupied cohorts, got %d", len(report.RiskProgression))
	}
	if report.RiskProgression[0].AgeGroup != "Under 40" || report.RiskProgression[1].AgeGroup != "60+" {
		t.Fatalf("unexpected cohorts: %+v", report.RiskProgression)
	}
}

func TestCohortStatistics(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 65, RiskLevel: LevelHigh},
		{Age: 66, RiskLevel: LevelMedium},
		{Age: 67, RiskLevel: LevelLow},
		{Age: 68}, // missing level defaults to low
	}

	report := AnalyzeFuturePredictions(patients)
	if len(report.RiskProgression) != 1 {
		t.Fatalf("expected single cohort, got %d", len(report.RiskProgression))
	}

	cohort := report.RiskProgression[0]
	if cohort.PatientCount != 4 {
		t.Fatalf("expected 4 patients, got %d", cohort.PatientCount)
	}
	if cohort.HighRiskPercentage != 25 {
		t.Fatalf("expected 25%% high risk, got %v", cohort.HighRiskPercentage)
	}
	if cohort.MediumRiskPercentage != 25 {
		t.Fatalf("expected 25%% medium risk, got %v", cohort.MediumRiskPercentage)
	}
	// (75 + 40 + 15 + 15) / 4 = 36.25 -> 36
	if cohort.AverageRiskScore != 36 {
		t.Fatalf("expected average score 36, got %d", cohort.AverageRiskScore)
	}
}

func TestProjectionOrderingMonotonic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		patients []PatientRecord
	}{
		{
			name:     "no high risk",
			patients: []PatientRecord{{Age: 30}, {Age: 40}},
		},
		{
			name: "third high risk",
			patients: []PatientRecord{
				{Age: 30, RiskLevel: LevelHigh},
				{Age: 40},
				{Age: 50},
			},
		},
		{
			name: "all high risk",
			patients: []PatientRecord{
				{Age: 70, RiskLevel: LevelHigh},
				{Age: 75, RiskLevel: LevelHigh},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := AnalyzeFuturePredictions(tc.patients).Projections
			if p.ProjectedHighRiskIn6Months < p.CurrentHighRiskPercentage {
				t.Fatalf("6-month projection %d below current %d",
					p.ProjectedHighRiskIn6Months, p.CurrentHighRiskPercentage)
			}
			if p.ProjectedHighRiskIn1Year < p.ProjectedHighRiskIn6Months {
				t.Fatalf("1-year projection %d below 6-month %d",
					p.ProjectedHighRiskIn1Year, p.ProjectedHighRiskIn6Months)
			}
		})
	}
}

func TestProjectionValues(t *testing.T) {
	t.Parallel()

	// 2 of 3 high risk: current = round(66.67) = 67.
	patients := []PatientRecord{
		{Age: 62, RiskLevel: LevelHigh},
		{Age: 64, RiskLevel: LevelHigh},
		{Age: 66, RiskLevel: LevelLow},
	}

	p := AnalyzeFuturePredictions(patients).Projections
	if p.CurrentHighRiskPercentage != 67 {
		t.Fatalf("expected current 67, got %d", p.CurrentHighRiskPercentage)
	}
	// round(67 * 1.15) = round(77.05) = 77
	if p.ProjectedHighRiskIn6Months != 77 {
		t.Fatalf("expected 6-month 77, got %d", p.ProjectedHighRiskIn6Months)
	}
	// round(67 * 1.25) = round(83.75) = 84
	if p.ProjectedHighRiskIn1Year != 84 {
		t.Fatalf("expected 1-year 84, got %d", p.ProjectedHighRiskIn1Year)
	}
	// avg age 64 -> ceil(64/10)*10 + 10 = 80
	if p.EstimatedNextCriticalAge != 80 {
		t.Fatalf("expected critical age 80, got %d", p.EstimatedNextCriticalAge)
	}
}

func TestCalculateRiskIncreaseZeroDenominator(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 60, Hypertension: 1, RiskLevel: LevelHigh},
		{Age: 55, Hypertension: 1, RiskLevel: LevelLow},
	}

	if got := CalculateRiskIncrease(patients, ConditionHypertension); got != 0 {
		t.Fatalf("expected 0 when nobody is condition-free, got %d", got)
	}
}

func TestCalculateRiskIncreaseClearSeparation(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 60, Hypertension: 1, RiskLevel: LevelHigh},
		{Age: 55, Hypertension: 1, RiskLevel: LevelHigh},
		{Age: 45, Hypertension: 0, RiskLevel: LevelLow},
		{Age: 50, Hypertension: 0, RiskLevel: LevelLow},
	}

	if got := CalculateRiskIncrease(patients, ConditionHypertension); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestCalculateRiskIncreaseSignedValuePreserved(t *testing.T) {
	t.Parallel()

	// Condition-free group is riskier; the signed result must survive.
	patients := []PatientRecord{
		{Age: 60, HeartDisease: 1, RiskLevel: LevelLow},
		{Age: 55, HeartDisease: 0, RiskLevel: LevelHigh},
		{Age: 50, HeartDisease: 0, RiskLevel: LevelHigh},
	}

	if got := CalculateRiskIncrease(patients, ConditionHeartDisease); got != -100 {
		t.Fatalf("expected -100, got %d", got)
	}
}

func TestCalculateRiskIncreaseIgnoresOutOfRangeFlags(t *testing.T) {
	t.Parallel()

	// Flag value 2 belongs to neither partition.
	patients := []PatientRecord{
		{Age: 60, Hypertension: 2, RiskLevel: LevelHigh},
		{Age: 55, Hypertension: 1, RiskLevel: LevelHigh},
		{Age: 50, Hypertension: 0, RiskLevel: LevelLow},
	}

	if got := CalculateRiskIncrease(patients, ConditionHypertension); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestMixedCohortScenario(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 30, RiskLevel: LevelLow},
		{Age: 65, RiskLevel: LevelHigh, Hypertension: 1},
		{Age: 55, RiskLevel: LevelMedium, HeartDisease: 1},
	}

	report := AnalyzeFuturePredictions(patients)

	if report.SummaryMetrics.TotalPatients != 3 {
		t.Fatalf("expected 3 patients, got %d", report.SummaryMetrics.TotalPatients)
	}
	if len(report.RiskProgression) != 3 {
		t.Fatalf("expected 3 occupied cohorts, got %d", len(report.RiskProgression))
	}
	if report.Projections.CurrentHighRiskPercentage != 33 {
		t.Fatalf("expected current 33, got %d", report.Projections.CurrentHighRiskPercentage)
	}
	if report.SummaryMetrics.HypertensionCount != 1 || report.SummaryMetrics.HeartDiseaseCount != 1 {
		t.Fatalf("unexpected condition counts: %+v", report.SummaryMetrics)
	}
}

func TestRecommendationConditionality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		patients         []PatientRecord
		wantHypertension bool
		wantSmoking      bool
	}{
		{
			name:     "neither condition present",
			patients: []PatientRecord{{Age: 30}, {Age: 45}},
		},
		{
			name: "hypertension only",
			patients: []PatientRecord{
				{Age: 50, Hypertension: 1},
				{Age: 45},
			},
			wantHypertension: true,
		},
		{
			name: "smokers only",
			patients: []PatientRecord{
				{Age: 50, SmokingStatus: SmokingActive},
				{Age: 45, SmokingStatus: SmokingFormer},
			},
			wantSmoking: true,
		},
		{
			name: "both present",
			patients: []PatientRecord{
				{Age: 50, Hypertension: 1, SmokingStatus: SmokingActive},
			},
			wantHypertension: true,
			wantSmoking:      true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			report := AnalyzeFuturePredictions(tc.patients)
			items := report.Projections.RecommendedActionItems

			// The three unconditional items always lead the list.
			base := 3
			want := base
			if tc.wantHypertension {
				want++
			}
			if tc.wantSmoking {
				want++
			}
			if len(items) != want {
				t.Fatalf("expected %d action items, got %d: %v", want, len(items), items)
			}

			gotHypertension := containsSubstring(items, "hypertensive")
			if gotHypertension != tc.wantHypertension {
				t.Fatalf("hypertension message present=%v, want %v", gotHypertension, tc.wantHypertension)
			}
			gotSmoking := containsSubstring(items, "cessation")
			if gotSmoking != tc.wantSmoking {
				t.Fatalf("smoking message present=%v, want %v", gotSmoking, tc.wantSmoking)
			}
			for _, item := range items {
				if item == "" {
					t.Fatal("empty action item leaked into the list")
				}
			}
		})
	}
}

func TestAnalyzeFuturePredictionsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 65, Hypertension: 1, SmokingStatus: SmokingActive, RiskLevel: LevelHigh},
		{Age: 30, AvgGlucoseLevel: 140, BMI: 27},
		{Age: 52, HeartDisease: 1}, // risk level intentionally unset
	}
	snapshot := make([]PatientRecord, len(patients))
	copy(snapshot, patients)

	_ = AnalyzeFuturePredictions(patients)
	_ = CalculateRiskIncrease(patients, ConditionHypertension)

	if !reflect.DeepEqual(patients, snapshot) {
		t.Fatalf("input mutated:\n got %+v\nwant %+v", patients, snapshot)
	}
}

func TestSummaryMetricsCounts(t *testing.T) {
	t.Parallel()

	patients := []PatientRecord{
		{Age: 70, Hypertension: 1, HeartDisease: 1, Stroke: 1, SmokingStatus: SmokingActive},
		{Age: 40, Hypertension: 1, SmokingStatus: SmokingFormer},
		{Age: 25, SmokingStatus: SmokingNever},
	}

	metrics := AnalyzeFuturePredictions(patients).SummaryMetrics
	want := SummaryMetrics{
		TotalPatients:     3,
		HypertensionCount: 2,
		HeartDiseaseCount: 1,
		SmokerCount:       1,
		PriorStrokeCount:  1,
	}
	if metrics != want {
		t.Fatalf("got %+v, want %+v", metrics, want)
	}
}

func containsSubstring(items []string, substring string) bool {
	for _, item := range items {
		if strings.Contains(item, substring) {
			return true
		}
	}
	return false
}
