/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package risk

import (
	"fmt"
	"math"
)

// Projection heuristics. The uplift multipliers and the decade step are fixed
// policy constants carried over from the original dashboard, not fitted
// against historical data.
const (
	sixMonthUpliftFactor = 1.15
	oneYearUpliftFactor  = 1.25
	criticalAgeStep      = 10
	monitoringBandWidth  = 5
)

// Numeric proxy used to average risk levels within a cohort.
const (
	riskProxyHigh   = 75
	riskProxyMedium = 40
	riskProxyLow    = 15
)

// noDataMessage is the single action item of the canonical empty report.
const noDataMessage = "No patient data available to generate projections yet."

// Condition names a binary comorbidity field on PatientRecord.
type Condition string

// Conditions supported by the impact analysis.
const (
	ConditionHypertension Condition = "hypertension"
	ConditionHeartDisease Condition = "heart_disease"
	ConditionPriorStroke  Condition = "stroke"
)

func (c Condition) flag(p PatientRecord) int {
	switch c {
	case ConditionHypertension:
		return p.Hypertension
	case ConditionHeartDisease:
		return p.HeartDisease
	case ConditionPriorStroke:
		return p.Stroke
	default:
		return 0
	}
}

// CohortTrend summarizes one non-empty age cohort.
type CohortTrend struct {
	AgeGroup             string  `json:"ageGroup"`
	PatientCount         int     `json:"patientCount"`
	HighRiskPercentage   float64 `json:"highRiskPercentage"`
	MediumRiskPercentage float64 `json:"mediumRiskPercentage"`
	AverageRiskScore     int     `json:"averageRiskScore"`
}

// ConditionImpact partitions the population by a binary comorbidity and
// carries the signed percentage-point difference in high-risk proportion.
// RiskIncrease is negative when the condition-free group is riskier; callers
// must not clamp it.
type ConditionImpact struct {
	WithCondition    []PatientRecord `json:"withCondition"`
	WithoutCondition []PatientRecord `json:"withoutCondition"`
	RiskIncrease     int             `json:"riskIncrease"`
}

// SmokingImpact records the raw smoker subsets without a derived delta.
type SmokingImpact struct {
	Smokers       []PatientRecord `json:"smokers"`
	FormerSmokers []PatientRecord `json:"formerSmokers"`
}

// RiskFactorAnalysis groups the per-comorbidity breakdowns.
type RiskFactorAnalysis struct {
	HypertensionImpact ConditionImpact `json:"hypertensionImpact"`
	HeartDiseaseImpact ConditionImpact `json:"heartDiseaseImpact"`
	SmokingImpact      SmokingImpact   `json:"smokingImpact"`
}

// Projections holds the scalar projection summary and the assembled
// recommendation strings.
type Projections struct {
	CurrentHighRiskPercentage  int      `json:"currentHighRiskPercentage"`
	ProjectedHighRiskIn6Months int      `json:"projectedHighRiskIn6Months"`
	ProjectedHighRiskIn1Year   int      `json:"projectedHighRiskIn1Year"`
	EstimatedNextCriticalAge   int      `json:"estimatedNextCriticalAge"`
	RecommendedActionItems     []string `json:"recommendedActionItems"`
}

// SummaryMetrics counts patients by condition over the full population.
type SummaryMetrics struct {
	TotalPatients     int `json:"totalPatients"`
	HypertensionCount int `json:"hypertensionCount"`
	HeartDiseaseCount int `json:"heartDiseaseCount"`
	SmokerCount       int `json:"smokerCount"`
	PriorStrokeCount  int `json:"priorStrokeCount"`
}

// Report is the immutable analytics report returned by
// AnalyzeFuturePredictions. It is built fresh on every call.
type Report struct {
	RiskProgression    []CohortTrend      `json:"riskProgression"`
	RiskFactorAnalysis RiskFactorAnalysis `json:"riskFactorAnalysis"`
	Projections        Projections        `json:"projections"`
	SummaryMetrics     SummaryMetrics     `json:"summaryMetrics"`
}

// ageCohort is a fixed, non-overlapping age bucket. Max is exclusive;
// the last cohort is open-ended.
type ageCohort struct {
	label string
	min   float64
	max   float64
}

var ageCohorts = []ageCohort{
	{label: "Under 40", min: 0, max: 40},
	{label: "40-50", min: 40, max: 50},
	{label: "50-60", min: 50, max: 60},
	{label: "60+", min: 60, max: math.Inf(1)},
}

func (c ageCohort) contains(age float64) bool {
	return age >= c.min && age < c.max
}

// AnalyzeFuturePredictions aggregates a patient list into the analytics
// report consumed by the dashboards. The input is never mutated; the engine
// works on a normalized copy. Missing or malformed fields are coerced to
// defaults rather than rejected, and an empty input yields the canonical
// empty report with a single informational action item.
func AnalyzeFuturePredictions(patients []PatientRecord) Report {
	normalized := normalize(patients)
	if len(normalized) == 0 {
		return emptyReport()
	}

	total := len(normalized)

	var progression []CohortTrend
	for _, cohort := range ageCohorts {
		var members []PatientRecord
		for _, p := range normalized {
			if cohort.contains(p.Age) {
				members = append(members, p)
			}
		}
		if len(members) == 0 {
			continue
		}
		progression = append(progression, cohortTrend(cohort.label, members))
	}

	analysis := RiskFactorAnalysis{
		HypertensionImpact: conditionImpact(normalized, ConditionHypertension),
		HeartDiseaseImpact: conditionImpact(normalized, ConditionHeartDisease),
		SmokingImpact: SmokingImpact{
			Smokers:       filterBySmoking(normalized, SmokingActive),
			FormerSmokers: filterBySmoking(normalized, SmokingFormer),
		},
	}

	avgAge := averageAge(normalized)
	current := roundPercent(countLevel(normalized, LevelHigh), total)
	sixMonths := jsRound(float64(current) * sixMonthUpliftFactor)
	oneYear := jsRound(float64(current) * oneYearUpliftFactor)

	projections := Projections{
		CurrentHighRiskPercentage:  current,
		ProjectedHighRiskIn6Months: sixMonths,
		ProjectedHighRiskIn1Year:   oneYear,
		EstimatedNextCriticalAge:   nextCriticalAge(avgAge),
		RecommendedActionItems: buildRecommendations(recommendationInput{
			sixMonthDelta:     sixMonths - current,
			monitoringBandMin: int(math.Ceil(avgAge/monitoringBandWidth)) * monitoringBandWidth,
			hypertensiveCount: len(analysis.HypertensionImpact.WithCondition),
			smokerCount:       len(analysis.SmokingImpact.Smokers),
		}),
	}

	return Report{
		RiskProgression:    progression,
		RiskFactorAnalysis: analysis,
		Projections:        projections,
		SummaryMetrics: SummaryMetrics{
			TotalPatients:     total,
			HypertensionCount: countFlag(normalized, ConditionHypertension),
			HeartDiseaseCount: countFlag(normalized, ConditionHeartDisease),
			SmokerCount:       len(analysis.SmokingImpact.Smokers),
			PriorStrokeCount:  countFlag(normalized, ConditionPriorStroke),
		},
	}
}

// CalculateRiskIncrease returns the signed percentage-point difference in
// high-risk proportion between patients with and without the given condition.
// When nobody is condition-free the denominator vanishes and the function
// degrades to 0 rather than reporting an undefined increase.
func CalculateRiskIncrease(patients []PatientRecord, condition Condition) int {
	normalized := normalize(patients)

	var with, without []PatientRecord
	for _, p := range normalized {
		switch condition.flag(p) {
		case 1:
			with = append(with, p)
		case 0:
			without = append(without, p)
		}
	}

	if len(without) == 0 {
		return 0
	}

	withRate := 0.0
	if len(with) > 0 {
		withRate = float64(countLevel(with, LevelHigh)) / float64(len(with))
	}
	withoutRate := float64(countLevel(without, LevelHigh)) / float64(len(without))

	return jsRound((withRate - withoutRate) * 100)
}

func conditionImpact(patients []PatientRecord, condition Condition) ConditionImpact {
	impact := ConditionImpact{
		WithCondition:    []PatientRecord{},
		WithoutCondition: []PatientRecord{},
	}
	for _, p := range patients {
		switch condition.flag(p) {
		case 1:
			impact.WithCondition = append(impact.WithCondition, p)
		case 0:
			impact.WithoutCondition = append(impact.WithoutCondition, p)
		}
	}
	impact.RiskIncrease = CalculateRiskIncrease(patients, condition)
	return impact
}

func cohortTrend(label string, members []PatientRecord) CohortTrend {
	size := len(members)
	proxySum := 0
	for _, p := range members {
		switch riskLevelOf(p) {
		case LevelHigh:
			proxySum += riskProxyHigh
		case LevelMedium:
			proxySum += riskProxyMedium
		default:
			proxySum += riskProxyLow
		}
	}

	return CohortTrend{
		AgeGroup:             label,
		PatientCount:         size,
		HighRiskPercentage:   float64(countLevel(members, LevelHigh)) / float64(size) * 100,
		MediumRiskPercentage: float64(countLevel(members, LevelMedium)) / float64(size) * 100,
		AverageRiskScore:     jsRound(float64(proxySum) / float64(size)),
	}
}

type recommendationInput struct {
	sixMonthDelta     int
	monitoringBandMin int
	hypertensiveCount int
	smokerCount       int
}

// recommendationList appends action items only when their predicate holds,
// keeping the "which messages appear when" contract in one place.
type recommendationList struct {
	items []string
}

func (l *recommendationList) add(message string) {
	l.addIf(true, message)
}

func (l *recommendationList) addIf(predicate bool, message string) {
	if !predicate || message == "" {
		return
	}
	l.items = append(l.items, message)
}

func buildRecommendations(input recommendationInput) []string {
	var list recommendationList

	// The delta is intentionally unfloored; rounding can make it zero or
	// negative and the dashboard shows that as-is.
	list.add(fmt.Sprintf("%d%% additional high-risk patients expected in 6 months", input.sixMonthDelta))
	list.add(fmt.Sprintf("Increase monitoring for patients aged %d-%d",
		input.monitoringBandMin, input.monitoringBandMin+monitoringBandWidth))
	list.add("Schedule preventive consultations for medium-risk patients")
	list.addIf(input.hypertensiveCount > 0,
		fmt.Sprintf("%d hypertensive patients need regular blood pressure checks", input.hypertensiveCount))
	list.addIf(input.smokerCount > 0,
		fmt.Sprintf("%d active smokers should be offered cessation support", input.smokerCount))

	return list.items
}

func emptyReport() Report {
	return Report{
		RiskProgression: []CohortTrend{},
		RiskFactorAnalysis: RiskFactorAnalysis{
			HypertensionImpact: ConditionImpact{WithCondition: []PatientRecord{}, WithoutCondition: []PatientRecord{}},
			HeartDiseaseImpact: ConditionImpact{WithCondition: []PatientRecord{}, WithoutCondition: []PatientRecord{}},
			SmokingImpact:      SmokingImpact{Smokers: []PatientRecord{}, FormerSmokers: []PatientRecord{}},
		},
		Projections: Projections{
			RecommendedActionItems: []string{noDataMessage},
		},
	}
}

func filterBySmoking(patients []PatientRecord, status string) []PatientRecord {
	matched := []PatientRecord{}
	for _, p := range patients {
		if p.SmokingStatus == status {
			matched = append(matched, p)
		}
	}
	return matched
}

func countLevel(patients []PatientRecord, level Level) int {
	count := 0
	for _, p := range patients {
		if riskLevelOf(p) == level {
			count++
		}
	}
	return count
}

func countFlag(patients []PatientRecord, condition Condition) int {
	count := 0
	for _, p := range patients {
		if condition.flag(p) == 1 {
			count++
		}
	}
	return count
}

func averageAge(patients []PatientRecord) float64 {
	sum := 0.0
	for _, p := range patients {
		sum += p.Age
	}
	return sum / float64(len(patients))
}

func nextCriticalAge(avgAge float64) int {
	return int(math.Ceil(avgAge/criticalAgeStep))*criticalAgeStep + criticalAgeStep
}

func roundPercent(count, total int) int {
	return jsRound(float64(count) / float64(total) * 100)
}

// jsRound rounds half-up toward positive infinity, matching the rounding
// primitive the dashboard contract was written against.
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}
