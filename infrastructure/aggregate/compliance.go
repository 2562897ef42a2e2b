package aggregate

import (
	"strings"

	"cwsdash/infrastructure/viewmodel"
)

const (
	defectPenalty    = 5
	qualityThreshold = 80
)

// CPQIScore is 100 minus 5 per defect, never below zero.
func CPQIScore(defects int) int {
	if defects >= 100/defectPenalty {
		return 0
	}
	if defects <= 0 {
		return 100
	}
	return 100 - defects*defectPenalty
}

func CPQICompliant(score int) bool {
	return score >= qualityThreshold
}

// CPQIStatus maps a quality score onto the compliance log status values.
func CPQIStatus(score int) string {
	if CPQICompliant(score) {
		return string(LevelCompliant)
	}
	return string(LevelNonCompliant)
}

type Level string

const (
	LevelCompliant        Level = "compliant"
	LevelNeedsImprovement Level = "needs-improvement"
	LevelNonCompliant     Level = "non-compliant"
)

const (
	StatusCompliant        = "COMPLIANT"
	StatusNeedsImprovement = "NEEDS_IMPROVEMENT"
	StatusNonCompliant     = "NON_COMPLIANT"
)

// ParseLevel accepts the form values and the upper/underscore variants.
func ParseLevel(raw string) (Level, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "_", "-")
	switch Level(v) {
	case LevelCompliant, LevelNeedsImprovement, LevelNonCompliant:
		return Level(v), true
	}
	return "", false
}

func (l Level) Score() float64 {
	switch l {
	case LevelCompliant:
		return 100
	case LevelNeedsImprovement:
		return 50
	default:
		return 0
	}
}

// CPSI averages the PPE, wastewater and labor levels.
func CPSI(ppe, wastewater, labor Level) (float64, string) {
	score := (ppe.Score() + wastewater.Score() + labor.Score()) / 3
	return score, CPSIStatus(score)
}

func CPSIStatus(score float64) string {
	switch {
	case score >= 80:
		return StatusCompliant
	case score >= 50:
		return StatusNeedsImprovement
	default:
		return StatusNonCompliant
	}
}

type ComplianceSummary struct {
	QualityChecks         int
	QualityCompliant      int
	AverageQuality        float64
	SustainabilityChecks  int
	AverageSustainability float64
}

func SummarizeCompliance(quality, sustainability []viewmodel.ComplianceCheck) ComplianceSummary {
	s := ComplianceSummary{QualityChecks: len(quality), SustainabilityChecks: len(sustainability)}
	var qSum, sSum float64
	for _, c := range quality {
		qSum += c.Score
		if CPQICompliant(int(c.Score)) {
			s.QualityCompliant++
		}
	}
	for _, c := range sustainability {
		sSum += c.Score
	}
	s.AverageQuality = ratio(qSum, float64(len(quality)))
	s.AverageSustainability = ratio(sSum, float64(len(sustainability)))
	return s
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
