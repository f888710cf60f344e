// Package pricing computes order quotes. Quote is a pure function: callers
// that need a locked price must call it once at order creation and persist
// the result, because the deadline urgency input is relative to "now".
package pricing

import (
	"math"
	"time"

	"github.com/papermart/papermart/internal/domain/model"
)

// Base rate in dollars per word before subject adjustment.
const baseRate = 0.025

// MinDeadlineDays floors the urgency input at 6 hours; closer or past
// deadlines still price at the tightest band.
const MinDeadlineDays = 0.25

var subjectFactor = map[model.Subject]float64{
	model.SubjectArts:     0,
	model.SubjectBusiness: 0.005,
	model.SubjectCS:       0.01,
	model.SubjectEM:       0.015,
}

// Flat dollar adjustment per assignment type.
var typeFlatAdjustment = map[model.AssignmentType]float64{
	model.AssignmentCoursework:    0,
	model.AssignmentBookReport:    10,
	model.AssignmentResearchPaper: 20,
	model.AssignmentThesis:        50,
	model.AssignmentProposal:      10,
}

var levelMultiplier = map[model.AcademicLevel]float64{
	model.LevelUndergraduate: 1.0,
	model.LevelMasters:       1.15,
	model.LevelPhD:           1.25,
}

// urgencyFactor bands are matched top-down; the first band wins.
func urgencyFactor(days float64) float64 {
	switch {
	case days >= 15:
		return 1.0
	case days >= 10:
		return 1.05
	case days >= 6:
		return 1.10
	case days >= 4:
		return 1.20
	case days >= 2:
		return 1.25
	case days >= 1:
		return 1.50
	default:
		return 1.75
	}
}

// Quote computes the order price in integer cents:
//
//	((baseRate + subjectFactor) * wordCount + typeFlat) * levelMult * urgency(days)
//
// rounded half-up to whole cents. Word count below the minimum is a caller
// precondition and is not validated here.
func Quote(wordCount int, subject model.Subject, assignmentType model.AssignmentType, level model.AcademicLevel, daysUntilDeadline float64) int64 {
	rate := baseRate + subjectFactor[subject]
	amount := (rate*float64(wordCount) + typeFlatAdjustment[assignmentType]) *
		levelMultiplier[level] *
		urgencyFactor(daysUntilDeadline)
	return int64(math.Floor(amount*100 + 0.5))
}

// DaysUntil converts a deadline into the urgency input, clamped at the
// minimum band floor.
func DaysUntil(deadline, now time.Time) float64 {
	days := deadline.Sub(now).Hours() / 24
	if days < MinDeadlineDays {
		return MinDeadlineDays
	}
	return days
}
