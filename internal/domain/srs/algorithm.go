package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// calculateAverageDifficulty folds one more rating into the running mean of
// per-submission difficulty ratings.
func calculateAverageDifficulty(avg float64, timesReviewed int, rating int) float64 {
	n := float64(timesReviewed)
	return (avg*n + float64(rating)) / (n + 1)
}

// calculateNewInterval applies the multiplicative policy to the previous interval.
//
//   - Easy doubles the interval.
//   - Hard shrinks it by a quarter but never below params.MinInterval.
//   - Wrong resets it to params.ResetInterval.
//   - Correct grows it by 40%.
//
// The result never exceeds params.MaxInterval.
func calculateNewInterval(current float64, grade domain.Grade, params *Params) float64 {
	var next float64
	switch grade {
	case domain.GradeWrong:
		next = params.ResetInterval
	case domain.GradeHard:
		next = math.Max(params.MinInterval, current*params.IntervalMultiplier[grade])
	default:
		next = current * params.IntervalMultiplier[grade]
	}
	if params.MaxInterval > 0 && next > params.MaxInterval {
		return params.MaxInterval
	}
	return next
}

// roundDays rounds an interval to whole days, halves rounding up.
func roundDays(interval float64) int {
	return int(math.Floor(interval + 0.5))
}

// calculateNextReviewDate anchors on the later of today and the previous
// review date and adds the rounded interval.
//
// A previous review date later than today (clock skew, backdated data) wins
// the anchor, so the next date lands after it.
//
// TODO: anchor on today alone once records with future last_review_date are
// cleaned up; today the future date pushes the whole interval out.
func calculateNextReviewDate(lastReview *time.Time, interval float64, today time.Time) time.Time {
	anchor := domain.DateOf(today)
	if lastReview != nil {
		anchor = domain.LaterDate(anchor, *lastReview)
	}
	return domain.AddDays(anchor, roundDays(interval))
}

// calculateNextRecord returns a new record reflecting one graded review. The
// input record is never modified, so callers can still inspect its pre-update
// state (for example whether it was new).
func calculateNextRecord(
	record *domain.ReviewRecord,
	grade domain.Grade,
	today time.Time,
	params *Params,
) *domain.ReviewRecord {
	next := record.Clone()

	next.AverageDifficulty = calculateAverageDifficulty(
		record.AverageDifficulty,
		record.TimesReviewed,
		grade.Rating(),
	)
	next.IntervalDays = calculateNewInterval(record.IntervalDays, grade, params)
	next.NextReviewDate = calculateNextReviewDate(record.LastReviewDate, next.IntervalDays, today)

	next.TimesReviewed = record.TimesReviewed + 1
	if grade.Recalled() {
		next.TimesRecalledSuccessfully = record.TimesRecalledSuccessfully + 1
	}

	reviewed := domain.DateOf(today)
	next.LastReviewDate = &reviewed
	next.State = domain.StateScheduled

	return next
}
