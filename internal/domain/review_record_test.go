package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewRecord(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	today := time.Date(2024, 5, 1, 15, 4, 0, 0, time.UTC)

	record, err := NewReviewRecord(userID, 7, 42, today)
	require.NoError(t, err)

	assert.Equal(t, StateNew, record.State)
	assert.True(t, record.IsNew())
	assert.Equal(t, InitialIntervalDays, record.IntervalDays)
	assert.Zero(t, record.TimesReviewed)
	assert.Zero(t, record.AverageDifficulty)
	assert.Nil(t, record.LastReviewDate)
	assert.Equal(t, "2024-05-01", FormatDate(record.NextReviewDate))
	assert.False(t, record.IsDue(today), "new records are budgeted, never due")

	_, err = NewReviewRecord(uuid.Nil, 7, 42, today)
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewReviewRecord(userID, 0, 42, today)
	assert.ErrorIs(t, err, ErrInvalidDeckID)
}

func TestReviewRecordValidate(t *testing.T) {
	t.Parallel()

	last := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	valid := func() *ReviewRecord {
		return &ReviewRecord{
			UserID:                    uuid.New(),
			FlashcardID:               1,
			DeckID:                    1,
			State:                     StateScheduled,
			IntervalDays:              1.4,
			TimesReviewed:             2,
			TimesRecalledSuccessfully: 1,
			AverageDifficulty:         3,
			LastReviewDate:            &last,
			NextReviewDate:            last.AddDate(0, 0, 1),
		}
	}

	tests := []struct {
		name   string
		mutate func(r *ReviewRecord)
		want   error
	}{
		{"valid", func(r *ReviewRecord) {}, nil},
		{"zero interval", func(r *ReviewRecord) { r.IntervalDays = 0 }, ErrInvalidInterval},
		{"recalled exceeds reviewed", func(r *ReviewRecord) { r.TimesRecalledSuccessfully = 3 }, ErrInvalidCounters},
		{"scheduled without reviews", func(r *ReviewRecord) { r.TimesReviewed, r.TimesRecalledSuccessfully = 0, 0 }, ErrStateMismatch},
		{"new with reviews", func(r *ReviewRecord) { r.State = StateNew }, ErrStateMismatch},
		{"difficulty too high", func(r *ReviewRecord) { r.AverageDifficulty = 4.5 }, ErrInvalidDifficulty},
		{"missing next date", func(r *ReviewRecord) { r.NextReviewDate = time.Time{} }, ErrMissingReviewDate},
		{"unknown state", func(r *ReviewRecord) { r.State = "learning" }, ErrStateMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := r.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestReviewRecordIsDueAndClone(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, -3)
	r := &ReviewRecord{State: StateScheduled, NextReviewDate: today, LastReviewDate: &last}

	assert.True(t, r.IsDue(today))
	assert.True(t, r.IsDue(today.Add(20*time.Hour)))
	assert.False(t, r.IsDue(today.AddDate(0, 0, -1)))

	c := r.Clone()
	*c.LastReviewDate = today
	assert.Equal(t, last, *r.LastReviewDate, "clone must not share the last review date")
}
