package postgres_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{
	"id", "user_id", "flashcard_id", "deck_id", "state", "interval_days",
	"times_reviewed", "times_recalled_successfully", "average_difficulty",
	"last_review_date", "next_review_date", "version", "created_at", "updated_at",
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// recordRow renders a record the way the driver would return it.
func recordRow(r *domain.ReviewRecord) []driver.Value {
	var last driver.Value
	if r.LastReviewDate != nil {
		last = *r.LastReviewDate
	}
	return []driver.Value{
		r.ID, r.UserID.String(), r.FlashcardID, r.DeckID, string(r.State), r.IntervalDays,
		r.TimesReviewed, r.TimesRecalledSuccessfully, r.AverageDifficulty,
		last, r.NextReviewDate, r.Version, r.CreatedAt, r.UpdatedAt,
	}
}

func newRecord(userID uuid.UUID, id, flashcardID int64) *domain.ReviewRecord {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.ReviewRecord{
		ID:             id,
		UserID:         userID,
		FlashcardID:    flashcardID,
		DeckID:         7,
		State:          domain.StateNew,
		IntervalDays:   1,
		NextReviewDate: date("2024-06-01"),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func scheduledRecord(userID uuid.UUID, id, flashcardID int64, next string) *domain.ReviewRecord {
	r := newRecord(userID, id, flashcardID)
	last := date("2024-05-30")
	r.State = domain.StateScheduled
	r.TimesReviewed = 2
	r.TimesRecalledSuccessfully = 1
	r.AverageDifficulty = 2.5
	r.LastReviewDate = &last
	r.NextReviewDate = date(next)
	return r
}

func toRows(records ...*domain.ReviewRecord) *sqlmock.Rows {
	rows := sqlmock.NewRows(recordColumns)
	for _, r := range records {
		rows.AddRow(recordRow(r)...)
	}
	return rows
}
