package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRecordStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("assigns id and version", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		userID := uuid.New()
		record, err := domain.NewReviewRecord(userID, 7, 42, date("2024-06-01"))
		require.NoError(t, err)

		created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("INSERT INTO review_records").
			WithArgs(userID, int64(42), int64(7), "new", 1.0, 0, 0, 0.0, nil, date("2024-06-01")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
				AddRow(int64(11), 1, created, created))

		require.NoError(t, s.Create(context.Background(), record))
		assert.Equal(t, int64(11), record.ID)
		assert.Equal(t, 1, record.Version)
		assert.Equal(t, created, record.CreatedAt)
	})

	t.Run("duplicate enrollment", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		record, err := domain.NewReviewRecord(uuid.New(), 7, 42, date("2024-06-01"))
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO review_records").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "review_records_user_flashcard_key"})

		err = s.Create(context.Background(), record)
		assert.ErrorIs(t, err, store.ErrReviewRecordExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("invalid record never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		record := newRecord(uuid.New(), 0, 42)
		record.IntervalDays = 0

		err := s.Create(context.Background(), record)
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	})
}

func TestReviewRecordStore_Get(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		want := scheduledRecord(userID, 3, 42, "2024-06-03")
		mock.ExpectQuery("SELECT .* FROM review_records\\s+WHERE user_id = \\$1 AND flashcard_id = \\$2\\s*$").
			WithArgs(userID, int64(42)).
			WillReturnRows(toRows(want))

		got, err := s.Get(context.Background(), userID, 42)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("SELECT .* FROM review_records").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := s.Get(context.Background(), userID, 42)
		assert.ErrorIs(t, err, store.ErrReviewRecordNotFound)
	})

	t.Run("for update locks the row", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("FOR UPDATE").
			WithArgs(userID, int64(42)).
			WillReturnRows(toRows(newRecord(userID, 3, 42)))

		got, err := s.GetForUpdate(context.Background(), userID, 42)
		require.NoError(t, err)
		assert.True(t, got.IsNew())
		assert.Nil(t, got.LastReviewDate)
	})
}

func TestReviewRecordStore_Update(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("bumps version", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		record := scheduledRecord(userID, 3, 42, "2024-06-03")
		record.Version = 4
		updated := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery("UPDATE review_records").
			WithArgs("scheduled", 1.0, 2, 1, 2.5, sqlmock.AnyArg(), date("2024-06-03"), userID, int64(42), 4).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(5, updated))

		require.NoError(t, s.Update(context.Background(), record))
		assert.Equal(t, 5, record.Version)
		assert.Equal(t, updated, record.UpdatedAt)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		record := scheduledRecord(userID, 3, 42, "2024-06-03")
		mock.ExpectQuery("UPDATE review_records").
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(userID, int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := s.Update(context.Background(), record)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.Equal(t, 1, record.Version)
	})

	t.Run("missing row", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("UPDATE review_records").
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := s.Update(context.Background(), scheduledRecord(userID, 3, 42, "2024-06-03"))
		assert.ErrorIs(t, err, store.ErrReviewRecordNotFound)
	})

	t.Run("serialization failure maps to conflict", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("UPDATE review_records").
			WillReturnError(&pgconn.PgError{Code: "40001"})

		err := s.Update(context.Background(), scheduledRecord(userID, 3, 42, "2024-06-03"))
		assert.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestReviewRecordStore_Lists(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	today := date("2024-06-05")

	t.Run("new candidates in id order", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("state = 'new'\\s+ORDER BY id\\s+LIMIT \\$3").
			WithArgs(userID, int64(7), 10).
			WillReturnRows(toRows(newRecord(userID, 2, 20), newRecord(userID, 5, 50)))

		got, err := s.ListNew(context.Background(), userID, 7, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("due candidates by date then id", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("ORDER BY next_review_date, id").
			WithArgs(userID, int64(7), today, 10).
			WillReturnRows(toRows(scheduledRecord(userID, 9, 90, "2024-06-01")))

		got, err := s.ListDue(context.Background(), userID, 7, today, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].IsDue(today))
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("ORDER BY flashcard_id").
			WithArgs(userID, nil).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		got, err := s.ListByUser(context.Background(), userID, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("filtered by deck", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		deckID := int64(7)
		mock.ExpectQuery("ORDER BY flashcard_id").
			WithArgs(userID, deckID).
			WillReturnRows(toRows(newRecord(userID, 1, 10)))

		got, err := s.ListByUser(context.Background(), userID, &deckID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresReviewRecordStore(db, nil)

		mock.ExpectQuery("state = 'new'").WillReturnError(&pgconn.PgError{Code: "08006"})

		_, err := s.ListNew(context.Background(), userID, 7, 10)
		assert.ErrorIs(t, err, store.ErrUnavailable)
	})
}

func TestReviewRecordStore_Counts(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresReviewRecordStore(db, nil)
	userID := uuid.New()
	today := date("2024-06-05")

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM review_records").
		WithArgs(userID, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM review_records").
		WithArgs(userID, int64(7), today).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	newCount, err := s.CountNew(context.Background(), userID, 7)
	require.NoError(t, err)
	assert.Equal(t, 10, newCount)

	due, err := s.CountDue(context.Background(), userID, 7, today)
	require.NoError(t, err)
	assert.Equal(t, 4, due)
}

func TestReviewRecordStore_DeckIDsAndReset(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresReviewRecordStore(db, nil)
	userID := uuid.New()

	mock.ExpectQuery("SELECT DISTINCT deck_id").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"deck_id"}).AddRow(int64(3)).AddRow(int64(7)))
	mock.ExpectExec("DELETE FROM review_records").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 12))

	ids, err := s.ListDeckIDs(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)

	deleted, err := s.DeleteAllForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}

func TestReviewRecordStore_WithTx(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresReviewRecordStore(db, nil)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(toRows(newRecord(userID, 1, 10)))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = s.WithTx(tx).GetForUpdate(context.Background(), userID, 10)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}

func TestNewPostgresReviewRecordStore_NilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		postgres.NewPostgresReviewRecordStore(nil, nil)
	})
}
