package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEventsStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		eventID int64
		next    EventStatus
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:    "approve pending event",
			eventID: 1,
			next:    StatusApproved,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("under_review"))
				mock.ExpectExec(`UPDATE events SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
					WithArgs(StatusApproved, int64(1), StatusUnderReview).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "re-approving is a no-op",
			eventID: 2,
			next:    StatusApproved,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(2)).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
			},
		},
		{
			name:    "approving a rejected event conflicts",
			eventID: 3,
			next:    StatusApproved,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))
			},
			wantErr: ErrConflict,
		},
		{
			name:    "rejecting an approved event conflicts",
			eventID: 4,
			next:    StatusRejected,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(4)).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
			},
			wantErr: ErrConflict,
		},
		{
			name:    "missing event",
			eventID: 5,
			next:    StatusApproved,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "concurrent decision wins the race",
			eventID: 6,
			next:    StatusApproved,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT status FROM events WHERE id = \$1`).
					WithArgs(int64(6)).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("under_review"))
				// another moderator decided between the read and the write
				mock.ExpectExec(`UPDATE events SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
					WithArgs(StatusApproved, int64(6), StatusUnderReview).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			s := &EventsStore{db}
			err = s.UpdateStatus(ctx, tt.eventID, tt.next)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventsStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT(.|\n)*FROM events e(.|\n)*WHERE e.id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	s := &EventsStore{db}
	_, err = s.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventsStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes event and its location", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT location_id FROM events WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"location_id"}).AddRow(int64(70)))
		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM locations WHERE id = \$1`).
			WithArgs(int64(70)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		s := &EventsStore{db}
		require.NoError(t, s.Delete(ctx, 7))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing event rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT location_id FROM events WHERE id = \$1`).
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		s := &EventsStore{db}
		require.ErrorIs(t, s.Delete(ctx, 8), ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from EventStatus
		to   EventStatus
		want bool
	}{
		{StatusUnderReview, StatusApproved, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusApproved, true},
		{StatusRejected, StatusRejected, true},
		{StatusApproved, StatusUnderReview, false},
		{StatusRejected, StatusUnderReview, false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
