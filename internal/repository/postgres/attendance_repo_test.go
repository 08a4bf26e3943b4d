package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"familycheckin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceCols = []string{"id", "organization_id", "event_id", "person_id", "status", "check_in_at", "check_out_at", "notes", "created_at", "updated_at"}

func TestAttendanceRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	earlierOut := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		att        *domain.Attendance
		mock       func(mock sqlmock.Sqlmock)
		wantStatus domain.AttendanceStatus
		wantOut    *time.Time
		wantErr    bool
	}{
		{
			name: "insert new row",
			att:  domain.NewAttendance("org-1", "ev-1", "p-1", domain.StatusCheckedIn, checkIn),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendance .* ON CONFLICT \(event_id, person_id\) DO UPDATE`).
					WithArgs("org-1", "ev-1", "p-1", domain.StatusCheckedIn, checkIn, nil, checkIn, checkIn).
					WillReturnRows(sqlmock.NewRows(attendanceCols).
						AddRow("att-1", "org-1", "ev-1", "p-1", "CHECKED_IN", checkIn, nil, nil, checkIn, checkIn))
			},
			wantStatus: domain.StatusCheckedIn,
		},
		{
			name: "re-check-in keeps previous checkout time",
			att:  domain.NewAttendance("org-1", "ev-1", "p-1", domain.StatusCheckedIn, checkIn),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendance`).
					WillReturnRows(sqlmock.NewRows(attendanceCols).
						AddRow("att-1", "org-1", "ev-1", "p-1", "CHECKED_IN", checkIn, earlierOut, nil, earlierOut, checkIn))
			},
			wantStatus: domain.StatusCheckedIn,
			wantOut:    &earlierOut,
		},
		{
			name: "db error",
			att:  domain.NewAttendance("org-1", "ev-1", "p-1", domain.StatusCheckedIn, checkIn),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendance`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendanceRepository(db)
			err = repo.Upsert(ctx, tt.att)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "att-1", tt.att.ID)
			assert.Equal(t, tt.wantStatus, tt.att.Status)
			require.NotNil(t, tt.att.CheckInAt)
			assert.Equal(t, checkIn, *tt.att.CheckInAt)
			assert.Equal(t, tt.wantOut, tt.att.CheckOutAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_GetByEventAndPerson_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM attendance WHERE event_id = \$1 AND person_id = \$2`).
		WithArgs("ev-1", "p-missing").
		WillReturnError(sql.ErrNoRows)

	_, err = NewAttendanceRepository(db).GetByEventAndPerson(context.Background(), "ev-1", "p-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_FindStatusForPeople(t *testing.T) {
	ctx := context.Background()

	t.Run("only requested people with rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ids := []string{"p-1", "p-2", "p-3"}
		mock.ExpectQuery(`SELECT person_id, status\s+FROM attendance`).
			WithArgs("org-1", "ev-1", pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows([]string{"person_id", "status"}).
				AddRow("p-1", "CHECKED_IN").
				AddRow("p-3", "CHECKED_OUT"))

		got, err := NewAttendanceRepository(db).FindStatusForPeople(ctx, "org-1", "ev-1", ids)
		require.NoError(t, err)
		assert.Equal(t, map[string]domain.AttendanceStatus{
			"p-1": domain.StatusCheckedIn,
			"p-3": domain.StatusCheckedOut,
		}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no people skips query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		got, err := NewAttendanceRepository(db).FindStatusForPeople(ctx, "org-1", "ev-1", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendanceRepository_DeleteAllForEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM attendance WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, NewAttendanceRepository(db).DeleteAllForEvent(context.Background(), "ev-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
