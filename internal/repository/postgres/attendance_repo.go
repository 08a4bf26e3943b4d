package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"familycheckin/internal/domain"
)

const attendanceColumns = `id, organization_id, event_id, person_id, status, check_in_at, check_out_at, notes, created_at, updated_at`

type attendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository returns a domain.AttendanceRepository implemented with Postgres.
func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	var checkIn, checkOut sql.NullTime
	var notes sql.NullString
	if err := row.Scan(&a.ID, &a.OrganizationID, &a.EventID, &a.PersonID, &a.Status, &checkIn, &checkOut, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if checkIn.Valid {
		a.CheckInAt = &checkIn.Time
	}
	if checkOut.Valid {
		a.CheckOutAt = &checkOut.Time
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	return a, nil
}

func (r *attendanceRepository) Upsert(ctx context.Context, a *domain.Attendance) error {
	// Only the timestamp matching the new status is non-null in the insert values, so the
	// COALESCEs overwrite that one and keep the other.
	query := `
		INSERT INTO attendance (organization_id, event_id, person_id, status, check_in_at, check_out_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, person_id) DO UPDATE
		SET status = EXCLUDED.status,
			check_in_at = COALESCE(EXCLUDED.check_in_at, attendance.check_in_at),
			check_out_at = COALESCE(EXCLUDED.check_out_at, attendance.check_out_at),
			updated_at = EXCLUDED.updated_at
		RETURNING ` + attendanceColumns
	stored, err := scanAttendance(r.DB.QueryRowContext(ctx, query,
		a.OrganizationID, a.EventID, a.PersonID, a.Status, a.CheckInAt, a.CheckOutAt, a.CreatedAt, a.UpdatedAt))
	if err != nil {
		return err
	}
	*a = *stored
	return nil
}

func (r *attendanceRepository) GetByEventAndPerson(ctx context.Context, eventID, personID string) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE event_id = $1 AND person_id = $2`
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, query, eventID, personID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) FindStatusForPeople(ctx context.Context, organizationID, eventID string, personIDs []string) (map[string]domain.AttendanceStatus, error) {
	statuses := make(map[string]domain.AttendanceStatus)
	if len(personIDs) == 0 {
		return statuses, nil
	}
	query := `
		SELECT person_id, status
		FROM attendance
		WHERE organization_id = $1 AND event_id = $2 AND person_id = ANY($3)
	`
	rows, err := r.DB.QueryContext(ctx, query, organizationID, eventID, pq.Array(personIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var personID string
		var status domain.AttendanceStatus
		if err := rows.Scan(&personID, &status); err != nil {
			return nil, err
		}
		statuses[personID] = status
	}
	return statuses, rows.Err()
}

func (r *attendanceRepository) DeleteAllForEvent(ctx context.Context, eventID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM attendance WHERE event_id = $1`, eventID)
	return err
}
