package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"familycheckin/internal/domain"
)

const pickupCodeColumns = `id, organization_id, event_id, youth_person_id, code, redeemed_at, redeemed_by_adult_id, created_at`

// Constraint names from migrations/001_schema.sql.
const (
	constraintEventCode   = "pickup_codes_event_code_key"
	constraintActiveYouth = "pickup_codes_active_youth_key"
)

type pickupCodeRepository struct {
	DB *sql.DB
}

// NewPickupCodeRepository returns a domain.PickupCodeRepository implemented with Postgres.
func NewPickupCodeRepository(db *sql.DB) domain.PickupCodeRepository {
	return &pickupCodeRepository{DB: db}
}

func scanPickupCode(row rowScanner) (*domain.PickupCode, error) {
	c := &domain.PickupCode{}
	var redeemedAt sql.NullTime
	var redeemedBy sql.NullString
	if err := row.Scan(&c.ID, &c.OrganizationID, &c.EventID, &c.YouthPersonID, &c.Code, &redeemedAt, &redeemedBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	if redeemedAt.Valid {
		c.RedeemedAt = &redeemedAt.Time
	}
	if redeemedBy.Valid {
		c.RedeemedByAdultID = &redeemedBy.String
	}
	return c, nil
}

func (r *pickupCodeRepository) Create(ctx context.Context, c *domain.PickupCode) error {
	query := `
		INSERT INTO pickup_codes (organization_id, event_id, youth_person_id, code, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.OrganizationID, c.EventID, c.YouthPersonID, c.Code, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case constraintEventCode:
				return domain.ErrCodeTaken
			case constraintActiveYouth:
				return domain.ErrActiveCodeExists
			}
		}
		return err
	}
	return nil
}

func (r *pickupCodeRepository) getOne(ctx context.Context, query string, args ...any) (*domain.PickupCode, error) {
	c, err := scanPickupCode(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *pickupCodeRepository) GetByID(ctx context.Context, id string) (*domain.PickupCode, error) {
	return r.getOne(ctx, `SELECT `+pickupCodeColumns+` FROM pickup_codes WHERE id = $1`, id)
}

func (r *pickupCodeRepository) GetActiveByEventAndYouth(ctx context.Context, eventID, youthPersonID string) (*domain.PickupCode, error) {
	query := `
		SELECT ` + pickupCodeColumns + `
		FROM pickup_codes
		WHERE event_id = $1 AND youth_person_id = $2 AND redeemed_at IS NULL
		LIMIT 1
	`
	return r.getOne(ctx, query, eventID, youthPersonID)
}

func (r *pickupCodeRepository) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.PickupCode, error) {
	return r.getOne(ctx, `SELECT `+pickupCodeColumns+` FROM pickup_codes WHERE event_id = $1 AND code = $2`, eventID, code)
}

func (r *pickupCodeRepository) CodeExistsInEvent(ctx context.Context, eventID, code string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pickup_codes WHERE event_id = $1 AND code = $2)`, eventID, code).Scan(&exists)
	return exists, err
}

func (r *pickupCodeRepository) Redeem(ctx context.Context, id string, redeemedByAdultID *string, at time.Time) (*domain.PickupCode, *domain.Attendance, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin redeem: %w", err)
	}
	defer tx.Rollback()

	redeemQuery := `
		UPDATE pickup_codes
		SET redeemed_at = $2, redeemed_by_adult_id = $3
		WHERE id = $1 AND redeemed_at IS NULL
		RETURNING ` + pickupCodeColumns
	code, err := scanPickupCode(tx.QueryRowContext(ctx, redeemQuery, id, at, redeemedByAdultID))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			// redeemed_by_adult_id does not reference a stored person.
			return nil, nil, domain.ErrNotFound
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
		// Nothing updated: either the code is gone or someone redeemed it first.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pickup_codes WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, domain.ErrAlreadyRedeemed
	}

	checkoutQuery := `
		UPDATE attendance
		SET status = $3, check_out_at = $4, updated_at = $4
		WHERE event_id = $1 AND person_id = $2
		RETURNING ` + attendanceColumns
	att, err := scanAttendance(tx.QueryRowContext(ctx, checkoutQuery, code.EventID, code.YouthPersonID, domain.StatusCheckedOut, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit redeem: %w", err)
	}
	return code, att, nil
}

func (r *pickupCodeRepository) DeleteAllForEvent(ctx context.Context, eventID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM pickup_codes WHERE event_id = $1`, eventID)
	return err
}
