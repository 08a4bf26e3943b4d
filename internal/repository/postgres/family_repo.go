package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"familycheckin/internal/domain"
)

const familyColumns = `id, organization_id, family_name, primary_phone_e164, phone_last4, notify_email, created_at, updated_at`

type familyRepository struct {
	DB *sql.DB
}

func NewFamilyRepository(db *sql.DB) domain.FamilyRepository {
	return &familyRepository{
		DB: db,
	}
}

func scanFamily(row rowScanner) (*domain.Family, error) {
	f := &domain.Family{}
	var email sql.NullString
	if err := row.Scan(&f.ID, &f.OrganizationID, &f.FamilyName, &f.PrimaryPhoneE164, &f.PhoneLast4, &email, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		f.NotifyEmail = &email.String
	}
	return f, nil
}

func (r *familyRepository) Create(ctx context.Context, f *domain.Family) error {
	query := `
		INSERT INTO families (organization_id, family_name, primary_phone_e164, phone_last4, notify_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, f.OrganizationID, f.FamilyName, f.PrimaryPhoneE164, f.PhoneLast4, f.NotifyEmail, f.CreatedAt, f.UpdatedAt).Scan(&f.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicatePhone
		}
		return err
	}
	return nil
}

func (r *familyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	query := `SELECT ` + familyColumns + ` FROM families WHERE id = $1`
	f, err := scanFamily(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *familyRepository) Search(ctx context.Context, organizationID, phoneLast4 string, params domain.PaginationParams) ([]*domain.Family, int, error) {
	const filter = `WHERE organization_id = $1 AND ($2::text = '' OR phone_last4 = $2)`
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM families `+filter, organizationID, phoneLast4).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + familyColumns + `
		FROM families
		` + filter + `
		ORDER BY family_name ASC, id ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, organizationID, phoneLast4, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	families := make([]*domain.Family, 0)
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, 0, err
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return families, total, nil
}

func (r *familyRepository) Update(ctx context.Context, f *domain.Family) error {
	query := `
		UPDATE families
		SET family_name = $2, primary_phone_e164 = $3, phone_last4 = $4, notify_email = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, f.ID, f.FamilyName, f.PrimaryPhoneE164, f.PhoneLast4, f.NotifyEmail, f.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicatePhone
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *familyRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete family: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE people SET family_id = NULL, updated_at = NOW() WHERE family_id = $1`, id); err != nil {
		return fmt.Errorf("detach members: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete family: %w", err)
	}
	return nil
}
