package postgres

import (
	"context"
	"database/sql"
	"errors"

	"familycheckin/internal/domain"
)

type organizationRepository struct {
	DB *sql.DB
}

func NewOrganizationRepository(db *sql.DB) domain.OrganizationRepository {
	return &organizationRepository{DB: db}
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	o := &domain.Organization{}
	err := row.Scan(&o.ID, &o.Name, &o.StaffPinHash, &o.CheckInGraceMinutes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
		SELECT id, name, staff_pin_hash, check_in_grace_minutes, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	return scanOrganization(r.DB.QueryRowContext(ctx, query, id))
}

func (r *organizationRepository) UpdateGraceMinutes(ctx context.Context, id string, minutes int) (*domain.Organization, error) {
	query := `
		UPDATE organizations
		SET check_in_grace_minutes = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, staff_pin_hash, check_in_grace_minutes, created_at, updated_at
	`
	return scanOrganization(r.DB.QueryRowContext(ctx, query, id, minutes))
}
