package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"familycheckin/internal/domain"
)

const personColumns = `id, organization_id, family_id, first_name, last_name, role, active, created_at, updated_at`

type personRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) domain.PersonRepository {
	return &personRepository{DB: db}
}

func scanPerson(row rowScanner) (*domain.Person, error) {
	p := &domain.Person{}
	var familyID sql.NullString
	if err := row.Scan(&p.ID, &p.OrganizationID, &familyID, &p.FirstName, &p.LastName, &p.Role, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if familyID.Valid {
		p.FamilyID = &familyID.String
	}
	return p, nil
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	query := `
		INSERT INTO people (organization_id, family_id, first_name, last_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.OrganizationID, p.FamilyID, p.FirstName, p.LastName, p.Role, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`
	p, err := scanPerson(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *personRepository) ListActiveByFamilyIDs(ctx context.Context, familyIDs []string) ([]*domain.Person, error) {
	people := make([]*domain.Person, 0)
	if len(familyIDs) == 0 {
		return people, nil
	}
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE family_id = ANY($1) AND active = TRUE
		ORDER BY role ASC, first_name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(familyIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *personRepository) List(ctx context.Context, organizationID string, role domain.PersonRole) ([]*domain.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE organization_id = $1 AND ($2::text = '' OR role = $2)
		ORDER BY first_name ASC, last_name ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizationID, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	people := make([]*domain.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}
