package domain

import (
	"context"
	"strings"
	"time"
)

// PersonRole distinguishes adults from youth. Only youth receive pickup codes.
type PersonRole string

const (
	RoleAdult PersonRole = "ADULT"
	RoleYouth PersonRole = "YOUTH"
)

// Valid reports whether r is a known role.
func (r PersonRole) Valid() bool {
	return r == RoleAdult || r == RoleYouth
}

// ParsePersonRole normalizes s (case-insensitive) into a PersonRole.
func ParsePersonRole(s string) (PersonRole, bool) {
	r := PersonRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Person is a member of a household who can be checked in.
// swagger:model Person
type Person struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	FamilyID       *string    `json:"familyId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           PersonRole `json:"role"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewPerson returns an active Person. ID is typically set by the repository on create.
func NewPerson(organizationID string, familyID *string, firstName, lastName string, role PersonRole, createdAt, updatedAt time.Time) *Person {
	return &Person{
		OrganizationID: organizationID,
		FamilyID:       familyID,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           role,
		Active:         true,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// DisplayName returns "First Last" trimmed.
func (p *Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// IsYouth reports whether the person receives a pickup code at check-in.
func (p *Person) IsYouth() bool {
	return p.Role == RoleYouth
}

// PersonRepository defines storage operations for people.
type PersonRepository interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	// ListActiveByFamilyIDs returns active people for the given families, adults first.
	ListActiveByFamilyIDs(ctx context.Context, familyIDs []string) ([]*Person, error)
	// List returns every person in the organization ordered by name. An empty role matches all.
	List(ctx context.Context, organizationID string, role PersonRole) ([]*Person, error)
}

// PersonService manages people directly, with or without a household.
type PersonService interface {
	List(ctx context.Context, organizationID string, role PersonRole) ([]*Person, error)
	// Create stores p as an active person. A non-nil p.FamilyID must name a family of the
	// same organization.
	Create(ctx context.Context, p *Person) error
}
