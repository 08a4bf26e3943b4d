package domain

import (
	"context"
	"time"
)

// Grace window bounds for check-in before an event starts.
const (
	MinCheckInGraceMinutes = 0
	MaxCheckInGraceMinutes = 120
)

// Organization is a tenant. Every core operation is scoped to one.
type Organization struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	StaffPinHash        string    `json:"-"`
	CheckInGraceMinutes int       `json:"checkInGraceMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Settings are the admin-configurable organization settings.
// swagger:model Settings
type Settings struct {
	CheckInGraceMinutes int `json:"checkInGraceMinutes"`
}

// OrganizationRepository defines storage operations for organizations.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*Organization, error)
	UpdateGraceMinutes(ctx context.Context, id string, minutes int) (*Organization, error)
}

// SettingsService reads and updates organization settings.
type SettingsService interface {
	Get(ctx context.Context, organizationID string) (*Settings, error)
	Update(ctx context.Context, organizationID string, s Settings) (*Settings, error)
}

// PinHasher hashes and verifies staff PINs.
type PinHasher interface {
	Hash(pin string) (string, error)
	Compare(hash, pin string) error
}

// StaffRole is the role claim carried by tokens issued from the staff PIN.
const StaffRole = "staff"

// StaffClaims identify an authenticated staff session.
type StaffClaims struct {
	OrganizationID string
	Role           string
}

// TokenIssuer issues tokens (e.g. JWT) for an unlocked staff session.
type TokenIssuer interface {
	Issue(organizationID, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*StaffClaims, error)
}

// StaffAuthService unlocks the admin screens with the organization's staff PIN.
type StaffAuthService interface {
	Unlock(ctx context.Context, organizationID, pin string) (token string, err error)
}
