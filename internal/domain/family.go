package domain

import (
	"context"
	"strings"
	"time"
)

// Family is a household grouped by its primary phone number.
// swagger:model Family
type Family struct {
	ID               string    `json:"id"`
	OrganizationID   string    `json:"organizationId"`
	FamilyName       string    `json:"familyName"`
	PrimaryPhoneE164 string    `json:"primaryPhoneE164"`
	PhoneLast4       string    `json:"phoneLast4"`
	NotifyEmail      *string   `json:"notifyEmail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewFamily returns a Family whose phone is normalized to E.164 and whose search key is derived from it.
func NewFamily(organizationID, familyName, phone string, notifyEmail *string, createdAt, updatedAt time.Time) *Family {
	normalized := NormalizePhoneE164(phone)
	return &Family{
		OrganizationID:   organizationID,
		FamilyName:       strings.TrimSpace(familyName),
		PrimaryPhoneE164: normalized,
		PhoneLast4:       PhoneLast4(normalized),
		NotifyEmail:      notifyEmail,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// FamilyPatch is a partial household update. Nil fields are left unchanged; an empty
// NotifyEmail clears the address.
type FamilyPatch struct {
	FamilyName   *string
	PrimaryPhone *string
	NotifyEmail  *string
}

// Apply writes the set fields of p onto f, re-deriving the phone search key, and stamps UpdatedAt.
func (p FamilyPatch) Apply(f *Family, now time.Time) {
	if p.FamilyName != nil {
		f.FamilyName = strings.TrimSpace(*p.FamilyName)
	}
	if p.PrimaryPhone != nil {
		f.PrimaryPhoneE164 = NormalizePhoneE164(*p.PrimaryPhone)
		f.PhoneLast4 = PhoneLast4(f.PrimaryPhoneE164)
	}
	if p.NotifyEmail != nil {
		if email := strings.TrimSpace(*p.NotifyEmail); email != "" {
			f.NotifyEmail = &email
		} else {
			f.NotifyEmail = nil
		}
	}
	f.UpdatedAt = now
}

// FamilyWithPeople bundles a family with its active members.
type FamilyWithPeople struct {
	*Family
	People []*Person `json:"people"`
}

// FamilyRepository defines storage operations for households.
type FamilyRepository interface {
	Create(ctx context.Context, f *Family) error
	GetByID(ctx context.Context, id string) (*Family, error)
	// Search lists one page of families in the organization ordered by name, plus the total
	// number of matches. An empty phoneLast4 matches every family.
	Search(ctx context.Context, organizationID, phoneLast4 string, params PaginationParams) ([]*Family, int, error)
	// Update writes the name, phone and notify address of f.
	Update(ctx context.Context, f *Family) error
	// Delete removes the family. Its members are kept and detached from it.
	Delete(ctx context.Context, id string) error
}

// FamilyService defines the household directory used by the kiosk and the admin screens.
type FamilyService interface {
	Search(ctx context.Context, organizationID, phoneLast4 string, params PaginationParams) ([]*FamilyWithPeople, int, error)
	Get(ctx context.Context, organizationID, familyID string) (*FamilyWithPeople, error)
	Create(ctx context.Context, f *Family) error
	// AddMember creates p as an active member of the family. p.OrganizationID and p.FamilyID
	// are taken from the family.
	AddMember(ctx context.Context, organizationID, familyID string, p *Person) error
	Update(ctx context.Context, organizationID, familyID string, patch FamilyPatch) (*FamilyWithPeople, error)
	Delete(ctx context.Context, organizationID, familyID string) error
}
