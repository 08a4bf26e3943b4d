package domain

import (
	"context"
	"time"
)

// PickupCode binds a short code to a youth at an event. It is redeemed at most once.
// swagger:model PickupCode
type PickupCode struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organizationId"`
	EventID           string     `json:"eventId"`
	YouthPersonID     string     `json:"youthPersonId"`
	Code              string     `json:"code"`
	RedeemedAt        *time.Time `json:"redeemedAt"`
	RedeemedByAdultID *string    `json:"redeemedByAdultId"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NewPickupCode returns an unredeemed PickupCode. ID is typically set by the repository on create.
func NewPickupCode(organizationID, eventID, youthPersonID, code string, createdAt time.Time) *PickupCode {
	return &PickupCode{
		OrganizationID: organizationID,
		EventID:        eventID,
		YouthPersonID:  youthPersonID,
		Code:           code,
		CreatedAt:      createdAt,
	}
}

// Redeemed reports whether the code has been used for checkout.
func (c *PickupCode) Redeemed() bool {
	return c.RedeemedAt != nil
}

// PickupCodeDetails is a pickup code with the youth and event it belongs to, shown on the
// checkout confirmation screen.
type PickupCodeDetails struct {
	*PickupCode
	YouthPerson *Person `json:"youthPerson"`
	Event       *Event  `json:"event"`
}

// PickupCodeRepository defines storage operations for pickup codes.
type PickupCodeRepository interface {
	// Create inserts c. Returns ErrCodeTaken when the code is already used within the event and
	// ErrActiveCodeExists when the youth already holds an unredeemed code for the event.
	Create(ctx context.Context, c *PickupCode) error
	GetByID(ctx context.Context, id string) (*PickupCode, error)
	// GetActiveByEventAndYouth returns the youth's unredeemed code for the event.
	GetActiveByEventAndYouth(ctx context.Context, eventID, youthPersonID string) (*PickupCode, error)
	GetByEventAndCode(ctx context.Context, eventID, code string) (*PickupCode, error)
	CodeExistsInEvent(ctx context.Context, eventID, code string) (bool, error)
	// Redeem marks the code redeemed and flips the youth's attendance to CHECKED_OUT in one
	// transaction. The code update is conditional on redeemed_at being null; when another
	// caller got there first it returns ErrAlreadyRedeemed and changes nothing.
	Redeem(ctx context.Context, id string, redeemedByAdultID *string, at time.Time) (*PickupCode, *Attendance, error)
	DeleteAllForEvent(ctx context.Context, eventID string) error
}
