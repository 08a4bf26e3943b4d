package domain

import "context"

// CheckInRequest is the input to CheckInService.CheckIn.
type CheckInRequest struct {
	OrganizationID string
	PersonID       string
	Event          EventRef
}

// CheckInResult is the attendance row and, for youth only, the pickup code.
type CheckInResult struct {
	Attendance *Attendance `json:"attendance"`
	PickupCode *PickupCode `json:"pickupCode"`
}

// CheckInStatus maps each checked-in family member to their attendance status for an event.
type CheckInStatus struct {
	FamilyID        string                      `json:"familyId"`
	EventID         string                      `json:"eventId"`
	CheckedInStatus map[string]AttendanceStatus `json:"checkedInStatus"`
}

// CheckoutResult is the attendance row after checkout and the redeemed pickup code.
type CheckoutResult struct {
	Attendance *Attendance `json:"attendance"`
	PickupCode *PickupCode `json:"pickupCode"`
}

// CheckInService checks people into events and issues pickup codes for youth.
type CheckInService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
	Status(ctx context.Context, organizationID, eventID, familyID string) (*CheckInStatus, error)
}

// CheckoutService looks up and redeems pickup codes.
type CheckoutService interface {
	// LookupCode finds an unredeemed code for the event. It never mutates state.
	LookupCode(ctx context.Context, eventID, code string) (*PickupCodeDetails, error)
	// Redeem checks the youth out. A code can be redeemed exactly once.
	Redeem(ctx context.Context, organizationID, pickupCodeID string, redeemedByAdultID *string) (*CheckoutResult, error)
}
