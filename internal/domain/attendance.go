package domain

import (
	"context"
	"time"
)

// AttendanceStatus is the per-person, per-event check-in state.
type AttendanceStatus string

const (
	StatusCheckedIn  AttendanceStatus = "CHECKED_IN"
	StatusCheckedOut AttendanceStatus = "CHECKED_OUT"
)

// Attendance is the single row per (event, person). Check-in and checkout overwrite it in place.
// swagger:model Attendance
type Attendance struct {
	ID             string           `json:"id"`
	OrganizationID string           `json:"organizationId"`
	EventID        string           `json:"eventId"`
	PersonID       string           `json:"personId"`
	Status         AttendanceStatus `json:"status"`
	CheckInAt      *time.Time       `json:"checkInAt"`
	CheckOutAt     *time.Time       `json:"checkOutAt"`
	Notes          *string          `json:"notes"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NewAttendance returns an Attendance in the given status with the matching timestamp set to at.
func NewAttendance(organizationID, eventID, personID string, status AttendanceStatus, at time.Time) *Attendance {
	a := &Attendance{
		OrganizationID: organizationID,
		EventID:        eventID,
		PersonID:       personID,
		Status:         status,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	if status == StatusCheckedOut {
		a.CheckOutAt = &at
	} else {
		a.CheckInAt = &at
	}
	return a
}

// AttendanceRepository defines storage operations for attendance rows.
type AttendanceRepository interface {
	// Upsert creates the (event, person) row or overwrites its status and the timestamp
	// matching the new status. a is updated with the stored row.
	Upsert(ctx context.Context, a *Attendance) error
	GetByEventAndPerson(ctx context.Context, eventID, personID string) (*Attendance, error)
	// FindStatusForPeople returns the status of each requested person that has a row for the event.
	FindStatusForPeople(ctx context.Context, organizationID, eventID string, personIDs []string) (map[string]AttendanceStatus, error)
	DeleteAllForEvent(ctx context.Context, eventID string) error
}
