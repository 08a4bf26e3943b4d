package domain

import (
	"context"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventActive    EventStatus = "ACTIVE"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventActive, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// ParseEventStatus normalizes s (case-insensitive) into an EventStatus.
func ParseEventStatus(s string) (EventStatus, bool) {
	st := EventStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// DefaultEventTitle is used for placeholder events created at check-in without a title.
const DefaultEventTitle = "Calendar Event"

// Event is an activity people check into. IDs may be calendar UIDs.
// swagger:model Event
type Event struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organizationId"`
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	Location       *string     `json:"location"`
	StartsAt       time.Time   `json:"startsAt"`
	EndsAt         *time.Time  `json:"endsAt"`
	Status         EventStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// EventRef identifies the event a check-in targets. It is either a LocalEventRef or a
// CalendarEventRef; ResolveEvent turns either into a persisted Event.
type EventRef interface {
	EventID() string
	// Details returns the title and location carried by the reference, if any.
	Details() (title, location string)
}

// LocalEventRef points at an event by its local id.
type LocalEventRef struct {
	ID string
}

func (r LocalEventRef) EventID() string           { return r.ID }
func (r LocalEventRef) Details() (string, string) { return "", "" }

// CalendarEventRef points at a calendar-sourced event that may not be stored locally yet.
type CalendarEventRef struct {
	UID      string
	Title    string
	Location string
}

func (r CalendarEventRef) EventID() string           { return r.UID }
func (r CalendarEventRef) Details() (string, string) { return r.Title, r.Location }

// NewEventRef builds a CalendarEventRef when a title or location is supplied and a
// LocalEventRef otherwise.
func NewEventRef(id, title, location string) EventRef {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)
	if title == "" && location == "" {
		return LocalEventRef{ID: id}
	}
	return CalendarEventRef{UID: id, Title: title, Location: location}
}

// NewPlaceholderEvent returns an ACTIVE event for ref, used when check-in references an
// event that has not been stored locally yet.
func NewPlaceholderEvent(organizationID string, ref EventRef, now time.Time) *Event {
	title, location := ref.Details()
	if title == "" {
		title = DefaultEventTitle
	}
	e := &Event{
		ID:             ref.EventID(),
		OrganizationID: organizationID,
		Title:          title,
		StartsAt:       now,
		Status:         EventActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if location != "" {
		e.Location = &location
	}
	return e
}

// NewEvent returns a DRAFT event scheduled by staff.
func NewEvent(organizationID, title string, description, location *string, startsAt time.Time, endsAt *time.Time, now time.Time) *Event {
	return &Event{
		OrganizationID: organizationID,
		Title:          strings.TrimSpace(title),
		Description:    description,
		Location:       location,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Status:         EventDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EventPatch is a partial event update. Nil fields are left unchanged; ClearEndsAt removes
// the end time.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	ClearEndsAt bool
	Status      *EventStatus
}

// Apply writes the set fields of p onto e and stamps UpdatedAt.
func (p EventPatch) Apply(e *Event, now time.Time) {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.StartsAt != nil {
		e.StartsAt = *p.StartsAt
	}
	if p.ClearEndsAt {
		e.EndsAt = nil
	} else if p.EndsAt != nil {
		e.EndsAt = p.EndsAt
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	e.UpdatedAt = now
}

// EventWithCounts is an event plus how many attendance rows and pickup codes reference it.
type EventWithCounts struct {
	*Event
	AttendanceCount int `json:"attendanceCount"`
	PickupCodeCount int `json:"pickupCodeCount"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create inserts e using e.ID as the primary key.
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// UpdateDetails sets title and, when location is non-nil, location.
	UpdateDetails(ctx context.Context, id, title string, location *string) (*Event, error)
	// List returns the organization's events, newest start first. An empty status matches all.
	List(ctx context.Context, organizationID string, status EventStatus) ([]*Event, error)
	// Update writes every mutable column of e.
	Update(ctx context.Context, e *Event) error
	CountReferences(ctx context.Context, id string) (attendance, pickupCodes int, err error)
	Delete(ctx context.Context, id string) error
}

// EventService defines staff-facing event operations.
type EventService interface {
	// ResolveEvent returns the stored event for ref, creating a placeholder when missing and
	// refreshing title/location when ref carries calendar details. A ref with only a
	// location keeps the stored title.
	ResolveEvent(ctx context.Context, organizationID string, ref EventRef) (*Event, error)
	// GetEvent returns the event with reference counts. An event owned by another
	// organization is reported as ErrNotFound.
	GetEvent(ctx context.Context, organizationID, eventID string) (*EventWithCounts, error)
	ListEvents(ctx context.Context, organizationID string, status EventStatus) ([]*Event, error)
	// CreateEvent stores e as a DRAFT event, assigning its id when empty.
	CreateEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, organizationID, eventID string, patch EventPatch) (*Event, error)
	// DeleteEvent removes the event's attendance rows, then its pickup codes, then the event.
	DeleteEvent(ctx context.Context, organizationID, eventID string) error
}
