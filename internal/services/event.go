package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"familycheckin/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	attendanceRepo domain.AttendanceRepository
	pickupCodeRepo domain.PickupCodeRepository
	audit          domain.AuditLog
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	attendanceRepo domain.AttendanceRepository,
	pickupCodeRepo domain.PickupCodeRepository,
	audit domain.AuditLog,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		pickupCodeRepo: pickupCodeRepo,
		audit:          audit,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) ResolveEvent(ctx context.Context, organizationID string, ref domain.EventRef) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ref == nil || ref.EventID() == "" {
		return nil, fmt.Errorf("%w: eventId is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, ref.EventID())
	if errors.Is(err, domain.ErrNotFound) {
		placeholder := domain.NewPlaceholderEvent(organizationID, ref, s.now())
		if err := s.eventRepo.Create(ctx, placeholder); err != nil {
			// Another check-in may have created the same calendar event first.
			existing, getErr := s.eventRepo.GetByID(ctx, placeholder.ID)
			if getErr != nil {
				return nil, fmt.Errorf("create event: %w", err)
			}
			event = existing
		} else {
			return placeholder, nil
		}
	} else if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}

	title, location := ref.Details()
	if title == "" && location == "" {
		return event, nil
	}
	if title == "" {
		title = event.Title
	}
	var loc *string
	if location != "" {
		loc = &location
	}
	if title == event.Title && (loc == nil || (event.Location != nil && *event.Location == *loc)) {
		return event, nil
	}
	updated, err := s.eventRepo.UpdateDetails(ctx, event.ID, title, loc)
	if err != nil {
		return nil, fmt.Errorf("update event details: %w", err)
	}
	return updated, nil
}

func (s *eventService) getOwnedEvent(ctx context.Context, organizationID, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, organizationID, eventID string) (*domain.EventWithCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, organizationID, eventID)
	if err != nil {
		return nil, err
	}
	attendance, codes, err := s.eventRepo.CountReferences(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count event references: %w", err)
	}
	return &domain.EventWithCounts{Event: event, AttendanceCount: attendance, PickupCodeCount: codes}, nil
}

func (s *eventService) ListEvents(ctx context.Context, organizationID string, status domain.EventStatus) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizationID == "" {
		return nil, fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, status)
	}
	events, err := s.eventRepo.List(ctx, organizationID, status)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func validateSchedule(e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if e.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", domain.ErrInvalidInput)
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("%w: endsAt must not be before startsAt", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if e == nil || e.OrganizationID == "" {
		return fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
	}
	if err := validateSchedule(e); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Status = domain.EventDraft
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, e.OrganizationID, domain.AuditEventCreated, map[string]any{
		"eventId": e.ID,
		"title":   e.Title,
	})
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, organizationID, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, *patch.Status)
	}
	event, err := s.getOwnedEvent(ctx, organizationID, eventID)
	if err != nil {
		return nil, err
	}
	patch.Apply(event, s.now())
	if err := validateSchedule(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditEventUpdated, map[string]any{
		"eventId": event.ID,
		"status":  event.Status,
	})
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, organizationID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwnedEvent(ctx, organizationID, eventID)
	if err != nil {
		return err
	}
	attendance, codes, err := s.eventRepo.CountReferences(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count event references: %w", err)
	}

	if err := s.attendanceRepo.DeleteAllForEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if err := s.pickupCodeRepo.DeleteAllForEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("delete pickup codes: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditEventDeleted, map[string]any{
		"eventId":               event.ID,
		"title":                 event.Title,
		"attendanceRowsDeleted": attendance,
		"pickupCodeRowsDeleted": codes,
	})
	return nil
}
