package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"familycheckin/internal/domain"
	"familycheckin/internal/retry"
)

type checkInService struct {
	personRepo      domain.PersonRepository
	familyRepo      domain.FamilyRepository
	attendanceRepo  domain.AttendanceRepository
	pickupCodeRepo  domain.PickupCodeRepository
	eventService    domain.EventService
	audit           domain.AuditLog
	logger          *slog.Logger
	maxCodeAttempts int
	contextTimeout  time.Duration
	now             func() time.Time
}

// NewCheckInService returns a CheckInService. maxCodeAttempts bounds how many random codes are
// tried before giving up with domain.ErrCodeSpaceExhausted.
func NewCheckInService(
	personRepo domain.PersonRepository,
	familyRepo domain.FamilyRepository,
	attendanceRepo domain.AttendanceRepository,
	pickupCodeRepo domain.PickupCodeRepository,
	eventService domain.EventService,
	audit domain.AuditLog,
	logger *slog.Logger,
	maxCodeAttempts int,
	timeout time.Duration,
) domain.CheckInService {
	return &checkInService{
		personRepo:      personRepo,
		familyRepo:      familyRepo,
		attendanceRepo:  attendanceRepo,
		pickupCodeRepo:  pickupCodeRepo,
		eventService:    eventService,
		audit:           audit,
		logger:          logger,
		maxCodeAttempts: maxCodeAttempts,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, req domain.CheckInRequest) (*domain.CheckInResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	orgID := strings.TrimSpace(req.OrganizationID)
	personID := strings.TrimSpace(req.PersonID)
	if orgID == "" || personID == "" || req.Event == nil || strings.TrimSpace(req.Event.EventID()) == "" {
		return nil, fmt.Errorf("%w: organizationId, eventId and personId are required", domain.ErrInvalidInput)
	}

	person, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	// Inactive people are hidden from the kiosk and cannot be checked in.
	if person.OrganizationID != orgID || !person.Active {
		return nil, domain.ErrNotFound
	}

	event, err := s.eventService.ResolveEvent(ctx, orgID, req.Event)
	if err != nil {
		return nil, err
	}

	now := s.now()
	attendance := domain.NewAttendance(orgID, event.ID, person.ID, domain.StatusCheckedIn, now)
	if err := s.attendanceRepo.Upsert(ctx, attendance); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}

	var code *domain.PickupCode
	if person.IsYouth() {
		// Attendance stays CHECKED_IN if this fails; the caller sees the error and can retry.
		code, err = s.issuePickupCode(ctx, orgID, event.ID, person.ID, now)
		if err != nil {
			return nil, err
		}
	}

	details := map[string]any{"eventId": event.ID, "personId": person.ID, "pickupCodeId": nil}
	if code != nil {
		details["pickupCodeId"] = code.ID
	}
	recordAudit(ctx, s.audit, s.logger, orgID, domain.AuditCheckIn, details)

	return &domain.CheckInResult{Attendance: attendance, PickupCode: code}, nil
}

// issuePickupCode returns the youth's unredeemed code for the event, issuing a new one when
// there is none.
func (s *checkInService) issuePickupCode(ctx context.Context, orgID, eventID, youthID string, now time.Time) (*domain.PickupCode, error) {
	existing, err := s.pickupCodeRepo.GetActiveByEventAndYouth(ctx, eventID, youthID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get active pickup code: %w", err)
	}

	next := func() (*domain.PickupCode, error) {
		value, err := GeneratePickupCode()
		if err != nil {
			return nil, fmt.Errorf("generate pickup code: %w", err)
		}
		return domain.NewPickupCode(orgID, eventID, youthID, value, now), nil
	}
	free := func(c *domain.PickupCode) (bool, error) {
		taken, err := s.pickupCodeRepo.CodeExistsInEvent(ctx, eventID, c.Code)
		if err != nil {
			return false, fmt.Errorf("check pickup code: %w", err)
		}
		if taken {
			return false, nil
		}
		err = s.pickupCodeRepo.Create(ctx, c)
		if errors.Is(err, domain.ErrCodeTaken) {
			return false, nil
		}
		return err == nil, err
	}

	code, err := retry.Until(s.maxCodeAttempts, next, free)
	switch {
	case err == nil:
		return code, nil
	case errors.Is(err, domain.ErrActiveCodeExists):
		// A concurrent check-in of the same youth inserted first.
		winner, err := s.pickupCodeRepo.GetActiveByEventAndYouth(ctx, eventID, youthID)
		if err != nil {
			return nil, fmt.Errorf("get active pickup code: %w", err)
		}
		return winner, nil
	case errors.Is(err, retry.ErrExhausted):
		s.logger.ErrorContext(ctx, "pickup code space exhausted", "event_id", eventID, "attempts", s.maxCodeAttempts)
		return nil, fmt.Errorf("%w: %w", domain.ErrCodeSpaceExhausted, err)
	default:
		return nil, fmt.Errorf("create pickup code: %w", err)
	}
}

func (s *checkInService) Status(ctx context.Context, organizationID, eventID, familyID string) (*domain.CheckInStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizationID == "" || eventID == "" || familyID == "" {
		return nil, fmt.Errorf("%w: organizationId, eventId and familyId are required", domain.ErrInvalidInput)
	}

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	if family.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}

	people, err := s.personRepo.ListActiveByFamilyIDs(ctx, []string{family.ID})
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	personIDs := make([]string, 0, len(people))
	for _, p := range people {
		personIDs = append(personIDs, p.ID)
	}

	statuses, err := s.attendanceRepo.FindStatusForPeople(ctx, organizationID, eventID, personIDs)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &domain.CheckInStatus{FamilyID: family.ID, EventID: eventID, CheckedInStatus: statuses}, nil
}

// recordAudit writes to the audit log and only logs a failure.
func recordAudit(ctx context.Context, audit domain.AuditLog, logger *slog.Logger, orgID string, action domain.AuditAction, details any) {
	if err := audit.Record(ctx, orgID, action, details); err != nil {
		logger.WarnContext(ctx, "audit log write failed", "action", string(action), "organization_id", orgID, "error", err)
	}
}
