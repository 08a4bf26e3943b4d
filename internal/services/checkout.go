package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"familycheckin/internal/domain"
)

type checkoutService struct {
	pickupCodeRepo domain.PickupCodeRepository
	personRepo     domain.PersonRepository
	familyRepo     domain.FamilyRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	audit          domain.AuditLog
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewCheckoutService returns a CheckoutService. emailService may be nil, in which case no
// checkout notice is sent.
func NewCheckoutService(
	pickupCodeRepo domain.PickupCodeRepository,
	personRepo domain.PersonRepository,
	familyRepo domain.FamilyRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	audit domain.AuditLog,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CheckoutService {
	return &checkoutService{
		pickupCodeRepo: pickupCodeRepo,
		personRepo:     personRepo,
		familyRepo:     familyRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		audit:          audit,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *checkoutService) LookupCode(ctx context.Context, eventID, code string) (*domain.PickupCodeDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID = strings.TrimSpace(eventID)
	code = strings.ToUpper(strings.TrimSpace(code))
	if eventID == "" || code == "" {
		return nil, fmt.Errorf("%w: code and eventId are required", domain.ErrInvalidInput)
	}

	pc, err := s.pickupCodeRepo.GetByEventAndCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get pickup code: %w", err)
	}
	if pc.Redeemed() {
		return nil, domain.ErrAlreadyRedeemed
	}

	youth, err := s.personRepo.GetByID(ctx, pc.YouthPersonID)
	if err != nil {
		return nil, fmt.Errorf("get youth: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, pc.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.PickupCodeDetails{PickupCode: pc, YouthPerson: youth, Event: event}, nil
}

func (s *checkoutService) Redeem(ctx context.Context, organizationID, pickupCodeID string, redeemedByAdultID *string) (*domain.CheckoutResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizationID == "" || pickupCodeID == "" {
		return nil, fmt.Errorf("%w: organizationId and pickupCodeId are required", domain.ErrInvalidInput)
	}

	pc, err := s.pickupCodeRepo.GetByID(ctx, pickupCodeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get pickup code: %w", err)
	}
	if pc.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if pc.Redeemed() {
		return nil, domain.ErrAlreadyRedeemed
	}
	if redeemedByAdultID != nil {
		if err := s.checkRedeemingAdult(ctx, organizationID, *redeemedByAdultID); err != nil {
			return nil, err
		}
	}

	// The repository re-checks redeemed_at inside its transaction, so a concurrent redeem
	// that passed the check above still loses with ErrAlreadyRedeemed.
	redeemed, attendance, err := s.pickupCodeRepo.Redeem(ctx, pc.ID, redeemedByAdultID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRedeemed) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("redeem pickup code: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditCheckOut, map[string]any{
		"pickupCodeId":      redeemed.ID,
		"code":              redeemed.Code,
		"eventId":           redeemed.EventID,
		"youthPersonId":     redeemed.YouthPersonID,
		"redeemedByAdultId": redeemedByAdultID,
	})
	s.sendCheckoutNotice(ctx, redeemed, attendance)

	return &domain.CheckoutResult{Attendance: attendance, PickupCode: redeemed}, nil
}

// checkRedeemingAdult requires adultID to name an active adult in the organization.
func (s *checkoutService) checkRedeemingAdult(ctx context.Context, organizationID, adultID string) error {
	if strings.TrimSpace(adultID) == "" {
		return fmt.Errorf("%w: redeemedByAdultId must not be empty", domain.ErrInvalidInput)
	}
	adult, err := s.personRepo.GetByID(ctx, adultID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get redeeming adult: %w", err)
	}
	if adult.OrganizationID != organizationID || !adult.Active {
		return domain.ErrNotFound
	}
	if adult.Role != domain.RoleAdult {
		return fmt.Errorf("%w: redeemedByAdultId must reference an adult", domain.ErrInvalidInput)
	}
	return nil
}

// sendCheckoutNotice emails the youth's family when it has a notify address. Failures are logged.
func (s *checkoutService) sendCheckoutNotice(ctx context.Context, pc *domain.PickupCode, attendance *domain.Attendance) {
	if s.emailService == nil {
		return
	}
	youth, err := s.personRepo.GetByID(ctx, pc.YouthPersonID)
	if err != nil || youth.FamilyID == nil {
		if err != nil {
			s.logger.WarnContext(ctx, "checkout notice: get youth failed", "pickup_code_id", pc.ID, "error", err)
		}
		return
	}
	family, err := s.familyRepo.GetByID(ctx, *youth.FamilyID)
	if err != nil {
		s.logger.WarnContext(ctx, "checkout notice: get family failed", "family_id", *youth.FamilyID, "error", err)
		return
	}
	if family.NotifyEmail == nil || *family.NotifyEmail == "" {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, pc.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "checkout notice: get event failed", "event_id", pc.EventID, "error", err)
		return
	}

	checkedOut := s.now()
	if attendance != nil && attendance.CheckOutAt != nil {
		checkedOut = *attendance.CheckOutAt
	}
	data := &domain.CheckoutNoticeEmailData{
		Email:      *family.NotifyEmail,
		FamilyName: family.FamilyName,
		YouthName:  youth.DisplayName(),
		EventTitle: event.Title,
		CheckedOut: checkedOut,
		PickupCode: pc.Code,
	}
	if err := s.emailService.SendCheckoutNotice(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "checkout notice email failed", "family_id", family.ID, "error", err)
	}
}
