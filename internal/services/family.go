package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"familycheckin/internal/domain"
)

type familyService struct {
	familyRepo     domain.FamilyRepository
	personRepo     domain.PersonRepository
	audit          domain.AuditLog
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewFamilyService returns the household directory service used by the kiosk and admin screens.
func NewFamilyService(familyRepo domain.FamilyRepository, personRepo domain.PersonRepository, audit domain.AuditLog, logger *slog.Logger, timeout time.Duration) domain.FamilyService {
	return &familyService{
		familyRepo:     familyRepo,
		personRepo:     personRepo,
		audit:          audit,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *familyService) Search(ctx context.Context, organizationID, phoneLast4 string, params domain.PaginationParams) ([]*domain.FamilyWithPeople, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	phoneLast4 = strings.TrimSpace(phoneLast4)
	if organizationID == "" {
		return nil, 0, fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
	}
	if phoneLast4 != "" && !domain.IsPhoneLast4(phoneLast4) {
		return nil, 0, fmt.Errorf("%w: phoneLast4 must be exactly 4 digits", domain.ErrInvalidInput)
	}
	if !params.Valid() {
		return nil, 0, fmt.Errorf("%w: page and page size must be positive", domain.ErrInvalidInput)
	}

	families, total, err := s.familyRepo.Search(ctx, organizationID, phoneLast4, params)
	if err != nil {
		return nil, 0, fmt.Errorf("search families: %w", err)
	}
	out, err := s.withPeople(ctx, families)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *familyService) Get(ctx context.Context, organizationID, familyID string) (*domain.FamilyWithPeople, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	family, err := s.getOwnedFamily(ctx, organizationID, familyID)
	if err != nil {
		return nil, err
	}
	out, err := s.withPeople(ctx, []*domain.Family{family})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *familyService) getOwnedFamily(ctx context.Context, organizationID, familyID string) (*domain.Family, error) {
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
	return family, nil
}

// withPeople loads the active members of all families with one query.
func (s *familyService) withPeople(ctx context.Context, families []*domain.Family) ([]*domain.FamilyWithPeople, error) {
	ids := make([]string, 0, len(families))
	for _, f := range families {
		ids = append(ids, f.ID)
	}
	people, err := s.personRepo.ListActiveByFamilyIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	byFamily := make(map[string][]*domain.Person, len(families))
	for _, p := range people {
		if p.FamilyID != nil {
			byFamily[*p.FamilyID] = append(byFamily[*p.FamilyID], p)
		}
	}
	out := make([]*domain.FamilyWithPeople, 0, len(families))
	for _, f := range families {
		members := byFamily[f.ID]
		if members == nil {
			members = []*domain.Person{}
		}
		out = append(out, &domain.FamilyWithPeople{Family: f, People: members})
	}
	return out, nil
}

func (s *familyService) Create(ctx context.Context, f *domain.Family) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if f == nil || f.OrganizationID == "" || strings.TrimSpace(f.FamilyName) == "" {
		return fmt.Errorf("%w: organizationId and familyName are required", domain.ErrInvalidInput)
	}
	if err := validateContact(f); err != nil {
		return err
	}

	if err := s.familyRepo.Create(ctx, f); err != nil {
		if errors.Is(err, domain.ErrDuplicatePhone) {
			return domain.ErrDuplicatePhone
		}
		return fmt.Errorf("create family: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, f.OrganizationID, domain.AuditFamilyCreated, map[string]any{
		"familyId":   f.ID,
		"familyName": f.FamilyName,
		"phone":      domain.MaskPhone(f.PrimaryPhoneE164),
	})
	return nil
}

func validateContact(f *domain.Family) error {
	if !domain.IsValidPhone(f.PrimaryPhoneE164) {
		return fmt.Errorf("%w: primaryPhone must have at least 10 digits", domain.ErrInvalidInput)
	}
	if f.NotifyEmail != nil {
		if _, err := mail.ParseAddress(*f.NotifyEmail); err != nil {
			return fmt.Errorf("%w: notifyEmail is not a valid address", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *familyService) AddMember(ctx context.Context, organizationID, familyID string, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if p == nil || strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: firstName and lastName are required", domain.ErrInvalidInput)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: role must be ADULT or YOUTH", domain.ErrInvalidInput)
	}

	family, err := s.getOwnedFamily(ctx, organizationID, familyID)
	if err != nil {
		return err
	}
	p.OrganizationID = family.OrganizationID
	p.FamilyID = &family.ID
	p.Active = true
	if err := s.personRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditPersonCreated, map[string]any{
		"personId": p.ID,
		"familyId": family.ID,
		"role":     p.Role,
	})
	return nil
}

func (s *familyService) Update(ctx context.Context, organizationID, familyID string, patch domain.FamilyPatch) (*domain.FamilyWithPeople, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.FamilyName != nil && strings.TrimSpace(*patch.FamilyName) == "" {
		return nil, fmt.Errorf("%w: familyName must not be empty", domain.ErrInvalidInput)
	}
	family, err := s.getOwnedFamily(ctx, organizationID, familyID)
	if err != nil {
		return nil, err
	}
	patch.Apply(family, s.now())
	if err := validateContact(family); err != nil {
		return nil, err
	}
	if err := s.familyRepo.Update(ctx, family); err != nil {
		if errors.Is(err, domain.ErrDuplicatePhone) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update family: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditFamilyUpdated, map[string]any{
		"familyId":   family.ID,
		"familyName": family.FamilyName,
		"phone":      domain.MaskPhone(family.PrimaryPhoneE164),
	})
	out, err := s.withPeople(ctx, []*domain.Family{family})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Delete removes the family. Its members stay in the organization without a household.
func (s *familyService) Delete(ctx context.Context, organizationID, familyID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	family, err := s.getOwnedFamily(ctx, organizationID, familyID)
	if err != nil {
		return err
	}
	if err := s.familyRepo.Delete(ctx, family.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete family: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditFamilyDeleted, map[string]any{
		"familyId":   family.ID,
		"familyName": family.FamilyName,
	})
	return nil
}
