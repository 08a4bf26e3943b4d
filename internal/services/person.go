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

type personService struct {
	personRepo     domain.PersonRepository
	familyRepo     domain.FamilyRepository
	audit          domain.AuditLog
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewPersonService(personRepo domain.PersonRepository, familyRepo domain.FamilyRepository, audit domain.AuditLog, logger *slog.Logger, timeout time.Duration) domain.PersonService {
	return &personService{
		personRepo:     personRepo,
		familyRepo:     familyRepo,
		audit:          audit,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *personService) List(ctx context.Context, organizationID string, role domain.PersonRole) ([]*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizationID == "" {
		return nil, fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
	}
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: role must be ADULT or YOUTH", domain.ErrInvalidInput)
	}
	people, err := s.personRepo.List(ctx, organizationID, role)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

func (s *personService) Create(ctx context.Context, p *domain.Person) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if p == nil || p.OrganizationID == "" {
		return fmt.Errorf("%w: organizationId is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: firstName and lastName are required", domain.ErrInvalidInput)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: role must be ADULT or YOUTH", domain.ErrInvalidInput)
	}
	if p.FamilyID != nil {
		family, err := s.familyRepo.GetByID(ctx, *p.FamilyID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get family: %w", err)
		}
		if family.OrganizationID != p.OrganizationID {
			return domain.ErrNotFound
		}
	}

	p.Active = true
	if err := s.personRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, p.OrganizationID, domain.AuditPersonCreated, map[string]any{
		"personId":  p.ID,
		"familyId":  p.FamilyID,
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"role":      p.Role,
	})
	return nil
}
