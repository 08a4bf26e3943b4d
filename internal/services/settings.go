package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"familycheckin/internal/domain"
)

type settingsService struct {
	orgRepo        domain.OrganizationRepository
	audit          domain.AuditLog
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSettingsService(orgRepo domain.OrganizationRepository, audit domain.AuditLog, logger *slog.Logger, timeout time.Duration) domain.SettingsService {
	return &settingsService{orgRepo: orgRepo, audit: audit, logger: logger, contextTimeout: timeout}
}

func (s *settingsService) Get(ctx context.Context, organizationID string) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &domain.Settings{CheckInGraceMinutes: org.CheckInGraceMinutes}, nil
}

func (s *settingsService) Update(ctx context.Context, organizationID string, settings domain.Settings) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if settings.CheckInGraceMinutes < domain.MinCheckInGraceMinutes || settings.CheckInGraceMinutes > domain.MaxCheckInGraceMinutes {
		return nil, fmt.Errorf("%w: checkInGraceMinutes must be between %d and %d",
			domain.ErrInvalidInput, domain.MinCheckInGraceMinutes, domain.MaxCheckInGraceMinutes)
	}
	org, err := s.orgRepo.UpdateGraceMinutes(ctx, organizationID, settings.CheckInGraceMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}
	recordAudit(ctx, s.audit, s.logger, organizationID, domain.AuditSettingsSaved, settings)
	return &domain.Settings{CheckInGraceMinutes: org.CheckInGraceMinutes}, nil
}
