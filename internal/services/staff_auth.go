package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"familycheckin/internal/domain"
)

type staffAuthService struct {
	orgRepo        domain.OrganizationRepository
	hasher         domain.PinHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewStaffAuthService creates a StaffAuthService that exchanges the organization's PIN for a token.
func NewStaffAuthService(orgRepo domain.OrganizationRepository, hasher domain.PinHasher, tokenIssuer domain.TokenIssuer, tokenExpiry, timeout time.Duration) domain.StaffAuthService {
	return &staffAuthService{
		orgRepo:        orgRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *staffAuthService) Unlock(ctx context.Context, organizationID, pin string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizationID == "" || pin == "" {
		return "", fmt.Errorf("%w: organizationId and pin are required", domain.ErrInvalidInput)
	}
	org, err := s.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		// Unknown organizations look the same as a wrong PIN.
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("get organization: %w", err)
	}
	if org.StaffPinHash == "" {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(org.StaffPinHash, pin); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.tokenIssuer.Issue(org.ID, domain.StaffRole, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
