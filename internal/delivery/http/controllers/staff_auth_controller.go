package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

// StaffUnlockRequest is the request body for POST /auth/staff.
type StaffUnlockRequest struct {
	OrganizationID string `json:"organizationId"`
	Pin            string `json:"pin"`
}

// Validate implements Validator.
func (c StaffUnlockRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if c.Pin == "" {
		errs = append(errs, "pin is required")
	}
	return errs
}

// StaffTokenData is the data payload returned by POST /auth/staff.
type StaffTokenData struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}

// StaffTokenSuccessResponse is the success response envelope for POST /auth/staff (200).
type StaffTokenSuccessResponse struct {
	Data  *StaffTokenData   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type StaffAuthController struct {
	Logger  *slog.Logger
	Service domain.StaffAuthService
}

func NewStaffAuthController(logger *slog.Logger, svc domain.StaffAuthService) *StaffAuthController {
	return &StaffAuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Unlock godoc
// @Summary Unlock staff screens
// @Description Exchanges the organization's staff PIN for a bearer token used on staff-only endpoints.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body StaffUnlockRequest true "Organization and PIN"
// @Success 200 {object} controllers.StaffTokenSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/staff [post]
func (c *StaffAuthController) Unlock(w http.ResponseWriter, r *http.Request) {
	var req StaffUnlockRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Unlock(r.Context(), strings.TrimSpace(req.OrganizationID), req.Pin)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid organization or PIN")
			return
		}
		writeServiceError(w, r, c.Logger, err, "Organization not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StaffTokenData{Token: token, TokenType: "Bearer"})
}
