package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

// UpdateSettingsRequest is the request body for PUT /settings.
type UpdateSettingsRequest struct {
	OrganizationID      string `json:"organizationId"`
	CheckInGraceMinutes *int   `json:"checkInGraceMinutes"`
}

// Validate implements Validator.
func (c UpdateSettingsRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if c.CheckInGraceMinutes == nil {
		errs = append(errs, "checkInGraceMinutes is required")
	}
	return errs
}

// SettingsSuccessResponse is the success response envelope for /settings (200).
type SettingsSuccessResponse struct {
	Data  *domain.Settings  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SettingsController struct {
	Logger  *slog.Logger
	Service domain.SettingsService
}

func NewSettingsController(logger *slog.Logger, svc domain.SettingsService) *SettingsController {
	return &SettingsController{
		Logger:  logger,
		Service: svc,
	}
}

// GetSettings godoc
// @Summary Get organization settings
// @Tags settings
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings [get]
func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.URL.Query().Get("organizationId"))
	if orgID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "organizationId is required")
		return
	}
	settings, err := c.Service.Get(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Organization not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update organization settings
// @Description Sets the check-in grace window in minutes (0 to 120). Staff only.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateSettingsRequest true "Settings"
// @Success 200 {object} controllers.SettingsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /settings [put]
func (c *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if !requireOrganization(w, r, orgID) {
		return
	}
	settings, err := c.Service.Update(r.Context(), orgID, domain.Settings{CheckInGraceMinutes: *req.CheckInGraceMinutes})
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Organization not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, settings)
}
