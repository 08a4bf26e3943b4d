package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

const familyFailedMsg = "Could not load families. Please try again."

// CreateFamilyRequest is the request body for POST /families.
type CreateFamilyRequest struct {
	OrganizationID string  `json:"organizationId"`
	FamilyName     string  `json:"familyName"`
	PrimaryPhone   string  `json:"primaryPhone"`
	NotifyEmail    *string `json:"notifyEmail,omitempty"`
}

// Validate implements Validator.
func (c CreateFamilyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if strings.TrimSpace(c.FamilyName) == "" {
		errs = append(errs, "familyName is required")
	}
	if strings.TrimSpace(c.PrimaryPhone) == "" {
		errs = append(errs, "primaryPhone is required")
	}
	return errs
}

// AddMemberRequest is the request body for POST /families/{familyID}/members.
type AddMemberRequest struct {
	OrganizationID string `json:"organizationId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Role           string `json:"role"`
}

// Validate implements Validator.
func (c AddMemberRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "firstName is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, "lastName is required")
	}
	if _, ok := domain.ParsePersonRole(c.Role); !ok {
		errs = append(errs, "role must be ADULT or YOUTH")
	}
	return errs
}

// UpdateFamilyRequest is the request body for PATCH /families/{familyID}. Omitted fields are
// left unchanged; an empty notifyEmail clears the address.
type UpdateFamilyRequest struct {
	OrganizationID string  `json:"organizationId"`
	FamilyName     *string `json:"familyName,omitempty"`
	PrimaryPhone   *string `json:"primaryPhone,omitempty"`
	NotifyEmail    *string `json:"notifyEmail,omitempty"`
}

// Validate implements Validator.
func (c UpdateFamilyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if c.FamilyName != nil && strings.TrimSpace(*c.FamilyName) == "" {
		errs = append(errs, "familyName must not be empty")
	}
	if c.FamilyName == nil && c.PrimaryPhone == nil && c.NotifyEmail == nil {
		errs = append(errs, "nothing to update")
	}
	return errs
}

// FamilyListData is the data payload for GET /families.
type FamilyListData struct {
	Families   []*domain.FamilyWithPeople `json:"families"`
	Pagination helpers.PaginationMeta     `json:"pagination"`
}

// FamilyListSuccessResponse is the success response envelope for GET /families (200).
type FamilyListSuccessResponse struct {
	Data  *FamilyListData   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// FamilySuccessResponse is the success response envelope for a single family.
type FamilySuccessResponse struct {
	Data  *domain.FamilyWithPeople `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// PersonSuccessResponse is the success response envelope for POST /families/{familyID}/members (201).
type PersonSuccessResponse struct {
	Data  *domain.Person    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type FamilyController struct {
	Logger  *slog.Logger
	Service domain.FamilyService
	now     func() time.Time
}

func NewFamilyController(logger *slog.Logger, svc domain.FamilyService) *FamilyController {
	return &FamilyController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// Search godoc
// @Summary Search families
// @Description Lists families of the organization with their active members, ordered by family name. phoneLast4 filters on the last 4 digits of the primary phone.
// @Tags families
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param phoneLast4 query string false "Last 4 digits of the primary phone"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.FamilyListSuccessResponse "data.families and data.pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families [get]
func (c *FamilyController) Search(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.URL.Query().Get("organizationId"))
	if orgID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "organizationId is required")
		return
	}
	params := helpers.ParsePagination(r)
	families, total, err := c.Service.Search(r.Context(), orgID, r.URL.Query().Get("phoneLast4"), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", familyFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, FamilyListData{
		Families:   families,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// Get godoc
// @Summary Get a family
// @Description Returns the family with its active members, adults first.
// @Tags families
// @Produce json
// @Param familyID path string true "Family ID"
// @Param organizationId query string true "Organization ID"
// @Success 200 {object} controllers.FamilySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/{familyID} [get]
func (c *FamilyController) Get(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyID")
	orgID := strings.TrimSpace(r.URL.Query().Get("organizationId"))
	if familyID == "" || orgID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "familyID and organizationId are required")
		return
	}
	family, err := c.Service.Get(r.Context(), orgID, familyID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", familyFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, family)
}

// Create godoc
// @Summary Register a family
// @Description Creates a household. The phone is normalized to E.164 and must be unique within the organization. Staff only.
// @Tags families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateFamilyRequest true "Family data"
// @Success 201 {object} controllers.FamilySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families [post]
func (c *FamilyController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if !requireOrganization(w, r, orgID) {
		return
	}
	var email *string
	if req.NotifyEmail != nil && strings.TrimSpace(*req.NotifyEmail) != "" {
		e := strings.TrimSpace(*req.NotifyEmail)
		email = &e
	}
	now := c.now()
	family := domain.NewFamily(orgID, req.FamilyName, req.PrimaryPhone, email, now, now)
	if err := c.Service.Create(r.Context(), family); err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, &domain.FamilyWithPeople{Family: family, People: []*domain.Person{}})
}

// AddMember godoc
// @Summary Add a family member
// @Description Creates an active ADULT or YOUTH member of the family. Staff only.
// @Tags families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param familyID path string true "Family ID"
// @Param body body AddMemberRequest true "Member data"
// @Success 201 {object} controllers.PersonSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/{familyID}/members [post]
func (c *FamilyController) AddMember(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyID")
	if familyID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "familyID is required")
		return
	}
	var req AddMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if !requireOrganization(w, r, orgID) {
		return
	}
	role, _ := domain.ParsePersonRole(req.Role)
	now := c.now()
	person := domain.NewPerson(orgID, &familyID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), role, now, now)
	if err := c.Service.AddMember(r.Context(), orgID, familyID, person); err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, person)
}

// Update godoc
// @Summary Update a family
// @Description Changes the family name, primary phone or notify address. The phone stays unique within the organization. Staff only.
// @Tags families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param familyID path string true "Family ID"
// @Param body body UpdateFamilyRequest true "Fields to change"
// @Success 200 {object} controllers.FamilySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/{familyID} [patch]
func (c *FamilyController) Update(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyID")
	if familyID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "familyID is required")
		return
	}
	var req UpdateFamilyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if !requireOrganization(w, r, orgID) {
		return
	}
	patch := domain.FamilyPatch{FamilyName: req.FamilyName, PrimaryPhone: req.PrimaryPhone, NotifyEmail: req.NotifyEmail}
	family, err := c.Service.Update(r.Context(), orgID, familyID, patch)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, family)
}

// Delete godoc
// @Summary Delete a family
// @Description Removes the household. Its members stay in the organization without a family. Staff only.
// @Tags families
// @Produce json
// @Security BearerAuth
// @Param familyID path string true "Family ID"
// @Param organizationId query string true "Organization ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/{familyID} [delete]
func (c *FamilyController) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyID")
	orgID := strings.TrimSpace(r.URL.Query().Get("organizationId"))
	if familyID == "" || orgID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "familyID and organizationId are required")
		return
	}
	if !requireOrganization(w, r, orgID) {
		return
	}
	if err := c.Service.Delete(r.Context(), orgID, familyID); err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
