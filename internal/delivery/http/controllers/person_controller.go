package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

// CreatePersonRequest is the request body for POST /people. familyId is optional.
type CreatePersonRequest struct {
	OrganizationID string  `json:"organizationId"`
	FamilyID       *string `json:"familyId,omitempty"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Role           string  `json:"role"`
}

// Validate implements Validator.
func (c CreatePersonRequest) Validate() []string {
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

// PersonListSuccessResponse is the success response envelope for GET /people (200).
type PersonListSuccessResponse struct {
	Data  []*domain.Person  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type PersonController struct {
	Logger  *slog.Logger
	Service domain.PersonService
	now     func() time.Time
}

func NewPersonController(logger *slog.Logger, svc domain.PersonService) *PersonController {
	return &PersonController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// List godoc
// @Summary List people
// @Description Lists everyone in the organization, including inactive people, ordered by first name. Staff only.
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param organizationId query string true "Organization ID"
// @Param role query string false "ADULT or YOUTH"
// @Success 200 {object} controllers.PersonListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /people [get]
func (c *PersonController) List(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimSpace(r.URL.Query().Get("organizationId"))
	if orgID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "organizationId is required")
		return
	}
	if !requireOrganization(w, r, orgID) {
		return
	}
	var role domain.PersonRole
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, ok := domain.ParsePersonRole(raw)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "role must be ADULT or YOUTH")
			return
		}
		role = parsed
	}
	people, err := c.Service.List(r.Context(), orgID, role)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Person not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, people)
}

// Create godoc
// @Summary Add a person
// @Description Creates an active ADULT or YOUTH, optionally inside a family of the same organization. Staff only.
// @Tags people
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePersonRequest true "Person data"
// @Success 201 {object} controllers.PersonSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /people [post]
func (c *PersonController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if !requireOrganization(w, r, orgID) {
		return
	}
	var familyID *string
	if req.FamilyID != nil && strings.TrimSpace(*req.FamilyID) != "" {
		id := strings.TrimSpace(*req.FamilyID)
		familyID = &id
	}
	role, _ := domain.ParsePersonRole(req.Role)
	now := c.now()
	person := domain.NewPerson(orgID, familyID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), role, now, now)
	if err := c.Service.Create(r.Context(), person); err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, person)
}
