package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/delivery/http/middleware"
	"familycheckin/internal/domain"
)

// EventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type EventSuccessResponse struct {
	Data  *domain.EventWithCounts `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventDetailSuccessResponse is the success response envelope for POST and PATCH /events.
type EventDetailSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEventRequest is the request body for POST /events. Times are RFC 3339.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartsAt == nil {
		errs = append(errs, "startsAt is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted fields are
// left unchanged; clearEndsAt removes the end time.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	ClearEndsAt bool       `json:"clearEndsAt,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Validate implements Validator.
func (c UpdateEventRequest) Validate() []string {
	var errs []string
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if c.Status != nil {
		if _, ok := domain.ParseEventStatus(*c.Status); !ok {
			errs = append(errs, "status must be DRAFT, ACTIVE, COMPLETED or CANCELLED")
		}
	}
	if c.ClearEndsAt && c.EndsAt != nil {
		errs = append(errs, "endsAt and clearEndsAt are mutually exclusive")
	}
	return errs
}

func (c UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		ClearEndsAt: c.ClearEndsAt,
	}
	if c.Status != nil {
		status, _ := domain.ParseEventStatus(*c.Status)
		p.Status = &status
	}
	return p
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	now     func() time.Time
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Lists the organization's events, newest start first. Staff only; the organization is taken from the token.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "DRAFT, ACTIVE, COMPLETED or CANCELLED"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var status domain.EventStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := domain.ParseEventStatus(raw)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be DRAFT, ACTIVE, COMPLETED or CANCELLED")
			return
		}
		status = parsed
	}
	events, err := c.Service.ListEvents(r.Context(), claims.OrganizationID, status)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Event not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Schedule an event
// @Description Creates a DRAFT event. Staff only; the organization is taken from the token.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(claims.OrganizationID, req.Title, req.Description, req.Location, *req.StartsAt, req.EndsAt, c.now())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(w, r, c.Logger, err, "Event not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Changes the given fields of the event. Staff only; the organization is taken from the token.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventDetailSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID is required")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), claims.OrganizationID, eventID, req.patch())
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Event not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with the number of attendance rows and pickup codes that reference it. Staff only; the organization is taken from the token.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID is required")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), claims.OrganizationID, eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Event not found", "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event together with its attendance rows and pickup codes. Staff only; the organization is taken from the token.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.StaffClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID is required")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), claims.OrganizationID, eventID); err != nil {
		writeServiceError(w, r, c.Logger, err, "Event not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
