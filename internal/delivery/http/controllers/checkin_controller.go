package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

const checkInFailedMsg = "Check-in failed. Please ask a staff member for help."

// CheckInRequest is the request body for POST /checkin. eventTitle and eventLocation are sent
// when the event comes from the organization's calendar feed.
type CheckInRequest struct {
	OrganizationID string `json:"organizationId"`
	EventID        string `json:"eventId"`
	PersonID       string `json:"personId"`
	EventTitle     string `json:"eventTitle,omitempty"`
	EventLocation  string `json:"eventLocation,omitempty"`
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if strings.TrimSpace(c.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	if strings.TrimSpace(c.PersonID) == "" {
		errs = append(errs, "personId is required")
	}
	return errs
}

// CheckInSuccessResponse is the success response envelope for POST /checkin (201).
type CheckInSuccessResponse struct {
	Data  *domain.CheckInResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CheckInStatusSuccessResponse is the success response envelope for GET /checkin/status (200).
type CheckInStatusSuccessResponse struct {
	Data  *domain.CheckInStatus `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.CheckInService
}

func NewCheckInController(logger *slog.Logger, svc domain.CheckInService) *CheckInController {
	return &CheckInController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckIn godoc
// @Summary Check a person into an event
// @Description Records CHECKED_IN attendance for the person. Youth also receive a 3-letter pickup code; checking in again returns the same code until it is redeemed. A missing event is created from eventId (and eventTitle/eventLocation when given).
// @Tags checkin
// @Accept json
// @Produce json
// @Param body body CheckInRequest true "Check-in data"
// @Success 201 {object} controllers.CheckInSuccessResponse "data contains attendance and pickupCode (null for adults)"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkin [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.CheckIn(r.Context(), domain.CheckInRequest{
		OrganizationID: strings.TrimSpace(req.OrganizationID),
		PersonID:       strings.TrimSpace(req.PersonID),
		Event:          domain.NewEventRef(req.EventID, req.EventTitle, req.EventLocation),
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Person or event not found", checkInFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Status godoc
// @Summary Family check-in status for an event
// @Description Returns the attendance status of each active family member that has checked into the event. Members without attendance are omitted.
// @Tags checkin
// @Produce json
// @Param organizationId query string true "Organization ID"
// @Param eventId query string true "Event ID"
// @Param familyId query string true "Family ID"
// @Success 200 {object} controllers.CheckInStatusSuccessResponse "data.checkedInStatus maps personId to status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkin/status [get]
func (c *CheckInController) Status(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orgID, eventID, familyID := q.Get("organizationId"), q.Get("eventId"), q.Get("familyId")
	if orgID == "" || eventID == "" || familyID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "organizationId, eventId and familyId are required")
		return
	}
	status, err := c.Service.Status(r.Context(), orgID, eventID, familyID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Family not found", checkInFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
