package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

const checkoutFailedMsg = "Checkout failed. Please ask a staff member for help."

// RedeemRequest is the request body for POST /checkout.
type RedeemRequest struct {
	OrganizationID    string  `json:"organizationId"`
	PickupCodeID      string  `json:"pickupCodeId"`
	RedeemedByAdultID *string `json:"redeemedByAdultId,omitempty"`
}

// Validate implements Validator.
func (c RedeemRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.OrganizationID) == "" {
		errs = append(errs, "organizationId is required")
	}
	if c.PickupCodeID == "" {
		errs = append(errs, "pickupCodeId is required")
	} else if _, err := uuid.Parse(c.PickupCodeID); err != nil {
		errs = append(errs, "pickupCodeId must be a UUID")
	}
	if c.RedeemedByAdultID != nil {
		if _, err := uuid.Parse(*c.RedeemedByAdultID); err != nil {
			errs = append(errs, "redeemedByAdultId must be a UUID")
		}
	}
	return errs
}

// LookupCodeSuccessResponse is the success response envelope for GET /checkout (200).
type LookupCodeSuccessResponse struct {
	Data  *domain.PickupCodeDetails `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// RedeemSuccessResponse is the success response envelope for POST /checkout (200).
type RedeemSuccessResponse struct {
	Data  *domain.CheckoutResult `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type CheckoutController struct {
	Logger  *slog.Logger
	Service domain.CheckoutService
}

func NewCheckoutController(logger *slog.Logger, svc domain.CheckoutService) *CheckoutController {
	return &CheckoutController{
		Logger:  logger,
		Service: svc,
	}
}

// LookupCode godoc
// @Summary Look up a pickup code
// @Description Finds the unredeemed pickup code for the event and returns it with the youth and the event. The code is matched case-insensitively. Nothing is changed.
// @Tags checkout
// @Produce json
// @Param code query string true "Pickup code, e.g. KQZ"
// @Param eventId query string true "Event ID"
// @Success 200 {object} controllers.LookupCodeSuccessResponse "data contains the code, youthPerson and event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or already_redeemed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkout [get]
func (c *CheckoutController) LookupCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	eventID := strings.TrimSpace(r.URL.Query().Get("eventId"))
	if code == "" || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "code and eventId are required")
		return
	}
	details, err := c.Service.LookupCode(r.Context(), eventID, code)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Pickup code not found", checkoutFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// Redeem godoc
// @Summary Redeem a pickup code
// @Description Marks the pickup code redeemed and checks the youth out. A code can be redeemed once; later attempts get already_redeemed.
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body RedeemRequest true "Redeem data"
// @Success 200 {object} controllers.RedeemSuccessResponse "data contains attendance and pickupCode"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or already_redeemed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkout [post]
func (c *CheckoutController) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Redeem(r.Context(), strings.TrimSpace(req.OrganizationID), req.PickupCodeID, req.RedeemedByAdultID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "Pickup code not found", checkoutFailedMsg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
