package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/delivery/http/middleware"
	"familycheckin/internal/domain"
)

// writeServiceError maps domain sentinel errors to the API error envelope. Unmapped errors are
// logged and returned as 500; when internalMsg is empty the error text is echoed (staff screens),
// otherwise internalMsg replaces it (kiosk screens).
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg, internalMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeAlreadyRedeemed, "Code already redeemed")
	case errors.Is(err, domain.ErrDuplicatePhone):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a family with this phone number already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method,
			"request_id", middleware.RequestIDFromContext(r.Context()), "err", err)
		msg := internalMsg
		if msg == "" {
			msg = err.Error()
		}
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, msg)
	}
}

// requireOrganization writes 401 or 403 unless the staff session may act for organizationID.
func requireOrganization(w http.ResponseWriter, r *http.Request, organizationID string) bool {
	if _, ok := middleware.StaffClaimsFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return false
	}
	if !middleware.CanActFor(r.Context(), organizationID) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "token does not belong to this organization")
		return false
	}
	return true
}
