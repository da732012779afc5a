package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"invoice-backend/internal/billing"
	"invoice-backend/internal/middleware"
	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// currentUser returns the authenticated user id or writes a 401
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

// decodeJSON reads a bounded request body into dst or writes a 400
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	var ve *billing.ValidationError
	var le *services.LimitError
	switch {
	case errors.As(err, &ve):
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: ve.Error(), Field: ve.Field})
	case errors.As(err, &le):
		utils.JSON(w, http.StatusPaymentRequired, map[string]any{
			"error":    le.Error(),
			"decision": le.Decision,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoCustomerEmail):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrPaymentsDisabled),
		errors.Is(err, services.ErrEmailDisabled):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[HTTP] internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
