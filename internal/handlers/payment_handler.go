package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentLinkService
}

func NewPaymentHandler(s *services.PaymentLinkService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// HandleWebhook processes Razorpay webhook events
// POST /api/payments/webhook
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("[Payments] Failed to read webhook body: %v", err)
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	err = h.Service.HandleWebhook(r.Context(), body, r.Header.Get("X-Razorpay-Signature"))
	switch {
	case errors.Is(err, services.ErrInvalidSignature):
		log.Printf("[Payments] Invalid webhook signature")
		utils.Error(w, http.StatusUnauthorized, "Invalid signature")
		return
	case errors.Is(err, services.ErrMalformedWebhook):
		log.Printf("[Payments] %v", err)
		utils.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	case err != nil:
		// Acknowledge anyway so the gateway does not retry a known failure
		log.Printf("[Payments] Webhook processing error: %v", err)
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
