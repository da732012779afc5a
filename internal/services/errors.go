package services

import (
	"errors"

	"invoice-backend/internal/models"
)

var (
	ErrNotFound            = models.ErrNotFound
	ErrInvoiceLimitReached = errors.New("free tier invoice limit reached")
	ErrPaymentsDisabled    = errors.New("online payments are not configured")
	ErrEmailDisabled       = errors.New("email delivery is not configured")
	ErrInvalidStatus       = errors.New("invalid invoice status")
	ErrNoCustomerEmail     = errors.New("invoice has no customer email")
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedWebhook = errors.New("malformed webhook payload")
)
