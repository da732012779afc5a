package models

import "errors"

// ErrNotFound is returned by stores when a row does not exist for the tenant
var ErrNotFound = errors.New("not found")

// ErrQuotaExhausted is returned by InvoiceRepository.Create when the profile
// has no invoice left under its quota; nothing is written in that case
var ErrQuotaExhausted = errors.New("invoice quota exhausted")
