package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"invoice-backend/internal/models"
	"invoice-backend/internal/services"
	"invoice-backend/internal/timeutil"
	"invoice-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Service  *services.InvoiceService
	Payments *services.PaymentLinkService
	Delivery *services.DeliveryService
}

func NewInvoiceHandler(s *services.InvoiceService, payments *services.PaymentLinkService, delivery *services.DeliveryService) *InvoiceHandler {
	return &InvoiceHandler{Service: s, Payments: payments, Delivery: delivery}
}

// CreateInvoice - POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, invoice)
}

// GetInvoice - GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoice, err := h.Service.GetInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

// ListInvoices - GET /api/invoices?status=&customer_id=&from=&to=&limit=&offset=
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.InvoiceFilter{
		Status:     models.InvoiceStatus(q.Get("status")),
		CustomerID: q.Get("customer_id"),
		Limit:      50,
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	if from := q.Get("from"); from != "" {
		t, err := timeutil.ParseDate(from, nil)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := timeutil.ParseDate(to, nil)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.To = t
	}

	invoices, err := h.Service.ListInvoices(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	utils.JSON(w, http.StatusOK, invoices)
}

// UpdateStatus - PATCH /api/invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateInvoiceStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Service.UpdateStatus(r.Context(), userID, id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

// DeleteInvoice - DELETE /api/invoices/{id}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteInvoice(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLimit - GET /api/invoices/limit
func (h *InvoiceHandler) GetLimit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	decision, err := h.Service.CheckLimit(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, decision)
}

// CreatePaymentLink - POST /api/invoices/{id}/payment-link
func (h *InvoiceHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resp, err := h.Payments.CreatePaymentLink(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

// SendInvoice - POST /api/invoices/{id}/send
func (h *InvoiceHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.Delivery.SendInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// DownloadPDF - GET /api/invoices/{id}/pdf
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	data, invoice, err := h.Delivery.RenderInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceNumber))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
