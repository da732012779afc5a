package handlers

import (
	"net/http"

	"invoice-backend/internal/branding"
	"invoice-backend/internal/models"
	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

type TemplateSettingsHandler struct {
	Service *services.TemplateService
}

func NewTemplateSettingsHandler(s *services.TemplateService) *TemplateSettingsHandler {
	return &TemplateSettingsHandler{Service: s}
}

// Get - GET /api/settings/template
func (h *TemplateSettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Save - PUT /api/settings/template
// The body is decoded loosely; anything the resolver cannot use falls back to defaults.
func (h *TemplateSettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var raw branding.RawSettings
	if !decodeJSON(w, r, &raw) {
		return
	}

	resp, err := h.Service.Save(r.Context(), userID, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Switch - POST /api/settings/template/switch
func (h *TemplateSettingsHandler) Switch(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.SwitchTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Service.SwitchTemplate(r.Context(), userID, req.Template)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
