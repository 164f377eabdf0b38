package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/happygreeting/billing-app/internal/httpx"
	"github.com/happygreeting/billing-app/internal/models"
	"github.com/happygreeting/billing-app/internal/services"
	"github.com/happygreeting/billing-app/internal/validation"
)

type SettingsHandler struct {
	Svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Svc: svc}
}

// Get: GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.Get(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// Put: PUT /settings. The whole profile is replaced on every save.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var in models.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("companyName", in.CompanyName, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Svc.Save(r.Context(), in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}
