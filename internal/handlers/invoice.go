package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/happygreeting/billing-app/internal/httpx"
	"github.com/happygreeting/billing-app/internal/models"
	"github.com/happygreeting/billing-app/internal/services"
	"github.com/happygreeting/billing-app/internal/store"
	"github.com/happygreeting/billing-app/internal/validation"
)

type InvoiceHandler struct {
	Store    store.Store
	Products *services.ProductService
	Settings *services.SettingsService
	Log      *logrus.Logger
}

func NewInvoiceHandler(st store.Store, products *services.ProductService, settings *services.SettingsService, log *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{Store: st, Products: products, Settings: settings, Log: log}
}

type lineItemReq struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	ProductID   uint    `json:"productId"`
}

type invoiceReq struct {
	InvoiceNumber     string        `json:"invoiceNumber"`
	Date              string        `json:"date"`
	CustomerName      string        `json:"customerName"`
	CustomerPhone     string        `json:"customerPhone"`
	Address           string        `json:"address"`
	Email             string        `json:"email"`
	OfficeNo          string        `json:"officeNo"`
	MsmeNo            string        `json:"msmeNo"`
	Items             []lineItemReq `json:"items"`
	ExtraCharges      float64       `json:"extraCharges"`
	ExtraChargesLabel string        `json:"extraChargesLabel"`
	AmountPaid        float64       `json:"amountPaid"`
}

func (req invoiceReq) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("customerName", req.CustomerName, v)
	validation.NonNegative("extraCharges", req.ExtraCharges, v)
	validation.NonNegative("amountPaid", req.AmountPaid, v)
	for i, it := range req.Items {
		validation.NonNegative(fmt.Sprintf("items[%d].quantity", i), it.Quantity, v)
		validation.NonNegative(fmt.Sprintf("items[%d].rate", i), it.Rate, v)
	}
	return v
}

func (req invoiceReq) toModel() models.Invoice {
	inv := models.Invoice{
		InvoiceNumber:     req.InvoiceNumber,
		Date:              req.Date,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		Address:           req.Address,
		Email:             req.Email,
		OfficeNo:          req.OfficeNo,
		MsmeNo:            req.MsmeNo,
		ExtraCharges:      req.ExtraCharges,
		ExtraChargesLabel: req.ExtraChargesLabel,
		AmountPaid:        req.AmountPaid,
	}
	if inv.ExtraChargesLabel == "" {
		inv.ExtraChargesLabel = models.DefaultExtraChargesLabel
	}
	for _, it := range req.Items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		inv.Items = append(inv.Items, models.LineItem{
			ID:          id,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			ProductID:   it.ProductID,
		})
	}
	return inv
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": len(invs)})
}

// NewDraft: GET /invoices/new. Returns a fresh draft pre-filled from settings, with
// the next invoice number and today's date. Nothing is persisted.
func (h *InvoiceHandler) NewDraft(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	invs, err := h.Store.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	ed := services.NewDraft(invs, settings, h.Products)
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": ed.Invoice, "totals": ed.Totals()})
}

// NextNumber: GET /invoices/next-number
func (h *InvoiceHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"invoiceNumber": services.NextInvoiceNumber(invs)})
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req invoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	ed := services.EditorFor(req.toModel(), h.Products)
	saved, err := ed.Save(r.Context(), h.Store)
	if err != nil {
		h.saveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"invoice": saved, "totals": saved.Totals()})
}

// Update: POST /invoices/update?id=...
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req invoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv := req.toModel()
	inv.ID = id
	ed := services.EditorFor(inv, h.Products)
	saved, err := ed.Save(r.Context(), h.Store)
	if err != nil {
		h.saveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": saved, "totals": saved.Totals()})
}

// Delete: POST /invoices/delete?id=... Idempotent.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "sync_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Watch: GET /invoices/watch. Server-sent events stream of full invoice
// snapshots: one on connect, then one per change.
func (h *InvoiceHandler) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.JSONError(w, http.StatusInternalServerError, "streaming_unsupported", nil)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Keep only the latest snapshot; stale intermediates are dropped since
	// every event carries the full list.
	updates := make(chan []models.Invoice, 1)
	cancel := h.Store.Subscribe(func(invs []models.Invoice) {
		for {
			select {
			case updates <- invs:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case invs := <-updates:
			payload, err := json.Marshal(map[string]any{"items": invs, "total": len(invs)})
			if err != nil {
				h.Log.WithError(err).Error("watch: encode snapshot failed")
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *InvoiceHandler) saveError(w http.ResponseWriter, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", vErr.Violations)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	h.Log.WithError(err).Error("invoice save failed")
	httpx.JSONError(w, http.StatusInternalServerError, "sync_failed", nil)
}

func idParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}
