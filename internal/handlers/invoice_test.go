package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/happygreeting/billing-app/internal/models"
)

const invoiceBody = `{
	"customerName": "Priya",
	"date": "2026-08-15",
	"items": [
		{"description": "Ready-made Card", "quantity": 2, "rate": 250},
		{"description": "Design Revision Fee", "quantity": 1, "rate": 50}
	],
	"extraCharges": 0,
	"amountPaid": 300
}`

func TestInvoiceCreateAndList(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(invoiceBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Invoice models.Invoice `json:"invoice"`
		Totals  models.Totals  `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Invoice.ID == 0 {
		t.Fatal("expected store-assigned id")
	}
	if created.Invoice.Status != models.StatusPartial {
		t.Fatalf("status = %s, want PARTIAL", created.Invoice.Status)
	}
	if created.Totals.SubTotal != 550 || created.Totals.BalanceDue != 250 {
		t.Fatalf("unexpected totals: %+v", created.Totals)
	}
	for _, it := range created.Invoice.Items {
		if it.ID == "" {
			t.Fatal("expected generated line item id")
		}
	}

	req2 := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Invoice `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("expected 1 invoice got %d", payload.Total)
	}
	if payload.Items[0].TotalAmount != 550 {
		t.Fatalf("persisted totalAmount = %f, want 550 snapshot", payload.Items[0].TotalAmount)
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	body := `{"customerName": "", "items": [{"quantity": 1, "rate": 100}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "customerName") {
		t.Fatalf("expected customerName violation, got %s", w.Body.String())
	}

	// The store is left unchanged.
	w2 := httptest.NewRecorder()
	h.List(w2, httptest.NewRequest(http.MethodGet, "/invoices", nil))
	if !strings.Contains(w2.Body.String(), `"total":0`) {
		t.Fatalf("expected empty store, got %s", w2.Body.String())
	}
}

func TestInvoiceUpdateNotFound(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/invoices/update?id=999", strings.NewReader(invoiceBody))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestInvoiceDeleteIdempotent(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(invoiceBody)))
	var created struct {
		Invoice models.Invoice `json:"invoice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := 0; i < 2; i++ {
		wd := httptest.NewRecorder()
		h.Delete(wd, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/delete?id=%d", created.Invoice.ID), nil))
		if wd.Code != http.StatusOK {
			t.Fatalf("delete attempt %d: expected 200 got %d", i+1, wd.Code)
		}
	}

	wl := httptest.NewRecorder()
	h.List(wl, httptest.NewRequest(http.MethodGet, "/invoices", nil))
	if !strings.Contains(wl.Body.String(), `"total":0`) {
		t.Fatalf("expected empty list after delete, got %s", wl.Body.String())
	}
}

func TestInvoiceNextNumber(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	w := httptest.NewRecorder()
	h.NextNumber(w, httptest.NewRequest(http.MethodGet, "/invoices/next-number", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"1405"`) {
		t.Fatalf("expected 1405 on empty store, got %s", w.Body.String())
	}
}

func TestInvoiceNewDraftPrefill(t *testing.T) {
	h, _ := newInvoiceHandler(t)

	w := httptest.NewRecorder()
	h.NewDraft(w, httptest.NewRequest(http.MethodGet, "/invoices/new", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var payload struct {
		Invoice models.Invoice `json:"invoice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Invoice.InvoiceNumber != "1405" {
		t.Fatalf("invoiceNumber = %s, want 1405", payload.Invoice.InvoiceNumber)
	}
	// Default settings flow into the draft snapshots.
	if payload.Invoice.OfficeNo == "" || payload.Invoice.MsmeNo == "" {
		t.Fatalf("expected issuer snapshot fields, got %+v", payload.Invoice)
	}
	if len(payload.Invoice.Items) != 1 || payload.Invoice.Items[0].Quantity != 1 {
		t.Fatalf("expected one blank item with quantity 1, got %+v", payload.Invoice.Items)
	}
}
