package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/happygreeting/billing-app/internal/models"
	"github.com/happygreeting/billing-app/internal/services"
)

func newProductHandler(t *testing.T) *ProductHandler {
	t.Helper()
	return NewProductHandler(services.NewProductService(setupTestDB(t)))
}

func TestProductCreateAndList(t *testing.T) {
	h := newProductHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Birthday Card","type":"READYMADE","price":250}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.List(w2, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected 1 product got %d", len(payload.Items))
	}
	if payload.Items[0].Name != "Birthday Card" || payload.Items[0].Price != 250 {
		t.Fatalf("unexpected product: %+v", payload.Items[0])
	}
}

func TestProductCreateValidation(t *testing.T) {
	h := newProductHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"name":"","price":100}`},
		{"negative price", `{"name":"Card","price":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(tt.body)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", w.Code)
			}
		})
	}
}

func TestProductUpdateUnknownIDIsNoop(t *testing.T) {
	h := newProductHandler(t)

	w := httptest.NewRecorder()
	h.Update(w, httptest.NewRequest(http.MethodPost, "/products/update", strings.NewReader(`{"id":42,"name":"Ghost","price":10}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.List(w2, httptest.NewRequest(http.MethodGet, "/products", nil))
	if !strings.Contains(w2.Body.String(), `"total":0`) {
		t.Fatalf("expected catalog unchanged, got %s", w2.Body.String())
	}
}

func TestProductDeleteIdempotent(t *testing.T) {
	h := newProductHandler(t)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Farewell Card","price":250}`)))
	var p models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := 0; i < 2; i++ {
		wd := httptest.NewRecorder()
		h.Delete(wd, httptest.NewRequest(http.MethodPost, "/products/delete?id=1", nil))
		if wd.Code != http.StatusOK {
			t.Fatalf("delete attempt %d: expected 200 got %d", i+1, wd.Code)
		}
	}
}
