package handlers

import (
	"net/http"
	"time"

	"github.com/happygreeting/billing-app/internal/httpx"
	"github.com/happygreeting/billing-app/internal/store"
)

type DashboardHandler struct {
	Store store.Store
}

func NewDashboardHandler(st store.Store) *DashboardHandler {
	return &DashboardHandler{Store: st}
}

type monthlySales struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Summary: GET /dashboard/summary. Revenue/outstanding figures and monthly
// sales, all derived through the invoice model so the dashboard can never
// drift from the editor.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}

	var totalRevenue, outstanding float64
	byMonth := map[string]float64{}
	var order []string
	for _, inv := range invs {
		sub := inv.SubTotal()
		totalRevenue += sub
		outstanding += sub - inv.AmountPaid
		// Invoices with unparseable dates still count toward the totals,
		// they just drop out of the monthly series.
		d, perr := time.Parse("2006-01-02", inv.Date)
		if perr != nil {
			continue
		}
		key := d.Format("Jan 2006")
		if _, seen := byMonth[key]; !seen {
			order = append(order, key)
		}
		byMonth[key] += sub
	}

	monthly := make([]monthlySales, 0, len(order))
	for _, key := range order {
		monthly = append(monthly, monthlySales{Month: key, Amount: byMonth[key]})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"totalRevenue": totalRevenue,
		"outstanding":  outstanding,
		"invoiceCount": len(invs),
		"monthlySales": monthly,
	})
}
