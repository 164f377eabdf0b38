package services

import (
	"strconv"
	"strings"

	"github.com/happygreeting/billing-app/internal/models"
)

// invoiceNumberFloor is the baseline for numbering: on an empty invoice set
// the first number issued is 1405.
const invoiceNumberFloor = 1404

// NextInvoiceNumber proposes the number for a new draft by scanning the
// given snapshot. Invoice numbers that do not parse as integers are ignored.
//
// The number is computed from a snapshot, not reserved atomically: two
// near-simultaneous drafts on different sessions can propose the same value.
// That is accepted; invoice identity is the store-assigned id, the number
// is the human-facing label.
func NextInvoiceNumber(invoices []models.Invoice) string {
	max := invoiceNumberFloor
	for _, inv := range invoices {
		if n, err := strconv.Atoi(strings.TrimSpace(inv.InvoiceNumber)); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
