package models

import "time"

// InvoiceStatus is the three-way payment status of an invoice.
type InvoiceStatus string

const (
	StatusPaid    InvoiceStatus = "PAID"
	StatusPartial InvoiceStatus = "PARTIAL"
	StatusUnpaid  InvoiceStatus = "UNPAID"
)

// DefaultExtraChargesLabel is used when the user has not renamed the
// extra-charges row (e.g. to "Design Fee").
const DefaultExtraChargesLabel = "Extra Charges"

// LineItem is one billable row inside an invoice. The ID is generated
// client-side when the row is added and stays stable across edits; it only
// needs to be unique within the owning invoice.
type LineItem struct {
	ID          string  `gorm:"primaryKey;size:40" json:"id"`
	InvoiceID   uint    `gorm:"index" json:"-"`
	Description string  `json:"description"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	Rate        float64 `gorm:"not null;default:0" json:"rate"`
	// Weak back-reference to the catalog product this row was filled from.
	// Deleting the product does not retract the copied values.
	ProductID uint `gorm:"default:0" json:"productId,omitempty"`
	Position  int  `gorm:"not null;default:0" json:"-"`
}

// Total returns quantity × rate for this row.
func (li LineItem) Total() float64 { return li.Quantity * li.Rate }

// Invoice is the aggregate root: an ordered list of line items plus
// charges and payment fields. TotalAmount and Status are snapshots taken at
// last save for fast listing; any reader that needs current values must go
// through Totals / DeriveStatus instead.
type Invoice struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	InvoiceNumber string     `gorm:"size:40;index" json:"invoiceNumber"`
	Date          string     `gorm:"size:10" json:"date"` // ISO calendar date, YYYY-MM-DD
	CustomerName  string     `gorm:"not null" json:"customerName"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	Address       string     `json:"address,omitempty"`
	Email         string     `json:"email,omitempty"`
	OfficeNo      string     `json:"officeNo,omitempty"` // issuer phone, snapshotted at creation
	MsmeNo        string     `json:"msmeNo,omitempty"`   // issuer MSME registration, snapshotted at creation
	Items         []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	ExtraCharges  float64    `gorm:"not null;default:0" json:"extraCharges"`
	// Display label for the extra-charges row.
	ExtraChargesLabel string        `gorm:"size:100;default:'Extra Charges'" json:"extraChargesLabel"`
	AmountPaid        float64       `gorm:"not null;default:0" json:"amountPaid"`
	TotalAmount       float64       `gorm:"not null;default:0" json:"totalAmount"`
	Status            InvoiceStatus `gorm:"size:10;not null;default:'UNPAID'" json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"-"`
}

// Totals bundles the derived amounts consumers (list view, editor, printed
// document) must read instead of recomputing on their own.
type Totals struct {
	SubTotal   float64 `json:"subTotal"`
	Total      float64 `json:"total"`
	BalanceDue float64 `json:"balanceDue"`
}

// SubTotal sums quantity × rate over all items. An empty item list yields 0.
func (inv Invoice) SubTotal() float64 {
	var sum float64
	for _, it := range inv.Items {
		sum += it.Total()
	}
	return sum
}

// Totals computes the derived amounts from the current items, extra charges
// and payment. BalanceDue is not clamped and goes negative on overpayment.
func (inv Invoice) Totals() Totals {
	sub := inv.SubTotal()
	total := sub + inv.ExtraCharges
	return Totals{
		SubTotal:   sub,
		Total:      total,
		BalanceDue: total - inv.AmountPaid,
	}
}

// DeriveStatus implements the payment status rule. Equality resolves to PAID,
// deliberately including total == amountPaid == 0: an empty invoice with
// nothing paid reports PAID, matching the historical behaviour billing
// reports depend on.
func DeriveStatus(total, amountPaid float64) InvoiceStatus {
	switch {
	case amountPaid >= total:
		return StatusPaid
	case amountPaid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}
