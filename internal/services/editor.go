package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/happygreeting/billing-app/internal/models"
	"github.com/happygreeting/billing-app/internal/store"
	"github.com/happygreeting/billing-app/internal/validation"
)

// ValidationError blocks a save. The draft is not mutated and no store write
// happens; the field violations are surfaced to the user.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %v", fields)
}

// ErrItemIndex reports a line item index outside the draft's item list. It is
// a caller bug (precondition violation), not a user-facing condition.
var ErrItemIndex = errors.New("line item index out of range")

// ProductFinder is the read-only catalog view the editor needs.
type ProductFinder interface {
	Find(ctx context.Context, id uint) (models.Product, bool)
}

// InvoiceEditor holds one invoice draft: either a new invoice that has no
// store identifier yet, or a persisted one being edited in place. A draft is
// mutated by a single user session; all operations are synchronous except
// Save, which writes through the store.
type InvoiceEditor struct {
	Invoice  models.Invoice
	products ProductFinder
}

// NewDraft starts a fresh draft: next invoice number computed from the given
// snapshot, today's date, one blank line item, and the issuer's phone, MSME
// number and email copied from settings as creation-time snapshots.
func NewDraft(existing []models.Invoice, settings models.AppSettings, products ProductFinder) *InvoiceEditor {
	return &InvoiceEditor{
		Invoice: models.Invoice{
			InvoiceNumber:     NextInvoiceNumber(existing),
			Date:              time.Now().Format("2006-01-02"),
			OfficeNo:          settings.OfficePhone,
			MsmeNo:            settings.MsmeNo,
			Email:             settings.Email,
			Items:             []models.LineItem{blankItem()},
			ExtraChargesLabel: models.DefaultExtraChargesLabel,
		},
		products: products,
	}
}

// EditorFor wraps a persisted invoice for editing.
func EditorFor(inv models.Invoice, products ProductFinder) *InvoiceEditor {
	return &InvoiceEditor{Invoice: inv, products: products}
}

func blankItem() models.LineItem {
	return models.LineItem{ID: uuid.NewString(), Quantity: 1}
}

// AddItem appends a blank line item (quantity 1, rate 0) with a fresh id.
func (e *InvoiceEditor) AddItem() {
	e.Invoice.Items = append(e.Invoice.Items, blankItem())
}

func (e *InvoiceEditor) itemAt(index int) (*models.LineItem, error) {
	if index < 0 || index >= len(e.Invoice.Items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrItemIndex, index, len(e.Invoice.Items))
	}
	return &e.Invoice.Items[index], nil
}

func (e *InvoiceEditor) SetItemDescription(index int, description string) error {
	it, err := e.itemAt(index)
	if err != nil {
		return err
	}
	it.Description = description
	return nil
}

func (e *InvoiceEditor) SetItemQuantity(index int, quantity float64) error {
	it, err := e.itemAt(index)
	if err != nil {
		return err
	}
	it.Quantity = quantity
	return nil
}

func (e *InvoiceEditor) SetItemRate(index int, rate float64) error {
	it, err := e.itemAt(index)
	if err != nil {
		return err
	}
	it.Rate = rate
	return nil
}

// RemoveItem deletes the item at index, preserving the order of the rest.
// Removing the last remaining item leaves an empty cart; totals become zero.
func (e *InvoiceEditor) RemoveItem(index int) error {
	if _, err := e.itemAt(index); err != nil {
		return err
	}
	e.Invoice.Items = append(e.Invoice.Items[:index], e.Invoice.Items[index+1:]...)
	return nil
}

// SelectProduct fills the item at index from the catalog product: name
// becomes the description, price becomes the rate, and the product id is
// recorded as a weak back-reference. A user-entered quantity is preserved.
// An unknown product id is a no-op.
func (e *InvoiceEditor) SelectProduct(ctx context.Context, index int, productID uint) error {
	it, err := e.itemAt(index)
	if err != nil {
		return err
	}
	p, ok := e.products.Find(ctx, productID)
	if !ok {
		return nil
	}
	it.Description = p.Name
	it.Rate = p.Price
	it.ProductID = p.ID
	return nil
}

// Totals derives the current amounts; valid at any time, including on an
// empty item list.
func (e *InvoiceEditor) Totals() models.Totals {
	return e.Invoice.Totals()
}

// MarkFullyPaid settles the invoice at its total as of now.
func (e *InvoiceEditor) MarkFullyPaid() {
	e.Invoice.AmountPaid = e.Invoice.Totals().Total
}

// Clear resets the cart to a single blank item and zeroes the payment and
// extra-charge fields. Destructive: callers must confirm with the user first.
func (e *InvoiceEditor) Clear() {
	e.Invoice.Items = []models.LineItem{blankItem()}
	e.Invoice.AmountPaid = 0
	e.Invoice.ExtraCharges = 0
	e.Invoice.ExtraChargesLabel = models.DefaultExtraChargesLabel
}

// Save validates the draft, snapshots totalAmount and status, and routes to
// the store: create when the draft has no stable id yet, merge-update
// otherwise. On any error the draft is preserved so the user can retry.
func (e *InvoiceEditor) Save(ctx context.Context, st store.Store) (models.Invoice, error) {
	v := validation.Violations{}
	validation.Required("customerName", e.Invoice.CustomerName, v)
	if !v.Empty() {
		return models.Invoice{}, &ValidationError{Violations: v}
	}

	t := e.Invoice.Totals()
	e.Invoice.TotalAmount = t.Total
	e.Invoice.Status = models.DeriveStatus(t.Total, e.Invoice.AmountPaid)

	if e.Invoice.ID == 0 {
		inv := e.Invoice
		inv.Items = append([]models.LineItem(nil), e.Invoice.Items...)
		if err := st.Create(ctx, &inv); err != nil {
			return models.Invoice{}, err
		}
		e.Invoice.ID = inv.ID
		return inv, nil
	}

	fields := store.Fields{
		"invoice_number":      e.Invoice.InvoiceNumber,
		"date":                e.Invoice.Date,
		"customer_name":       e.Invoice.CustomerName,
		"customer_phone":      e.Invoice.CustomerPhone,
		"address":             e.Invoice.Address,
		"email":               e.Invoice.Email,
		"office_no":           e.Invoice.OfficeNo,
		"msme_no":             e.Invoice.MsmeNo,
		"extra_charges":       e.Invoice.ExtraCharges,
		"extra_charges_label": e.Invoice.ExtraChargesLabel,
		"amount_paid":         e.Invoice.AmountPaid,
		"total_amount":        e.Invoice.TotalAmount,
		"status":              e.Invoice.Status,
		"items":               append([]models.LineItem(nil), e.Invoice.Items...),
	}
	if err := st.Update(ctx, e.Invoice.ID, fields); err != nil {
		return models.Invoice{}, err
	}
	return e.Invoice, nil
}
