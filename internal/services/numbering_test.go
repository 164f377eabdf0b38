package services

import (
	"testing"

	"github.com/happygreeting/billing-app/internal/models"
)

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		want    string
	}{
		{"empty set starts above the floor", nil, "1405"},
		{"unparseable numbers are ignored", []string{"10", "abc", "1500", ""}, "1501"},
		{"all unparseable falls back to the floor", []string{"abc", "", "x1"}, "1405"},
		{"below-floor numbers do not lower the result", []string{"10", "20"}, "1405"},
		{"whitespace tolerated", []string{" 2000 "}, "2001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invs := make([]models.Invoice, len(tt.numbers))
			for i, n := range tt.numbers {
				invs[i] = models.Invoice{InvoiceNumber: n}
			}
			if got := NextInvoiceNumber(invs); got != tt.want {
				t.Errorf("NextInvoiceNumber(%v) = %s, want %s", tt.numbers, got, tt.want)
			}
		})
	}
}
