package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func quoteAt(t *testing.T, items float64) Quote {
	t.Helper()
	return QuoteFor(decimal.NewFromFloat(items), DefaultRates())
}

func TestShippingWaivedAboveThreshold(t *testing.T) {
	q := quoteAt(t, 120)
	if !q.ShippingPrice.IsZero() {
		t.Errorf("ShippingPrice = %s, want 0", q.ShippingPrice)
	}
}

func TestShippingChargedBelowThreshold(t *testing.T) {
	q := quoteAt(t, 40)
	if got := q.ShippingPrice.StringFixed(2); got != "10.00" {
		t.Errorf("ShippingPrice = %s, want 10.00", got)
	}
}

func TestShippingChargedAtExactThreshold(t *testing.T) {
	// "over 100" is strict: a 100.00 cart still pays shipping
	q := quoteAt(t, 100)
	if got := q.ShippingPrice.StringFixed(2); got != "10.00" {
		t.Errorf("ShippingPrice = %s, want 10.00", got)
	}
}

func TestTaxRounding(t *testing.T) {
	q := quoteAt(t, 100)
	if got := q.TaxPrice.StringFixed(2); got != "15.00" {
		t.Errorf("TaxPrice = %s, want 15.00", got)
	}
	// 36.50 * 0.15 = 5.475, rounds to 5.48
	q = quoteAt(t, 36.50)
	if got := q.TaxPrice.StringFixed(2); got != "5.48" {
		t.Errorf("TaxPrice = %s, want 5.48", got)
	}
}

func TestTotalComposition(t *testing.T) {
	q := quoteAt(t, 40)
	want := q.ItemsPrice.Add(q.ShippingPrice).Add(q.TaxPrice)
	if !q.TotalPrice.Equal(want) {
		t.Errorf("TotalPrice = %s, want %s", q.TotalPrice, want)
	}
}

func TestZeroRatesMeanDefaults(t *testing.T) {
	q := QuoteFor(decimal.NewFromInt(40), Rates{})
	if got := q.ShippingPrice.StringFixed(2); got != "10.00" {
		t.Errorf("ShippingPrice = %s, want default policy 10.00", got)
	}
	if got := q.TaxPrice.StringFixed(2); got != "6.00" {
		t.Errorf("TaxPrice = %s, want default policy 6.00", got)
	}
}

func TestCustomRates(t *testing.T) {
	rates := Rates{
		FreeShippingOver: decimal.NewFromInt(50),
		ShippingFee:      decimal.NewFromInt(5),
		TaxRate:          decimal.NewFromFloat(0.20),
	}
	q := QuoteFor(decimal.NewFromInt(60), rates)
	if !q.ShippingPrice.IsZero() {
		t.Errorf("ShippingPrice = %s, want 0 above custom threshold", q.ShippingPrice)
	}
	if got := q.TaxPrice.StringFixed(2); got != "12.00" {
		t.Errorf("TaxPrice = %s, want 12.00", got)
	}
}
