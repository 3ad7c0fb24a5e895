package checkout

import "github.com/shopspring/decimal"

// Rates are the storefront pricing parameters applied at review time.
type Rates struct {
	// FreeShippingOver waives the shipping fee for item totals strictly
	// above this amount.
	FreeShippingOver decimal.Decimal
	// ShippingFee is the flat fee charged below the threshold.
	ShippingFee decimal.Decimal
	// TaxRate is the fractional rate applied to the item total, e.g. 0.15.
	TaxRate decimal.Decimal
}

// DefaultRates matches the storefront's standing policy: free shipping above
// 100, a flat 10 fee below, and 15% tax on the item total.
func DefaultRates() Rates {
	return Rates{
		FreeShippingOver: decimal.NewFromInt(100),
		ShippingFee:      decimal.NewFromInt(10),
		TaxRate:          decimal.NewFromFloat(0.15),
	}
}

// normalized treats an all-zero value as "unset" and substitutes the
// defaults, so a zero Rates in Deps means "standing policy" rather than
// "everything free".
func (r Rates) normalized() Rates {
	if r.FreeShippingOver.IsZero() && r.ShippingFee.IsZero() && r.TaxRate.IsZero() {
		return DefaultRates()
	}
	return r
}

// Quote is the derived price breakdown shown at review and submitted with
// the order. All components are rounded to two decimal places.
type Quote struct {
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
}

// QuoteFor derives the breakdown from an item total. Shipping is waived only
// when the item total strictly exceeds the threshold; an exactly-at-threshold
// total still pays the fee.
func QuoteFor(itemsPrice decimal.Decimal, rates Rates) Quote {
	rates = rates.normalized()
	items := itemsPrice.Round(2)
	shipping := rates.ShippingFee.Round(2)
	if items.GreaterThan(rates.FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := items.Mul(rates.TaxRate).Round(2)
	return Quote{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    items.Add(shipping).Add(tax).Round(2),
	}
}
