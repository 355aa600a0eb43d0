package models

import (
	"math"

	"github.com/Rhymond/go-money"
)

// PriceUnavailable is shown for free or unpriced items.
const PriceUnavailable = "—"

// FormatPrice renders a catalog price in US dollars, e.g. "$1.29".
func FormatPrice(price float64) string {
	if price <= 0 {
		return PriceUnavailable
	}
	cents := int64(math.Round(price * 100))
	return money.New(cents, money.USD).Display()
}
