package port

import (
	"github.com/govalues/decimal"

	"github.com/sberbits/exchange/internal/core/domain"
)

// RateTable holds the current currency→RUB conversion rates with the
// operator markup.
type RateTable interface {
	// Rates returns a snapshot of the full ticker → entry mapping.
	Rates() domain.Rates

	// UpdateRate replaces the entry for currency with a fresh timestamp and
	// pushes the updated mapping to live subscribers.
	UpdateRate(currency string, rub decimal.Decimal)

	// RateValue computes a directional quote with markup. RUB→crypto yields
	// 1/(rub*(1+markup%)), crypto→RUB yields rub*(1+markup%). Any other pair
	// or an unknown ticker yields zero, which callers must check for.
	RateValue(from, to string) decimal.Decimal

	// Quote computes the payout amount for amount rubles of ticker at the
	// raw rate, rendered with 8 decimal places. Unknown ticker yields "0".
	Quote(amount decimal.Decimal, ticker string) string

	// Subscribe registers a live listener for rate updates. The cancel
	// function unregisters it and closes the channel.
	Subscribe() (<-chan domain.Rates, func())
}
