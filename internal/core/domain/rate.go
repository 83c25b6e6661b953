package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// RateEntry is the conversion rate for one currency, expressed as RUB per
// one unit. Exactly one entry exists per ticker; updates replace the whole
// record.
type RateEntry struct {
	Currency   string          `json:"currency"`
	RUB        decimal.Decimal `json:"rub"`
	LastUpdate time.Time       `json:"lastUpdate"`
}

type Rates map[string]RateEntry
