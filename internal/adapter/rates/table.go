// Package rates holds the in-memory currency→RUB rate table with the
// operator markup. Markup is server-side only: posted quotes already embed
// the margin.
package rates

import (
	"sync"
	"time"

	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
)

const rub = "RUB"

// subscriberBuffer bounds the per-listener queue; a listener that cannot
// keep up loses updates instead of blocking the table.
const subscriberBuffer = 4

type Table struct {
	mu      sync.RWMutex
	entries map[string]domain.RateEntry
	markup  map[string]decimal.Decimal
	// defaultMarkup applies to currencies without an explicit percentage.
	defaultMarkup decimal.Decimal

	subs    map[int]chan domain.Rates
	nextSub int

	logger *zap.Logger
}

// NewTable seeds the table with the operator's starting rates and markup
// percentages.
func NewTable(logger *zap.Logger) *Table {
	t := &Table{
		entries: make(map[string]domain.RateEntry),
		markup: map[string]decimal.Decimal{
			"BTC":  decimal.MustParse("2"),
			"ETH":  decimal.MustParse("2.5"),
			"USDT": decimal.MustParse("1.5"),
		},
		defaultMarkup: decimal.MustParse("2"),
		subs:          make(map[int]chan domain.Rates),
		logger:        logger,
	}

	t.UpdateRate("BTC", decimal.MustParse("10683297"))
	t.UpdateRate("ETH", decimal.MustParse("395453"))
	t.UpdateRate("USDT", decimal.MustParse("97.5"))
	return t
}

// Rates returns a snapshot of the current mapping.
func (t *Table) Rates() domain.Rates {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() domain.Rates {
	snapshot := make(domain.Rates, len(t.entries))
	for k, v := range t.entries {
		snapshot[k] = v
	}
	return snapshot
}

// UpdateRate replaces the entry for currency with a fresh timestamp and
// pushes the full updated mapping to live subscribers. Delivery to one
// subscriber never blocks the caller or the other subscribers.
func (t *Table) UpdateRate(currency string, rubPrice decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[currency] = domain.RateEntry{
		Currency:   currency,
		RUB:        rubPrice,
		LastUpdate: time.Now(),
	}
	snapshot := t.snapshotLocked()

	// The sends stay under the lock: cancel closes channels under the same
	// lock, so a channel can never be closed mid-broadcast. Each send is
	// non-blocking, a full subscriber buffer drops the update.
	for _, ch := range t.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Subscribe registers a live listener for rate updates. The returned cancel
// function unregisters it and closes the channel.
func (t *Table) Subscribe() (<-chan domain.Rates, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan domain.Rates, subscriberBuffer)
	t.subs[id] = ch

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// RateValue computes a directional quote with markup. Unsupported pairs and
// unknown tickers yield zero.
func (t *Table) RateValue(from, to string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch {
	case from == rub:
		entry, ok := t.entries[to]
		if !ok {
			return decimal.Zero
		}
		marked, err := t.withMarkupLocked(entry)
		if err == nil {
			value, qerr := decimal.One.Quo(marked)
			if qerr == nil {
				return value
			}
			err = qerr
		}
		t.logger.Error("rate math error", zap.String("currency", to), zap.Error(err))
		return decimal.Zero
	case to == rub:
		entry, ok := t.entries[from]
		if !ok {
			return decimal.Zero
		}
		marked, err := t.withMarkupLocked(entry)
		if err != nil {
			t.logger.Error("rate math error", zap.String("currency", from), zap.Error(err))
			return decimal.Zero
		}
		return marked
	}
	return decimal.Zero
}

func (t *Table) withMarkupLocked(entry domain.RateEntry) (decimal.Decimal, error) {
	markup, ok := t.markup[entry.Currency]
	if !ok {
		markup = t.defaultMarkup
	}
	pct, err := markup.Quo(decimal.Hundred)
	if err != nil {
		return decimal.Zero, err
	}
	factor, err := decimal.One.Add(pct)
	if err != nil {
		return decimal.Zero, err
	}
	return entry.RUB.Mul(factor)
}

// Quote computes the payout for amount rubles of ticker at the raw rate,
// rendered with 8 decimal places. Unknown ticker yields "0".
func (t *Table) Quote(amount decimal.Decimal, ticker string) string {
	t.mu.RLock()
	entry, ok := t.entries[ticker]
	t.mu.RUnlock()

	if !ok || entry.RUB.IsZero() {
		return "0"
	}
	value, err := amount.Quo(entry.RUB)
	if err != nil {
		t.logger.Error("quote math error", zap.String("currency", ticker), zap.Error(err))
		return "0"
	}
	return value.Round(8).Pad(8).String()
}
