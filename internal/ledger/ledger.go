// Package ledger keeps an in-process cash ledger fed by imported
// transactions. It is the boundary collaborator that takes ownership of the
// parser's output records; nothing here is persisted.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/models"
)

// Entry is one applied transaction.
type Entry struct {
	ID          uuid.UUID        `json:"id"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Direction   models.Direction `json:"direction"`
	Category    string           `json:"category"`
	Amount      decimal.Decimal  `json:"amount"`
}

// Ledger tracks a running cash balance. Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	balance decimal.Decimal
	entries []Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{balance: decimal.Zero}
}

// Apply records each transaction and adjusts the balance: income adds,
// expense subtracts. The balance never goes below zero. Transactions with
// an invalid direction or non-positive amount are ignored; the number of
// entries actually applied is returned.
func (l *Ledger) Apply(txns []models.Transaction) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	applied := 0
	for _, t := range txns {
		if !t.Direction.Valid() || !t.Amount.IsPositive() {
			continue
		}

		l.entries = append(l.entries, Entry{
			ID:          uuid.New(),
			Date:        t.Date,
			Description: t.Description,
			Direction:   t.Direction,
			Category:    t.Category,
			Amount:      t.Amount,
		})

		if t.Direction == models.Income {
			l.balance = l.balance.Add(t.Amount)
		} else {
			l.balance = l.balance.Sub(t.Amount)
			if l.balance.IsNegative() {
				l.balance = decimal.Zero
			}
		}
		applied++
	}
	return applied
}

// Balance returns the current cash balance.
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Entries returns a copy of the applied entries in application order.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
