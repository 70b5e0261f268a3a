package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether a transaction increases or decreases the balance.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Income || d == Expense
}

// Transaction represents one recognized statement transaction.
//
// Amount is always a positive magnitude; Direction encodes credit/debit.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Direction   Direction       `json:"direction"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ParseMethod string          `json:"parseMethod,omitempty"` // debug: which recognizer matched
}
