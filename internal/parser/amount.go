package parser

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/classify"
)

// glyphStripper removes currency symbols, thousands separators and stray
// whitespace (including the non-breaking space PDF extraction leaves behind)
// from a raw amount token.
var glyphStripper = strings.NewReplacer(
	"₹", "",
	"£", "",
	"$", "",
	"€", "",
	",", "",
	" ", "",
	" ", "",
)

// parseAmount normalizes a raw amount token into a positive magnitude and a
// sign hint for the direction classifier. A zero or non-numeric amount is an
// error: the candidate carrying it is discarded, never emitted.
func parseAmount(tok string) (decimal.Decimal, classify.Sign, error) {
	tok = strings.TrimSpace(tok)

	sign := classify.SignNone
	switch {
	case strings.HasPrefix(tok, "+"):
		sign = classify.SignPlus
		tok = tok[1:]
	case strings.HasPrefix(tok, "-"):
		sign = classify.SignMinus
		tok = tok[1:]
	}

	cleaned := glyphStripper.Replace(tok)
	if cleaned == "" {
		return decimal.Zero, sign, errors.New("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, sign, err
	}
	if d.IsZero() {
		return decimal.Zero, sign, errors.New("zero amount")
	}
	return d.Abs(), sign, nil
}
