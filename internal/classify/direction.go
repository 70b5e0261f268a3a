package classify

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/models"
)

// Sign is the optional leading sign found on a raw amount token.
type Sign int

const (
	SignNone Sign = iota
	SignPlus
	SignMinus
)

// incomeIndicators are markers that classify an explicit indicator token as
// income. Any other non-empty indicator (DR, DEBIT, Paid, Sent, ...) means
// expense.
var incomeIndicators = []string{"CR", "CREDIT", "RECEIVED", "ADDED"}

// incomeHints are description keywords that suggest money coming in when no
// indicator or sign is present.
var incomeHints = []string{"salary", "credit", "refund", "cashback", "interest"}

// Direction decides income vs. expense for a candidate transaction.
//
// Priority: an explicit indicator token wins; otherwise a leading +/- on the
// amount; otherwise description keywords, then the amount-magnitude
// threshold. Everything else is expense.
func Direction(indicator string, sign Sign, description string, amount, threshold decimal.Decimal) models.Direction {
	if indicator != "" {
		upper := strings.ToUpper(indicator)
		for _, marker := range incomeIndicators {
			if strings.Contains(upper, marker) {
				return models.Income
			}
		}
		return models.Expense
	}

	switch sign {
	case SignPlus:
		return models.Income
	case SignMinus:
		return models.Expense
	}

	lower := strings.ToLower(description)
	for _, hint := range incomeHints {
		if strings.Contains(lower, hint) {
			return models.Income
		}
	}
	if amount.GreaterThan(threshold) {
		return models.Income
	}
	return models.Expense
}
