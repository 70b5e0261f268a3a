package parser

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/classify"
	"github.com/expensetrack/statement-import/internal/models"
)

func testEngine() *Engine {
	return New(log.New(io.Discard))
}

func TestParseCanonicalFixtures(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		direction models.Direction
		amount    string
		category  string
		date      time.Time
		descPart  string
	}{
		{
			name:      "slash date with DR indicator",
			input:     "01/02/2024 Grocery Store 150.00 DR",
			direction: models.Expense,
			amount:    "150.00",
			category:  "Groceries",
			date:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			descPart:  "Grocery Store",
		},
		{
			name:      "iso date with plus sign",
			input:     "2024-02-01 Salary Credit +50000",
			direction: models.Income,
			amount:    "50000",
			category:  "Salary",
			date:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			descPart:  "Salary Credit",
		},
		{
			name:      "three line block with compact detail",
			input:     "Jul 20, 2025\n08:05 pm\nDEBIT₹30Paid to JOGI SUPER STORE",
			direction: models.Expense,
			amount:    "30",
			category:  "Other",
			date:      time.Date(2025, time.July, 20, 20, 5, 0, 0, time.UTC),
			descPart:  "Paid to JOGI SUPER STORE",
		},
		{
			name:      "dash date reads day first",
			input:     "15-06-2024 Fuel Station 500",
			direction: models.Expense,
			amount:    "500",
			category:  "Transportation",
			date:      time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
			descPart:  "Fuel Station",
		},
		{
			name:      "tabular wallet row",
			input:     "Jul 20, 2025 Paid to JOGI SUPER STORE DEBIT ₹190",
			direction: models.Expense,
			amount:    "190",
			category:  "Other",
			date:      time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
			descPart:  "Paid to JOGI SUPER STORE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := testEngine().Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(report.Transactions) != 1 {
				t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
			}

			txn := report.Transactions[0]
			if txn.Direction != tt.direction {
				t.Errorf("direction = %q, want %q", txn.Direction, tt.direction)
			}
			if want := decimal.RequireFromString(tt.amount); !txn.Amount.Equal(want) {
				t.Errorf("amount = %s, want %s", txn.Amount, want)
			}
			if txn.Category != tt.category {
				t.Errorf("category = %q, want %q", txn.Category, tt.category)
			}
			if !txn.Date.Equal(tt.date) {
				t.Errorf("date = %v, want %v", txn.Date, tt.date)
			}
			if !strings.Contains(txn.Description, tt.descPart) {
				t.Errorf("description %q does not contain %q", txn.Description, tt.descPart)
			}
		})
	}
}

func TestParseZeroAmountDiscarded(t *testing.T) {
	report, err := testEngine().Parse("01/02/2024 Test Merchant 0")
	if !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
	if len(report.Transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(report.Transactions))
	}
	if report.SkippedLines != report.TotalLines {
		t.Errorf("all lines should be skipped: skipped=%d total=%d", report.SkippedLines, report.TotalLines)
	}
}

func TestParseNoiseOnly(t *testing.T) {
	text := strings.Join([]string{
		"PhonePe Statement",
		"Account Holder: Someone",
		"Page 1 of 3",
		"This is a system generated statement",
		"",
		"Opening Balance",
	}, "\n")

	report, err := testEngine().Parse(text)
	if !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
	if report.TotalLines != 6 {
		t.Errorf("total lines = %d, want 6", report.TotalLines)
	}
	if report.SkippedLines != 6 {
		t.Errorf("skipped lines = %d, want 6", report.SkippedLines)
	}
}

func TestParseLineAccounting(t *testing.T) {
	// A mix of recognized rows, a multi-line block and noise. Every line
	// must land in exactly one of the matched/skipped buckets.
	text := strings.Join([]string{
		"Statement of transactions",
		"01/02/2024 Grocery Store 150.00 DR",
		"Jul 20, 2025",
		"08:05 pm",
		"Paid to RAMU VEGETABLES",
		"Transaction ID T2507201234567890",
		"DEBIT",
		"₹190",
		"random footer text",
		"2024-02-01 Salary Credit +50000",
	}, "\n")

	report, err := testEngine().Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := report.MatchedLines + report.SkippedLines; got != report.TotalLines {
		t.Errorf("matched+skipped = %d, want total %d", got, report.TotalLines)
	}
	if len(report.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(report.Transactions))
	}

	// The block spans six lines: date, time, description, reference
	// boilerplate, indicator, amount.
	if report.MatchedLines != 8 {
		t.Errorf("matched lines = %d, want 8", report.MatchedLines)
	}
	if report.SkippedLines != 2 {
		t.Errorf("skipped lines = %d, want 2", report.SkippedLines)
	}

	block := report.Transactions[1]
	if block.Description != "Paid to RAMU VEGETABLES" {
		t.Errorf("block description = %q", block.Description)
	}
	if block.ParseMethod != "block-split" {
		t.Errorf("block parse method = %q", block.ParseMethod)
	}
}

func TestParseIdempotent(t *testing.T) {
	text := strings.Join([]string{
		"01/02/2024 Grocery Store 150.00 DR",
		"Jul 20, 2025",
		"08:05 pm",
		"DEBIT₹30Paid to JOGI SUPER STORE",
		"15-06-2024 Fuel Station 500",
	}, "\n")

	engine := testEngine()
	first, err := engine.Parse(text)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := engine.Parse(text)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	if len(first.Transactions) != len(second.Transactions) {
		t.Fatalf("run lengths differ: %d vs %d", len(first.Transactions), len(second.Transactions))
	}
	for i := range first.Transactions {
		a, b := first.Transactions[i], second.Transactions[i]
		if a.Description != b.Description || a.Direction != b.Direction ||
			a.Category != b.Category || !a.Amount.Equal(b.Amount) || !a.Date.Equal(b.Date) {
			t.Errorf("transaction %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestParseEmittedRecordsAreValid(t *testing.T) {
	text := strings.Join([]string{
		"01/02/2024 Grocery Store 150.00 DR",
		"2024-02-01 Salary Credit +50000",
		"Jul 20, 2025",
		"08:05 pm",
		"DEBIT₹30Paid to JOGI SUPER STORE",
		"20/07/2025 14:23:05 UPI-RENT PAYMENT ₹ 12000 Sent",
		"15-06-2024 Swiggy Order 349.00",
	}, "\n")

	report, err := testEngine().Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, txn := range report.Transactions {
		if !txn.Amount.IsPositive() {
			t.Errorf("%q: amount %s is not positive", txn.Description, txn.Amount)
		}
		if !txn.Direction.Valid() {
			t.Errorf("%q: invalid direction %q", txn.Description, txn.Direction)
		}
		found := false
		for _, cat := range classify.Taxonomy(txn.Direction) {
			if cat == txn.Category {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%q: category %q not in %s taxonomy", txn.Description, txn.Category, txn.Direction)
		}
	}
}

func TestParseThresholdClassification(t *testing.T) {
	// No indicator, sign or keyword: the magnitude threshold decides.
	tests := []struct {
		name  string
		input string
		want  models.Direction
	}{
		{"above threshold is income", "01/02/2024 Neighbour Transfer 6000", models.Income},
		{"below threshold is expense", "01/02/2024 Neighbour Transfer 4999", models.Expense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := testEngine().Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := report.Transactions[0].Direction; got != tt.want {
				t.Errorf("direction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCustomThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncomeThreshold = decimal.NewFromInt(1000)
	engine := NewWithConfig(cfg, log.New(io.Discard))

	report, err := engine.Parse("01/02/2024 Neighbour Transfer 2500")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := report.Transactions[0].Direction; got != models.Income {
		t.Errorf("direction = %q, want income with lowered threshold", got)
	}
}
