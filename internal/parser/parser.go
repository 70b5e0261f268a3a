// Package parser turns raw statement text into an ordered sequence of
// transactions. The text has no canonical layout: different issuers emit
// dense single-line records, tabular rows, or multi-line blocks where date,
// time, indicator and amount sit on separate physical lines. A line scanner
// walks the text once and tries a fixed priority chain of format
// recognizers at each position; lines nothing recognizes (headers, footers,
// reference noise) are skipped silently.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/expensetrack/statement-import/internal/classify"
	"github.com/expensetrack/statement-import/internal/models"
)

// ErrNoTransactions is returned when a full scan recognizes nothing.
// It is the only caller-actionable failure: the input is not a readable
// statement. Skipped lines on an otherwise successful scan are not an error.
var ErrNoTransactions = errors.New("no transactions found in statement text")

// Config holds the scanner's tunable constants. The window sizes are
// explicit so tests can exercise boundary behavior precisely.
type Config struct {
	// DateLookback is how many lines a dateless detail row may scan
	// backward to find its anchoring bare-date line.
	DateLookback int

	// DetailLookahead is how many lines past the time line of a
	// date/time block may be inspected for the indicator+amount detail.
	DetailLookahead int

	// IncomeThreshold classifies an unmarked amount as income when the
	// magnitude exceeds it.
	IncomeThreshold decimal.Decimal
}

// DefaultConfig returns the windows and threshold used in production.
func DefaultConfig() Config {
	return Config{
		DateLookback:    10,
		DetailLookahead: 6,
		IncomeThreshold: decimal.NewFromInt(5000),
	}
}

// Report is the outcome of one full scan. MatchedLines counts every line
// consumed by a successful recognizer match, including the interior lines
// of multi-line blocks, so MatchedLines+SkippedLines == TotalLines always.
type Report struct {
	Transactions []models.Transaction
	TotalLines   int
	MatchedLines int
	SkippedLines int
}

// Engine scans statement text with a fixed recognizer chain. An Engine is
// stateless across invocations; concurrent Parse calls are independent.
type Engine struct {
	config Config
	logger *log.Logger
	chain  []recognizer
}

// New creates an engine with DefaultConfig.
func New(logger *log.Logger) *Engine {
	return NewWithConfig(DefaultConfig(), logger)
}

// NewWithConfig creates an engine with explicit windows and threshold.
func NewWithConfig(cfg Config, logger *log.Logger) *Engine {
	e := &Engine{config: cfg, logger: logger}
	// Multi-line block first, then single-line recognizers from most
	// structured to loosest, so a loose pattern never swallows a block.
	e.chain = []recognizer{
		&blockRecognizer{cfg: &e.config},
		&tabularRowRecognizer{},
		&compactRowRecognizer{cfg: &e.config},
		&legacyRecognizer{},
	}
	return e
}

// Parse scans text and returns every recognized transaction in source
// order. The returned error is ErrNoTransactions when the scan completes
// without recognizing anything; the Report is valid either way.
func (e *Engine) Parse(text string) (*Report, error) {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimSpace(l)
	}

	report := &Report{TotalLines: len(lines)}

	i := 0
	for i < len(lines) {
		cand, consumed, ok := e.matchAt(lines, i)
		if !ok {
			report.SkippedLines++
			i++
			continue
		}

		txn, err := e.assemble(cand)
		if err != nil {
			// Malformed candidate (bad date, zero or non-numeric
			// amount): discard as if nothing had matched.
			e.logger.Debug("candidate discarded", "method", cand.method, "line", i+1, "err", err)
			report.SkippedLines++
			i++
			continue
		}

		e.logger.Debug("transaction recognized", "method", cand.method, "line", i+1, "lines", consumed)
		report.Transactions = append(report.Transactions, txn)
		report.MatchedLines += consumed
		i += consumed
	}

	if len(report.Transactions) == 0 {
		return report, ErrNoTransactions
	}
	return report, nil
}

// matchAt tries every recognizer at line i in priority order.
func (e *Engine) matchAt(lines []string, i int) (candidate, int, bool) {
	for _, r := range e.chain {
		if cand, consumed, ok := r.match(lines, i); ok {
			return cand, consumed, true
		}
	}
	return candidate{}, 0, false
}

// assemble normalizes a recognizer's raw fields into a final record.
func (e *Engine) assemble(c candidate) (models.Transaction, error) {
	date, err := parseDateTime(c.dateTok, c.timeTok)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("date %q: %w", c.dateTok, err)
	}

	amount, sign, err := parseAmount(c.amountTok)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("amount %q: %w", c.amountTok, err)
	}

	desc := strings.TrimSpace(c.desc)
	if desc == "" {
		return models.Transaction{}, errors.New("empty description")
	}

	dir := classify.Direction(c.indicator, sign, desc, amount, e.config.IncomeThreshold)

	return models.Transaction{
		Date:        date,
		Description: desc,
		Direction:   dir,
		Category:    classify.Category(desc, dir),
		Amount:      amount,
		ParseMethod: c.method,
	}, nil
}
