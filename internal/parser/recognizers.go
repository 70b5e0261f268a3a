package parser

import "regexp"

// candidate is a recognizer's raw extraction, before normalization.
type candidate struct {
	dateTok   string // raw date token
	timeTok   string // optional raw clock token
	desc      string
	amountTok string // raw amount token, may carry a sign or currency glyph
	indicator string // explicit direction marker, if any
	method    string // recognizer name, kept on the record for debugging
}

// recognizer attempts to extract a candidate transaction anchored at line i.
// On success it also reports how many lines the match spans, so the scanner
// never re-examines consumed lines.
type recognizer interface {
	name() string
	match(lines []string, i int) (candidate, int, bool)
}

// --- Shared line shapes ---

var (
	// Bare date line, e.g. "Jul 20, 2025" — the anchor of wallet-app blocks.
	bareDatePattern = regexp.MustCompile(`^[A-Za-z]{3} \d{1,2}, \d{4}$`)

	// Bare clock line, e.g. "08:05 pm" or "0805 pm".
	bareTimePattern = regexp.MustCompile(`(?i)^(\d{1,2}:?\d{2} ?(?:am|pm))$`)

	// Compact export row: indicator glued to the currency amount with the
	// description trailing, e.g. "DEBIT₹30Paid to JOGI SUPER STORE".
	compactRowPattern = regexp.MustCompile(`(?i)^(DEBIT|CREDIT)₹([\d,]+\.?\d*)(.+)$`)

	// Detail row inside a block: description, indicator, amount.
	blockDetailPattern = regexp.MustCompile(`(?i)^(.+?)\s+(DEBIT|CREDIT)\s+₹([\d,]+\.?\d*)$`)

	// Split detail pair: indicator alone, then the amount alone.
	indicatorOnlyPattern = regexp.MustCompile(`(?i)^(DEBIT|CREDIT)$`)
	amountOnlyPattern    = regexp.MustCompile(`^₹([\d,]+\.?\d*)$`)

	// Reference/ID boilerplate inside a block, never a description.
	boilerplatePattern = regexp.MustCompile(`(?i)^(Transaction ID|UTR No\.|Paid by)`)
)

// --- Tabular row (single line) ---

// tabularRowRecognizer matches the table-style wallet export where a whole
// transaction sits on one line:
//
//	Jul 20, 2025  Paid to JOGI SUPER STORE  DEBIT  ₹30
type tabularRowRecognizer struct{}

var tabularRowPattern = regexp.MustCompile(
	`(?i)^([A-Za-z]{3} \d{1,2}, \d{4})\s+(.+?)\s+(DEBIT|CREDIT)\s+₹([\d,]+\.?\d*)$`,
)

func (r *tabularRowRecognizer) name() string { return "tabular-row" }

func (r *tabularRowRecognizer) match(lines []string, i int) (candidate, int, bool) {
	m := tabularRowPattern.FindStringSubmatch(lines[i])
	if m == nil {
		return candidate{}, 0, false
	}
	return candidate{
		dateTok:   m[1],
		desc:      m[2],
		indicator: m[3],
		amountTok: m[4],
		method:    r.name(),
	}, 1, true
}

// --- Compact row with back-referenced date (single line) ---

// compactRowRecognizer matches a compact indicator+amount row that carries
// no date of its own; the date is the most recent bare-date line within the
// lookback window. Without such a line the row is not a match.
type compactRowRecognizer struct {
	cfg *Config
}

func (r *compactRowRecognizer) name() string { return "compact-row" }

func (r *compactRowRecognizer) match(lines []string, i int) (candidate, int, bool) {
	m := compactRowPattern.FindStringSubmatch(lines[i])
	if m == nil {
		return candidate{}, 0, false
	}

	dateTok := ""
	for k := i - 1; k >= 0 && k >= i-r.cfg.DateLookback; k-- {
		if bareDatePattern.MatchString(lines[k]) {
			dateTok = lines[k]
			break
		}
	}
	if dateTok == "" {
		return candidate{}, 0, false
	}

	return candidate{
		dateTok:   dateTok,
		indicator: m[1],
		amountTok: m[2],
		desc:      m[3],
		method:    r.name(),
	}, 1, true
}

// --- Date/time/detail block (multi-line) ---

// blockRecognizer matches the wallet-app layout where one transaction spans
// several physical lines: a bare date, a bare time, then the detail within
// the lookahead window. The detail is either a compact row, a
// description+indicator+amount row, or a split pair (indicator alone then
// amount alone) with the description recovered from the first
// non-boilerplate line of the block.
type blockRecognizer struct {
	cfg *Config
}

func (r *blockRecognizer) name() string { return "block" }

func (r *blockRecognizer) match(lines []string, i int) (candidate, int, bool) {
	if !bareDatePattern.MatchString(lines[i]) || i+1 >= len(lines) {
		return candidate{}, 0, false
	}
	tm := bareTimePattern.FindStringSubmatch(lines[i+1])
	if tm == nil {
		return candidate{}, 0, false
	}

	end := i + 2 + r.cfg.DetailLookahead
	if end > len(lines) {
		end = len(lines)
	}

	for j := i + 2; j < end; j++ {
		line := lines[j]

		if m := compactRowPattern.FindStringSubmatch(line); m != nil {
			return candidate{
				dateTok:   lines[i],
				timeTok:   tm[1],
				indicator: m[1],
				amountTok: m[2],
				desc:      m[3],
				method:    "block-compact",
			}, j - i + 1, true
		}

		if m := blockDetailPattern.FindStringSubmatch(line); m != nil {
			return candidate{
				dateTok:   lines[i],
				timeTok:   tm[1],
				desc:      m[1],
				indicator: m[2],
				amountTok: m[3],
				method:    "block-detail",
			}, j - i + 1, true
		}

		// Split pair: the amount line may sit one past the window.
		if indicatorOnlyPattern.MatchString(line) && j+1 < len(lines) {
			am := amountOnlyPattern.FindStringSubmatch(lines[j+1])
			if am == nil {
				continue
			}
			desc := "Unknown Transaction"
			for k := i + 2; k < j; k++ {
				if lines[k] != "" && !boilerplatePattern.MatchString(lines[k]) {
					desc = lines[k]
					break
				}
			}
			return candidate{
				dateTok:   lines[i],
				timeTok:   tm[1],
				indicator: line,
				amountTok: am[1],
				desc:      desc,
				method:    "block-split",
			}, j + 2 - i, true
		}
	}

	return candidate{}, 0, false
}

// --- Legacy single-line formats ---

// legacyRecognizer matches the classic bank-statement row shapes: a date,
// free-text description, amount, and an optional CR/DR-style indicator.
// Patterns are ordered most specific first; the reference-suffix shape must
// precede the generic slash-date shape or the trailing reference id would
// be mistaken for the amount.
type legacyRecognizer struct{}

// Lines shorter than this are never legacy candidates; a date plus an
// amount cannot fit.
const minLegacyLineLen = 10

var legacyPatterns = []struct {
	method string
	re     *regexp.Regexp
	// group indices
	date, clock, desc, amount, indicator int
}{
	{
		method: "legacy-ref-suffix",
		re:     regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}[/-]\d{4})\s+(.+?)\s+([\d,]+\.?\d*)\s+[A-Z0-9]{10,}$`),
		date:   1, desc: 2, amount: 3,
	},
	{
		method: "legacy-upi-clock",
		re:     regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}:\d{2})\s+(.+?)\s+₹\s*([\d,]+\.?\d*)\s*(Sent|Received|Paid|Added)?$`),
		date:   1, clock: 2, desc: 3, amount: 4, indicator: 5,
	},
	{
		method: "legacy-rupee-row",
		re:     regexp.MustCompile(`(?i)^(\d{1,2}[/-]\d{1,2}[/-]\d{4})\s+(.+?)\s*₹\s*([\d,]+\.?\d*)\s*(CR|DR|CREDIT|DEBIT|Sent|Received)?$`),
		date:   1, desc: 2, amount: 3, indicator: 4,
	},
	{
		method: "legacy-slash-date",
		re:     regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+([+-]?[\d,]+\.?\d*)\s*(CR|DR|CREDIT|DEBIT)?$`),
		date:   1, desc: 2, amount: 3, indicator: 4,
	},
	{
		method: "legacy-iso-date",
		re:     regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2})\s+(.+?)\s+([+-]?[\d,]+\.?\d*)$`),
		date:   1, desc: 2, amount: 3,
	},
	{
		method: "legacy-dash-date",
		re:     regexp.MustCompile(`(?i)^(\d{1,2}-\d{1,2}-\d{4})\s+(.+?)\s+([\d,]+\.?\d*)\s*(CR|DR|CREDIT|DEBIT)?$`),
		date:   1, desc: 2, amount: 3, indicator: 4,
	},
}

func (r *legacyRecognizer) name() string { return "legacy" }

func (r *legacyRecognizer) match(lines []string, i int) (candidate, int, bool) {
	line := lines[i]
	if len(line) < minLegacyLineLen {
		return candidate{}, 0, false
	}

	for _, p := range legacyPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		c := candidate{
			dateTok:   m[p.date],
			desc:      m[p.desc],
			amountTok: m[p.amount],
			method:    p.method,
		}
		if p.indicator > 0 {
			c.indicator = m[p.indicator]
		}
		if p.clock > 0 && m[p.clock] != "" {
			c.desc = c.desc + " (" + m[p.clock] + ")"
		}
		return c, 1, true
	}

	return candidate{}, 0, false
}
