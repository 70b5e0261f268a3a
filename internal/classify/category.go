// Package classify assigns a direction (income/expense) and a category label
// to recognized statement transactions.
package classify

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/expensetrack/statement-import/internal/models"
)

// Fallback categories when no keyword group matches.
const (
	OtherIncome = "Other Income"
	Other       = "Other"
)

// keywordGroup maps a set of description keywords to one category.
// Groups are evaluated in table order; the earliest matching group wins,
// which matters for keywords that appear in more than one group ("gas" is
// both Transportation and Utilities).
type keywordGroup struct {
	category string
	keywords []string
}

var incomeGroups = []keywordGroup{
	{"Salary", []string{"salary", "sal", "wages"}},
	{"Investment", []string{"interest", "dividend"}},
	{"Refund", []string{"refund", "return"}},
}

var expenseGroups = []keywordGroup{
	{"Food", []string{"food", "restaurant", "cafe", "swiggy", "zomato"}},
	{"Transportation", []string{"fuel", "petrol", "gas", "transport", "uber", "ola"}},
	{"Groceries", []string{"grocery", "supermarket", "mart"}},
	{"Shopping", []string{"shopping", "amazon", "flipkart"}},
	{"Healthcare", []string{"medical", "hospital", "pharmacy"}},
	{"Utilities", []string{"electricity", "water", "gas", "internet", "mobile"}},
	{"Entertainment", []string{"movie", "entertainment", "netflix", "spotify"}},
}

// table is an immutable keyword table compiled into a single Aho-Corasick
// matcher so every keyword is checked in one pass over the description.
type table struct {
	matcher  *ahocorasick.Matcher
	groupFor []int // pattern index -> group index
	groups   []keywordGroup
	fallback string
}

var (
	buildOnce    sync.Once
	incomeTable  *table
	expenseTable *table
)

func buildTable(groups []keywordGroup, fallback string) *table {
	t := &table{groups: groups, fallback: fallback}
	var patterns [][]byte
	seen := make(map[string]bool)
	for gi, g := range groups {
		for _, kw := range g.keywords {
			up := strings.ToUpper(kw)
			// NewMatcher keeps a single index per distinct pattern,
			// so a keyword repeated in a later group would shadow
			// its first registration. Register each keyword once,
			// under its earliest group.
			if seen[up] {
				continue
			}
			seen[up] = true
			patterns = append(patterns, []byte(up))
			t.groupFor = append(t.groupFor, gi)
		}
	}
	t.matcher = ahocorasick.NewMatcher(patterns)
	return t
}

func buildTables() {
	incomeTable = buildTable(incomeGroups, OtherIncome)
	expenseTable = buildTable(expenseGroups, Other)
}

func (t *table) categorize(description string) string {
	hits := t.matcher.Match([]byte(strings.ToUpper(description)))
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(t.groupFor) {
			continue
		}
		if g := t.groupFor[idx]; best == -1 || g < best {
			best = g
		}
	}
	if best == -1 {
		return t.fallback
	}
	return t.groups[best].category
}

// Category returns the category label for a transaction description.
// Matching is case-insensitive substring search; no match yields the
// direction's fallback category.
func Category(description string, dir models.Direction) string {
	buildOnce.Do(buildTables)
	if dir == models.Income {
		return incomeTable.categorize(description)
	}
	return expenseTable.categorize(description)
}

// Taxonomy returns every category label valid for the given direction,
// including the fallback.
func Taxonomy(dir models.Direction) []string {
	groups := expenseGroups
	fallback := Other
	if dir == models.Income {
		groups = incomeGroups
		fallback = OtherIncome
	}
	out := make([]string, 0, len(groups)+1)
	for _, g := range groups {
		out = append(out, g.category)
	}
	return append(out, fallback)
}
