package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date token families accepted by the normalizer:
//
//	01/02/2024    day/month/year
//	2024-02-01    ISO year-month-day
//	15-06-2024    day-month-year
//	Jul 20, 2025  human-readable, optionally combined with a clock token
//
// Dash-delimited tokens are ambiguous; a token is ISO only when it is
// exactly 10 characters with the first dash at index 4, otherwise it is
// read day-first. All parsing goes through time.Parse so out-of-range
// components (month 13, day 32) fail instead of rolling over.

var missingColonPattern = regexp.MustCompile(`^(\d{1,2})(\d{2})$`)

// parseDate normalizes a bare date token.
func parseDate(tok string) (time.Time, error) {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.Contains(tok, "/"):
		return time.Parse("2/1/2006", tok)
	case strings.Contains(tok, "-"):
		if len(tok) == 10 && strings.Index(tok, "-") == 4 {
			return time.Parse("2006-01-02", tok)
		}
		return time.Parse("2-1-2006", tok)
	default:
		return time.Parse("Jan 2, 2006", tok)
	}
}

// parseDateTime combines a date token with an optional clock token of shape
// "H:MM am/pm". Wallet exports sometimes drop the colon ("0805 pm"); it is
// reinserted before combining.
func parseDateTime(dateTok, clockTok string) (time.Time, error) {
	if clockTok == "" {
		return parseDate(dateTok)
	}

	clock, err := normalizeClock(clockTok)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse("Jan 2, 2006 3:04 pm", strings.TrimSpace(dateTok)+" "+clock)
}

// normalizeClock rewrites a raw clock token into "H:MM am" form.
func normalizeClock(tok string) (string, error) {
	tok = strings.ToLower(strings.TrimSpace(tok))

	var meridiem string
	switch {
	case strings.HasSuffix(tok, "am"):
		meridiem = "am"
	case strings.HasSuffix(tok, "pm"):
		meridiem = "pm"
	default:
		return "", fmt.Errorf("clock %q: missing am/pm", tok)
	}

	digits := strings.TrimSpace(strings.TrimSuffix(tok, meridiem))
	if !strings.Contains(digits, ":") {
		digits = missingColonPattern.ReplaceAllString(digits, "$1:$2")
	}
	return digits + " " + meridiem, nil
}
