package engine

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// A number with optional thousands separators and up to two decimal places.
const numberPattern = `\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?`

var (
	// Bill amounts are requests, not transactions; they never count as the
	// debited amount unless the body also shows a real debit.
	billAmountMarkers = []string{
		"amount payable", "bill payment", "due amount", "total amount payable",
	}

	// Words that signal an actual transaction somewhere in the body. Amount
	// candidates are only considered at all when one of these is present,
	// and the candidate closest to one of them wins.
	amountIndicators = []string{
		"debited", "spent", "paid", "withdrawn", "deducted",
		"transferred", "trf", "transaction", "purchase", "payment",
	}

	// Context words that mark a number as an account limit or balance
	// rather than the transacted amount.
	balanceWindowMarkers = []string{"avl", "available", "limit", "balance", "bal:"}

	// Candidate pattern families in priority order: currency marker before
	// the number, currency marker after the number, then any bare decimal
	// as a last resort.
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*(` + numberPattern + `)`),
		regexp.MustCompile(`(?i)(` + numberPattern + `)\s*(?:rs\.?|inr|₹)`),
		regexp.MustCompile(`\b(\d{1,3}(?:,\d{3})*\.\d{1,2}|\d+\.\d{1,2})\b`),
	}
)

// The ±20-character context window inspected around each candidate.
const amountWindow = 20

type amountCandidate struct {
	text string
	pos  int
}

// ExtractAmount finds the monetary value actually debited in the body.
// It rejects bill-reminder amounts and candidates adjacent to balance or
// limit context, and returns ok=false when no usable amount exists.
func (e *Engine) ExtractAmount(body string) (decimal.Decimal, bool) {
	lower := strings.ToLower(body)

	if containsAny(lower, billAmountMarkers) &&
		!strings.Contains(lower, "debited") && !strings.Contains(lower, "spent") {
		return decimal.Decimal{}, false
	}

	if !containsAny(lower, amountIndicators) {
		return decimal.Decimal{}, false
	}

	indicatorPositions := indicatorPositions(lower)

	for _, pattern := range amountPatterns {
		candidates := findCandidates(pattern, body, lower)
		if len(candidates) == 0 {
			continue
		}

		orderByIndicatorDistance(candidates, indicatorPositions)

		// Malformed numeric text skips to the next candidate.
		for _, candidate := range candidates {
			amount, err := decimal.NewFromString(strings.ReplaceAll(candidate.text, ",", ""))
			if err != nil {
				continue
			}
			return amount, true
		}
	}

	return decimal.Decimal{}, false
}

// findCandidates collects every match of pattern whose surrounding window
// does not mark it as a balance or limit.
func findCandidates(pattern *regexp.Regexp, body, lower string) []amountCandidate {
	var candidates []amountCandidate

	for _, m := range pattern.FindAllStringSubmatchIndex(body, -1) {
		start, end := m[0], m[1]
		groupStart, groupEnd := m[2], m[3]
		if groupStart < 0 {
			continue
		}

		windowStart := max(0, start-amountWindow)
		windowEnd := min(len(lower), end+amountWindow)
		if containsAny(lower[windowStart:windowEnd], balanceWindowMarkers) {
			continue
		}

		candidates = append(candidates, amountCandidate{
			text: strings.TrimSpace(body[groupStart:groupEnd]),
			pos:  start,
		})
	}

	return candidates
}

func indicatorPositions(lower string) []int {
	var positions []int
	for _, indicator := range amountIndicators {
		if idx := strings.Index(lower, indicator); idx >= 0 {
			positions = append(positions, idx)
		}
	}
	return positions
}

// orderByIndicatorDistance sorts candidates by their distance to the nearest
// transaction-indicator occurrence, preserving text order on ties. With no
// indicator positions the original text order stands.
func orderByIndicatorDistance(candidates []amountCandidate, positions []int) {
	if len(positions) == 0 {
		return
	}

	distance := func(c amountCandidate) int {
		best := -1
		for _, pos := range positions {
			d := c.pos - pos
			if d < 0 {
				d = -d
			}
			if best < 0 || d < best {
				best = d
			}
		}
		return best
	}

	// Insertion sort keeps the earlier candidate on equal distance.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && distance(candidates[j]) < distance(candidates[j-1]); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}
