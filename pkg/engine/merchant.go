package engine

import (
	"regexp"
	"strings"

	"github.com/adikhanna/smsledger/pkg/api"
)

var (
	// Markers of a generic transfer/withdrawal where the body names a
	// financial institution rather than a merchant.
	genericTransferMarkers = []string{
		"debited from", "withdrawn from", "transaction id", "txn id",
	}

	// Bank name patterns, tried in declared order.
	bankAccountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Airtel\s+Payments\s+Bank)\s+a/c`),
		regexp.MustCompile(`(?i)(ICICI\s+Bank)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)(SBI)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)(HDFC\s+Bank)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)(Axis\s+Bank)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)(Kotak)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)(Yes\s+Bank)\s+(?:a/c|account|card)`),
		regexp.MustCompile(`(?i)from\s+(\w+\s+(?:Bank|Payments))\s`),
		regexp.MustCompile(`(?i)using\s+(\w+\s+Bank)\s`),
	}

	paymentAppPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Paytm)\s+wallet`),
		regexp.MustCompile(`(?i)(GooglePay|GPay)`),
		regexp.MustCompile(`(?i)(PhonePe)`),
		regexp.MustCompile(`(?i)(Amazon\s+Pay)`),
		regexp.MustCompile(`(?i)(MobiKwik)`),
	}

	// Card transactions: "on <date> on <merchant>".
	cardDateAnchorRe = regexp.MustCompile(
		`(?i)on\s+(\d{1,2}-\w{3}-\d{2,4})\s+on\s+([^.\s]+(?:\s+[^.\s]+)*)`)

	// Peer transfers.
	trfToRe = regexp.MustCompile(`(?i)trf\s+to\s+([^.\s]+(?:\s+[^.\s]+)*)`)

	// Directional preposition patterns, tried in declared order.
	directionalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)paid\s+to\s+([^.\s]+(?:\s+[^.\s]+)*)`),
		regexp.MustCompile(`(?i)payment\s+to\s+([^.\s]+(?:\s+[^.\s]+)*)`),
		regexp.MustCompile(`(?i)transferred\s+to\s+([^.\s]+(?:\s+[^.\s]+)*)`),
		regexp.MustCompile(`(?i)purchase\s+(?:at|from)\s+([^.\s]+(?:\s+[^.\s]+)*)`),
		regexp.MustCompile(`(?i)buying\s+from\s+([^.\s]+(?:\s+[^.\s]+)*)`),
		regexp.MustCompile(`(?i)transaction\s+at\s+([^.\s]+(?:\s+[^.\s]+)*)`),
	}

	capsTokenRe = regexp.MustCompile(`\b([A-Z]{2,}(?:\s+[A-Z]+)*)\b`)

	// Caps tokens that show up in almost every bank SMS and are never the
	// merchant, plus known bank codes.
	capsStopList = map[string]struct{}{
		"INR": {}, "SMS": {}, "RS": {}, "ID": {}, "BLOCK": {}, "CALL": {},
		"ALERT": {}, "INFO": {}, "BALANCE": {}, "LIMIT": {}, "AVL": {},
		"TXN": {}, "FOR": {}, "ANY": {}, "DISCREPANCY": {}, "DIAL": {},
		"A/C": {}, "ACCOUNT": {}, "DATE": {}, "REF": {}, "DEAR": {},
		"USER": {}, "CUSTOMER": {}, "REFNO": {},
		"ICICI": {}, "SBI": {}, "HDFC": {}, "AXIS": {}, "KOTAK": {},
		"YES BANK": {}, "PNB": {},
	}

	brandFallbackRe = regexp.MustCompile(
		`(?i)(Airtel\s+Payments\s+Bank|ICICI\s+Bank|SBI|HDFC\s+Bank|Axis\s+Bank|Kotak|Yes\s+Bank|UPI|IMPS)`)

	// Short captures containing any of these are too generic to be a
	// merchant. Longer phrases merely containing one are kept.
	genericTerms = []string{
		"account", "bank", "card", "credit", "debit", "transaction",
		"payment", "transfer", "atm", "cash", "money", "fund", "wallet",
		"a/c", "balance", "discrepancy", "dial", "alert", "info", "sms",
	}

	trailingPunctRe = regexp.MustCompile(`[.,;:]$`)

	refSuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+refno\b.*$`),
		regexp.MustCompile(`(?i)\s+reference\s*$`),
		regexp.MustCompile(`(?i)\s+ref\s*$`),
	}

	nonMerchantPhrases = []string{"for any", "dial", "discrepancy", "avl limit"}
)

// ExtractMerchant identifies a human-readable payee from the body. It never
// returns an empty string; api.UnknownMerchant is the sentinel when nothing
// resolves.
func (e *Engine) ExtractMerchant(body string) string {
	if institution, ok := extractFinancialInstitution(body); ok {
		return institution
	}

	if m := cardDateAnchorRe.FindStringSubmatch(body); m != nil {
		cleaned := cleanMerchantName(m[2])
		if len(cleaned) > 2 && cleaned != api.UnknownMerchant {
			return cleaned
		}
	}

	if m := trfToRe.FindStringSubmatch(body); m != nil {
		merchant := strings.TrimSpace(m[1])
		if len(merchant) > 2 && !isGenericTerm(merchant) {
			return cleanMerchantName(merchant)
		}
	}

	for _, pattern := range directionalPatterns {
		m := pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		merchant := strings.TrimSpace(m[1])
		if len(merchant) > 2 && !isGenericTerm(merchant) {
			return cleanMerchantName(merchant)
		}
	}

	// Known merchants from the catalog, canonical casing preserved.
	lower := strings.ToLower(body)
	for _, entry := range e.catalog {
		if strings.Contains(lower, strings.ToLower(entry.Merchant)) {
			return entry.Merchant
		}
	}

	if merchant, ok := longestCapsToken(body); ok {
		return merchant
	}

	if m := brandFallbackRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}

	return api.UnknownMerchant
}

// extractFinancialInstitution resolves the bank or payment app as the
// counterparty for generic transfers and withdrawals that name no merchant.
func extractFinancialInstitution(body string) (string, bool) {
	lower := strings.ToLower(body)
	if !containsAny(lower, genericTransferMarkers) {
		return "", false
	}

	for _, pattern := range bankAccountPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return m[1], true
		}
	}

	for _, pattern := range paymentAppPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// longestCapsToken scans for runs of two-or-more-letter uppercase words and
// returns the longest one that survives the stop list, as merchant names in
// card alerts are typically upper-cased.
func longestCapsToken(body string) (string, bool) {
	var best string
	for _, m := range capsTokenRe.FindAllStringSubmatch(body, -1) {
		token := m[1]
		if _, stopped := capsStopList[token]; stopped {
			continue
		}
		if len(token) <= 2 || len(token) >= 25 {
			continue
		}
		if len(token) > len(best) {
			best = token
		}
	}
	return best, best != ""
}

// isGenericTerm reports whether a captured candidate is too generic to be a
// merchant: it contains a generic banking word and is short. Longer phrases
// that merely contain one as part of a legitimate name are kept.
func isGenericTerm(term string) bool {
	if len(term) >= 12 {
		return false
	}
	return containsAny(strings.ToLower(term), genericTerms)
}

// cleanMerchantName post-processes a captured merchant phrase: trims, strips
// one trailing punctuation mark, drops a trailing Ref/Reference/Refno suffix,
// and truncates at the first non-merchant phrase.
func cleanMerchantName(name string) string {
	cleaned := strings.TrimSpace(name)
	cleaned = trailingPunctRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	for _, re := range refSuffixRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	for _, phrase := range nonMerchantPhrases {
		if idx := strings.Index(strings.ToLower(cleaned), phrase); idx >= 0 {
			cleaned = strings.TrimSpace(cleaned[:idx])
		}
	}

	if cleaned == "" {
		return api.UnknownMerchant
	}
	return cleaned
}
