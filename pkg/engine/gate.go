package engine

import (
	"regexp"
	"strings"
)

// Rule tables for the eligibility gate, evaluated in declared order.
// The first matching rule wins; later rules are unreachable once an
// earlier one fires.
var (
	// Bill reminders and payment requests: money that has not moved yet.
	billReminderSubjects = []string{"bill", "due", "payable"}
	billReminderMarkers  = []string{
		"due date", "overdue", "please pay", "please make",
		"amount payable", "bill payment",
	}

	// Marketing and promotional noise.
	promoMarkers = []string{
		"offer", "loan", "apply", "qualify", "eligib",
		"get personal", "chance to", "reward", "cashback", "discount",
	}

	// Investment portfolio updates.
	portfolioMarkers = []string{"portfolio value", "sip", "folio"}

	// Phrases that almost always indicate money actually moving out.
	strongTransactionIndicators = []string{
		"debited from", "debited by", "spent using", "paid using",
		"withdrawn from", "deducted from", "trf to", "transfer to", "txn",
	}

	// Outbound verbs used to tell a debit apart from a credit notification
	// reusing the same wording.
	outboundVerbs = []string{"debited", "spent", "paid", "deducted"}

	transactionVerbRe = regexp.MustCompile(
		`(?i)\b(?:debited|spent|paid|charged|purchased|payment|transferred|withdrawn)\b`)

	currencyAmountRe = regexp.MustCompile(
		`(?i)(?:rs\.?|inr|₹)?\s*(?:\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
)

// IsExpenseMessage reports whether a message body describes a genuine
// expense notification, as opposed to a bill reminder, promotion, NAV or
// portfolio update, balance notice, or inbound credit.
func (e *Engine) IsExpenseMessage(body string) bool {
	lower := strings.ToLower(body)

	// Bill reminders: an amount somebody wants, not an amount that moved.
	if containsAny(lower, billReminderSubjects) && containsAny(lower, billReminderMarkers) {
		return false
	}

	if containsAny(lower, promoMarkers) {
		return false
	}

	// Mutual fund NAV updates, unless the message also shows a real debit.
	if (strings.Contains(lower, "nav") || strings.Contains(lower, "mutual fund")) &&
		!strings.Contains(lower, "debited from") && !strings.Contains(lower, "spent using") {
		return false
	}

	if containsAny(lower, portfolioMarkers) {
		return false
	}

	if containsAny(lower, strongTransactionIndicators) {
		// A credit notification can reuse the same wording ("txn", "transfer
		// to") without any money moving out. This check mis-reads compound
		// messages carrying both a credit and a debit clause; that trade-off
		// is intentional and pinned by tests.
		if (strings.Contains(lower, "credited") || strings.Contains(lower, "received")) &&
			!containsAny(lower, outboundVerbs) {
			return false
		}
		return true
	}

	// Balance-only notices.
	if (strings.Contains(lower, "balance") || strings.Contains(lower, "bal")) &&
		!strings.Contains(lower, "debited") && !strings.Contains(lower, "spent") &&
		!strings.Contains(lower, "paid") && !strings.Contains(lower, "withdrawn") {
		return false
	}

	// Everything else needs both a whole-word transaction verb and a
	// currency amount, and must not look like a bill.
	return transactionVerbRe.MatchString(body) &&
		currencyAmountRe.MatchString(body) &&
		!strings.Contains(lower, "amount payable") &&
		!strings.Contains(lower, "bill payment")
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
