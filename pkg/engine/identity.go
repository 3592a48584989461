package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Reference and transaction number patterns, tried in declared order.
var identityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Txn\s*ID\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Txn\s*No\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Transaction\s*ID\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Transaction\s*No\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Ref\s*No\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Reference\s*No\s*([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)Card\s*XX(\d{4})`),
	regexp.MustCompile(`(?i)IMPS/P2A/(\w+)`),
	regexp.MustCompile(`(?i)UPI\s*Ref\s*([A-Za-z0-9]+)`),
}

// ResolveIdentity derives a stable deduplication key for a transaction.
// An explicit reference or transaction number wins; otherwise the key is a
// composite of amount, local calendar date, and a hash of the body, so two
// re-deliveries of the identical message collide while distinct bodies with
// the same amount and date never do.
func (e *Engine) ResolveIdentity(body string, amount decimal.Decimal, occurredAt time.Time) string {
	for _, pattern := range identityPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}

	sum := sha256.Sum256([]byte(body))
	return fmt.Sprintf("%s_%s_%s",
		amount.String(),
		occurredAt.Format("2006-01-02"),
		hex.EncodeToString(sum[:8]),
	)
}
