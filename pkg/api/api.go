// Package api defines the core types and collaborator interfaces for smsledger.
package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SourceSMS tags records derived from SMS notification messages.
const SourceSMS = "sms"

// UnknownMerchant is the sentinel merchant name used when extraction
// cannot resolve a counterparty.
const UnknownMerchant = "Unknown"

// Expense categories. Misc is the catch-all and is never keyword-matched.
const (
	CategoryFood       = "Food"
	CategoryGrocery    = "Grocery"
	CategoryRecharge   = "Recharge"
	CategoryInvestment = "Investment"
	CategoryTelecom    = "Telecom"
	CategoryMisc       = "Misc"
)

// CategoryOrder lists the categories in keyword-classification precedence
// order. The first category whose keyword set matches wins.
var CategoryOrder = []string{
	CategoryFood,
	CategoryGrocery,
	CategoryRecharge,
	CategoryInvestment,
	CategoryTelecom,
}

// ExpenseRecord is the extraction output for one accepted message.
// Records are immutable after creation and owned by the caller until
// handed to an ExpenseStore.
type ExpenseRecord struct {
	// Amount is the debited amount. Always positive.
	Amount decimal.Decimal `json:"amount"`
	// Category is one of the Category constants.
	Category string `json:"category"`
	// OccurredAt is the message timestamp in the system-local zone.
	OccurredAt time.Time `json:"occurred_at"`
	// RawText is the original message body, stored verbatim.
	RawText string `json:"raw_text"`
	// Source identifies how the record was derived (SourceSMS).
	Source string `json:"source"`
	// MerchantName is the resolved counterparty, or UnknownMerchant.
	MerchantName string `json:"merchant_name"`
}

// Message is one raw notification message as yielded by a MessageSource.
type Message struct {
	Body            string
	TimestampMillis int64
}

// MessageSource yields raw messages newer than a watermark, newest first.
// Implementations are provider agnostic (device inbox, test fixtures, ...).
type MessageSource interface {
	FetchMessages(ctx context.Context, afterMillis int64) ([]Message, error)
}

// WatermarkStore persists the last-sync watermark between passes.
type WatermarkStore interface {
	// Watermark returns the stored watermark in epoch millis. The second
	// return value is false when no watermark has been stored yet.
	Watermark(ctx context.Context) (millis int64, ok bool, err error)
	// SetWatermark overwrites the stored watermark.
	SetWatermark(ctx context.Context, millis int64) error
}

// ExpenseStore persists expense records. Insert reports inserted=false when
// the store suppressed the record as a duplicate of history. Storage-level
// duplicate suppression is keyed on (amount, date, category), a secondary
// safety net beyond in-pass identity deduplication.
type ExpenseStore interface {
	Insert(ctx context.Context, record *ExpenseRecord) (inserted bool, err error)
}
