// Package engine implements the rule-based classification and extraction
// engine for bank and payment-app notification messages.
//
// The engine decides whether a message body describes a real expense
// (IsExpenseMessage), and if so extracts the debited amount, a human-readable
// merchant, a category, and a stable transaction identity for deduplication.
// All classification is deterministic pattern matching over the body text;
// there is no learned or statistical component.
package engine

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adikhanna/smsledger/pkg/api"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed keywords.json
var keywordsJSON []byte

// CatalogEntry pairs an exact merchant string (case preserved) with its
// category. The catalog is an ordered list; ties between overlapping
// merchant strings resolve to the first match in declared order.
type CatalogEntry struct {
	Merchant string `json:"merchant"`
	Category string `json:"category"`
}

// Engine holds the static rule tables. It is immutable after New and safe
// for concurrent use; every method is a pure function of its inputs.
type Engine struct {
	catalog  []CatalogEntry
	keywords map[string][]string
}

// New builds an engine from the embedded catalog and keyword tables.
func New() (*Engine, error) {
	var catalog []CatalogEntry
	if err := json.Unmarshal(catalogJSON, &catalog); err != nil {
		return nil, fmt.Errorf("parsing merchant catalog: %w", err)
	}

	known := map[string]struct{}{api.CategoryMisc: {}}
	for _, c := range api.CategoryOrder {
		known[c] = struct{}{}
	}
	for _, entry := range catalog {
		if entry.Merchant == "" {
			return nil, fmt.Errorf("merchant catalog: empty merchant name")
		}
		if _, ok := known[entry.Category]; !ok {
			return nil, fmt.Errorf("merchant catalog: unknown category %q for %q", entry.Category, entry.Merchant)
		}
	}

	var keywords map[string][]string
	if err := json.Unmarshal(keywordsJSON, &keywords); err != nil {
		return nil, fmt.Errorf("parsing category keywords: %w", err)
	}
	for category := range keywords {
		if _, ok := known[category]; !ok || category == api.CategoryMisc {
			return nil, fmt.Errorf("category keywords: unknown category %q", category)
		}
	}

	return &Engine{
		catalog:  catalog,
		keywords: keywords,
	}, nil
}

// Parse runs the full pipeline on one message: eligibility gate, amount,
// merchant, category, and identity. It returns the record, its identity key,
// and true for accepted messages. Messages that fail the gate or whose
// amount cannot be extracted return ok=false; that is normal control flow,
// not an error.
func (e *Engine) Parse(body string, timestampMillis int64) (record *api.ExpenseRecord, identity string, ok bool) {
	if !e.IsExpenseMessage(body) {
		return nil, "", false
	}

	amount, ok := e.ExtractAmount(body)
	if !ok {
		return nil, "", false
	}

	merchant := e.ExtractMerchant(body)
	occurredAt := time.UnixMilli(timestampMillis)

	record = &api.ExpenseRecord{
		Amount:       amount,
		Category:     e.DetectCategory(merchant, body),
		OccurredAt:   occurredAt,
		RawText:      body,
		Source:       api.SourceSMS,
		MerchantName: merchant,
	}

	return record, e.ResolveIdentity(body, amount, occurredAt), true
}
