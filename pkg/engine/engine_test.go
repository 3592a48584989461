package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adikhanna/smsledger/pkg/api"
)

func TestParse(t *testing.T) {
	eng := newTestEngine(t)
	ts := time.Date(2024, 1, 12, 9, 30, 0, 0, time.Local).UnixMilli()

	tests := []struct {
		name     string
		body     string
		ok       bool
		amount   string
		merchant string
		category string
		identity string // empty means don't check the exact key
	}{
		{
			name:     "card spend",
			body:     "INR 250.00 spent using XYZ Bank Card on 12-Jan-24 on ZOMATO",
			ok:       true,
			amount:   "250.00",
			merchant: "ZOMATO",
			category: api.CategoryFood,
		},
		{
			name:     "peer transfer",
			body:     "Rs 5000 trf to JOHN DOE Refno 998877",
			ok:       true,
			amount:   "5000",
			merchant: "JOHN DOE",
			category: api.CategoryMisc,
			identity: "998877",
		},
		{
			name: "sip processing rejected at the gate",
			body: "Your SIP of Rs 2000 has been processed, folio 12345",
			ok:   false,
		},
		{
			name: "bill reminder rejected at the gate",
			body: "Your electricity bill of Rs.1200 is generated. Please pay the amount payable by due date 15-Jan.",
			ok:   false,
		},
		{
			name: "gate accepts but no extractable amount",
			body: "Your payment could not be processed, txn declined",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, identity, ok := eng.Parse(tt.body, ts)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.body, ok, tt.ok)
			}
			if !tt.ok {
				if record != nil {
					t.Fatalf("Parse(%q) returned a record for a rejected message", tt.body)
				}
				return
			}

			if want := decimal.RequireFromString(tt.amount); !record.Amount.Equal(want) {
				t.Errorf("amount = %s, want %s", record.Amount, want)
			}
			if record.MerchantName != tt.merchant {
				t.Errorf("merchant = %q, want %q", record.MerchantName, tt.merchant)
			}
			if record.Category != tt.category {
				t.Errorf("category = %q, want %q", record.Category, tt.category)
			}
			if tt.identity != "" && identity != tt.identity {
				t.Errorf("identity = %q, want %q", identity, tt.identity)
			}
			if identity == "" {
				t.Error("accepted message produced an empty identity key")
			}

			if record.Source != api.SourceSMS {
				t.Errorf("source = %q, want %q", record.Source, api.SourceSMS)
			}
			if record.RawText != tt.body {
				t.Errorf("raw text = %q, want the original body", record.RawText)
			}
			if got := record.OccurredAt.UnixMilli(); got != ts {
				t.Errorf("occurred at = %d, want %d", got, ts)
			}
		})
	}
}
