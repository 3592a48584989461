package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveIdentityPatterns(t *testing.T) {
	eng := newTestEngine(t)
	ts := time.Date(2024, 1, 12, 10, 30, 0, 0, time.Local)
	amount := decimal.RequireFromString("500")

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "txn id",
			body: "Rs 500 debited. Txn ID AB12345 completed",
			want: "AB12345",
		},
		{
			name: "transaction no",
			body: "Transaction No 776655 confirmed for Rs 500",
			want: "776655",
		},
		{
			name: "refno",
			body: "Rs 5000 trf to JOHN DOE Refno 998877",
			want: "998877",
		},
		{
			name: "card last four",
			body: "INR 645.00 spent using ICICI Bank Card XX7003 on AMAZON",
			want: "7003",
		},
		{
			name: "imps segment",
			body: "Rs 900 debited via IMPS/P2A/ABCD1234/JOHN",
			want: "ABCD1234",
		},
		{
			name: "upi ref",
			body: "Paid Rs 120 via UPI Ref 556677",
			want: "556677",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.ResolveIdentity(tt.body, amount, ts); got != tt.want {
				t.Errorf("ResolveIdentity(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestResolveIdentityFallback(t *testing.T) {
	eng := newTestEngine(t)
	ts := time.Date(2024, 1, 12, 10, 30, 0, 0, time.Local)
	amount := decimal.RequireFromString("150")

	bodyA := "Rs 150 spent at the corner cafe"
	bodyB := "Rs 150 spent at the other cafe"

	keyA := eng.ResolveIdentity(bodyA, amount, ts)
	if !strings.HasPrefix(keyA, "150_2024-01-12_") {
		t.Errorf("fallback key = %q, want amount and date prefix", keyA)
	}

	// Idempotent: same body, same key.
	if again := eng.ResolveIdentity(bodyA, amount, ts); again != keyA {
		t.Errorf("ResolveIdentity not idempotent: %q then %q", keyA, again)
	}

	// Hash sensitivity: equal amount and date, different body, different key.
	if keyB := eng.ResolveIdentity(bodyB, amount, ts); keyB == keyA {
		t.Errorf("distinct bodies produced the same fallback key %q", keyA)
	}
}
