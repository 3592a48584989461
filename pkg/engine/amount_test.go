package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractAmount(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{
			name: "symbol before number",
			body: "Rs.500 debited from HDFC Bank a/c XX1234",
			want: "500",
			ok:   true,
		},
		{
			name: "INR with decimals",
			body: "INR 250.00 spent using XYZ Bank Card on 12-Jan-24 on ZOMATO",
			want: "250.00",
			ok:   true,
		},
		{
			name: "thousands separators",
			body: "Rs 1,23,456 is not this; Rs 4,500 debited from SBI a/c",
			want: "4500",
			ok:   true,
		},
		{
			name: "number before symbol",
			body: "2,500.00 INR debited from your account",
			want: "2500.00",
			ok:   true,
		},
		{
			name: "bare decimal fallback",
			body: "Payment of 349.00 made successfully for your order",
			want: "349.00",
			ok:   true,
		},
		{
			name: "available limit never selected",
			body: "INR 645.00 spent using ICICI Bank Card XX7003 on AMAZON. Avl Limit: INR 49,355.00",
			want: "645.00",
			ok:   true,
		},
		{
			name: "balance context never selected",
			body: "Rs 750 debited from SBI a/c. Bal: Rs 9,250",
			want: "750",
			ok:   true,
		},
		{
			name: "closest to indicator wins",
			body: "Ticket worth Rs 50 noted. Rs 4,500 debited from SBI a/c",
			want: "4500",
			ok:   true,
		},
		{
			name: "no transaction indicator",
			body: "Rs 500 is your recharge voucher code value",
			ok:   false,
		},
		{
			name: "bill reminder amount rejected",
			body: "Total amount payable is Rs 1,200 by 15-Jan",
			ok:   false,
		},
		{
			name: "bill wording overridden by debit",
			body: "Bill payment of Rs 1,200 debited from your a/c",
			want: "1200",
			ok:   true,
		},
		{
			name: "indicator present but no number",
			body: "Your payment could not be processed",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eng.ExtractAmount(tt.body)
			if ok != tt.ok {
				t.Fatalf("ExtractAmount(%q) ok = %v, want %v", tt.body, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ExtractAmount(%q) = %s, want %s", tt.body, got, want)
			}
		})
	}
}
