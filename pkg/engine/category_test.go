package engine

import (
	"testing"

	"github.com/adikhanna/smsledger/pkg/api"
)

func TestDetectCategory(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name     string
		merchant string
		body     string
		want     string
	}{
		{
			name:     "exact catalog match",
			merchant: "ZOMATO",
			body:     "INR 250.00 spent using XYZ Bank Card on 12-Jan-24 on ZOMATO",
			want:     api.CategoryFood,
		},
		{
			// "Swiggy Limited" is food delivery but "SWIGGY LIMITED" is the
			// Instamart grocery entry; the exact match must win over the
			// earlier case-insensitive candidate.
			name:     "exact match beats case-insensitive match",
			merchant: "SWIGGY LIMITED",
			body:     "",
			want:     api.CategoryGrocery,
		},
		{
			name:     "case-insensitive match takes the first catalog entry",
			merchant: "swiggy limited",
			body:     "",
			want:     api.CategoryFood,
		},
		{
			name:     "keyword match on body",
			merchant: api.UnknownMerchant,
			body:     "Rs 500 paid for dinner at the new restaurant",
			want:     api.CategoryFood,
		},
		{
			name:     "keyword category order food before grocery",
			merchant: api.UnknownMerchant,
			body:     "Rs 800 spent at the food mart",
			want:     api.CategoryFood,
		},
		{
			name:     "recharge keyword",
			merchant: api.UnknownMerchant,
			body:     "Recharge of Rs 239 successful",
			want:     api.CategoryRecharge,
		},
		{
			name:     "investment keyword",
			merchant: api.UnknownMerchant,
			body:     "Rs 10,000 debited towards Zerodha Broking",
			want:     api.CategoryInvestment,
		},
		{
			name:     "keyword match on merchant name",
			merchant: "Angel Broking Ltd",
			body:     "",
			want:     api.CategoryInvestment,
		},
		{
			name:     "nothing matches falls to misc",
			merchant: "JOHN DOE",
			body:     "Rs 5000 trf to JOHN DOE Refno 998877",
			want:     api.CategoryMisc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.DetectCategory(tt.merchant, tt.body); got != tt.want {
				t.Errorf("DetectCategory(%q, %q) = %q, want %q", tt.merchant, tt.body, got, tt.want)
			}
		})
	}
}
