package engine

import "testing"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New()
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return eng
}

func TestIsExpenseMessage(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "bill reminder with amount payable",
			body: "Your electricity bill of Rs.1200 is generated. Please pay the amount payable by due date 15-Jan.",
			want: false,
		},
		{
			name: "overdue bill",
			body: "Your credit card bill is overdue. Please make the payment immediately.",
			want: false,
		},
		{
			name: "personal loan promotion",
			body: "You qualify for a pre-approved personal loan of Rs.5,00,000. T&C",
			want: false,
		},
		{
			name: "cashback promotion",
			body: "Shop today for a chance to win Rs.100 cashback rewards!",
			want: false,
		},
		{
			name: "mutual fund NAV update",
			body: "NAV of your mutual fund scheme has increased to 45.67 as on 12-Jan",
			want: false,
		},
		{
			name: "SIP folio processing",
			body: "Your SIP of Rs 2000 has been processed, folio 12345",
			want: false,
		},
		{
			name: "credit notification reusing transfer wording",
			body: "Rs 3500 received via transfer to your account. Txn ID 887766",
			want: false,
		},
		{
			name: "balance only notice",
			body: "Your a/c balance is Rs 10,500 as on 12-Jan",
			want: false,
		},
		{
			name: "no transaction verb",
			body: "Thank you for visiting our outlet today",
			want: false,
		},
		{
			name: "debited from account",
			body: "Rs.500 debited from HDFC Bank a/c XX1234 on 12-Jan",
			want: true,
		},
		{
			name: "card spend",
			body: "INR 250.00 spent using XYZ Bank Card on 12-Jan-24 on ZOMATO",
			want: true,
		},
		{
			name: "peer transfer",
			body: "Rs 5000 trf to JOHN DOE Refno 998877",
			want: true,
		},
		{
			name: "cash withdrawal",
			body: "Rs 2000 withdrawn from SBI ATM on 10-Jan",
			want: true,
		},
		{
			name: "fallback verb plus currency",
			body: "You have paid Rs 299 for your order",
			want: true,
		},
		{
			name: "fallback blocked by bill payment phrase",
			body: "You have paid Rs 299. Bill payment successful.",
			want: false,
		},
		{
			// The credited/received check only fires when no outbound verb is
			// present. Compound messages carrying both clauses are accepted;
			// this is a deliberate heuristic compromise.
			name: "compound credit and debit message",
			body: "Rs 900 credited to your a/c. Rs 200 debited from your a/c. Txn ID 12345",
			want: true,
		},
		{
			name: "NAV mention with a real debit",
			body: "Rs 1500 debited from HDFC Bank a/c towards mutual fund purchase",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.IsExpenseMessage(tt.body); got != tt.want {
				t.Errorf("IsExpenseMessage(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
