package enums

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range AllPeriods() {
		parsed, err := ParsePeriod(p.String())
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", p, err)
		}
		if parsed != p {
			t.Fatalf("expected %s, got %s", p, parsed)
		}
	}
	if _, err := ParsePeriod("biweekly"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestPeriodDays(t *testing.T) {
	if got := PeriodMonthly.Days(); got != 30 {
		t.Fatalf("expected monthly cycle of 30 days, got %d", got)
	}
	if got := PeriodLifetime.Days(); got != 0 {
		t.Fatalf("lifetime has no cycle, got %d", got)
	}
}

func TestSubscriptionStatusValidity(t *testing.T) {
	if !SubscriptionStatusPaused.IsValid() {
		t.Fatalf("paused should be valid")
	}
	if SubscriptionStatus("canceled").IsValid() {
		t.Fatalf("canceled is not part of this API")
	}
	if _, err := ParseSubscriptionStatus("expired"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventCodes(t *testing.T) {
	if len(AllEventCodes()) != 16 {
		t.Fatalf("expected 16 event codes, got %d", len(AllEventCodes()))
	}
	if !EventSubDiscountRemoved.IsValid() {
		t.Fatalf("sub_discount_removed should be valid")
	}
	if _, err := ParseEventCode("sub_imploded"); err == nil {
		t.Fatalf("expected error for unknown event code")
	}
}

func TestCurrencyAmountString(t *testing.T) {
	tests := []struct {
		currency Currency
		amount   string
		want     string
	}{
		{currency: CurrencyUSD, amount: "100", want: "$100"},
		{currency: CurrencyRUB, amount: "9.5", want: "₽9.5"},
		{currency: CurrencyUSD, amount: "-3", want: "-$3"},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.amount)
		if err != nil {
			t.Fatalf("bad amount %q: %v", tt.amount, err)
		}
		if got := tt.currency.AmountString(amount); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	if _, err := ParseCurrency("USD"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseCurrency("DOGE"); err == nil {
		t.Fatalf("expected error for unsupported currency")
	}
}
