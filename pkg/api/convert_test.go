package api

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToContributorAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		want    string
		wantErr bool
	}{
		{name: "integer", amount: "500", want: "500"},
		{name: "fraction", amount: "12.50", want: "12.5"},
		{name: "empty", amount: "", wantErr: true},
		{name: "not a number", amount: "NaN", wantErr: true},
		{name: "garbage", amount: "12abc", wantErr: true},
		{name: "largest allowed", amount: "999999999999999.12345678", want: "999999999999999.12345678"},
		{name: "huge exponent", amount: "1e50000000", wantErr: true},
		{name: "tiny exponent", amount: "1e-50000000", wantErr: true},
		{name: "too many integer digits", amount: "1000000000000000", wantErr: true},
		{name: "too many decimal places", amount: "0.000000001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToContributor(&Contributor{Name: "Alice", Amount: tt.amount})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for amount %q", tt.amount)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Amount.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("amount = %s, want %s", got.Amount, tt.want)
			}
		})
	}
}

func TestToContributorRequiresMessage(t *testing.T) {
	if _, err := ToContributor(nil); err == nil {
		t.Error("expected error for nil contributor")
	}
	if _, err := ToExpense(nil); err == nil {
		t.Error("expected error for nil expense")
	}
}

func TestCodec(t *testing.T) {
	var c Codec
	if c.Name() != CodecName {
		t.Errorf("Name() = %q, want %q", c.Name(), CodecName)
	}

	var req GetUserRequest
	if err := c.Unmarshal(nil, &req); err != nil {
		t.Fatalf("empty payload: %v", err)
	}

	b, err := c.Marshal(&Expense{Date: "2024-01-02", Desc: "Tea", Spender: "Bob", Amount: "20"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var e Expense
	if err := c.Unmarshal(b, &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.Desc != "Tea" || e.Amount != "20" {
		t.Errorf("got %+v", e)
	}
	if err := c.Unmarshal([]byte("{"), &e); err == nil {
		t.Error("expected error for truncated payload")
	}
}
