package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/models"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		contributors []models.Contributor
		expenses     []models.Expense
		wantFund     string
		wantSpent    string
		wantBalance  string
	}{
		{
			name:        "empty snapshots",
			wantFund:    "0",
			wantSpent:   "0",
			wantBalance: "0",
		},
		{
			name:         "single contribution and no expenses",
			contributors: []models.Contributor{{Name: "Alice", Amount: amount("500")}},
			wantFund:     "500",
			wantSpent:    "0",
			wantBalance:  "500",
		},
		{
			name:         "contribution minus expense",
			contributors: []models.Contributor{{Name: "Alice", Amount: amount("500")}},
			expenses:     []models.Expense{{Desc: "Snacks", Spender: "Bob", Amount: amount("200")}},
			wantFund:     "500",
			wantSpent:    "200",
			wantBalance:  "300",
		},
		{
			name: "decimal amounts keep precision",
			contributors: []models.Contributor{
				{Name: "Alice", Amount: amount("0.1")},
				{Name: "Alice", Amount: amount("0.2")},
			},
			expenses:    []models.Expense{{Amount: amount("0.3")}},
			wantFund:    "0.3",
			wantSpent:   "0.3",
			wantBalance: "0",
		},
		{
			name:         "overspent fund goes negative",
			contributors: []models.Contributor{{Name: "Alice", Amount: amount("100")}},
			expenses: []models.Expense{
				{Amount: amount("80")},
				{Amount: amount("45.5")},
			},
			wantFund:    "100",
			wantSpent:   "125.5",
			wantBalance: "-25.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.contributors, tt.expenses)
			if !got.TotalFund.Equal(amount(tt.wantFund)) {
				t.Errorf("TotalFund = %s, want %s", got.TotalFund, tt.wantFund)
			}
			if !got.TotalSpent.Equal(amount(tt.wantSpent)) {
				t.Errorf("TotalSpent = %s, want %s", got.TotalSpent, tt.wantSpent)
			}
			if !got.Balance.Equal(amount(tt.wantBalance)) {
				t.Errorf("Balance = %s, want %s", got.Balance, tt.wantBalance)
			}
		})
	}
}

func TestComputeTotals_Deterministic(t *testing.T) {
	contributors := []models.Contributor{
		{Name: "Alice", Amount: amount("500")},
		{Name: "Bob", Amount: amount("120.75")},
	}
	expenses := []models.Expense{
		{Amount: amount("200")},
		{Amount: amount("19.99")},
	}

	first := ComputeTotals(contributors, expenses)
	for i := 0; i < 10; i++ {
		got := ComputeTotals(contributors, expenses)
		if !got.TotalFund.Equal(first.TotalFund) || !got.TotalSpent.Equal(first.TotalSpent) || !got.Balance.Equal(first.Balance) {
			t.Fatalf("call %d returned %+v, want %+v", i, got, first)
		}
	}

	// Reversed input order gives the same sums.
	reversedC := []models.Contributor{contributors[1], contributors[0]}
	reversedE := []models.Expense{expenses[1], expenses[0]}
	got := ComputeTotals(reversedC, reversedE)
	if !got.Balance.Equal(first.Balance) {
		t.Errorf("Balance with reversed input = %s, want %s", got.Balance, first.Balance)
	}

	// Inputs are not modified.
	if contributors[0].Name != "Alice" || !expenses[1].Amount.Equal(amount("19.99")) {
		t.Error("ComputeTotals modified its input")
	}
}

func TestMemberSummaries(t *testing.T) {
	contributors := []models.Contributor{
		{Name: "Bob", Amount: amount("50")},
		{Name: "Alice", Amount: amount("500")},
		{Name: "Bob", Amount: amount("25")},
	}
	expenses := []models.Expense{
		{Spender: "Carol", Amount: amount("40")},
		{Spender: "Bob", Amount: amount("10")},
	}

	got := MemberSummaries(contributors, expenses)
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}

	want := []struct {
		name        string
		contributed string
		spent       string
	}{
		{"Alice", "500", "0"},
		{"Bob", "75", "10"},
		{"Carol", "0", "40"},
	}
	for i, w := range want {
		if got[i].Name != w.name {
			t.Errorf("summary %d name = %s, want %s", i, got[i].Name, w.name)
		}
		if !got[i].Contributed.Equal(amount(w.contributed)) {
			t.Errorf("%s contributed = %s, want %s", w.name, got[i].Contributed, w.contributed)
		}
		if !got[i].Spent.Equal(amount(w.spent)) {
			t.Errorf("%s spent = %s, want %s", w.name, got[i].Spent, w.spent)
		}
	}
}
