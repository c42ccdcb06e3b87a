// Package calculator derives the fund aggregates from the current snapshots.
//
// Every function here is pure: no I/O, no shared state, and the same inputs
// always give the same result, whatever order or how often they are called.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/models"
)

// ComputeTotals sums the contributor and expense snapshots.
//
// Algorithm:
// - TotalFund  = sum of every Contributor.Amount
// - TotalSpent = sum of every Expense.Amount
// - Balance    = TotalFund - TotalSpent
//
// Amounts keep their stored precision; nothing is rounded.
func ComputeTotals(contributors []models.Contributor, expenses []models.Expense) models.Totals {
	fund := decimal.Zero
	for _, c := range contributors {
		fund = fund.Add(c.Amount)
	}

	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}

	return models.Totals{
		TotalFund:  fund,
		TotalSpent: spent,
		Balance:    fund.Sub(spent),
	}
}

// MemberSummaries groups amounts by the name they were recorded under:
// contributions by Contributor.Name and expenses by Expense.Spender.
// The result is sorted by name.
func MemberSummaries(contributors []models.Contributor, expenses []models.Expense) []models.MemberSummary {
	byName := make(map[string]*models.MemberSummary)
	get := func(name string) *models.MemberSummary {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &models.MemberSummary{Name: name, Contributed: decimal.Zero, Spent: decimal.Zero}
		byName[name] = s
		return s
	}

	for _, c := range contributors {
		s := get(c.Name)
		s.Contributed = s.Contributed.Add(c.Amount)
	}
	for _, e := range expenses {
		s := get(e.Spender)
		s.Spent = s.Spent.Add(e.Amount)
	}

	summaries := make([]models.MemberSummary, 0, len(byName))
	for _, s := range byName {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}
