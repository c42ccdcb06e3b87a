// Package view defines the presentation boundary of the client.
//
// The core never draws anything itself. It builds a State and hands it to a
// Sink, which is free to render it however it likes.
package view

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
)

// Status is the session status shown to the user.
type Status string

const (
	StatusUnauthenticated  Status = "unauthenticated"
	StatusAwaitingApproval Status = "awaiting approval"
	StatusRejected         Status = "rejected"
	StatusAuthorized       Status = "authorized"
	StatusProfileError     Status = "profile error"
)

// Theme is the color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is everything a Sink needs to draw one frame.
type State struct {
	Status Status

	// UserName and Role describe the signed-in user. Role is only
	// meaningful when Status is StatusAuthorized.
	UserName string
	Role     models.Role

	// CanResend enables the resend action for rejected users.
	CanResend bool

	Theme    Theme
	Currency string

	Contributors []models.Contributor
	Expenses     []models.Expense
	Logs         []models.LogEntry
	Totals       models.Totals
	Members      []models.MemberSummary

	// Unavailable lists collections whose live query failed.
	Unavailable []storage.Collection
}

// Sink receives render requests from the core.
type Sink interface {
	Render(s State)
	ShowLoading()
	ShowError(msg string)
}

// SortContributors orders contributions by name, keeping the store order for
// equal names.
func SortContributors(cs []models.Contributor) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Name < cs[j].Name
	})
}

// FormatMoney renders an amount with two decimals behind the currency symbol.
func FormatMoney(currency string, amount decimal.Decimal) string {
	return currency + amount.StringFixed(2)
}
