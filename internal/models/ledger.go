package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for Expense.Date.
const DateLayout = "2006-01-02"

// Amounts carry at most MaxAmountDigits integer digits and MaxAmountScale
// decimal places.
const (
	MaxAmountDigits = 15
	MaxAmountScale  = 8
)

// CheckAmountRange rejects amounts outside the bounds above. It reads only
// the coefficient and exponent, so huge exponents are refused without
// expanding them.
func CheckAmountRange(d decimal.Decimal) error {
	if d.Exponent() < -MaxAmountScale {
		return fmt.Errorf("amount has more than %d decimal places", MaxAmountScale)
	}
	if d.NumDigits()+int(d.Exponent()) > MaxAmountDigits {
		return fmt.Errorf("amount has more than %d integer digits", MaxAmountDigits)
	}
	return nil
}

// Contributor represents one contribution event to the fund.
// Several records may share a Name; they are not per-person running totals.
type Contributor struct {
	ID     string
	Name   string
	Amount decimal.Decimal

	// CreatedBy is the id of the user that recorded the contribution.
	// Empty for records written before authorship was tracked.
	CreatedBy string
}

// Expense represents money spent from the fund.
type Expense struct {
	ID string

	// Date is the calendar date of the expense in DateLayout form.
	Date string

	// Desc describes what the money was spent on.
	Desc string

	// Spender is the name of the person who spent the money.
	Spender string

	Amount    decimal.Decimal
	CreatedBy string
}

// LogEntry is one line of the append-only audit trail.
type LogEntry struct {
	ID      string
	Message string

	// Timestamp is assigned by the store at write time and never
	// decreases between successive entries.
	Timestamp time.Time
}

// Totals are the aggregates derived from the current snapshots.
type Totals struct {
	TotalFund  decimal.Decimal
	TotalSpent decimal.Decimal
	Balance    decimal.Decimal
}

// MemberSummary is the contributed and spent amounts recorded under one name.
type MemberSummary struct {
	Name        string
	Contributed decimal.Decimal
	Spent       decimal.Decimal
}
