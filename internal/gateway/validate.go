package gateway

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/models"
)

// ContributionInput is a contribution as entered by the user.
type ContributionInput struct {
	Name   string
	Amount string
}

// ExpenseInput is an expense as entered by the user. Spender may be left
// empty on edits to keep the recorded spender.
type ExpenseInput struct {
	Date    string
	Desc    string
	Spender string
	Amount  string
}

func requireText(op, field, v string) (string, *errs.Error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errs.Validation(op, field+" is required")
	}
	return v, nil
}

func requireID(op, id string) (string, *errs.Error) {
	return requireText(op, "record id", id)
}

// parseAmount accepts a finite decimal greater than zero within the
// models amount bounds.
func parseAmount(op, v string) (decimal.Decimal, *errs.Error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Decimal{}, errs.Validation(op, "amount is required")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, errs.Validation(op, "amount must be a number")
	}
	if err := models.CheckAmountRange(d); err != nil {
		return decimal.Decimal{}, errs.Validation(op, err.Error())
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errs.Validation(op, "amount must be greater than zero")
	}
	return d, nil
}

func parseDate(op, v string) (string, *errs.Error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errs.Validation(op, "date is required")
	}
	if _, err := time.Parse(models.DateLayout, v); err != nil {
		return "", errs.Validation(op, "date must be a calendar date (YYYY-MM-DD)")
	}
	return v, nil
}

func (in ContributionInput) validate(op string) (models.Contributor, *errs.Error) {
	name, err := requireText(op, "name", in.Name)
	if err != nil {
		return models.Contributor{}, err
	}
	amount, err := parseAmount(op, in.Amount)
	if err != nil {
		return models.Contributor{}, err
	}
	return models.Contributor{Name: name, Amount: amount}, nil
}

// validate checks the input. Spender is required unless spenderOptional.
func (in ExpenseInput) validate(op string, spenderOptional bool) (models.Expense, *errs.Error) {
	date, err := parseDate(op, in.Date)
	if err != nil {
		return models.Expense{}, err
	}
	desc, err := requireText(op, "description", in.Desc)
	if err != nil {
		return models.Expense{}, err
	}
	spender := strings.TrimSpace(in.Spender)
	if spender == "" && !spenderOptional {
		return models.Expense{}, errs.Validation(op, "spender is required")
	}
	amount, err := parseAmount(op, in.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	return models.Expense{Date: date, Desc: desc, Spender: spender, Amount: amount}, nil
}
