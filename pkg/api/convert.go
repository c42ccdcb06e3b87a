package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fundkeeper/internal/models"
)

func FromUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
	}
}

func ToUser(u *User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        models.Role(u.Role),
		Status:      models.Status(u.Status),
	}
}

func FromUsers(users []models.User) []*User {
	out := make([]*User, len(users))
	for i := range users {
		out[i] = FromUser(&users[i])
	}
	return out
}

func ToUsers(users []*User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, *ToUser(u))
		}
	}
	return out
}

func FromContributor(c *models.Contributor) *Contributor {
	return &Contributor{
		ID:        c.ID,
		Name:      c.Name,
		Amount:    c.Amount.String(),
		CreatedBy: c.CreatedBy,
	}
}

// ToContributor parses c. A missing message or malformed amount is an error.
func ToContributor(c *Contributor) (*models.Contributor, error) {
	if c == nil {
		return nil, fmt.Errorf("contributor is required")
	}
	amount, err := parseAmount(c.Amount)
	if err != nil {
		return nil, err
	}
	return &models.Contributor{ID: c.ID, Name: c.Name, Amount: amount, CreatedBy: c.CreatedBy}, nil
}

func FromContributors(cs []models.Contributor) []*Contributor {
	out := make([]*Contributor, len(cs))
	for i := range cs {
		out[i] = FromContributor(&cs[i])
	}
	return out
}

func ToContributors(cs []*Contributor) ([]models.Contributor, error) {
	out := make([]models.Contributor, 0, len(cs))
	for _, c := range cs {
		m, err := ToContributor(c)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func FromExpense(e *models.Expense) *Expense {
	return &Expense{
		ID:        e.ID,
		Date:      e.Date,
		Desc:      e.Desc,
		Spender:   e.Spender,
		Amount:    e.Amount.String(),
		CreatedBy: e.CreatedBy,
	}
}

func ToExpense(e *Expense) (*models.Expense, error) {
	if e == nil {
		return nil, fmt.Errorf("expense is required")
	}
	amount, err := parseAmount(e.Amount)
	if err != nil {
		return nil, err
	}
	return &models.Expense{
		ID:        e.ID,
		Date:      e.Date,
		Desc:      e.Desc,
		Spender:   e.Spender,
		Amount:    amount,
		CreatedBy: e.CreatedBy,
	}, nil
}

func FromExpenses(es []models.Expense) []*Expense {
	out := make([]*Expense, len(es))
	for i := range es {
		out[i] = FromExpense(&es[i])
	}
	return out
}

func ToExpenses(es []*Expense) ([]models.Expense, error) {
	out := make([]models.Expense, 0, len(es))
	for _, e := range es {
		m, err := ToExpense(e)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func FromLogEntry(l *models.LogEntry) *LogEntry {
	return &LogEntry{ID: l.ID, Message: l.Message, Timestamp: l.Timestamp}
}

func ToLogEntry(l *LogEntry) models.LogEntry {
	return models.LogEntry{ID: l.ID, Message: l.Message, Timestamp: l.Timestamp}
}

func FromLogEntries(ls []models.LogEntry) []*LogEntry {
	out := make([]*LogEntry, len(ls))
	for i := range ls {
		out[i] = FromLogEntry(&ls[i])
	}
	return out
}

func ToLogEntries(ls []*LogEntry) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, ToLogEntry(l))
		}
	}
	return out
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if err := models.CheckAmountRange(d); err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
