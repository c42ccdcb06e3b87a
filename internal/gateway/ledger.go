package gateway

import (
	"context"
	"fmt"

	"github.com/mmynk/fundkeeper/internal/models"
)

// AddContributor records a contribution to the fund.
func (g *Gateway) AddContributor(ctx context.Context, a Actor, in ContributionInput) (*models.Contributor, error) {
	const op = OpAddContributor
	c, verr := in.validate(op)
	if verr != nil {
		return nil, g.reject(op, verr)
	}
	if perr := requireApproved(op, a); perr != nil {
		return nil, g.reject(op, perr)
	}

	c.CreatedBy = a.UID
	err := g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.CreateContributor(ctx, &c) },
		func() string { return fmt.Sprintf("%s added fund: %s%s", c.Name, g.currency, c.Amount) },
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContributor replaces the name and amount of a contribution.
func (g *Gateway) UpdateContributor(ctx context.Context, a Actor, id string, in ContributionInput) error {
	const op = OpEditContributor
	id, verr := requireID(op, id)
	if verr != nil {
		return g.reject(op, verr)
	}
	c, verr := in.validate(op)
	if verr != nil {
		return g.reject(op, verr)
	}
	existing, found := g.contributor(id)
	if perr := g.requireEditor(op, a, existing.CreatedBy, found); perr != nil {
		return g.reject(op, perr)
	}

	c.ID = id
	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.UpdateContributor(ctx, &c) },
		func() string { return fmt.Sprintf("Contribution for %s was updated.", c.Name) },
	)
}

// DeleteContributor removes a contribution.
func (g *Gateway) DeleteContributor(ctx context.Context, a Actor, id string) error {
	const op = OpDeleteContributor
	id, verr := requireID(op, id)
	if verr != nil {
		return g.reject(op, verr)
	}
	existing, found := g.contributor(id)
	if perr := g.requireEditor(op, a, existing.CreatedBy, found); perr != nil {
		return g.reject(op, perr)
	}

	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.DeleteContributor(ctx, id) },
		func() string { return "A contributor record was deleted." },
	)
}

// AddExpense records money spent from the fund.
func (g *Gateway) AddExpense(ctx context.Context, a Actor, in ExpenseInput) (*models.Expense, error) {
	const op = OpAddExpense
	e, verr := in.validate(op, false)
	if verr != nil {
		return nil, g.reject(op, verr)
	}
	if perr := requireApproved(op, a); perr != nil {
		return nil, g.reject(op, perr)
	}

	e.CreatedBy = a.UID
	err := g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.CreateExpense(ctx, &e) },
		func() string {
			return fmt.Sprintf("%s added expense for \"%s\": %s%s", e.Spender, e.Desc, g.currency, e.Amount)
		},
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateExpense replaces date, description and amount of an expense. The
// spender is kept when in.Spender is empty.
func (g *Gateway) UpdateExpense(ctx context.Context, a Actor, id string, in ExpenseInput) error {
	const op = OpEditExpense
	id, verr := requireID(op, id)
	if verr != nil {
		return g.reject(op, verr)
	}
	e, verr := in.validate(op, true)
	if verr != nil {
		return g.reject(op, verr)
	}
	existing, found := g.expense(id)
	if perr := g.requireEditor(op, a, existing.CreatedBy, found); perr != nil {
		return g.reject(op, perr)
	}

	e.ID = id
	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.UpdateExpense(ctx, &e) },
		func() string { return fmt.Sprintf("Expense \"%s\" was edited.", e.Desc) },
	)
}

// DeleteExpense removes an expense.
func (g *Gateway) DeleteExpense(ctx context.Context, a Actor, id string) error {
	const op = OpDeleteExpense
	id, verr := requireID(op, id)
	if verr != nil {
		return g.reject(op, verr)
	}
	existing, found := g.expense(id)
	if perr := g.requireEditor(op, a, existing.CreatedBy, found); perr != nil {
		return g.reject(op, perr)
	}

	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.DeleteExpense(ctx, id) },
		func() string { return "An expense record was deleted." },
	)
}

func (g *Gateway) contributor(id string) (models.Contributor, bool) {
	if g.records == nil {
		return models.Contributor{}, false
	}
	return g.records.Contributor(id)
}

func (g *Gateway) expense(id string) (models.Expense, bool) {
	if g.records == nil {
		return models.Expense{}, false
	}
	return g.records.Expense(id)
}
