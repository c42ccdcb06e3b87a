package app

import (
	"context"
	"fmt"

	"github.com/mmynk/fundkeeper/internal/gateway"
)

// Dispatch executes cmd on behalf of the signed-in user. Any error is also
// shown through the sink.
func (c *Client) Dispatch(ctx context.Context, cmd Command) error {
	name := "unknown"
	if cmd != nil {
		name = cmd.commandName()
	}
	err := c.dispatch(ctx, cmd)
	if err != nil {
		c.logger.Debug("Command failed", "command", name, "error", err)
		c.sink.ShowError(err.Error())
	}
	return err
}

func (c *Client) dispatch(ctx context.Context, cmd Command) error {
	actor := c.session.Current().Actor()

	switch cmd := cmd.(type) {
	case AddFund:
		_, err := c.gateway.AddContributor(ctx, actor, gateway.ContributionInput{Name: cmd.Name, Amount: cmd.Amount})
		return err
	case AddExpense:
		_, err := c.gateway.AddExpense(ctx, actor, gateway.ExpenseInput{
			Date: cmd.Date, Desc: cmd.Desc, Spender: cmd.Spender, Amount: cmd.Amount,
		})
		return err
	case SaveContributor:
		return c.gateway.UpdateContributor(ctx, actor, cmd.ID, gateway.ContributionInput{Name: cmd.Name, Amount: cmd.Amount})
	case DeleteContributor:
		return c.gateway.DeleteContributor(ctx, actor, cmd.ID)
	case SaveExpense:
		return c.gateway.UpdateExpense(ctx, actor, cmd.ID, gateway.ExpenseInput{
			Date: cmd.Date, Desc: cmd.Desc, Spender: cmd.Spender, Amount: cmd.Amount,
		})
	case DeleteExpense:
		return c.gateway.DeleteExpense(ctx, actor, cmd.ID)
	case ApproveUser:
		return c.gateway.ApproveUser(ctx, actor, cmd.UID)
	case RejectUser:
		return c.gateway.RejectUser(ctx, actor, cmd.UID)
	case KickUser:
		return c.gateway.KickUser(ctx, actor, cmd.UID)
	case ResendRequest:
		return c.session.Resend(ctx)
	case ToggleTheme:
		c.mu.Lock()
		c.theme = c.theme.Toggle()
		c.mu.Unlock()
		c.render()
		return nil
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}
