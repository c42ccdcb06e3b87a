package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/fundkeeper/internal/app"
	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/config"
	"github.com/mmynk/fundkeeper/internal/gateway"
	"github.com/mmynk/fundkeeper/internal/remote"
	"github.com/mmynk/fundkeeper/internal/view"
)

var errNotAuthorized = errors.New("not an approved member of the fund")

// connectClient signs in against the configured document server. The returned
// function closes the client and its connections.
func connectClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, sink view.Sink) (*app.Client, func(), error) {
	if cfg.Token == "" {
		return nil, nil, auth.ErrMissingToken
	}
	// Tokens are verified locally before any call is made
	if err := cfg.RequireSecret(); err != nil {
		return nil, nil, err
	}

	provider := auth.NewTokenProvider(auth.NewJWTManager(cfg.TokenSecret, cfg.TokenTTL), cfg.Token)
	store := remote.New(cfg.ServerURL, provider.Token,
		remote.WithLogger(logger.With("component", "remote")),
	)

	client := app.New(provider, store, sink, app.Options{
		Currency:   cfg.Currency,
		Theme:      view.Theme(cfg.Theme),
		Timeout:    cfg.RemoteTimeout,
		EditPolicy: gateway.EditPolicy(cfg.EditPolicy),
		Logger:     logger,
	})
	closeFn := func() {
		client.Close()
		_ = store.Close()
	}

	if err := client.Start(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return client, closeFn, nil
}

func watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the fund live until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := commonRun(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, closeFn, err := connectClient(ctx, cfg, logger, view.NewTerminal(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer closeFn()

			<-ctx.Done()
			return nil
		},
	}
}

// runCommand signs in, waits for the replica and dispatches one command.
func runCommand(cmd *cobra.Command, command app.Command) error {
	cfg, logger := commonRun(cmd)
	ctx := cmd.Context()

	client, closeFn, err := connectClient(ctx, cfg, logger, view.NewTerminal(io.Discard))
	if err != nil {
		return err
	}
	defer closeFn()

	if err := waitAuthorized(ctx, cfg, client); err != nil {
		if _, ok := command.(app.ResendRequest); !ok {
			return err
		}
	}
	if err := client.Dispatch(ctx, command); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

// waitAuthorized returns once the live queries have synced, or
// errNotAuthorized when the session never reaches the ledger.
func waitAuthorized(ctx context.Context, cfg *config.Config, client *app.Client) error {
	s := client.Session()
	if s.Status != view.StatusAuthorized {
		return fmt.Errorf("%w: %s", errNotAuthorized, s.Status)
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.RemoteTimeout)
	defer cancel()
	return client.WaitSynced(ctx)
}

func ledgerCommands() []*cobra.Command {
	addFund := &cobra.Command{
		Use:   "add-fund <name> <amount>",
		Short: "Record a contribution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.AddFund{Name: args[0], Amount: args[1]})
		},
	}

	addExpense := &cobra.Command{
		Use:   "add-expense <date> <description> <spender> <amount>",
		Short: "Record money spent from the fund",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.AddExpense{Date: args[0], Desc: args[1], Spender: args[2], Amount: args[3]})
		},
	}

	editContributor := &cobra.Command{
		Use:   "edit-contributor <id> <name> <amount>",
		Short: "Edit a contribution",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.SaveContributor{ID: args[0], Name: args[1], Amount: args[2]})
		},
	}

	deleteContributor := confirmedCommand("delete-contributor <id>", "Delete a contribution",
		"Delete contribution %s?",
		func(id string) app.Command { return app.DeleteContributor{ID: id} },
	)

	var spender string
	editExpense := &cobra.Command{
		Use:   "edit-expense <id> <date> <description> <amount>",
		Short: "Edit an expense",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.SaveExpense{
				ID: args[0], Date: args[1], Desc: args[2], Spender: spender, Amount: args[3],
			})
		},
	}
	editExpense.Flags().StringVar(&spender, "spender", "", "new spender (kept when empty)")

	deleteExpense := confirmedCommand("delete-expense <id>", "Delete an expense",
		"Delete expense %s?",
		func(id string) app.Command { return app.DeleteExpense{ID: id} },
	)

	return []*cobra.Command{addFund, addExpense, editContributor, deleteContributor, editExpense, deleteExpense}
}
