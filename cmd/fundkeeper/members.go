package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/fundkeeper/internal/app"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/view"
)

func memberCommands() []*cobra.Command {
	requests := &cobra.Command{
		Use:   "requests",
		Short: "List users waiting for approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listUsers(cmd, (*app.Client).PendingRequests)
		},
	}

	members := &cobra.Command{
		Use:   "members",
		Short: "List approved members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listUsers(cmd, (*app.Client).Members)
		},
	}

	approve := &cobra.Command{
		Use:   "approve <uid>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.ApproveUser{UID: args[0]})
		},
	}

	reject := confirmedCommand("reject <uid>", "Reject a pending request",
		"Reject the request from %s?",
		func(uid string) app.Command { return app.RejectUser{UID: uid} },
	)

	kick := confirmedCommand("kick <uid>", "Remove a member from the fund",
		"Remove %s from the fund?",
		func(uid string) app.Command { return app.KickUser{UID: uid} },
	)

	resend := &cobra.Command{
		Use:   "resend",
		Short: "Ask the admins to reconsider a rejected request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app.ResendRequest{})
		},
	}

	return []*cobra.Command{requests, members, approve, reject, kick, resend}
}

func listUsers(cmd *cobra.Command, list func(*app.Client, context.Context) ([]models.User, error)) error {
	cfg, logger := commonRun(cmd)
	ctx := cmd.Context()

	client, closeFn, err := connectClient(ctx, cfg, logger, view.NewTerminal(io.Discard))
	if err != nil {
		return err
	}
	defer closeFn()

	users, err := list(client, ctx)
	if err != nil {
		return err
	}
	printUsers(cmd.OutOrStdout(), users)
	return nil
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name(), u.Email, u.Role, u.Status)
	}
	tw.Flush()
}
