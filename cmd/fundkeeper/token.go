package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/fundkeeper/internal/auth"
	"github.com/mmynk/fundkeeper/internal/models"
	"github.com/mmynk/fundkeeper/internal/storage"
	"github.com/mmynk/fundkeeper/internal/storage/sqlite"
)

func tokenCommand() *cobra.Command {
	var id auth.Identity
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := commonRun(cmd)
			if err := cfg.RequireSecret(); err != nil {
				return err
			}
			token, err := auth.NewJWTManager(cfg.TokenSecret, cfg.TokenTTL).Generate(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&id.UID, "uid", "", "identity id")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&id.Email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

// grantAdminCommand bootstraps the first administrator by writing the
// profile straight into the server database.
func grantAdminCommand() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "grant-admin <uid>",
		Short: "Make a user an approved administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := commonRun(cmd)
			store, err := sqlite.New(cfg.DatabasePath, sqlite.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			user, err := store.GetUser(ctx, args[0])
			switch {
			case errors.Is(err, storage.ErrNotFound):
				user = models.NewPendingUser(args[0], name, email)
			case err != nil:
				return err
			}
			if name != "" {
				user.DisplayName = name
			}
			if email != "" {
				user.Email = email
			}
			user.Role = models.RoleAdmin
			user.Status = models.StatusApproved
			if err := store.SetUser(ctx, user); err != nil {
				return err
			}
			logger.Info("Granted admin", "uid", user.ID, "name", user.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for a new profile")
	cmd.Flags().StringVar(&email, "email", "", "email address for a new profile")
	return cmd
}
