package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/eduportal/academic-api/internal/core/service"
)

type createAdminConfig struct {
	name     string
	email    string
	password string
}

// NewCreateAdminCmd creates the create-admin subcommand.
func NewCreateAdminCmd() *cobra.Command {
	cfg := &createAdminConfig{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		Long: `Creates an admin account with the given email and password. If an account
with that email already exists it is promoted to admin and its password is
replaced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&cfg.password, "password", "", "admin password")
	cmd.Flags().StringVar(&cfg.name, "name", "", "display name for a new account")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateAdmin(cmd *cobra.Command, opts *createAdminConfig) error {
	if opts.email == "" || opts.password == "" {
		return errors.New("--email and --password are required")
	}

	ctx := cmd.Context()
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	hasher, err := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	users := service.NewUserService(st.users, nil, hasher, log)
	user, created, err := users.EnsureAdmin(ctx, opts.name, opts.email, opts.password)
	if err != nil {
		return err
	}

	if created {
		cmd.Printf("created admin %s (%s)\n", user.Email, user.ID)
	} else {
		cmd.Printf("promoted %s (%s) to admin\n", user.Email, user.ID)
	}
	return nil
}
