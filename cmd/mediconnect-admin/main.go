// Package main is the MediConnect administration CLI. It prepares the
// schema and provisions admin accounts, which the HTTP surface cannot do.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/config"
	"github.com/mediconnect/mediconnect/internal/logging"
	"github.com/mediconnect/mediconnect/internal/model"
	"github.com/mediconnect/mediconnect/internal/repository"
	"github.com/mediconnect/mediconnect/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "mediconnect-admin",
		Short:         "Administer a MediConnect database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "database URL (overrides DATABASE_URL)")

	cmd.AddCommand(newMigrateCmd(opts), newCreateAdminCmd(opts), newCheckCmd(opts))
	return cmd
}

// session bundles what every subcommand needs.
type session struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *slog.Logger
}

func (o *rootOptions) open(ctx context.Context, stderr io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.databaseURL != "" {
		cfg.DatabaseURL = o.databaseURL
	}

	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	repo, err := repository.New(ctx, cfg.DatabaseURL, cfg.DatabaseOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %s", logging.RedactURL(cfg.DatabaseURL), logging.SanitizeError(err, cfg.DatabaseURL))
	}
	return &session{cfg: cfg, repo: repo, logger: logger}, nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.repo.Close()

			if err := s.repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", s.repo.Engine())
			return nil
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.repo.Close()

			if err := s.repo.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", s.repo.Engine())
			return nil
		},
	}
}

type createAdminOptions struct {
	name          string
	email         string
	password      string
	passwordStdin bool
}

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	in := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an account with the admin role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := in.resolvePassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			s, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.repo.Close()

			if err := s.repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			accounts := service.NewAccountService(s.repo, auth.NewArgon2Hasher(s.cfg.Argon2Params()), nil)
			id, err := accounts.Register(cmd.Context(), service.RegisterInput{
				Name:     in.name,
				Email:    in.email,
				Password: password,
				Role:     model.RoleAdmin,
			})
			if err != nil {
				return err
			}

			s.logger.Info("admin_created", "user_id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "display name")
	cmd.Flags().StringVar(&in.email, "email", "", "login email")
	cmd.Flags().StringVar(&in.password, "password", "", "password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&in.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func (o *createAdminOptions) resolvePassword(stdin io.Reader) (string, error) {
	if !o.passwordStdin {
		if o.password == "" {
			return "", errors.New("one of --password or --password-stdin is required")
		}
		return o.password, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password on stdin")
	}
	return line, nil
}
