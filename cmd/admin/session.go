package main

import (
	"fmt"
	"time"

	"github.com/2beens/portfolio/pkg"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the portfolio admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd, password, "PORTFOLIO_ADMIN_PASSWORD", "Password: ")
			if err != nil {
				return err
			}

			token, err := a.client.Login(cmd.Context(), email, secret)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in, session valid until %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (env PORTFOLIO_ADMIN_PASSWORD, or prompted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.client.Session(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), session valid until %s\n",
				session.Email, session.Subject, session.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	var (
		password string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash for PORTFOLIO_ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		// works offline, no session needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd, password, "PORTFOLIO_ADMIN_PASSWORD", "Password: ")
			if err != nil {
				return err
			}

			hash, err := pkg.HashPassword(secret, cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password to hash (env PORTFOLIO_ADMIN_PASSWORD, or prompted)")
	cmd.Flags().IntVar(&cost, "cost", pkg.PasswordHashCost, "bcrypt cost")

	return cmd
}
