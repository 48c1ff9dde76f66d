package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bazaar/internal/config"
	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/validate"
)

func createAdminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, ok := validate.Email(email)
			if !ok {
				return fmt.Errorf("invalid email %q", email)
			}
			if !validate.Password(password) {
				return fmt.Errorf("password must be 8-64 characters with upper, lower, digit and symbol")
			}
			nm, ok := validate.Name(name)
			if !ok {
				return fmt.Errorf("invalid name %q", name)
			}
			return withRepos(cmd.Context(), func(cfg config.Config, r *repos.Repos) error {
				auth := services.NewAuthService(r.Users, cfg.JWTSecret, cfg.TokenTTL)
				u, err := auth.CreateUser(cmd.Context(), nm, addr, password, domain.RoleAdmin)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func promoteUserCmd() *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "promote-user",
		Short: "Change the role of an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd.Context(), func(_ config.Config, r *repos.Repos) error {
				u, err := services.NewAdminService(r).SetRoleByEmail(cmd.Context(), email, role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "New role (customer, seller, admin)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd.Context(), func(_ config.Config, r *repos.Repos) error {
				if err := repos.Seed(cmd.Context(), r); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded demo data (password %q)\n", repos.SeedPassword)
				return nil
			})
		},
	}
}
