package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devxankit/crm-saas/internal/domain"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:       "login <role>",
		Short:     "Log in to an email/password portal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pm", "employee", "sales", "admin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := domain.LookupNamespace(args[0])
			if err != nil {
				return err
			}
			portal, err := a.portals.PasswordLogin(ns.Name)
			if err != nil {
				return err
			}
			profile, err := portal.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in to %s as %s\n", ns.Name, displayName(profile))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newOTPCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Client portal phone login",
	}

	var phone, code string
	send := &cobra.Command{
		Use:   "send",
		Short: "Text a login code to a client phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sent, err := a.portals.Client.SendOTP(cmd.Context(), phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "code sent to %s, valid until %s\n", sent.PhoneNumber, sent.ExpiresAt.Local().Format("15:04:05"))
			return nil
		},
	}
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Exchange a texted code for a client session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := a.portals.Client.VerifyOTP(cmd.Context(), phone, code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in to client as %s\n", displayName(profile))
			return nil
		},
	}
	for _, c := range []*cobra.Command{send, verify} {
		c.Flags().StringVar(&phone, "phone", "", "client phone number")
		_ = c.MarkFlagRequired("phone")
	}
	verify.Flags().StringVar(&code, "code", "", "code received by text")
	_ = verify.MarkFlagRequired("code")

	cmd.AddCommand(send, verify)
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout <role>",
		Short: "End a portal session and clear its stored credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged out of %s\n", s.Namespace().Name)
			return nil
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [role]",
		Short: "Show which portals hold a live session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roles := roleNames()
			if len(args) == 1 {
				roles = args
			}
			for _, role := range roles {
				s, err := a.session(role)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%-9s %s", s.Namespace().Name, s.State(cmd.Context()))
				if token, ok := s.Scope().Tokens.Current(cmd.Context()); ok {
					line += " until " + token.ExpiresAt.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "profile <role>",
		Short: "Print the logged-in actor record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			if cached {
				profile, ok := s.CachedProfile(cmd.Context())
				if !ok {
					return errors.New("no cached profile")
				}
				return printJSON(cmd.OutOrStdout(), profile)
			}
			profile, err := s.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), profile)
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "print the stored record without calling the backend")
	return cmd
}

func displayName(profile domain.Profile) string {
	if name := profile.Name(); name != "" {
		return name
	}
	if email := profile.Email(); email != "" {
		return email
	}
	return "unknown actor"
}
