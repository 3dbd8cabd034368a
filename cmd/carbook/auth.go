package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onlybigcars/carbook/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <phone> [otp]",
	Short: "Log in with a one-time password",
	Long: `Without an OTP, requests one for the phone number.
With an OTP, verifies it and stores the session tokens.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		phone := args[0]
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			if err := s.Client().RequestOTP(cmd.Context(), phone); err != nil {
				return err
			}
			fmt.Fprintf(out, "OTP sent to %s. Run `carbook login %s <otp>` to finish.\n", phone, phone)
			return nil
		}

		tokens, err := s.Login(cmd.Context(), phone, args[1])
		if err != nil {
			return err
		}
		if tokens.IsNewUser {
			fmt.Fprintln(out, "Account created. Logged in.")
		} else {
			fmt.Fprintln(out, "Logged in.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		if err := s.Auth().Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		if err := s.Auth().Require(cmd.Context()); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			return err
		}
		tokens, err := s.Auth().Load(cmd.Context())
		if err != nil {
			return err
		}
		userID, err := s.Client().WhoAmI(cmd.Context())
		if err != nil {
			return fmt.Errorf("verify session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s)\n", userID, tokens.PhoneNumber)
		return nil
	},
}
