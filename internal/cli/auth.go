package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var demo bool
	var credential string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google ID token or the demo account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := rt.workspace()
			switch {
			case demo && credential != "":
				return errors.New("use either --demo or --credential")
			case demo:
				if !rt.cfg.DemoMode && rt.cfg.GoogleConfigured() {
					return errors.New("demo sign-in is disabled")
				}
				user, err := ws.Auth.DemoLogin(cmd.Context())
				if err != nil {
					return fmt.Errorf("demo sign-in failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (demo)\n", user.Name)
			case credential != "":
				user, err := ws.Auth.SignInWithCredential(cmd.Context(), credential)
				if err != nil {
					return fmt.Errorf("sign-in failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.Name, user.Email)
			default:
				return errors.New("pass --demo or --credential")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Sign in with the demo account")
	cmd.Flags().StringVar(&credential, "credential", "", "Google ID token to sign in with")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := rt.workspace()
			if err := ws.Auth.Logout(cmd.Context()); err != nil {
				// The local session is gone either way
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: backend logout failed: %v\n", err)
			}
			ws.Dashboard.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the sign-in state and backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := rt.workspace()
			out := cmd.OutOrStdout()

			backend := rt.cfg.APIBaseURL
			if rt.cfg.MockMode {
				backend = "mock data"
			}
			fmt.Fprintf(out, "Backend: %s\n", backend)
			fmt.Fprintf(out, "State:   %s\n", ws.Auth.State(cmd.Context()))

			user, err := ws.Auth.RequireAuthenticated(cmd.Context())
			if err != nil {
				return nil
			}
			if user.Email != "" {
				fmt.Fprintf(out, "User:    %s <%s>\n", user.Name, user.Email)
			} else {
				fmt.Fprintf(out, "User:    %s\n", user.Name)
			}
			return nil
		},
	}
}
