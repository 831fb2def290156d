package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"filternet/internal/service"
	"filternet/internal/validation"
)

func newDigestCmd(rt *runtime) *cobra.Command {
	var preview bool
	var to string
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "E-mail the activity digest to the signed-in parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			user, err := ws.Auth.RequireAuthenticated(cmd.Context())
			if err != nil {
				return err
			}
			if to != "" {
				if err := validation.ValidateEmail(to); err != nil {
					return err
				}
				user.Email = to
			}

			email, err := service.NewEmailService(cmd.Context(), rt.cfg.AWSRegion, rt.cfg.SESFromEmail, rt.cfg.SESFromName, rt.cfg.AppBaseURL, rt.cfg.Debug)
			if err != nil {
				return err
			}
			alerts := service.NewAlertService(email, rt.cfg.AppName)

			if preview {
				d, err := alerts.BuildDigest(cmd.Context(), ws.Facades, *user)
				if err != nil {
					return err
				}
				subject, _, text, err := service.RenderDigest(d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n%s", subject, text)
				return nil
			}

			if !alerts.Enabled() {
				return errors.New("e-mail digests are not configured, set SES_FROM_EMAIL or use --preview")
			}
			if _, err := alerts.SendDigest(cmd.Context(), ws.Facades, *user); err != nil {
				return fmt.Errorf("failed to send digest: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Digest sent to %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the digest instead of sending it")
	cmd.Flags().StringVar(&to, "to", "", "Send to this address instead of the account e-mail")
	return cmd
}
