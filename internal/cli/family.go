package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"filternet/internal/validation"
)

func newMembersCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List family members and their devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			state := ws.Dashboard
			if err := state.LoadFamilyMembers(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load family members: %w", err)
			}
			if err := state.LoadDevices(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load devices: %w", err)
			}

			snap := state.Snapshot()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tAGE\tPROFILE\tDEVICES")
			for _, m := range snap.Members {
				devices := 0
				for _, d := range snap.Devices {
					if d.MemberID == m.ID {
						devices++
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n", m.ID, m.Name, m.Age, m.Profile, devices)
			}
			return tw.Flush()
		},
	}
}

func newLimitsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "limits <member-id>",
		Short: "Show a member's screen time limits and today's usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateID("member", args[0]); err != nil {
				return err
			}
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := ws.Dashboard.LoadTimeLimits(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to load time limits: %w", err)
			}

			snap := ws.Dashboard.Snapshot()
			out := cmd.OutOrStdout()
			if snap.Usage != nil {
				fmt.Fprintf(out, "Today: %d of %d minutes\n\n", snap.Usage.Daily.Used, snap.Usage.Daily.Limit)
			}
			if len(snap.TimeLimits) == 0 {
				fmt.Fprintln(out, "No app limits")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "APP\tUSED\tLIMIT\tREMAINING")
			for _, l := range snap.TimeLimits {
				remaining := fmt.Sprintf("%d min left", l.RemainingMinutes())
				if l.IsExceeded() {
					remaining = "Limit reached"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", l.App, l.UsedMinutes, l.LimitMinutes, remaining)
			}
			return tw.Flush()
		},
	}
}

func newBedtimeCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bedtime",
		Short: "Bedtime schedules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <member-id>",
		Short: "List a member's bedtime schedules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateID("member", args[0]); err != nil {
				return err
			}
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := ws.Dashboard.LoadBedtimeSchedules(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to load bedtime schedules: %w", err)
			}

			snap := ws.Dashboard.Snapshot()
			if len(snap.Schedules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bedtime schedules")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWINDOW\tDAYS\tACTIVE")
			for _, b := range snap.Schedules {
				fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%t\n", b.ID, b.StartTime, b.EndTime, b.DaysLabel(), b.IsActive)
			}
			return tw.Flush()
		},
	})

	for _, active := range []bool{true, false} {
		use, short := "off <schedule-id>", "Turn a bedtime schedule off"
		if active {
			use, short = "on <schedule-id>", "Turn a bedtime schedule on"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := validation.ValidateID("schedule", args[0]); err != nil {
					return err
				}
				ws, err := rt.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				err = ws.Dashboard.ToggleBedtime(cmd.Context(), args[0], active)
				printNotifications(cmd, ws.Dashboard)
				return err
			},
		})
	}
	return cmd
}
