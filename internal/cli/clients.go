package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"filternet/internal/catalog"
	"filternet/internal/dashboard"
	"filternet/internal/validation"
)

func newClientsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List filtered devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := ws.Dashboard.LoadClients(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load clients: %w", err)
			}

			snap := ws.Dashboard.Snapshot()
			out := cmd.OutOrStdout()
			if len(snap.Clients) == 0 {
				fmt.Fprintln(out, "No devices")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDEVICE\tEMAIL\tSTATUS\tBLOCKED")
			for _, c := range snap.Clients {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.DeviceName, c.Email, c.Status, len(c.BlockedServices))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d devices, %d Active, %d services blocked\n",
				snap.Stats.Devices, snap.Stats.ActiveDevices, snap.Stats.TotalBlocked)
			return nil
		},
	}
}

func newServicesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "services <client-id>",
		Short: "Show which services a device blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateID("client", args[0]); err != nil {
				return err
			}
			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := ws.Dashboard.LoadClientServices(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to load services: %w", err)
			}
			return printServices(cmd.OutOrStdout(), ws.Dashboard.Snapshot())
		},
	}
}

func printServices(out io.Writer, snap dashboard.Snapshot) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, group := range catalog.GroupByCategory(snap.Services) {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, group.Title)
		for _, s := range group.Services {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.ID, s.Name, s.Status)
		}
	}
	return tw.Flush()
}

// newToggleCmd builds "block" and "allow", which differ only in direction
func newToggleCmd(rt *runtime, use string, block bool) *cobra.Command {
	short := "Allow a service on a device"
	if block {
		short = "Block a service on a device"
	}
	return &cobra.Command{
		Use:   use + " <client-id> <service-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, serviceID := args[0], args[1]
			if err := validation.ValidateIDs("client", clientID, "service", serviceID); err != nil {
				return err
			}
			if _, ok := catalog.Lookup(serviceID); !ok {
				return fmt.Errorf("unknown service %q", serviceID)
			}

			ws, err := rt.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			state := ws.Dashboard
			if _, ok := state.Snapshot().Client(clientID); !ok {
				if err := state.LoadClients(cmd.Context()); err != nil {
					return fmt.Errorf("failed to load clients: %w", err)
				}
			}
			if err := state.LoadClientServices(cmd.Context(), clientID); err != nil {
				return fmt.Errorf("failed to load services: %w", err)
			}

			err = state.ToggleService(cmd.Context(), clientID, serviceID, block)
			printNotifications(cmd, state)
			return err
		},
	}
}

// printNotifications drains the dashboard's toasts. Errors go to stderr.
func printNotifications(cmd *cobra.Command, state *dashboard.State) {
	for _, n := range state.TakeNotifications() {
		if n.Kind == dashboard.NotifyError {
			fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.Message)
	}
}
