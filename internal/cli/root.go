// Package cli is the filternet command line. It signs in to the same
// backend as the web dashboard and drives the same dashboard state, with
// the session kept in the configured database under one profile per OS user.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"filternet/internal/app"
	"filternet/internal/config"
	"filternet/internal/database"
	"filternet/internal/repository"
	"filternet/internal/security"
	"filternet/internal/service"
	"filternet/internal/session"
)

var errNotSignedIn = errors.New("not signed in, run `filternet login` first")

// runtime is what every command works against. Fields left nil are filled
// in from the environment before the first command runs.
type runtime struct {
	cfg     *config.Config
	kv      session.KV
	sealer  *security.Sealer
	profile string

	ephemeral bool
	debug     bool

	db *database.DB
	ws *app.Workspace
}

// NewRootCmd builds the filternet command tree
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &runtime{})
}

func newRootCmd(version string, rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "filternet",
		Short:         "FilterNet VPN parental controls",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.close()
		},
	}
	root.PersistentFlags().BoolVar(&rt.ephemeral, "ephemeral", false, "Keep the session in memory only")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Log backend requests")

	root.AddCommand(newLoginCmd(rt))
	root.AddCommand(newLogoutCmd(rt))
	root.AddCommand(newStatusCmd(rt))
	root.AddCommand(newClientsCmd(rt))
	root.AddCommand(newServicesCmd(rt))
	root.AddCommand(newToggleCmd(rt, "block", true))
	root.AddCommand(newToggleCmd(rt, "allow", false))
	root.AddCommand(newMembersCmd(rt))
	root.AddCommand(newLimitsCmd(rt))
	root.AddCommand(newBedtimeCmd(rt))
	root.AddCommand(newDigestCmd(rt))
	return root
}

func (rt *runtime) open(ctx context.Context) error {
	if rt.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		rt.cfg = cfg
	}
	if rt.debug {
		rt.cfg.Debug = true
	}

	if rt.kv == nil {
		if rt.ephemeral {
			rt.kv = session.NewMemoryKV()
		} else {
			db, err := database.InitializeWithConfig(rt.cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := db.RunMigrations(ctx); err != nil {
				db.Close()
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			rt.db = db
			rt.kv = repository.NewKVRepository(db)
		}
	}

	if rt.sealer == nil && rt.cfg.StorageSecret != "" {
		sealer, err := security.NewSealer(rt.cfg.StorageSecret)
		if err != nil {
			return fmt.Errorf("failed to initialize token sealing: %w", err)
		}
		rt.sealer = sealer
	}

	if rt.profile == "" {
		rt.profile = profileName()
	}
	return nil
}

func (rt *runtime) close() error {
	if rt.db == nil {
		return nil
	}
	err := rt.db.Close()
	rt.db = nil
	rt.kv = nil
	rt.ws = nil
	return err
}

// workspace returns the session of the current OS user
func (rt *runtime) workspace() *app.Workspace {
	if rt.ws == nil {
		rt.ws = app.NewWorkspace(rt.cfg, session.NewStore(rt.kv, rt.profile, rt.sealer))
	}
	return rt.ws
}

// signedIn returns the workspace and its user, or errNotSignedIn
func (rt *runtime) signedIn(ctx context.Context) (*app.Workspace, error) {
	ws := rt.workspace()
	if _, err := ws.Auth.RequireAuthenticated(ctx); err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			return nil, errNotSignedIn
		}
		return nil, err
	}
	return ws, nil
}

// profileName keys CLI sessions by OS user so they never collide with
// browser profiles
func profileName() string {
	name := "default"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = strings.ReplaceAll(u.Username, `\`, "_")
	}
	return "cli:" + name
}
