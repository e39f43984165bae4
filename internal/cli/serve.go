package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/internal/server"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		ephemeral bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and editing sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend := c.Config.Store.Backend
			var st store.Store
			if ephemeral {
				st, backend = store.NewMemoryStore(), store.BackendMemory
			} else {
				opened, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				st = opened
			}
			defer st.Close()

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sessions := session.NewManager(c.Logger)
			sessions.TTL = c.Config.Server.SessionTTL

			srv := server.New(server.Options{
				Store:    st,
				Sessions: sessions,
				Runner:   runner,
				Render:   c.Config.RenderOptions(),
				Logger:   c.Logger,
			})
			cfg := server.Config{
				Addr:         c.Config.Server.Addr,
				ReadTimeout:  c.Config.Server.ReadTimeout,
				WriteTimeout: c.Config.Server.WriteTimeout,
			}
			if addr != "" {
				cfg.Addr = addr
			}
			printInfo("Serving on http://%s (store: %s)", cfg.Addr, backend)
			return srv.Run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep layouts in memory only")
	return cmd
}
