package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-hackathon-board/internal/application/board"
	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/transport/web"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule over HTTP",
		Long: `Runs the HTTP API: read the schedule and the live board projection, export it
as ICS, and edit entries (protected by basic auth when admin credentials are set).

The in-memory timeline follows the change feed and the periodic resync, so
edits from other processes are served without a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				root.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(withContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root.cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	server := newWebServer(cfg, rt)
	refresh := board.NewRefreshController(rt.store, func(err error) {
		if err != nil {
			util.LogWarnf("Schedule reload failed: %v", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		refresh.Run(gctx)
		return nil
	})

	if rt.feed != nil {
		sub, err := rt.feed.Subscribe(gctx, cfg.Feed.Topic, refresh.Notify)
		if err != nil {
			util.LogErrorf("Failed to subscribe to change feed, relying on resync: %v", err)
		} else {
			defer sub.Unsubscribe()
		}
	}

	if err := rt.store.Load(gctx); err != nil {
		util.LogWarnf("Initial schedule load failed, serving empty schedule until the next reload: %v", err)
	}

	stopResync, err := refresh.StartResync(cfg.Feed.ResyncCron)
	if err != nil {
		return err
	}
	defer stopResync()

	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.Server.Addr,
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
	})

	return g.Wait()
}

func newWebServer(cfg *config.Config, rt *boardRuntime) *web.Server {
	policy, _ := model.ParseWrapPolicy(cfg.Display.WrapPolicy)

	opts := []web.Option{
		web.WithClock(clock.System(nil)),
		web.WithWrapPolicy(policy),
		web.WithCalendarName(cfg.Display.EventTitle),
	}
	if cfg.Server.AuthEnabled() {
		opts = append(opts, web.WithBasicAuth(cfg.Server.AdminUser, cfg.Server.AdminPassword))
	}
	if rt.registry != nil {
		opts = append(opts, web.WithMetrics(cfg.Metrics.Path,
			promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{Registry: rt.registry})))
	}
	return web.NewServer(rt.store, opts...)
}
