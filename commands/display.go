package commands

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-hackathon-board/internal/application/board"
	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

type displayOptions struct {
	view        string
	wrapPolicy  string
	title       string
	refreshRate float64
	noColor     bool
	once        bool
}

func newDisplayCmd(root *rootOptions) *cobra.Command {
	opts := &displayOptions{}

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Show the live schedule board",
		Long: `Shows the schedule full-screen and keeps it current: the entry in progress is
highlighted and the next important entry is counted down every second.

Keys:
  1/t  title view      2/c  clock view      3/d  dashboard view
  r    reload          h/?  help            q    quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisplay(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.view, "view", "",
		"Initial view (dashboard, clock, title)")
	cmd.Flags().StringVar(&opts.wrapPolicy, "wrap", "",
		"Countdown after the last important entry (none, next-day)")
	cmd.Flags().StringVar(&opts.title, "title", "",
		"Event title shown in the header")
	cmd.Flags().Float64Var(&opts.refreshRate, "refresh-per-second", 0,
		"Display refresh rate in Hz (0.1-20, default from config)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false,
		"Disable ANSI colors")
	cmd.Flags().BoolVar(&opts.once, "once", false,
		"Print a single frame to stdout and exit")
	return cmd
}

func (o *displayOptions) apply(cfg *board.BoardConfig) error {
	if o.view != "" {
		cfg.View = o.view
	}
	if o.wrapPolicy != "" {
		cfg.WrapPolicy = o.wrapPolicy
	}
	if o.title != "" {
		cfg.EventTitle = o.title
	}
	if o.refreshRate != 0 {
		rate, err := refreshInterval(o.refreshRate)
		if err != nil {
			return err
		}
		cfg.RefreshRate = rate
	}
	if o.noColor || o.once {
		cfg.Color = false
	}
	return cfg.Validate()
}

func runDisplay(cmd *cobra.Command, root *rootOptions, opts *displayOptions) error {
	boardCfg := board.FromConfig(root.cfg)
	if err := opts.apply(boardCfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(withContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, root.cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	orchestratorOpts := []board.Option{board.WithClock(clock.System(nil))}
	if rt.feed != nil {
		orchestratorOpts = append(orchestratorOpts, board.WithFeed(rt.feed))
	}
	o, err := board.NewOrchestrator(boardCfg, rt.store, orchestratorOpts...)
	if err != nil {
		return err
	}

	if opts.once {
		return o.RenderOnce(ctx, cmd.OutOrStdout())
	}

	util.LogInfof("Board started (view %s, store %s)", boardCfg.View, root.cfg.Store.Driver)
	return o.Run(ctx)
}

// withContext returns cmd's context, or Background when it has none.
func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// refreshInterval converts a refresh rate in Hz to a tick interval.
func refreshInterval(hz float64) (time.Duration, error) {
	if hz < 0.1 || hz > 20 {
		return 0, fmt.Errorf("refresh-per-second must be between 0.1 and 20")
	}
	return time.Duration(math.Round(float64(time.Second) / hz)), nil
}
