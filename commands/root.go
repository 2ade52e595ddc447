package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	// Configuration source
	configPath string

	// Overrides
	timezone  string
	storeFile string

	// System and debugging
	debug bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hackathon-board [flags]",
		Short: "Live schedule board for hackathons and conferences",
		Long: `hackathon-board keeps a day's schedule in a shared store and shows it as a
live board: the entry in progress, the next important entry and a countdown to it.

Edits made from any process (CLI, HTTP API or another board) show up on every
running board.

Examples:
  hackathon-board                                   # Show the board with default settings
  hackathon-board display --view clock              # Full-screen countdown
  hackathon-board display --once                    # Print one frame and exit
  hackathon-board schedule add 09:00 Keynote -i     # Add an important entry
  hackathon-board schedule import agenda.ics        # Import events from a calendar
  hackathon-board serve                             # Run the HTTP API
  hackathon-board --config ./board.yaml serve       # Use a specific config file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initialize(cmd)
		},
	}

	// Configuration
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Config file path (default "+config.DefaultPath+", or $BOARD_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "",
		"Timezone override (e.g., Asia/Seoul, UTC, Local)")
	cmd.PersistentFlags().StringVar(&opts.storeFile, "file", "",
		"Use the JSON schedule file at this path instead of the configured store")

	// System and debugging
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false,
		"Enable debug mode")

	display := newDisplayCmd(opts)
	cmd.RunE = display.RunE
	cmd.Flags().AddFlagSet(display.Flags())

	cmd.AddCommand(
		display,
		newServeCmd(opts),
		newScheduleCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// initialize loads the configuration, applies flag overrides and starts
// logging. Commands that do not need a valid configuration skip it.
func (o *rootOptions) initialize(cmd *cobra.Command) error {
	if skipsConfig(cmd) {
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := o.applyOverrides(cfg); err != nil {
		return err
	}

	logLevel := cfg.Log.Level
	if o.debug {
		logLevel = "debug"
	}
	util.InitLogger(logLevel, cfg.Log.File, o.debug, util.WithFormat(util.LogFormat(cfg.Log.Format)))
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to set timezone: %w", err)
	}

	o.cfg = cfg
	return nil
}

func (o *rootOptions) applyOverrides(cfg *config.Config) error {
	changed := false
	if o.timezone != "" {
		cfg.Timezone = o.timezone
		changed = true
	}
	if o.storeFile != "" {
		cfg.Store.Driver = config.DriverFile
		cfg.Store.FilePath = o.storeFile
		changed = true
	}
	if !changed {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoConfig] == "true" {
			return true
		}
	}
	return false
}

const annotationNoConfig = "no-config"
