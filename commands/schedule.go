package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-hackathon-board/internal/core/clock"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
	"github.com/penwyp/go-hackathon-board/internal/core/timeline"
	"github.com/penwyp/go-hackathon-board/internal/data/icsio"
	"github.com/penwyp/go-hackathon-board/internal/presentation/formatter"
	"github.com/penwyp/go-hackathon-board/internal/util"
)

func newScheduleCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"s"},
		Short:   "List and edit schedule entries",
	}
	cmd.AddCommand(
		newScheduleListCmd(root),
		newScheduleAddCmd(root),
		newScheduleUpdateCmd(root),
		newScheduleRemoveCmd(root),
		newScheduleImportCmd(root),
		newScheduleExportCmd(root),
	)
	return cmd
}

// withLoadedRuntime builds the runtime, loads the timeline and runs fn.
func withLoadedRuntime(cmd *cobra.Command, root *rootOptions, fn func(ctx context.Context, rt *boardRuntime) error) error {
	ctx := withContext(cmd)
	rt, err := newRuntime(ctx, root.cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.store.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, rt)
}

func newScheduleListCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the schedule in time order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter.New(output)
			if err != nil {
				return err
			}
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				policy, _ := model.ParseWrapPolicy(root.cfg.Display.WrapPolicy)
				snap := rt.store.Snapshot()
				p := timeline.Project(snap, clock.System(nil).Now(), policy)
				return f.Format(cmd.OutOrStdout(), formatter.NewListing(snap, p))
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	return cmd
}

func newScheduleAddCmd(root *rootOptions) *cobra.Command {
	var draft model.EntryDraft

	cmd := &cobra.Command{
		Use:   "add HH:MM NAME",
		Short: "Add a schedule entry",
		Example: `  hackathon-board schedule add 09:00 "Opening ceremony" --en "개회식"
  hackathon-board schedule add 18:00 Judging --important`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.TimeOfDay = args[0]
			draft.Title = args[1]
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				e, err := rt.store.Add(ctx, draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s %s\n", e.ID, e.TimeOfDay, e.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&draft.TitleSecondary, "en", "", "Secondary (English) name")
	cmd.Flags().BoolVarP(&draft.Important, "important", "i", false, "Mark as important")
	return cmd
}

func newScheduleUpdateCmd(root *rootOptions) *cobra.Command {
	var (
		startTime string
		name      string
		secondary string
		important bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a schedule entry",
		Long:  "Only the fields given as flags change; the rest keep their current values.",
		Example: `  hackathon-board schedule update 3 --time 18:30
  hackathon-board schedule update 3 --important=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				snap := rt.store.Snapshot()
				i := snap.Find(id)
				if i < 0 {
					return model.NotFoundError(id)
				}
				draft := snap.At(i).Draft()

				flags := cmd.Flags()
				if flags.Changed("time") {
					draft.TimeOfDay = startTime
				}
				if flags.Changed("name") {
					draft.Title = name
				}
				if flags.Changed("en") {
					draft.TitleSecondary = secondary
				}
				if flags.Changed("important") {
					draft.Important = important
				}

				e, err := rt.store.Update(ctx, id, draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s %s\n", e.ID, e.TimeOfDay, e.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&startTime, "time", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&secondary, "en", "", "New secondary (English) name")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "Mark as important")
	return cmd
}

func newScheduleRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID...",
		Aliases: []string{"rm"},
		Short:   "Remove schedule entries",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]model.EntryID, 0, len(args))
			for _, arg := range args {
				id, err := parseEntryID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				for _, id := range ids {
					if err := rt.store.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d\n", id)
				}
				return nil
			})
		},
	}
}

func newScheduleImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.ics",
		Short: "Add every timed event of an iCalendar file",
		Long: `Adds one entry per timed VEVENT, using the event's start time in the configured
timezone. Use "-" to read from stdin. Events with PRIORITY 1 or an "Important:"
summary prefix are marked important.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			drafts, err := icsio.Import(in, util.GetTimeProvider().Location())
			if err != nil {
				return err
			}
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				n, err := rt.importDrafts(ctx, drafts)
				if err != nil {
					return fmt.Errorf("imported %d of %d entries: %w", n, len(drafts), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
				return nil
			})
		},
	}
}

func newScheduleExportCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the schedule as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLoadedRuntime(cmd, root, func(ctx context.Context, rt *boardRuntime) error {
				body := icsio.Export(rt.store.Snapshot().Entries(), clock.System(nil).Now(), root.cfg.Display.EventTitle)
				if output == "" || output == "-" {
					_, err := io.WriteString(cmd.OutOrStdout(), body)
					return err
				}
				if err := os.WriteFile(util.ExpandPath(output), []byte(body), 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", rt.store.Snapshot().Len(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func parseEntryID(s string) (model.EntryID, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return model.EntryID(id), nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(util.ExpandPath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
