package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/regdash/internal/adapters/driving/tui"
	"github.com/custodia-labs/regdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/regdash/internal/logger"
)

var (
	tuiWatch   bool
	tuiNoWatch bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard shows the scored records, mean intensity, regulatory gaps
and the yearly trend for the current sector/domain selection. Changing
the selection in the Filters view recomputes every view.

With --watch (or watch enabled in settings) the dashboard reloads
whenever the source file is saved.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  /        - Query records
  r        - Reload
  Esc      - Back
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiWatch, "watch", false, "reload when the source file changes")
	tuiCmd.Flags().BoolVar(&tuiNoWatch, "no-watch", false, "never reload automatically")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(datasetService, settingsService, exportService)
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	g, ctx := errgroup.WithContext(commandContext(cmd))
	app.WithContext(ctx).WithSource(sourceFile).WithFilter(currentFilter(cmd))
	p := app.Program()

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if path := watchPath(); path != "" {
		g.Go(func() error {
			err := sourceWatcher.Watch(ctx, path, func() {
				p.Send(messages.SourceChanged{Path: path})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				p.Send(messages.WatchFailed{Err: err})
			}
			return nil
		})
	}

	g.Go(func() error {
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		// Quitting stops the watcher.
		return errQuit
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// errQuit ends the errgroup once the program exits.
var errQuit = errors.New("tui closed")

// watchPath returns the file to watch, or "" when watching is off.
func watchPath() string {
	if sourceWatcher == nil || tuiNoWatch {
		return ""
	}

	enabled := tuiWatch
	path := sourceFile
	if settingsService != nil {
		if cfg, err := settingsService.Get(); err == nil {
			enabled = enabled || cfg.Watch
			if path == "" {
				path = cfg.Source.Path
			}
		}
	}
	if !enabled {
		return ""
	}
	return path
}
