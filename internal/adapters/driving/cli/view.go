package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/adapters/driving/tui"
	"github.com/custodia-labs/sentorder/internal/core/domain"
)

var (
	viewStrategy string
	viewSeed     uint64
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Reorder a text in the interactive terminal UI",
	Long: `Reorder a text and show the original and reordered sentences side by side.

Moved sentences are highlighted and the score change is shown below.

Controls:
  ↑/k, ↓/j - Scroll
  r        - Reorder again with the next seed
  s        - Toggle the per-metric scores
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVarP(&viewStrategy, "strategy", "s", "", "search strategy (default from settings)")
	viewCmd.Flags().Uint64Var(&viewSeed, "seed", 0, "random seed (0 = random)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	reorder, err := requireReorder()
	if err != nil {
		return err
	}

	opts := domain.ReorderOptions{Strategy: domain.Strategy(viewStrategy), Seed: viewSeed}
	if viewStrategy != "" && !opts.Strategy.IsValid() {
		return fmt.Errorf("unknown strategy %q: %w", viewStrategy, domain.ErrInvalidConfiguration)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(reorder), text, opts)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
