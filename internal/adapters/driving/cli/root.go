// Package cli provides the sentorder command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
	"github.com/custodia-labs/sentorder/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// skipWiring marks commands that run without services.
const skipWiring = "skip-wiring"

var (
	verbose   bool
	configDir string
	noHistory bool
)

// Services used by commands. Set by wire, or directly by tests.
var (
	settingsService driving.SettingsService
	reorderService  driving.ReorderService
	historyService  driving.HistoryService
	metricsHandler  http.Handler

	// reorderErr explains why reorderService is nil.
	reorderErr error

	// cleanup releases what wire opened. Nil when services were injected.
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "sentorder",
	Short: "Reorder sentences for maximum text cohesion",
	Long: `sentorder scores how cohesive a text is and searches for the sentence
order that scores best.

Texts are annotated by a dependency parser (CoNLL-U input is read directly),
embedded sentence by sentence, and scored with six cohesion metrics.
The order is then searched exhaustively, by simulated annealing or by a
genetic algorithm.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sentorder)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not open the run history database")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[skipWiring] == "true" || settingsService != nil {
		return nil
	}
	return wire(configDir, !noHistory)
}

func teardown(_ *cobra.Command, _ []string) {
	if cleanup == nil {
		return
	}
	cleanup()
	cleanup = nil
	settingsService = nil
	reorderService = nil
	historyService = nil
	metricsHandler = nil
	reorderErr = nil
}

// requireReorder returns the reorder service or the reason it is missing.
func requireReorder() (driving.ReorderService, error) {
	if reorderService != nil {
		return reorderService, nil
	}
	if reorderErr != nil {
		return nil, fmt.Errorf("reorder service not configured: %w", reorderErr)
	}
	return nil, errors.New("reorder service not configured")
}
