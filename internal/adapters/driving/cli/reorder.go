package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
)

var (
	reorderStrategy string
	reorderPinFirst bool
	reorderPinLast  bool
	reorderSeed     uint64
	reorderJSON     bool
	reorderWatch    bool
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [file]",
	Short: "Reorder the sentences of a text",
	Long: `Reorder the sentences of a text for maximum cohesion.

The text is read from the file argument, or from stdin when it is piped.
Plain text is sent to the configured parser; CoNLL-U input is read directly.
The reordered text is printed to stdout and a score summary to stderr.

Strategies:
  auto        exhaustive below reorder.exhaustive_threshold sentences, annealing above
  exhaustive  score every permutation
  annealing   simulated annealing over sentence swaps
  genetic     genetic algorithm with order crossover

Examples:
  sentorder reorder essay.txt
  cat essay.conllu | sentorder reorder --strategy genetic --seed 42
  sentorder reorder --pin-first --watch essay.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReorder,
}

func init() {
	reorderCmd.Flags().StringVarP(&reorderStrategy, "strategy", "s", "", "search strategy (default from settings)")
	reorderCmd.Flags().BoolVar(&reorderPinFirst, "pin-first", false, "keep the first sentence in place")
	reorderCmd.Flags().BoolVar(&reorderPinLast, "pin-last", false, "keep the last sentence in place")
	reorderCmd.Flags().Uint64Var(&reorderSeed, "seed", 0, "random seed for annealing and genetic search (0 = random)")
	reorderCmd.Flags().BoolVar(&reorderJSON, "json", false, "output the result as JSON")
	reorderCmd.Flags().BoolVarP(&reorderWatch, "watch", "w", false, "reorder again whenever the file changes")
	rootCmd.AddCommand(reorderCmd)
}

// reorderOutput is the JSON form of a reorder result.
type reorderOutput struct {
	Text           string  `json:"text"`
	Order          []int   `json:"order"`
	Strategy       string  `json:"strategy"`
	OriginalScore  float64 `json:"original_score"`
	ReorderedScore float64 `json:"reordered_score"`
	Improvement    float64 `json:"improvement"`
	Evaluations    int     `json:"evaluations"`
	DurationMS     int64   `json:"duration_ms"`
	RunID          string  `json:"run_id,omitempty"`
}

func runReorder(cmd *cobra.Command, args []string) error {
	svc, err := requireReorder()
	if err != nil {
		return err
	}

	opts, err := reorderOptions(cmd)
	if err != nil {
		return err
	}

	if reorderWatch {
		if len(args) == 0 || args[0] == "-" {
			return errors.New("--watch needs a file argument")
		}
		return watchReorder(cmd, svc, args[0], opts)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	return reorderOnce(cmd, svc, text, opts)
}

// reorderOptions builds per-call overrides from the flags that were set.
func reorderOptions(cmd *cobra.Command) (domain.ReorderOptions, error) {
	opts := domain.ReorderOptions{
		Strategy: domain.Strategy(reorderStrategy),
		Seed:     reorderSeed,
	}
	if reorderStrategy != "" && !opts.Strategy.IsValid() {
		return opts, fmt.Errorf("unknown strategy %q: %w", reorderStrategy, domain.ErrInvalidConfiguration)
	}
	if cmd.Flags().Changed("pin-first") {
		v := reorderPinFirst
		opts.PinFirst = &v
	}
	if cmd.Flags().Changed("pin-last") {
		v := reorderPinLast
		opts.PinLast = &v
	}
	return opts, nil
}

func reorderOnce(cmd *cobra.Command, svc driving.ReorderService, text string, opts domain.ReorderOptions) error {
	result, err := svc.Reorder(cmd.Context(), text, opts)
	if err != nil {
		return fmt.Errorf("reorder failed: %w", err)
	}

	if reorderJSON {
		return printJSON(cmd, reorderOutput{
			Text:           result.Text(),
			Order:          result.Order(),
			Strategy:       result.Strategy.String(),
			OriginalScore:  result.OriginalScore,
			ReorderedScore: result.ReorderedScore,
			Improvement:    result.Improvement(),
			Evaluations:    result.Evaluations,
			DurationMS:     result.Duration.Milliseconds(),
			RunID:          result.RunID,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Text())
	printSummary(cmd.ErrOrStderr(), result.Strategy, result.OriginalScore, result.ReorderedScore,
		result.Evaluations, result.RunID)
	return nil
}

func watchReorder(cmd *cobra.Command, svc driving.ReorderService, path string, opts domain.ReorderOptions) error {
	changes, err := watchFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	run := func() {
		text, err := readInput(cmd, []string{path})
		if err == nil {
			err = reorderOnce(cmd, svc, text, opts)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (ctrl+c to stop)\n", path)
	run()
	for range changes {
		run()
	}
	return nil
}

// printSummary writes a one-line score summary.
func printSummary(w io.Writer, strategy domain.Strategy, original, reordered float64, evaluations int, runID string) {
	fmt.Fprintf(w, "%s: %.4f -> %.4f (%+.4f), %d evaluations", strategy, original, reordered,
		reordered-original, evaluations)
	if runID != "" {
		fmt.Fprintf(w, ", run %s", shortID(runID))
	}
	fmt.Fprintln(w)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// shortID returns the first eight characters of a run ID.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
