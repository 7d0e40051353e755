package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past reorder runs",
	Long: `Show past reorder runs recorded in the local database.

Each run keeps the original and reordered text with both scores, so
weightings and strategies can be compared over time.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a run in full",
	Long:  `Show a run in full. An unambiguous prefix of the run ID is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// runOutput is the JSON form of a run record.
type runOutput struct {
	ID             string  `json:"id"`
	Strategy       string  `json:"strategy"`
	Sentences      int     `json:"sentences"`
	Order          []int   `json:"order"`
	OriginalScore  float64 `json:"original_score"`
	ReorderedScore float64 `json:"reordered_score"`
	Evaluations    int     `json:"evaluations"`
	DurationMS     int64   `json:"duration_ms"`
	CreatedAt      string  `json:"created_at"`
	OriginalText   string  `json:"original_text,omitempty"`
	ReorderedText  string  `json:"reordered_text,omitempty"`
}

func newRunOutput(run *domain.RunRecord, withText bool) runOutput {
	out := runOutput{
		ID:             run.ID,
		Strategy:       run.Strategy.String(),
		Sentences:      run.SentenceCount,
		Order:          run.Order,
		OriginalScore:  run.OriginalScore,
		ReorderedScore: run.ReorderedScore,
		Evaluations:    run.Evaluations,
		DurationMS:     run.Duration.Milliseconds(),
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
	}
	if withText {
		out.OriginalText = run.OriginalText
		out.ReorderedText = run.ReorderedText
	}
	return out
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history not available (run without --no-history)")
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if historyJSON {
		out := make([]runOutput, len(runs))
		for i := range runs {
			out[i] = newRunOutput(&runs[i], false)
		}
		return printJSON(cmd, out)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-8s  %-16s  %-10s  %4s  %8s  %9s  %8s\n",
		"ID", "CREATED", "STRATEGY", "SENT", "ORIGINAL", "REORDERED", "DELTA")
	for i := range runs {
		r := &runs[i]
		cmd.Printf("%-8s  %-16s  %-10s  %4d  %8.4f  %9.4f  %+8.4f\n",
			shortID(r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Strategy,
			r.SentenceCount, r.OriginalScore, r.ReorderedScore, r.ReorderedScore-r.OriginalScore)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history not available (run without --no-history)")
	}

	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, newRunOutput(run, true))
	}

	cmd.Printf("Run:         %s\n", run.ID)
	cmd.Printf("Created:     %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Strategy:    %s\n", run.Strategy)
	cmd.Printf("Sentences:   %d\n", run.SentenceCount)
	cmd.Printf("Order:       %s\n", formatOrder(run.Order))
	cmd.Printf("Score:       %.4f -> %.4f (%+.4f)\n",
		run.OriginalScore, run.ReorderedScore, run.ReorderedScore-run.OriginalScore)
	cmd.Printf("Evaluations: %d in %s\n", run.Evaluations, run.Duration)
	cmd.Println()
	cmd.Println("Original:")
	cmd.Printf("  %s\n", run.OriginalText)
	cmd.Println()
	cmd.Println("Reordered:")
	cmd.Printf("  %s\n", run.ReorderedText)
	return nil
}

// formatOrder prints original positions one-based.
func formatOrder(order []int) string {
	parts := make([]string, len(order))
	for i, idx := range order {
		parts[i] = fmt.Sprint(idx + 1)
	}
	return strings.Join(parts, " ")
}
