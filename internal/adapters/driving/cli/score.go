package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/services"
)

var (
	scoreAll     bool
	scoreWeights string
	scoreJSON    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score the cohesion of a text as written",
	Long: `Score the cohesion of a text in its current sentence order.

Prints the six weighted scores and their weighted average. With --all the
measures that are reported but not weighted are printed too: LSA over all
sentence pairs, lexical givenness, word frequency and the L2 reading index.

Use --weights to try other weightings without changing the settings:
  sentorder score --weights 1,1,0.5,0.5,2,1 essay.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVarP(&scoreAll, "all", "a", false, "also print unweighted measures")
	scoreCmd.Flags().StringVar(&scoreWeights, "weights", "", "six comma-separated weights overriding the settings")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output the scores as JSON")
	rootCmd.AddCommand(scoreCmd)
}

// scoreOutput is the JSON form of a score report.
type scoreOutput struct {
	Final        float64            `json:"final"`
	Scores       map[string]float64 `json:"scores"`
	AllPairs     *pairStats         `json:"lsa_all_pairs,omitempty"`
	Lexical      *lexicalOutput     `json:"lexical_givenness,omitempty"`
	ReadingIndex *float64           `json:"l2_reading_index,omitempty"`
	Frequency    *frequencyOutput   `json:"word_frequency,omitempty"`
}

type pairStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type lexicalOutput struct {
	Text    float64 `json:"text"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Skipped int     `json:"skipped"`
}

type frequencyOutput struct {
	MeanLog           float64 `json:"mean_log"`
	MeanMinContentLog float64 `json:"mean_min_content_log"`
}

func runScore(cmd *cobra.Command, args []string) error {
	svc, err := requireReorder()
	if err != nil {
		return err
	}

	var opts domain.ScoreOptions
	if scoreWeights != "" {
		w, err := services.ParseWeights(scoreWeights)
		if err != nil {
			return fmt.Errorf("invalid --weights: %w", err)
		}
		opts.Weights = &w
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	report, err := svc.Score(cmd.Context(), text, opts)
	if err != nil {
		return fmt.Errorf("score failed: %w", err)
	}

	if scoreJSON {
		return printJSON(cmd, newScoreOutput(report, scoreAll))
	}
	printReport(cmd, report, scoreAll)
	return nil
}

func newScoreOutput(report *domain.ScoreReport, all bool) scoreOutput {
	values := report.Breakdown.Values()
	out := scoreOutput{
		Final:  report.Final,
		Scores: make(map[string]float64, len(values)),
	}
	for i, name := range domain.ScoreNames {
		out.Scores[name] = values[i]
	}
	if !all {
		return out
	}

	if report.HasAllPairs {
		out.AllPairs = &pairStats{Mean: report.LSAAllPairsMean, Std: report.LSAAllPairsStd}
	}
	out.Lexical = &lexicalOutput{
		Text:    report.Lexical.Text,
		Mean:    report.Lexical.Mean,
		Std:     report.Lexical.StdDev,
		Skipped: report.Lexical.Skipped,
	}
	index := report.ReadingIndex
	out.ReadingIndex = &index
	if report.HasFrequency {
		out.Frequency = &frequencyOutput{
			MeanLog:           report.WordFrequency,
			MeanMinContentLog: report.MinContentFrequency,
		}
	}
	return out
}

func printReport(cmd *cobra.Command, report *domain.ScoreReport, all bool) {
	values := report.Breakdown.Values()
	for i, name := range domain.ScoreNames {
		cmd.Printf("  %-10s %.4f\n", name, values[i])
	}
	cmd.Printf("  %-10s %.4f\n", "Final", report.Final)
	if !all {
		return
	}

	cmd.Println()
	if report.HasAllPairs {
		cmd.Printf("  LSA all pairs:      %.4f (std %.4f)\n", report.LSAAllPairsMean, report.LSAAllPairsStd)
	} else {
		cmd.Println("  LSA all pairs:      n/a")
	}
	cmd.Printf("  Lexical givenness:  %.4f (mean %.4f, std %.4f)\n",
		report.Lexical.Text, report.Lexical.Mean, report.Lexical.StdDev)
	if report.Lexical.Skipped > 0 {
		cmd.Printf("                      %d words skipped for missing annotation\n", report.Lexical.Skipped)
	}
	if report.HasFrequency {
		cmd.Printf("  Word frequency:     %.4f (min content %.4f)\n",
			report.WordFrequency, report.MinContentFrequency)
	}
	cmd.Printf("  L2 reading index:   %.4f\n", report.ReadingIndex)
}
