package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// ReorderInput is the input schema for the reorder tool.
type ReorderInput struct {
	Text     string `json:"text" jsonschema:"the text whose sentences should be reordered"`
	Strategy string `json:"strategy,omitempty" jsonschema:"search strategy: auto, exhaustive, annealing or genetic (default from settings)"`
	PinFirst *bool  `json:"pin_first,omitempty" jsonschema:"keep the first sentence in place"`
	PinLast  *bool  `json:"pin_last,omitempty" jsonschema:"keep the last sentence in place"`
	Seed     uint64 `json:"seed,omitempty" jsonschema:"random seed for annealing and genetic search (0 = random)"`
}

// ReorderOutput is the output schema for the reorder tool.
type ReorderOutput struct {
	Text           string  `json:"text"`
	Order          []int   `json:"order"`
	Strategy       string  `json:"strategy"`
	OriginalScore  float64 `json:"original_score"`
	ReorderedScore float64 `json:"reordered_score"`
	Improvement    float64 `json:"improvement"`
	Evaluations    int     `json:"evaluations"`
	RunID          string  `json:"run_id,omitempty"`
}

// ScoreInput is the input schema for the score tool.
type ScoreInput struct {
	Text    string    `json:"text" jsonschema:"the text to score in its current order"`
	Weights []float64 `json:"weights,omitempty" jsonschema:"six non-negative weights overriding the configured ones"`
}

// ScoreOutput is the output schema for the score tool.
type ScoreOutput struct {
	Final        float64            `json:"final"`
	Scores       map[string]float64 `json:"scores"`
	AllPairs     *PairStats         `json:"lsa_all_pairs,omitempty"`
	Lexical      LexicalOutput      `json:"lexical_givenness"`
	ReadingIndex float64            `json:"l2_reading_index"`
	Frequency    *FrequencyOutput   `json:"word_frequency,omitempty"`
}

// PairStats holds a mean and standard deviation.
type PairStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// LexicalOutput reports lexical givenness ratios.
type LexicalOutput struct {
	Text    float64 `json:"text"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Skipped int     `json:"skipped"`
}

// FrequencyOutput reports the word frequency measures.
type FrequencyOutput struct {
	MeanLog           float64 `json:"mean_log"`
	MeanMinContentLog float64 `json:"mean_min_content_log"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reorder",
		Description: "Reorder the sentences of a text for maximum cohesion",
	}, s.handleReorder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score",
		Description: "Score the cohesion of a text in its current sentence order",
	}, s.handleScore)
}

// handleReorder handles the reorder tool invocation.
func (s *Server) handleReorder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReorderInput,
) (*mcp.CallToolResult, ReorderOutput, error) {
	opts := domain.ReorderOptions{
		Strategy: domain.Strategy(input.Strategy),
		PinFirst: input.PinFirst,
		PinLast:  input.PinLast,
		Seed:     input.Seed,
	}

	result, err := s.ports.Reorder.Reorder(ctx, input.Text, opts)
	if err != nil {
		return nil, ReorderOutput{}, err
	}

	return nil, ReorderOutput{
		Text:           result.Text(),
		Order:          result.Order(),
		Strategy:       result.Strategy.String(),
		OriginalScore:  result.OriginalScore,
		ReorderedScore: result.ReorderedScore,
		Improvement:    result.Improvement(),
		Evaluations:    result.Evaluations,
		RunID:          result.RunID,
	}, nil
}

// handleScore handles the score tool invocation.
func (s *Server) handleScore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	var opts domain.ScoreOptions
	if len(input.Weights) > 0 {
		w, err := domain.WeightsFromSlice(input.Weights)
		if err != nil {
			return nil, ScoreOutput{}, err
		}
		opts.Weights = &w
	}

	report, err := s.ports.Reorder.Score(ctx, input.Text, opts)
	if err != nil {
		return nil, ScoreOutput{}, err
	}

	return nil, scoreOutput(report), nil
}

func scoreOutput(report *domain.ScoreReport) ScoreOutput {
	values := report.Breakdown.Values()
	output := ScoreOutput{
		Final:  report.Final,
		Scores: make(map[string]float64, len(values)),
		Lexical: LexicalOutput{
			Text:    report.Lexical.Text,
			Mean:    report.Lexical.Mean,
			Std:     report.Lexical.StdDev,
			Skipped: report.Lexical.Skipped,
		},
		ReadingIndex: report.ReadingIndex,
	}
	for i, name := range domain.ScoreNames {
		output.Scores[name] = values[i]
	}
	if report.HasAllPairs {
		output.AllPairs = &PairStats{Mean: report.LSAAllPairsMean, Std: report.LSAAllPairsStd}
	}
	if report.HasFrequency {
		output.Frequency = &FrequencyOutput{
			MeanLog:           report.WordFrequency,
			MeanMinContentLog: report.MinContentFrequency,
		}
	}
	return output
}
