package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for sentorder resources.
	uriScheme = "sentorder://"

	historyLimit = 50
)

// runInfo is the JSON form of a run record.
type runInfo struct {
	ID             string    `json:"id"`
	Strategy       string    `json:"strategy"`
	Sentences      int       `json:"sentences"`
	Order          []int     `json:"order"`
	OriginalScore  float64   `json:"original_score"`
	ReorderedScore float64   `json:"reordered_score"`
	Evaluations    int       `json:"evaluations"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
	OriginalText   string    `json:"original_text,omitempty"`
	ReorderedText  string    `json:"reordered_text,omitempty"`
}

func newRunInfo(run *domain.RunRecord, withText bool) runInfo {
	info := runInfo{
		ID:             run.ID,
		Strategy:       run.Strategy.String(),
		Sentences:      run.SentenceCount,
		Order:          run.Order,
		OriginalScore:  run.OriginalScore,
		ReorderedScore: run.ReorderedScore,
		Evaluations:    run.Evaluations,
		DurationMS:     run.Duration.Milliseconds(),
		CreatedAt:      run.CreatedAt,
	}
	if withText {
		info.OriginalText = run.OriginalText
		info.ReorderedText = run.ReorderedText
	}
	return info
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for recent runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent reorder runs",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "A past reorder run with its original and reordered text",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleHistoryResource returns the most recent runs.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.History.List(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = newRunInfo(&runs[i], false)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRunResource returns a single run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: sentorder://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	data, err := json.MarshalIndent(newRunInfo(run, true), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like sentorder://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
