// Package udpipe annotates raw text through a UDPipe REST endpoint.
// The service returns CoNLL-U, which is read with the conllu package.
package udpipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/sentorder/internal/adapters/driven/parser/conllu"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Default configuration values.
const (
	DefaultURL     = "https://lindat.mff.cuni.cz/services/udpipe/api"
	DefaultModel   = "swedish-talbanken"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the UDPipe parser.
type Config struct {
	// URL is the API base URL; "/process" is appended.
	URL string

	// Model is the UDPipe model name.
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles requests. 0 disables throttling.
	RequestsPerSecond float64
}

// Parser calls UDPipe to tokenize, tag and parse text.
type Parser struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	baseURL string
	model   string
}

type processResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// NewParser creates a UDPipe parser.
func NewParser(cfg Config) *Parser {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Parser{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.New(cfg.RequestsPerSecond, 1),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		model:   cfg.Model,
	}
}

// Name identifies the parser.
func (p *Parser) Name() string {
	return "udpipe:" + p.model
}

// Parse sends text to UDPipe and reads the CoNLL-U result.
func (p *Parser) Parse(ctx context.Context, text string) (*domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("udpipe: empty text: %w", domain.ErrInvalidInput)
	}

	form := url.Values{}
	form.Set("data", text)
	form.Set("model", p.model)
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("parser", "")

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/process",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParserUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.limiter.Observe(resp)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: udpipe status %d: %s",
			domain.ErrParserUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out processResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	doc, err := conllu.Read(strings.NewReader(out.Result))
	if err != nil {
		return nil, fmt.Errorf("udpipe result: %w", err)
	}
	return doc, nil
}
