// Package parser selects an annotation pipeline for each input.
package parser

import (
	"context"

	"github.com/custodia-labs/sentorder/internal/adapters/driven/parser/conllu"
	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Detecting implements the interface.
var _ driven.Parser = (*Detecting)(nil)

// Detecting reads CoNLL-U input directly and sends plain text to a remote
// parser. Without a remote parser every input is read as CoNLL-U.
type Detecting struct {
	local  *conllu.Parser
	remote driven.Parser
}

// NewDetecting creates a parser that falls back to remote for plain text.
// remote may be nil.
func NewDetecting(remote driven.Parser) *Detecting {
	return &Detecting{local: conllu.NewParser(), remote: remote}
}

// Name identifies the parsers in use.
func (p *Detecting) Name() string {
	if p.remote == nil {
		return p.local.Name()
	}
	return p.local.Name() + "+" + p.remote.Name()
}

// Parse annotates text with the parser that fits it.
func (p *Detecting) Parse(ctx context.Context, text string) (*domain.Document, error) {
	if p.remote == nil || conllu.LooksLikeCoNLLU(text) {
		return p.local.Parse(ctx, text)
	}
	return p.remote.Parse(ctx, text)
}
