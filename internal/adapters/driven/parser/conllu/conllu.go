// Package conllu reads CoNLL-U annotated text into domain documents.
//
// Sentences are separated by blank lines. The "# text =" comment sets the
// sentence text; without it the text is rebuilt from the word forms. A
// "# constituency =" comment carries a bracketed phrase-structure tree.
// Multiword token ranges (1-2) and empty nodes (1.1) are skipped.
package conllu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

const columnCount = 10

// Parser parses CoNLL-U input. It is stateless.
type Parser struct{}

// NewParser creates a CoNLL-U parser.
func NewParser() *Parser {
	return &Parser{}
}

// Name identifies the parser.
func (p *Parser) Name() string {
	return "conllu"
}

// Parse reads CoNLL-U text.
func (p *Parser) Parse(ctx context.Context, text string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Read(strings.NewReader(text))
}

// Read parses CoNLL-U from r.
func Read(r io.Reader) (*domain.Document, error) {
	doc := &domain.Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur *sentenceBuilder
	lineNo := 0
	flush := func() error {
		if cur == nil {
			return nil
		}
		s, err := cur.build(len(doc.Sentences))
		if err != nil {
			return err
		}
		doc.Sentences = append(doc.Sentences, s)
		cur = nil
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if cur == nil {
			cur = &sentenceBuilder{}
		}

		if strings.HasPrefix(line, "#") {
			cur.comment(line)
			continue
		}

		if err := cur.token(line); err != nil {
			return nil, fmt.Errorf("conllu line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read conllu: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("conllu: no sentences: %w", domain.ErrInvalidInput)
	}
	return doc, nil
}

// LooksLikeCoNLLU reports whether text has at least one ten-column token line.
func LooksLikeCoNLLU(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != columnCount {
			return false
		}
		_, err := strconv.Atoi(strings.SplitN(strings.SplitN(cols[0], "-", 2)[0], ".", 2)[0])
		return err == nil
	}
	return false
}

type sentenceBuilder struct {
	text         string
	constituency string
	words        []domain.Word
}

func (b *sentenceBuilder) comment(line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, value, ok := strings.Cut(body, "=")
	if !ok {
		return
	}
	switch strings.TrimSpace(key) {
	case "text":
		b.text = strings.TrimSpace(value)
	case "constituency":
		b.constituency = strings.TrimSpace(value)
	}
}

func (b *sentenceBuilder) token(line string) error {
	cols := strings.Split(line, "\t")
	if len(cols) != columnCount {
		return fmt.Errorf("expected %d columns, got %d: %w", columnCount, len(cols), domain.ErrInvalidInput)
	}
	if strings.Contains(cols[0], "-") || strings.Contains(cols[0], ".") {
		return nil
	}

	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", cols[0], domain.ErrInvalidInput)
	}
	head := -1
	if cols[6] != "_" {
		head, err = strconv.Atoi(cols[6])
		if err != nil {
			return fmt.Errorf("invalid head %q: %w", cols[6], domain.ErrInvalidInput)
		}
	}

	b.words = append(b.words, domain.Word{
		ID:     id,
		Text:   cols[1],
		Lemma:  field(cols[2]),
		UPOS:   field(cols[3]),
		XPOS:   field(cols[4]),
		Head:   head,
		DepRel: field(cols[7]),
	})
	return nil
}

func (b *sentenceBuilder) build(index int) (domain.Sentence, error) {
	s := domain.Sentence{
		Index: index,
		Text:  b.text,
		Words: b.words,
	}
	if len(b.words) == 0 {
		return s, fmt.Errorf("conllu: sentence %d has no tokens: %w", index, domain.ErrInvalidInput)
	}
	if s.Text == "" {
		s.Text = joinForms(b.words)
	}
	if b.constituency != "" {
		tree, err := domain.ParseBracketed(b.constituency)
		if err != nil {
			return s, fmt.Errorf("conllu: sentence %d constituency: %w", index, err)
		}
		s.Constituency = tree
	}
	return s, nil
}

// field maps the CoNLL-U placeholder "_" to an empty string.
func field(v string) string {
	if v == "_" {
		return ""
	}
	return v
}

func joinForms(words []domain.Word) string {
	forms := make([]string, len(words))
	for i, w := range words {
		forms[i] = w.Text
	}
	return strings.Join(forms, " ")
}
