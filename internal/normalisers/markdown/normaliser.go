// Package markdown strips Markdown syntax from prose.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns "markdown".
func (n *Normaliser) Format() string {
	return "markdown"
}

// Extensions returns the Markdown file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

var (
	codeBlock     = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`[^`]+`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingLines  = regexp.MustCompile(`(?m)^#{1,6}\s+.*$`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	rules         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|\b_|_\b)`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalise removes Markdown formatting. Headings are dropped since they
// are not sentences of the running text; code is dropped for the same reason.
func (n *Normaliser) Normalise(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headingLines.ReplaceAllString(content, "")
	content = rules.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
