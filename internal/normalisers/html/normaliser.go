package html

import (
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns "html".
func (n *Normaliser) Format() string {
	return "html"
}

// Extensions returns the HTML file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	headingTag    = regexp.MustCompile(`(?is)<h[1-6][^>]*>.*?</h[1-6]>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	paragraphEnd  = regexp.MustCompile(`(?i)</(p|div|blockquote|pre|table|section|article)>`)
	lineBreaks    = regexp.MustCompile(`(?i)<br\s*/?>|</li>|</tr>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalise removes tags and decodes entities. Script, style and heading
// elements are dropped with their content. Paragraph-level elements end
// with a blank line.
func (n *Normaliser) Normalise(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, headingTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	content = paragraphEnd.ReplaceAllString(content, "\n\n")
	content = lineBreaks.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
