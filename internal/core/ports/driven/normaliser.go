package driven

// Normaliser turns a marked-up document into plain prose for the parser.
// Each normaliser handles the file extensions of one markup format.
type Normaliser interface {
	// Format names the markup, e.g. "markdown".
	Format() string

	// Extensions returns the lowercase file extensions handled, with the dot.
	Extensions() []string

	// Normalise strips markup and returns paragraphs separated by blank lines.
	Normalise(content string) string
}
