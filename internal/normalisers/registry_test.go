package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperNormaliser is a stub that claims ".md" to test overriding.
type upperNormaliser struct{}

func (upperNormaliser) Format() string { return "upper" }

func (upperNormaliser) Extensions() []string { return []string{".MD"} }

func (upperNormaliser) Normalise(string) string { return "UPPER" }

func TestDefault_Extensions(t *testing.T) {
	assert.Equal(t, []string{".htm", ".html", ".markdown", ".md", ".xhtml"}, Default().Extensions())
}

func TestRegistry_ForPath(t *testing.T) {
	r := Default()

	tests := []struct {
		path   string
		format string
	}{
		{"text.md", "markdown"},
		{"TEXT.MD", "markdown"},
		{"dir/page.html", "html"},
		{"page.htm", "html"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n := r.ForPath(tt.path)
			require.NotNil(t, n)
			assert.Equal(t, tt.format, n.Format())
		})
	}

	assert.Nil(t, r.ForPath("text.txt"))
	assert.Nil(t, r.ForPath("text.conllu"))
	assert.Nil(t, r.ForPath("-"))
}

func TestRegistry_Normalise(t *testing.T) {
	r := Default()

	assert.Equal(t, "Katten sov.", r.Normalise("a.md", "# Rubrik\n\nKatten **sov**."))
	assert.Equal(t, "Katten sov.", r.Normalise("a.html", "<p>Katten sov.</p>"))
	assert.Equal(t, "# Katten **sov**.", r.Normalise("a.txt", "# Katten **sov**."))
}

func TestRegistry_NormaliseKeepsCoNLLU(t *testing.T) {
	annotated := "1\tKatten\tkatt\tNOUN\tNN\t_\t2\tnsubj\t_\t_\n" +
		"2\tsov\tsova\tVERB\tVB\t_\t0\troot\t_\t_\n"

	assert.Equal(t, annotated, Default().Normalise("annotated.md", annotated))
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := Default()
	r.Register(upperNormaliser{})

	assert.Equal(t, "upper", r.ForPath("x.md").Format())
	assert.Equal(t, "markdown", r.ForPath("x.markdown").Format())
}
