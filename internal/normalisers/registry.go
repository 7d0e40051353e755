package normalisers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sentorder/internal/adapters/driven/parser/conllu"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/logger"
	"github.com/custodia-labs/sentorder/internal/normalisers/html"
	"github.com/custodia-labs/sentorder/internal/normalisers/markdown"
)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
// A later normaliser wins when two claim the same extension.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Default returns a registry with the markdown and HTML normalisers.
func Default() *Registry {
	return NewRegistry(markdown.New(), html.New())
}

// Register adds a normaliser for each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// ForPath returns the normaliser for path's extension, or nil.
func (r *Registry) ForPath(path string) driven.Normaliser {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Normalise strips markup from content read from path. Content with no
// matching normaliser, and CoNLL-U whatever its extension, is returned as is.
func (r *Registry) Normalise(path, content string) string {
	n := r.ForPath(path)
	if n == nil || conllu.LooksLikeCoNLLU(content) {
		return content
	}
	logger.Debug("normalising %s as %s", path, n.Format())
	return n.Normalise(content)
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
