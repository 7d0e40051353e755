package metrics

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// CommonSubtreeSize returns the number of nodes in the largest common
// subtree of t1 and t2 that contains the root. Edges present in both trees
// form an undirected graph; the connected component holding the root is
// the common subtree. Trees with different roots share nothing.
func CommonSubtreeSize(t1, t2 *PathTree) int {
	if t1.Len() == 0 || t2.Len() == 0 || t1.RootKey() != t2.RootKey() {
		return 0
	}

	g := simple.NewUndirectedGraph()
	ids := make(map[string]int64)
	nodeFor := func(key string) graph.Node {
		id, ok := ids[key]
		if !ok {
			id = int64(len(ids))
			ids[key] = id
		}
		return simple.Node(id)
	}

	root := nodeFor(t1.RootKey())
	g.AddNode(root)

	shared := make(map[[2]string]bool, t1.Len())
	for _, e := range t1.edges() {
		shared[e] = true
	}
	for _, e := range t2.edges() {
		if shared[e] {
			g.SetEdge(g.NewEdge(nodeFor(e[0]), nodeFor(e[1])))
		}
	}

	for _, component := range topo.ConnectedComponents(g) {
		for _, n := range component {
			if n.ID() == root.ID() {
				return len(component)
			}
		}
	}
	return 1
}

// TreeSimilarity is common / (|t1| + |t2| - common).
func TreeSimilarity(t1, t2 *PathTree) float64 {
	common := CommonSubtreeSize(t1, t2)
	denom := t1.Len() + t2.Len() - common
	if denom == 0 {
		return 0
	}
	return float64(common) / float64(denom)
}

// SyntaxSimilarity compares the syntax trees of sentence pairs.
// Pair results are memoised by sentence text, so repeated scoring of
// permutations of one document builds each tree and pair once.
type SyntaxSimilarity struct {
	kind domain.StructureType

	mu    sync.Mutex
	trees map[string]*PathTree
	pairs map[[2]string]float64
}

// NewSyntaxSimilarity creates a metric over the given tree kind.
func NewSyntaxSimilarity(kind domain.StructureType) (*SyntaxSimilarity, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown structure type %q: %w", kind, domain.ErrInvalidConfiguration)
	}
	return &SyntaxSimilarity{
		kind:  kind,
		trees: make(map[string]*PathTree),
		pairs: make(map[[2]string]float64),
	}, nil
}

// Kind returns the tree kind compared.
func (m *SyntaxSimilarity) Kind() domain.StructureType {
	return m.kind
}

// Pair returns the similarity of two sentences in [0, 1].
func (m *SyntaxSimilarity) Pair(s1, s2 domain.Sentence) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair(s1, s2)
}

func (m *SyntaxSimilarity) pair(s1, s2 domain.Sentence) (float64, error) {
	key := [2]string{s1.Text, s2.Text}
	if v, ok := m.pairs[key]; ok {
		return v, nil
	}
	t1, err := m.tree(s1)
	if err != nil {
		return 0, err
	}
	t2, err := m.tree(s2)
	if err != nil {
		return 0, err
	}
	v := TreeSimilarity(t1, t2)
	m.pairs[key] = v
	return v, nil
}

func (m *SyntaxSimilarity) tree(s domain.Sentence) (*PathTree, error) {
	if t, ok := m.trees[s.Text]; ok {
		return t, nil
	}
	t, err := BuildPathTree(s, m.kind)
	if err != nil {
		return nil, domain.NewMetricError(domain.MetricSyntax, s.Index, err)
	}
	m.trees[s.Text] = t
	return t, nil
}

// Adjacent averages Pair over adjacent sentences.
func (m *SyntaxSimilarity) Adjacent(sentences []domain.Sentence) (float64, error) {
	if len(sentences) < 2 {
		return 0, domain.NewMetricError(domain.MetricSyntax, -1, domain.ErrInsufficientInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	for i := 0; i < len(sentences)-1; i++ {
		v, err := m.pair(sentences[i], sentences[i+1])
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(sentences)-1), nil
}

// Reset drops memoised trees and pairs.
func (m *SyntaxSimilarity) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trees = make(map[string]*PathTree)
	m.pairs = make(map[[2]string]float64)
}
