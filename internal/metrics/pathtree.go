package metrics

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

const pathSep = "\x1f"

// PathTree is a syntax tree whose nodes are identified by their label path
// to the root. Nodes with the same path collapse into one, so two trees can
// be compared node by node.
type PathTree struct {
	keys   []string
	parent []int
	index  map[string]int
	root   int
}

func newPathTree() *PathTree {
	return &PathTree{index: make(map[string]int), root: -1}
}

// add inserts key under parent (-1 for none) unless it already exists.
func (t *PathTree) add(key string, parent int) int {
	if idx, ok := t.index[key]; ok {
		return idx
	}
	idx := len(t.keys)
	t.keys = append(t.keys, key)
	t.parent = append(t.parent, parent)
	t.index[key] = idx
	return idx
}

// Len returns the number of distinct nodes.
func (t *PathTree) Len() int {
	return len(t.keys)
}

// RootKey returns the path of the root node, or "" for an empty tree.
func (t *PathTree) RootKey() string {
	if t.root < 0 {
		return ""
	}
	return t.keys[t.root]
}

// Has reports whether a node with the given label path exists.
// The path is ordered from the node up to the root.
func (t *PathTree) Has(path ...string) bool {
	_, ok := t.index[strings.Join(path, pathSep)]
	return ok
}

// edges returns parent→child pairs keyed by path.
func (t *PathTree) edges() [][2]string {
	out := make([][2]string, 0, len(t.keys))
	for i, p := range t.parent {
		if p >= 0 {
			out = append(out, [2]string{t.keys[p], t.keys[i]})
		}
	}
	return out
}

// BuildPathTree builds the tree of the requested kind for s.
func BuildPathTree(s domain.Sentence, kind domain.StructureType) (*PathTree, error) {
	switch kind {
	case domain.StructureConstituency:
		return ConstituencyPathTree(s)
	case domain.StructureDependency:
		return DependencyPathTree(s)
	default:
		return nil, fmt.Errorf("unknown structure type %q: %w", kind, domain.ErrInvalidConfiguration)
	}
}

// ConstituencyPathTree keeps the phrase nodes of the sentence's constituency
// tree; word leaves are dropped. A node's path is its label followed by
// its parent's path.
func ConstituencyPathTree(s domain.Sentence) (*PathTree, error) {
	ct := s.Constituency
	if ct.Len() == 0 {
		return nil, fmt.Errorf("no constituency tree: %w", domain.ErrMissingAnnotation)
	}
	t := newPathTree()
	t.root = t.add(ct.Nodes[0].Label, -1)

	type frame struct{ node, pathNode int }
	stack := []frame{{0, t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range ct.Nodes[f.node].Children {
			child := ct.Nodes[c]
			if len(child.Children) == 0 {
				continue
			}
			key := child.Label + pathSep + t.keys[f.pathNode]
			stack = append(stack, frame{c, t.add(key, f.pathNode)})
		}
	}
	return t, nil
}

// DependencyPathTree builds one node per distinct chain of dependency
// relations from a word up through its heads to the root word. A chain's
// parent is the chain with its first relation removed.
func DependencyPathTree(s domain.Sentence) (*PathTree, error) {
	if len(s.Words) == 0 {
		return nil, fmt.Errorf("no words: %w", domain.ErrMissingAnnotation)
	}
	chains := make([][]string, len(s.Words))
	for i, w := range s.Words {
		chain, err := relationChain(s.Words, w)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		chains[i] = chain
	}

	t := newPathTree()
	var addChain func(chain []string) int
	addChain = func(chain []string) int {
		key := strings.Join(chain, pathSep)
		if idx, ok := t.index[key]; ok {
			return idx
		}
		parent := -1
		if len(chain) > 1 {
			parent = addChain(chain[1:])
		}
		return t.add(key, parent)
	}
	for i, chain := range chains {
		idx := addChain(chain)
		if t.root < 0 && s.Words[i].Head == 0 {
			t.root = idx
		}
	}
	if t.root < 0 {
		return nil, fmt.Errorf("no root word: %w", domain.ErrMissingAnnotation)
	}
	return t, nil
}

func relationChain(words []domain.Word, w domain.Word) ([]string, error) {
	var chain []string
	for steps := 0; ; steps++ {
		if w.DepRel == "" || w.DepRel == "_" {
			return nil, fmt.Errorf("missing dependency relation: %w", domain.ErrMissingAnnotation)
		}
		chain = append(chain, w.DepRel)
		if w.Head == 0 {
			return chain, nil
		}
		if w.Head < 0 || w.Head > len(words) {
			return nil, fmt.Errorf("head %d out of range: %w", w.Head, domain.ErrMissingAnnotation)
		}
		if steps >= len(words) {
			return nil, fmt.Errorf("cyclic heads: %w", domain.ErrMissingAnnotation)
		}
		w = words[w.Head-1]
	}
}
