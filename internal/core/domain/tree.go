package domain

import (
	"fmt"
	"strings"
)

// ConstituencyNode is one node of a ConstituencyTree.
// Parent is -1 for the root.
type ConstituencyNode struct {
	Label    string
	Parent   int
	Children []int
}

// ConstituencyTree is a phrase-structure tree held in an arena.
// Node 0 is the root; nodes refer to each other by index.
type ConstituencyTree struct {
	Nodes []ConstituencyNode
}

// AddNode appends a node under parent (-1 for the root) and returns its index.
func (t *ConstituencyTree) AddNode(label string, parent int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, ConstituencyNode{Label: label, Parent: parent})
	if parent >= 0 {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}
	return idx
}

// Len returns the number of nodes.
func (t *ConstituencyTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// String renders the tree in bracketed notation.
func (t *ConstituencyTree) String() string {
	if t.Len() == 0 {
		return ""
	}
	var b strings.Builder
	t.write(&b, 0)
	return b.String()
}

func (t *ConstituencyTree) write(b *strings.Builder, idx int) {
	n := t.Nodes[idx]
	if len(n.Children) == 0 {
		b.WriteString(n.Label)
		return
	}
	b.WriteString("(")
	b.WriteString(n.Label)
	for _, c := range n.Children {
		b.WriteString(" ")
		t.write(b, c)
	}
	b.WriteString(")")
}

// ParseBracketed reads a tree in Penn bracketed notation, e.g.
// "(ROOT (S (NP (PRON Jag)) (VP (VERB ser))))".
// Bare tokens become leaves.
func ParseBracketed(s string) (*ConstituencyTree, error) {
	tokens := tokenizeBracketed(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty tree: %w", ErrInvalidInput)
	}
	tree := &ConstituencyTree{}
	pos, err := tree.parseNode(tokens, 0, -1)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("trailing input after tree: %w", ErrInvalidInput)
	}
	return tree, nil
}

func (t *ConstituencyTree) parseNode(tokens []string, pos, parent int) (int, error) {
	if pos >= len(tokens) {
		return pos, fmt.Errorf("unexpected end of tree: %w", ErrInvalidInput)
	}
	switch tokens[pos] {
	case ")":
		return pos, fmt.Errorf("unexpected ')': %w", ErrInvalidInput)
	case "(":
		pos++
		if pos >= len(tokens) || tokens[pos] == "(" || tokens[pos] == ")" {
			return pos, fmt.Errorf("missing node label: %w", ErrInvalidInput)
		}
		idx := t.AddNode(tokens[pos], parent)
		pos++
		for pos < len(tokens) && tokens[pos] != ")" {
			var err error
			pos, err = t.parseNode(tokens, pos, idx)
			if err != nil {
				return pos, err
			}
		}
		if pos >= len(tokens) {
			return pos, fmt.Errorf("unbalanced brackets: %w", ErrInvalidInput)
		}
		return pos + 1, nil
	default:
		t.AddNode(tokens[pos], parent)
		return pos + 1, nil
	}
}

func tokenizeBracketed(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
