// Package rewrite replaces CorePass identity tokens found in the text leaves
// of a document tree with links or invalid markers.
package rewrite

import (
	"github.com/dgallion1/corepassmd/internal/coreid"
	"github.com/dgallion1/corepassmd/internal/mdtree"
)

// Stats summarizes one Transform call.
type Stats struct {
	LeavesRewritten int `json:"leaves_rewritten"`
	Valid           int `json:"valid"`
	Invalid         int `json:"invalid"`
	Bare            int `json:"bare"`
}

// Tokens is the number of tokens replaced.
func (s Stats) Tokens() int {
	return s.Valid + s.Invalid + s.Bare
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.LeavesRewritten += other.LeavesRewritten
	s.Valid += other.Valid
	s.Invalid += other.Invalid
	s.Bare += other.Bare
}

func (s *Stats) count(o coreid.Outcome) {
	switch o {
	case coreid.OutcomeValid:
		s.Valid++
	case coreid.OutcomeInvalid:
		s.Invalid++
	case coreid.OutcomeBare:
		s.Bare++
	}
}

// Transform rewrites root in place. Text leaves without tokens are left
// untouched; a leaf with tokens is replaced by its unmatched fragments and
// the rendered tokens, in order, with a single splice.
func Transform(root *mdtree.Node, opts coreid.Options) Stats {
	var stats Stats
	mdtree.WalkText(root, func(parent *mdtree.Node, index int) int {
		return rewriteLeaf(parent, index, opts, &stats)
	})
	return stats
}

// rewriteLeaf handles parent.Children[index] and returns how many nodes
// now sit in its slot.
func rewriteLeaf(parent *mdtree.Node, index int, opts coreid.Options, stats *Stats) int {
	if index < 0 || index >= len(parent.Children) {
		return 1
	}
	leaf := parent.Children[index]
	if leaf == nil || leaf.Kind != mdtree.KindText {
		return 1
	}

	matches := coreid.Scan(leaf.Value)
	if len(matches) == 0 {
		return 1
	}

	var local Stats
	repl := make([]*mdtree.Node, 0, 2*len(matches)+1)
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			repl = append(repl, mdtree.NewText(leaf.Value[cursor:m.Start]))
		}
		ref := coreid.Describe(m, opts)
		local.count(ref.Outcome)
		repl = append(repl, ref.Node())
		cursor = m.End
	}
	if cursor < len(leaf.Value) {
		repl = append(repl, mdtree.NewText(leaf.Value[cursor:]))
	}

	if err := parent.Splice(index, repl...); err != nil {
		return 1
	}
	local.LeavesRewritten = 1
	stats.Add(local)
	return len(repl)
}
