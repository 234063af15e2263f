package optimize

import (
	"weld/internal/hir"
)

// DeadBranchElimination replaces an if with a literal condition by the
// branch it always takes, and drops `while False` loops
type DeadBranchElimination struct{}

func (DeadBranchElimination) Name() string {
	return "dead-branch-elimination"
}

func (DeadBranchElimination) Description() string {
	return "Removes branches and loops whose condition is a constant"
}

func (d DeadBranchElimination) Run(tree hir.UnifiedNode) (hir.UnifiedNode, error) {
	r := rewriter{splice: d.prune}
	return r.node(tree), nil
}

func (DeadBranchElimination) prune(block []hir.UnifiedNode) []hir.UnifiedNode {
	out := make([]hir.UnifiedNode, 0, len(block))
	for _, n := range block {
		switch s := n.(type) {
		case *hir.UnifiedIf:
			if taken, ok := literalBool(s.Condition); ok {
				if taken {
					out = append(out, s.Then...)
				} else {
					out = append(out, s.Else...)
				}
				continue
			}
		case *hir.UnifiedLoop:
			if w, ok := s.Loop.(hir.WhileLoop); ok {
				if cond, ok := literalBool(w.Condition); ok && !cond {
					continue
				}
			}
		}
		out = append(out, n)
	}
	return out
}

func literalBool(n hir.UnifiedNode) (value, ok bool) {
	lit, isLit := n.(*hir.UnifiedLiteral)
	if !isLit || lit.Value.Kind != hir.LitBool {
		return false, false
	}
	return lit.Value.Bool, true
}
