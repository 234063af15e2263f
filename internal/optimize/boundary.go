package optimize

import (
	"weld/internal/hir"
)

// BoundaryElimination marks every recognised call as resolved entirely in
// the target language, so no call back into the native runtime is needed.
// It looks inside every composite node, not only call arguments.
type BoundaryElimination struct{}

func (BoundaryElimination) Name() string {
	return "boundary-elimination"
}

func (BoundaryElimination) Description() string {
	return "Erases the front/native call boundary of recognised patterns"
}

func (b BoundaryElimination) Run(tree hir.UnifiedNode) (hir.UnifiedNode, error) {
	r := rewriter{visit: b.eliminate}
	return r.node(tree), nil
}

func (BoundaryElimination) eliminate(n hir.UnifiedNode) hir.UnifiedNode {
	call, ok := n.(*hir.UnifiedCall)
	if !ok || call.Mapping == nil {
		return n
	}
	// call is already a private copy
	call.Mapping = call.Mapping.Eliminated()
	if call.Origin != call.Target {
		call.Target = hir.Target
	}
	return call
}
