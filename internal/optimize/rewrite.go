package optimize

import (
	"slices"

	"weld/internal/hir"
)

// rewriter rebuilds a unified tree bottom-up. Every node is copied before
// visit sees it, so visit may modify its argument freely. splice runs on
// each statement list after its statements were rebuilt.
type rewriter struct {
	visit  func(hir.UnifiedNode) hir.UnifiedNode
	splice func([]hir.UnifiedNode) []hir.UnifiedNode
}

func (r *rewriter) node(n hir.UnifiedNode) hir.UnifiedNode {
	var out hir.UnifiedNode

	switch n := n.(type) {
	case nil:
		return nil

	case *hir.UnifiedModule:
		out = &hir.UnifiedModule{Name: n.Name, Decls: r.block(n.Decls), Meta: n.Meta.Clone()}

	case *hir.UnifiedFunction:
		c := *n
		c.Params = slices.Clone(n.Params)
		c.Body = r.block(n.Body)
		c.Mapping = n.Mapping.Clone()
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedCall:
		c := *n
		c.Args = r.list(n.Args)
		c.Mapping = n.Mapping.Clone()
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedVariable:
		c := *n
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedAssign:
		c := *n
		c.Value = r.node(n.Value)
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedReturn:
		c := *n
		c.Value = r.node(n.Value)
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedIf:
		c := *n
		c.Condition = r.node(n.Condition)
		c.Then = r.block(n.Then)
		c.Else = r.block(n.Else)
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedLoop:
		c := *n
		switch k := n.Loop.(type) {
		case hir.ForLoop:
			c.Loop = hir.ForLoop{Target: k.Target, Iterable: r.node(k.Iterable)}
		case hir.WhileLoop:
			c.Loop = hir.WhileLoop{Condition: r.node(k.Condition)}
		}
		c.Body = r.block(n.Body)
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedBinOp:
		c := *n
		c.Left = r.node(n.Left)
		c.Right = r.node(n.Right)
		c.Meta = n.Meta.Clone()
		out = &c

	case *hir.UnifiedLiteral:
		c := *n
		c.Meta = n.Meta.Clone()
		out = &c
	}

	if r.visit != nil {
		out = r.visit(out)
	}
	return out
}

// list rebuilds an expression list. A nil list stays nil.
func (r *rewriter) list(nodes []hir.UnifiedNode) []hir.UnifiedNode {
	if nodes == nil {
		return nil
	}
	out := make([]hir.UnifiedNode, len(nodes))
	for i, n := range nodes {
		out[i] = r.node(n)
	}
	return out
}

func (r *rewriter) block(nodes []hir.UnifiedNode) []hir.UnifiedNode {
	out := r.list(nodes)
	if r.splice != nil && len(out) > 0 {
		out = r.splice(out)
	}
	return out
}
