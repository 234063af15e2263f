package optimize

import (
	"fmt"

	"github.com/tliron/commonlog"

	"weld/internal/hir"
)

var log = commonlog.GetLogger("weld.optimize")

// Pass is a single transformation of a unified tree. Run returns a new tree
// and leaves its input untouched. Passes hold no state, so one value may be
// used by any number of pipelines at once.
type Pass interface {
	Name() string
	Description() string
	Run(tree hir.UnifiedNode) (hir.UnifiedNode, error)
}

// Pipeline runs passes in order
type Pipeline struct {
	passes []Pass
}

// New creates an empty pipeline
func New() *Pipeline {
	return &Pipeline{}
}

// Standard creates the pipeline every unified tree goes through: boundary
// elimination and nothing else.
func Standard() *Pipeline {
	p := New()
	p.AddPass(BoundaryElimination{})
	return p
}

// Extended adds constant folding and dead branch elimination after the
// standard passes
func Extended() *Pipeline {
	p := Standard()
	p.AddPass(ConstantFolding{})
	p.AddPass(DeadBranchElimination{})
	return p
}

// AddPass appends a pass to the pipeline
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

func (p *Pipeline) PassCount() int {
	return len(p.passes)
}

// Passes returns the passes in execution order
func (p *Pipeline) Passes() []Pass {
	out := make([]Pass, len(p.passes))
	copy(out, p.passes)
	return out
}

// Run folds tree through every pass. The first failing pass stops the
// pipeline and its error is returned wrapped with the pass name.
func (p *Pipeline) Run(tree hir.UnifiedNode) (hir.UnifiedNode, error) {
	for _, pass := range p.passes {
		out, err := pass.Run(tree)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pass.Name(), err)
		}
		log.Debugf("ran %s on %s", pass.Name(), describe(tree))
		tree = out
	}
	return tree, nil
}

func describe(n hir.UnifiedNode) string {
	switch n := n.(type) {
	case nil:
		return "<nil>"
	case *hir.UnifiedModule:
		return "module " + n.Name
	case *hir.UnifiedFunction:
		return "fn " + n.Name
	}
	return fmt.Sprintf("%s #%d", n.Kind(), n.NodeID())
}

var registry = map[string]func() Pass{
	BoundaryElimination{}.Name():   func() Pass { return BoundaryElimination{} },
	ConstantFolding{}.Name():       func() Pass { return ConstantFolding{} },
	DeadBranchElimination{}.Name(): func() Pass { return DeadBranchElimination{} },
}

// ByName returns the pass registered under name, as used in weld.toml
func ByName(name string) (Pass, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown optimization pass %q", name)
	}
	return ctor(), nil
}

// PassNames lists the registered pass names in pipeline order
func PassNames() []string {
	return []string{
		BoundaryElimination{}.Name(),
		ConstantFolding{}.Name(),
		DeadBranchElimination{}.Name(),
	}
}

// FromNames builds a pipeline from pass names
func FromNames(names []string) (*Pipeline, error) {
	p := New()
	for _, name := range names {
		pass, err := ByName(name)
		if err != nil {
			return nil, err
		}
		p.AddPass(pass)
	}
	return p, nil
}
