package optimize

import (
	"math"

	"weld/internal/hir"
)

// ConstantFolding evaluates binary operations over two literals
type ConstantFolding struct{}

func (ConstantFolding) Name() string {
	return "constant-folding"
}

func (ConstantFolding) Description() string {
	return "Evaluates constant expressions and replaces them with literals"
}

func (cf ConstantFolding) Run(tree hir.UnifiedNode) (hir.UnifiedNode, error) {
	r := rewriter{visit: cf.fold}
	return r.node(tree), nil
}

func (cf ConstantFolding) fold(n hir.UnifiedNode) hir.UnifiedNode {
	bin, ok := n.(*hir.UnifiedBinOp)
	if !ok {
		return n
	}
	left, lok := bin.Left.(*hir.UnifiedLiteral)
	right, rok := bin.Right.(*hir.UnifiedLiteral)
	if !lok || !rok {
		return n
	}
	value, ok := cf.computeBinaryOp(bin.Op, left.Value, right.Value)
	if !ok {
		return n
	}
	return &hir.UnifiedLiteral{ID: bin.ID, Value: value, Meta: bin.Meta}
}

// computeBinaryOp folds integer, boolean and string operands. Operations
// whose result depends on front-language semantics the target does not share
// (true division, modulo of negatives, overflow) are left alone.
func (ConstantFolding) computeBinaryOp(op hir.BinaryOp, left, right hir.LiteralValue) (hir.LiteralValue, bool) {
	switch {
	case left.Kind == hir.LitInt && right.Kind == hir.LitInt:
		a, b := left.Int, right.Int
		switch op {
		case hir.OpAdd:
			if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
				return hir.LiteralValue{}, false
			}
			return hir.IntLit(a + b), true
		case hir.OpSub:
			if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
				return hir.LiteralValue{}, false
			}
			return hir.IntLit(a - b), true
		case hir.OpMul:
			if a != 0 && b != 0 {
				p := a * b
				if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
					return hir.LiteralValue{}, false
				}
			}
			return hir.IntLit(a * b), true
		case hir.OpEq:
			return hir.BoolLit(a == b), true
		case hir.OpNotEq:
			return hir.BoolLit(a != b), true
		case hir.OpLt:
			return hir.BoolLit(a < b), true
		case hir.OpLe:
			return hir.BoolLit(a <= b), true
		case hir.OpGt:
			return hir.BoolLit(a > b), true
		case hir.OpGe:
			return hir.BoolLit(a >= b), true
		}

	case left.Kind == hir.LitBool && right.Kind == hir.LitBool:
		a, b := left.Bool, right.Bool
		switch op {
		case hir.OpAnd:
			return hir.BoolLit(a && b), true
		case hir.OpOr:
			return hir.BoolLit(a || b), true
		case hir.OpEq:
			return hir.BoolLit(a == b), true
		case hir.OpNotEq:
			return hir.BoolLit(a != b), true
		}

	case left.Kind == hir.LitStr && right.Kind == hir.LitStr:
		switch op {
		case hir.OpAdd:
			return hir.StrLit(left.Str + right.Str), true
		case hir.OpEq:
			return hir.BoolLit(left.Str == right.Str), true
		case hir.OpNotEq:
			return hir.BoolLit(left.Str != right.Str), true
		}
	}
	return hir.LiteralValue{}, false
}
