package unify

import (
	"fmt"

	"weld/internal/errors"
	"weld/internal/hir"
	"weld/internal/types"
)

// args converts the positional arguments of call in order, then its keyword
// arguments as `name = value` assignments. Names are kept verbatim.
func (u *Unifier) args(call *hir.FrontCall, tu *hir.NativeTranslationUnit) ([]hir.UnifiedNode, error) {
	out := make([]hir.UnifiedNode, 0, len(call.Args)+len(call.Kwargs))
	for _, arg := range call.Args {
		converted, err := u.expr(arg, tu)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	for _, kw := range call.Kwargs {
		value, err := u.expr(kw.Value, tu)
		if err != nil {
			return nil, err
		}
		out = append(out, &hir.UnifiedAssign{
			ID:     u.ids.Next(),
			Target: kw.Name,
			Value:  value,
			Type:   typeOf(value),
			Meta:   kw.Value.Metadata().Clone(),
		})
	}
	return out, nil
}

// expr converts a front expression. With tu set, calls are paired with the
// native functions of tu; without it every nested call stays a plain call.
func (u *Unifier) expr(node hir.FrontNode, tu *hir.NativeTranslationUnit) (hir.UnifiedNode, error) {
	switch n := node.(type) {
	case *hir.FrontVariable:
		return &hir.UnifiedVariable{
			ID:   u.ids.Next(),
			Name: n.Name,
			Type: n.InferredType,
			Meta: n.Meta.Clone(),
		}, nil

	case *hir.FrontLiteral:
		return &hir.UnifiedLiteral{ID: u.ids.Next(), Value: n.Value, Meta: n.Meta.Clone()}, nil

	case *hir.FrontBinOp:
		if !n.Op.Unifiable() {
			return nil, errors.UnsupportedFront(fmt.Sprintf("BinOp(%s)", n.Op)).At(n.Meta.Source)
		}
		id := u.ids.Next()
		left, err := u.expr(n.Left, tu)
		if err != nil {
			return nil, err
		}
		right, err := u.expr(n.Right, tu)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedBinOp{
			ID:    id,
			Op:    n.Op,
			Left:  left,
			Right: right,
			Type:  binOpType(n.Op),
			Meta:  n.Meta.Clone(),
		}, nil

	case *hir.FrontCall:
		return u.call(n, tu)

	case *hir.FrontAttribute:
		name, ok := dottedName(n)
		if !ok {
			return nil, errors.UnsupportedFront(n.Kind()).At(n.Meta.Source)
		}
		return &hir.UnifiedVariable{
			ID:   u.ids.Next(),
			Name: name,
			Type: &types.Unknown{},
			Meta: n.Meta.Clone(),
		}, nil
	}
	return nil, errors.UnsupportedFront(frontKind(node)).At(sourceOf(node))
}

// call converts a call appearing inside a larger tree
func (u *Unifier) call(n *hir.FrontCall, tu *hir.NativeTranslationUnit) (hir.UnifiedNode, error) {
	name, ok := n.CalleeName()
	if !ok {
		return nil, errors.UnsupportedFront(frontKind(n.Callee)).At(n.Meta.Source)
	}

	if tu != nil {
		candidates := u.catalog.LookupFront(name)
		for _, c := range candidates {
			if fn, found := tu.FindFunction(c.NativeCallee); found {
				unified, err := u.unifyCall(n, fn, tu)
				if err != nil {
					return nil, err
				}
				return unified, nil
			}
		}
		if len(candidates) > 0 {
			u.warnings = append(u.warnings, errors.UnpairedCall(name, errors.PositionOf(n.Meta.Source), candidates))
		}
	}

	id := u.ids.Next()
	args, err := u.args(n, tu)
	if err != nil {
		return nil, err
	}
	return &hir.UnifiedCall{
		ID:           id,
		Target:       hir.Front,
		Callee:       name,
		Args:         args,
		InferredType: n.InferredType,
		Origin:       hir.Front,
		Meta:         n.Meta.Clone(),
	}, nil
}

// dottedName flattens a.b.c when every part is a plain name
func dottedName(node hir.FrontNode) (string, bool) {
	switch n := node.(type) {
	case *hir.FrontVariable:
		return n.Name, true
	case *hir.FrontAttribute:
		base, ok := dottedName(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	}
	return "", false
}

func binOpType(op hir.BinaryOp) types.Type {
	if op.Comparison() || op == hir.OpAnd || op == hir.OpOr {
		return &types.TargetBool{}
	}
	return &types.Unknown{}
}

// typeOf is the type a converted expression is known to have, if any
func typeOf(node hir.UnifiedNode) types.Type {
	switch n := node.(type) {
	case *hir.UnifiedCall:
		return n.InferredType
	case *hir.UnifiedVariable:
		return n.Type
	case *hir.UnifiedBinOp:
		return n.Type
	case *hir.UnifiedLiteral:
		return literalType(n.Value)
	}
	return nil
}

func literalType(v hir.LiteralValue) types.Type {
	switch v.Kind {
	case hir.LitInt:
		return &types.TargetInt{Bits: types.IntSize64, Signed: true}
	case hir.LitUint:
		return &types.TargetInt{Bits: types.IntSize64}
	case hir.LitFloat:
		return &types.TargetFloat{Bits: 64}
	case hir.LitStr:
		return &types.TargetString{}
	case hir.LitChar:
		return types.Named("char")
	case hir.LitBool:
		return &types.TargetBool{}
	case hir.LitNone:
		return types.Unit()
	}
	return &types.Unknown{}
}
