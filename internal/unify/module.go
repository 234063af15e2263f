package unify

import (
	"weld/internal/errors"
	"weld/internal/hir"
)

// UnifyModule unifies a whole front module against a native translation
// unit. Every call whose callee completes a catalog entry with a function of
// tu is unified; other calls are kept as plain front calls, with a warning
// when the catalog knows the callee but tu lacks its native side.
// The first error aborts the module and nothing is returned.
func (u *Unifier) UnifyModule(front *hir.FrontModule, tu *hir.NativeTranslationUnit) (*hir.UnifiedModule, error) {
	if front == nil || tu == nil {
		fk, nk := "<nil>", "<nil>"
		if front != nil {
			fk = front.Kind()
		}
		if tu != nil {
			nk = tu.Kind()
		}
		return nil, errors.IncompatibleNodes(fk, nk)
	}

	u.warnings = nil
	decls, err := u.block(front.Body, tu)
	if err != nil {
		return nil, err
	}

	log.Infof("[%s] unified module %s against %s: %d declarations, %d warnings",
		u.session, front.Name, tu.Name, len(decls), len(u.warnings))
	return &hir.UnifiedModule{Name: front.Name, Decls: decls, Meta: front.Meta.Clone()}, nil
}

func (u *Unifier) block(nodes []hir.FrontNode, tu *hir.NativeTranslationUnit) ([]hir.UnifiedNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]hir.UnifiedNode, 0, len(nodes))
	for _, n := range nodes {
		converted, err := u.stmt(n, tu)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (u *Unifier) stmt(node hir.FrontNode, tu *hir.NativeTranslationUnit) (hir.UnifiedNode, error) {
	switch n := node.(type) {
	case *hir.FrontFunction:
		fn, err := u.function(n, tu)
		if err != nil {
			return nil, err
		}
		return fn, nil

	case *hir.FrontAssign:
		value, err := u.expr(n.Value, tu)
		if err != nil {
			return nil, err
		}
		typ := n.Annotation
		if typ == nil {
			typ = typeOf(value)
		}
		return &hir.UnifiedAssign{ID: u.ids.Next(), Target: n.Target, Value: value, Type: typ, Meta: n.Meta.Clone()}, nil

	case *hir.FrontReturn:
		ret := &hir.UnifiedReturn{ID: u.ids.Next(), Meta: n.Meta.Clone()}
		if n.Value != nil {
			value, err := u.expr(n.Value, tu)
			if err != nil {
				return nil, err
			}
			ret.Value = value
		}
		return ret, nil

	case *hir.FrontIf:
		id := u.ids.Next()
		cond, err := u.expr(n.Condition, tu)
		if err != nil {
			return nil, err
		}
		then, err := u.block(n.Then, tu)
		if err != nil {
			return nil, err
		}
		els, err := u.block(n.Else, tu)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedIf{ID: id, Condition: cond, Then: then, Else: els, Meta: n.Meta.Clone()}, nil

	case *hir.FrontFor:
		if len(n.Else) > 0 {
			return nil, errors.UnsupportedFront("For/else").At(n.Meta.Source)
		}
		id := u.ids.Next()
		iter, err := u.expr(n.Iter, tu)
		if err != nil {
			return nil, err
		}
		body, err := u.block(n.Body, tu)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedLoop{
			ID:   id,
			Loop: hir.ForLoop{Target: n.Target, Iterable: iter},
			Body: body,
			Meta: n.Meta.Clone(),
		}, nil

	case *hir.FrontWhile:
		id := u.ids.Next()
		cond, err := u.expr(n.Condition, tu)
		if err != nil {
			return nil, err
		}
		body, err := u.block(n.Body, tu)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedLoop{
			ID:   id,
			Loop: hir.WhileLoop{Condition: cond},
			Body: body,
			Meta: n.Meta.Clone(),
		}, nil
	}

	// expression statement
	return u.expr(node, tu)
}

func (u *Unifier) function(fn *hir.FrontFunction, tu *hir.NativeTranslationUnit) (*hir.UnifiedFunction, error) {
	id := u.ids.Next()
	params := make([]hir.UnifiedParameter, len(fn.Params))
	for i, p := range fn.Params {
		if p.Default != nil {
			return nil, errors.UnsupportedFront("default parameter").At(fn.Meta.Source)
		}
		params[i] = hir.UnifiedParameter{Name: p.Name, Type: p.Type, Origin: hir.Front}
	}

	body, err := u.block(fn.Body, tu)
	if err != nil {
		return nil, err
	}

	meta := fn.Meta.Clone()
	for _, d := range fn.Decorators {
		meta = meta.AddAttribute(d)
	}
	return &hir.UnifiedFunction{
		ID:         id,
		Name:       fn.Name,
		Params:     params,
		ReturnType: fn.ReturnType,
		Body:       body,
		Origin:     hir.Front,
		Visibility: fn.Visibility,
		Meta:       meta,
	}, nil
}
