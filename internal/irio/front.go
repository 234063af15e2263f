package irio

import (
	"fmt"

	"weld/internal/hir"
)

func (r *reader) frontBlock(nodes []*Node, path string) ([]hir.FrontNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]hir.FrontNode, len(nodes))
	for i, n := range nodes {
		node, err := r.front(n, item(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return out, nil
}

// optFront decodes a node that may be absent
func (r *reader) optFront(n *Node, path string) (hir.FrontNode, error) {
	if n == nil {
		return nil, nil
	}
	return r.front(n, path)
}

func (r *reader) front(n *Node, path string) (hir.FrontNode, error) {
	if err := required(n, path); err != nil {
		return nil, err
	}
	id, err := r.id(n, path)
	if err != nil {
		return nil, err
	}
	meta, err := r.meta(n, path)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case "function":
		fn, err := r.frontFunction(n, id, meta, path)
		if err != nil {
			return nil, err
		}
		return fn, nil

	case "class":
		body, err := r.frontBlock(n.Body, child(path, "body"))
		if err != nil {
			return nil, err
		}
		bases := make([]string, len(n.Bases))
		for i, b := range n.Bases {
			bases[i] = ident(b)
		}
		return &hir.FrontClass{ID: id, Name: ident(n.Name), Bases: bases, Body: body, Decorators: decorators(n), Meta: meta}, nil

	case "call":
		callee, err := r.front(n.Callee, child(path, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := r.frontBlock(n.Args, child(path, "args"))
		if err != nil {
			return nil, err
		}
		var kwargs []hir.Kwarg
		for i, kw := range n.Kwargs {
			value, err := r.front(kw.Value, item(child(path, "kwargs"), i))
			if err != nil {
				return nil, err
			}
			kwargs = append(kwargs, hir.Kwarg{Name: ident(kw.Name), Value: value})
		}
		typ, err := r.inferred(n.Type, path)
		if err != nil {
			return nil, err
		}
		return &hir.FrontCall{ID: id, Callee: callee, Args: args, Kwargs: kwargs, InferredType: typ, Meta: meta}, nil

	case "variable":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: variable needs a name", path)
		}
		typ, err := r.inferred(n.Type, path)
		if err != nil {
			return nil, err
		}
		return &hir.FrontVariable{ID: id, Name: ident(n.Name), InferredType: typ, Meta: meta}, nil

	case "assign":
		if n.Target == "" {
			return nil, fmt.Errorf("%s: assignment needs a target", path)
		}
		value, err := r.front(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		annotation, err := r.typ(n.Type, path)
		if err != nil {
			return nil, err
		}
		return &hir.FrontAssign{ID: id, Target: ident(n.Target), Value: value, Annotation: annotation, Meta: meta}, nil

	case "return":
		value, err := r.optFront(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontReturn{ID: id, Value: value, Meta: meta}, nil

	case "if":
		cond, err := r.front(n.Cond, child(path, "cond"))
		if err != nil {
			return nil, err
		}
		then, err := r.frontBlock(n.Then, child(path, "then"))
		if err != nil {
			return nil, err
		}
		els, err := r.frontBlock(n.Else, child(path, "else"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontIf{ID: id, Condition: cond, Then: then, Else: els, Meta: meta}, nil

	case "for":
		iter, err := r.front(n.Iter, child(path, "iter"))
		if err != nil {
			return nil, err
		}
		body, err := r.frontBlock(n.Body, child(path, "body"))
		if err != nil {
			return nil, err
		}
		els, err := r.frontBlock(n.Else, child(path, "else"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontFor{ID: id, Target: ident(n.Target), Iter: iter, Body: body, Else: els, Meta: meta}, nil

	case "while":
		cond, err := r.front(n.Cond, child(path, "cond"))
		if err != nil {
			return nil, err
		}
		body, err := r.frontBlock(n.Body, child(path, "body"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontWhile{ID: id, Condition: cond, Body: body, Meta: meta}, nil

	case "binop":
		op, err := r.binaryOp(n, path)
		if err != nil {
			return nil, err
		}
		left, err := r.front(n.Left, child(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := r.front(n.Right, child(path, "right"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontBinOp{ID: id, Op: op, Left: left, Right: right, Meta: meta}, nil

	case "unaryop":
		op, err := r.unaryOp(n, path)
		if err != nil {
			return nil, err
		}
		operand, err := r.front(n.Operand, child(path, "operand"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontUnaryOp{ID: id, Op: op, Operand: operand, Meta: meta}, nil

	case "literal":
		value, err := literal(n, path)
		if err != nil {
			return nil, err
		}
		return &hir.FrontLiteral{ID: id, Value: value, Meta: meta}, nil

	case "listcomp":
		elem, err := r.front(n.Elem, child(path, "elem"))
		if err != nil {
			return nil, err
		}
		iter, err := r.front(n.Iter, child(path, "iter"))
		if err != nil {
			return nil, err
		}
		ifs, err := r.frontBlock(n.Ifs, child(path, "ifs"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontListComp{ID: id, Element: elem, Target: ident(n.Target), Iter: iter, Conditions: ifs, Meta: meta}, nil

	case "attribute":
		value, err := r.front(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontAttribute{ID: id, Value: value, Attr: ident(n.Attr), Meta: meta}, nil

	case "subscript":
		value, err := r.front(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		index, err := r.front(n.Index, child(path, "index"))
		if err != nil {
			return nil, err
		}
		return &hir.FrontSubscript{ID: id, Value: value, Index: index, Meta: meta}, nil
	}
	return nil, fmt.Errorf("%s: unknown front node kind %q", path, n.Kind)
}

func (r *reader) frontFunction(n *Node, id hir.NodeID, meta hir.Metadata, path string) (*hir.FrontFunction, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("%s: function needs a name", path)
	}
	params := make([]hir.FrontParam, len(n.Params))
	for i, p := range n.Params {
		ppath := item(child(path, "params"), i)
		typ, err := r.inferred(p.Type, ppath)
		if err != nil {
			return nil, err
		}
		def, err := r.optFront(p.Default, child(ppath, "default"))
		if err != nil {
			return nil, err
		}
		params[i] = hir.FrontParam{Name: ident(p.Name), Type: typ, Default: def}
	}
	ret, err := r.typ(n.Returns, path)
	if err != nil {
		return nil, err
	}
	vis, err := r.visibility(n.Visibility, path)
	if err != nil {
		return nil, err
	}
	body, err := r.frontBlock(n.Body, child(path, "body"))
	if err != nil {
		return nil, err
	}
	return &hir.FrontFunction{
		ID:         id,
		Name:       ident(n.Name),
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Decorators: decorators(n),
		Visibility: vis,
		Meta:       meta,
	}, nil
}

func decorators(n *Node) []string {
	if len(n.Decorators) == 0 {
		return nil
	}
	out := make([]string, len(n.Decorators))
	for i, d := range n.Decorators {
		out[i] = ident(d)
	}
	return out
}
