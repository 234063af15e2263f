package irio

import (
	"fmt"

	"weld/internal/hir"
)

func (r *reader) nativeBlock(nodes []*Node, path string) ([]hir.NativeNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]hir.NativeNode, len(nodes))
	for i, n := range nodes {
		node, err := r.native(n, item(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return out, nil
}

func (r *reader) optNative(n *Node, path string) (hir.NativeNode, error) {
	if n == nil {
		return nil, nil
	}
	return r.native(n, path)
}

func (r *reader) native(n *Node, path string) (hir.NativeNode, error) {
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
		fn, err := r.nativeFunction(n, id, meta, path)
		if err != nil {
			return nil, err
		}
		return fn, nil

	case "struct":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: struct needs a name", path)
		}
		fields := make([]hir.NativeField, len(n.Fields))
		for i, f := range n.Fields {
			typ, err := r.inferred(f.Type, item(child(path, "fields"), i))
			if err != nil {
				return nil, err
			}
			fields[i] = hir.NativeField{Name: ident(f.Name), Type: typ}
		}
		return &hir.NativeStruct{ID: id, Name: ident(n.Name), Fields: fields, Meta: meta}, nil

	case "call":
		callee, err := r.native(n.Callee, child(path, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := r.nativeBlock(n.Args, child(path, "args"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeCall{ID: id, Callee: callee, Args: args, Meta: meta}, nil

	case "variable":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: variable needs a name", path)
		}
		typ, err := r.inferred(n.Type, path)
		if err != nil {
			return nil, err
		}
		return &hir.NativeVariable{ID: id, Name: ident(n.Name), Type: typ, Meta: meta}, nil

	case "vardecl":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: declaration needs a name", path)
		}
		typ, err := r.inferred(n.Type, path)
		if err != nil {
			return nil, err
		}
		initExpr, err := r.optNative(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		storage, err := r.storage(n.Storage, path)
		if err != nil {
			return nil, err
		}
		return &hir.NativeVarDecl{ID: id, Name: ident(n.Name), Type: typ, Init: initExpr, Storage: storage, Meta: meta}, nil

	case "assign":
		target, err := r.native(n.Left, child(path, "left"))
		if err != nil {
			return nil, err
		}
		value, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeAssign{ID: id, Target: target, Value: value, Meta: meta}, nil

	case "return":
		value, err := r.optNative(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeReturn{ID: id, Value: value, Meta: meta}, nil

	case "if":
		cond, err := r.native(n.Cond, child(path, "cond"))
		if err != nil {
			return nil, err
		}
		then, err := r.nativeBlock(n.Then, child(path, "then"))
		if err != nil {
			return nil, err
		}
		els, err := r.nativeBlock(n.Else, child(path, "else"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeIf{ID: id, Condition: cond, Then: then, Else: els, Meta: meta}, nil

	case "for":
		initExpr, err := r.optNative(n.Init, child(path, "init"))
		if err != nil {
			return nil, err
		}
		cond, err := r.optNative(n.Cond, child(path, "cond"))
		if err != nil {
			return nil, err
		}
		step, err := r.optNative(n.Step, child(path, "step"))
		if err != nil {
			return nil, err
		}
		body, err := r.nativeBlock(n.Body, child(path, "body"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeFor{ID: id, Init: initExpr, Condition: cond, Increment: step, Body: body, Meta: meta}, nil

	case "while":
		cond, err := r.native(n.Cond, child(path, "cond"))
		if err != nil {
			return nil, err
		}
		body, err := r.nativeBlock(n.Body, child(path, "body"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeWhile{ID: id, Condition: cond, Body: body, Meta: meta}, nil

	case "binop":
		op, err := r.binaryOp(n, path)
		if err != nil {
			return nil, err
		}
		left, err := r.native(n.Left, child(path, "left"))
		if err != nil {
			return nil, err
		}
		right, err := r.native(n.Right, child(path, "right"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeBinOp{ID: id, Op: op, Left: left, Right: right, Meta: meta}, nil

	case "unaryop":
		op, err := r.unaryOp(n, path)
		if err != nil {
			return nil, err
		}
		operand, err := r.native(n.Operand, child(path, "operand"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeUnaryOp{ID: id, Op: op, Operand: operand, Meta: meta}, nil

	case "literal":
		value, err := literal(n, path)
		if err != nil {
			return nil, err
		}
		return &hir.NativeLiteral{ID: id, Value: value, Meta: meta}, nil

	case "field":
		object, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeFieldAccess{ID: id, Object: object, Field: ident(n.Attr), Pointer: n.Arrow, Meta: meta}, nil

	case "subscript":
		array, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		index, err := r.native(n.Index, child(path, "index"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeArraySubscript{ID: id, Array: array, Index: index, Meta: meta}, nil

	case "cast":
		typ, err := r.inferred(n.Type, path)
		if err != nil {
			return nil, err
		}
		expr, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeCast{ID: id, Type: typ, Expr: expr, Meta: meta}, nil

	case "deref":
		expr, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeDeref{ID: id, Expr: expr, Meta: meta}, nil

	case "addrof":
		expr, err := r.native(n.Value, child(path, "value"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeAddrOf{ID: id, Expr: expr, Meta: meta}, nil

	case "intrinsic":
		if n.Name == "" {
			return nil, fmt.Errorf("%s: intrinsic needs a name", path)
		}
		args, err := r.nativeBlock(n.Args, child(path, "args"))
		if err != nil {
			return nil, err
		}
		return &hir.NativeRuntimeIntrinsic{ID: id, Name: ident(n.Name), Args: args, Meta: meta}, nil
	}
	return nil, fmt.Errorf("%s: unknown native node kind %q", path, n.Kind)
}

func (r *reader) nativeFunction(n *Node, id hir.NodeID, meta hir.Metadata, path string) (*hir.NativeFunction, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("%s: function needs a name", path)
	}
	params := make([]hir.NativeParam, len(n.Params))
	for i, p := range n.Params {
		ppath := item(child(path, "params"), i)
		if p.Default != nil {
			return nil, fmt.Errorf("%s: native parameters cannot have defaults", ppath)
		}
		typ, err := r.inferred(p.Type, ppath)
		if err != nil {
			return nil, err
		}
		params[i] = hir.NativeParam{Name: ident(p.Name), Type: typ}
	}
	ret, err := r.inferred(n.Returns, path)
	if err != nil {
		return nil, err
	}
	storage, err := r.storage(n.Storage, path)
	if err != nil {
		return nil, err
	}
	vis, err := r.visibility(n.Visibility, path)
	if err != nil {
		return nil, err
	}
	if storage == hir.StorageStatic && n.Visibility == "" {
		vis = hir.Private
	}
	for _, attr := range n.Decorators {
		meta = meta.AddAttribute(ident(attr))
	}
	body, err := r.nativeBlock(n.Body, child(path, "body"))
	if err != nil {
		return nil, err
	}
	return &hir.NativeFunction{
		ID:         id,
		Name:       ident(n.Name),
		ReturnType: ret,
		Params:     params,
		Body:       body,
		Storage:    storage,
		Visibility: vis,
		Meta:       meta,
	}, nil
}
