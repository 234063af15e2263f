package irio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"weld/internal/hir"
	"weld/internal/types"
)

// SnapshotVersion is bumped whenever the encoded layout changes
const SnapshotVersion = 1

// Snapshot is a unified module as handed to downstream emitters
type Snapshot struct {
	Session string
	Module  *hir.UnifiedModule
}

// The wire structs below mirror the unified IR with interfaces replaced by
// tagged records. Slice fields carry no omitempty so nil and empty survive a
// round trip unchanged.

type wireSnapshot struct {
	Version int       `msgpack:"v"`
	Session string    `msgpack:"session"`
	Module  *wireNode `msgpack:"module"`
}

type wireNode struct {
	Kind string     `msgpack:"k"`
	ID   hir.NodeID `msgpack:"id,omitempty"`

	Name       string            `msgpack:"name,omitempty"`
	Params     []wireParam       `msgpack:"params"`
	ReturnType *wireType         `msgpack:"ret,omitempty"`
	Type       *wireType         `msgpack:"type,omitempty"`
	Origin     hir.Language      `msgpack:"origin,omitempty"`
	Target     hir.Language      `msgpack:"target,omitempty"`
	Visibility hir.Visibility    `msgpack:"vis,omitempty"`
	Callee     string            `msgpack:"callee,omitempty"`
	Assigned   string            `msgpack:"assigned,omitempty"`
	Op         hir.BinaryOp      `msgpack:"op,omitempty"`
	Literal    *wireLiteral      `msgpack:"lit,omitempty"`
	Mapping    *hir.CrossMapping `msgpack:"mapping,omitempty"`

	Value     *wireNode   `msgpack:"value,omitempty"`
	Left      *wireNode   `msgpack:"left,omitempty"`
	Right     *wireNode   `msgpack:"right,omitempty"`
	Condition *wireNode   `msgpack:"cond,omitempty"`
	Args      []*wireNode `msgpack:"args"`
	Body      []*wireNode `msgpack:"body"`
	Then      []*wireNode `msgpack:"then"`
	Else      []*wireNode `msgpack:"else"`

	// "for" or "while" on loops
	Loop string `msgpack:"loop,omitempty"`

	Meta wireMeta `msgpack:"meta"`
}

type wireParam struct {
	Name   string       `msgpack:"name"`
	Type   *wireType    `msgpack:"type,omitempty"`
	Origin hir.Language `msgpack:"origin"`
}

// wireType stores a type as its spelling within its universe
type wireType struct {
	Universe types.Universe `msgpack:"u"`
	Spelled  string         `msgpack:"s"`
}

type wireLiteral struct {
	Kind  hir.LiteralKind `msgpack:"k"`
	Int   int64           `msgpack:"i,omitempty"`
	Uint  uint64          `msgpack:"u,omitempty"`
	Float float64         `msgpack:"f,omitempty"`
	Str   string          `msgpack:"s,omitempty"`
	Bool  bool            `msgpack:"b,omitempty"`
}

type wireMeta struct {
	Source     *hir.SourceLocation `msgpack:"src,omitempty"`
	Docs       string              `msgpack:"docs,omitempty"`
	Attributes []hir.Attribute     `msgpack:"attrs"`
	CrossRefs  []hir.CrossRef      `msgpack:"xrefs"`
	Hints      map[string]string   `msgpack:"hints"`
}

// EncodeSnapshot writes m to w
func EncodeSnapshot(w io.Writer, session string, m *hir.UnifiedModule) error {
	if m == nil {
		return errors.New("cannot snapshot a nil module")
	}
	module, err := toWire(m)
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&wireSnapshot{Version: SnapshotVersion, Session: session, Module: module})
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var ws wireSnapshot
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&ws); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if ws.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", ws.Version, SnapshotVersion)
	}
	if ws.Module == nil || ws.Module.Kind != "Module" {
		return nil, errors.New("snapshot holds no module")
	}
	node, err := fromWire(types.NewRegistry(), ws.Module)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Session: ws.Session, Module: node.(*hir.UnifiedModule)}, nil
}

// WriteSnapshot writes a snapshot file atomically
func WriteSnapshot(path, session string, m *hir.UnifiedModule) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(f.Name())
	}()

	if err := EncodeSnapshot(f, session, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	log.Infof("wrote snapshot of %s to %s", m.Name, path)
	return nil
}

// ReadSnapshot reads a snapshot file
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	snap, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func wireTypeOf(t types.Type) (*wireType, error) {
	if t == nil {
		return nil, nil
	}
	switch t.(type) {
	case *types.Generic, *types.Function:
		return nil, fmt.Errorf("type %s cannot be stored in a snapshot", t)
	}
	return &wireType{Universe: t.Universe(), Spelled: t.String()}, nil
}

func (w *wireType) resolve(reg *types.Registry) (types.Type, error) {
	if w == nil {
		return nil, nil
	}
	return reg.Resolve(w.Universe, w.Spelled)
}

func wireMetaOf(m hir.Metadata) wireMeta {
	m = m.Clone()
	return wireMeta{
		Source:     m.Source,
		Docs:       m.Docs,
		Attributes: m.Attributes,
		CrossRefs:  m.CrossRefs,
		Hints:      m.Hints,
	}
}

func (w wireMeta) metadata() hir.Metadata {
	return hir.Metadata{
		Source:     w.Source,
		Docs:       w.Docs,
		Attributes: w.Attributes,
		CrossRefs:  w.CrossRefs,
		Hints:      w.Hints,
	}
}

func toWireList(nodes []hir.UnifiedNode) ([]*wireNode, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]*wireNode, len(nodes))
	for i, n := range nodes {
		w, err := toWire(n)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func toWireOpt(n hir.UnifiedNode) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}
	return toWire(n)
}

func toWire(node hir.UnifiedNode) (*wireNode, error) {
	w := &wireNode{Kind: node.Kind(), ID: node.NodeID(), Meta: wireMetaOf(*node.Metadata())}
	var err error

	switch n := node.(type) {
	case *hir.UnifiedModule:
		w.Name = n.Name
		w.Body, err = toWireList(n.Decls)

	case *hir.UnifiedFunction:
		w.Name = n.Name
		w.Origin = n.Origin
		w.Visibility = n.Visibility
		w.Mapping = n.Mapping.Clone()
		if n.Params != nil {
			w.Params = make([]wireParam, len(n.Params))
			for i, p := range n.Params {
				t, err := wireTypeOf(p.Type)
				if err != nil {
					return nil, err
				}
				w.Params[i] = wireParam{Name: p.Name, Type: t, Origin: p.Origin}
			}
		}
		if w.ReturnType, err = wireTypeOf(n.ReturnType); err != nil {
			return nil, err
		}
		w.Body, err = toWireList(n.Body)

	case *hir.UnifiedCall:
		w.Target = n.Target
		w.Callee = n.Callee
		w.Origin = n.Origin
		w.Mapping = n.Mapping.Clone()
		if w.Type, err = wireTypeOf(n.InferredType); err != nil {
			return nil, err
		}
		w.Args, err = toWireList(n.Args)

	case *hir.UnifiedVariable:
		w.Name = n.Name
		w.Type, err = wireTypeOf(n.Type)

	case *hir.UnifiedAssign:
		w.Assigned = n.Target
		if w.Type, err = wireTypeOf(n.Type); err != nil {
			return nil, err
		}
		w.Value, err = toWireOpt(n.Value)

	case *hir.UnifiedReturn:
		w.Value, err = toWireOpt(n.Value)

	case *hir.UnifiedIf:
		if w.Condition, err = toWireOpt(n.Condition); err != nil {
			return nil, err
		}
		if w.Then, err = toWireList(n.Then); err != nil {
			return nil, err
		}
		w.Else, err = toWireList(n.Else)

	case *hir.UnifiedLoop:
		switch loop := n.Loop.(type) {
		case hir.ForLoop:
			w.Loop = "for"
			w.Assigned = loop.Target
			w.Value, err = toWireOpt(loop.Iterable)
		case hir.WhileLoop:
			w.Loop = "while"
			w.Condition, err = toWireOpt(loop.Condition)
		default:
			return nil, fmt.Errorf("loop #%d has no loop kind", n.ID)
		}
		if err != nil {
			return nil, err
		}
		w.Body, err = toWireList(n.Body)

	case *hir.UnifiedBinOp:
		w.Op = n.Op
		if w.Type, err = wireTypeOf(n.Type); err != nil {
			return nil, err
		}
		if w.Left, err = toWireOpt(n.Left); err != nil {
			return nil, err
		}
		w.Right, err = toWireOpt(n.Right)

	case *hir.UnifiedLiteral:
		v := n.Value
		w.Literal = &wireLiteral{Kind: v.Kind, Int: v.Int, Uint: v.Uint, Float: v.Float, Str: v.Str, Bool: v.Bool}

	default:
		return nil, fmt.Errorf("cannot snapshot %s node", node.Kind())
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func fromWireList(reg *types.Registry, ws []*wireNode) ([]hir.UnifiedNode, error) {
	if ws == nil {
		return nil, nil
	}
	out := make([]hir.UnifiedNode, len(ws))
	for i, w := range ws {
		n, err := fromWire(reg, w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func fromWireOpt(reg *types.Registry, w *wireNode) (hir.UnifiedNode, error) {
	if w == nil {
		return nil, nil
	}
	return fromWire(reg, w)
}

func fromWire(reg *types.Registry, w *wireNode) (hir.UnifiedNode, error) {
	meta := w.Meta.metadata()

	switch w.Kind {
	case "Module":
		decls, err := fromWireList(reg, w.Body)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedModule{Name: w.Name, Decls: decls, Meta: meta}, nil

	case "Function":
		var params []hir.UnifiedParameter
		if w.Params != nil {
			params = make([]hir.UnifiedParameter, len(w.Params))
			for i, p := range w.Params {
				t, err := p.Type.resolve(reg)
				if err != nil {
					return nil, err
				}
				params[i] = hir.UnifiedParameter{Name: p.Name, Type: t, Origin: p.Origin}
			}
		}
		ret, err := w.ReturnType.resolve(reg)
		if err != nil {
			return nil, err
		}
		body, err := fromWireList(reg, w.Body)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedFunction{
			ID:         w.ID,
			Name:       w.Name,
			Params:     params,
			ReturnType: ret,
			Body:       body,
			Origin:     w.Origin,
			Visibility: w.Visibility,
			Mapping:    w.Mapping,
			Meta:       meta,
		}, nil

	case "Call":
		t, err := w.Type.resolve(reg)
		if err != nil {
			return nil, err
		}
		args, err := fromWireList(reg, w.Args)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedCall{
			ID:           w.ID,
			Target:       w.Target,
			Callee:       w.Callee,
			Args:         args,
			InferredType: t,
			Origin:       w.Origin,
			Mapping:      w.Mapping,
			Meta:         meta,
		}, nil

	case "Variable":
		t, err := w.Type.resolve(reg)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedVariable{ID: w.ID, Name: w.Name, Type: t, Meta: meta}, nil

	case "Assign":
		t, err := w.Type.resolve(reg)
		if err != nil {
			return nil, err
		}
		value, err := fromWireOpt(reg, w.Value)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedAssign{ID: w.ID, Target: w.Assigned, Value: value, Type: t, Meta: meta}, nil

	case "Return":
		value, err := fromWireOpt(reg, w.Value)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedReturn{ID: w.ID, Value: value, Meta: meta}, nil

	case "If":
		cond, err := fromWireOpt(reg, w.Condition)
		if err != nil {
			return nil, err
		}
		then, err := fromWireList(reg, w.Then)
		if err != nil {
			return nil, err
		}
		els, err := fromWireList(reg, w.Else)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedIf{ID: w.ID, Condition: cond, Then: then, Else: els, Meta: meta}, nil

	case "Loop":
		var loop hir.LoopKind
		switch w.Loop {
		case "for":
			iter, err := fromWireOpt(reg, w.Value)
			if err != nil {
				return nil, err
			}
			loop = hir.ForLoop{Target: w.Assigned, Iterable: iter}
		case "while":
			cond, err := fromWireOpt(reg, w.Condition)
			if err != nil {
				return nil, err
			}
			loop = hir.WhileLoop{Condition: cond}
		default:
			return nil, fmt.Errorf("loop #%d: unknown loop kind %q", w.ID, w.Loop)
		}
		body, err := fromWireList(reg, w.Body)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedLoop{ID: w.ID, Loop: loop, Body: body, Meta: meta}, nil

	case "BinOp":
		t, err := w.Type.resolve(reg)
		if err != nil {
			return nil, err
		}
		left, err := fromWireOpt(reg, w.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromWireOpt(reg, w.Right)
		if err != nil {
			return nil, err
		}
		return &hir.UnifiedBinOp{ID: w.ID, Op: w.Op, Left: left, Right: right, Type: t, Meta: meta}, nil

	case "Literal":
		if w.Literal == nil {
			return nil, fmt.Errorf("literal #%d has no value", w.ID)
		}
		l := w.Literal
		value := hir.LiteralValue{Kind: l.Kind, Int: l.Int, Uint: l.Uint, Float: l.Float, Str: l.Str, Bool: l.Bool}
		return &hir.UnifiedLiteral{ID: w.ID, Value: value, Meta: meta}, nil
	}
	return nil, fmt.Errorf("unknown node kind %q in snapshot", w.Kind)
}
