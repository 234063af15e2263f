package emit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"weld/internal/hir"
	"weld/internal/types"
)

var log = commonlog.GetLogger("weld.emit")

// ErrBoundaryPresent is returned for a recognised call whose cross-language
// boundary has not been eliminated yet
var ErrBoundaryPresent = errors.New("call still crosses the language boundary; run boundary elimination first")

// Emitter renders a unified tree as source text of an output language
type Emitter interface {
	Name() string
	Emit(node hir.UnifiedNode) (string, error)
}

// Rust renders unified trees as Rust source. The output is not checked by a
// Rust compiler.
type Rust struct {
	// Indent is one level of indentation, four spaces when empty
	Indent string
}

var _ Emitter = (*Rust)(nil)

func NewRust() *Rust {
	return &Rust{}
}

func (*Rust) Name() string {
	return "rust"
}

// Emit renders node. Expression nodes render without a trailing semicolon or
// newline; statements and declarations render as complete lines.
func (r *Rust) Emit(node hir.UnifiedNode) (string, error) {
	if node == nil {
		return "", errors.New("nothing to emit")
	}
	indent := r.Indent
	if indent == "" {
		indent = "    "
	}
	w := &writer{unit: indent}

	switch node.(type) {
	case *hir.UnifiedCall, *hir.UnifiedVariable, *hir.UnifiedLiteral, *hir.UnifiedBinOp:
		return w.expr(node)
	}

	w.push(nil)
	if err := w.stmt(node); err != nil {
		return "", err
	}
	log.Debugf("emitted %s #%d as %d bytes of Rust", node.Kind(), node.NodeID(), w.out.Len())
	return w.out.String(), nil
}

type writer struct {
	unit  string
	depth int
	out   strings.Builder

	// names bound with let, innermost block last
	scopes []map[string]bool
	// names assigned more than once in the current function
	mutable map[string]bool
}

func (w *writer) line(format string, args ...any) {
	w.out.WriteString(strings.Repeat(w.unit, w.depth))
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteString("\n")
}

func (w *writer) push(names []string) {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		scope[n] = true
	}
	w.scopes = append(w.scopes, scope)
}

func (w *writer) pop() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *writer) bound(name string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if w.scopes[i][name] {
			return true
		}
	}
	return false
}

func (w *writer) block(nodes []hir.UnifiedNode) error {
	w.depth++
	w.push(nil)
	defer func() {
		w.pop()
		w.depth--
	}()
	for _, n := range nodes {
		if err := w.stmt(n); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) stmt(node hir.UnifiedNode) error {
	switch n := node.(type) {
	case *hir.UnifiedModule:
		for i, d := range n.Decls {
			if i > 0 && (isFunction(d) || isFunction(n.Decls[i-1])) {
				w.out.WriteString("\n")
			}
			if err := w.stmt(d); err != nil {
				return err
			}
		}
		return nil

	case *hir.UnifiedFunction:
		return w.function(n)

	case *hir.UnifiedAssign:
		value, err := w.expr(n.Value)
		if err != nil {
			return err
		}
		if w.bound(n.Target) {
			w.line("%s = %s;", n.Target, value)
			return nil
		}
		w.scopes[len(w.scopes)-1][n.Target] = true
		binding := n.Target
		if w.mutable[n.Target] {
			binding = "mut " + binding
		}
		if annotation := letType(n.Type); annotation != "" {
			w.line("let %s: %s = %s;", binding, annotation, value)
		} else {
			w.line("let %s = %s;", binding, value)
		}
		return nil

	case *hir.UnifiedReturn:
		if n.Value == nil {
			w.line("return;")
			return nil
		}
		value, err := w.expr(n.Value)
		if err != nil {
			return err
		}
		w.line("return %s;", value)
		return nil

	case *hir.UnifiedIf:
		return w.ifStmt(n, false)

	case *hir.UnifiedLoop:
		switch loop := n.Loop.(type) {
		case hir.ForLoop:
			iter, err := w.expr(loop.Iterable)
			if err != nil {
				return err
			}
			w.line("for %s in %s {", loop.Target, iter)
		case hir.WhileLoop:
			if lit, ok := loop.Condition.(*hir.UnifiedLiteral); ok && lit.Value.Kind == hir.LitBool && lit.Value.Bool {
				w.line("loop {")
				break
			}
			cond, err := w.expr(loop.Condition)
			if err != nil {
				return err
			}
			w.line("while %s {", cond)
		default:
			return fmt.Errorf("loop #%d has no loop kind", n.ID)
		}
		if err := w.block(n.Body); err != nil {
			return err
		}
		w.line("}")
		return nil
	}

	text, err := w.expr(node)
	if err != nil {
		return err
	}
	w.line("%s;", text)
	return nil
}

func (w *writer) function(fn *hir.UnifiedFunction) error {
	if fn.Meta.Docs != "" {
		for _, doc := range strings.Split(strings.TrimSpace(fn.Meta.Docs), "\n") {
			w.line("/// %s", strings.TrimSpace(doc))
		}
	}

	params := make([]string, len(fn.Params))
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, rustType(p.Type))
		names[i] = p.Name
	}
	sig := fmt.Sprintf("fn %s(%s)", fn.Name, strings.Join(params, ", "))
	if fn.Visibility == hir.Public {
		sig = "pub " + sig
	}
	if ret := returnType(fn.ReturnType); ret != "" {
		sig += " -> " + ret
	}
	w.line("%s {", sig)

	outer := w.mutable
	w.mutable = reassigned(fn.Body)
	w.push(names)
	err := w.block(fn.Body)
	w.pop()
	w.mutable = outer
	if err != nil {
		return err
	}
	w.line("}")
	return nil
}

func (w *writer) ifStmt(n *hir.UnifiedIf, chained bool) error {
	cond, err := w.expr(n.Condition)
	if err != nil {
		return err
	}
	if chained {
		// continues the "} else " already written on this line
		fmt.Fprintf(&w.out, "if %s {\n", cond)
	} else {
		w.line("if %s {", cond)
	}
	if err := w.block(n.Then); err != nil {
		return err
	}
	switch {
	case len(n.Else) == 0:
		w.line("}")
	case len(n.Else) == 1 && isIf(n.Else[0]):
		w.out.WriteString(strings.Repeat(w.unit, w.depth) + "} else ")
		return w.ifStmt(n.Else[0].(*hir.UnifiedIf), true)
	default:
		w.line("} else {")
		if err := w.block(n.Else); err != nil {
			return err
		}
		w.line("}")
	}
	return nil
}

func (w *writer) expr(node hir.UnifiedNode) (string, error) {
	switch n := node.(type) {
	case *hir.UnifiedVariable:
		return n.Name, nil

	case *hir.UnifiedLiteral:
		return n.Value.String(), nil

	case *hir.UnifiedBinOp:
		left, err := w.operand(n.Left)
		if err != nil {
			return "", err
		}
		right, err := w.operand(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, n.Op, right), nil

	case *hir.UnifiedCall:
		return w.call(n)

	case *hir.UnifiedAssign:
		// keyword argument
		value, err := w.expr(n.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("/* %s = */ %s", n.Target, value), nil

	case nil:
		return "", errors.New("missing expression")
	}
	return "", fmt.Errorf("cannot emit %s #%d as an expression", node.Kind(), node.NodeID())
}

// operand parenthesises nested binary operations
func (w *writer) operand(node hir.UnifiedNode) (string, error) {
	text, err := w.expr(node)
	if err != nil {
		return "", err
	}
	if _, ok := node.(*hir.UnifiedBinOp); ok {
		return "(" + text + ")", nil
	}
	return text, nil
}

// call renders a target-language call `Type::method(recv, args...)` as the
// method call `recv.method(args...)`; everything else keeps call syntax
func (w *writer) call(n *hir.UnifiedCall) (string, error) {
	if n.Mapping != nil && !n.Mapping.BoundaryEliminated {
		return "", fmt.Errorf("call #%d to %s: %w", n.ID, n.Callee, ErrBoundaryPresent)
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		text, err := w.expr(a)
		if err != nil {
			return "", err
		}
		args[i] = text
	}

	idx := strings.LastIndex(n.Callee, "::")
	if n.Target != hir.Target || idx < 0 || len(args) == 0 {
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", ")), nil
	}

	owner, method := n.Callee[:idx], n.Callee[idx+2:]
	recv := args[0]
	if _, ok := n.Args[0].(*hir.UnifiedBinOp); ok {
		recv = "(" + recv + ")"
	}
	rest := args[1:]
	if borrowsKey(owner, method) {
		for i, a := range rest {
			if !strings.HasPrefix(a, "&") {
				rest[i] = "&" + a
			}
		}
	}
	return fmt.Sprintf("%s.%s(%s)", recv, method, strings.Join(rest, ", ")), nil
}

// borrowsKey reports whether the method takes its key argument by reference
func borrowsKey(owner, method string) bool {
	switch owner {
	case "HashMap", "BTreeMap", "HashSet", "BTreeSet":
		switch method {
		case "get", "get_mut", "remove", "contains_key", "contains":
			return true
		}
	}
	return false
}

// reassigned collects the names assigned more than once in a function body
func reassigned(body []hir.UnifiedNode) map[string]bool {
	counts := map[string]int{}
	var walk func(nodes []hir.UnifiedNode)
	walk = func(nodes []hir.UnifiedNode) {
		for _, n := range nodes {
			switch s := n.(type) {
			case *hir.UnifiedAssign:
				counts[s.Target]++
			case *hir.UnifiedIf:
				walk(s.Then)
				walk(s.Else)
			case *hir.UnifiedLoop:
				walk(s.Body)
			}
		}
	}
	walk(body)

	out := map[string]bool{}
	for name, c := range counts {
		if c > 1 {
			out[name] = true
		}
	}
	return out
}

// rustType spells t in Rust, mapping front-end types to their usual Rust
// counterparts. Types without one render as `_`.
func rustType(t types.Type) string {
	switch v := t.(type) {
	case nil, *types.Unknown, *types.DynAny:
		return "_"
	case *types.DynPrimitive:
		switch v.Kind {
		case types.DynInt:
			return "i64"
		case types.DynFloat:
			return "f64"
		case types.DynStr:
			return "String"
		case types.DynBool:
			return "bool"
		}
		return "_"
	case *types.DynList:
		return "Vec<" + rustType(v.Elem) + ">"
	case *types.DynSet:
		return "HashSet<" + rustType(v.Elem) + ">"
	case *types.DynDict:
		return "HashMap<" + rustType(v.Key) + ", " + rustType(v.Value) + ">"
	case *types.DynTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = rustType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *types.DynNone:
		return "()"
	case *types.DynClass:
		return v.Name
	case *types.TargetVec:
		return "Vec<" + rustType(v.Elem) + ">"
	case *types.TargetMap:
		return "HashMap<" + rustType(v.Key) + ", " + rustType(v.Value) + ">"
	case *types.TargetTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = rustType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *types.TargetOption:
		return "Option<" + rustType(v.Inner) + ">"
	case *types.TargetResult:
		return "Result<" + rustType(v.Ok) + ", " + rustType(v.Err) + ">"
	case *types.TargetRef:
		if v.Mutable {
			return "&mut " + rustType(v.Inner)
		}
		return "&" + rustType(v.Inner)
	}
	if t.Universe() == types.UniverseTarget {
		return t.String()
	}
	return "_"
}

func returnType(t types.Type) string {
	s := rustType(t)
	if s == "_" || s == "()" {
		return ""
	}
	return s
}

// letType is the annotation written on a let binding, if any
func letType(t types.Type) string {
	if t == nil || t.Universe() != types.UniverseTarget {
		return ""
	}
	if _, unit := t.(*types.TargetUnit); unit {
		return ""
	}
	return rustType(t)
}

func isFunction(n hir.UnifiedNode) bool {
	_, ok := n.(*hir.UnifiedFunction)
	return ok
}

func isIf(n hir.UnifiedNode) bool {
	_, ok := n.(*hir.UnifiedIf)
	return ok
}
