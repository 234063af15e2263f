package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Registry resolves spelled type names, as they appear in IR documents and
// pattern files, into Types. Names not known as builtins or aliases resolve to
// the universe's nominal type (class, typedef or named target type).
type Registry struct {
	aliases map[Universe]map[string]Type
}

// NewRegistry creates a registry that knows only the builtin spellings
func NewRegistry() *Registry {
	return &Registry{
		aliases: map[Universe]map[string]Type{
			UniverseDynamic: {},
			UniverseNative:  {},
			UniverseTarget:  {},
		},
	}
}

// Define registers an alias, e.g. a native typedef that should resolve to a
// runtime type instead of an opaque typedef.
func (r *Registry) Define(u Universe, name string, t Type) {
	if r.aliases[u] == nil {
		r.aliases[u] = map[string]Type{}
	}
	r.aliases[u][name] = t
}

// IsDefined checks if name is a builtin or a registered alias in u
func (r *Registry) IsDefined(u Universe, name string) bool {
	if IsBuiltinType(u, name) {
		return true
	}
	_, ok := r.aliases[u][name]
	return ok
}

// Resolve parses a spelled type in universe u. An empty string or "?"
// resolves to Unknown.
func (r *Registry) Resolve(u Universe, spelled string) (Type, error) {
	s := strings.TrimSpace(spelled)
	if s == "" || s == "?" {
		return &Unknown{}, nil
	}
	if t, ok := r.aliases[u][s]; ok {
		return t, nil
	}
	if mk, ok := builtinsFor(u)[s]; ok {
		return mk(), nil
	}

	switch u {
	case UniverseDynamic:
		return r.resolveDynamic(s)
	case UniverseNative:
		return r.resolveNative(s)
	case UniverseTarget:
		return r.resolveTarget(s)
	}
	return nil, fmt.Errorf("cannot resolve %q outside a type universe", s)
}

func (r *Registry) resolveDynamic(s string) (Type, error) {
	if inner, ok := wrapped(s, "list[", "]"); ok {
		elem, err := r.Resolve(UniverseDynamic, inner)
		if err != nil {
			return nil, err
		}
		return &DynList{Elem: elem}, nil
	}
	if inner, ok := wrapped(s, "set[", "]"); ok {
		elem, err := r.Resolve(UniverseDynamic, inner)
		if err != nil {
			return nil, err
		}
		return &DynSet{Elem: elem}, nil
	}
	if inner, ok := wrapped(s, "dict[", "]"); ok {
		kv, err := r.resolveList(UniverseDynamic, inner)
		if err != nil {
			return nil, err
		}
		if len(kv) != 2 {
			return nil, fmt.Errorf("dict type %q needs exactly two parameters", s)
		}
		return &DynDict{Key: kv[0], Value: kv[1]}, nil
	}
	if inner, ok := wrapped(s, "tuple[", "]"); ok {
		elems, err := r.resolveList(UniverseDynamic, inner)
		if err != nil {
			return nil, err
		}
		return &DynTuple{Elems: elems}, nil
	}
	if !isIdent(s) {
		return nil, fmt.Errorf("malformed dynamic type %q", s)
	}
	return &DynClass{Name: s}, nil
}

func (r *Registry) resolveNative(s string) (Type, error) {
	if rest, ok := strings.CutSuffix(s, "*"); ok {
		elem, err := r.resolveNativeElem(rest)
		if err != nil {
			return nil, err
		}
		return &NativePointer{Elem: elem}, nil
	}
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open <= 0 {
			return nil, fmt.Errorf("malformed native array type %q", s)
		}
		elem, err := r.resolveNativeElem(s[:open])
		if err != nil {
			return nil, err
		}
		arr := &NativeArray{Elem: elem}
		if sizeText := strings.TrimSpace(s[open+1 : len(s)-1]); sizeText != "" {
			n, err := strconv.ParseUint(sizeText, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("native array %q: bad size: %w", s, err)
			}
			arr.Size = &n
		}
		return arr, nil
	}
	if name, ok := strings.CutPrefix(s, "struct "); ok {
		return &NativeStruct{Name: strings.TrimSpace(name)}, nil
	}
	if name, ok := strings.CutPrefix(s, "union "); ok {
		return &NativeUnion{Name: strings.TrimSpace(name)}, nil
	}
	if !isIdent(s) {
		return nil, fmt.Errorf("malformed native type %q", s)
	}
	return &NativeTypedef{Name: s}, nil
}

func (r *Registry) resolveNativeElem(s string) (NativeType, error) {
	t, err := r.Resolve(UniverseNative, s)
	if err != nil {
		return nil, err
	}
	nt, ok := t.(NativeType)
	if !ok {
		return nil, fmt.Errorf("%q is not a native type", s)
	}
	return nt, nil
}

func (r *Registry) resolveTarget(s string) (Type, error) {
	if inner, ok := strings.CutPrefix(s, "&mut "); ok {
		t, err := r.Resolve(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		return &TargetRef{Mutable: true, Inner: t}, nil
	}
	if inner, ok := strings.CutPrefix(s, "&"); ok {
		t, err := r.Resolve(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		return &TargetRef{Inner: t}, nil
	}
	if inner, ok := wrapped(s, "Vec<", ">"); ok {
		t, err := r.Resolve(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		return &TargetVec{Elem: t}, nil
	}
	if inner, ok := wrapped(s, "Option<", ">"); ok {
		t, err := r.Resolve(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		return &TargetOption{Inner: t}, nil
	}
	if inner, ok := wrapped(s, "HashMap<", ">"); ok {
		kv, err := r.resolveList(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		if len(kv) != 2 {
			return nil, fmt.Errorf("map type %q needs exactly two parameters", s)
		}
		return &TargetMap{Key: kv[0], Value: kv[1]}, nil
	}
	if inner, ok := wrapped(s, "Result<", ">"); ok {
		oe, err := r.resolveList(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		if len(oe) != 2 {
			return nil, fmt.Errorf("result type %q needs exactly two parameters", s)
		}
		return &TargetResult{Ok: oe[0], Err: oe[1]}, nil
	}
	if inner, ok := wrapped(s, "(", ")"); ok {
		elems, err := r.resolveList(UniverseTarget, inner)
		if err != nil {
			return nil, err
		}
		return &TargetTuple{Elems: elems}, nil
	}
	if !isIdent(s) {
		return nil, fmt.Errorf("malformed target type %q", s)
	}
	return &TargetNamed{Name: s}, nil
}

func (r *Registry) resolveList(u Universe, s string) ([]Type, error) {
	parts := splitTopLevel(s)
	out := make([]Type, 0, len(parts))
	for _, p := range parts {
		t, err := r.Resolve(u, p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func wrapped(s, open, close string) (string, bool) {
	if strings.HasPrefix(s, open) && strings.HasSuffix(s, close) && len(s) >= len(open)+len(close) {
		return s[len(open) : len(s)-len(close)], true
	}
	return "", false
}

// splitTopLevel splits on commas that are not nested inside brackets
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '[', '<', '(':
			depth++
		case ']', '>', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		case c == ':' || c == '.':
			// qualified names such as collections.OrderedDict or hash_map::Keys
		default:
			return false
		}
	}
	return true
}
