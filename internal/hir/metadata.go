package hir

import (
	"maps"
	"slices"
)

// Metadata carries debugging and provenance information for an IR node.
// It is never consulted when deciding whether two nodes unify.
type Metadata struct {
	// Where the node came from, if known
	Source *SourceLocation

	// Docstring or leading comment
	Docs string

	// Decorators on the front side, attributes on the native side
	Attributes []Attribute

	// Links to related nodes on other sides of the bridge
	CrossRefs []CrossRef

	// Free-form hints for later passes, e.g. "pattern" -> "Len"
	Hints map[string]string
}

type Attribute struct {
	Name string
	Args []string
}

type CrossRefKind uint8

const (
	FrontToNative CrossRefKind = iota
	NativeImplementsFront
	Unified
	TypeEquiv
	ControlFlow
)

func (k CrossRefKind) String() string {
	switch k {
	case FrontToNative:
		return "front-to-native"
	case NativeImplementsFront:
		return "native-implements-front"
	case Unified:
		return "unified"
	case TypeEquiv:
		return "type-equiv"
	case ControlFlow:
		return "control-flow"
	}
	return "?"
}

// CrossRef links a node to another node by id
type CrossRef struct {
	Kind        CrossRefKind
	Target      NodeID
	Language    Language
	Description string
}

// NewMetadata returns empty metadata
func NewMetadata() Metadata {
	return Metadata{}
}

// WithSource sets the source location
func (m Metadata) WithSource(loc SourceLocation) Metadata {
	m.Source = &loc
	return m
}

// WithDocs sets the docs string
func (m Metadata) WithDocs(docs string) Metadata {
	m.Docs = docs
	return m
}

func (m Metadata) AddAttribute(name string, args ...string) Metadata {
	m.Attributes = append(slices.Clip(m.Attributes), Attribute{Name: name, Args: args})
	return m
}

func (m Metadata) AddCrossRef(ref CrossRef) Metadata {
	m.CrossRefs = append(slices.Clip(m.CrossRefs), ref)
	return m
}

func (m Metadata) AddHint(key, value string) Metadata {
	hints := maps.Clone(m.Hints)
	if hints == nil {
		hints = map[string]string{}
	}
	hints[key] = value
	m.Hints = hints
	return m
}

// Hint returns the hint stored under key
func (m Metadata) Hint(key string) (string, bool) {
	v, ok := m.Hints[key]
	return v, ok
}

// Clone returns a deep copy
func (m Metadata) Clone() Metadata {
	out := Metadata{Docs: m.Docs}
	if m.Source != nil {
		src := *m.Source
		out.Source = &src
	}
	if m.Attributes != nil {
		out.Attributes = make([]Attribute, len(m.Attributes))
		for i, a := range m.Attributes {
			out.Attributes[i] = Attribute{Name: a.Name, Args: slices.Clone(a.Args)}
		}
	}
	out.CrossRefs = slices.Clone(m.CrossRefs)
	out.Hints = maps.Clone(m.Hints)
	return out
}
