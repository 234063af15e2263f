package types

import (
	"fmt"
	"strings"
)

// Universe identifies which of the three type worlds a type belongs to
type Universe uint8

const (
	UniverseNone    Universe = iota // Generic, Function and Unknown
	UniverseDynamic                 // front-end language values
	UniverseNative                  // runtime implementation language
	UniverseTarget                  // systems output language
)

func (u Universe) String() string {
	switch u {
	case UniverseDynamic:
		return "dynamic"
	case UniverseNative:
		return "native"
	case UniverseTarget:
		return "target"
	}
	return "none"
}

// Type is the closed set of types carried by IR nodes.
// Every implementation lives in this package.
type Type interface {
	String() string
	Universe() Universe
	isType()
}

// DynamicType is a type of the dynamic front-end language
type DynamicType interface {
	Type
	isDynamic()
}

// NativeType is a type of the native runtime implementation language
type NativeType interface {
	Type
	isNative()
}

// TargetType is a type of the output systems language
type TargetType interface {
	Type
	isTarget()
}

// Dynamic types

type DynPrimitiveKind uint8

const (
	DynInt DynPrimitiveKind = iota
	DynFloat
	DynStr
	DynBool
)

type DynPrimitive struct {
	Kind DynPrimitiveKind
}

type DynList struct {
	Elem Type
}

type DynDict struct {
	Key   Type
	Value Type
}

type DynTuple struct {
	Elems []Type
}

type DynSet struct {
	Elem Type
}

type DynNone struct{}

type DynAny struct{}

// DynClass is a user-defined class referenced by name
type DynClass struct {
	Name string
}

// Native types

type NativePrimitiveKind uint8

const (
	NativeVoid NativePrimitiveKind = iota
	NativeChar
	NativeInt
	NativeLong
	NativeSizeT
	NativeFloat
	NativeDouble
)

type NativePrimitive struct {
	Kind NativePrimitiveKind
}

type NativePointer struct {
	Elem NativeType
}

// NativeArray is a fixed or flexible array. Size is nil for flexible arrays.
type NativeArray struct {
	Elem NativeType
	Size *uint64
}

type NativeStruct struct {
	Name string
}

type NativeUnion struct {
	Name string
}

type NativeTypedef struct {
	Name string
}

// RuntimeKind enumerates the runtime's own object types as seen from native code
type RuntimeKind uint8

const (
	RuntimeObject RuntimeKind = iota
	RuntimeListObject
	RuntimeDictObject
	RuntimeTupleObject
	RuntimeTypeObject
	RuntimeSsizeT
)

// RuntimeType is a native type that represents one of the front-end runtime's
// internal objects, e.g. a list object handle or the internal size type.
type RuntimeType struct {
	Kind RuntimeKind
}

// Target types

// IntSize is the bit width of a target integer. IntSizePtr is pointer-sized.
type IntSize uint8

const (
	IntSize8 IntSize = iota
	IntSize16
	IntSize32
	IntSize64
	IntSize128
	IntSizePtr
)

type TargetInt struct {
	Bits   IntSize
	Signed bool
}

type TargetFloat struct {
	Bits uint8
}

type TargetBool struct{}

// TargetString is the owned string type
type TargetString struct{}

// TargetStr is the borrowed string slice type
type TargetStr struct{}

// TargetVec is the growable sequence type
type TargetVec struct {
	Elem Type
}

// TargetMap is the associative map type
type TargetMap struct {
	Key   Type
	Value Type
}

type TargetTuple struct {
	Elems []Type
}

type TargetOption struct {
	Inner Type
}

type TargetResult struct {
	Ok  Type
	Err Type
}

type TargetRef struct {
	Mutable bool
	Inner   Type
}

// TargetNamed is a nominal target type such as an iterator adaptor
type TargetNamed struct {
	Name string
}

type TargetUnit struct{}

// Universe-free types

type Generic struct {
	Name   string
	Bounds []string
}

type Function struct {
	Params []Type
	Return Type
}

// Unknown is the bottom of the compatibility relation
type Unknown struct{}

func (*DynPrimitive) isType()    {}
func (*DynList) isType()         {}
func (*DynDict) isType()         {}
func (*DynTuple) isType()        {}
func (*DynSet) isType()          {}
func (*DynNone) isType()         {}
func (*DynAny) isType()          {}
func (*DynClass) isType()        {}
func (*NativePrimitive) isType() {}
func (*NativePointer) isType()   {}
func (*NativeArray) isType()     {}
func (*NativeStruct) isType()    {}
func (*NativeUnion) isType()     {}
func (*NativeTypedef) isType()   {}
func (*RuntimeType) isType()     {}
func (*TargetInt) isType()       {}
func (*TargetFloat) isType()     {}
func (*TargetBool) isType()      {}
func (*TargetString) isType()    {}
func (*TargetStr) isType()       {}
func (*TargetVec) isType()       {}
func (*TargetMap) isType()       {}
func (*TargetTuple) isType()     {}
func (*TargetOption) isType()    {}
func (*TargetResult) isType()    {}
func (*TargetRef) isType()       {}
func (*TargetNamed) isType()     {}
func (*TargetUnit) isType()      {}
func (*Generic) isType()         {}
func (*Function) isType()        {}
func (*Unknown) isType()         {}

func (*DynPrimitive) isDynamic() {}
func (*DynList) isDynamic()      {}
func (*DynDict) isDynamic()      {}
func (*DynTuple) isDynamic()     {}
func (*DynSet) isDynamic()       {}
func (*DynNone) isDynamic()      {}
func (*DynAny) isDynamic()       {}
func (*DynClass) isDynamic()     {}

func (*NativePrimitive) isNative() {}
func (*NativePointer) isNative()   {}
func (*NativeArray) isNative()     {}
func (*NativeStruct) isNative()    {}
func (*NativeUnion) isNative()     {}
func (*NativeTypedef) isNative()   {}
func (*RuntimeType) isNative()     {}

func (*TargetInt) isTarget()    {}
func (*TargetFloat) isTarget()  {}
func (*TargetBool) isTarget()   {}
func (*TargetString) isTarget() {}
func (*TargetStr) isTarget()    {}
func (*TargetVec) isTarget()    {}
func (*TargetMap) isTarget()    {}
func (*TargetTuple) isTarget()  {}
func (*TargetOption) isTarget() {}
func (*TargetResult) isTarget() {}
func (*TargetRef) isTarget()    {}
func (*TargetNamed) isTarget()  {}
func (*TargetUnit) isTarget()   {}

func (*DynPrimitive) Universe() Universe    { return UniverseDynamic }
func (*DynList) Universe() Universe         { return UniverseDynamic }
func (*DynDict) Universe() Universe         { return UniverseDynamic }
func (*DynTuple) Universe() Universe        { return UniverseDynamic }
func (*DynSet) Universe() Universe          { return UniverseDynamic }
func (*DynNone) Universe() Universe         { return UniverseDynamic }
func (*DynAny) Universe() Universe          { return UniverseDynamic }
func (*DynClass) Universe() Universe        { return UniverseDynamic }
func (*NativePrimitive) Universe() Universe { return UniverseNative }
func (*NativePointer) Universe() Universe   { return UniverseNative }
func (*NativeArray) Universe() Universe     { return UniverseNative }
func (*NativeStruct) Universe() Universe    { return UniverseNative }
func (*NativeUnion) Universe() Universe     { return UniverseNative }
func (*NativeTypedef) Universe() Universe   { return UniverseNative }
func (*RuntimeType) Universe() Universe     { return UniverseNative }
func (*TargetInt) Universe() Universe       { return UniverseTarget }
func (*TargetFloat) Universe() Universe     { return UniverseTarget }
func (*TargetBool) Universe() Universe      { return UniverseTarget }
func (*TargetString) Universe() Universe    { return UniverseTarget }
func (*TargetStr) Universe() Universe       { return UniverseTarget }
func (*TargetVec) Universe() Universe       { return UniverseTarget }
func (*TargetMap) Universe() Universe       { return UniverseTarget }
func (*TargetTuple) Universe() Universe     { return UniverseTarget }
func (*TargetOption) Universe() Universe    { return UniverseTarget }
func (*TargetResult) Universe() Universe    { return UniverseTarget }
func (*TargetRef) Universe() Universe       { return UniverseTarget }
func (*TargetNamed) Universe() Universe     { return UniverseTarget }
func (*TargetUnit) Universe() Universe      { return UniverseTarget }
func (*Generic) Universe() Universe         { return UniverseNone }
func (*Function) Universe() Universe        { return UniverseNone }
func (*Unknown) Universe() Universe         { return UniverseNone }

func (p *DynPrimitive) String() string {
	switch p.Kind {
	case DynInt:
		return "int"
	case DynFloat:
		return "float"
	case DynStr:
		return "str"
	case DynBool:
		return "bool"
	}
	return "?"
}

func (l *DynList) String() string  { return fmt.Sprintf("list[%s]", str(l.Elem)) }
func (d *DynDict) String() string  { return fmt.Sprintf("dict[%s, %s]", str(d.Key), str(d.Value)) }
func (t *DynTuple) String() string { return "tuple[" + join(t.Elems) + "]" }
func (s *DynSet) String() string   { return fmt.Sprintf("set[%s]", str(s.Elem)) }
func (*DynNone) String() string    { return "None" }
func (*DynAny) String() string     { return "Any" }
func (c *DynClass) String() string { return c.Name }

func (p *NativePrimitive) String() string {
	switch p.Kind {
	case NativeVoid:
		return "void"
	case NativeChar:
		return "char"
	case NativeInt:
		return "int"
	case NativeLong:
		return "long"
	case NativeSizeT:
		return "size_t"
	case NativeFloat:
		return "float"
	case NativeDouble:
		return "double"
	}
	return "?"
}

func (p *NativePointer) String() string { return str(p.Elem) + "*" }

func (a *NativeArray) String() string {
	if a.Size != nil {
		return fmt.Sprintf("%s[%d]", str(a.Elem), *a.Size)
	}
	return str(a.Elem) + "[]"
}

func (s *NativeStruct) String() string  { return "struct " + s.Name }
func (u *NativeUnion) String() string   { return "union " + u.Name }
func (t *NativeTypedef) String() string { return t.Name }

func (r *RuntimeType) String() string {
	switch r.Kind {
	case RuntimeObject:
		return "PyObject*"
	case RuntimeListObject:
		return "PyListObject*"
	case RuntimeDictObject:
		return "PyDictObject*"
	case RuntimeTupleObject:
		return "PyTupleObject*"
	case RuntimeTypeObject:
		return "PyTypeObject*"
	case RuntimeSsizeT:
		return "Py_ssize_t"
	}
	return "?"
}

func (s IntSize) String() string {
	switch s {
	case IntSize8:
		return "8"
	case IntSize16:
		return "16"
	case IntSize32:
		return "32"
	case IntSize64:
		return "64"
	case IntSize128:
		return "128"
	case IntSizePtr:
		return "size"
	}
	return "?"
}

func (i *TargetInt) String() string {
	if i.Signed {
		return "i" + i.Bits.String()
	}
	return "u" + i.Bits.String()
}

func (f *TargetFloat) String() string   { return fmt.Sprintf("f%d", f.Bits) }
func (*TargetBool) String() string      { return "bool" }
func (*TargetString) String() string    { return "String" }
func (*TargetStr) String() string       { return "&str" }
func (v *TargetVec) String() string     { return fmt.Sprintf("Vec<%s>", str(v.Elem)) }
func (m *TargetMap) String() string     { return fmt.Sprintf("HashMap<%s, %s>", str(m.Key), str(m.Value)) }
func (t *TargetTuple) String() string   { return "(" + join(t.Elems) + ")" }
func (o *TargetOption) String() string  { return fmt.Sprintf("Option<%s>", str(o.Inner)) }
func (r *TargetResult) String() string  { return fmt.Sprintf("Result<%s, %s>", str(r.Ok), str(r.Err)) }
func (n *TargetNamed) String() string   { return n.Name }
func (*TargetUnit) String() string      { return "()" }
func (g *Generic) String() string       { return g.Name }
func (*Unknown) String() string         { return "?" }
func (f *Function) String() string      { return "fn(" + join(f.Params) + ") -> " + str(f.Return) }
func (r *TargetRef) String() string {
	if r.Mutable {
		return "&mut " + str(r.Inner)
	}
	return "&" + str(r.Inner)
}

// str renders a possibly nil type; nil renders like Unknown
func str(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func join(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = str(t)
	}
	return strings.Join(parts, ", ")
}

// Convenience constructors for the types the unifier hands out most often

// Usize is the unsigned pointer-sized target integer
func Usize() *TargetInt { return &TargetInt{Bits: IntSizePtr, Signed: false} }

// Unit is the target unit type
func Unit() *TargetUnit { return &TargetUnit{} }

// OptionOf wraps inner in a target Option
func OptionOf(inner Type) *TargetOption { return &TargetOption{Inner: inner} }

// Named builds a nominal target type
func Named(name string) *TargetNamed { return &TargetNamed{Name: name} }
