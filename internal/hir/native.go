package hir

import (
	"strings"

	"weld/internal/types"
)

// NativeNode is a node of the native (runtime implementation language) IR
type NativeNode interface {
	NodeID() NodeID
	Kind() string
	Metadata() *Metadata
	Accept(v NativeVisitor)
	nativeNode()
}

// NativeTranslationUnit is the root of one native source file. It has no id.
type NativeTranslationUnit struct {
	Name  string
	Decls []NativeNode
	Meta  Metadata
}

type NativeParam struct {
	Name string
	Type types.Type
}

type NativeFunction struct {
	ID         NodeID
	Name       string
	ReturnType types.Type
	Params     []NativeParam
	Body       []NativeNode
	Storage    StorageClass
	Visibility Visibility
	Meta       Metadata
}

type NativeField struct {
	Name string
	Type types.Type
}

type NativeStruct struct {
	ID     NodeID
	Name   string
	Fields []NativeField
	Meta   Metadata
}

type NativeCall struct {
	ID     NodeID
	Callee NativeNode
	Args   []NativeNode
	Meta   Metadata
}

type NativeVariable struct {
	ID   NodeID
	Name string
	Type types.Type
	Meta Metadata
}

type NativeVarDecl struct {
	ID      NodeID
	Name    string
	Type    types.Type
	Init    NativeNode
	Storage StorageClass
	Meta    Metadata
}

type NativeAssign struct {
	ID     NodeID
	Target NativeNode
	Value  NativeNode
	Meta   Metadata
}

type NativeReturn struct {
	ID    NodeID
	Value NativeNode
	Meta  Metadata
}

type NativeIf struct {
	ID        NodeID
	Condition NativeNode
	Then      []NativeNode
	Else      []NativeNode
	Meta      Metadata
}

// NativeFor is for (Init; Condition; Increment). Any clause may be nil.
type NativeFor struct {
	ID        NodeID
	Init      NativeNode
	Condition NativeNode
	Increment NativeNode
	Body      []NativeNode
	Meta      Metadata
}

type NativeWhile struct {
	ID        NodeID
	Condition NativeNode
	Body      []NativeNode
	Meta      Metadata
}

type NativeBinOp struct {
	ID    NodeID
	Op    BinaryOp
	Left  NativeNode
	Right NativeNode
	Meta  Metadata
}

type NativeUnaryOp struct {
	ID      NodeID
	Op      UnaryOp
	Operand NativeNode
	Meta    Metadata
}

type NativeLiteral struct {
	ID    NodeID
	Value LiteralValue
	Meta  Metadata
}

// NativeFieldAccess is Object.Field, or Object->Field when Pointer is set
type NativeFieldAccess struct {
	ID      NodeID
	Object  NativeNode
	Field   string
	Pointer bool
	Meta    Metadata
}

type NativeArraySubscript struct {
	ID    NodeID
	Array NativeNode
	Index NativeNode
	Meta  Metadata
}

type NativeCast struct {
	ID   NodeID
	Type types.Type
	Expr NativeNode
	Meta Metadata
}

type NativeDeref struct {
	ID   NodeID
	Expr NativeNode
	Meta Metadata
}

type NativeAddrOf struct {
	ID   NodeID
	Expr NativeNode
	Meta Metadata
}

// NativeRuntimeIntrinsic is a runtime macro or builtin such as Py_INCREF
// or PyList_GET_SIZE that is not an ordinary function call.
type NativeRuntimeIntrinsic struct {
	ID   NodeID
	Name string
	Args []NativeNode
	Meta Metadata
}

func (*NativeTranslationUnit) nativeNode()  {}
func (*NativeFunction) nativeNode()         {}
func (*NativeStruct) nativeNode()           {}
func (*NativeCall) nativeNode()             {}
func (*NativeVariable) nativeNode()         {}
func (*NativeVarDecl) nativeNode()          {}
func (*NativeAssign) nativeNode()           {}
func (*NativeReturn) nativeNode()           {}
func (*NativeIf) nativeNode()               {}
func (*NativeFor) nativeNode()              {}
func (*NativeWhile) nativeNode()            {}
func (*NativeBinOp) nativeNode()            {}
func (*NativeUnaryOp) nativeNode()          {}
func (*NativeLiteral) nativeNode()          {}
func (*NativeFieldAccess) nativeNode()      {}
func (*NativeArraySubscript) nativeNode()   {}
func (*NativeCast) nativeNode()             {}
func (*NativeDeref) nativeNode()            {}
func (*NativeAddrOf) nativeNode()           {}
func (*NativeRuntimeIntrinsic) nativeNode() {}

func (*NativeTranslationUnit) NodeID() NodeID   { return 0 }
func (n *NativeFunction) NodeID() NodeID         { return n.ID }
func (n *NativeStruct) NodeID() NodeID           { return n.ID }
func (n *NativeCall) NodeID() NodeID             { return n.ID }
func (n *NativeVariable) NodeID() NodeID         { return n.ID }
func (n *NativeVarDecl) NodeID() NodeID          { return n.ID }
func (n *NativeAssign) NodeID() NodeID           { return n.ID }
func (n *NativeReturn) NodeID() NodeID           { return n.ID }
func (n *NativeIf) NodeID() NodeID               { return n.ID }
func (n *NativeFor) NodeID() NodeID              { return n.ID }
func (n *NativeWhile) NodeID() NodeID            { return n.ID }
func (n *NativeBinOp) NodeID() NodeID            { return n.ID }
func (n *NativeUnaryOp) NodeID() NodeID          { return n.ID }
func (n *NativeLiteral) NodeID() NodeID          { return n.ID }
func (n *NativeFieldAccess) NodeID() NodeID      { return n.ID }
func (n *NativeArraySubscript) NodeID() NodeID   { return n.ID }
func (n *NativeCast) NodeID() NodeID             { return n.ID }
func (n *NativeDeref) NodeID() NodeID            { return n.ID }
func (n *NativeAddrOf) NodeID() NodeID           { return n.ID }
func (n *NativeRuntimeIntrinsic) NodeID() NodeID { return n.ID }

func (*NativeTranslationUnit) Kind() string  { return "TranslationUnit" }
func (*NativeFunction) Kind() string         { return "Function" }
func (*NativeStruct) Kind() string           { return "Struct" }
func (*NativeCall) Kind() string             { return "Call" }
func (*NativeVariable) Kind() string         { return "Variable" }
func (*NativeVarDecl) Kind() string          { return "VarDecl" }
func (*NativeAssign) Kind() string           { return "Assign" }
func (*NativeReturn) Kind() string           { return "Return" }
func (*NativeIf) Kind() string               { return "If" }
func (*NativeFor) Kind() string              { return "For" }
func (*NativeWhile) Kind() string            { return "While" }
func (*NativeBinOp) Kind() string            { return "BinOp" }
func (*NativeUnaryOp) Kind() string          { return "UnaryOp" }
func (*NativeLiteral) Kind() string          { return "Literal" }
func (*NativeFieldAccess) Kind() string      { return "FieldAccess" }
func (*NativeArraySubscript) Kind() string   { return "ArraySubscript" }
func (*NativeCast) Kind() string             { return "Cast" }
func (*NativeDeref) Kind() string            { return "Deref" }
func (*NativeAddrOf) Kind() string           { return "AddrOf" }
func (*NativeRuntimeIntrinsic) Kind() string { return "RuntimeIntrinsic" }

func (n *NativeTranslationUnit) Metadata() *Metadata  { return &n.Meta }
func (n *NativeFunction) Metadata() *Metadata         { return &n.Meta }
func (n *NativeStruct) Metadata() *Metadata           { return &n.Meta }
func (n *NativeCall) Metadata() *Metadata             { return &n.Meta }
func (n *NativeVariable) Metadata() *Metadata         { return &n.Meta }
func (n *NativeVarDecl) Metadata() *Metadata          { return &n.Meta }
func (n *NativeAssign) Metadata() *Metadata           { return &n.Meta }
func (n *NativeReturn) Metadata() *Metadata           { return &n.Meta }
func (n *NativeIf) Metadata() *Metadata               { return &n.Meta }
func (n *NativeFor) Metadata() *Metadata              { return &n.Meta }
func (n *NativeWhile) Metadata() *Metadata            { return &n.Meta }
func (n *NativeBinOp) Metadata() *Metadata            { return &n.Meta }
func (n *NativeUnaryOp) Metadata() *Metadata          { return &n.Meta }
func (n *NativeLiteral) Metadata() *Metadata          { return &n.Meta }
func (n *NativeFieldAccess) Metadata() *Metadata      { return &n.Meta }
func (n *NativeArraySubscript) Metadata() *Metadata   { return &n.Meta }
func (n *NativeCast) Metadata() *Metadata             { return &n.Meta }
func (n *NativeDeref) Metadata() *Metadata            { return &n.Meta }
func (n *NativeAddrOf) Metadata() *Metadata           { return &n.Meta }
func (n *NativeRuntimeIntrinsic) Metadata() *Metadata { return &n.Meta }

// IsRuntimeAPI reports whether node touches the front-end runtime's own API:
// a call to a Py*/_Py* function, or any runtime intrinsic.
func IsRuntimeAPI(node NativeNode) bool {
	switch n := node.(type) {
	case *NativeCall:
		v, ok := n.Callee.(*NativeVariable)
		if !ok {
			return false
		}
		return strings.HasPrefix(v.Name, "Py") || strings.HasPrefix(v.Name, "_Py")
	case *NativeRuntimeIntrinsic:
		return true
	}
	return false
}

// FindFunction returns the first function named name in the unit
func (tu *NativeTranslationUnit) FindFunction(name string) (*NativeFunction, bool) {
	for _, d := range tu.Decls {
		if fn, ok := d.(*NativeFunction); ok && fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}
