package hir

import "weld/internal/types"

// FrontNode is a node of the front-end (dynamic language) IR. The set of
// implementations is closed; FrontVisitor has one method per variant.
type FrontNode interface {
	NodeID() NodeID
	Kind() string
	Metadata() *Metadata
	Accept(v FrontVisitor)
	frontNode()
}

// FrontModule is the root of a front-end source file. It has no id.
type FrontModule struct {
	Name string
	Body []FrontNode
	Meta Metadata
}

type FrontParam struct {
	Name    string
	Type    types.Type
	Default FrontNode
}

type FrontFunction struct {
	ID         NodeID
	Name       string
	Params     []FrontParam
	ReturnType types.Type
	Body       []FrontNode
	Decorators []string
	Visibility Visibility
	Meta       Metadata
}

type FrontClass struct {
	ID         NodeID
	Name       string
	Bases      []string
	Body       []FrontNode
	Decorators []string
	Meta       Metadata
}

// Kwarg is a keyword argument of a call
type Kwarg struct {
	Name  string
	Value FrontNode
}

type FrontCall struct {
	ID           NodeID
	Callee       FrontNode
	Args         []FrontNode
	Kwargs       []Kwarg
	InferredType types.Type
	Meta         Metadata
}

type FrontVariable struct {
	ID           NodeID
	Name         string
	InferredType types.Type
	Meta         Metadata
}

type FrontAssign struct {
	ID         NodeID
	Target     string
	Value      FrontNode
	Annotation types.Type
	Meta       Metadata
}

// FrontReturn returns Value, or nothing when Value is nil
type FrontReturn struct {
	ID    NodeID
	Value FrontNode
	Meta  Metadata
}

type FrontIf struct {
	ID        NodeID
	Condition FrontNode
	Then      []FrontNode
	Else      []FrontNode
	Meta      Metadata
}

type FrontFor struct {
	ID     NodeID
	Target string
	Iter   FrontNode
	Body   []FrontNode
	Else   []FrontNode
	Meta   Metadata
}

type FrontWhile struct {
	ID        NodeID
	Condition FrontNode
	Body      []FrontNode
	Meta      Metadata
}

type FrontBinOp struct {
	ID    NodeID
	Op    BinaryOp
	Left  FrontNode
	Right FrontNode
	Meta  Metadata
}

type FrontUnaryOp struct {
	ID      NodeID
	Op      UnaryOp
	Operand FrontNode
	Meta    Metadata
}

type FrontLiteral struct {
	ID    NodeID
	Value LiteralValue
	Meta  Metadata
}

// FrontListComp is [Element for Target in Iter if Conditions...]
type FrontListComp struct {
	ID         NodeID
	Element    FrontNode
	Target     string
	Iter       FrontNode
	Conditions []FrontNode
	Meta       Metadata
}

// FrontAttribute is Value.Attr
type FrontAttribute struct {
	ID    NodeID
	Value FrontNode
	Attr  string
	Meta  Metadata
}

// FrontSubscript is Value[Index]
type FrontSubscript struct {
	ID    NodeID
	Value FrontNode
	Index FrontNode
	Meta  Metadata
}

func (*FrontModule) frontNode()    {}
func (*FrontFunction) frontNode()  {}
func (*FrontClass) frontNode()     {}
func (*FrontCall) frontNode()      {}
func (*FrontVariable) frontNode()  {}
func (*FrontAssign) frontNode()    {}
func (*FrontReturn) frontNode()    {}
func (*FrontIf) frontNode()        {}
func (*FrontFor) frontNode()       {}
func (*FrontWhile) frontNode()     {}
func (*FrontBinOp) frontNode()     {}
func (*FrontUnaryOp) frontNode()   {}
func (*FrontLiteral) frontNode()   {}
func (*FrontListComp) frontNode()  {}
func (*FrontAttribute) frontNode() {}
func (*FrontSubscript) frontNode() {}

func (*FrontModule) NodeID() NodeID      { return 0 }
func (n *FrontFunction) NodeID() NodeID  { return n.ID }
func (n *FrontClass) NodeID() NodeID     { return n.ID }
func (n *FrontCall) NodeID() NodeID      { return n.ID }
func (n *FrontVariable) NodeID() NodeID  { return n.ID }
func (n *FrontAssign) NodeID() NodeID    { return n.ID }
func (n *FrontReturn) NodeID() NodeID    { return n.ID }
func (n *FrontIf) NodeID() NodeID        { return n.ID }
func (n *FrontFor) NodeID() NodeID       { return n.ID }
func (n *FrontWhile) NodeID() NodeID     { return n.ID }
func (n *FrontBinOp) NodeID() NodeID     { return n.ID }
func (n *FrontUnaryOp) NodeID() NodeID   { return n.ID }
func (n *FrontLiteral) NodeID() NodeID   { return n.ID }
func (n *FrontListComp) NodeID() NodeID  { return n.ID }
func (n *FrontAttribute) NodeID() NodeID { return n.ID }
func (n *FrontSubscript) NodeID() NodeID { return n.ID }

func (*FrontModule) Kind() string    { return "Module" }
func (*FrontFunction) Kind() string  { return "Function" }
func (*FrontClass) Kind() string     { return "Class" }
func (*FrontCall) Kind() string      { return "Call" }
func (*FrontVariable) Kind() string  { return "Variable" }
func (*FrontAssign) Kind() string    { return "Assign" }
func (*FrontReturn) Kind() string    { return "Return" }
func (*FrontIf) Kind() string        { return "If" }
func (*FrontFor) Kind() string       { return "For" }
func (*FrontWhile) Kind() string     { return "While" }
func (*FrontBinOp) Kind() string     { return "BinOp" }
func (*FrontUnaryOp) Kind() string   { return "UnaryOp" }
func (*FrontLiteral) Kind() string   { return "Literal" }
func (*FrontListComp) Kind() string  { return "ListComp" }
func (*FrontAttribute) Kind() string { return "Attribute" }
func (*FrontSubscript) Kind() string { return "Subscript" }

func (n *FrontModule) Metadata() *Metadata    { return &n.Meta }
func (n *FrontFunction) Metadata() *Metadata  { return &n.Meta }
func (n *FrontClass) Metadata() *Metadata     { return &n.Meta }
func (n *FrontCall) Metadata() *Metadata      { return &n.Meta }
func (n *FrontVariable) Metadata() *Metadata  { return &n.Meta }
func (n *FrontAssign) Metadata() *Metadata    { return &n.Meta }
func (n *FrontReturn) Metadata() *Metadata    { return &n.Meta }
func (n *FrontIf) Metadata() *Metadata        { return &n.Meta }
func (n *FrontFor) Metadata() *Metadata       { return &n.Meta }
func (n *FrontWhile) Metadata() *Metadata     { return &n.Meta }
func (n *FrontBinOp) Metadata() *Metadata     { return &n.Meta }
func (n *FrontUnaryOp) Metadata() *Metadata   { return &n.Meta }
func (n *FrontLiteral) Metadata() *Metadata   { return &n.Meta }
func (n *FrontListComp) Metadata() *Metadata  { return &n.Meta }
func (n *FrontAttribute) Metadata() *Metadata { return &n.Meta }
func (n *FrontSubscript) Metadata() *Metadata { return &n.Meta }

// CalleeName returns the callee identifier when the callee is a plain
// variable, e.g. "len" for len(x). ok is false for obj.method(...) and other
// computed callees.
func (n *FrontCall) CalleeName() (name string, ok bool) {
	if v, isVar := n.Callee.(*FrontVariable); isVar {
		return v.Name, true
	}
	return "", false
}
