package hir

import (
	"fmt"

	"weld/internal/types"
)

// UnificationPattern names the front/native pairing a unified node was
// recognised from. It is assigned once, at unification time.
type UnificationPattern uint8

const (
	PatternLen UnificationPattern = iota
	PatternAppend
	PatternDictGet
	PatternReverse
	PatternClear
	PatternPop
	PatternInsert
	PatternExtend
	PatternDictPop
	PatternDictClear
	PatternDictKeys
	PatternCustom
)

var patternNames = [...]string{
	PatternLen:       "Len",
	PatternAppend:    "Append",
	PatternDictGet:   "DictGet",
	PatternReverse:   "Reverse",
	PatternClear:     "Clear",
	PatternPop:       "Pop",
	PatternInsert:    "Insert",
	PatternExtend:    "Extend",
	PatternDictPop:   "DictPop",
	PatternDictClear: "DictClear",
	PatternDictKeys:  "DictKeys",
	PatternCustom:    "Custom",
}

func (p UnificationPattern) String() string {
	if int(p) < len(patternNames) {
		return patternNames[p]
	}
	return fmt.Sprintf("Pattern(%d)", p)
}

func ParsePattern(s string) (UnificationPattern, error) {
	for i, name := range patternNames {
		if name == s {
			return UnificationPattern(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unification pattern %q", s)
}

// CrossMapping records which front and native nodes a unified node came from
type CrossMapping struct {
	FrontNode          *NodeID
	NativeNode         *NodeID
	Pattern            UnificationPattern
	BoundaryEliminated bool
}

// NewCrossMapping is the only constructor used by the unifier. The boundary
// starts out present.
func NewCrossMapping(front, native NodeID, pattern UnificationPattern) *CrossMapping {
	return &CrossMapping{
		FrontNode:  &front,
		NativeNode: &native,
		Pattern:    pattern,
	}
}

// Clone returns a deep copy. A nil mapping clones to nil.
func (m *CrossMapping) Clone() *CrossMapping {
	if m == nil {
		return nil
	}
	out := *m
	if m.FrontNode != nil {
		id := *m.FrontNode
		out.FrontNode = &id
	}
	if m.NativeNode != nil {
		id := *m.NativeNode
		out.NativeNode = &id
	}
	return &out
}

// Eliminated returns a copy with the boundary marked as erased
func (m *CrossMapping) Eliminated() *CrossMapping {
	out := m.Clone()
	out.BoundaryEliminated = true
	return out
}

func (m *CrossMapping) String() string {
	state := "boundary present"
	if m.BoundaryEliminated {
		state = "boundary eliminated"
	}
	return fmt.Sprintf("%s[front=%s native=%s, %s]", m.Pattern, idString(m.FrontNode), idString(m.NativeNode), state)
}

func idString(id *NodeID) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *id)
}

// UnifiedNode is a node of the unified IR that targets the output language
type UnifiedNode interface {
	NodeID() NodeID
	Kind() string
	Metadata() *Metadata
	Accept(v UnifiedVisitor)
	unifiedNode()
}

// UnifiedModule is the root of a unified tree. It has no id.
type UnifiedModule struct {
	Name  string
	Decls []UnifiedNode
	Meta  Metadata
}

type UnifiedParameter struct {
	Name   string
	Type   types.Type
	Origin Language
}

type UnifiedFunction struct {
	ID         NodeID
	Name       string
	Params     []UnifiedParameter
	ReturnType types.Type
	Body       []UnifiedNode
	Origin     Language
	Visibility Visibility
	Mapping    *CrossMapping
	Meta       Metadata
}

// UnifiedCall calls Callee in language Target. Origin is the side the call
// was written on.
type UnifiedCall struct {
	ID           NodeID
	Target       Language
	Callee       string
	Args         []UnifiedNode
	InferredType types.Type
	Origin       Language
	Mapping      *CrossMapping
	Meta         Metadata
}

type UnifiedVariable struct {
	ID   NodeID
	Name string
	Type types.Type
	Meta Metadata
}

type UnifiedAssign struct {
	ID     NodeID
	Target string
	Value  UnifiedNode
	Type   types.Type
	Meta   Metadata
}

type UnifiedReturn struct {
	ID    NodeID
	Value UnifiedNode
	Meta  Metadata
}

type UnifiedIf struct {
	ID        NodeID
	Condition UnifiedNode
	Then      []UnifiedNode
	Else      []UnifiedNode
	Meta      Metadata
}

// LoopKind is ForLoop or WhileLoop
type LoopKind interface {
	isLoopKind()
}

type ForLoop struct {
	Target   string
	Iterable UnifiedNode
}

type WhileLoop struct {
	Condition UnifiedNode
}

func (ForLoop) isLoopKind()   {}
func (WhileLoop) isLoopKind() {}

type UnifiedLoop struct {
	ID   NodeID
	Loop LoopKind
	Body []UnifiedNode
	Meta Metadata
}

type UnifiedBinOp struct {
	ID    NodeID
	Op    BinaryOp
	Left  UnifiedNode
	Right UnifiedNode
	Type  types.Type
	Meta  Metadata
}

type UnifiedLiteral struct {
	ID    NodeID
	Value LiteralValue
	Meta  Metadata
}

func (*UnifiedModule) unifiedNode()   {}
func (*UnifiedFunction) unifiedNode() {}
func (*UnifiedCall) unifiedNode()     {}
func (*UnifiedVariable) unifiedNode() {}
func (*UnifiedAssign) unifiedNode()   {}
func (*UnifiedReturn) unifiedNode()   {}
func (*UnifiedIf) unifiedNode()       {}
func (*UnifiedLoop) unifiedNode()     {}
func (*UnifiedBinOp) unifiedNode()    {}
func (*UnifiedLiteral) unifiedNode()  {}

func (*UnifiedModule) NodeID() NodeID     { return 0 }
func (n *UnifiedFunction) NodeID() NodeID { return n.ID }
func (n *UnifiedCall) NodeID() NodeID     { return n.ID }
func (n *UnifiedVariable) NodeID() NodeID { return n.ID }
func (n *UnifiedAssign) NodeID() NodeID   { return n.ID }
func (n *UnifiedReturn) NodeID() NodeID   { return n.ID }
func (n *UnifiedIf) NodeID() NodeID       { return n.ID }
func (n *UnifiedLoop) NodeID() NodeID     { return n.ID }
func (n *UnifiedBinOp) NodeID() NodeID    { return n.ID }
func (n *UnifiedLiteral) NodeID() NodeID  { return n.ID }

func (*UnifiedModule) Kind() string   { return "Module" }
func (*UnifiedFunction) Kind() string { return "Function" }
func (*UnifiedCall) Kind() string     { return "Call" }
func (*UnifiedVariable) Kind() string { return "Variable" }
func (*UnifiedAssign) Kind() string   { return "Assign" }
func (*UnifiedReturn) Kind() string   { return "Return" }
func (*UnifiedIf) Kind() string       { return "If" }
func (*UnifiedLoop) Kind() string     { return "Loop" }
func (*UnifiedBinOp) Kind() string    { return "BinOp" }
func (*UnifiedLiteral) Kind() string  { return "Literal" }

func (n *UnifiedModule) Metadata() *Metadata   { return &n.Meta }
func (n *UnifiedFunction) Metadata() *Metadata { return &n.Meta }
func (n *UnifiedCall) Metadata() *Metadata     { return &n.Meta }
func (n *UnifiedVariable) Metadata() *Metadata { return &n.Meta }
func (n *UnifiedAssign) Metadata() *Metadata   { return &n.Meta }
func (n *UnifiedReturn) Metadata() *Metadata   { return &n.Meta }
func (n *UnifiedIf) Metadata() *Metadata       { return &n.Meta }
func (n *UnifiedLoop) Metadata() *Metadata     { return &n.Meta }
func (n *UnifiedBinOp) Metadata() *Metadata    { return &n.Meta }
func (n *UnifiedLiteral) Metadata() *Metadata  { return &n.Meta }
