package hir

// Visitors have one method per variant. Adding a variant to one of the IRs
// breaks every implementation until it handles the new case.

type FrontVisitor interface {
	VisitModule(*FrontModule)
	VisitFunction(*FrontFunction)
	VisitClass(*FrontClass)
	VisitCall(*FrontCall)
	VisitVariable(*FrontVariable)
	VisitAssign(*FrontAssign)
	VisitReturn(*FrontReturn)
	VisitIf(*FrontIf)
	VisitFor(*FrontFor)
	VisitWhile(*FrontWhile)
	VisitBinOp(*FrontBinOp)
	VisitUnaryOp(*FrontUnaryOp)
	VisitLiteral(*FrontLiteral)
	VisitListComp(*FrontListComp)
	VisitAttribute(*FrontAttribute)
	VisitSubscript(*FrontSubscript)
}

type NativeVisitor interface {
	VisitTranslationUnit(*NativeTranslationUnit)
	VisitFunction(*NativeFunction)
	VisitStruct(*NativeStruct)
	VisitCall(*NativeCall)
	VisitVariable(*NativeVariable)
	VisitVarDecl(*NativeVarDecl)
	VisitAssign(*NativeAssign)
	VisitReturn(*NativeReturn)
	VisitIf(*NativeIf)
	VisitFor(*NativeFor)
	VisitWhile(*NativeWhile)
	VisitBinOp(*NativeBinOp)
	VisitUnaryOp(*NativeUnaryOp)
	VisitLiteral(*NativeLiteral)
	VisitFieldAccess(*NativeFieldAccess)
	VisitArraySubscript(*NativeArraySubscript)
	VisitCast(*NativeCast)
	VisitDeref(*NativeDeref)
	VisitAddrOf(*NativeAddrOf)
	VisitRuntimeIntrinsic(*NativeRuntimeIntrinsic)
}

type UnifiedVisitor interface {
	VisitModule(*UnifiedModule)
	VisitFunction(*UnifiedFunction)
	VisitCall(*UnifiedCall)
	VisitVariable(*UnifiedVariable)
	VisitAssign(*UnifiedAssign)
	VisitReturn(*UnifiedReturn)
	VisitIf(*UnifiedIf)
	VisitLoop(*UnifiedLoop)
	VisitBinOp(*UnifiedBinOp)
	VisitLiteral(*UnifiedLiteral)
}

func (n *FrontModule) Accept(v FrontVisitor)    { v.VisitModule(n) }
func (n *FrontFunction) Accept(v FrontVisitor)  { v.VisitFunction(n) }
func (n *FrontClass) Accept(v FrontVisitor)     { v.VisitClass(n) }
func (n *FrontCall) Accept(v FrontVisitor)      { v.VisitCall(n) }
func (n *FrontVariable) Accept(v FrontVisitor)  { v.VisitVariable(n) }
func (n *FrontAssign) Accept(v FrontVisitor)    { v.VisitAssign(n) }
func (n *FrontReturn) Accept(v FrontVisitor)    { v.VisitReturn(n) }
func (n *FrontIf) Accept(v FrontVisitor)        { v.VisitIf(n) }
func (n *FrontFor) Accept(v FrontVisitor)       { v.VisitFor(n) }
func (n *FrontWhile) Accept(v FrontVisitor)     { v.VisitWhile(n) }
func (n *FrontBinOp) Accept(v FrontVisitor)     { v.VisitBinOp(n) }
func (n *FrontUnaryOp) Accept(v FrontVisitor)   { v.VisitUnaryOp(n) }
func (n *FrontLiteral) Accept(v FrontVisitor)   { v.VisitLiteral(n) }
func (n *FrontListComp) Accept(v FrontVisitor)  { v.VisitListComp(n) }
func (n *FrontAttribute) Accept(v FrontVisitor) { v.VisitAttribute(n) }
func (n *FrontSubscript) Accept(v FrontVisitor) { v.VisitSubscript(n) }

func (n *NativeTranslationUnit) Accept(v NativeVisitor)  { v.VisitTranslationUnit(n) }
func (n *NativeFunction) Accept(v NativeVisitor)         { v.VisitFunction(n) }
func (n *NativeStruct) Accept(v NativeVisitor)           { v.VisitStruct(n) }
func (n *NativeCall) Accept(v NativeVisitor)             { v.VisitCall(n) }
func (n *NativeVariable) Accept(v NativeVisitor)         { v.VisitVariable(n) }
func (n *NativeVarDecl) Accept(v NativeVisitor)          { v.VisitVarDecl(n) }
func (n *NativeAssign) Accept(v NativeVisitor)           { v.VisitAssign(n) }
func (n *NativeReturn) Accept(v NativeVisitor)           { v.VisitReturn(n) }
func (n *NativeIf) Accept(v NativeVisitor)               { v.VisitIf(n) }
func (n *NativeFor) Accept(v NativeVisitor)              { v.VisitFor(n) }
func (n *NativeWhile) Accept(v NativeVisitor)            { v.VisitWhile(n) }
func (n *NativeBinOp) Accept(v NativeVisitor)            { v.VisitBinOp(n) }
func (n *NativeUnaryOp) Accept(v NativeVisitor)          { v.VisitUnaryOp(n) }
func (n *NativeLiteral) Accept(v NativeVisitor)          { v.VisitLiteral(n) }
func (n *NativeFieldAccess) Accept(v NativeVisitor)      { v.VisitFieldAccess(n) }
func (n *NativeArraySubscript) Accept(v NativeVisitor)   { v.VisitArraySubscript(n) }
func (n *NativeCast) Accept(v NativeVisitor)             { v.VisitCast(n) }
func (n *NativeDeref) Accept(v NativeVisitor)            { v.VisitDeref(n) }
func (n *NativeAddrOf) Accept(v NativeVisitor)           { v.VisitAddrOf(n) }
func (n *NativeRuntimeIntrinsic) Accept(v NativeVisitor) { v.VisitRuntimeIntrinsic(n) }

func (n *UnifiedModule) Accept(v UnifiedVisitor)   { v.VisitModule(n) }
func (n *UnifiedFunction) Accept(v UnifiedVisitor) { v.VisitFunction(n) }
func (n *UnifiedCall) Accept(v UnifiedVisitor)     { v.VisitCall(n) }
func (n *UnifiedVariable) Accept(v UnifiedVisitor) { v.VisitVariable(n) }
func (n *UnifiedAssign) Accept(v UnifiedVisitor)   { v.VisitAssign(n) }
func (n *UnifiedReturn) Accept(v UnifiedVisitor)   { v.VisitReturn(n) }
func (n *UnifiedIf) Accept(v UnifiedVisitor)       { v.VisitIf(n) }
func (n *UnifiedLoop) Accept(v UnifiedVisitor)     { v.VisitLoop(n) }
func (n *UnifiedBinOp) Accept(v UnifiedVisitor)    { v.VisitBinOp(n) }
func (n *UnifiedLiteral) Accept(v UnifiedVisitor)  { v.VisitLiteral(n) }

// InspectFront traverses a front tree depth-first, calling f for each node.
// Children are skipped when f returns false. Nil nodes are ignored.
func InspectFront(node FrontNode, f func(FrontNode) bool) {
	if node == nil || !f(node) {
		return
	}
	all := func(nodes []FrontNode) {
		for _, c := range nodes {
			InspectFront(c, f)
		}
	}
	switch n := node.(type) {
	case *FrontModule:
		all(n.Body)
	case *FrontFunction:
		for _, p := range n.Params {
			InspectFront(p.Default, f)
		}
		all(n.Body)
	case *FrontClass:
		all(n.Body)
	case *FrontCall:
		InspectFront(n.Callee, f)
		all(n.Args)
		for _, kw := range n.Kwargs {
			InspectFront(kw.Value, f)
		}
	case *FrontAssign:
		InspectFront(n.Value, f)
	case *FrontReturn:
		InspectFront(n.Value, f)
	case *FrontIf:
		InspectFront(n.Condition, f)
		all(n.Then)
		all(n.Else)
	case *FrontFor:
		InspectFront(n.Iter, f)
		all(n.Body)
		all(n.Else)
	case *FrontWhile:
		InspectFront(n.Condition, f)
		all(n.Body)
	case *FrontBinOp:
		InspectFront(n.Left, f)
		InspectFront(n.Right, f)
	case *FrontUnaryOp:
		InspectFront(n.Operand, f)
	case *FrontListComp:
		InspectFront(n.Element, f)
		InspectFront(n.Iter, f)
		all(n.Conditions)
	case *FrontAttribute:
		InspectFront(n.Value, f)
	case *FrontSubscript:
		InspectFront(n.Value, f)
		InspectFront(n.Index, f)
	}
}

// InspectUnified traverses a unified tree depth-first like InspectFront
func InspectUnified(node UnifiedNode, f func(UnifiedNode) bool) {
	if node == nil || !f(node) {
		return
	}
	all := func(nodes []UnifiedNode) {
		for _, c := range nodes {
			InspectUnified(c, f)
		}
	}
	switch n := node.(type) {
	case *UnifiedModule:
		all(n.Decls)
	case *UnifiedFunction:
		all(n.Body)
	case *UnifiedCall:
		all(n.Args)
	case *UnifiedAssign:
		InspectUnified(n.Value, f)
	case *UnifiedReturn:
		InspectUnified(n.Value, f)
	case *UnifiedIf:
		InspectUnified(n.Condition, f)
		all(n.Then)
		all(n.Else)
	case *UnifiedLoop:
		switch l := n.Loop.(type) {
		case ForLoop:
			InspectUnified(l.Iterable, f)
		case WhileLoop:
			InspectUnified(l.Condition, f)
		}
		all(n.Body)
	case *UnifiedBinOp:
		InspectUnified(n.Left, f)
		InspectUnified(n.Right, f)
	}
}
