package hir

import (
	"fmt"
	"strings"

	"weld/internal/types"
)

// Printer renders IR trees as indented text for debugging and the CLI.
// Statements go through the visitors; expressions are rendered inline.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// PrintUnified returns the text form of a unified tree
func PrintUnified(node UnifiedNode) string {
	p := NewPrinter()
	node.Accept(&unifiedPrinter{p})
	return p.output.String()
}

// PrintFront returns the text form of a front tree
func PrintFront(node FrontNode) string {
	p := NewPrinter()
	node.Accept(&frontPrinter{p})
	return p.output.String()
}

// PrintNative returns the text form of a native tree
func PrintNative(node NativeNode) string {
	p := NewPrinter()
	node.Accept(&nativePrinter{p})
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func typeStr(t types.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// Unified

type unifiedPrinter struct{ *Printer }

func (p *unifiedPrinter) block(nodes []UnifiedNode) {
	p.indent++
	for _, n := range nodes {
		if n != nil {
			n.Accept(p)
		}
	}
	p.indent--
}

func (p *unifiedPrinter) VisitModule(n *UnifiedModule) {
	p.writeLine("module %s", n.Name)
	p.block(n.Decls)
}

func (p *unifiedPrinter) VisitFunction(n *UnifiedFunction) {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = param.Name + ": " + typeStr(param.Type)
	}
	note := "  ; " + n.Origin.String()
	if n.Mapping != nil {
		note += " " + n.Mapping.String()
	}
	p.writeLine("fn %s(%s) -> %s%s", n.Name, strings.Join(params, ", "), typeStr(n.ReturnType), note)
	p.block(n.Body)
}

func (p *unifiedPrinter) VisitCall(n *UnifiedCall) {
	p.writeLine("%s%s", unifiedExpr(n), mappingNotes(n))
}

func (p *unifiedPrinter) VisitVariable(n *UnifiedVariable) { p.writeLine("%s", unifiedExpr(n)) }
func (p *unifiedPrinter) VisitBinOp(n *UnifiedBinOp)       { p.writeLine("%s%s", unifiedExpr(n), mappingNotes(n)) }
func (p *unifiedPrinter) VisitLiteral(n *UnifiedLiteral)   { p.writeLine("%s", unifiedExpr(n)) }

func (p *unifiedPrinter) VisitAssign(n *UnifiedAssign) {
	p.writeLine("let %s: %s = %s%s", n.Target, typeStr(n.Type), unifiedExpr(n.Value), mappingNotes(n.Value))
}

func (p *unifiedPrinter) VisitReturn(n *UnifiedReturn) {
	if n.Value == nil {
		p.writeLine("return")
		return
	}
	p.writeLine("return %s%s", unifiedExpr(n.Value), mappingNotes(n.Value))
}

func (p *unifiedPrinter) VisitIf(n *UnifiedIf) {
	p.writeLine("if %s:%s", unifiedExpr(n.Condition), mappingNotes(n.Condition))
	p.block(n.Then)
	if len(n.Else) > 0 {
		p.writeLine("else:")
		p.block(n.Else)
	}
}

func (p *unifiedPrinter) VisitLoop(n *UnifiedLoop) {
	switch l := n.Loop.(type) {
	case ForLoop:
		p.writeLine("for %s in %s:%s", l.Target, unifiedExpr(l.Iterable), mappingNotes(l.Iterable))
	case WhileLoop:
		p.writeLine("while %s:%s", unifiedExpr(l.Condition), mappingNotes(l.Condition))
	default:
		p.writeLine("loop:")
	}
	p.block(n.Body)
}

// unifiedExpr renders an expression on one line
func unifiedExpr(node UnifiedNode) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *UnifiedVariable:
		return n.Name
	case *UnifiedLiteral:
		return n.Value.String()
	case *UnifiedBinOp:
		return fmt.Sprintf("(%s %s %s)", unifiedExpr(n.Left), n.Op, unifiedExpr(n.Right))
	case *UnifiedCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = unifiedExpr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", "))
	case *UnifiedAssign:
		return n.Target + " = " + unifiedExpr(n.Value)
	}
	return "<" + node.Kind() + ">"
}

// mappingNotes lists the cross mappings of every call inside an expression
func mappingNotes(node UnifiedNode) string {
	var notes []string
	InspectUnified(node, func(n UnifiedNode) bool {
		if call, ok := n.(*UnifiedCall); ok && call.Mapping != nil {
			notes = append(notes, call.Target.String()+" "+call.Mapping.String())
		}
		return true
	})
	if len(notes) == 0 {
		return ""
	}
	return "  ; " + strings.Join(notes, "; ")
}

// Front

type frontPrinter struct{ *Printer }

func (p *frontPrinter) block(nodes []FrontNode) {
	p.indent++
	if len(nodes) == 0 {
		p.writeLine("pass")
	}
	for _, n := range nodes {
		if n != nil {
			n.Accept(p)
		}
	}
	p.indent--
}

func (p *frontPrinter) VisitModule(n *FrontModule) {
	p.writeLine("# module %s", n.Name)
	for _, item := range n.Body {
		item.Accept(p)
	}
}

func (p *frontPrinter) VisitFunction(n *FrontFunction) {
	for _, d := range n.Decorators {
		p.writeLine("@%s", d)
	}
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = param.Name
		if param.Type != nil {
			params[i] += ": " + param.Type.String()
		}
		if param.Default != nil {
			params[i] += " = " + frontExpr(param.Default)
		}
	}
	ret := ""
	if n.ReturnType != nil {
		ret = " -> " + n.ReturnType.String()
	}
	p.writeLine("def %s(%s)%s:", n.Name, strings.Join(params, ", "), ret)
	p.block(n.Body)
}

func (p *frontPrinter) VisitClass(n *FrontClass) {
	for _, d := range n.Decorators {
		p.writeLine("@%s", d)
	}
	if len(n.Bases) > 0 {
		p.writeLine("class %s(%s):", n.Name, strings.Join(n.Bases, ", "))
	} else {
		p.writeLine("class %s:", n.Name)
	}
	p.block(n.Body)
}

func (p *frontPrinter) VisitCall(n *FrontCall)           { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitVariable(n *FrontVariable)   { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitBinOp(n *FrontBinOp)         { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitUnaryOp(n *FrontUnaryOp)     { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitLiteral(n *FrontLiteral)     { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitListComp(n *FrontListComp)   { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitAttribute(n *FrontAttribute) { p.writeLine("%s", frontExpr(n)) }
func (p *frontPrinter) VisitSubscript(n *FrontSubscript) { p.writeLine("%s", frontExpr(n)) }

func (p *frontPrinter) VisitAssign(n *FrontAssign) {
	if n.Annotation != nil {
		p.writeLine("%s: %s = %s", n.Target, n.Annotation, frontExpr(n.Value))
		return
	}
	p.writeLine("%s = %s", n.Target, frontExpr(n.Value))
}

func (p *frontPrinter) VisitReturn(n *FrontReturn) {
	if n.Value == nil {
		p.writeLine("return")
		return
	}
	p.writeLine("return %s", frontExpr(n.Value))
}

func (p *frontPrinter) VisitIf(n *FrontIf) {
	p.writeLine("if %s:", frontExpr(n.Condition))
	p.block(n.Then)
	if len(n.Else) > 0 {
		p.writeLine("else:")
		p.block(n.Else)
	}
}

func (p *frontPrinter) VisitFor(n *FrontFor) {
	p.writeLine("for %s in %s:", n.Target, frontExpr(n.Iter))
	p.block(n.Body)
	if len(n.Else) > 0 {
		p.writeLine("else:")
		p.block(n.Else)
	}
}

func (p *frontPrinter) VisitWhile(n *FrontWhile) {
	p.writeLine("while %s:", frontExpr(n.Condition))
	p.block(n.Body)
}

func frontExpr(node FrontNode) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *FrontVariable:
		return n.Name
	case *FrontLiteral:
		if n.Value.Kind == LitBool {
			if n.Value.Bool {
				return "True"
			}
			return "False"
		}
		return n.Value.String()
	case *FrontBinOp:
		op := n.Op.String()
		switch n.Op {
		case OpAnd:
			op = "and"
		case OpOr:
			op = "or"
		}
		return fmt.Sprintf("(%s %s %s)", frontExpr(n.Left), op, frontExpr(n.Right))
	case *FrontUnaryOp:
		if n.Op == OpNot {
			return "not " + frontExpr(n.Operand)
		}
		return n.Op.String() + frontExpr(n.Operand)
	case *FrontCall:
		args := make([]string, 0, len(n.Args)+len(n.Kwargs))
		for _, a := range n.Args {
			args = append(args, frontExpr(a))
		}
		for _, kw := range n.Kwargs {
			args = append(args, kw.Name+"="+frontExpr(kw.Value))
		}
		return fmt.Sprintf("%s(%s)", frontExpr(n.Callee), strings.Join(args, ", "))
	case *FrontAttribute:
		return frontExpr(n.Value) + "." + n.Attr
	case *FrontSubscript:
		return fmt.Sprintf("%s[%s]", frontExpr(n.Value), frontExpr(n.Index))
	case *FrontListComp:
		s := fmt.Sprintf("[%s for %s in %s", frontExpr(n.Element), n.Target, frontExpr(n.Iter))
		for _, c := range n.Conditions {
			s += " if " + frontExpr(c)
		}
		return s + "]"
	}
	return "<" + node.Kind() + ">"
}

// Native

type nativePrinter struct{ *Printer }

func (p *nativePrinter) block(nodes []NativeNode) {
	p.indent++
	for _, n := range nodes {
		if n != nil {
			n.Accept(p)
		}
	}
	p.indent--
}

func (p *nativePrinter) VisitTranslationUnit(n *NativeTranslationUnit) {
	p.writeLine("/* %s */", n.Name)
	for _, d := range n.Decls {
		d.Accept(p)
	}
}

func (p *nativePrinter) VisitFunction(n *NativeFunction) {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = typeStr(param.Type) + " " + param.Name
	}
	prefix := ""
	if s := n.Storage.String(); s != "" {
		prefix = s + " "
	}
	p.writeLine("%s%s %s(%s) {", prefix, typeStr(n.ReturnType), n.Name, strings.Join(params, ", "))
	p.block(n.Body)
	p.writeLine("}")
}

func (p *nativePrinter) VisitStruct(n *NativeStruct) {
	p.writeLine("struct %s {", n.Name)
	p.indent++
	for _, f := range n.Fields {
		p.writeLine("%s %s;", typeStr(f.Type), f.Name)
	}
	p.indent--
	p.writeLine("};")
}

func (p *nativePrinter) VisitCall(n *NativeCall)                 { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitVariable(n *NativeVariable)         { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitBinOp(n *NativeBinOp)               { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitUnaryOp(n *NativeUnaryOp)           { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitLiteral(n *NativeLiteral)           { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitFieldAccess(n *NativeFieldAccess)   { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitArraySubscript(n *NativeArraySubscript) {
	p.writeLine("%s;", nativeExpr(n))
}
func (p *nativePrinter) VisitCast(n *NativeCast)     { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitDeref(n *NativeDeref)   { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitAddrOf(n *NativeAddrOf) { p.writeLine("%s;", nativeExpr(n)) }
func (p *nativePrinter) VisitRuntimeIntrinsic(n *NativeRuntimeIntrinsic) {
	p.writeLine("%s;", nativeExpr(n))
}

func (p *nativePrinter) VisitVarDecl(n *NativeVarDecl) {
	prefix := ""
	if s := n.Storage.String(); s != "" {
		prefix = s + " "
	}
	if n.Init != nil {
		p.writeLine("%s%s %s = %s;", prefix, typeStr(n.Type), n.Name, nativeExpr(n.Init))
		return
	}
	p.writeLine("%s%s %s;", prefix, typeStr(n.Type), n.Name)
}

func (p *nativePrinter) VisitAssign(n *NativeAssign) {
	p.writeLine("%s = %s;", nativeExpr(n.Target), nativeExpr(n.Value))
}

func (p *nativePrinter) VisitReturn(n *NativeReturn) {
	if n.Value == nil {
		p.writeLine("return;")
		return
	}
	p.writeLine("return %s;", nativeExpr(n.Value))
}

func (p *nativePrinter) VisitIf(n *NativeIf) {
	p.writeLine("if (%s) {", nativeExpr(n.Condition))
	p.block(n.Then)
	if len(n.Else) > 0 {
		p.writeLine("} else {")
		p.block(n.Else)
	}
	p.writeLine("}")
}

func (p *nativePrinter) VisitFor(n *NativeFor) {
	clause := func(c NativeNode) string {
		if c == nil {
			return ""
		}
		if d, ok := c.(*NativeVarDecl); ok {
			s := typeStr(d.Type) + " " + d.Name
			if d.Init != nil {
				s += " = " + nativeExpr(d.Init)
			}
			return s
		}
		return nativeExpr(c)
	}
	p.writeLine("for (%s; %s; %s) {", clause(n.Init), clause(n.Condition), clause(n.Increment))
	p.block(n.Body)
	p.writeLine("}")
}

func (p *nativePrinter) VisitWhile(n *NativeWhile) {
	p.writeLine("while (%s) {", nativeExpr(n.Condition))
	p.block(n.Body)
	p.writeLine("}")
}

func nativeExpr(node NativeNode) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *NativeVariable:
		return n.Name
	case *NativeLiteral:
		if n.Value.Kind == LitNone {
			return "NULL"
		}
		return n.Value.String()
	case *NativeBinOp:
		return fmt.Sprintf("(%s %s %s)", nativeExpr(n.Left), n.Op, nativeExpr(n.Right))
	case *NativeUnaryOp:
		return n.Op.String() + nativeExpr(n.Operand)
	case *NativeCall:
		return fmt.Sprintf("%s(%s)", nativeExpr(n.Callee), nativeArgs(n.Args))
	case *NativeRuntimeIntrinsic:
		return fmt.Sprintf("%s(%s)", n.Name, nativeArgs(n.Args))
	case *NativeFieldAccess:
		if n.Pointer {
			return nativeExpr(n.Object) + "->" + n.Field
		}
		return nativeExpr(n.Object) + "." + n.Field
	case *NativeArraySubscript:
		return fmt.Sprintf("%s[%s]", nativeExpr(n.Array), nativeExpr(n.Index))
	case *NativeCast:
		return fmt.Sprintf("(%s)%s", typeStr(n.Type), nativeExpr(n.Expr))
	case *NativeDeref:
		return "*" + nativeExpr(n.Expr)
	case *NativeAddrOf:
		return "&" + nativeExpr(n.Expr)
	case *NativeAssign:
		return nativeExpr(n.Target) + " = " + nativeExpr(n.Value)
	}
	return "<" + node.Kind() + ">"
}

func nativeArgs(args []NativeNode) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = nativeExpr(a)
	}
	return strings.Join(parts, ", ")
}
