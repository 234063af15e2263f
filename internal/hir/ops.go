package hir

import (
	"fmt"
	"strconv"
)

// BinaryOp is shared by the three IRs. The front IR uses the arithmetic,
// comparison and logical operators; the native IR adds the bitwise ones; the
// unified IR accepts only the operators both sides agree on (see Unifiable).
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNotEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

var binaryOpSymbols = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpEq:       "==",
	OpNotEq:    "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "&&",
	OpOr:       "||",
	OpBitAnd:   "&",
	OpBitOr:    "|",
	OpBitXor:   "^",
	OpShl:      "<<",
	OpShr:      ">>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

// ParseBinaryOp maps an operator symbol back to its BinaryOp. The front-end
// spellings "and" and "or" are accepted as well.
func ParseBinaryOp(s string) (BinaryOp, error) {
	switch s {
	case "and":
		return OpAnd, nil
	case "or":
		return OpOr, nil
	}
	for i, sym := range binaryOpSymbols {
		if sym == s {
			return BinaryOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}

// Unifiable reports whether op has a unified counterpart
func (op BinaryOp) Unifiable() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpEq, OpNotEq, OpLt, OpLe, OpGt, OpGe,
		OpAnd, OpOr:
		return true
	}
	return false
}

// Comparison reports whether op yields a boolean
func (op BinaryOp) Comparison() bool {
	switch op {
	case OpEq, OpNotEq, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPos
	OpBitNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	case OpBitNot:
		return "~"
	}
	return "?"
}

func ParseUnaryOp(s string) (UnaryOp, error) {
	switch s {
	case "!", "not":
		return OpNot, nil
	case "-":
		return OpNeg, nil
	case "+":
		return OpPos, nil
	case "~":
		return OpBitNot, nil
	}
	return 0, fmt.Errorf("unknown unary operator %q", s)
}

type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitUint
	LitFloat
	LitStr
	LitChar
	LitBool
	LitNone // None on the front side, NULL on the native side
)

func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitUint:
		return "uint"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	case LitChar:
		return "char"
	case LitBool:
		return "bool"
	case LitNone:
		return "none"
	}
	return "?"
}

// LiteralValue is a constant. Only the field matching Kind is meaningful.
type LiteralValue struct {
	Kind  LiteralKind
	Int   int64
	Uint  uint64
	Float float64
	Str   string // also holds the rune for LitChar
	Bool  bool
}

func IntLit(v int64) LiteralValue     { return LiteralValue{Kind: LitInt, Int: v} }
func UintLit(v uint64) LiteralValue   { return LiteralValue{Kind: LitUint, Uint: v} }
func FloatLit(v float64) LiteralValue { return LiteralValue{Kind: LitFloat, Float: v} }
func StrLit(v string) LiteralValue    { return LiteralValue{Kind: LitStr, Str: v} }
func CharLit(r rune) LiteralValue     { return LiteralValue{Kind: LitChar, Str: string(r)} }
func BoolLit(v bool) LiteralValue     { return LiteralValue{Kind: LitBool, Bool: v} }
func NoneLit() LiteralValue           { return LiteralValue{Kind: LitNone} }

// String renders the literal in target syntax
func (l LiteralValue) String() string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitUint:
		return strconv.FormatUint(l.Uint, 10)
	case LitFloat:
		s := strconv.FormatFloat(l.Float, 'g', -1, 64)
		for _, c := range s {
			if c == '.' || c == 'e' || c == 'I' || c == 'N' {
				return s
			}
		}
		return s + ".0"
	case LitStr:
		return strconv.Quote(l.Str)
	case LitChar:
		return "'" + l.Str + "'"
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitNone:
		return "None"
	}
	return "?"
}
