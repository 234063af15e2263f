package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RuleFile is a pattern-rule file:
//
//	# comment
//	pattern set_add: add + PySet_Add -> HashSet::insert : unit;
//	pattern upper: upper + str_upper -> String::to_uppercase : custom(String);
type RuleFile struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Elements []*Element `@@*`
}

type Element struct {
	Comment *Comment `  @@`
	Rule    *Rule    `| @@`
}

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Comment struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Text   string `@Comment`
}

// Rule pairs a front callee with the native function implementing it
type Rule struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Tokens []lexer.Token
	Name   PosIdent `"pattern" @@ ":"`
	Front  PosIdent `@@ "+"`
	Native PosIdent `@@ "->"`
	Target *Path    `@@ ":"`
	Result *Result  `@@ ";"`
}

// Path is a target callee such as HashSet::insert
type Path struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Parts  []PosIdent `@@ { "::" @@ }`
}

// Result is usize, unit, option, bool or custom(Name)
type Result struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Kind   PosIdent `@@`
	Custom *Path    `[ "(" @@ ")" ]`
}

// Rules returns the rules in file order, skipping comments
func (f *RuleFile) Rules() []*Rule {
	var out []*Rule
	for _, e := range f.Elements {
		if e.Rule != nil {
			out = append(out, e.Rule)
		}
	}
	return out
}
