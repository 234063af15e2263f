package lsp

import (
	"slices"

	"github.com/alecthomas/participle/v2/lexer"

	"weld/grammar"
	"weld/internal/catalog"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

const keywordPattern = "pattern"

func collectSemanticTokens(file *grammar.RuleFile) []SemanticToken {
	var tokens []SemanticToken

	if file == nil {
		return tokens
	}

	for _, el := range file.Elements {
		switch {
		case el.Comment != nil:
			tokens = append(tokens, makeToken(el.Comment.Pos, el.Comment.EndPos, el.Comment.Text, "comment")...)
		case el.Rule != nil:
			tokens = append(tokens, walkRule(el.Rule)...)
		}
	}

	return tokens
}

func walkRule(r *grammar.Rule) []SemanticToken {
	var tokens []SemanticToken

	// the rule starts at its keyword
	end := r.Pos
	end.Column += len(keywordPattern)
	tokens = append(tokens, makeToken(r.Pos, end, keywordPattern, "keyword")...)

	tokens = append(tokens, makeToken(r.Name.Pos, r.Name.EndPos, r.Name.Value, "variable", "declaration")...)
	tokens = append(tokens, makeToken(r.Front.Pos, r.Front.EndPos, r.Front.Value, "function")...)
	tokens = append(tokens, makeToken(r.Native.Pos, r.Native.EndPos, r.Native.Value, "function", "defaultLibrary")...)
	tokens = append(tokens, walkPath(r.Target, "method")...)

	if r.Result != nil {
		kind := r.Result.Kind
		if slices.Contains(catalog.ResultKinds, kind.Value) {
			tokens = append(tokens, makeToken(kind.Pos, kind.EndPos, kind.Value, "enumMember")...)
		}
		tokens = append(tokens, walkPath(r.Result.Custom, "type")...)
	}

	return tokens
}

// walkPath marks every segment but the last as a type (e.g. HashSet in
// HashSet::insert) and the last one as last
func walkPath(p *grammar.Path, last string) []SemanticToken {
	var tokens []SemanticToken

	if p == nil {
		return tokens
	}

	for i, part := range p.Parts {
		kind := "type"
		if i == len(p.Parts)-1 {
			kind = last
		}
		tokens = append(tokens, makeToken(part.Pos, part.EndPos, part.Value, kind)...)
	}

	return tokens
}

// makeToken creates a semantic token for a given position and text
func makeToken(pos, endPos lexer.Position, value, tokenType string, modifiers ...string) []SemanticToken {
	if value == "" || pos.Line <= 0 {
		return nil
	}

	length := endPos.Column - pos.Column
	if endPos.Line != pos.Line || length <= 0 {
		length = len(value)
	}

	mask := 0
	for _, m := range modifiers {
		mask |= 1 << indexOf(m, SemanticTokenModifiers)
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: mask,
	}}
}

// encodeTokens packs tokens into the LSP wire format using delta-line,
// delta-start compression
func encodeTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
