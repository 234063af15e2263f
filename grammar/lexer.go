package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var PatternLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `#[^\n]*`, nil},

		// Keywords and identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Path separator and arrow before the single-character punctuation
		{"Punctuation", `::|->|[:;+(),]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
