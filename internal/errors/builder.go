package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"weld/internal/catalog"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error builder
func NewDiagnostic(code, message string, pos Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos Position) *DiagnosticBuilder {
	b := NewDiagnostic(code, message, pos)
	b.err.Level = Warning
	return b
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos Position, length int) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// Pattern-rule file diagnostics

// RuleSyntax converts a rule-file parse error. Errors that carry no position
// are reported at the start of the file.
func RuleSyntax(filename string, err error) CompilerError {
	pos := Position{Filename: filename, Line: 1, Column: 1}
	msg := err.Error()
	var pe participle.Error
	if stderrors.As(err, &pe) {
		pos = PositionFromLexer(pe.Position())
		msg = pe.Message()
	}
	return NewDiagnostic(ErrorRuleSyntax, msg, pos).
		WithHelp("rules look like: pattern name: front + native -> Target::callee : result;").
		Build()
}

// FromRuleError converts a catalog rule error into a diagnostic
func FromRuleError(re *catalog.RuleError) CompilerError {
	pos := PositionFromLexer(re.Pos)
	switch re.Kind {
	case catalog.RuleBadResult:
		builder := NewDiagnostic(ErrorRuleBadResult, re.Message, pos).WithLength(re.Length)
		if similar := findSimilarNames(re.Subject, catalog.ResultKinds); len(similar) > 0 {
			builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
		}
		return builder.WithNote("results are usize, unit, option, bool or custom(TypeName)").Build()
	case catalog.RuleDuplicateName:
		return NewDiagnostic(ErrorRuleDuplicateName, re.Message, pos).
			WithLength(re.Length).
			WithSuggestion("rename one of the rules").
			Build()
	case catalog.RuleConflict:
		return NewDiagnostic(ErrorRuleConflict, re.Message, pos).
			WithLength(re.Length).
			WithNote("each front/native pair can only map to one target callee").
			Build()
	}
	return NewDiagnostic(ErrorRuleSyntax, re.Message, pos).WithLength(re.Length).Build()
}

// UnpairedCall warns about a front call that no native function completes
func UnpairedCall(callee string, pos Position, candidates []catalog.Entry) CompilerError {
	builder := NewWarning(WarningUnpairedCall, fmt.Sprintf("call to '%s' has no native counterpart", callee), pos).
		WithLength(len(callee))
	if len(candidates) > 0 {
		natives := make([]string, len(candidates))
		for i, c := range candidates {
			natives[i] = c.NativeCallee
		}
		builder = builder.WithSuggestion(fmt.Sprintf("add one of '%s' to the native unit", strings.Join(natives, "', '")))
	}
	return builder.WithNote("the call is kept as written and not translated").Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
