package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/grammar"
	"weld/internal/catalog"
	"weld/internal/hir"
)

func parseRuleSource(name, src string) (*grammar.RuleFile, error) {
	return grammar.ParseString(name, src)
}

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestErrorReporter(t *testing.T) {
	withoutColor(t)
	source := `def count(items):
    return size(items)
`

	reporter := NewErrorReporter("count.py", source)

	loc := &hir.SourceLocation{File: "count.py", Line: 2, Column: 12, Language: hir.Front}
	uerr := NoPatternMatch("size", "list_length", catalog.Default().FindSimilar("size", "list_length")).At(loc)
	formatted := reporter.FormatError(uerr.ToCompilerError())

	// Should contain error level and code
	assert.Contains(t, formatted, "error["+ErrorNoPatternMatch+"]")
	assert.Contains(t, formatted, "Cannot match Python function 'size'")

	// Should contain location and the offending line
	assert.Contains(t, formatted, "count.py:2:12")
	assert.Contains(t, formatted, "return size(items)")
	assert.Contains(t, formatted, strings.Repeat(" ", 11)+"^^^^")

	// Should contain suggestions
	assert.Contains(t, formatted, "help try: len() + list_length() → Vec::len()")
	assert.Contains(t, formatted, "help: for custom patterns, see docs/patterns.md")
}

func TestUnknownPositionSkipsSourceContext(t *testing.T) {
	withoutColor(t)
	reporter := NewErrorReporter("count.py", "len(x)\n")

	formatted := reporter.FormatError(UnsupportedFront("ListComp").ToCompilerError())
	assert.Contains(t, formatted, "error[U0003]: Unsupported Python HIR node: ListComp")
	assert.Contains(t, formatted, "count.py:0:0")
	assert.NotContains(t, formatted, "len(x)")
	assert.NotContains(t, formatted, "^")

	// a line past the end of the source is treated the same way
	err := NewDiagnostic(ErrorNoPatternMatch, "far away", Position{Line: 40, Column: 1}).Build()
	assert.NotContains(t, reporter.FormatError(err), "^")
}

func TestUnderline(t *testing.T) {
	withoutColor(t)

	assert.Equal(t, "    ^", underline(5, 1, Error))
	assert.Equal(t, "^^^^^", underline(1, 5, Error))
	assert.Equal(t, "^", underline(3, 0, Note)[2:])

	// column zero does not underflow
	assert.Equal(t, "^^", underline(0, 2, Warning))
}

func TestLineNumberWidth(t *testing.T) {
	assert.Equal(t, 3, lineNumberWidth(0))
	assert.Equal(t, 3, lineNumberWidth(42))
	assert.Equal(t, 4, lineNumberWidth(1234))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("usize", "usize"))
	assert.Equal(t, 1, levenshteinDistance("usize", "usise"))
	assert.Equal(t, 1, levenshteinDistance("bool", "boo"))
	assert.Equal(t, 2, levenshteinDistance("unit", "uint"))
	assert.Equal(t, 3, levenshteinDistance("abc", "xyz"))
	assert.Equal(t, 6, levenshteinDistance("", "option"))
}

func TestSimilarNameFinding(t *testing.T) {
	similar := findSimilarNames("optoin", catalog.ResultKinds)
	assert.Equal(t, []string{"option"}, similar)

	similar = findSimilarNames("unti", catalog.ResultKinds)
	assert.Contains(t, similar, "unit")

	similar = findSimilarNames("xyz", catalog.ResultKinds)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	withoutColor(t)

	for _, level := range []ErrorLevel{Error, Warning, Note, Help, "fatal"} {
		assert.Equal(t, string(level), levelColor(level)(string(level)))
	}
}

func TestUnpairedCallWarning(t *testing.T) {
	withoutColor(t)
	candidates := catalog.Default().LookupFront("append")
	pos := Position{Filename: "app.py", Line: 1, Column: 1}

	warn := UnpairedCall("append", pos, candidates)
	assert.Equal(t, Warning, warn.Level)
	assert.True(t, IsWarning(warn.Code))
	assert.Equal(t, 6, warn.Length)
	require.Len(t, warn.Suggestions, 1)
	assert.Contains(t, warn.Suggestions[0].Message, "PyList_Append")

	formatted := NewErrorReporter("app.py", "append(xs, 1)").FormatError(warn)
	assert.True(t, strings.HasPrefix(formatted, "warning[W0001]"))
	assert.Contains(t, formatted, "note: the call is kept as written and not translated")

	bare := UnpairedCall("frobnicate", pos, nil)
	assert.Empty(t, bare.Suggestions)
}

func TestRuleDiagnostics(t *testing.T) {
	src := "pattern a: x + y -> z : optoin;\n" +
		"pattern b: len + list_length -> Vec::len : usize;\n" +
		"pattern a: p + q -> r : unit;\n"
	c := catalog.Default()
	file, err := parseRuleSource("rules.patterns", src)
	require.NoError(t, err)

	_, errs := c.Compile(file)
	require.Len(t, errs, 2)

	bad := FromRuleError(errs[0])
	assert.Equal(t, ErrorRuleBadResult, bad.Code)
	assert.Equal(t, 1, bad.Position.Line)
	require.NotEmpty(t, bad.Suggestions)
	assert.Equal(t, "did you mean 'option'?", bad.Suggestions[0].Message)

	conflict := FromRuleError(errs[1])
	assert.Equal(t, ErrorRuleConflict, conflict.Code)
	assert.Equal(t, 2, conflict.Position.Line)
	assert.Equal(t, len("len + list_length"), conflict.Length)
}

func TestRuleSyntaxError(t *testing.T) {
	_, err := parseRuleSource("broken.patterns", "pattern broken a + b -> c : usize;\n")
	require.Error(t, err)

	diag := RuleSyntax("broken.patterns", err)
	assert.Equal(t, ErrorRuleSyntax, diag.Code)
	assert.Equal(t, "broken.patterns", diag.Position.Filename)
	assert.Equal(t, 1, diag.Position.Line)
	assert.Equal(t, 16, diag.Position.Column)
	assert.NotEmpty(t, diag.HelpText)

	plain := RuleSyntax("x.patterns", assert.AnError)
	assert.Equal(t, 1, plain.Position.Line)
	assert.Equal(t, assert.AnError.Error(), plain.Message)
}

func TestErrorCodes(t *testing.T) {
	for _, code := range []string{
		ErrorNoPatternMatch, ErrorIncompatibleNodes, ErrorUnsupportedFront, ErrorUnsupportedNative,
		ErrorRuleSyntax, ErrorRuleBadResult, ErrorRuleDuplicateName, ErrorRuleConflict, WarningUnpairedCall,
	} {
		assert.NotEqual(t, "Unknown error code", GetErrorDescription(code), code)
	}
	assert.Equal(t, "Unification", GetErrorCategory(ErrorIncompatibleNodes))
	assert.Equal(t, "Pattern Rules", GetErrorCategory(ErrorRuleConflict))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnpairedCall))
	assert.Equal(t, "Unknown", GetErrorCategory(""))
	assert.False(t, IsWarning(ErrorRuleSyntax))
}
