package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"

	"weld/internal/hir"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Position is a 1-based location in a source file. Line 0 means unknown.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// PositionOf converts an IR source location; nil gives an unknown position
func PositionOf(loc *hir.SourceLocation) Position {
	if loc == nil {
		return Position{}
	}
	return Position{Filename: loc.File, Line: int(loc.Line), Column: int(loc.Column)}
}

// PositionFromLexer converts a pattern-rule file position
func PositionFromLexer(pos lexer.Position) Position {
	return Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

// CompilerError represents a structured diagnostic with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like U0001
	Message     string       // Primary error message
	Position    Position     // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string   // Description of the suggestion
	Replacement string   // Suggested replacement text (optional)
	Position    Position // Position to apply the fix (optional)
	Length      int      // Length of text to replace (optional)
}

// ErrorReporter renders diagnostics against the text of one file
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a reporter; source may be empty when the file is
// not available, in which case only locations are printed
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

var (
	levelStyles = map[ErrorLevel]*color.Color{
		Error:   color.New(color.FgRed, color.Bold),
		Warning: color.New(color.FgYellow, color.Bold),
		Note:    color.New(color.FgBlue, color.Bold),
		Help:    color.New(color.FgGreen, color.Bold),
	}
	suggestionStyle = color.New(color.FgCyan)
	noteStyle       = color.New(color.FgBlue)
	helpStyle       = color.New(color.FgGreen)
)

// frame writes the gutter-prefixed lines of one rendered diagnostic
type frame struct {
	b      strings.Builder
	indent string
	dim    func(...any) string
}

// rule writes a gutter line followed by text (which may be empty)
func (f *frame) rule(text string) {
	if text == "" {
		fmt.Fprintf(&f.b, "%s %s\n", f.indent, f.dim("│"))
		return
	}
	fmt.Fprintf(&f.b, "%s %s %s\n", f.indent, f.dim("│"), text)
}

// numbered writes a source line with its line number
func (f *frame) numbered(number string, text string) {
	fmt.Fprintf(&f.b, "%s %s %s\n", number, f.dim("│"), text)
}

// FormatError renders err in the style of rustc. Source lines around the
// position are shown only when the position falls inside the file.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	width := lineNumberWidth(err.Position.Line)
	f := &frame{
		indent: strings.Repeat(" ", width),
		dim:    color.New(color.Faint).SprintFunc(),
	}
	level := levelColor(err.Level)

	if err.Code != "" {
		fmt.Fprintf(&f.b, "%s[%s]: %s\n", level(string(err.Level)), err.Code, err.Message)
	} else {
		fmt.Fprintf(&f.b, "%s: %s\n", level(string(err.Level)), err.Message)
	}
	fmt.Fprintf(&f.b, "%s %s %s:%d:%d\n", f.indent, f.dim("-->"), er.filename, err.Position.Line, err.Position.Column)
	f.rule("")

	if line := err.Position.Line; line > 0 && line <= len(er.lines) {
		number := func(n int) string { return fmt.Sprintf("%*d", width, n) }
		if line > 1 {
			f.numbered(f.dim(number(line-1)), er.lines[line-2])
		}
		f.numbered(color.New(color.Bold).Sprint(number(line)), er.lines[line-1])
		f.rule(underline(err.Position.Column, err.Length, err.Level))
		if line < len(er.lines) {
			f.numbered(f.dim(number(line+1)), er.lines[line])
		}
	}

	if len(err.Suggestions) > 0 {
		f.rule("")
	}
	for i, s := range err.Suggestions {
		lead := suggestionStyle.Sprint("help") + " " + suggestionStyle.Sprint("try") + ":"
		if i > 0 {
			lead = suggestionStyle.Sprint("    ")
		}
		fmt.Fprintf(&f.b, "%s %s %s\n", f.indent, lead, s.Message)

		if s.Replacement != "" {
			f.rule("")
			cont := fmt.Sprintf("\n%s %s ", f.indent, f.dim("│"))
			fmt.Fprintf(&f.b, "%s %s %s\n", f.indent, suggestionStyle.Sprint("│"),
				suggestionStyle.Sprint(strings.ReplaceAll(s.Replacement, "\n", cont)))
		}
	}

	for _, note := range err.Notes {
		f.rule(noteStyle.Sprint("note:") + " " + note)
	}
	if err.HelpText != "" {
		f.rule(helpStyle.Sprint("help:") + " " + err.HelpText)
	}

	f.b.WriteString("\n")
	return f.b.String()
}

// levelColor returns the colour function for a level; unknown levels render
// as errors
func levelColor(level ErrorLevel) func(...any) string {
	if c, ok := levelStyles[level]; ok {
		return c.SprintFunc()
	}
	return levelStyles[Error].SprintFunc()
}

// underline returns the caret marker under a 1-based column. Lengths below
// one still mark a single character.
func underline(column, length int, level ErrorLevel) string {
	style := levelStyles[Error]
	if level == Warning {
		style = levelStyles[Warning]
	}
	return strings.Repeat(" ", max(0, column-1)) + style.Sprint(strings.Repeat("^", max(length, 1)))
}

// lineNumberWidth is the gutter width: the digits of line, at least three
func lineNumberWidth(line int) int {
	return max(len(strconv.Itoa(line)), 3)
}
