package grammar

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var ruleParser = participle.MustBuild[RuleFile](
	participle.Lexer(PatternLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

func ParseFile(path string) (*RuleFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses src; filename is only used in positions
func ParseString(filename, src string) (*RuleFile, error) {
	file, err := ruleParser.ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// FormatParseError renders a friendly caret-style parse error message
func FormatParseError(src string, err error) string {
	var pe participle.Error
	if !errors.As(err, &pe) {
		return color.RedString("Unexpected error: %s", err)
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return color.RedString("Syntax error at unknown location: %s", err)
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(pos.Column-1, 0)) + "^"

	var b strings.Builder
	b.WriteString(color.RedString("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column))
	b.WriteString("\n")
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(color.HiRedString(caret))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("→ %s\n", pe.Message()))
	return b.String()
}
