package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"weld/grammar"
	"weld/internal/catalog"
	"weld/internal/errors"
)

const diagnosticSource = "weld-patterns"

// Diagnose parses src as a pattern-rule file and checks its rules against
// base. A file that does not parse yields a single syntax diagnostic.
func Diagnose(filename, src string, base *catalog.Catalog) (*grammar.RuleFile, []protocol.Diagnostic) {
	file, err := grammar.ParseString(filename, src)
	if err != nil {
		return nil, []protocol.Diagnostic{ConvertCompilerError(errors.RuleSyntax(filename, err))}
	}

	_, ruleErrs := base.Compile(file)
	diagnostics := make([]protocol.Diagnostic, 0, len(ruleErrs))
	for _, re := range ruleErrs {
		diagnostics = append(diagnostics, ConvertCompilerError(errors.FromRuleError(re)))
	}
	return file, diagnostics
}

// ConvertCompilerError turns a diagnostic into its LSP form. Suggestions,
// notes and help are appended to the message, one per line.
func ConvertCompilerError(ce errors.CompilerError) protocol.Diagnostic {
	line := max(ce.Position.Line-1, 0)
	col := max(ce.Position.Column-1, 0)
	length := max(ce.Length, 1)

	var msg strings.Builder
	msg.WriteString(ce.Message)
	for _, s := range ce.Suggestions {
		msg.WriteString("\nsuggestion: " + s.Message)
	}
	for _, n := range ce.Notes {
		msg.WriteString("\nnote: " + n)
	}
	if ce.HelpText != "" {
		msg.WriteString("\nhelp: " + ce.HelpText)
	}

	severity := protocol.DiagnosticSeverityError
	if ce.Level == errors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + length)},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: ce.Code},
		Source:   ptrString(diagnosticSource),
		Message:  msg.String(),
	}
}

func ptrString(s string) *string {
	return &s
}
