package errors

import (
	"fmt"
	"strings"

	"weld/internal/catalog"
	"weld/internal/hir"
)

// PatternDocs is where custom pattern rules are documented
const PatternDocs = "docs/patterns.md"

// maxListedSuggestions caps the suggestions printed by UnificationError.Error
const maxListedSuggestions = 5

type Kind uint8

const (
	KindNoPatternMatch Kind = iota
	KindIncompatibleNodes
	KindUnsupportedFront
	KindUnsupportedNative
)

func (k Kind) String() string {
	switch k {
	case KindNoPatternMatch:
		return "NoPatternMatch"
	case KindIncompatibleNodes:
		return "IncompatibleNodes"
	case KindUnsupportedFront:
		return "UnsupportedFront"
	case KindUnsupportedNative:
		return "UnsupportedNative"
	}
	return "?"
}

// UnificationError explains why a front node and a native node were not
// unified. Which fields are set depends on Kind.
type UnificationError struct {
	Kind Kind

	// KindNoPatternMatch
	FrontFn     string
	NativeFn    string
	Suggestions []catalog.Entry

	// KindIncompatibleNodes
	FrontKind  string
	NativeKind string

	// KindUnsupportedFront, KindUnsupportedNative
	NodeKind string

	// Where the front node came from, if known
	Location *hir.SourceLocation
}

// NoPatternMatch reports a call/function pair the catalog does not know
func NoPatternMatch(frontFn, nativeFn string, suggestions []catalog.Entry) *UnificationError {
	return &UnificationError{Kind: KindNoPatternMatch, FrontFn: frontFn, NativeFn: nativeFn, Suggestions: suggestions}
}

func IncompatibleNodes(frontKind, nativeKind string) *UnificationError {
	return &UnificationError{Kind: KindIncompatibleNodes, FrontKind: frontKind, NativeKind: nativeKind}
}

func UnsupportedFront(nodeKind string) *UnificationError {
	return &UnificationError{Kind: KindUnsupportedFront, NodeKind: nodeKind}
}

func UnsupportedNative(nodeKind string) *UnificationError {
	return &UnificationError{Kind: KindUnsupportedNative, NodeKind: nodeKind}
}

// At attaches the source location of the front node
func (e *UnificationError) At(loc *hir.SourceLocation) *UnificationError {
	e.Location = loc
	return e
}

// Code returns the diagnostic code for the error kind
func (e *UnificationError) Code() string {
	switch e.Kind {
	case KindNoPatternMatch:
		return ErrorNoPatternMatch
	case KindIncompatibleNodes:
		return ErrorIncompatibleNodes
	case KindUnsupportedFront:
		return ErrorUnsupportedFront
	case KindUnsupportedNative:
		return ErrorUnsupportedNative
	}
	return ""
}

// Headline is the first line of Error, without decoration
func (e *UnificationError) Headline() string {
	switch e.Kind {
	case KindNoPatternMatch:
		return fmt.Sprintf("Cannot match %s function '%s' with %s function '%s'", hir.Front, e.FrontFn, hir.Native, e.NativeFn)
	case KindIncompatibleNodes:
		return fmt.Sprintf("Cannot unify incompatible node types: %s %s with %s %s", hir.Front, e.FrontKind, hir.Native, e.NativeKind)
	case KindUnsupportedFront:
		return fmt.Sprintf("Unsupported %s HIR node: %s", hir.Front, e.NodeKind)
	case KindUnsupportedNative:
		return fmt.Sprintf("Unsupported %s HIR node: %s", hir.Native, e.NodeKind)
	}
	return "unification failed"
}

func (e *UnificationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Headline())
	b.WriteString("\n\n")

	switch e.Kind {
	case KindNoPatternMatch:
		b.WriteString("weld tried to unify:\n")
		fmt.Fprintf(&b, "  %-7s %s()\n", hir.Front.String()+":", e.FrontFn)
		fmt.Fprintf(&b, "  %-7s %s()\n", hir.Native.String()+":", e.NativeFn)
		b.WriteString("\nNo known pattern matches this combination.\n\n")

		if len(e.Suggestions) > 0 {
			b.WriteString("Supported patterns:\n")
			for i, s := range e.Suggestions[:min(maxListedSuggestions, len(e.Suggestions))] {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, suggestionText(s))
			}
			b.WriteString("\n")
		}

		b.WriteString("For custom patterns, see:\n")
		b.WriteString("   " + PatternDocs)
	case KindIncompatibleNodes:
		fmt.Fprintf(&b, "weld unifies a %s call with the %s function that implements it.\n", hir.Front, hir.Native)
		b.WriteString("   Ensure both nodes represent the same operation.")
	case KindUnsupportedFront:
		fmt.Fprintf(&b, "This %s construct is not yet supported by weld.\n", hir.Front)
		b.WriteString("   Supported: function calls to known operations.")
	case KindUnsupportedNative:
		fmt.Fprintf(&b, "This %s construct is not yet supported by weld.\n", hir.Native)
		b.WriteString("   Supported: function definitions.")
	}
	return b.String()
}

func suggestionText(s catalog.Entry) string {
	return fmt.Sprintf("%s() + %s() → %s()", s.FrontCallee, s.NativeCallee, s.TargetCallee)
}

// ToCompilerError converts the error for the coloured reporter
func (e *UnificationError) ToCompilerError() CompilerError {
	builder := NewDiagnostic(e.Code(), e.Headline(), PositionOf(e.Location))

	switch e.Kind {
	case KindNoPatternMatch:
		builder = builder.WithLength(len(e.FrontFn))
		for _, s := range e.Suggestions[:min(maxListedSuggestions, len(e.Suggestions))] {
			builder = builder.WithSuggestion(suggestionText(s))
		}
		builder = builder.WithNote("no known pattern matches this combination").
			WithHelp("for custom patterns, see " + PatternDocs)
	case KindIncompatibleNodes:
		builder = builder.WithNote(fmt.Sprintf("only a %s call can be unified with a %s function", hir.Front, hir.Native))
	case KindUnsupportedFront:
		builder = builder.WithHelp("supported: function calls to known operations")
	case KindUnsupportedNative:
		builder = builder.WithHelp("supported: function definitions")
	}
	return builder.Build()
}

// FrontFnName names a front node for diagnostics. It never fails: a call
// through a computed callee is "<complex expression>" and shapes without a
// name give their kind.
func FrontFnName(node hir.FrontNode) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *hir.FrontCall:
		if name, ok := n.CalleeName(); ok {
			return name
		}
		return "<complex expression>"
	case *hir.FrontVariable:
		return n.Name
	case *hir.FrontFunction:
		return n.Name
	}
	return node.Kind()
}

// NativeFnName names a native node for diagnostics
func NativeFnName(node hir.NativeNode) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case *hir.NativeFunction:
		return n.Name
	}
	return node.Kind()
}
