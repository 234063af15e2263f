package errors

// Error codes for weld diagnostics
// These codes are used in error messages and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// U0001-U0099: Unification errors
// R0001-R0099: Pattern-rule file errors
// W0001-W0099: Warning codes

const (
	// U0001: No catalog entry pairs the front callee with the native function
	ErrorNoPatternMatch = "U0001"

	// U0002: The nodes are not a front call and a native function definition
	ErrorIncompatibleNodes = "U0002"

	// U0003: Front construct the unifier cannot translate
	ErrorUnsupportedFront = "U0003"

	// U0004: Native construct the unifier cannot translate
	ErrorUnsupportedNative = "U0004"

	// R0001: Pattern-rule file does not parse
	ErrorRuleSyntax = "R0001"

	// R0002: Unknown or malformed result rule
	ErrorRuleBadResult = "R0002"

	// R0003: Two rules share a name
	ErrorRuleDuplicateName = "R0003"

	// R0004: Rule pairs callees that another entry already handles
	ErrorRuleConflict = "R0004"

	// W0001: Front call left as a plain call because no native function completes a pattern
	WarningUnpairedCall = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorNoPatternMatch:
		return "No known pattern pairs the front-end call with the native function"
	case ErrorIncompatibleNodes:
		return "Only a front-end call can be unified with a native function definition"
	case ErrorUnsupportedFront:
		return "Front-end construct is not supported by the unifier"
	case ErrorUnsupportedNative:
		return "Native construct is not supported by the unifier"
	case ErrorRuleSyntax:
		return "Pattern rule does not follow the rule syntax"
	case ErrorRuleBadResult:
		return "Pattern rule names an unknown result"
	case ErrorRuleDuplicateName:
		return "Pattern rule name is already taken"
	case ErrorRuleConflict:
		return "Pattern rule pairs callees that are already handled"
	case WarningUnpairedCall:
		return "Call has no native counterpart and is kept as written"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	if code == "" {
		return "Unknown"
	}
	switch code[0] {
	case 'U':
		return "Unification"
	case 'R':
		return "Pattern Rules"
	case 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
