package catalog

import (
	"fmt"

	"weld/internal/types"
)

// ResultKind says how the target type of a unified call is derived
type ResultKind uint8

const (
	ResultUsize ResultKind = iota
	ResultUnit
	ResultOption
	ResultBool
	ResultCustom
)

// ResultRule produces the inferred type of a unified call.
// Name is only set for ResultCustom.
type ResultRule struct {
	Kind ResultKind
	Name string
}

func Usize() ResultRule            { return ResultRule{Kind: ResultUsize} }
func Unit() ResultRule             { return ResultRule{Kind: ResultUnit} }
func Option() ResultRule           { return ResultRule{Kind: ResultOption} }
func Bool() ResultRule             { return ResultRule{Kind: ResultBool} }
func Custom(name string) ResultRule { return ResultRule{Kind: ResultCustom, Name: name} }

// Type returns the target type the rule stands for
func (r ResultRule) Type() types.Type {
	switch r.Kind {
	case ResultUsize:
		return types.Usize()
	case ResultUnit:
		return types.Unit()
	case ResultOption:
		return types.OptionOf(&types.Unknown{})
	case ResultBool:
		return &types.TargetBool{}
	case ResultCustom:
		return types.Named(r.Name)
	}
	return &types.Unknown{}
}

func (r ResultRule) String() string {
	switch r.Kind {
	case ResultUsize:
		return "usize"
	case ResultUnit:
		return "unit"
	case ResultOption:
		return "option"
	case ResultBool:
		return "bool"
	case ResultCustom:
		return fmt.Sprintf("custom(%s)", r.Name)
	}
	return "?"
}

// ResultKinds are the result spellings a rule file accepts
var ResultKinds = []string{"usize", "unit", "option", "bool", "custom"}

// ParseResult builds a rule from its rule-file spelling. custom is the
// parenthesised name and must be set exactly when kind is "custom".
func ParseResult(kind, custom string) (ResultRule, error) {
	if kind != "custom" && custom != "" {
		return ResultRule{}, fmt.Errorf("result %q takes no argument", kind)
	}
	switch kind {
	case "usize":
		return Usize(), nil
	case "unit":
		return Unit(), nil
	case "option":
		return Option(), nil
	case "bool":
		return Bool(), nil
	case "custom":
		if custom == "" {
			return ResultRule{}, fmt.Errorf("custom result needs a type name, e.g. custom(Keys)")
		}
		return Custom(custom), nil
	}
	return ResultRule{}, fmt.Errorf("unknown result %q, expected usize, unit, option, bool or custom(Name)", kind)
}
