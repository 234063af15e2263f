package catalog

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2/lexer"

	"weld/grammar"
)

type RuleErrorKind uint8

const (
	RuleBadResult RuleErrorKind = iota
	RuleDuplicateName
	RuleConflict
)

// RuleError is a problem with one rule of a pattern-rule file. Subject is
// the offending spelling: the result kind, the rule name or "front + native".
type RuleError struct {
	Kind    RuleErrorKind
	Pos     lexer.Position
	Length  int
	Subject string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Compile turns a parsed rule file into entries. Every rule is checked; the
// entries of invalid rules are left out and reported as errors. Conflicts
// with c (and between rules of the same file) are reported as well.
func (c *Catalog) Compile(file *grammar.RuleFile) ([]Entry, []*RuleError) {
	var entries []Entry
	var errs []*RuleError

	seenNames := map[string]bool{}
	seenPairs := map[[2]string]string{}
	for _, e := range c.entries {
		seenPairs[[2]string{e.FrontCallee, e.NativeCallee}] = e.Name
	}

	for _, r := range file.Rules() {
		custom := ""
		if r.Result.Custom != nil {
			custom = r.Result.Custom.String()
		}
		result, err := ParseResult(r.Result.Kind.Value, custom)
		if err != nil {
			errs = append(errs, &RuleError{
				Kind:    RuleBadResult,
				Pos:     r.Result.Pos,
				Length:  len(r.Result.String()),
				Subject: r.Result.Kind.Value,
				Message: err.Error(),
			})
			continue
		}

		name := r.Name.Value
		if seenNames[name] {
			errs = append(errs, &RuleError{
				Kind:    RuleDuplicateName,
				Pos:     r.Name.Pos,
				Length:  len(name),
				Subject: name,
				Message: fmt.Sprintf("pattern %q is defined twice", name),
			})
			continue
		}
		seenNames[name] = true

		pair := [2]string{r.Front.Value, r.Native.Value}
		if owner, taken := seenPairs[pair]; taken {
			errs = append(errs, &RuleError{
				Kind:    RuleConflict,
				Pos:     r.Front.Pos,
				Length:  r.Native.EndPos.Offset - r.Front.Pos.Offset,
				Subject: pair[0] + " + " + pair[1],
				Message: fmt.Sprintf("%s + %s is already handled by %q", pair[0], pair[1], owner),
			})
			continue
		}
		seenPairs[pair] = name

		entries = append(entries, Entry{
			Name:         name,
			FrontCallee:  r.Front.Value,
			NativeCallee: r.Native.Value,
			TargetCallee: r.Target.String(),
			Result:       result,
		})
	}
	return entries, errs
}

// ParseRules parses src as a pattern-rule file and registers its entries.
// Nothing is registered when any rule is invalid.
func (c *Catalog) ParseRules(name, src string) (int, error) {
	file, err := grammar.ParseString(name, src)
	if err != nil {
		return 0, fmt.Errorf("failed to parse pattern rules: %w", err)
	}
	entries, errs := c.Compile(file)
	if len(errs) > 0 {
		return 0, errs[0]
	}
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			return 0, err
		}
	}
	log.Infof("loaded %d pattern rules from %s", len(entries), name)
	return len(entries), nil
}

// LoadRules reads a pattern-rule file and registers its entries
func (c *Catalog) LoadRules(path string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read pattern rules: %w", err)
	}
	return c.ParseRules(path, string(src))
}
