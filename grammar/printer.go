package grammar

import (
	"fmt"
	"strings"
)

func (f *RuleFile) String() string {
	var b strings.Builder
	for _, e := range f.Elements {
		switch {
		case e.Comment != nil:
			b.WriteString(e.Comment.String() + "\n")
		case e.Rule != nil:
			b.WriteString(e.Rule.String() + "\n")
		}
	}
	return b.String()
}

func (c *Comment) String() string {
	return c.Text
}

func (r *Rule) String() string {
	return fmt.Sprintf("pattern %s: %s + %s -> %s : %s;",
		r.Name.Value, r.Front.Value, r.Native.Value, r.Target, r.Result)
}

func (p *Path) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, len(p.Parts))
	for i, part := range p.Parts {
		parts[i] = part.Value
	}
	return strings.Join(parts, "::")
}

func (r *Result) String() string {
	if r == nil {
		return ""
	}
	if r.Custom != nil {
		return fmt.Sprintf("%s(%s)", r.Kind.Value, r.Custom)
	}
	return r.Kind.Value
}
