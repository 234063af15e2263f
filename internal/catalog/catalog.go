package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/commonlog"

	"weld/internal/hir"
)

var log = commonlog.GetLogger("weld.catalog")

// Entry is one recognised pairing of a front-end callee with the native
// function that implements it, and what it becomes in the target language.
type Entry struct {
	Pattern      hir.UnificationPattern
	Name         string
	FrontCallee  string
	NativeCallee string
	TargetCallee string
	Result       ResultRule
}

func (e Entry) String() string {
	return fmt.Sprintf("%s + %s → %s", e.FrontCallee, e.NativeCallee, e.TargetCallee)
}

// builtins in the order they are listed and suggested
var builtins = []Entry{
	{hir.PatternLen, "Len", "len", "list_length", "Vec::len", Usize()},
	{hir.PatternAppend, "Append", "append", "PyList_Append", "Vec::push", Unit()},
	{hir.PatternDictGet, "DictGet", "get", "PyDict_GetItem", "HashMap::get", Option()},
	{hir.PatternReverse, "Reverse", "reverse", "list_reverse", "Vec::reverse", Unit()},
	{hir.PatternClear, "Clear", "clear", "list_clear", "Vec::clear", Unit()},
	{hir.PatternPop, "Pop", "pop", "list_pop", "Vec::pop", Option()},
	{hir.PatternInsert, "Insert", "insert", "list_insert", "Vec::insert", Unit()},
	{hir.PatternExtend, "Extend", "extend", "list_extend", "Vec::extend", Unit()},
	{hir.PatternDictPop, "DictPop", "dict_pop", "PyDict_DelItem", "HashMap::remove", Option()},
	{hir.PatternDictClear, "DictClear", "dict_clear", "PyDict_Clear", "HashMap::clear", Unit()},
	{hir.PatternDictKeys, "DictKeys", "keys", "PyDict_Keys", "HashMap::keys", Custom("Keys")},
}

// fallbackSuggestions is how many entries FindSimilar offers when nothing
// resembles the query
const fallbackSuggestions = 3

// Catalog is an ordered, read-mostly table of entries. Reads are safe for
// concurrent use once registration is finished.
type Catalog struct {
	entries []Entry
}

// Default returns a catalog holding the built-in entries
func Default() *Catalog {
	return New(builtins...)
}

// New returns a catalog holding exactly entries, in order
func New(entries ...Entry) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// All returns a copy of the entries in catalog order
func (c *Catalog) All() []Entry {
	return slices.Clone(c.entries)
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup finds the entry whose front and native callees equal the given names
// exactly (case-sensitive).
func (c *Catalog) Lookup(front, native string) (Entry, bool) {
	for _, e := range c.entries {
		if e.FrontCallee == front && e.NativeCallee == native {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupFront returns the entries whose front callee is exactly front
func (c *Catalog) LookupFront(front string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.FrontCallee == front {
			out = append(out, e)
		}
	}
	return out
}

// FindSimilar returns entries whose front callee resembles front, then entries
// whose native callee resembles native. Two names resemble each other when one
// contains the other; an empty query resembles nothing. Without any
// resemblance the first few entries are offered instead. The result holds one
// entry per front callee, sorted by front callee.
func (c *Catalog) FindSimilar(front, native string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if resembles(e.FrontCallee, front) {
			out = append(out, e)
		}
	}
	for _, e := range c.entries {
		if resembles(e.NativeCallee, native) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		out = append(out, c.entries[:min(fallbackSuggestions, len(c.entries))]...)
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		return strings.Compare(a.FrontCallee, b.FrontCallee)
	})
	return slices.CompactFunc(out, func(a, b Entry) bool {
		return a.FrontCallee == b.FrontCallee
	})
}

func resembles(known, query string) bool {
	if known == "" || query == "" {
		return false
	}
	return strings.Contains(known, query) || strings.Contains(query, known)
}

// Register appends an extension entry. Extension entries always carry
// PatternCustom. The (front, native) pair must not already be known.
func (c *Catalog) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("pattern entry needs a name")
	}
	if e.FrontCallee == "" || e.NativeCallee == "" || e.TargetCallee == "" {
		return fmt.Errorf("pattern %q: front, native and target callees are required", e.Name)
	}
	if existing, ok := c.Lookup(e.FrontCallee, e.NativeCallee); ok {
		return fmt.Errorf("pattern %q: %s + %s is already handled by %q", e.Name, e.FrontCallee, e.NativeCallee, existing.Name)
	}
	e.Pattern = hir.PatternCustom
	c.entries = append(c.entries, e)
	log.Debugf("registered pattern %s: %s", e.Name, e)
	return nil
}
