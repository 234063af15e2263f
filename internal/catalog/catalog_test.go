package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/grammar"
	"weld/internal/hir"
	"weld/internal/types"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	all := c.All()
	require.Len(t, all, 11)

	assert.Equal(t, "len", all[0].FrontCallee)
	assert.Equal(t, "list_length", all[0].NativeCallee)
	assert.Equal(t, "Vec::len", all[0].TargetCallee)
	assert.Equal(t, hir.PatternDictKeys, all[10].Pattern)

	// All returns a copy
	all[0].FrontCallee = "changed"
	assert.Equal(t, "len", c.All()[0].FrontCallee)
}

func TestLookupIsExact(t *testing.T) {
	c := Default()

	e, ok := c.Lookup("len", "list_length")
	require.True(t, ok)
	assert.Equal(t, hir.PatternLen, e.Pattern)
	assert.True(t, types.Identical(types.Usize(), e.Result.Type()))

	e, ok = c.Lookup("get", "PyDict_GetItem")
	require.True(t, ok)
	assert.Equal(t, "Option<?>", e.Result.Type().String())

	e, ok = c.Lookup("keys", "PyDict_Keys")
	require.True(t, ok)
	assert.Equal(t, "Keys", e.Result.Type().String())

	for _, pair := range [][2]string{
		{"Len", "list_length"},
		{"len", "List_Length"},
		{"len", "PyList_Append"},
		{"len ", "list_length"},
		{"", ""},
	} {
		_, ok := c.Lookup(pair[0], pair[1])
		assert.False(t, ok, "%q + %q", pair[0], pair[1])
	}
}

func TestEveryBuiltinIsFoundByItsOwnPair(t *testing.T) {
	c := Default()
	for _, want := range c.All() {
		got, ok := c.Lookup(want.FrontCallee, want.NativeCallee)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func frontCallees(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.FrontCallee
	}
	return out
}

func TestFindSimilar(t *testing.T) {
	c := Default()

	t.Run("exact pair", func(t *testing.T) {
		got := c.FindSimilar("len", "list_length")
		require.NotEmpty(t, got)
		assert.Equal(t, "len", got[0].FrontCallee)
	})

	t.Run("partial native name", func(t *testing.T) {
		got := c.FindSimilar("append", "PyList")
		assert.Contains(t, frontCallees(got), "append")
	})

	t.Run("substring in both directions", func(t *testing.T) {
		// "pop" is contained in "dict_pop"; "list_pop_item" contains "list_pop"
		got := c.FindSimilar("pop", "list_pop_item")
		assert.Equal(t, []string{"dict_pop", "pop"}, frontCallees(got))
	})

	t.Run("no resemblance falls back to first three", func(t *testing.T) {
		got := c.FindSimilar("unknown_fn", "unknown_c_fn")
		assert.Equal(t, []string{"append", "get", "len"}, frontCallees(got))
	})

	t.Run("empty queries never match", func(t *testing.T) {
		got := c.FindSimilar("", "")
		assert.Len(t, got, 3)
	})

	t.Run("sorted and deduplicated", func(t *testing.T) {
		// clear is found on both sides but listed once
		got := c.FindSimilar("clear", "list_clear")
		assert.Equal(t, []string{"clear", "dict_clear"}, frontCallees(got))
	})
}

func TestRegister(t *testing.T) {
	c := Default()

	err := c.Register(Entry{Pattern: hir.PatternLen, Name: "set_add", FrontCallee: "add", NativeCallee: "PySet_Add", TargetCallee: "HashSet::insert", Result: Bool()})
	require.NoError(t, err)
	assert.Equal(t, 12, c.Len())

	e, ok := c.Lookup("add", "PySet_Add")
	require.True(t, ok)
	assert.Equal(t, hir.PatternCustom, e.Pattern)

	err = c.Register(Entry{Name: "my_len", FrontCallee: "len", NativeCallee: "list_length", TargetCallee: "Vec::len", Result: Usize()})
	assert.ErrorContains(t, err, `already handled by "Len"`)

	err = c.Register(Entry{FrontCallee: "a", NativeCallee: "b", TargetCallee: "c"})
	assert.Error(t, err)

	err = c.Register(Entry{Name: "half", FrontCallee: "a", TargetCallee: "c"})
	assert.Error(t, err)
	assert.Equal(t, 12, c.Len())

	// the default table is untouched
	assert.Equal(t, 11, Default().Len())
}

func TestParseResult(t *testing.T) {
	r, err := ParseResult("custom", "hash_map::Values")
	require.NoError(t, err)
	assert.Equal(t, "custom(hash_map::Values)", r.String())
	assert.Equal(t, "hash_map::Values", r.Type().String())

	_, err = ParseResult("custom", "")
	assert.Error(t, err)
	_, err = ParseResult("unit", "X")
	assert.Error(t, err)
	_, err = ParseResult("int", "")
	assert.Error(t, err)
}

func TestParseRules(t *testing.T) {
	c := Default()
	n, err := c.LoadRules("../../examples/collections.patterns")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 16, c.Len())

	e, ok := c.Lookup("values", "PyDict_Values")
	require.True(t, ok)
	assert.Equal(t, "dict_values", e.Name)
	assert.Equal(t, "HashMap::values", e.TargetCallee)
	assert.Equal(t, Custom("hash_map::Values"), e.Result)
}

func TestParseRulesIsAllOrNothing(t *testing.T) {
	c := Default()
	src := "pattern set_add: add + PySet_Add -> HashSet::insert : bool;\n" +
		"pattern shadow: len + list_length -> Vec::len : usize;\n"

	_, err := c.ParseRules("conflict.patterns", src)
	require.Error(t, err)

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, 2, ruleErr.Pos.Line)
	assert.Equal(t, 11, c.Len())
}

func TestCompileReportsEveryProblem(t *testing.T) {
	src := "pattern a: x + y -> z : usize;\n" +
		"pattern a: p + q -> r : unit;\n" +
		"pattern b: x + y -> z : unit;\n" +
		"pattern c: m + n -> o : maybe;\n" +
		"pattern d: m + n -> o : custom(Thing);\n"
	file, err := grammar.ParseString("problems.patterns", src)
	require.NoError(t, err)

	entries, errs := New().Compile(file)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "d", entries[1].Name)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Message, "defined twice")
	assert.Equal(t, 2, errs[0].Pos.Line)
	assert.Contains(t, errs[1].Message, `already handled by "a"`)
	assert.Contains(t, errs[2].Message, "unknown result")
	assert.Equal(t, 4, errs[2].Pos.Line)
}
