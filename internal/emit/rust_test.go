package emit

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/catalog"
	"weld/internal/hir"
	"weld/internal/irio"
	"weld/internal/optimize"
	"weld/internal/types"
	"weld/internal/unify"
)

// unifyCall runs front(args...) against the native function through the
// unifier and the standard pipeline
func unifyCall(t *testing.T, front, native string, args ...string) hir.UnifiedNode {
	t.Helper()
	call := &hir.FrontCall{ID: 1, Callee: &hir.FrontVariable{ID: 2, Name: front}}
	for i, a := range args {
		call.Args = append(call.Args, &hir.FrontVariable{ID: hir.NodeID(10 + i), Name: a, InferredType: &types.Unknown{}})
	}
	fn := &hir.NativeFunction{ID: 100, Name: native}

	unified, err := unify.New(nil).Unify(call, fn)
	require.NoError(t, err)
	optimized, err := optimize.Standard().Run(unified)
	require.NoError(t, err)
	return optimized
}

func TestEmitKeepsArgumentNames(t *testing.T) {
	tests := []struct {
		front, native string
		args          []string
		want          string
	}{
		{"len", "list_length", []string{"item_list"}, "item_list.len()"},
		{"append", "PyList_Append", []string{"shopping_cart", "item"}, "shopping_cart.push(item)"},
		{"reverse", "list_reverse", []string{"request_stack"}, "request_stack.reverse()"},
		{"clear", "list_clear", []string{"temp_buffer"}, "temp_buffer.clear()"},
		{"pop", "list_pop", []string{"undo_stack"}, "undo_stack.pop()"},
		{"get", "PyDict_GetItem", []string{"config_map", "key"}, "config_map.get(&key)"},
		{"dict_pop", "PyDict_DelItem", []string{"sessions", "sid"}, "sessions.remove(&sid)"},
		{"keys", "PyDict_Keys", []string{"cache"}, "cache.keys()"},
	}

	for _, tt := range tests {
		t.Run(tt.front, func(t *testing.T) {
			out, err := NewRust().Emit(unifyCall(t, tt.front, tt.native, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.NotContains(t, out, "unsafe")
		})
	}
}

func TestEmitRequiresEliminatedBoundary(t *testing.T) {
	call := &hir.FrontCall{
		ID:     1,
		Callee: &hir.FrontVariable{ID: 2, Name: "len"},
		Args:   []hir.FrontNode{&hir.FrontVariable{ID: 3, Name: "items"}},
	}
	unified, err := unify.New(nil).Unify(call, &hir.NativeFunction{ID: 4, Name: "list_length"})
	require.NoError(t, err)

	_, err = NewRust().Emit(unified)
	require.ErrorIs(t, err, ErrBoundaryPresent)
	assert.Contains(t, err.Error(), "Vec::len")
}

func TestEmitPlainCalls(t *testing.T) {
	call := &hir.UnifiedCall{
		ID:     1,
		Target: hir.Front,
		Callee: "print",
		Args: []hir.UnifiedNode{
			&hir.UnifiedBinOp{
				ID: 2,
				Op: hir.OpMul,
				Left: &hir.UnifiedBinOp{
					ID:    3,
					Op:    hir.OpAdd,
					Left:  &hir.UnifiedVariable{ID: 4, Name: "a"},
					Right: &hir.UnifiedLiteral{ID: 5, Value: hir.IntLit(1)},
				},
				Right: &hir.UnifiedVariable{ID: 6, Name: "b"},
			},
			&hir.UnifiedAssign{ID: 7, Target: "sep", Value: &hir.UnifiedLiteral{ID: 8, Value: hir.StrLit(",")}},
		},
	}

	out, err := NewRust().Emit(call)
	require.NoError(t, err)
	assert.Equal(t, `print((a + 1) * b, /* sep = */ ",")`, out)
}

func TestEmitModule(t *testing.T) {
	usize := types.Usize()
	n := func(id hir.NodeID) hir.UnifiedNode { return &hir.UnifiedVariable{ID: id, Name: "n", Type: usize} }
	total := func(id hir.NodeID) hir.UnifiedNode { return &hir.UnifiedVariable{ID: id, Name: "total"} }
	items := func(id hir.NodeID) hir.UnifiedNode { return &hir.UnifiedVariable{ID: id, Name: "items"} }
	lit := func(id hir.NodeID, v int64) hir.UnifiedNode { return &hir.UnifiedLiteral{ID: id, Value: hir.IntLit(v)} }
	mapped := func(front, native hir.NodeID, pattern hir.UnificationPattern) *hir.CrossMapping {
		return hir.NewCrossMapping(front, native, pattern).Eliminated()
	}

	mod := &hir.UnifiedModule{
		Name: "count",
		Decls: []hir.UnifiedNode{
			&hir.UnifiedFunction{
				ID:         1,
				Name:       "count",
				Params:     []hir.UnifiedParameter{{Name: "items", Type: &types.DynList{Elem: &types.DynPrimitive{Kind: types.DynInt}}, Origin: hir.Front}},
				ReturnType: &types.DynPrimitive{Kind: types.DynInt},
				Visibility: hir.Public,
				Origin:     hir.Front,
				Meta:       hir.NewMetadata().WithDocs("Counts items."),
				Body: []hir.UnifiedNode{
					&hir.UnifiedAssign{ID: 2, Target: "n", Type: usize, Value: &hir.UnifiedCall{
						ID: 3, Target: hir.Target, Callee: "Vec::len", Args: []hir.UnifiedNode{items(4)},
						InferredType: usize, Mapping: mapped(50, 60, hir.PatternLen),
					}},
					&hir.UnifiedAssign{ID: 5, Target: "total", Type: &types.TargetInt{Bits: types.IntSize64, Signed: true}, Value: lit(6, 0)},
					&hir.UnifiedIf{
						ID:        7,
						Condition: &hir.UnifiedBinOp{ID: 8, Op: hir.OpGt, Left: n(9), Right: lit(10, 0)},
						Then: []hir.UnifiedNode{&hir.UnifiedCall{
							ID: 11, Target: hir.Target, Callee: "Vec::push", Args: []hir.UnifiedNode{items(12), n(13)},
							InferredType: types.Unit(), Mapping: mapped(51, 61, hir.PatternAppend),
						}},
						Else: []hir.UnifiedNode{&hir.UnifiedIf{
							ID:        14,
							Condition: &hir.UnifiedBinOp{ID: 15, Op: hir.OpEq, Left: n(16), Right: lit(17, 0)},
							Then: []hir.UnifiedNode{&hir.UnifiedCall{
								ID: 18, Target: hir.Front, Callee: "print",
								Args: []hir.UnifiedNode{
									&hir.UnifiedLiteral{ID: 19, Value: hir.StrLit("done")},
									&hir.UnifiedAssign{ID: 20, Target: "end", Value: &hir.UnifiedLiteral{ID: 21, Value: hir.StrLit("")}},
								},
							}},
							Else: []hir.UnifiedNode{&hir.UnifiedReturn{ID: 22}},
						}},
					},
					&hir.UnifiedLoop{
						ID:   23,
						Loop: hir.ForLoop{Target: "x", Iterable: items(24)},
						Body: []hir.UnifiedNode{&hir.UnifiedAssign{
							ID: 25, Target: "total",
							Value: &hir.UnifiedBinOp{ID: 26, Op: hir.OpAdd, Left: total(27), Right: &hir.UnifiedVariable{ID: 28, Name: "x"}},
						}},
					},
					&hir.UnifiedLoop{
						ID:   29,
						Loop: hir.WhileLoop{Condition: &hir.UnifiedBinOp{ID: 30, Op: hir.OpGt, Left: total(31), Right: lit(32, 100)}},
						Body: []hir.UnifiedNode{&hir.UnifiedAssign{
							ID: 33, Target: "total",
							Value: &hir.UnifiedBinOp{ID: 34, Op: hir.OpSub, Left: total(35), Right: lit(36, 1)},
						}},
					},
					&hir.UnifiedLoop{
						ID:   37,
						Loop: hir.WhileLoop{Condition: &hir.UnifiedLiteral{ID: 38, Value: hir.BoolLit(true)}},
						Body: []hir.UnifiedNode{&hir.UnifiedReturn{ID: 39, Value: total(40)}},
					},
				},
			},
			&hir.UnifiedFunction{
				ID:         41,
				Name:       "helper",
				Visibility: hir.Private,
				Body:       []hir.UnifiedNode{&hir.UnifiedReturn{ID: 42}},
			},
		},
	}

	out, err := NewRust().Emit(mod)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "count_module", []byte(out))
}

func TestEmitExampleProject(t *testing.T) {
	cat := catalog.Default()
	_, err := cat.LoadRules("../../examples/collections.patterns")
	require.NoError(t, err)

	dec := irio.NewDecoder(nil)
	front, err := dec.LoadFront("../../examples/cart.py.yaml")
	require.NoError(t, err)
	tu, err := dec.LoadNative("../../examples/runtime.c.yaml")
	require.NoError(t, err)

	u := unify.New(cat)
	mod, err := u.UnifyModule(front, tu)
	require.NoError(t, err)
	assert.Empty(t, u.Warnings())

	optimized, err := optimize.Extended().Run(mod)
	require.NoError(t, err)

	out, err := NewRust().Emit(optimized)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "cart_module", []byte(out))
}

func TestEmitIndent(t *testing.T) {
	fn := &hir.UnifiedFunction{ID: 1, Name: "f", Body: []hir.UnifiedNode{&hir.UnifiedReturn{ID: 2}}}
	out, err := (&Rust{Indent: "\t"}).Emit(fn)
	require.NoError(t, err)
	assert.Equal(t, "pub fn f() {\n\treturn;\n}\n", out)
}

func TestEmitErrors(t *testing.T) {
	_, err := NewRust().Emit(nil)
	require.Error(t, err)

	_, err = NewRust().Emit(&hir.UnifiedLoop{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no loop kind")

	bad := &hir.UnifiedReturn{ID: 1, Value: &hir.UnifiedReturn{ID: 2}}
	_, err = NewRust().Emit(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot emit Return #2 as an expression")
}

func TestRustType(t *testing.T) {
	tests := []struct {
		in   types.Type
		want string
	}{
		{nil, "_"},
		{&types.Unknown{}, "_"},
		{&types.DynPrimitive{Kind: types.DynStr}, "String"},
		{&types.DynDict{Key: &types.DynPrimitive{Kind: types.DynStr}, Value: &types.DynList{Elem: &types.DynPrimitive{Kind: types.DynFloat}}}, "HashMap<String, Vec<f64>>"},
		{&types.DynSet{Elem: &types.DynPrimitive{Kind: types.DynBool}}, "HashSet<bool>"},
		{&types.DynTuple{Elems: []types.Type{&types.DynPrimitive{Kind: types.DynInt}, &types.DynNone{}}}, "(i64, ())"},
		{&types.DynClass{Name: "Point"}, "Point"},
		{types.OptionOf(types.Usize()), "Option<usize>"},
		{types.OptionOf(&types.Unknown{}), "Option<_>"},
		{&types.TargetRef{Inner: &types.TargetString{}}, "&String"},
		{&types.TargetRef{Mutable: true, Inner: &types.TargetVec{Elem: &types.TargetInt{Bits: types.IntSize32}}}, "&mut Vec<u32>"},
		{&types.RuntimeType{Kind: types.RuntimeObject}, "_"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rustType(tt.in))
	}
}
