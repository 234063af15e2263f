package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/catalog"
	"weld/internal/errors"
	"weld/internal/hir"
	"weld/internal/types"
)

func frontCall(id hir.NodeID, callee string, args ...hir.FrontNode) *hir.FrontCall {
	return &hir.FrontCall{
		ID:     id,
		Callee: &hir.FrontVariable{ID: id + 1, Name: callee},
		Args:   args,
	}
}

func variable(id hir.NodeID, name string) *hir.FrontVariable {
	return &hir.FrontVariable{ID: id, Name: name}
}

func nativeFn(id hir.NodeID, name string) *hir.NativeFunction {
	return &hir.NativeFunction{ID: id, Name: name, ReturnType: &types.Unknown{}}
}

func requireUnificationError(t *testing.T, err error, kind errors.Kind) *errors.UnificationError {
	t.Helper()
	require.Error(t, err)
	var uerr *errors.UnificationError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, kind, uerr.Kind, uerr.Error())
	return uerr
}

func TestEveryCatalogEntryUnifies(t *testing.T) {
	for _, entry := range catalog.Default().All() {
		t.Run(entry.Name, func(t *testing.T) {
			u := New(nil)
			got, err := u.Unify(frontCall(100, entry.FrontCallee), nativeFn(200, entry.NativeCallee))
			require.NoError(t, err)

			call, ok := got.(*hir.UnifiedCall)
			require.True(t, ok, "got %T", got)
			assert.Equal(t, entry.TargetCallee, call.Callee)
			assert.Equal(t, hir.Target, call.Target)
			assert.Equal(t, hir.Front, call.Origin)
			assert.True(t, types.Identical(entry.Result.Type(), call.InferredType))

			require.NotNil(t, call.Mapping)
			assert.Equal(t, entry.Pattern, call.Mapping.Pattern)
			assert.False(t, call.Mapping.BoundaryEliminated)
			assert.Equal(t, hir.NodeID(100), *call.Mapping.FrontNode)
			assert.Equal(t, hir.NodeID(200), *call.Mapping.NativeNode)
		})
	}
}

func TestResultTypes(t *testing.T) {
	u := New(nil)
	cases := map[[2]string]string{
		{"len", "list_length"}:      "usize",
		{"append", "PyList_Append"}: "()",
		{"get", "PyDict_GetItem"}:   "Option<?>",
		{"keys", "PyDict_Keys"}:     "Keys",
	}
	for pair, want := range cases {
		got, err := u.Unify(frontCall(1, pair[0]), nativeFn(2, pair[1]))
		require.NoError(t, err)
		assert.Equal(t, want, got.(*hir.UnifiedCall).InferredType.String(), pair[0])
	}
}

func TestNoPatternMatch(t *testing.T) {
	u := New(nil)

	_, err := u.Unify(frontCall(1, "frobnicate"), nativeFn(2, "qux_impl"))
	uerr := requireUnificationError(t, err, errors.KindNoPatternMatch)
	assert.Equal(t, "frobnicate", uerr.FrontFn)
	assert.Equal(t, "qux_impl", uerr.NativeFn)
	assert.Len(t, uerr.Suggestions, 3)
	assert.Contains(t, uerr.Error(), "frobnicate()")
	assert.Contains(t, uerr.Error(), "qux_impl()")

	// both names exist, but not as a pair
	_, err = u.Unify(frontCall(1, "len"), nativeFn(2, "PyList_Append"))
	uerr = requireUnificationError(t, err, errors.KindNoPatternMatch)
	assert.NotEmpty(t, uerr.Suggestions)

	// matching is case-sensitive
	_, err = u.Unify(frontCall(1, "Len"), nativeFn(2, "list_length"))
	requireUnificationError(t, err, errors.KindNoPatternMatch)
}

func TestArgumentsArePreserved(t *testing.T) {
	u := New(nil)

	got, err := u.Unify(frontCall(1, "len", variable(10, "my_list")), nativeFn(2, "list_length"))
	require.NoError(t, err)

	call := got.(*hir.UnifiedCall)
	require.Len(t, call.Args, 1)
	arg, ok := call.Args[0].(*hir.UnifiedVariable)
	require.True(t, ok, "got %T", call.Args[0])
	assert.Equal(t, "my_list", arg.Name)
}

func TestArgumentShapes(t *testing.T) {
	u := New(nil)

	front := frontCall(1, "insert",
		variable(10, "xs"),
		&hir.FrontBinOp{ID: 11, Op: hir.OpAdd, Left: variable(12, "i"), Right: &hir.FrontLiteral{ID: 13, Value: hir.IntLit(1)}},
		frontCall(14, "make_item"),
		&hir.FrontAttribute{ID: 16, Value: variable(17, "self"), Attr: "item"},
	)
	front.Kwargs = []hir.Kwarg{{Name: "strict", Value: &hir.FrontLiteral{ID: 18, Value: hir.BoolLit(true)}}}

	got, err := u.Unify(front, nativeFn(2, "list_insert"))
	require.NoError(t, err)
	args := got.(*hir.UnifiedCall).Args
	require.Len(t, args, 5)

	bin := args[1].(*hir.UnifiedBinOp)
	assert.Equal(t, hir.OpAdd, bin.Op)
	assert.Equal(t, "i", bin.Left.(*hir.UnifiedVariable).Name)
	assert.Equal(t, hir.IntLit(1), bin.Right.(*hir.UnifiedLiteral).Value)

	// nested calls are not paired by Unify
	nested := args[2].(*hir.UnifiedCall)
	assert.Equal(t, "make_item", nested.Callee)
	assert.Equal(t, hir.Front, nested.Target)
	assert.Nil(t, nested.Mapping)

	assert.Equal(t, "self.item", args[3].(*hir.UnifiedVariable).Name)

	kw := args[4].(*hir.UnifiedAssign)
	assert.Equal(t, "strict", kw.Target)
	assert.Equal(t, hir.BoolLit(true), kw.Value.(*hir.UnifiedLiteral).Value)
	assert.Equal(t, "bool", kw.Type.String())
}

func TestIncompatibleNodes(t *testing.T) {
	u := New(nil)
	fn := nativeFn(2, "list_length")

	for _, lit := range []hir.LiteralValue{hir.IntLit(0), hir.IntLit(-7), hir.StrLit(""), hir.StrLit("len"), hir.BoolLit(false), hir.NoneLit(), hir.FloatLit(2.5)} {
		_, err := u.Unify(&hir.FrontLiteral{ID: 1, Value: lit}, fn)
		uerr := requireUnificationError(t, err, errors.KindIncompatibleNodes)
		assert.Equal(t, "Literal", uerr.FrontKind)
		assert.Equal(t, "Function", uerr.NativeKind)
	}

	_, err := u.Unify(frontCall(1, "len"), &hir.NativeStruct{ID: 3, Name: "PyListObject"})
	uerr := requireUnificationError(t, err, errors.KindIncompatibleNodes)
	assert.Equal(t, "Struct", uerr.NativeKind)

	_, err = u.Unify(nil, nil)
	uerr = requireUnificationError(t, err, errors.KindIncompatibleNodes)
	assert.Equal(t, "<nil>", uerr.FrontKind)
}

func TestUnsupportedShapes(t *testing.T) {
	u := New(nil)

	method := &hir.FrontCall{
		ID:     1,
		Callee: &hir.FrontAttribute{ID: 2, Value: variable(3, "xs"), Attr: "append"},
	}
	_, err := u.Unify(method, nativeFn(4, "PyList_Append"))
	uerr := requireUnificationError(t, err, errors.KindUnsupportedFront)
	assert.Equal(t, "Attribute", uerr.NodeKind)

	comp := &hir.FrontListComp{ID: 5, Element: variable(6, "x"), Target: "x", Iter: variable(7, "xs")}
	_, err = u.Unify(frontCall(8, "len", comp), nativeFn(4, "list_length"))
	uerr = requireUnificationError(t, err, errors.KindUnsupportedFront)
	assert.Equal(t, "ListComp", uerr.NodeKind)

	pow := &hir.FrontBinOp{ID: 9, Op: hir.OpPow, Left: variable(10, "a"), Right: variable(11, "b")}
	_, err = u.Unify(frontCall(12, "len", pow), nativeFn(4, "list_length"))
	uerr = requireUnificationError(t, err, errors.KindUnsupportedFront)
	assert.Equal(t, "BinOp(**)", uerr.NodeKind)
}

func TestMetadata(t *testing.T) {
	u := New(nil)
	loc := hir.SourceLocation{File: "app.py", Line: 3, Column: 9, Language: hir.Front}
	front := frontCall(1, "len", variable(10, "items"))
	front.Meta = hir.NewMetadata().WithSource(loc)

	got, err := u.Unify(front, nativeFn(42, "list_length"))
	require.NoError(t, err)

	meta := got.Metadata()
	require.NotNil(t, meta.Source)
	assert.Equal(t, loc, *meta.Source)
	require.Len(t, meta.CrossRefs, 1)
	assert.Equal(t, hir.FrontToNative, meta.CrossRefs[0].Kind)
	assert.Equal(t, hir.NodeID(42), meta.CrossRefs[0].Target)
	pattern, ok := meta.Hint("pattern")
	require.True(t, ok)
	assert.Equal(t, "Len", pattern)

	// the front node is left alone
	assert.Empty(t, front.Meta.CrossRefs)

	_, err = u.Unify(front, nativeFn(42, "nope"))
	uerr := requireUnificationError(t, err, errors.KindNoPatternMatch)
	assert.Equal(t, &loc, uerr.Location)
}

func TestIDsAndReset(t *testing.T) {
	u := New(nil)
	session := u.Session()
	require.NotEmpty(t, session)

	first, err := u.Unify(frontCall(1, "len", variable(3, "a")), nativeFn(2, "list_length"))
	require.NoError(t, err)
	second, err := u.Unify(frontCall(1, "len", variable(3, "a")), nativeFn(2, "list_length"))
	require.NoError(t, err)

	assert.Equal(t, hir.NodeID(1), first.NodeID())
	assert.Greater(t, second.NodeID(), first.(*hir.UnifiedCall).Args[0].NodeID())

	u.Reset()
	assert.NotEqual(t, session, u.Session())
	again, err := u.Unify(frontCall(1, "len"), nativeFn(2, "list_length"))
	require.NoError(t, err)
	assert.Equal(t, hir.NodeID(1), again.NodeID())

	// independent unifiers number independently
	other := New(nil)
	got, err := other.Unify(frontCall(1, "len"), nativeFn(2, "list_length"))
	require.NoError(t, err)
	assert.Equal(t, hir.NodeID(1), got.NodeID())
}

func TestExtensionEntries(t *testing.T) {
	c := catalog.Default()
	require.NoError(t, c.Register(catalog.Entry{
		Name:         "set_add",
		FrontCallee:  "add",
		NativeCallee: "PySet_Add",
		TargetCallee: "HashSet::insert",
		Result:       catalog.Bool(),
	}))

	u := New(c)
	got, err := u.Unify(frontCall(1, "add", variable(3, "seen"), variable(4, "x")), nativeFn(2, "PySet_Add"))
	require.NoError(t, err)

	call := got.(*hir.UnifiedCall)
	assert.Equal(t, "HashSet::insert", call.Callee)
	assert.Equal(t, hir.PatternCustom, call.Mapping.Pattern)
	assert.Equal(t, "bool", call.InferredType.String())
	hint, _ := call.Meta.Hint("pattern")
	assert.Equal(t, "set_add", hint)

	// the built-in catalog of another unifier does not know it
	_, err = New(nil).Unify(frontCall(1, "add"), nativeFn(2, "PySet_Add"))
	requireUnificationError(t, err, errors.KindNoPatternMatch)
}
