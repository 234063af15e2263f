package optimize

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/hir"
	"weld/internal/types"
	"weld/internal/unify"
)

func mappedCall(id hir.NodeID, callee string, pattern hir.UnificationPattern, args ...hir.UnifiedNode) *hir.UnifiedCall {
	return &hir.UnifiedCall{
		ID:           id,
		Target:       hir.Target,
		Callee:       callee,
		Args:         args,
		InferredType: types.Usize(),
		Origin:       hir.Front,
		Mapping:      hir.NewCrossMapping(id+100, id+200, pattern),
	}
}

func variable(id hir.NodeID, name string) *hir.UnifiedVariable {
	return &hir.UnifiedVariable{ID: id, Name: name, Type: &types.Unknown{}}
}

func lit(id hir.NodeID, v hir.LiteralValue) *hir.UnifiedLiteral {
	return &hir.UnifiedLiteral{ID: id, Value: v}
}

// a module with mapped calls in every kind of composite node
func sampleModule() *hir.UnifiedModule {
	return &hir.UnifiedModule{
		Name: "sample",
		Decls: []hir.UnifiedNode{
			&hir.UnifiedFunction{
				ID:   1,
				Name: "work",
				Body: []hir.UnifiedNode{
					&hir.UnifiedAssign{ID: 2, Target: "n", Value: mappedCall(3, "Vec::len", hir.PatternLen, variable(4, "xs"))},
					&hir.UnifiedIf{
						ID:        5,
						Condition: &hir.UnifiedBinOp{ID: 6, Op: hir.OpGt, Left: variable(7, "n"), Right: lit(8, hir.IntLit(0))},
						Then:      []hir.UnifiedNode{mappedCall(9, "Vec::clear", hir.PatternClear, variable(10, "xs"))},
						Else:      []hir.UnifiedNode{mappedCall(11, "Vec::push", hir.PatternAppend, variable(12, "xs"), lit(13, hir.IntLit(1)))},
					},
					&hir.UnifiedLoop{
						ID:   14,
						Loop: hir.ForLoop{Target: "k", Iterable: mappedCall(15, "HashMap::keys", hir.PatternDictKeys, variable(16, "d"))},
						Body: []hir.UnifiedNode{
							&hir.UnifiedLoop{
								ID:   17,
								Loop: hir.WhileLoop{Condition: variable(18, "busy")},
								Body: []hir.UnifiedNode{mappedCall(19, "Vec::reverse", hir.PatternReverse, variable(20, "xs"))},
							},
						},
					},
					&hir.UnifiedReturn{ID: 21, Value: mappedCall(22, "Vec::len", hir.PatternLen, mappedCall(23, "HashMap::keys", hir.PatternDictKeys, variable(24, "d")))},
				},
			},
		},
	}
}

func mappedCalls(tree hir.UnifiedNode) []*hir.UnifiedCall {
	var out []*hir.UnifiedCall
	hir.InspectUnified(tree, func(n hir.UnifiedNode) bool {
		if c, ok := n.(*hir.UnifiedCall); ok && c.Mapping != nil {
			out = append(out, c)
		}
		return true
	})
	return out
}

func TestBoundaryEliminationReachesEveryNode(t *testing.T) {
	in := sampleModule()
	require.Len(t, mappedCalls(in), 7)

	out, err := BoundaryElimination{}.Run(in)
	require.NoError(t, err)

	calls := mappedCalls(out)
	require.Len(t, calls, 7)
	for _, c := range calls {
		assert.True(t, c.Mapping.BoundaryEliminated, "call #%d %s", c.ID, c.Callee)
		assert.Equal(t, hir.Target, c.Target)
	}

	// the input is untouched
	for _, c := range mappedCalls(in) {
		assert.False(t, c.Mapping.BoundaryEliminated)
	}
}

func TestBoundaryEliminationLeavesOtherNodes(t *testing.T) {
	plain := &hir.UnifiedCall{ID: 1, Target: hir.Front, Callee: "print", Origin: hir.Front, Args: []hir.UnifiedNode{variable(2, "x")}}
	out, err := BoundaryElimination{}.Run(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
	assert.NotSame(t, plain, out)

	v := variable(3, "x")
	out, err = BoundaryElimination{}.Run(v)
	require.NoError(t, err)
	assert.Equal(t, v, out)

	out, err = BoundaryElimination{}.Run(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBoundaryEliminationForcesTarget(t *testing.T) {
	call := mappedCall(1, "Vec::len", hir.PatternLen)
	call.Target = hir.Native
	out, err := BoundaryElimination{}.Run(call)
	require.NoError(t, err)
	assert.Equal(t, hir.Target, out.(*hir.UnifiedCall).Target)

	// origin and target already agree: nothing to force
	same := mappedCall(2, "Vec::len", hir.PatternLen)
	same.Origin, same.Target = hir.Native, hir.Native
	out, err = BoundaryElimination{}.Run(same)
	require.NoError(t, err)
	assert.Equal(t, hir.Native, out.(*hir.UnifiedCall).Target)
	assert.True(t, out.(*hir.UnifiedCall).Mapping.BoundaryEliminated)
}

func TestPipelineIsIdempotent(t *testing.T) {
	for _, p := range []*Pipeline{Standard(), Extended()} {
		once, err := p.Run(sampleModule())
		require.NoError(t, err)
		twice, err := p.Run(once)
		require.NoError(t, err)
		thrice, err := p.Run(twice)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
		assert.Equal(t, once, thrice)
		assert.Equal(t, hir.PrintUnified(once), hir.PrintUnified(thrice))
	}
}

func TestPipelines(t *testing.T) {
	assert.Equal(t, 0, New().PassCount())

	std := Standard()
	require.Equal(t, 1, std.PassCount())
	assert.Equal(t, "boundary-elimination", std.Passes()[0].Name())

	ext := Extended()
	assert.Equal(t, 3, ext.PassCount())

	std.AddPass(ConstantFolding{})
	assert.Equal(t, 2, std.PassCount())
	assert.Equal(t, 1, Standard().PassCount())

	// an empty pipeline hands the tree back
	tree := sampleModule()
	out, err := New().Run(tree)
	require.NoError(t, err)
	assert.Same(t, tree, out)
}

type failingPass struct{ calls *int }

func (failingPass) Name() string        { return "failing" }
func (failingPass) Description() string { return "always fails" }
func (f failingPass) Run(hir.UnifiedNode) (hir.UnifiedNode, error) {
	*f.calls++
	return nil, errors.New("boom")
}

type countingPass struct{ calls *int }

func (countingPass) Name() string        { return "counting" }
func (countingPass) Description() string { return "counts runs" }
func (c countingPass) Run(n hir.UnifiedNode) (hir.UnifiedNode, error) {
	*c.calls++
	return n, nil
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	var failed, counted int
	p := Standard()
	p.AddPass(failingPass{calls: &failed})
	p.AddPass(countingPass{calls: &counted})

	out, err := p.Run(sampleModule())
	assert.Nil(t, out)
	require.Error(t, err)
	assert.EqualError(t, err, "failing: boom")
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, counted)
}

func TestConstantFolding(t *testing.T) {
	bin := func(op hir.BinaryOp, l, r hir.LiteralValue) *hir.UnifiedBinOp {
		return &hir.UnifiedBinOp{ID: 1, Op: op, Left: lit(2, l), Right: lit(3, r)}
	}
	cases := []struct {
		in   *hir.UnifiedBinOp
		want hir.LiteralValue
	}{
		{bin(hir.OpAdd, hir.IntLit(2), hir.IntLit(3)), hir.IntLit(5)},
		{bin(hir.OpSub, hir.IntLit(2), hir.IntLit(3)), hir.IntLit(-1)},
		{bin(hir.OpMul, hir.IntLit(-4), hir.IntLit(3)), hir.IntLit(-12)},
		{bin(hir.OpLe, hir.IntLit(3), hir.IntLit(3)), hir.BoolLit(true)},
		{bin(hir.OpNotEq, hir.IntLit(3), hir.IntLit(3)), hir.BoolLit(false)},
		{bin(hir.OpAnd, hir.BoolLit(true), hir.BoolLit(false)), hir.BoolLit(false)},
		{bin(hir.OpOr, hir.BoolLit(true), hir.BoolLit(false)), hir.BoolLit(true)},
		{bin(hir.OpAdd, hir.StrLit("ab"), hir.StrLit("c")), hir.StrLit("abc")},
	}
	for _, tc := range cases {
		out, err := ConstantFolding{}.Run(tc.in)
		require.NoError(t, err)
		folded, ok := out.(*hir.UnifiedLiteral)
		require.True(t, ok, "%s not folded", hir.PrintUnified(tc.in))
		assert.Equal(t, tc.want, folded.Value)
		assert.Equal(t, hir.NodeID(1), folded.ID)
	}
}

func TestConstantFoldingLeavesUnsafeOperations(t *testing.T) {
	for _, in := range []*hir.UnifiedBinOp{
		{ID: 1, Op: hir.OpDiv, Left: lit(2, hir.IntLit(7)), Right: lit(3, hir.IntLit(2))},
		{ID: 1, Op: hir.OpMod, Left: lit(2, hir.IntLit(-7)), Right: lit(3, hir.IntLit(2))},
		{ID: 1, Op: hir.OpAdd, Left: lit(2, hir.IntLit(1<<62)), Right: lit(3, hir.IntLit(1<<62))},
		{ID: 1, Op: hir.OpMul, Left: lit(2, hir.IntLit(1<<32)), Right: lit(3, hir.IntLit(1<<32))},
		{ID: 1, Op: hir.OpAdd, Left: lit(2, hir.IntLit(1)), Right: variable(3, "x")},
		{ID: 1, Op: hir.OpAdd, Left: lit(2, hir.IntLit(1)), Right: lit(3, hir.StrLit("x"))},
	} {
		out, err := ConstantFolding{}.Run(in)
		require.NoError(t, err)
		assert.IsType(t, &hir.UnifiedBinOp{}, out, hir.PrintUnified(in))
	}
}

func TestConstantFoldingNests(t *testing.T) {
	// (1 + 2) * 3 > 8
	in := &hir.UnifiedBinOp{
		ID: 1, Op: hir.OpGt,
		Left: &hir.UnifiedBinOp{
			ID: 2, Op: hir.OpMul,
			Left:  &hir.UnifiedBinOp{ID: 3, Op: hir.OpAdd, Left: lit(4, hir.IntLit(1)), Right: lit(5, hir.IntLit(2))},
			Right: lit(6, hir.IntLit(3)),
		},
		Right: lit(7, hir.IntLit(8)),
	}
	out, err := ConstantFolding{}.Run(in)
	require.NoError(t, err)
	assert.Equal(t, hir.BoolLit(true), out.(*hir.UnifiedLiteral).Value)
}

func TestDeadBranchElimination(t *testing.T) {
	fn := &hir.UnifiedFunction{
		ID:   1,
		Name: "f",
		Body: []hir.UnifiedNode{
			&hir.UnifiedIf{
				ID:        2,
				Condition: lit(3, hir.BoolLit(true)),
				Then:      []hir.UnifiedNode{variable(4, "kept"), variable(5, "also_kept")},
				Else:      []hir.UnifiedNode{variable(6, "dropped")},
			},
			&hir.UnifiedIf{ID: 7, Condition: lit(8, hir.BoolLit(false)), Then: []hir.UnifiedNode{variable(9, "dropped")}},
			&hir.UnifiedLoop{ID: 10, Loop: hir.WhileLoop{Condition: lit(11, hir.BoolLit(false))}, Body: []hir.UnifiedNode{variable(12, "never")}},
			&hir.UnifiedLoop{ID: 13, Loop: hir.WhileLoop{Condition: lit(14, hir.BoolLit(true))}},
			&hir.UnifiedIf{ID: 15, Condition: variable(16, "c"), Then: []hir.UnifiedNode{variable(17, "live")}},
		},
	}

	out, err := DeadBranchElimination{}.Run(fn)
	require.NoError(t, err)
	body := out.(*hir.UnifiedFunction).Body
	require.Len(t, body, 4)
	assert.Equal(t, "kept", body[0].(*hir.UnifiedVariable).Name)
	assert.Equal(t, "also_kept", body[1].(*hir.UnifiedVariable).Name)
	assert.Equal(t, hir.NodeID(13), body[2].NodeID())
	assert.Equal(t, hir.NodeID(15), body[3].NodeID())

	// the input still has all five statements
	assert.Len(t, fn.Body, 5)
}

func TestExtendedPipelineFoldsThenPrunes(t *testing.T) {
	// if 1 < 2: xs.len() else: xs.clear()
	in := &hir.UnifiedModule{Name: "m", Decls: []hir.UnifiedNode{
		&hir.UnifiedIf{
			ID:        1,
			Condition: &hir.UnifiedBinOp{ID: 2, Op: hir.OpLt, Left: lit(3, hir.IntLit(1)), Right: lit(4, hir.IntLit(2))},
			Then:      []hir.UnifiedNode{mappedCall(5, "Vec::len", hir.PatternLen, variable(6, "xs"))},
			Else:      []hir.UnifiedNode{mappedCall(7, "Vec::clear", hir.PatternClear, variable(8, "xs"))},
		},
	}}

	out, err := Extended().Run(in)
	require.NoError(t, err)
	decls := out.(*hir.UnifiedModule).Decls
	require.Len(t, decls, 1)
	call := decls[0].(*hir.UnifiedCall)
	assert.Equal(t, "Vec::len", call.Callee)
	assert.True(t, call.Mapping.BoundaryEliminated)
}

func TestRunAll(t *testing.T) {
	trees := make([]hir.UnifiedNode, 20)
	for i := range trees {
		trees[i] = mappedCall(hir.NodeID(i+1), fmt.Sprintf("callee_%d", i), hir.PatternLen)
	}

	out, err := Standard().RunAll(context.Background(), trees, 4)
	require.NoError(t, err)
	require.Len(t, out, len(trees))
	for i, tree := range out {
		call := tree.(*hir.UnifiedCall)
		assert.Equal(t, fmt.Sprintf("callee_%d", i), call.Callee)
		assert.True(t, call.Mapping.BoundaryEliminated)
	}

	out, err = Standard().RunAll(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunAllReportsFailure(t *testing.T) {
	var failed int
	p := New()
	p.AddPass(failingPass{calls: &failed})

	trees := []hir.UnifiedNode{variable(1, "a")}
	_, err := p.RunAll(context.Background(), trees, 2)
	assert.EqualError(t, err, "failing: boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Standard().RunAll(ctx, []hir.UnifiedNode{variable(1, "a"), variable(2, "b")}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestByName(t *testing.T) {
	for _, name := range PassNames() {
		pass, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, pass.Name())
		assert.NotEmpty(t, pass.Description())
	}

	_, err := ByName("loop-unrolling")
	assert.Error(t, err)

	p, err := FromNames([]string{"constant-folding", "boundary-elimination"})
	require.NoError(t, err)
	assert.Equal(t, "constant-folding", p.Passes()[0].Name())

	_, err = FromNames([]string{"boundary-elimination", "nope"})
	assert.ErrorContains(t, err, `"nope"`)
}

// len(item_list) against list_length, through unification and the standard
// pipeline
func TestLenEndToEnd(t *testing.T) {
	front := &hir.FrontCall{
		ID:     1,
		Callee: &hir.FrontVariable{ID: 2, Name: "len"},
		Args:   []hir.FrontNode{&hir.FrontVariable{ID: 3, Name: "item_list"}},
	}
	native := &hir.NativeFunction{
		ID:         10,
		Name:       "list_length",
		ReturnType: &types.RuntimeType{Kind: types.RuntimeSsizeT},
		Params:     []hir.NativeParam{{Name: "self", Type: &types.RuntimeType{Kind: types.RuntimeListObject}}},
	}

	unified, err := unify.New(nil).Unify(front, native)
	require.NoError(t, err)

	out, err := Standard().Run(unified)
	require.NoError(t, err)

	call, ok := out.(*hir.UnifiedCall)
	require.True(t, ok)
	assert.Equal(t, "Vec::len", call.Callee)
	assert.Equal(t, hir.PatternLen, call.Mapping.Pattern)
	assert.True(t, call.Mapping.BoundaryEliminated)
	require.Len(t, call.Args, 1)
	assert.Equal(t, "item_list", call.Args[0].(*hir.UnifiedVariable).Name)

	// unification output itself still has the boundary
	assert.False(t, unified.(*hir.UnifiedCall).Mapping.BoundaryEliminated)
}
