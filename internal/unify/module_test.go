package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/errors"
	"weld/internal/hir"
	"weld/internal/types"
)

// def count(items: list[int]) -> int:
//     n = len(items)
//     if n > 0:
//         append(items, n)
//     print(n)
//     return n
func countModule() *hir.FrontModule {
	return &hir.FrontModule{
		Name: "count",
		Body: []hir.FrontNode{
			&hir.FrontFunction{
				ID:         1,
				Name:       "count",
				Params:     []hir.FrontParam{{Name: "items", Type: &types.DynList{Elem: &types.DynPrimitive{Kind: types.DynInt}}}},
				ReturnType: &types.DynPrimitive{Kind: types.DynInt},
				Body: []hir.FrontNode{
					&hir.FrontAssign{ID: 2, Target: "n", Value: frontCall(3, "len", variable(5, "items"))},
					&hir.FrontIf{
						ID:        6,
						Condition: &hir.FrontBinOp{ID: 7, Op: hir.OpGt, Left: variable(8, "n"), Right: &hir.FrontLiteral{ID: 9, Value: hir.IntLit(0)}},
						Then:      []hir.FrontNode{frontCall(10, "append", variable(12, "items"), variable(13, "n"))},
					},
					frontCall(14, "print", variable(16, "n")),
					&hir.FrontReturn{ID: 17, Value: variable(18, "n")},
				},
			},
		},
	}
}

func listUnit() *hir.NativeTranslationUnit {
	return &hir.NativeTranslationUnit{
		Name: "listobject.c",
		Decls: []hir.NativeNode{
			&hir.NativeStruct{ID: 100, Name: "PyListObject"},
			nativeFn(101, "list_length"),
		},
	}
}

func TestUnifyModule(t *testing.T) {
	u := New(nil)
	mod, err := u.UnifyModule(countModule(), listUnit())
	require.NoError(t, err)
	assert.Equal(t, "count", mod.Name)
	require.Len(t, mod.Decls, 1)

	fn := mod.Decls[0].(*hir.UnifiedFunction)
	assert.Equal(t, "count", fn.Name)
	assert.Equal(t, hir.Front, fn.Origin)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "items", fn.Params[0].Name)
	require.Len(t, fn.Body, 4)

	assign := fn.Body[0].(*hir.UnifiedAssign)
	assert.Equal(t, "n", assign.Target)
	length := assign.Value.(*hir.UnifiedCall)
	assert.Equal(t, "Vec::len", length.Callee)
	assert.Equal(t, hir.PatternLen, length.Mapping.Pattern)
	assert.Equal(t, hir.NodeID(101), *length.Mapping.NativeNode)
	assert.Equal(t, "items", length.Args[0].(*hir.UnifiedVariable).Name)
	assert.Equal(t, "usize", assign.Type.String())

	branch := fn.Body[1].(*hir.UnifiedIf)
	assert.Equal(t, "bool", branch.Condition.(*hir.UnifiedBinOp).Type.String())
	appendCall := branch.Then[0].(*hir.UnifiedCall)
	assert.Equal(t, "append", appendCall.Callee)
	assert.Equal(t, hir.Front, appendCall.Target)
	assert.Nil(t, appendCall.Mapping)

	printCall := fn.Body[2].(*hir.UnifiedCall)
	assert.Equal(t, "print", printCall.Callee)

	ret := fn.Body[3].(*hir.UnifiedReturn)
	assert.Equal(t, "n", ret.Value.(*hir.UnifiedVariable).Name)

	// append is known to the catalog but the unit lacks PyList_Append;
	// print is unknown and stays quiet
	warnings := u.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, errors.WarningUnpairedCall, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "append")
}

func TestUnifyModuleLoops(t *testing.T) {
	front := &hir.FrontModule{
		Name: "loops",
		Body: []hir.FrontNode{
			&hir.FrontFor{ID: 1, Target: "x", Iter: variable(2, "xs"), Body: []hir.FrontNode{
				frontCall(3, "clear", variable(5, "x")),
			}},
			&hir.FrontWhile{ID: 6, Condition: &hir.FrontLiteral{ID: 7, Value: hir.BoolLit(false)}},
		},
	}
	tu := &hir.NativeTranslationUnit{Name: "x.c", Decls: []hir.NativeNode{nativeFn(100, "list_clear")}}

	mod, err := New(nil).UnifyModule(front, tu)
	require.NoError(t, err)
	require.Len(t, mod.Decls, 2)

	loop := mod.Decls[0].(*hir.UnifiedLoop)
	forLoop, ok := loop.Loop.(hir.ForLoop)
	require.True(t, ok)
	assert.Equal(t, "x", forLoop.Target)
	assert.Equal(t, "Vec::clear", loop.Body[0].(*hir.UnifiedCall).Callee)

	_, ok = mod.Decls[1].(*hir.UnifiedLoop).Loop.(hir.WhileLoop)
	assert.True(t, ok)
}

func TestUnifyModuleAbortsOnFirstError(t *testing.T) {
	front := countModule()
	front.Body = append(front.Body, &hir.FrontClass{ID: 50, Name: "Counter"})

	mod, err := New(nil).UnifyModule(front, listUnit())
	assert.Nil(t, mod)
	uerr := requireUnificationError(t, err, errors.KindUnsupportedFront)
	assert.Equal(t, "Class", uerr.NodeKind)

	_, err = New(nil).UnifyModule(front, nil)
	requireUnificationError(t, err, errors.KindIncompatibleNodes)
}

func TestUnifyModuleClearsWarnings(t *testing.T) {
	u := New(nil)
	_, err := u.UnifyModule(countModule(), listUnit())
	require.NoError(t, err)
	require.Len(t, u.Warnings(), 1)

	empty := &hir.FrontModule{Name: "empty"}
	_, err = u.UnifyModule(empty, listUnit())
	require.NoError(t, err)
	assert.Empty(t, u.Warnings())
}
