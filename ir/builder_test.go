package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testFunc(t *testing.T, ctx *Context) (*Function, *Builder) {
	t.Helper()
	m := ctx.NewModule("test")
	sig := ctx.FuncType(ctx.VoidType(), nil)
	fn := m.AddFunction("f", sig)
	b := ctx.NewBuilder()
	b.SetInsertPointAtEnd(ctx.AddBasicBlock(fn, "entry"))
	return fn, b
}

func TestTypeInterning(t *testing.T) {
	ctx := NewContext()

	require.Same(t, ctx.Int32Type(), ctx.IntType(32, true))
	require.NotSame(t, ctx.Int32Type(), ctx.IntType(32, false))
	require.Same(t, ctx.FloatType(32), ctx.FloatType(32))

	tile := ctx.TileType(ctx.FloatType(32), []int64{8, 16})
	require.Same(t, tile, ctx.TileType(ctx.FloatType(32), []int64{8, 16}))
	require.NotSame(t, tile, ctx.TileType(ctx.FloatType(32), []int64{16, 8}))

	ptr := ctx.PointerType(ctx.Int8Type(), 0)
	require.Same(t, ptr, ctx.PointerType(ctx.Int8Type(), 0))
}

func TestTileTypeShapeIsCopied(t *testing.T) {
	ctx := NewContext()
	shape := []int64{4, 4}
	tile := ctx.TileType(ctx.Int32Type(), shape)
	shape[0] = 99
	require.Equal(t, int64(4), tile.Shape[0])
	require.Equal(t, int64(16), tile.NumElements())
}

func TestBinaryResultType(t *testing.T) {
	ctx := NewContext()
	_, b := testFunc(t, ctx)

	i32 := ctx.Int32Type()
	sum := b.CreateAdd(NewConstInt(i32, 1), NewConstInt(i32, 2), "sum")
	require.Same(t, i32, sum.Type())

	tile := ctx.TileType(i32, []int64{4})
	tsum := b.CreateAdd(NewUndef(tile), NewUndef(tile), "tsum")
	require.Same(t, tile, tsum.Type())
}

func TestCompareResultType(t *testing.T) {
	ctx := NewContext()
	_, b := testFunc(t, ctx)

	i32 := ctx.Int32Type()
	cmp := b.CreateICmp(IntSLT, NewConstInt(i32, 1), NewConstInt(i32, 2), "cmp")
	require.Same(t, ctx.Int1Type(), cmp.Type())

	tile := ctx.TileType(ctx.FloatType(32), []int64{2, 3})
	tcmp := b.CreateFCmp(FloatOLT, NewUndef(tile), NewUndef(tile), "tcmp")
	require.Same(t, ctx.TileType(ctx.Int1Type(), []int64{2, 3}), tcmp.Type())
}

func TestTransPermutesShape(t *testing.T) {
	ctx := NewContext()
	_, b := testFunc(t, ctx)

	tile := ctx.TileType(ctx.FloatType(32), []int64{2, 3, 4})
	tr := b.CreateTrans(NewUndef(tile), []int{2, 0, 1}, "tr")
	require.Same(t, ctx.TileType(ctx.FloatType(32), []int64{4, 2, 3}), tr.Type())
}

func TestSplatAndBroadcastTypes(t *testing.T) {
	ctx := NewContext()
	_, b := testFunc(t, ctx)

	f32 := ctx.FloatType(32)
	sp := b.CreateSplat(NewConstFloat(f32, 1), []int64{8, 8}, "sp")
	require.Same(t, ctx.TileType(f32, []int64{8, 8}), sp.Type())

	narrow := ctx.TileType(f32, []int64{1, 8})
	bc := b.CreateBroadcast(NewUndef(narrow), []int64{4, 8}, "bc")
	require.Same(t, ctx.TileType(f32, []int64{4, 8}), bc.Type())
}

func TestTerminator(t *testing.T) {
	ctx := NewContext()
	fn, b := testFunc(t, ctx)

	entry := fn.EntryBlock()
	require.Nil(t, entry.Terminator())

	next := ctx.AddBasicBlock(fn, "next")
	br := b.CreateBr(next)
	require.Same(t, br, entry.Terminator())
}

func TestMoveBlockToEnd(t *testing.T) {
	ctx := NewContext()
	fn, _ := testFunc(t, ctx)

	exit := ctx.AddBasicBlock(fn, "exit")
	ctx.AddBasicBlock(fn, "body")
	fn.MoveBlockToEnd(exit)

	require.Same(t, exit, fn.Blocks[len(fn.Blocks)-1])
	require.Equal(t, "entry", fn.Blocks[0].Name())
}

func TestPhiIncoming(t *testing.T) {
	ctx := NewContext()
	fn, b := testFunc(t, ctx)

	left := ctx.AddBasicBlock(fn, "left")
	right := ctx.AddBasicBlock(fn, "right")

	i32 := ctx.Int32Type()
	phi := b.CreatePhi(i32, "phi")
	phi.AddIncoming(
		[]Value{NewConstInt(i32, 1), NewConstInt(i32, 2)},
		[]*BasicBlock{left, right},
	)
	require.Len(t, phi.Ops, 2)
	require.Len(t, phi.Blocks, 2)
}

func TestLoadRequiresPointer(t *testing.T) {
	ctx := NewContext()
	_, b := testFunc(t, ctx)

	require.Panics(t, func() {
		b.CreateLoad(ctx.Int32Type(), NewConstInt(ctx.Int32Type(), 0), "bad")
	})
}
