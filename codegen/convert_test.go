package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

// openGen returns a generator with an open insertion block so the
// conversion helpers can be driven directly.
func openGen(t *testing.T) (*Generator, *ir.BasicBlock) {
	t.Helper()
	g := NewGenerator(ir.NewContext(), "test")
	sig := g.Ctx.FuncType(g.Ctx.VoidType(), nil)
	fn := g.Mod.AddFunction("scratch", sig)
	bb := g.Ctx.AddBasicBlock(fn, "entry")
	g.bld.SetInsertPointAtEnd(bb)
	g.fn = fn
	return g, bb
}

func TestConvertIdentityEmitsNothing(t *testing.T) {
	g, bb := openGen(t)

	v := ir.NewConstInt(g.Ctx.Int32Type(), 5)
	cv, err := g.convert(v, g.Ctx.Int32Type(), token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Value(v), cv)
	require.Empty(t, bb.Instrs)

	tile := g.Ctx.TileType(g.Ctx.FloatType(32), []int64{8, 8})
	u := ir.NewUndef(tile)
	cu, err := g.convert(u, tile, token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Value(u), cu)
	require.Empty(t, bb.Instrs)
}

func TestConvertScalarToTileSplatsThenCasts(t *testing.T) {
	g, bb := openGen(t)

	dst := g.Ctx.TileType(g.Ctx.FloatType(32), []int64{8, 8})
	cv, err := g.convert(ir.NewConstInt(g.Ctx.Int32Type(), 5), dst, token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(dst), cv.Type())

	require.Len(t, bb.Instrs, 2)
	require.Equal(t, ir.OpSplat, bb.Instrs[0].Op)
	require.Equal(t, ir.OpCast, bb.Instrs[1].Op)
	require.Equal(t, ir.CastSIToFP, bb.Instrs[1].Cast)
}

func TestConvertBroadcastsUnitDims(t *testing.T) {
	g, bb := openGen(t)

	f32 := g.Ctx.FloatType(32)
	src := g.Ctx.TileType(f32, []int64{1, 16})
	dst := g.Ctx.TileType(f32, []int64{8, 16})
	cv, err := g.convert(ir.NewUndef(src), dst, token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(dst), cv.Type())
	require.Len(t, bb.Instrs, 1)
	require.Equal(t, ir.OpBroadcast, bb.Instrs[0].Op)
}

func TestConvertIntToBoolComparesAgainstZero(t *testing.T) {
	g, bb := openGen(t)

	// Scalar: i32 2 has its low bit clear but is still true.
	cv, err := g.convert(ir.NewConstInt(g.Ctx.Int32Type(), 2), g.Ctx.Int1Type(), token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(g.Ctx.Int1Type()), cv.Type())
	last := bb.Instrs[len(bb.Instrs)-1]
	require.Equal(t, ir.OpICmp, last.Op)
	require.Equal(t, ir.IntNE, last.Pred)

	// Tile elements follow the same rule, elementwise.
	src := g.Ctx.TileType(g.Ctx.Int32Type(), []int64{4})
	dst := g.Ctx.TileType(g.Ctx.Int1Type(), []int64{4})
	cv, err = g.convert(ir.NewUndef(src), dst, token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(dst), cv.Type())
	last = bb.Instrs[len(bb.Instrs)-1]
	require.Equal(t, ir.OpICmp, last.Op)
	require.Equal(t, ir.IntNE, last.Pred)
	for _, ins := range bb.Instrs {
		require.NotEqual(t, ir.OpCast, ins.Op)
	}
}

func TestConvertRejectsNonUnitExpansion(t *testing.T) {
	g, _ := openGen(t)

	f32 := g.Ctx.FloatType(32)
	src := g.Ctx.TileType(f32, []int64{4, 16})
	dst := g.Ctx.TileType(f32, []int64{8, 16})
	_, err := g.convert(ir.NewUndef(src), dst, token.Token{})
	require.Error(t, err)
	require.Equal(t, token.ErrIncompatibleShape, err.(*token.CompileError).Kind)
}

func TestConvertTileToScalarRejected(t *testing.T) {
	g, _ := openGen(t)

	tile := g.Ctx.TileType(g.Ctx.Int32Type(), []int64{4})
	_, err := g.convert(ir.NewUndef(tile), g.Ctx.Int32Type(), token.Token{})
	require.Error(t, err)
	require.Equal(t, token.ErrTypeMismatch, err.(*token.CompileError).Kind)
}

func TestConvertSignednessFlipIsSemantic(t *testing.T) {
	g, bb := openGen(t)

	cv, err := g.convert(ir.NewConstInt(g.Ctx.Int32Type(), -1), g.Ctx.IntType(32, false), token.Token{})
	require.NoError(t, err)
	require.Len(t, bb.Instrs, 1)
	require.Equal(t, ir.CastSemantic, bb.Instrs[0].Cast)
	require.Same(t, ir.Type(g.Ctx.IntType(32, false)), cv.Type())
}

func TestConvertPointerToPointerIsSemantic(t *testing.T) {
	g, bb := openGen(t)

	src := g.Ctx.PointerType(g.Ctx.FloatType(32), 0)
	dst := g.Ctx.PointerType(g.Ctx.FloatType(16), 0)
	_, err := g.convert(ir.NewUndef(src), dst, token.Token{})
	require.NoError(t, err)
	require.Len(t, bb.Instrs, 1)
	require.Equal(t, ir.CastSemantic, bb.Instrs[0].Cast)
}

func TestConvertEqualWidthFallsBackToBitCast(t *testing.T) {
	g, bb := openGen(t)

	src := g.Ctx.PointerType(g.Ctx.Int8Type(), 0)
	_, err := g.convert(ir.NewUndef(src), g.Ctx.Int64Type(), token.Token{})
	require.NoError(t, err)
	require.Len(t, bb.Instrs, 1)
	require.Equal(t, ir.CastBit, bb.Instrs[0].Cast)
}

func TestConvertWidening(t *testing.T) {
	g, bb := openGen(t)

	_, err := g.convert(ir.NewConstInt(g.Ctx.Int16Type(), 1), g.Ctx.Int64Type(), token.Token{})
	require.NoError(t, err)
	require.Equal(t, ir.CastSExt, bb.Instrs[0].Cast)

	_, err = g.convert(ir.NewConstInt(g.Ctx.IntType(16, false), 1), g.Ctx.IntType(64, false), token.Token{})
	require.NoError(t, err)
	require.Equal(t, ir.CastZExt, bb.Instrs[1].Cast)

	_, err = g.convert(ir.NewConstFloat(g.Ctx.FloatType(32), 1), g.Ctx.FloatType(64), token.Token{})
	require.NoError(t, err)
	require.Equal(t, ir.CastFPExt, bb.Instrs[2].Cast)
}

func TestCommonTypeRanking(t *testing.T) {
	ctx := ir.NewContext()
	i16 := ctx.Int16Type()
	i32 := ctx.Int32Type()
	u32 := ctx.IntType(32, false)
	i64 := ctx.Int64Type()
	f32 := ctx.FloatType(32)
	f64 := ctx.FloatType(64)

	cases := []struct {
		name string
		a, b ir.Type
		want ir.Type
	}{
		{"short ints promote", i16, i16, i32},
		{"unsigned wins at equal width", i32, u32, u32},
		{"wider int wins", i32, i64, i64},
		{"float beats int", i64, f32, f32},
		{"wider float wins", f32, f64, f64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := commonType(ctx, tc.a, tc.b, token.Token{})
			require.NoError(t, err)
			require.Same(t, tc.want, got)
		})
	}
}

func TestCommonTypeTileShapes(t *testing.T) {
	ctx := ir.NewContext()
	i32 := ctx.Int32Type()
	f32 := ctx.FloatType(32)

	got, err := commonType(ctx,
		ctx.TileType(i32, []int64{1, 16}),
		ctx.TileType(f32, []int64{8, 1}),
		token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.TileType(f32, []int64{8, 16})), got)

	got, err = commonType(ctx, ctx.TileType(i32, []int64{8}), ctx.Int64Type(), token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.TileType(ctx.Int64Type(), []int64{8})), got)

	_, err = commonType(ctx,
		ctx.TileType(i32, []int64{8, 16}),
		ctx.TileType(i32, []int64{4, 16}),
		token.Token{})
	require.Error(t, err)
	require.Equal(t, token.ErrIncompatibleShape, err.(*token.CompileError).Kind)
}

func TestToBoolElementwise(t *testing.T) {
	g, bb := openGen(t)

	tile := g.Ctx.TileType(g.Ctx.Int32Type(), []int64{4})
	b, err := g.toBool(ir.NewUndef(tile), token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Type(g.Ctx.TileType(g.Ctx.Int1Type(), []int64{4})), b.Type())

	// Zero is splatted to the operand shape before the compare.
	require.Len(t, bb.Instrs, 2)
	require.Equal(t, ir.OpSplat, bb.Instrs[0].Op)
	require.Equal(t, ir.OpICmp, bb.Instrs[1].Op)
	require.Equal(t, ir.IntNE, bb.Instrs[1].Pred)
}

func TestToBoolPassesThroughI1(t *testing.T) {
	g, bb := openGen(t)

	v := ir.NewConstInt(g.Ctx.Int1Type(), 1)
	b, err := g.toBool(v, token.Token{})
	require.NoError(t, err)
	require.Same(t, ir.Value(v), b)
	require.Empty(t, bb.Instrs)
}
