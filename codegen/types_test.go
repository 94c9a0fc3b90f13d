package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

func TestGenIRArithmTypes(t *testing.T) {
	ctx := ir.NewContext()
	cases := []struct {
		kind ast.ArithmKind
		want ir.Type
	}{
		{ast.Void, ctx.VoidType()},
		{ast.Bool, ctx.Int1Type()},
		{ast.Char, ctx.Int8Type()},
		{ast.UChar, ctx.IntType(8, false)},
		{ast.Short, ctx.Int16Type()},
		{ast.UShort, ctx.IntType(16, false)},
		{ast.Int, ctx.Int32Type()},
		{ast.UInt, ctx.IntType(32, false)},
		{ast.Long, ctx.Int64Type()},
		{ast.ULong, ctx.IntType(64, false)},
		{ast.Half, ctx.FloatType(16)},
		{ast.Float, ctx.FloatType(32)},
		{ast.Double, ctx.FloatType(64)},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			got, err := GenIRType(&ast.ArithmType{Kind: tc.kind}, ctx)
			require.NoError(t, err)
			require.Same(t, tc.want, got)
		})
	}
}

func TestGenIRTileType(t *testing.T) {
	ctx := ir.NewContext()

	got, err := GenIRType(tileT(floatT(), 8, 16), ctx)
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.TileType(ctx.FloatType(32), []int64{8, 16})), got)

	_, err = GenIRType(tileT(tileT(intT(), 4), 8), ctx)
	require.Error(t, err)
	require.Equal(t, token.ErrUnsupportedType, err.(*token.CompileError).Kind)

	_, err = GenIRType(tileT(voidT(), 8), ctx)
	require.Error(t, err)
	require.Equal(t, token.ErrUnsupportedType, err.(*token.CompileError).Kind)
}

func TestGenIRCompositeTypes(t *testing.T) {
	ctx := ir.NewContext()

	got, err := GenIRType(&ast.PointerType{Elem: floatT()}, ctx)
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.PointerType(ctx.FloatType(32), 0)), got)

	got, err = GenIRType(&ast.ArrayType{Elem: intT(), Len: 10}, ctx)
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.ArrayType(ctx.Int32Type(), 10)), got)

	// Field order carries through to layout.
	st := &ast.StructType{Fields: []ast.StructField{
		{Name: "a", Typ: intT()},
		{Name: "b", Typ: doubleT()},
	}}
	got, err = GenIRType(st, ctx)
	require.NoError(t, err)
	fields := got.(*ir.StructType).Fields
	require.Len(t, fields, 2)
	require.Same(t, ir.Type(ctx.Int32Type()), fields[0])
	require.Same(t, ir.Type(ctx.FloatType(64)), fields[1])

	got, err = GenIRType(&ast.FuncType{Ret: voidT(), Params: []ast.Type{intT(), floatT()}}, ctx)
	require.NoError(t, err)
	require.Same(t, ir.Type(ctx.FuncType(ctx.VoidType(), []ir.Type{ctx.Int32Type(), ctx.FloatType(32)})), got)
}

func TestGenIRTypeIsPure(t *testing.T) {
	ctx := ir.NewContext()
	a, err := GenIRType(tileT(floatT(), 4, 4), ctx)
	require.NoError(t, err)
	b, err := GenIRType(tileT(floatT(), 4, 4), ctx)
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestGenIRAttr(t *testing.T) {
	cases := []struct {
		in   ast.Attr
		want ir.Attribute
	}{
		{ast.Attr{Kind: ast.Aligned, Arg: 16}, ir.Attribute{Kind: ir.AttrAligned, Value: 16}},
		{ast.Attr{Kind: ast.MultipleOf, Arg: 8}, ir.Attribute{Kind: ir.AttrMultipleOf, Value: 8}},
		{ast.Attr{Kind: ast.ReadOnly}, ir.Attribute{Kind: ir.AttrReadOnly}},
		{ast.Attr{Kind: ast.WriteOnly}, ir.Attribute{Kind: ir.AttrWriteOnly}},
	}
	for _, tc := range cases {
		got, err := GenIRAttr(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}
