package codegen

import (
	"fmt"

	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

// GenIRType translates a surface type into an interned IR type. It is a
// pure function of the type and the context: no generator state is read.
// The returned error (always an ErrUnsupportedType CompileError with an
// unset token) is positioned by the caller.
func GenIRType(t ast.Type, ctx *ir.Context) (ir.Type, error) {
	switch t := t.(type) {
	case *ast.ArithmType:
		return genIRArithmType(t, ctx)
	case *ast.ArrayType:
		return genIRArrayType(t, ctx)
	case *ast.TileType:
		return genIRTileType(t, ctx)
	case *ast.PointerType:
		return genIRPointerType(t, ctx)
	case *ast.StructType:
		return genIRStructType(t, ctx)
	case *ast.FuncType:
		return genIRFuncType(t, ctx)
	default:
		return nil, unsupported("surface type %T", t)
	}
}

func genIRArithmType(t *ast.ArithmType, ctx *ir.Context) (ir.Type, error) {
	switch t.Kind {
	case ast.Void:
		return ctx.VoidType(), nil
	case ast.Bool:
		return ctx.Int1Type(), nil
	case ast.Char:
		return ctx.Int8Type(), nil
	case ast.UChar:
		return ctx.IntType(8, false), nil
	case ast.Short:
		return ctx.Int16Type(), nil
	case ast.UShort:
		return ctx.IntType(16, false), nil
	case ast.Int:
		return ctx.Int32Type(), nil
	case ast.UInt:
		return ctx.IntType(32, false), nil
	case ast.Long:
		return ctx.Int64Type(), nil
	case ast.ULong:
		return ctx.IntType(64, false), nil
	case ast.Half:
		return ctx.FloatType(16), nil
	case ast.Float:
		return ctx.FloatType(32), nil
	case ast.Double:
		return ctx.FloatType(64), nil
	default:
		return nil, unsupported("arithmetic type %s", t.Kind)
	}
}

func genIRArrayType(t *ast.ArrayType, ctx *ir.Context) (ir.Type, error) {
	elem, err := GenIRType(t.Elem, ctx)
	if err != nil {
		return nil, err
	}
	return ctx.ArrayType(elem, t.Len), nil
}

func genIRTileType(t *ast.TileType, ctx *ir.Context) (ir.Type, error) {
	elem, err := GenIRType(t.Elem, ctx)
	if err != nil {
		return nil, err
	}
	if ir.IsTile(elem) || ir.IsVoid(elem) {
		return nil, unsupported("tile of %s", elem)
	}
	// Shape vector carries through unchanged.
	return ctx.TileType(elem, t.Shape), nil
}

func genIRPointerType(t *ast.PointerType, ctx *ir.Context) (ir.Type, error) {
	elem, err := GenIRType(t.Elem, ctx)
	if err != nil {
		return nil, err
	}
	return ctx.PointerType(elem, 0), nil
}

func genIRStructType(t *ast.StructType, ctx *ir.Context) (ir.Type, error) {
	// Field order determines layout; translate in declaration order.
	fields := make([]ir.Type, 0, len(t.Fields))
	for _, f := range t.Fields {
		ft, err := GenIRType(f.Typ, ctx)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ft)
	}
	return ctx.StructType(fields), nil
}

func genIRFuncType(t *ast.FuncType, ctx *ir.Context) (ir.Type, error) {
	ret, err := GenIRType(t.Ret, ctx)
	if err != nil {
		return nil, err
	}
	params := make([]ir.Type, 0, len(t.Params))
	for _, p := range t.Params {
		pt, err := GenIRType(p, ctx)
		if err != nil {
			return nil, err
		}
		params = append(params, pt)
	}
	return ctx.FuncType(ret, params), nil
}

func unsupported(format string, args ...any) *token.CompileError {
	return &token.CompileError{
		Kind: token.ErrUnsupportedType,
		Msg:  fmt.Sprintf(format, args...),
	}
}
