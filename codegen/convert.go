package codegen

import (
	"github.com/tilelang/tilec/ir"
	"github.com/tilelang/tilec/token"
)

// convert coerces v to exactly dst, inserting the minimal instruction
// sequence. Conversion kinds are tried in fixed precedence: broadcast
// (shape alignment), numeric cast, semantic cast, bit cast. A value
// already of the target type is returned unchanged with no instruction
// emitted.
func (g *Generator) convert(v ir.Value, dst ir.Type, tok token.Token) (ir.Value, error) {
	src := v.Type()
	if src == dst {
		return v, nil
	}

	if dt, ok := dst.(*ir.TileType); ok {
		return g.convertToTile(v, dt, tok)
	}
	if ir.IsTile(src) {
		// No implicit reduction from tile to scalar.
		return nil, errAt(tok, token.ErrTypeMismatch, "cannot convert %s to %s", src, dst)
	}

	if cv, ok, err := g.numCast(v, dst, tok); ok {
		return cv, err
	}
	if cv, ok := g.semCast(v, dst); ok {
		return cv, nil
	}
	if cv, ok := g.bitCast(v, dst); ok {
		return cv, nil
	}
	return nil, errAt(tok, token.ErrTypeMismatch, "cannot convert %s to %s", src, dst)
}

// convertToTile aligns v's shape to dst first (splat for scalars,
// broadcast for compatible tiles), then casts the element type. Order is
// load-bearing: broadcast, then numeric.
func (g *Generator) convertToTile(v ir.Value, dst *ir.TileType, tok token.Token) (ir.Value, error) {
	if st, ok := v.Type().(*ir.TileType); ok {
		if !ir.SameShape(st, dst) {
			if !broadcastable(st.Shape, dst.Shape) {
				return nil, errAt(tok, token.ErrIncompatibleShape, "cannot broadcast %s to %s", st, dst)
			}
			v = g.bld.CreateBroadcast(v, dst.Shape, "bcast")
		}
	} else {
		v = g.bld.CreateSplat(v, dst.Shape, "splat")
	}

	st := v.Type().(*ir.TileType)
	if st.Elem == dst.Elem {
		return v, nil
	}
	// Boolean elements convert by comparing against zero, elementwise,
	// exactly as the scalar path does. A trunc would keep only the low
	// bit.
	if it, isInt := dst.Elem.(*ir.IntType); isInt && it.Width == 1 {
		return g.toBool(v, tok)
	}
	kind, ok := numCastKind(st.Elem, dst.Elem)
	if !ok {
		return nil, errAt(tok, token.ErrTypeMismatch, "cannot convert %s to %s", st.Elem, dst.Elem)
	}
	return g.bld.CreateCast(kind, v, g.Ctx.TileType(dst.Elem, dst.Shape), "elcast"), nil
}

// broadcastable reports whether src can expand to dst: equal rank, and
// every source dimension either matches or is 1.
func broadcastable(src, dst []int64) bool {
	if len(src) != len(dst) {
		return false
	}
	for i := range src {
		if src[i] != dst[i] && src[i] != 1 {
			return false
		}
	}
	return true
}

// numCast performs a scalar numeric conversion. ok is false when the
// pair is outside numeric territory entirely.
func (g *Generator) numCast(v ir.Value, dst ir.Type, tok token.Token) (_ ir.Value, ok bool, _ error) {
	// Integer target of width 1 is boolean: the conversion is a compare
	// against zero, not a truncation.
	if it, isInt := dst.(*ir.IntType); isInt && it.Width == 1 {
		b, err := g.toBool(v, tok)
		return b, true, err
	}
	kind, ok := numCastKind(v.Type(), dst)
	if !ok {
		return nil, false, nil
	}
	return g.bld.CreateCast(kind, v, dst, "cast"), true, nil
}

// numCastKind picks the cast flavor between two scalar types following
// the usual-arithmetic-conversion rules.
func numCastKind(src, dst ir.Type) (ir.CastKind, bool) {
	switch s := src.(type) {
	case *ir.IntType:
		switch d := dst.(type) {
		case *ir.IntType:
			switch {
			case d.Width > s.Width && s.Signed:
				return ir.CastSExt, true
			case d.Width > s.Width:
				return ir.CastZExt, true
			case d.Width < s.Width:
				return ir.CastTrunc, true
			default:
				// Same width, signedness flip: same bits, related type.
				return ir.CastSemantic, true
			}
		case *ir.FloatType:
			if s.Signed {
				return ir.CastSIToFP, true
			}
			return ir.CastUIToFP, true
		}
	case *ir.FloatType:
		switch d := dst.(type) {
		case *ir.IntType:
			if d.Signed {
				return ir.CastFPToSI, true
			}
			return ir.CastFPToUI, true
		case *ir.FloatType:
			if d.Width > s.Width {
				return ir.CastFPExt, true
			}
			return ir.CastFPTrunc, true
		}
	}
	return 0, false
}

// semCast reinterprets a value under a related type without changing
// bits: pointer retyping (qualifier and pointee refinement).
func (g *Generator) semCast(v ir.Value, dst ir.Type) (ir.Value, bool) {
	_, srcPtr := v.Type().(*ir.PointerType)
	_, dstPtr := dst.(*ir.PointerType)
	if srcPtr && dstPtr {
		return g.bld.CreateCast(ir.CastSemantic, v, dst, "semcast"), true
	}
	return nil, false
}

// bitCast reinterprets equal-width bits under a different type.
func (g *Generator) bitCast(v ir.Value, dst ir.Type) (ir.Value, bool) {
	sw, dw := ir.BitWidth(v.Type()), ir.BitWidth(dst)
	if sw != 0 && sw == dw {
		return g.bld.CreateCast(ir.CastBit, v, dst, "bitcast"), true
	}
	return nil, false
}

// unify applies binary usual-arithmetic conversion plus tile-shape
// broadcast so both operands share one type.
func (g *Generator) unify(l, r ir.Value, tok token.Token) (ir.Value, ir.Value, error) {
	ct, err := commonType(g.Ctx, l.Type(), r.Type(), tok)
	if err != nil {
		return nil, nil, err
	}
	lc, err := g.convert(l, ct, tok)
	if err != nil {
		return nil, nil, err
	}
	rc, err := g.convert(r, ct, tok)
	if err != nil {
		return nil, nil, err
	}
	return lc, rc, nil
}

// commonType computes the unified type of two operands without emitting
// instructions: the broadcast-common shape (if any side is a tile) over
// the arithmetic-common scalar type.
func commonType(ctx *ir.Context, a, b ir.Type, tok token.Token) (ir.Type, error) {
	elem, err := commonScalarType(ctx, ir.Scalar(a), ir.Scalar(b), tok)
	if err != nil {
		return nil, err
	}

	at, aTile := a.(*ir.TileType)
	bt, bTile := b.(*ir.TileType)
	switch {
	case aTile && bTile:
		shape, ok := commonShape(at.Shape, bt.Shape)
		if !ok {
			return nil, errAt(tok, token.ErrIncompatibleShape, "shapes %s and %s do not broadcast", at, bt)
		}
		return ctx.TileType(elem, shape), nil
	case aTile:
		return ctx.TileType(elem, at.Shape), nil
	case bTile:
		return ctx.TileType(elem, bt.Shape), nil
	default:
		return elem, nil
	}
}

func commonShape(a, b []int64) ([]int64, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	shape := make([]int64, len(a))
	for i := range a {
		switch {
		case a[i] == b[i]:
			shape[i] = a[i]
		case a[i] == 1:
			shape[i] = b[i]
		case b[i] == 1:
			shape[i] = a[i]
		default:
			return nil, false
		}
	}
	return shape, true
}

// commonScalarType ranks the two scalar types: floats beat integers,
// wider beats narrower, and at equal width unsigned beats signed.
// Integers first promote to at least i32, as in C.
func commonScalarType(ctx *ir.Context, a, b ir.Type, tok token.Token) (ir.Type, error) {
	af, aFloat := a.(*ir.FloatType)
	bf, bFloat := b.(*ir.FloatType)
	ai, aInt := a.(*ir.IntType)
	bi, bInt := b.(*ir.IntType)

	switch {
	case aFloat && bFloat:
		if af.Width >= bf.Width {
			return af, nil
		}
		return bf, nil
	case aFloat && bInt:
		return af, nil
	case bFloat && aInt:
		return bf, nil
	case aInt && bInt:
		aw, as := promoteInt(ai)
		bw, bs := promoteInt(bi)
		switch {
		case aw > bw:
			return ctx.IntType(aw, as), nil
		case bw > aw:
			return ctx.IntType(bw, bs), nil
		default:
			return ctx.IntType(aw, as && bs), nil
		}
	default:
		return nil, errAt(tok, token.ErrTypeMismatch, "no common type for %s and %s", a, b)
	}
}

// promoteInt applies C integer promotion: anything narrower than int
// widens to i32.
func promoteInt(t *ir.IntType) (uint32, bool) {
	if t.Width < 32 {
		return 32, true
	}
	return t.Width, t.Signed
}

// toBool lowers a value to i1 (or a tile of i1) by comparing against
// zero.
func (g *Generator) toBool(v ir.Value, tok token.Token) (ir.Value, error) {
	switch t := ir.Scalar(v.Type()).(type) {
	case *ir.IntType:
		if t.Width == 1 {
			return v, nil
		}
		zero, err := g.zeroLike(v)
		if err != nil {
			return nil, err
		}
		return g.bld.CreateICmp(ir.IntNE, v, zero, "tobool"), nil
	case *ir.FloatType:
		zero, err := g.zeroLike(v)
		if err != nil {
			return nil, err
		}
		return g.bld.CreateFCmp(ir.FloatONE, v, zero, "tobool"), nil
	default:
		return nil, errAt(tok, token.ErrTypeMismatch, "%s is not usable as a boolean", v.Type())
	}
}

// zeroLike materializes a zero with v's exact type, splatting for tiles.
func (g *Generator) zeroLike(v ir.Value) (ir.Value, error) {
	if tt, ok := v.Type().(*ir.TileType); ok {
		return g.bld.CreateSplat(ir.ZeroValue(tt.Elem), tt.Shape, "zeros"), nil
	}
	return ir.ZeroValue(v.Type()), nil
}
