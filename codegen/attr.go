package codegen

import (
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/ir"
)

// GenIRAttr translates one surface declaration attribute into its IR
// counterpart. Attributes are purely additive: they never change which
// instructions the lowering emits, only what metadata rides along.
func GenIRAttr(a ast.Attr) (ir.Attribute, error) {
	switch a.Kind {
	case ast.Aligned:
		return ir.Attribute{Kind: ir.AttrAligned, Value: a.Arg}, nil
	case ast.MultipleOf:
		return ir.Attribute{Kind: ir.AttrMultipleOf, Value: a.Arg}, nil
	case ast.ReadOnly:
		return ir.Attribute{Kind: ir.AttrReadOnly}, nil
	case ast.WriteOnly:
		return ir.Attribute{Kind: ir.AttrWriteOnly}, nil
	default:
		return ir.Attribute{}, unsupported("attribute %s", a.Kind)
	}
}

// setIRMetadata attaches value-level metadata for attributes that
// describe the produced value rather than its storage. Only multipleof
// rides on values; the rest stay on declarations and parameters.
func setIRMetadata(a ast.Attr, v ir.Value) {
	if a.Kind != ast.MultipleOf {
		return
	}
	if inst, ok := v.(*ir.Instr); ok {
		inst.SetMeta(ir.Attribute{Kind: ir.AttrMultipleOf, Value: a.Arg})
	}
}
