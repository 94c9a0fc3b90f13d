package ir

import (
	"fmt"
	"strings"
)

// Type is an IR type. All types are interned by a Context, so two types
// are equal exactly when they are the same pointer.
type Type interface {
	String() string
	typ()
}

type VoidType struct{}

func (*VoidType) typ()           {}
func (*VoidType) String() string { return "void" }

// IntType is an integer of a given bit width. Unlike LLVM, signedness
// is part of the type; the tile dialect keeps it so conversions can pick
// sext/zext and sitofp/uitofp without side tables.
type IntType struct {
	Width  uint32
	Signed bool
}

func (*IntType) typ() {}
func (t *IntType) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Width)
	}
	return fmt.Sprintf("u%d", t.Width)
}

type FloatType struct {
	Width uint32
}

func (*FloatType) typ()             {}
func (t *FloatType) String() string { return fmt.Sprintf("f%d", t.Width) }

type PointerType struct {
	Elem      Type
	AddrSpace int
}

func (*PointerType) typ() {}
func (t *PointerType) String() string {
	if t.AddrSpace != 0 {
		return fmt.Sprintf("%s addrspace(%d)*", t.Elem, t.AddrSpace)
	}
	return t.Elem.String() + "*"
}

// TileType is a shaped multi-dimensional value type. Shape dimensions
// are static; Elem is always a scalar (int, float, or pointer).
type TileType struct {
	Elem  Type
	Shape []int64
}

func (*TileType) typ() {}
func (t *TileType) String() string {
	var sb strings.Builder
	sb.WriteString("<")
	for _, d := range t.Shape {
		fmt.Fprintf(&sb, "%d x ", d)
	}
	sb.WriteString(t.Elem.String())
	sb.WriteString(">")
	return sb.String()
}

func (t *TileType) Rank() int { return len(t.Shape) }

func (t *TileType) NumElements() int64 {
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

type ArrayType struct {
	Elem Type
	Len  int64
}

func (*ArrayType) typ() {}
func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Len, t.Elem)
}

// StructType lays fields out in declaration order.
type StructType struct {
	Fields []Type
}

func (*StructType) typ() {}
func (t *StructType) String() string {
	var fields []string
	for _, f := range t.Fields {
		fields = append(fields, f.String())
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

type FuncType struct {
	Ret    Type
	Params []Type
}

func (*FuncType) typ() {}
func (t *FuncType) String() string {
	var params []string
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	return t.Ret.String() + " (" + strings.Join(params, ", ") + ")"
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}

// IsTile reports whether t is a tile type.
func IsTile(t Type) bool {
	_, ok := t.(*TileType)
	return ok
}

// Scalar strips one level of tile, returning the element type for tiles
// and t itself otherwise.
func Scalar(t Type) Type {
	if tt, ok := t.(*TileType); ok {
		return tt.Elem
	}
	return t
}

// BitWidth returns the width in bits of a scalar type, or 0 when the
// type has no fixed scalar width.
func BitWidth(t Type) uint32 {
	switch t := t.(type) {
	case *IntType:
		return t.Width
	case *FloatType:
		return t.Width
	case *PointerType:
		return 64
	default:
		return 0
	}
}

// SameShape reports whether a and b are both tiles of identical shape.
func SameShape(a, b *TileType) bool {
	if a.Rank() != b.Rank() {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}
