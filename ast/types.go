package ast

import (
	"fmt"
	"strings"
)

// Type is the surface-language type attached to declarations. It is a
// structural description only; the lowering core translates it into an
// interned IR type and never compares surface types directly.
type Type interface {
	String() string
	typeNode()
}

// ArithmKind enumerates the built-in arithmetic types.
type ArithmKind int

const (
	Void ArithmKind = iota
	Bool
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	Half
	Float
	Double
)

var arithmNames = [...]string{
	Void: "void", Bool: "bool",
	Char: "char", UChar: "uchar",
	Short: "short", UShort: "ushort",
	Int: "int", UInt: "uint",
	Long: "long", ULong: "ulong",
	Half: "half", Float: "float", Double: "double",
}

func (k ArithmKind) String() string {
	if int(k) < len(arithmNames) {
		return arithmNames[k]
	}
	return fmt.Sprintf("arithm(%d)", int(k))
}

type ArithmType struct {
	Kind ArithmKind
}

func (a *ArithmType) typeNode()      {}
func (a *ArithmType) String() string { return a.Kind.String() }

// ArrayType is a fixed-length sequence.
type ArrayType struct {
	Elem Type
	Len  int64
}

func (a *ArrayType) typeNode() {}
func (a *ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Len)
}

// TileType is the language's tensor abstraction: a shaped,
// multi-dimensional value of a scalar element type.
type TileType struct {
	Elem  Type
	Shape []int64
}

func (t *TileType) typeNode() {}
func (t *TileType) String() string {
	dims := make([]string, len(t.Shape))
	for i, d := range t.Shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return t.Elem.String() + "<" + strings.Join(dims, ", ") + ">"
}

type PointerType struct {
	Elem Type
}

func (p *PointerType) typeNode()      {}
func (p *PointerType) String() string { return p.Elem.String() + "*" }

type StructField struct {
	Name string
	Typ  Type
}

// StructType preserves field declaration order; order determines layout.
type StructType struct {
	Name   string
	Fields []StructField
}

func (s *StructType) typeNode() {}
func (s *StructType) String() string {
	if s.Name != "" {
		return "struct " + s.Name
	}
	var fields []string
	for _, f := range s.Fields {
		fields = append(fields, f.Typ.String()+" "+f.Name)
	}
	return "struct { " + strings.Join(fields, "; ") + " }"
}

type FuncType struct {
	Ret    Type
	Params []Type
}

func (f *FuncType) typeNode() {}
func (f *FuncType) String() string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return f.Ret.String() + "(" + strings.Join(params, ", ") + ")"
}

// AttrKind enumerates declaration attributes. Attributes are additive
// metadata for downstream passes; they never change which instructions
// the lowering emits.
type AttrKind int

const (
	Aligned AttrKind = iota
	MultipleOf
	ReadOnly
	WriteOnly
)

func (k AttrKind) String() string {
	switch k {
	case Aligned:
		return "aligned"
	case MultipleOf:
		return "multipleof"
	case ReadOnly:
		return "readonly"
	default:
		return "writeonly"
	}
}

type Attr struct {
	Kind AttrKind
	Arg  int64
}

func (a Attr) String() string {
	switch a.Kind {
	case Aligned, MultipleOf:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Arg)
	default:
		return a.Kind.String()
	}
}
