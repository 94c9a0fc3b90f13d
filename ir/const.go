package ir

// NewConstInt returns an integer constant of type t.
func NewConstInt(t *IntType, v int64) *ConstInt {
	return &ConstInt{Ty: t, V: v}
}

// NewConstFloat returns a floating constant of type t.
func NewConstFloat(t *FloatType, v float64) *ConstFloat {
	return &ConstFloat{Ty: t, V: v}
}

// NewUndef returns an unspecified value of type t.
func NewUndef(t Type) *Undef {
	return &Undef{Ty: t}
}

// ZeroValue returns the zero constant for a scalar type, or undef for
// types without a natural zero.
func ZeroValue(t Type) Value {
	switch t := t.(type) {
	case *IntType:
		return NewConstInt(t, 0)
	case *FloatType:
		return NewConstFloat(t, 0)
	default:
		return NewUndef(t)
	}
}
