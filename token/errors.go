package token

import "fmt"

// ErrKind classifies compile errors into the two classes the driver
// cares about: reportable language errors, which carry a user-facing
// message, and internal invariant violations, which signal a bug in an
// earlier phase (or in the lowering itself) and are never user-caused.
type ErrKind int

const (
	// Internal invariant violations.
	ErrInternal ErrKind = iota
	ErrUnboundName

	// Reportable language errors.
	ErrNotAnLvalue
	ErrUnsupportedType
	ErrTypeMismatch
	ErrIncompatibleShape
	ErrInvalidControlFlow
	ErrInvalidTileShape
)

var errKindNames = map[ErrKind]string{
	ErrInternal:           "internal invariant violation",
	ErrUnboundName:        "unbound name",
	ErrNotAnLvalue:        "not an lvalue",
	ErrUnsupportedType:    "unsupported type",
	ErrTypeMismatch:       "type mismatch",
	ErrIncompatibleShape:  "incompatible shape",
	ErrInvalidControlFlow: "invalid control flow",
	ErrInvalidTileShape:   "invalid tile shape",
}

func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("errkind(%d)", int(k))
}

// Reportable reports whether the kind is a language error that should
// surface as a user diagnostic. Non-reportable kinds indicate that
// well-formed, semantically checked input could never have produced the
// state we observed.
func (k ErrKind) Reportable() bool {
	return k != ErrInternal && k != ErrUnboundName
}

// CompileError is the error value produced by every compilation phase.
type CompileError struct {
	Token Token
	Kind  ErrKind
	Msg   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Token, e.Kind, e.Msg)
}
