package codegen

type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	FuncScope
	BlockScope
)

// Scope is one lexical binding frame. Frames form a stack: one
// ModuleScope at the bottom, one FuncScope per function being lowered,
// and a BlockScope per compound statement. A name resolves to the
// nearest enclosing frame that defines it.
type Scope[T any] struct {
	Elems     map[string]T
	ScopeKind ScopeKind
}

func NewScope[T any](sk ScopeKind) Scope[T] {
	return Scope[T]{
		Elems:     make(map[string]T),
		ScopeKind: sk,
	}
}

func PushScope[T any](scopes *[]Scope[T], sk ScopeKind) {
	*scopes = append(*scopes, NewScope[T](sk))
}

func PopScope[T any](scopes *[]Scope[T]) {
	if len(*scopes) == 1 {
		panic("cannot pop module scope")
	}
	*scopes = (*scopes)[:len(*scopes)-1]
}

// Put binds name in the innermost frame, shadowing any outer binding.
func Put[T any](scopes []Scope[T], name string, elem T) {
	scopes[len(scopes)-1].Elems[name] = elem
}

// Get searches from the innermost frame outward, through the function
// frame down to module scope, so file-scope names stay visible inside
// function bodies.
func Get[T any](scopes []Scope[T], name string) (T, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if e, ok := scopes[i].Elems[name]; ok {
			return e, true
		}
	}

	var zero T
	return zero, false
}
