package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tilelang/tilec/token"
)

// The base Node interface. The node set is closed: the lowering core
// dispatches exhaustively over the concrete types below and nothing else.
type Node interface {
	Tok() token.Token
	String() string
}

// All statement nodes implement this
type Statement interface {
	Node
	statementNode()
}

// All expression nodes implement this. Every expression is also a
// statement (an expression evaluated for its side effects), so
// Expression embeds Statement the way C's grammar folds expression
// statements into the statement production.
type Expression interface {
	Statement
	expressionNode()
}

// Op identifies a binary or unary operator.
type Op int

const (
	// Binary
	Add Op = iota
	Sub
	Mul
	Div
	Rem
	And
	Or
	Xor
	Shl
	Shr
	LAnd
	LOr
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	Assign

	// Unary
	Neg
	Not
	BitNot
	Deref
	AddrOf
	Inc
	Dec
)

var opNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%",
	And: "&", Or: "|", Xor: "^", Shl: "<<", Shr: ">>",
	LAnd: "&&", LOr: "||",
	Eq: "==", Ne: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	Assign: "=",
	Neg:    "-", Not: "!", BitNot: "~", Deref: "*", AddrOf: "&",
	Inc: "++", Dec: "--",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// IsComparison reports whether op yields a boolean (or boolean tile).
func (op Op) IsComparison() bool {
	return op >= Eq && op <= Ge
}

// Expressions

// BinaryOp covers arithmetic, bitwise, logical, relational and
// assignment expressions. Assignment is an expression: its value is the
// stored value, so a = b = c chains.
type BinaryOp struct {
	Token token.Token
	Op    Op
	Lhs   Expression
	Rhs   Expression
}

func (b *BinaryOp) expressionNode()  {}
func (b *BinaryOp) statementNode()   {}
func (b *BinaryOp) Tok() token.Token { return b.Token }
func (b *BinaryOp) String() string {
	return "(" + b.Lhs.String() + " " + b.Op.String() + " " + b.Rhs.String() + ")"
}

// UnaryOp covers -x, !x, ~x, *p, &x and the inc/dec read-modify-write
// forms. Postfix distinguishes x++ from ++x.
type UnaryOp struct {
	Token   token.Token
	Op      Op
	Operand Expression
	Postfix bool
}

func (u *UnaryOp) expressionNode()  {}
func (u *UnaryOp) statementNode()   {}
func (u *UnaryOp) Tok() token.Token { return u.Token }
func (u *UnaryOp) String() string {
	if u.Postfix {
		return "(" + u.Operand.String() + u.Op.String() + ")"
	}
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

// TransOp transposes a tile. A nil Perm means reverse the shape.
type TransOp struct {
	Token   token.Token
	Operand Expression
	Perm    []int
}

func (t *TransOp) expressionNode()  {}
func (t *TransOp) statementNode()   {}
func (t *TransOp) Tok() token.Token { return t.Token }
func (t *TransOp) String() string   { return "^" + t.Operand.String() }

// ConditionalOp is the ternary cond ? then : else.
type ConditionalOp struct {
	Token token.Token
	Cond  Expression
	Then  Expression
	Else  Expression
}

func (c *ConditionalOp) expressionNode()  {}
func (c *ConditionalOp) statementNode()   {}
func (c *ConditionalOp) Tok() token.Token { return c.Token }
func (c *ConditionalOp) String() string {
	return "(" + c.Cond.String() + " ? " + c.Then.String() + " : " + c.Else.String() + ")"
}

// FuncCall calls Callee with Args, left to right.
type FuncCall struct {
	Token  token.Token
	Callee Expression
	Args   []Expression
}

func (f *FuncCall) expressionNode()  {}
func (f *FuncCall) statementNode()   {}
func (f *FuncCall) Tok() token.Token { return f.Token }
func (f *FuncCall) String() string {
	var out bytes.Buffer
	out.WriteString(f.Callee.String())
	out.WriteString("(")
	for i, a := range f.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// Object is a declared entity: a named, typed storage location (or
// function). The parser resolves every defining occurrence to an Object;
// plain uses may stay Identifiers.
type Object struct {
	Token token.Token
	Name  string
	Typ   Type
	Attrs []Attr
}

func (o *Object) expressionNode()  {}
func (o *Object) statementNode()   {}
func (o *Object) Tok() token.Token { return o.Token }
func (o *Object) String() string   { return o.Name }

// Enumerator is a named integer constant.
type Enumerator struct {
	Token token.Token
	Name  string
	Value int64
}

func (e *Enumerator) expressionNode()  {}
func (e *Enumerator) statementNode()   {}
func (e *Enumerator) Tok() token.Token { return e.Token }
func (e *Enumerator) String() string   { return e.Name }

type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) statementNode()   {}
func (i *Identifier) Tok() token.Token { return i.Token }
func (i *Identifier) String() string   { return i.Name }

// Constant is an integer or floating literal. IsFloat selects which
// payload field is meaningful. Width 0 lets the lowering pick the
// narrowest type that fits; a nonzero Width pins it.
type Constant struct {
	Token   token.Token
	IsFloat bool
	I       int64
	F       float64
	Width   uint32
}

func (c *Constant) expressionNode()  {}
func (c *Constant) statementNode()   {}
func (c *Constant) Tok() token.Token { return c.Token }
func (c *Constant) String() string {
	if c.IsFloat {
		return strconv.FormatFloat(c.F, 'g', -1, 64)
	}
	return strconv.FormatInt(c.I, 10)
}

// TempVar is a compiler-introduced temporary created by earlier phases
// (e.g. switch lowering). Its value is registered with the generator
// before the expression referencing it is lowered.
type TempVar struct {
	Token token.Token
	ID    int
}

func (t *TempVar) expressionNode()  {}
func (t *TempVar) statementNode()   {}
func (t *TempVar) Tok() token.Token { return t.Token }
func (t *TempVar) String() string   { return "$t" + strconv.Itoa(t.ID) }

// Statements

// Declaration declares Obj and optionally initializes it.
type Declaration struct {
	Token token.Token
	Obj   *Object
	Init  Expression
}

func (d *Declaration) statementNode()   {}
func (d *Declaration) Tok() token.Token { return d.Token }
func (d *Declaration) String() string {
	var out bytes.Buffer
	out.WriteString(d.Obj.Typ.String())
	out.WriteString(" ")
	out.WriteString(d.Obj.Name)
	if d.Init != nil {
		out.WriteString(" = ")
		out.WriteString(d.Init.String())
	}
	out.WriteString(";")
	return out.String()
}

type EmptyStmt struct {
	Token token.Token
}

func (e *EmptyStmt) statementNode()   {}
func (e *EmptyStmt) Tok() token.Token { return e.Token }
func (e *EmptyStmt) String() string   { return ";" }

type IfStmt struct {
	Token token.Token
	Cond  Expression
	Then  Statement
	Else  Statement
}

func (i *IfStmt) statementNode()   {}
func (i *IfStmt) Tok() token.Token { return i.Token }
func (i *IfStmt) String() string {
	s := "if (" + i.Cond.String() + ") " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// ForStmt is the C shape: for (init; cond; step) body. Init, Cond and
// Step may each be nil.
type ForStmt struct {
	Token token.Token
	Init  Statement
	Cond  Expression
	Step  Expression
	Body  Statement
}

func (f *ForStmt) statementNode()   {}
func (f *ForStmt) Tok() token.Token { return f.Token }
func (f *ForStmt) String() string   { return "for (...) " + f.Body.String() }

type JumpKind int

const (
	Break JumpKind = iota
	Continue
	Goto
)

func (k JumpKind) String() string {
	switch k {
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		return "goto"
	}
}

type JumpStmt struct {
	Token token.Token
	Kind  JumpKind
	Label string
}

func (j *JumpStmt) statementNode()   {}
func (j *JumpStmt) Tok() token.Token { return j.Token }
func (j *JumpStmt) String() string {
	if j.Kind == Goto {
		return "goto " + j.Label + ";"
	}
	return j.Kind.String() + ";"
}

type ReturnStmt struct {
	Token token.Token
	Expr  Expression
}

func (r *ReturnStmt) statementNode()   {}
func (r *ReturnStmt) Tok() token.Token { return r.Token }
func (r *ReturnStmt) String() string {
	if r.Expr == nil {
		return "return;"
	}
	return "return " + r.Expr.String() + ";"
}

type LabelStmt struct {
	Token token.Token
	Name  string
	Stmt  Statement
}

func (l *LabelStmt) statementNode()   {}
func (l *LabelStmt) Tok() token.Token { return l.Token }
func (l *LabelStmt) String() string {
	s := l.Name + ":"
	if l.Stmt != nil {
		s += " " + l.Stmt.String()
	}
	return s
}

type CompoundStmt struct {
	Token token.Token
	Stmts []Statement
}

func (c *CompoundStmt) statementNode()   {}
func (c *CompoundStmt) Tok() token.Token { return c.Token }
func (c *CompoundStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range c.Stmts {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// FuncDef defines a function. Params are the declared parameter objects
// in order; their types must agree with Typ.Params.
type FuncDef struct {
	Token  token.Token
	Name   string
	Typ    *FuncType
	Params []*Object
	Body   *CompoundStmt
}

func (f *FuncDef) statementNode()   {}
func (f *FuncDef) Tok() token.Token { return f.Token }
func (f *FuncDef) String() string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.Typ.String()+" "+p.Name)
	}
	return f.Typ.Ret.String() + " " + f.Name + "(" + strings.Join(params, ", ") + ") " + f.Body.String()
}

// TranslationUnit is the AST root: file-scope declarations and function
// definitions in source order.
type TranslationUnit struct {
	Token token.Token
	Decls []Node
}

func (t *TranslationUnit) Tok() token.Token { return t.Token }
func (t *TranslationUnit) String() string {
	var out bytes.Buffer
	for _, d := range t.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}
