package ir

import (
	"fmt"
	"strings"
)

// String renders the module in an LLVM-flavored textual form. The dump
// is deterministic: unnamed values number from %0 per function and
// duplicate names get a numeric suffix.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; module %s\n", m.Name)
	for _, g := range m.Globals {
		sb.WriteString("\n")
		sb.WriteString(printGlobal(g))
		sb.WriteString("\n")
	}
	for _, f := range m.Funcs {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}
	return sb.String()
}

func printGlobal(g *Global) string {
	init := "zeroinitializer"
	if g.Init != nil {
		init = g.Init.Name()
	}
	s := fmt.Sprintf("@%s = global %s %s", g.Nam, g.Ty.Elem, init)
	for _, a := range g.Attrs {
		s += ", !" + a.String()
	}
	return s
}

// String renders one function.
func (f *Function) String() string {
	p := newPrinter()
	var sb strings.Builder

	var params []string
	for i, a := range f.Args {
		s := a.Ty.String()
		for _, attr := range f.ParamAttrs[i] {
			s += " " + attr.String()
		}
		s += " " + p.ref(a)
		params = append(params, s)
	}

	if len(f.Blocks) == 0 {
		return fmt.Sprintf("declare %s @%s(%s)\n", f.Sig.Ret, f.Nam, strings.Join(params, ", "))
	}

	fmt.Fprintf(&sb, "define %s @%s(%s) {\n", f.Sig.Ret, f.Nam, strings.Join(params, ", "))
	for i, bb := range f.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", p.label(bb))
		for _, ins := range bb.Instrs {
			sb.WriteString("  ")
			sb.WriteString(p.instr(ins))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// printer assigns stable names to values and block labels within one
// function.
type printer struct {
	names  map[Value]string
	labels map[*BasicBlock]string
	used   map[string]int
	next   int
}

func newPrinter() *printer {
	return &printer{
		names:  make(map[Value]string),
		labels: make(map[*BasicBlock]string),
		used:   make(map[string]int),
	}
}

func (p *printer) unique(base string) string {
	n := p.used[base]
	p.used[base]++
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}

// ref renders a value as an operand.
func (p *printer) ref(v Value) string {
	switch v := v.(type) {
	case *ConstInt:
		return fmt.Sprintf("%d", v.V)
	case *ConstFloat:
		return fmt.Sprintf("%g", v.V)
	case *Undef:
		return "undef"
	case *Global:
		return "@" + v.Nam
	case *Function:
		return "@" + v.Nam
	}
	if s, ok := p.names[v]; ok {
		return s
	}
	base := v.Name()
	if base == "" {
		base = fmt.Sprintf("%d", p.next)
		p.next++
	} else {
		base = p.unique(base)
	}
	s := "%" + base
	p.names[v] = s
	return s
}

// typedRef renders "type value".
func (p *printer) typedRef(v Value) string {
	return v.Type().String() + " " + p.ref(v)
}

func (p *printer) label(bb *BasicBlock) string {
	if s, ok := p.labels[bb]; ok {
		return s
	}
	base := bb.Nam
	if base == "" {
		base = "bb"
	}
	s := p.unique(base)
	p.labels[bb] = s
	return s
}

func (p *printer) instr(i *Instr) string {
	var s string
	switch i.Op {
	case OpICmp, OpFCmp:
		s = fmt.Sprintf("%s = %s %s %s, %s",
			p.ref(i), i.Op, i.Pred, p.typedRef(i.Ops[0]), p.ref(i.Ops[1]))
	case OpAlloca:
		s = fmt.Sprintf("%s = alloca %s", p.ref(i), i.Ty.(*PointerType).Elem)
	case OpLoad:
		s = fmt.Sprintf("%s = load %s, %s", p.ref(i), i.Ty, p.typedRef(i.Ops[0]))
	case OpStore:
		s = fmt.Sprintf("store %s, %s", p.typedRef(i.Ops[0]), p.typedRef(i.Ops[1]))
	case OpCall:
		var args []string
		for _, a := range i.Ops {
			args = append(args, p.typedRef(a))
		}
		call := fmt.Sprintf("call %s @%s(%s)", i.Ty, i.Callee.Nam, strings.Join(args, ", "))
		if IsVoid(i.Ty) {
			s = call
		} else {
			s = p.ref(i) + " = " + call
		}
	case OpSplat, OpBroadcast:
		s = fmt.Sprintf("%s = %s %s to %s", p.ref(i), i.Op, p.typedRef(i.Ops[0]), i.Ty)
	case OpTrans:
		perm := make([]string, len(i.Perm))
		for k, d := range i.Perm {
			perm[k] = fmt.Sprintf("%d", d)
		}
		s = fmt.Sprintf("%s = trans %s to %s, perm [%s]",
			p.ref(i), p.typedRef(i.Ops[0]), i.Ty, strings.Join(perm, " "))
	case OpCast:
		s = fmt.Sprintf("%s = %s %s to %s", p.ref(i), i.Cast, p.typedRef(i.Ops[0]), i.Ty)
	case OpSelect:
		s = fmt.Sprintf("%s = select %s, %s, %s",
			p.ref(i), p.typedRef(i.Ops[0]), p.typedRef(i.Ops[1]), p.typedRef(i.Ops[2]))
	case OpPhi:
		var inc []string
		for k, v := range i.Ops {
			inc = append(inc, fmt.Sprintf("[ %s, %%%s ]", p.ref(v), p.label(i.Blocks[k])))
		}
		s = fmt.Sprintf("%s = phi %s %s", p.ref(i), i.Ty, strings.Join(inc, ", "))
	case OpBr:
		s = fmt.Sprintf("br label %%%s", p.label(i.Blocks[0]))
	case OpCondBr:
		s = fmt.Sprintf("br %s, label %%%s, label %%%s",
			p.typedRef(i.Ops[0]), p.label(i.Blocks[0]), p.label(i.Blocks[1]))
	case OpRet:
		if len(i.Ops) == 0 {
			s = "ret void"
		} else {
			s = "ret " + p.typedRef(i.Ops[0])
		}
	default:
		s = fmt.Sprintf("%s = %s %s, %s", p.ref(i), i.Op, p.typedRef(i.Ops[0]), p.ref(i.Ops[1]))
	}
	for _, a := range i.Meta {
		s += ", !" + a.String()
	}
	return s
}
