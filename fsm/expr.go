package fsm

import "sort"

// Expr is the symbolic Boolean expression ADT used for every equation the
// pipeline synthesizes: present/next-state bits, input variables, and
// output symbols are all Vars; equations are built purely structurally so
// they can be compared, deduplicated, and minimized without ever
// evaluating against a concrete valuation.
//
// Variants: Var, Not, And, Or, and the boolConst true/false. Construct the
// constants via True() and False(), never a bare struct literal, so
// structural equality (Equal) stays correct as the type evolves.
type Expr interface {
	isExpr()
	// Equal reports structural equality: same variant, same operands in
	// the same order. And/Or are NOT treated as commutative — callers
	// that build equations incrementally should keep operand order
	// canonical (this package always appends in a fixed traversal order).
	Equal(other Expr) bool
	// String renders a debugging form, not VHDL (see renderVHDL for that).
	String() string
}

// Var is a named Boolean variable: a state bit (Y[i]/YN[i]), a Decision's
// input name, or an output symbol.
type Var struct {
	Name string
}

func (Var) isExpr() {}
func (v Var) Equal(other Expr) bool {
	o, ok := other.(Var)
	return ok && o.Name == v.Name
}
func (v Var) String() string { return v.Name }

// Not negates its operand.
type Not struct {
	X Expr
}

func (Not) isExpr() {}
func (n Not) Equal(other Expr) bool {
	o, ok := other.(Not)
	return ok && n.X.Equal(o.X)
}
func (n Not) String() string { return "!" + n.X.String() }

// And is a conjunction of two or more operands.
type And struct {
	Operands []Expr
}

func (And) isExpr() {}
func (a And) Equal(other Expr) bool {
	o, ok := other.(And)
	if !ok || len(o.Operands) != len(a.Operands) {
		return false
	}
	for i := range a.Operands {
		if !a.Operands[i].Equal(o.Operands[i]) {
			return false
		}
	}
	return true
}
func (a And) String() string { return joinExprs(a.Operands, " & ") }

// Or is a disjunction of two or more operands.
type Or struct {
	Operands []Expr
}

func (Or) isExpr() {}
func (o Or) Equal(other Expr) bool {
	p, ok := other.(Or)
	if !ok || len(p.Operands) != len(o.Operands) {
		return false
	}
	for i := range o.Operands {
		if !o.Operands[i].Equal(p.Operands[i]) {
			return false
		}
	}
	return true
}
func (o Or) String() string { return joinExprs(o.Operands, " | ") }

type boolConst struct{ v bool }

func (boolConst) isExpr() {}
func (b boolConst) Equal(other Expr) bool {
	o, ok := other.(boolConst)
	return ok && o.v == b.v
}
func (b boolConst) String() string {
	if b.v {
		return "true"
	}
	return "false"
}

// True is the Boolean constant true; the AND identity.
func True() Expr { return boolConst{v: true} }

// False is the Boolean constant false; the OR identity (empty disjunction).
func False() Expr { return boolConst{v: false} }

func isTrue(e Expr) bool  { b, ok := e.(boolConst); return ok && b.v }
func isFalse(e Expr) bool { b, ok := e.(boolConst); return ok && !b.v }

func joinExprs(es []Expr, sep string) string {
	s := ""
	for i, e := range es {
		if i > 0 {
			s += sep
		}
		s += "(" + e.String() + ")"
	}
	return s
}

// NewVar constructs a Var with the given name.
func NewVar(name string) Expr { return Var{Name: name} }

// NewNot constructs the negation of x. Negating a constant folds directly.
func NewNot(x Expr) Expr {
	if isTrue(x) {
		return False()
	}
	if isFalse(x) {
		return True()
	}
	return Not{X: x}
}

// NewAnd conjoins operands, folding away the neutral `true` and
// short-circuiting on `false`. Returns True() for an empty operand list and
// the operand itself for a singleton.
func NewAnd(operands ...Expr) Expr {
	var kept []Expr
	for _, o := range operands {
		if isFalse(o) {
			return False()
		}
		if isTrue(o) {
			continue
		}
		kept = append(kept, o)
	}
	switch len(kept) {
	case 0:
		return True()
	case 1:
		return kept[0]
	default:
		return And{Operands: kept}
	}
}

// NewOr disjoins operands, folding away the neutral `false` and
// short-circuiting on `true`. Returns False() for an empty operand list
// (the identity new equations start from) and the operand itself for a
// singleton.
func NewOr(operands ...Expr) Expr {
	var kept []Expr
	for _, o := range operands {
		if isTrue(o) {
			return True()
		}
		if isFalse(o) {
			continue
		}
		kept = append(kept, o)
	}
	switch len(kept) {
	case 0:
		return False()
	case 1:
		return kept[0]
	default:
		return Or{Operands: kept}
	}
}

// Vars returns the distinct variable names referenced by e, sorted for
// deterministic truth-table enumeration.
func Vars(e Expr) []string {
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Var:
			seen[v.Name] = true
		case Not:
			walk(v.X)
		case And:
			for _, o := range v.Operands {
				walk(o)
			}
		case Or:
			for _, o := range v.Operands {
				walk(o)
			}
		}
	}
	walk(e)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates e under valuation (var name -> bool). Undefined variables
// are treated as false.
func Eval(e Expr, valuation map[string]bool) bool {
	switch v := e.(type) {
	case boolConst:
		return v.v
	case Var:
		return valuation[v.Name]
	case Not:
		return !Eval(v.X, valuation)
	case And:
		for _, o := range v.Operands {
			if !Eval(o, valuation) {
				return false
			}
		}
		return true
	case Or:
		for _, o := range v.Operands {
			if Eval(o, valuation) {
				return true
			}
		}
		return false
	}
	return false
}
