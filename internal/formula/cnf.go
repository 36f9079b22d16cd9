package formula

// Lit is a literal tag reference by name: either positive (the tag must be
// present) or negated (the tag must be absent).
type Lit struct {
	Name string
	Neg  bool
}

func (l Lit) String() string {
	if l.Neg {
		return "!" + l.Name
	}
	return l.Name
}

// formula converts a literal back into a one-variable Formula.
func (l Lit) formula() Formula {
	if l.Neg {
		return Not{X: Var(l.Name)}
	}
	return Var(l.Name)
}

// ToCNF converts an arbitrary Formula into conjunctive normal form: an outer
// AND of inner ORs of literals. Uses De Morgan rewrites for negation and
// full distributivity for Or-of-Ands; worst-case output size is exponential
// in the input, which is accepted for the formula sizes this language sees.
func ToCNF(f Formula) [][]Lit {
	return rewrite(f)
}

func rewrite(f Formula) [][]Lit {
	switch v := f.(type) {
	case Var:
		return [][]Lit{{{Name: string(v)}}}
	case Not:
		switch inner := v.X.(type) {
		case Var:
			return [][]Lit{{{Name: string(inner), Neg: true}}}
		case Not:
			// Double negation: !!a -> a.
			return rewrite(inner.X)
		case And:
			// De Morgan: !(a & b) -> !a | !b.
			return rewrite(Or{L: Not{X: inner.L}, R: Not{X: inner.R}})
		case Or:
			// De Morgan: !(a | b) -> !a & !b.
			return rewrite(And{L: Not{X: inner.L}, R: Not{X: inner.R}})
		}
	case And:
		a := rewrite(v.L)
		b := rewrite(v.R)
		out := make([][]Lit, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return out
	case Or:
		// rewrite(L) has the form A1 ^ A2 ^ ... ^ Am and rewrite(R) has
		// the form B1 ^ B2 ^ ... ^ Bn, where each Ai/Bi is a disjunction
		// of literals. The CNF equivalent of (A1^...^Am) v (B1^...^Bn)
		// is the cross product (Ai v Bj) for every i, j.
		a := rewrite(v.L)
		b := rewrite(v.R)
		out := make([][]Lit, 0, len(a)*len(b))
		for _, ax := range a {
			for _, bx := range b {
				row := make([]Lit, 0, len(ax)+len(bx))
				row = append(row, ax...)
				row = append(row, bx...)
				out = append(out, row)
			}
		}
		return out
	}
	return nil
}

// FromCNF reconstructs a Formula from its CNF form, folding ORs into
// disjunctions and conjuncting the results. The outer and inner folds
// proceed right-to-left so that repeated round-trips through Parse/ToCNF
// produce a stable, unchanging printed form. Returns nil for an empty CNF.
func FromCNF(cnf [][]Lit) Formula {
	var result Formula
	for i := len(cnf) - 1; i >= 0; i-- {
		ors := cnf[i]
		if len(ors) == 0 {
			continue
		}
		var disj Formula = ors[len(ors)-1].formula()
		for j := len(ors) - 2; j >= 0; j-- {
			disj = Or{L: ors[j].formula(), R: disj}
		}
		if result == nil {
			result = disj
		} else {
			result = And{L: disj, R: result}
		}
	}
	return result
}
