package formula

import "testing"

func litsEqual(a, b []Lit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cnfEqual(a, b [][]Lit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !litsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestCNFToFormula(t *testing.T) {
	cnf := [][]Lit{
		{{Name: "a"}},
		{{Name: "b"}, {Name: "c", Neg: true}},
		{{Name: "d", Neg: true}, {Name: "b"}},
	}
	got := FromCNF(cnf)
	want := mustParse(t, "a & (b | !c) & (!d | b)")
	if !Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestFormulaToCNF(t *testing.T) {
	// Formula already in CNF, just not the right type.
	left := Or{L: Var("a"), R: Or{L: Not{X: Var("b")}, R: Not{X: Var("c")}}}
	formula := And{
		L: left,
		R: Or{L: Not{X: Var("d")}, R: Var("e")},
	}
	want := [][]Lit{
		{{Name: "a"}, {Name: "b", Neg: true}, {Name: "c", Neg: true}},
		{{Name: "d", Neg: true}, {Name: "e"}},
	}
	got := ToCNF(formula)
	if !cnfEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestParsingCNFConversionEquivalence(t *testing.T) {
	inputs := []string{"a & !b & !c", "a | !b | !c"}
	for _, input := range inputs {
		f := mustParse(t, input)
		cnf := ToCNF(f)
		got := FromCNF(cnf)
		if !Equal(got, f) {
			t.Errorf("round-trip through CNF for %q: got %#v, want %#v", input, got, f)
		}
	}
}

func TestCNFEmptyFoldsToNil(t *testing.T) {
	if got := FromCNF(nil); got != nil {
		t.Errorf("FromCNF(nil) = %#v, want nil", got)
	}
}
