package fsm

import "testing"

func TestSynthesizeEquations_Fixture(t *testing.T) {
	r := newTestRunCtx()
	nodes := r.normalize(Document(fixtureDoc))
	paths := r.enumeratePaths(nodes)
	annotated := r.annotatePaths(nodes, paths)
	codes, symbols, moore := r.allocateSymbols(nodes)
	eqs := r.synthesizeEquations(codes, symbols, moore, annotated)

	if len(eqs.NextState) != symbols.NumBits {
		t.Fatalf("got %d next-state equations, want %d", len(eqs.NextState), symbols.NumBits)
	}
	if _, ok := eqs.Outputs["beep"]; !ok {
		t.Fatalf("expected an equation for output %q, got %v", "beep", eqs.Outputs)
	}

	// beep should only assert along the true (cond) branch out of state "1".
	y0 := stateBitVar(0)
	bit0, ok := codes["1"]
	if !ok {
		t.Fatal("state 1 has no allocated code")
	}
	present := true
	if bit0[0] == '0' {
		present = false
	}
	got := Eval(eqs.Outputs["beep"], map[string]bool{y0: present, "cond": true})
	if !got {
		t.Errorf("beep should assert when in state 1 with cond true, equation: %v", eqs.Outputs["beep"])
	}
	gotFalse := Eval(eqs.Outputs["beep"], map[string]bool{y0: present, "cond": false})
	if gotFalse {
		t.Errorf("beep should not assert when cond is false, equation: %v", eqs.Outputs["beep"])
	}
}

func TestSynthesizeEquations_SkipsNoneIndicatorSteps(t *testing.T) {
	r := newTestRunCtx()
	nodes := r.normalize(Document(fixtureDoc))
	paths := r.enumeratePaths(nodes)
	annotated := r.annotatePaths(nodes, paths)
	// The first annotated step of every path carries IndicatorNone by
	// construction; check that, then check synthesis still yields a
	// next-state equation that references at least one variable.
	for _, p := range annotated {
		if p[0].Indicator != IndicatorNone {
			t.Fatalf("path seed should never carry an indicator: %+v", p[0])
		}
	}
	codes, symbols, moore := r.allocateSymbols(nodes)
	eqs := r.synthesizeEquations(codes, symbols, moore, annotated)
	if len(Vars(eqs.NextState[0])) == 0 {
		t.Fatalf("next-state equation should reference at least the state bit")
	}
}
