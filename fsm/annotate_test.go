package fsm

import "testing"

func TestAnnotatePaths_Fixture(t *testing.T) {
	r := newTestRunCtx()
	nodes := r.normalize(Document(fixtureDoc))
	paths := r.enumeratePaths(nodes)
	annotated := r.annotatePaths(nodes, paths)

	if len(annotated) != 2 {
		t.Fatalf("got %d annotated paths, want 2", len(annotated))
	}

	for _, p := range annotated {
		if p[0].Indicator != IndicatorNone {
			t.Errorf("first step should never carry an indicator, got %v", p[0].Indicator)
		}
		switch len(p) {
		case 3: // S0 -> D -> S0, reached via D's output_2 (false) exit
			if p[2].Indicator != IndicatorFalse {
				t.Errorf("loop path re-entry indicator = %v, want False", p[2].Indicator)
			}
		case 4: // S0 -> D -> E -> S1, reached via D's output_1 (true) exit
			if p[2].Type != TypeEvent || p[2].Text != "beep" {
				t.Errorf("through path step 2 = %+v, want Event/beep", p[2])
			}
			if p[2].Indicator != IndicatorTrue {
				t.Errorf("through path event-step indicator = %v, want True", p[2].Indicator)
			}
		}
	}
}

func TestComputeIndicator_NoMatchingConnection(t *testing.T) {
	r := newTestRunCtx()
	n := Node{ID: "x", Inputs: PortMap{"input_1": {{Node: "other", Port: "output_1"}}}}
	if got := r.computeIndicator(n, "not-other"); got != IndicatorNone {
		t.Errorf("computeIndicator() = %v, want IndicatorNone", got)
	}
}

func TestComputeIndicator_AmbiguousPort(t *testing.T) {
	r := newTestRunCtx()
	n := Node{ID: "x", Inputs: PortMap{"input_1": {{Node: "prev", Port: "output_3"}}}}
	if got := r.computeIndicator(n, "prev"); got != IndicatorNone {
		t.Errorf("computeIndicator() = %v, want IndicatorNone", got)
	}
	if len(r.diagnostics) != 1 || r.diagnostics[0].Code != "ambiguous-indicator" {
		t.Errorf("expected one ambiguous-indicator diagnostic, got %v", r.diagnostics)
	}
}
