package fsm

import (
	"fmt"
	"sort"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// Equations holds the synthesized Boolean equations for one compiled
// document: one next-state equation per state bit, and one equation per
// output symbol (Moore outputs driven purely by present state, Mealy/Event
// outputs driven by present state plus the input conjuncts of the walk that
// reaches them).
type Equations struct {
	NextState []Expr            // indexed by state bit
	Outputs   map[string]Expr   // output symbol -> equation
}

// synthesizeEquations builds the unminimized next-state and output
// equations from the annotated paths and allocated symbol tables.
//
// Present and next state use distinct symbol families (Y[i] vs YN[i])
// rather than aliasing one to the other: a term that asserts "next state
// bit i is 1" is expressed over Y[i] (present-state minterm) and contributes
// to the YN[i] equation, never the other way around.
func (r *runCtx) synthesizeEquations(codes StateCode, symbols SymbolTable, moore MooreTable, paths []AnnotatedPath) Equations {
	nextState := make([]Expr, symbols.NumBits)
	for i := range nextState {
		nextState[i] = False()
	}
	outputs := make(map[string]Expr, len(symbols.Outputs))
	for _, name := range symbols.Outputs {
		outputs[name] = False()
	}

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		first := path[0]
		last := path[len(path)-1]

		presentMinterm := r.stateMinterm(codes, symbols.NumBits, first.ID)
		if presentMinterm == nil {
			continue
		}

		// Build the path condition C once over the whole walk: every
		// Decision conjunct contributes regardless of where in the walk
		// an Event step that reads C sits. C is then reused unchanged for
		// the next-state assignment and every Event output it reaches.
		//
		// A conjunct belongs to step i whenever its predecessor (i-1) is a
		// Decision: the branch taken is recorded as step i's own
		// Indicator (the node entered, per annotate.go's computeIndicator),
		// never on the Decision node itself. Walking path[1:] inclusive of
		// the last element matters: a Decision whose exit lands directly
		// on the path's terminal State still has to contribute its
		// literal.
		inputConjuncts := []Expr{presentMinterm}
		var eventSteps []AnnotatedStep
		for i := 1; i < len(path); i++ {
			step := path[i]
			prev := path[i-1]

			if prev.Type == TypeDecision {
				if step.Indicator != IndicatorNone {
					lit := r.decisionLiteral(symbols, prev, step.Indicator)
					if lit != nil {
						inputConjuncts = append(inputConjuncts, lit)
					}
				}
			}

			if step.Type == TypeEvent && step.Text != "" {
				eventSteps = append(eventSteps, step)
			}
		}

		term := NewAnd(inputConjuncts...)

		for _, step := range eventSteps {
			if _, known := outputs[step.Text]; !known {
				r.emit(diag.StageSynthesize, diag.CodeUnknownStateCode, step.ID,
					fmt.Sprintf("event %q references an output symbol not in the allocated table", step.Text), nil)
				continue
			}
			outputs[step.Text] = NewOr(outputs[step.Text], term)
		}

		nextCode, ok := codes[last.ID]
		if !ok {
			r.emit(diag.StageSynthesize, diag.CodeUnknownStateCode, last.ID,
				fmt.Sprintf("path target %q has no allocated state code", last.ID), nil)
			continue
		}
		for i, bit := range nextCode {
			if bit != '1' {
				continue
			}
			nextState[i] = NewOr(nextState[i], term)
		}
	}

	mooreIDs := make([]string, 0, len(moore))
	for stateID := range moore {
		mooreIDs = append(mooreIDs, stateID)
	}
	sort.Strings(mooreIDs)
	for _, stateID := range mooreIDs {
		names := moore[stateID]
		minterm := r.stateMinterm(codes, symbols.NumBits, stateID)
		if minterm == nil {
			continue
		}
		for _, name := range names {
			if _, known := outputs[name]; !known {
				continue
			}
			outputs[name] = NewOr(outputs[name], minterm)
		}
	}

	return Equations{NextState: nextState, Outputs: outputs}
}

// stateMinterm builds the present-state literal conjunction Y[i] / !Y[i]
// for stateID's code. Returns nil (with a diagnostic already emitted) if
// stateID has no allocated code.
func (r *runCtx) stateMinterm(codes StateCode, numBits int, stateID string) Expr {
	code, ok := codes[stateID]
	if !ok {
		r.emit(diag.StageSynthesize, diag.CodeUnknownStateCode, stateID,
			fmt.Sprintf("state %q has no allocated state code", stateID), nil)
		return nil
	}
	literals := make([]Expr, 0, numBits)
	for i, bit := range code {
		v := Expr(NewVar(stateBitVar(i)))
		if bit != '1' {
			v = NewNot(v)
		}
		literals = append(literals, v)
	}
	return NewAnd(literals...)
}

// decisionLiteral renders a Decision node's branch as a literal over its
// input symbol: decisionStep is the Decision itself (its Text names the
// input variable); indicator is the exit branch actually taken, read off
// the step reached from it (True -> output_1 -> Var, False -> output_2 ->
// Not(Var)).
func (r *runCtx) decisionLiteral(symbols SymbolTable, decisionStep AnnotatedStep, indicator Indicator) Expr {
	found := false
	for _, name := range symbols.Inputs {
		if name == decisionStep.Text {
			found = true
			break
		}
	}
	if !found {
		r.emit(diag.StageSynthesize, diag.CodeUnknownStateCode, decisionStep.ID,
			fmt.Sprintf("decision %q references an input symbol not in the allocated table", decisionStep.Text), nil)
		return nil
	}
	v := Expr(NewVar(decisionStep.Text))
	if indicator == IndicatorFalse {
		v = NewNot(v)
	}
	return v
}
