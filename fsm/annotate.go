package fsm

import (
	"fmt"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// annotatePaths attaches per-step branch metadata to each enumerated path:
// for a step reached from a Decision, whether it came from that Decision's
// output_1 (True) or output_2 (False) branch.
func (r *runCtx) annotatePaths(nodes []Node, paths []Path) []AnnotatedPath {
	index := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}

	annotated := make([]AnnotatedPath, 0, len(paths))
	for _, p := range paths {
		annotated = append(annotated, r.annotateOne(index, p))
	}
	return annotated
}

func (r *runCtx) annotateOne(index map[string]Node, p Path) AnnotatedPath {
	steps := make(AnnotatedPath, 0, len(p))
	for i, id := range p {
		n, ok := index[id]
		if !ok {
			steps = append(steps, AnnotatedStep{ID: id, Indicator: IndicatorNone})
			continue
		}

		step := AnnotatedStep{ID: n.ID, Text: n.Text, Type: n.Type, Indicator: IndicatorNone}
		if i > 0 {
			prevID := p[i-1]
			step.Indicator = r.computeIndicator(n, prevID)
		}
		steps = append(steps, step)
	}
	return steps
}

// computeIndicator inspects n's "input_1" connections for one whose peer
// node equals prevID, and maps its port to True/False/None.
func (r *runCtx) computeIndicator(n Node, prevID string) Indicator {
	conns, ok := n.Inputs["input_1"]
	if !ok {
		return IndicatorNone
	}

	for _, c := range conns {
		if c.Node != prevID {
			continue
		}
		switch c.Port {
		case "output_1":
			return IndicatorTrue
		case "output_2":
			return IndicatorFalse
		default:
			r.emit(diag.StageAnnotate, diag.CodeAmbiguousIndicator, n.ID,
				fmt.Sprintf("connection from %q uses unrecognized port %q", prevID, c.Port),
				map[string]interface{}{"port": c.Port})
			return IndicatorNone
		}
	}
	return IndicatorNone
}
