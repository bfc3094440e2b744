package fsm

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// allocateSymbols assigns binary state codes and allocates the input and
// output symbol domains. Sorting before allocation ensures the same
// document always produces the same codes and symbol order.
func (r *runCtx) allocateSymbols(nodes []Node) (StateCode, SymbolTable, MooreTable) {
	var stateIDs []string
	inputSet := map[string]bool{}
	outputSet := map[string]bool{}
	moore := MooreTable{}

	for _, n := range nodes {
		switch n.Type {
		case TypeState:
			stateIDs = append(stateIDs, n.ID)
			if n.Text != "" {
				lines := splitNonEmptyLines(n.Text)
				if len(lines) > 0 {
					moore[n.ID] = lines
					for _, name := range lines {
						outputSet[name] = true
					}
				}
			}
		case TypeDecision:
			if n.Text != "" {
				inputSet[n.Text] = true
			}
		case TypeEvent:
			if n.Text != "" {
				outputSet[n.Text] = true
			}
		}
	}

	sort.Strings(stateIDs)
	codes := assignStateCodes(stateIDs)

	inputs := make([]string, 0, len(inputSet))
	for name := range inputSet {
		inputs = append(inputs, name)
	}
	sort.Strings(inputs)

	outputs := make([]string, 0, len(outputSet))
	for name := range outputSet {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)

	return codes, SymbolTable{NumBits: numStateBits(len(stateIDs)), Inputs: inputs, Outputs: outputs}, moore
}

// numStateBits returns max(1, ceil(log2(n))).
func numStateBits(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// assignStateCodes assigns sequential binary codes of uniform width to the
// already-sorted stateIDs.
func assignStateCodes(sortedStateIDs []string) StateCode {
	width := numStateBits(len(sortedStateIDs))
	codes := make(StateCode, len(sortedStateIDs))
	for i, id := range sortedStateIDs {
		codes[id] = fmt.Sprintf("%0*b", width, i)
	}
	return codes
}

// splitNonEmptyLines splits text on line breaks, trimming surrounding
// whitespace and dropping empty lines.
func splitNonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stateBitVar returns the present-state symbol Y[i].
func stateBitVar(i int) string { return fmt.Sprintf("Y%d", i) }

// nextStateBitVar returns the distinct next-state symbol YN[i], keyed
// separately from Y[i] per the present/next aliasing redesign.
func nextStateBitVar(i int) string { return fmt.Sprintf("YN%d", i) }
