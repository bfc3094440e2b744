package fsm

import (
	"fmt"
	"sort"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// enumeratePaths performs a DFS from every State node along outgoing
// connections, collecting every walk that terminates at another State and
// detecting cycles through intermediate nodes.
//
// Determinism: seeds are visited in node-appearance order; at each node,
// outgoing ports are visited in lexical order and connections within a
// port in their document order. Each recursive branch owns its own
// visited-set snapshot so diamond shapes through shared decisions are not
// spuriously cut off.
func (r *runCtx) enumeratePaths(nodes []Node) []Path {
	index := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}

	var seeds []Node
	for _, n := range nodes {
		if n.Type == TypeState {
			seeds = append(seeds, n)
		}
	}
	if len(seeds) == 0 {
		r.emit(diag.StagePaths, diag.CodeNoStartStates, "", "document has no State nodes to use as path roots", nil)
		return nil
	}

	var paths []Path
	for _, seed := range seeds {
		visited := map[string]bool{seed.ID: true}
		r.dfsWalk(index, seed.ID, Path{seed.ID}, visited, &paths)
	}
	return paths
}

func (r *runCtx) dfsWalk(index map[string]Node, currentID string, path Path, visited map[string]bool, out *[]Path) {
	current, ok := index[currentID]
	if !ok {
		return
	}

	for _, port := range sortedPortNames(current.Outputs) {
		for _, conn := range current.Outputs[port] {
			if conn.Node == "" {
				continue
			}

			target, ok := index[conn.Node]
			if !ok {
				r.emit(diag.StagePaths, diag.CodeMissingTarget, currentID,
					fmt.Sprintf("node %q references missing target %q on port %q", currentID, conn.Node, port), nil)
				continue
			}

			if target.Type == TypeState {
				completed := append(append(Path{}, path...), target.ID)
				*out = append(*out, completed)
				continue
			}

			if visited[target.ID] {
				r.emit(diag.StagePaths, diag.CodeCycleDetected, target.ID,
					fmt.Sprintf("cycle detected: walk re-enters %q", target.ID), map[string]interface{}{"via": currentID})
				continue
			}

			nextPath := append(append(Path{}, path...), target.ID)
			nextVisited := make(map[string]bool, len(visited)+1)
			for k := range visited {
				nextVisited[k] = true
			}
			nextVisited[target.ID] = true

			r.dfsWalk(index, target.ID, nextPath, nextVisited, out)
		}
	}
}

func sortedPortNames(pm PortMap) []string {
	names := make([]string, 0, len(pm))
	for name := range pm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
