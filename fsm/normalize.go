package fsm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// Document is the raw Drawflow-style export accepted by Compile. Only the
// drawflow.Home.data subtree is consumed; everything else in the document
// is ignored.
type Document []byte

type rawPort struct {
	Connections []rawConnection `json:"connections"`
}

type rawConnection struct {
	Node string `json:"node"`
	// Input and Output both carry the peer's port name depending on which
	// side the connection is read from: the document names the field
	// "input" under a node's inputs map and "output" under its outputs
	// map. See Connection's doc comment in types.go.
	Input  string `json:"input"`
	Output string `json:"output"`
}

type rawData struct {
	Data string `json:"data"`
}

type rawNode struct {
	ID      json.Number        `json:"id"`
	Name    string             `json:"name"`
	Inputs  map[string]rawPort `json:"inputs"`
	Outputs map[string]rawPort `json:"outputs"`
	Data    rawData            `json:"data"`
}

// normalize walks Document, emits a flat Node table with typed attributes
// and validated port/connection data. Never errors: an unrecognized
// top-level shape yields an empty list (the "empty-output" soft-failure
// case from the pipeline's error-handling design).
//
// Key order of the source drawflow.Home.data object is preserved in the
// returned slice, since downstream seed and port ordering determinism
// depends on it; encoding/json's map decoding does not preserve key order,
// so the subtree is walked with a token-level decoder instead.
func (r *runCtx) normalize(doc Document) []Node {
	raw, ok := extractHomeData(doc)
	if !ok {
		return nil
	}

	keys, err := orderedObjectKeys(raw)
	if err != nil {
		return nil
	}

	var rawByKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawByKey); err != nil {
		return nil
	}

	nodes := make([]Node, 0, len(keys))
	for _, key := range keys {
		entryRaw, ok := rawByKey[key]
		if !ok {
			continue
		}

		var entry rawNode
		if err := json.Unmarshal(entryRaw, &entry); err != nil {
			r.emit(diag.StageNormalize, diag.CodeInvalidNodeShape, key,
				fmt.Sprintf("node %q is not a valid node object: %v", key, err), nil)
			continue
		}
		if entry.Name == "" {
			r.emit(diag.StageNormalize, diag.CodeInvalidNodeShape, key,
				fmt.Sprintf("node %q missing required fields", key), nil)
			continue
		}
		if entry.ID.String() != key {
			r.emit(diag.StageNormalize, diag.CodeIDMismatch, key,
				fmt.Sprintf("node key %q does not match embedded id %q", key, entry.ID.String()), nil)
			continue
		}

		nt := NodeType(entry.Name)
		if nt != TypeState && nt != TypeDecision && nt != TypeEvent {
			continue
		}

		nodes = append(nodes, Node{
			ID:      key,
			Type:    nt,
			Inputs:  toPortMap(entry.Inputs),
			Outputs: toPortMap(entry.Outputs),
			Text:    entry.Data.Data,
		})
	}

	return nodes
}

func toPortMap(raw map[string]rawPort) PortMap {
	pm := make(PortMap, len(raw))
	for port, rp := range raw {
		conns := make([]Connection, 0, len(rp.Connections))
		for _, rc := range rp.Connections {
			peerPort := rc.Input
			if peerPort == "" {
				peerPort = rc.Output
			}
			conns = append(conns, Connection{Node: rc.Node, Port: peerPort})
		}
		pm[port] = conns
	}
	return pm
}

// extractHomeData locates the drawflow.Home.data subtree and returns its
// raw JSON object bytes, or ok=false if any segment of the path is absent
// or not an object.
func extractHomeData(doc Document) (json.RawMessage, bool) {
	var top struct {
		Drawflow struct {
			Home struct {
				Data json.RawMessage `json:"data"`
			} `json:"Home"`
		} `json:"drawflow"`
	}
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, false
	}
	if len(top.Drawflow.Home.Data) == 0 {
		return nil, false
	}
	trimmed := bytes.TrimSpace(top.Drawflow.Home.Data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	return top.Drawflow.Home.Data, true
}

// orderedObjectKeys returns the top-level keys of a JSON object in source
// order, using a token-level scan since encoding/json's map decoding
// discards order.
func orderedObjectKeys(obj json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		keys = append(keys, key)

		// Skip the value without decoding it into a concrete type.
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
