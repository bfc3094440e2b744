// Package diag provides the diagnostics channel for the FSM compiler.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter writes structured log output to an io.Writer.
//
// Supports two output modes:
//   - Text mode (default): human-readable key=value pairs.
//   - JSON mode: one JSON object per line (JSONL).
//
// Example text output:
//
//	[cycle-detected] runID=run-1 stage=paths nodeID=5 msg="..."
//
// Example JSON output:
//
//	{"runID":"run-1","stage":"paths","code":"cycle-detected","nodeID":"5","msg":"...","meta":null}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter writing to writer (os.Stdout if nil) in
// either text (jsonMode=false) or JSONL (jsonMode=true) format.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes d in the configured format.
func (l *LogEmitter) Emit(d Diagnostic) {
	if l.jsonMode {
		l.emitJSON(d)
	} else {
		l.emitText(d)
	}
}

// EmitBatch writes every diagnostic in ds in order. Always attempts to
// write all of them and always returns nil.
func (l *LogEmitter) EmitBatch(_ context.Context, ds []Diagnostic) error {
	for _, d := range ds {
		l.Emit(d)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes synchronously with no internal
// buffering. Provided to satisfy Emitter for polymorphic use alongside
// OTelEmitter, which does buffer.
func (l *LogEmitter) Flush(_ context.Context) error {
	return nil
}

func (l *LogEmitter) emitJSON(d Diagnostic) {
	data, err := json.Marshal(struct {
		RunID  string                 `json:"runID"`
		Stage  Stage                  `json:"stage"`
		Code   Code                   `json:"code"`
		NodeID string                 `json:"nodeID"`
		Msg    string                 `json:"msg"`
		Meta   map[string]interface{} `json:"meta"`
	}{
		RunID:  d.RunID,
		Stage:  d.Stage,
		Code:   d.Code,
		NodeID: d.NodeID,
		Msg:    d.Msg,
		Meta:   d.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal diagnostic: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(d Diagnostic) {
	_, _ = fmt.Fprintf(l.writer, "[%s] runID=%s stage=%s nodeID=%s msg=%q",
		d.Code, d.RunID, d.Stage, d.NodeID, d.Msg)
	if len(d.Meta) > 0 {
		if metaJSON, err := json.Marshal(d.Meta); err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			_, _ = fmt.Fprintf(l.writer, " meta=%v", d.Meta)
		}
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}
