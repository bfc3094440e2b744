// Package fsm compiles a Drawflow-style visual FSM graph into synthesizable
// VHDL.
package fsm

import "errors"

// ErrNilContext is returned by Compile when called with a nil
// context.Context. Every other malformed-input condition is absorbed into
// a diagnostic rather than a Go error; a nil context is a caller mistake,
// not a document problem.
var ErrNilContext = errors.New("fsm: nil context")

// ErrNilDocument is returned by Compile when called with a nil Document.
// Like ErrNilContext, this is a caller mistake rather than something the
// pipeline can recover from by emitting a diagnostic.
var ErrNilDocument = errors.New("fsm: nil document")
