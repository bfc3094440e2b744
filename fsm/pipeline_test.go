package fsm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ingsock/Chartonics/fsm/diag"
)

func TestCompile_NilGuards(t *testing.T) {
	if _, err := Compile(nil, Document(fixtureDoc)); err != ErrNilContext {
		t.Errorf("Compile(nil ctx) error = %v, want ErrNilContext", err)
	}
	if _, err := Compile(context.Background(), nil); err != ErrNilDocument {
		t.Errorf("Compile(nil doc) error = %v, want ErrNilDocument", err)
	}
}

func TestCompile_Fixture(t *testing.T) {
	buf := diag.NewBufferedEmitter()
	result, err := Compile(context.Background(), Document(fixtureDoc),
		WithEntityName("fixture_fsm"),
		WithEmitter(buf),
		WithMinimizeDeadline(500*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a non-empty RunID")
	}
	if !strings.Contains(result.VHDL, "entity fixture_fsm is") {
		t.Errorf("VHDL missing entity declaration:\n%s", result.VHDL)
	}
	if len(result.Paths) != 2 {
		t.Errorf("got %d paths, want 2", len(result.Paths))
	}
	if len(buf.GetHistory(result.RunID)) != len(result.Diagnostics) {
		t.Errorf("buffered emitter history (%d) should match result.Diagnostics (%d)",
			len(buf.GetHistory(result.RunID)), len(result.Diagnostics))
	}
}

func TestCompile_EmptyDocumentProducesEmptyResultNoError(t *testing.T) {
	result, err := Compile(context.Background(), Document(`{}`))
	if err != nil {
		t.Fatalf("Compile on an empty document should not error, got %v", err)
	}
	if len(result.Nodes) != 0 {
		t.Errorf("expected no nodes from an empty document, got %v", result.Nodes)
	}
	if !strings.Contains(result.VHDL, "entity fsm_top is") {
		t.Errorf("expected a valid (if vacuous) VHDL skeleton, got:\n%s", result.VHDL)
	}
}

func TestCompile_OptionError(t *testing.T) {
	badOpt := func(cfg *compileConfig) error { return errTestOption }
	_, err := Compile(context.Background(), Document(fixtureDoc), badOpt)
	if err != errTestOption {
		t.Errorf("Compile() error = %v, want errTestOption", err)
	}
}

var errTestOption = &testOptionError{}

type testOptionError struct{}

func (*testOptionError) Error() string { return "bad option" }
