package fsm

// NodeType is the tagged variant of a Drawflow node relevant to compilation.
type NodeType string

const (
	// TypeState is a stable FSM state. Its text, if non-empty, is split on
	// line breaks into Moore output names active while the state holds.
	TypeState NodeType = "state"

	// TypeDecision is a combinational branch. Its text is a single-bit
	// input variable name; its outputs are output_1 (true) / output_2 (false).
	TypeDecision NodeType = "decision"

	// TypeEvent is a Mealy output. Its text is an output name asserted
	// while the walk containing it is active.
	TypeEvent NodeType = "event"
)

// Connection identifies a peer node id and the port name at the peer end.
//
// Per the document's own convention, a Connection stored under a node's
// input port names the source node in Node and the *source's output port*
// in Port — the field is literally called "input" in the wire format even
// though it holds the peer's output port name. See Document for the raw
// shape this is decoded from.
type Connection struct {
	Node string
	Port string
}

// PortMap maps a port name (e.g. "output_1", "input_1") to the list of
// Connections attached to it.
type PortMap map[string][]Connection

// Node is a normalized graph node ready for path enumeration.
type Node struct {
	ID      string
	Type    NodeType
	Inputs  PortMap
	Outputs PortMap
	Text    string
}

// Indicator records which branch of a Decision a path step was reached
// through.
type Indicator int

const (
	// IndicatorNone means the step is a path's first step, or its input_1
	// has no connection from the previous step, or that connection's port
	// is neither output_1 nor output_2.
	IndicatorNone Indicator = iota
	// IndicatorTrue means the step was reached via the previous step's
	// output_1, whatever that step's type; only a Decision predecessor
	// turns it into an input literal.
	IndicatorTrue
	// IndicatorFalse means the step was reached via the previous step's
	// output_2.
	IndicatorFalse
)

// Path is an ordered, non-empty sequence of node ids: first and last are
// State nodes, all interior nodes are Decision or Event.
type Path []string

// AnnotatedStep is one position in an annotated path.
type AnnotatedStep struct {
	ID        string
	Text      string
	Type      NodeType
	Indicator Indicator
}

// AnnotatedPath is a Path with per-step branch metadata attached.
type AnnotatedPath []AnnotatedStep

// StateCode maps a State node id to its fixed-width binary code string,
// e.g. "01". Width = max(1, ceil(log2(len(states)))).
type StateCode map[string]string

// SymbolTable holds the three disjoint symbol domains: state bits, inputs,
// and outputs. Inputs and Outputs are sorted name lists, used both for
// deterministic allocation order and for VHDL port declarations.
type SymbolTable struct {
	NumBits int
	Inputs  []string
	Outputs []string
}

// MooreTable maps a State id to the list of Moore output names asserted
// while that state is current.
type MooreTable map[string][]string
