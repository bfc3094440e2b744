package fsm

import (
	"fmt"
	"strings"
)

// emitVHDL renders entityName, symbols and eqs as synthesizable VHDL text:
// an entity with a clock, an asynchronous active-high reset, one std_logic
// port per input/output symbol, and an architecture holding the state
// register plus one concurrent signal assignment per next-state bit and
// per output.
func (r *runCtx) emitVHDL(entityName string, symbols SymbolTable, eqs Equations) string {
	var b strings.Builder

	b.WriteString("library ieee;\n")
	b.WriteString("use ieee.std_logic_1164.all;\n\n")

	fmt.Fprintf(&b, "entity %s is\n", entityName)
	b.WriteString("  port (\n")
	b.WriteString("    clk   : in  std_logic;\n")
	b.WriteString("    reset : in  std_logic")
	for _, name := range symbols.Inputs {
		fmt.Fprintf(&b, ";\n    %s : in  std_logic", name)
	}
	for _, name := range symbols.Outputs {
		fmt.Fprintf(&b, ";\n    %s : out std_logic", name)
	}
	b.WriteString("\n  );\n")
	fmt.Fprintf(&b, "end entity %s;\n\n", entityName)

	fmt.Fprintf(&b, "architecture rtl of %s is\n", entityName)
	fmt.Fprintf(&b, "  signal current_state  : std_logic_vector(%d downto 0);\n", symbols.NumBits-1)
	fmt.Fprintf(&b, "  signal next_state : std_logic_vector(%d downto 0);\n", symbols.NumBits-1)
	b.WriteString("begin\n\n")

	b.WriteString("  sync_proc : process (clk, reset) is\n")
	b.WriteString("  begin\n")
	b.WriteString("    if reset = '1' then\n")
	fmt.Fprintf(&b, "      current_state <= (others => '0');\n")
	b.WriteString("    elsif rising_edge(clk) then\n")
	b.WriteString("      current_state <= next_state;\n")
	b.WriteString("    end if;\n")
	b.WriteString("  end process sync_proc;\n\n")

	for i, eq := range eqs.NextState {
		fmt.Fprintf(&b, "  next_state(%d) <= %s;\n", i, renderVHDL(eq, symbols.NumBits))
	}
	b.WriteString("\n")

	for _, name := range symbols.Outputs {
		eq, ok := eqs.Outputs[name]
		if !ok {
			eq = False()
		}
		fmt.Fprintf(&b, "  %s <= %s;\n", name, renderVHDL(eq, symbols.NumBits))
	}

	fmt.Fprintf(&b, "\nend architecture rtl;\n")
	return b.String()
}

// renderVHDL renders e as a VHDL boolean expression. Present-state
// variables Y[i] are rewritten to current_state(i); every other Var renders as
// its bare symbol name, matching the port/signal it was declared under.
func renderVHDL(e Expr, numBits int) string {
	switch v := e.(type) {
	case boolConst:
		if v.v {
			return "'1'"
		}
		return "'0'"
	case Var:
		if bit, ok := stateBitIndex(v.Name); ok {
			return fmt.Sprintf("current_state(%d)", bit)
		}
		return v.Name
	case Not:
		return "not (" + renderVHDL(v.X, numBits) + ")"
	case And:
		return renderJoin(v.Operands, "and", numBits)
	case Or:
		return renderJoin(v.Operands, "or", numBits)
	}
	return "'0'"
}

func renderJoin(operands []Expr, op string, numBits int) string {
	if len(operands) == 0 {
		if op == "and" {
			return "'1'"
		}
		return "'0'"
	}
	parts := make([]string, len(operands))
	for i, o := range operands {
		parts[i] = "(" + renderVHDL(o, numBits) + ")"
	}
	return strings.Join(parts, " "+op+" ")
}

// stateBitIndex recognizes a present-state symbol Y<i> and returns its bit
// index.
func stateBitIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "Y") || strings.HasPrefix(name, "YN") {
		return 0, false
	}
	var i int
	if _, err := fmt.Sscanf(name, "Y%d", &i); err != nil {
		return 0, false
	}
	return i, true
}
