package netlist

import (
	"fmt"

	"github.com/netlist-paths/netlistpaths/internal/lint"
	"github.com/netlist-paths/netlistpaths/internal/validate"
)

// Lint validates the graph's export against the netlist schema, then
// evaluates the structural lint policy over it. Schema validation failing
// is itself returned as an error rather than a lint.Violation: it means the
// export shape is broken, not that the design has a real defect.
func (n *Netlist) Lint() (*lint.Result, error) {
	export := n.Export()

	v, err := validate.New()
	if err != nil {
		return nil, fmt.Errorf("loading schema validator: %w", err)
	}
	if err := v.Validate(export); err != nil {
		return nil, fmt.Errorf("netlist export failed schema validation: %w", err)
	}

	engine, err := lint.New()
	if err != nil {
		return nil, fmt.Errorf("loading lint policy: %w", err)
	}
	return engine.Evaluate(n.LintFacts())
}
