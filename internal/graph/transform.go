package graph

import "strings"

// Transform runs the post-ingestion fixups described in spec §4.3, in
// order: register split, assign-alias register propagation, then the
// sanity checks. Call it exactly once, between ingestion and the first
// query: it is not idempotent, since a second call splits every DstReg
// again. It returns the warnings the sanity pass collected
// (it does not abort on them; spec §7 treats these as warnings, not errors).
func (g *Graph) Transform() []string {
	g.SplitRegVertices()
	g.PropagateAssignAliasRegisters()
	return g.CheckGraph()
}

// SplitRegVertices implements spec §4.3(a). Every vertex currently marked
// DstReg (set by the builder when it saw the var as the L-value of an
// AssignDly) is cloned into a new SrcReg vertex; all of the original's
// out-edges move to the clone, while its in-edges stay behind. After this,
// the original vertex is a pure sink (DstReg, out-degree 0) and the clone is
// a pure source (SrcReg, in-degree 0), so downstream traversal only ever
// follows genuinely combinational edges.
func (g *Graph) SplitRegVertices() {
	// Snapshot the register IDs before mutating, since AddVertex appends to
	// the same arena we are iterating.
	var regs []ID
	for i, v := range g.vertices {
		if v.Kind == DstReg {
			regs = append(regs, ID(i))
		}
	}
	for _, v := range regs {
		outAdj := append([]ID(nil), g.out[v]...)
		clone := g.vertices[v]
		clone.Kind = SrcReg
		srcReg := g.AddVertex(clone)
		for _, adj := range outAdj {
			g.RemoveEdge(v, adj)
			g.AddEdge(srcReg, adj)
		}
	}
}

// PropagateAssignAliasRegisters implements spec §4.3(b). Verilator
// introduces an AssignAlias logic node between a register and the signal it
// aliases; walking through it would hide the register identity of the
// aliased signal, so mark it DstReg directly.
func (g *Graph) PropagateAssignAliasRegisters() {
	for i, v := range g.vertices {
		if v.Kind != SrcReg {
			continue
		}
		for _, adj := range g.out[ID(i)] {
			if g.vertices[adj].Kind != AssignAlias {
				continue
			}
			aliasOut := g.out[adj]
			if len(aliasOut) != 1 {
				continue
			}
			target := aliasOut[0]
			g.vertices[target].Kind = DstReg
			g.vertices[target].IsAliasOfReg = true
		}
	}
}

// CheckGraph implements spec §4.3(c): it warns (does not error) on any
// vertex whose name still contains the elaborator's internal __Vlvbound
// marker, and on any SrcReg/DstReg whose degree violates the post-split
// invariants of spec §3.
func (g *Graph) CheckGraph() []string {
	var warnings []string
	for i, v := range g.vertices {
		id := ID(i)
		if v.Kind == Deleted {
			continue
		}
		if strings.Contains(v.Name, "__Vlvbound") {
			warnings = append(warnings, "vertex "+v.Name+" contains __Vlvbound")
		}
		if v.Kind == SrcReg && g.InDegree(id) > 0 {
			warnings = append(warnings, "source reg "+v.Name+" has in edges")
		}
		if v.Kind == DstReg && g.OutDegree(id) > 0 {
			warnings = append(warnings, "destination reg "+v.Name+" has out edges")
		}
	}
	return warnings
}
