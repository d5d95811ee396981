package graph

import "testing"

func TestSplitRegVerticesSeparatesSourceAndDestination(t *testing.T) {
	g := New()
	in := g.AddVertex(Vertex{Kind: Var, Name: "in"})
	logicIn := g.AddVertex(Vertex{Kind: AssignDly})
	reg := g.AddVertex(Vertex{Kind: DstReg, Name: "q"})
	logicOut := g.AddVertex(Vertex{Kind: Assign})
	out := g.AddVertex(Vertex{Kind: Var, Name: "out"})

	g.AddEdge(in, logicIn)
	g.AddEdge(logicIn, reg)
	g.AddEdge(reg, logicOut)
	g.AddEdge(logicOut, out)

	g.SplitRegVertices()

	if g.OutDegree(reg) != 0 {
		t.Fatalf("expected destination reg to have out-degree 0, got %d", g.OutDegree(reg))
	}
	if g.InDegree(reg) != 1 {
		t.Fatalf("expected destination reg to keep its in-edge, got %d", g.InDegree(reg))
	}

	var srcReg ID = -1
	for _, id := range g.AllVertices() {
		if g.Vertex(id).Kind == SrcReg {
			srcReg = id
		}
	}
	if srcReg == -1 {
		t.Fatal("expected a SrcReg clone to be created")
	}
	if g.InDegree(srcReg) != 0 {
		t.Fatalf("expected source reg to have in-degree 0, got %d", g.InDegree(srcReg))
	}
	if g.OutDegree(srcReg) != 1 {
		t.Fatalf("expected source reg to inherit the out-edge, got %d", g.OutDegree(srcReg))
	}
}

func TestPropagateAssignAliasRegistersMarksDstReg(t *testing.T) {
	g := New()
	reg := g.AddVertex(Vertex{Kind: DstReg, Name: "r"})
	logicIn := g.AddVertex(Vertex{Kind: AssignDly})
	g.AddEdge(logicIn, reg)
	g.SplitRegVertices()

	var srcReg ID
	for _, id := range g.AllVertices() {
		if g.Vertex(id).Kind == SrcReg {
			srcReg = id
		}
	}

	alias := g.AddVertex(Vertex{Kind: AssignAlias})
	aliasVar := g.AddVertex(Vertex{Kind: Var, Name: "r_alias"})
	g.AddEdge(srcReg, alias)
	g.AddEdge(alias, aliasVar)

	g.PropagateAssignAliasRegisters()

	v := g.Vertex(aliasVar)
	if v.Kind != DstReg {
		t.Fatalf("expected aliased var to become DstReg, got %s", v.Kind)
	}
	if !v.IsAliasOfReg {
		t.Fatal("expected aliased var to be flagged IsAliasOfReg")
	}
}

func TestCheckGraphWarnsOnVlvboundAndDegreeViolations(t *testing.T) {
	g := New()
	bad := g.AddVertex(Vertex{Kind: Var, Name: "__Vlvbound_1"})
	_ = bad
	badSrcReg := g.AddVertex(Vertex{Kind: SrcReg, Name: "s"})
	other := g.AddVertex(Vertex{Kind: Var, Name: "x"})
	g.AddEdge(other, badSrcReg) // violates SrcReg in-degree 0

	warnings := g.CheckGraph()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
}
