package ingest

import (
	"os"
	"testing"

	"github.com/netlist-paths/netlistpaths/internal/graph"
	"github.com/netlist-paths/netlistpaths/internal/pathengine"
)

// loadFixture ingests and transforms one of the testdata netlists, failing
// the test immediately on any error so the scenario assertions below can
// assume a usable graph.
func loadFixture(t *testing.T, path string) *graph.Graph {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	res, err := Ingest(data)
	if err != nil {
		t.Fatalf("ingesting fixture %s: %v", path, err)
	}
	if res.Empty {
		t.Fatalf("fixture %s ingested as empty", path)
	}
	res.Graph.Transform()
	return res.Graph
}

// byName finds the unique vertex with the given name, failing the test if
// there is none or more than one.
func byName(t *testing.T, g *graph.Graph, name string) graph.ID {
	t.Helper()
	var found graph.ID = graph.NullID
	count := 0
	for _, id := range g.AllVertices() {
		if g.Vertex(id).Name == name {
			found = id
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one vertex named %q, found %d", name, count)
	}
	return found
}

// byNameKind finds the unique vertex with the given name and kind, for
// fixtures where register splitting leaves two vertices sharing a name.
func byNameKind(t *testing.T, g *graph.Graph, name string, kind graph.AstKind) graph.ID {
	t.Helper()
	var found graph.ID = graph.NullID
	count := 0
	for _, id := range g.AllVertices() {
		v := g.Vertex(id)
		if v.Name == name && v.Kind == kind {
			found = id
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one %v vertex named %q, found %d", kind, name, count)
	}
	return found
}

func kinds(g *graph.Graph, path []graph.ID) []graph.AstKind {
	out := make([]graph.AstKind, len(path))
	for i, id := range path {
		out[i] = g.Vertex(id).Kind
	}
	return out
}

func assertKinds(t *testing.T, g *graph.Graph, path []graph.ID, want []graph.AstKind) {
	t.Helper()
	got := kinds(g, path)
	if len(got) != len(want) {
		t.Fatalf("expected %d vertices %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected kind sequence %v, got %v", want, got)
		}
	}
}

// Seed scenario 1: a full adder where every input reaches every output, and
// querying in the reverse direction finds no start-point role vertex.
func TestSeedAdderPathExistsGrid(t *testing.T) {
	g := loadFixture(t, "../../testdata/adder.xml")
	e := pathengine.New(g)
	empty := pathengine.NewAvoidSet(nil)

	inputs := []string{"i_a", "i_b"}
	outputs := []string{"o_sum", "o_co"}
	for _, in := range inputs {
		for _, out := range outputs {
			start := byName(t, g, in)
			end := byName(t, g, out)
			if !e.PathExists(start, end, empty) {
				t.Fatalf("expected a path from %s to %s", in, out)
			}
		}
	}

	sum := byName(t, g, "o_sum")
	sumVertex := g.Vertex(sum)
	if !sumVertex.IsEndPoint() || sumVertex.IsStartPoint() {
		t.Fatalf("o_sum should be end-point role only")
	}
}

// Seed scenario 2: a plain combinational chain, in -> a -> b -> out, each
// hop crossing one assign, yielding a 7-vertex path.
func TestSeedAssignChainAnyPath(t *testing.T) {
	g := loadFixture(t, "../../testdata/basic_assign_chain.xml")
	e := pathengine.New(g)

	start := byName(t, g, "in")
	end := byName(t, g, "out")
	path := e.AnyPath(start, end, nil, pathengine.NewAvoidSet(nil))

	assertKinds(t, g, path, []graph.AstKind{
		graph.Var, graph.Assign, graph.Var, graph.Assign, graph.Var, graph.Assign, graph.Var,
	})
	names := []string{"in", "a", "b", "out"}
	positions := []int{0, 2, 4, 6}
	for i, pos := range positions {
		if got := g.Vertex(path[pos]).Name; got != names[i] {
			t.Fatalf("expected vertex %d named %q, got %q", pos, names[i], got)
		}
	}
}

// Seed scenario 3: two flip-flops, a feeding b, split into SrcReg/DstReg
// pairs so the path between them crosses exactly one assigndly.
func TestSeedFFChainAnyPath(t *testing.T) {
	g := loadFixture(t, "../../testdata/basic_ff_chain.xml")
	e := pathengine.New(g)

	start := byNameKind(t, g, "a", graph.SrcReg)
	end := byNameKind(t, g, "b", graph.DstReg)
	path := e.AnyPath(start, end, nil, pathengine.NewAvoidSet(nil))

	assertKinds(t, g, path, []graph.AstKind{graph.SrcReg, graph.AssignDly, graph.DstReg})
}

// Seed scenario 4: three disjoint combinational routes from in to out.
func TestSeedMultiplePathsCount(t *testing.T) {
	g := loadFixture(t, "../../testdata/multiple_paths.xml")
	e := pathengine.New(g)

	start := byName(t, g, "in")
	end := byName(t, g, "out")
	paths := e.AllPaths(start, end, nil, pathengine.NewAvoidSet(nil))
	if len(paths) != 3 {
		t.Fatalf("expected 3 disjoint paths, got %d", len(paths))
	}
}

// Seed scenario 5: three inputs and three outputs, fully cross-connected, so
// fan-out from one input and fan-in to one output both count 3.
func TestSeedFanOutFanInCount(t *testing.T) {
	g := loadFixture(t, "../../testdata/fan_out_in.xml")
	e := pathengine.New(g)

	in := byName(t, g, "in")
	out := byName(t, g, "out")

	fanOut := e.FanOut(in, pathengine.NewAvoidSet(nil))
	if len(fanOut) != 3 {
		t.Fatalf("expected allFanOut(in).size == 3, got %d", len(fanOut))
	}
	fanIn := e.FanIn(out, pathengine.NewAvoidSet(nil))
	if len(fanIn) != 3 {
		t.Fatalf("expected allFanIn(out).size == 3, got %d", len(fanIn))
	}
}

// Seed scenario 6: a register whose own assigndly references itself, split
// into a source/destination pair so anyPath(data_q, data_q) still resolves
// to a 3-vertex path rather than a cycle.
func TestSeedSelfLoopRegister(t *testing.T) {
	g := loadFixture(t, "../../testdata/pipeline_no_loops.xml")
	e := pathengine.New(g)

	start := byNameKind(t, g, "data_q", graph.SrcReg)
	end := byNameKind(t, g, "data_q", graph.DstReg)
	path := e.AnyPath(start, end, nil, pathengine.NewAvoidSet(nil))

	assertKinds(t, g, path, []graph.AstKind{graph.SrcReg, graph.AssignDly, graph.DstReg})
}
