package netlist

import (
	"github.com/netlist-paths/netlistpaths/internal/lint"
)

// ExportVertex is one row of the JSON export validated against the
// validate package's #Netlist schema.
type ExportVertex struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Direction   string `json:"direction"`
	IsTopSignal bool   `json:"isTopSignal"`
	Width       int    `json:"width"`
	InDegree    int    `json:"inDegree"`
	OutDegree   int    `json:"outDegree"`
}

// ExportEdge is one row of the JSON export's edge list.
type ExportEdge struct {
	Src      int `json:"src"`
	Dst      int `json:"dst"`
	SrcWidth int `json:"srcWidth"`
	DstWidth int `json:"dstWidth"`
}

// Export is the full JSON-exportable snapshot of the graph, consumed by the
// facts CLI and validated by internal/validate before internal/lint sees it.
type Export struct {
	Vertices []ExportVertex `json:"vertices"`
	Edges    []ExportEdge   `json:"edges"`
}

// Export renders the whole graph as a validate-schema-shaped snapshot.
func (n *Netlist) Export() Export {
	var out Export
	for _, id := range n.graph.AllVertices() {
		v := n.graph.Vertex(id)
		out.Vertices = append(out.Vertices, ExportVertex{
			ID:          int(id),
			Name:        v.Name,
			Kind:        v.Kind.String(),
			Direction:   v.Direction.String(),
			IsTopSignal: v.IsTopSignal,
			Width:       v.DTypeWidth(),
			InDegree:    n.graph.InDegree(id),
			OutDegree:   n.graph.OutDegree(id),
		})
		for _, dst := range n.graph.OutEdges(id) {
			dstVertex := n.graph.Vertex(dst)
			out.Edges = append(out.Edges, ExportEdge{
				Src:      int(id),
				Dst:      int(dst),
				SrcWidth: v.DTypeWidth(),
				DstWidth: dstVertex.DTypeWidth(),
			})
		}
	}
	return out
}

// LintFacts renders the graph as the fact tables internal/lint evaluates.
func (n *Netlist) LintFacts() lint.Input {
	export := n.Export()
	input := lint.Input{
		Vertices: make([]lint.VertexFact, len(export.Vertices)),
		Edges:    make([]lint.EdgeFact, len(export.Edges)),
	}
	for i, v := range export.Vertices {
		input.Vertices[i] = lint.VertexFact{
			ID:          v.ID,
			Name:        v.Name,
			Kind:        v.Kind,
			Direction:   v.Direction,
			IsTopSignal: v.IsTopSignal,
			Width:       v.Width,
			InDegree:    v.InDegree,
			OutDegree:   v.OutDegree,
		}
	}
	for i, e := range export.Edges {
		input.Edges[i] = lint.EdgeFact{Src: e.Src, Dst: e.Dst, SrcWidth: e.SrcWidth, DstWidth: e.DstWidth}
	}
	return input
}
