package graph

// Graph is an arena of vertices plus out/in adjacency lists indexed by ID.
// There are no owning pointers between vertices, so cycles (feedback through
// registers pre-split, aliasing, user feedback loops) are represented
// trivially; a removed vertex becomes a Deleted tombstone that traversal
// skips rather than being physically erased from the arena.
type Graph struct {
	vertices []Vertex
	out      [][]ID
	in       [][]ID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// NullID is exported for callers that need the sentinel without importing
// the ID type directly.
func (g *Graph) NullID() ID { return NullID }

// AddVertex appends v to the arena and returns its new ID.
func (g *Graph) AddVertex(v Vertex) ID {
	id := ID(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id
}

// AddEdge adds a directed edge src -> dst. Duplicate edges are allowed; the
// path engine's simple-path checks make them harmless and the original
// dedup pass was left unimplemented upstream too (spec §9).
func (g *Graph) AddEdge(src, dst ID) {
	g.out[src] = append(g.out[src], dst)
	g.in[dst] = append(g.in[dst], src)
}

// RemoveEdge removes the first occurrence of src -> dst, if present.
func (g *Graph) RemoveEdge(src, dst ID) {
	g.out[src] = removeFirst(g.out[src], dst)
	g.in[dst] = removeFirst(g.in[dst], src)
}

func removeFirst(ids []ID, target ID) []ID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Vertex returns a copy of the vertex at id.
func (g *Graph) Vertex(id ID) Vertex { return g.vertices[id] }

// VertexPtr returns a mutable pointer to the vertex at id, for use only
// during ingestion/transform; queries never call this.
func (g *Graph) VertexPtr(id ID) *Vertex { return &g.vertices[id] }

// NumVertices returns the number of vertices in the arena, including any
// Deleted tombstones.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumEdges returns the total number of directed edges in the graph.
func (g *Graph) NumEdges() int {
	n := 0
	for _, adj := range g.out {
		n += len(adj)
	}
	return n
}

// AllVertices returns every non-Deleted vertex ID.
func (g *Graph) AllVertices() []ID {
	ids := make([]ID, 0, len(g.vertices))
	for i, v := range g.vertices {
		if v.Kind != Deleted {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// OutEdges returns the out-neighbours of v in insertion order.
func (g *Graph) OutEdges(v ID) []ID { return g.out[v] }

// InEdges returns the in-neighbours of v in insertion order.
func (g *Graph) InEdges(v ID) []ID { return g.in[v] }

// OutDegree returns the number of out-edges of v.
func (g *Graph) OutDegree(v ID) int { return len(g.out[v]) }

// InDegree returns the number of in-edges of v.
func (g *Graph) InDegree(v ID) int { return len(g.in[v]) }

// SetDeleted tombstones v; it is removed from the vertex/edge iteration but
// its slot (and ID) remains valid so existing references do not dangle.
func (g *Graph) SetDeleted(v ID) {
	g.vertices[v].Kind = Deleted
	for _, adj := range g.out[v] {
		g.in[adj] = removeFirst(g.in[adj], v)
	}
	for _, adj := range g.in[v] {
		g.out[adj] = removeFirst(g.out[adj], v)
	}
	g.out[v] = nil
	g.in[v] = nil
}
