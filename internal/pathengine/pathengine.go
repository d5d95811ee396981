// Package pathengine implements spec §4.5: path existence, single-path and
// all-paths search between two vertices, optionally routed through an
// ordered sequence of waypoints and filtered by an avoid-set, plus forward
// and reverse fan traversal.
package pathengine

import (
	"sort"

	"github.com/netlist-paths/netlistpaths/internal/graph"
)

// AvoidSet is a sorted, binary-searchable set of vertex IDs a traversal must
// not step onto.
type AvoidSet struct {
	ids []graph.ID
}

// NewAvoidSet builds an AvoidSet from an unordered list of vertex IDs.
func NewAvoidSet(ids []graph.ID) AvoidSet {
	sorted := append([]graph.ID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return AvoidSet{ids: sorted}
}

// Contains reports whether id is in the set.
func (a AvoidSet) Contains(id graph.ID) bool {
	i := sort.Search(len(a.ids), func(i int) bool { return a.ids[i] >= id })
	return i < len(a.ids) && a.ids[i] == id
}

// ParentMap records, for a DFS rooted at some start vertex, the predecessor
// of every reached vertex. It holds one parent per vertex, set when the
// vertex is first discovered (tree-edge mode). AllPaths does not use it: it
// enumerates paths by backtracking instead.
type ParentMap struct {
	parent map[graph.ID]graph.ID
}

func newParentMap() *ParentMap {
	return &ParentMap{parent: make(map[graph.ID]graph.ID)}
}

// Path reconstructs the vertex sequence from start to end by walking parent
// pointers backwards; it is iterative, not recursive, per spec §9.
func (p *ParentMap) Path(start, end graph.ID) []graph.ID {
	var rev []graph.ID
	cur := end
	for {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		parent, ok := p.parent[cur]
		if !ok {
			return nil
		}
		cur = parent
	}
	path := make([]graph.ID, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// WalkToRoot reconstructs the vertex sequence from v to root by walking
// parent pointers forward; unlike Path it does not reverse the result,
// since the parent chain already runs toward root.
func (p *ParentMap) WalkToRoot(root, v graph.ID) []graph.ID {
	var path []graph.ID
	cur := v
	for {
		path = append(path, cur)
		if cur == root {
			break
		}
		parent, ok := p.parent[cur]
		if !ok {
			return nil
		}
		cur = parent
	}
	return path
}

// Engine runs path queries over one graph.
type Engine struct {
	g *graph.Graph

	// Visited counts every vertex newly marked visited across every
	// traversal this Engine has run, for the caller's metrics reporting.
	Visited uint64
}

// New returns an Engine bound to g.
func New(g *graph.Graph) *Engine {
	return &Engine{g: g}
}

// PathExists reports whether a simple path from start to end exists,
// stopping the DFS at the first discovery (tree-edge mode).
func (e *Engine) PathExists(start, end graph.ID, avoid AvoidSet) bool {
	if avoid.Contains(start) || avoid.Contains(end) {
		return false
	}
	visited := make(map[graph.ID]bool)
	var visit func(v graph.ID) bool
	visit = func(v graph.ID) bool {
		if v == end {
			return true
		}
		visited[v] = true
		e.Visited++
		for _, next := range e.g.OutEdges(v) {
			if visited[next] || avoid.Contains(next) {
				continue
			}
			if visit(next) {
				return true
			}
		}
		return false
	}
	return visit(start)
}

// AnyPath returns one path from start to end, or nil if none exists. When
// waypoints is non-empty, the path is built leg by leg through start ->
// waypoints[0] -> ... -> end, each leg an independent tree-edge DFS.
func (e *Engine) AnyPath(start, end graph.ID, waypoints []graph.ID, avoid AvoidSet) []graph.ID {
	legs := append([]graph.ID{start}, waypoints...)
	legs = append(legs, end)

	var full []graph.ID
	for i := 0; i+1 < len(legs); i++ {
		leg := e.anyPathLeg(legs[i], legs[i+1], avoid)
		if leg == nil {
			return nil
		}
		if i > 0 {
			leg = leg[1:]
		}
		full = append(full, leg...)
	}
	return full
}

func (e *Engine) anyPathLeg(start, end graph.ID, avoid AvoidSet) []graph.ID {
	if avoid.Contains(start) || avoid.Contains(end) {
		return nil
	}
	pm := newParentMap()
	visited := map[graph.ID]bool{start: true}
	e.Visited++
	stack := []graph.ID{start}
	found := start == end
	for len(stack) > 0 && !found {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range e.g.OutEdges(v) {
			if visited[next] || avoid.Contains(next) {
				continue
			}
			visited[next] = true
			e.Visited++
			pm.parent[next] = v
			if next == end {
				found = true
				break
			}
			stack = append(stack, next)
		}
	}
	if !found {
		return nil
	}
	return pm.Path(start, end)
}

// AllPaths enumerates every simple path from start to end (examine-edge mode:
// full DFS backtracking, not stopping at first discovery), restricted to
// paths that visit the waypoints in order, with avoided vertices excluded
// entirely from the search.
func (e *Engine) AllPaths(start, end graph.ID, waypoints []graph.ID, avoid AvoidSet) [][]graph.ID {
	legs := append([]graph.ID{start}, waypoints...)
	legs = append(legs, end)

	legPaths := make([][][]graph.ID, len(legs)-1)
	for i := 0; i+1 < len(legs); i++ {
		legPaths[i] = e.allSimplePaths(legs[i], legs[i+1], avoid)
		if len(legPaths[i]) == 0 {
			return nil
		}
	}
	return cartesianJoin(legPaths)
}

// cartesianJoin stitches one path per leg into a full path for every
// combination, sharing the joint vertex between adjacent legs exactly once.
func cartesianJoin(legPaths [][][]graph.ID) [][]graph.ID {
	combos := [][]graph.ID{{}}
	for _, paths := range legPaths {
		var next [][]graph.ID
		for _, combo := range combos {
			for _, leg := range paths {
				rest := leg
				if len(combo) > 0 {
					rest = leg[1:]
				}
				joined := append(append([]graph.ID(nil), combo...), rest...)
				next = append(next, joined)
			}
		}
		combos = next
	}
	return combos
}

func (e *Engine) allSimplePaths(start, end graph.ID, avoid AvoidSet) [][]graph.ID {
	if avoid.Contains(start) || avoid.Contains(end) {
		return nil
	}
	var out [][]graph.ID
	onPath := make(map[graph.ID]bool)
	var cur []graph.ID
	var visit func(v graph.ID)
	visit = func(v graph.ID) {
		cur = append(cur, v)
		onPath[v] = true
		e.Visited++
		if v == end {
			out = append(out, append([]graph.ID(nil), cur...))
		} else {
			for _, next := range e.g.OutEdges(v) {
				if onPath[next] || avoid.Contains(next) {
					continue
				}
				visit(next)
			}
		}
		onPath[v] = false
		cur = cur[:len(cur)-1]
	}
	visit(start)
	return out
}

// FanOut runs a tree-edge DFS rooted at start and reconstructs, for every
// reached vertex that holds end-point role, the path from start to it.
func (e *Engine) FanOut(start graph.ID, avoid AvoidSet) [][]graph.ID {
	pm, order := e.treeWalk(start, avoid, e.g.OutEdges)
	var out [][]graph.ID
	for _, v := range order {
		if v == start || !e.g.VertexPtr(v).IsEndPoint() {
			continue
		}
		out = append(out, pm.Path(start, v))
	}
	return out
}

// FanIn runs the same walk on the reverse graph rooted at end. The parent
// map it builds already points from each reached vertex toward end, so the
// per-vertex paths it yields are returned without reversing.
func (e *Engine) FanIn(end graph.ID, avoid AvoidSet) [][]graph.ID {
	pm, order := e.treeWalk(end, avoid, e.g.InEdges)
	var out [][]graph.ID
	for _, v := range order {
		if v == end || !e.g.VertexPtr(v).IsStartPoint() {
			continue
		}
		out = append(out, pm.WalkToRoot(end, v))
	}
	return out
}

// treeWalk runs a tree-edge-mode traversal over neighbors, rooted at root,
// and returns the parent map alongside the discovery order.
func (e *Engine) treeWalk(root graph.ID, avoid AvoidSet, neighbors func(graph.ID) []graph.ID) (*ParentMap, []graph.ID) {
	pm := newParentMap()
	visited := map[graph.ID]bool{root: true}
	e.Visited++
	order := []graph.ID{root}
	stack := []graph.ID{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range neighbors(v) {
			if visited[next] || avoid.Contains(next) {
				continue
			}
			visited[next] = true
			e.Visited++
			pm.parent[next] = v
			order = append(order, next)
			stack = append(stack, next)
		}
	}
	return pm, order
}
