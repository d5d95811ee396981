// Package netlist is the query facade of spec §4.6: it owns one ingested,
// transformed graph and exposes the public path-existence, path-enumeration,
// fan-in/fan-out and name-resolution operations over it.
package netlist

import (
	"context"
	"fmt"
	"io"

	"github.com/netlist-paths/netlistpaths/internal/config"
	"github.com/netlist-paths/netlistpaths/internal/graph"
	"github.com/netlist-paths/netlistpaths/internal/ingest"
	"github.com/netlist-paths/netlistpaths/internal/nlerr"
	"github.com/netlist-paths/netlistpaths/internal/pathengine"
	"github.com/netlist-paths/netlistpaths/internal/resolve"
)

// Error and Kind are re-exported from the leaf error package so callers of
// this facade never need to import internal/nlerr directly.
type Error = nlerr.Error
type Kind = nlerr.Kind

const (
	Malformed        = nlerr.Malformed
	SchemaViolation  = nlerr.SchemaViolation
	MalformedPattern = nlerr.MalformedPattern
	Ambiguous        = nlerr.Ambiguous
	NotFound         = nlerr.NotFound
)

// Netlist wraps one ingested, transformed graph plus the resolver and path
// engine built over it. It is read-only after New returns; watch mode
// reloads by building a new Netlist rather than mutating an existing one.
type Netlist struct {
	graph    *graph.Graph
	resolver *resolve.Resolver
	engine   *pathengine.Engine
	warnings []string
	empty    bool
	cfg      *config.Config
}

// New ingests the Verilator-XML document at path, runs the register-split
// and alias-propagation transform, and returns a ready-to-query Netlist.
func New(ctx context.Context, path string, cfg *config.Config) (*Netlist, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	res, err := ingest.LoadAndIngest(ctx, path)
	if err != nil {
		return nil, err
	}
	return fromResult(res, cfg)
}

// NewFromBytes is New's in-memory counterpart, used by tests and by any
// caller that already has the XML document loaded.
func NewFromBytes(data []byte, cfg *config.Config) (*Netlist, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	res, err := ingest.Ingest(data)
	if err != nil {
		return nil, err
	}
	return fromResult(res, cfg)
}

func fromResult(res *ingest.Result, cfg *config.Config) (*Netlist, error) {
	warnings := append([]string(nil), res.Warnings...)
	if !res.Empty {
		warnings = append(warnings, res.Graph.Transform()...)
	}

	matchMode, err := parseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, err
	}

	opts := resolve.Options{
		MatchMode:              matchMode,
		IgnoreHierarchyMarkers: cfg.IgnoreHierarchyMarkers,
	}

	return &Netlist{
		graph:    res.Graph,
		resolver: resolve.New(res.Graph, opts),
		engine:   pathengine.New(res.Graph),
		warnings: warnings,
		empty:    res.Empty,
		cfg:      cfg,
	}, nil
}

func parseMatchMode(s string) (resolve.MatchMode, error) {
	switch s {
	case "", "exact":
		return resolve.Exact, nil
	case "regex":
		return resolve.Regex, nil
	case "wildcard":
		return resolve.Wildcard, nil
	default:
		return 0, nlerr.Newf(nlerr.Malformed, "unknown match mode %q", s)
	}
}

// IsEmpty reports whether the ingested netlist had no single flat top
// module to query (spec §6.1).
func (n *Netlist) IsEmpty() bool { return n.empty }

// VerticesVisited returns the running total of vertices visited across
// every traversal this Netlist's path engine has run, for metrics
// reporting by the CLI.
func (n *Netlist) VerticesVisited() uint64 { return n.engine.Visited }

// Warnings returns the non-fatal warnings collected during ingestion and
// transform (e.g. __Vlvbound leakage, degree-invariant violations).
func (n *Netlist) Warnings() []string { return n.warnings }

// Waypoints is an ordered sequence of intermediate vertex patterns a path
// query must pass through, in order.
type Waypoints []string

// unresolved rewrites a NotFound error from the resolver into a
// role-specific message naming what could not be found, the way
// readWaypoints/readAvoidPoints/getAllFanOut/getAllFanIn each throw their
// own distinct "could not find ... vertex ..." exception rather than the
// resolver's generic "no vertex matches" text. Errors of any other kind
// (Ambiguous, MalformedPattern) pass through unchanged.
func unresolved(err error, message string) error {
	if nlErr, ok := err.(*nlerr.Error); ok && nlErr.Kind == nlerr.NotFound {
		return nlerr.New(nlerr.NotFound, message)
	}
	return err
}

// getStart resolves pattern to a start-point vertex, matching readWaypoints'
// "could not find start vertex matching X" on failure.
func (n *Netlist) getStart(pattern string) (graph.ID, error) {
	id, err := n.resolver.GetStart(pattern, n.cfg.MatchAny)
	if err != nil {
		return graph.NullID, unresolved(err, fmt.Sprintf("could not find start vertex matching %q", pattern))
	}
	return id, nil
}

// getEnd resolves pattern to an end-point vertex, matching readWaypoints'
// "could not find end vertex matching X" on failure.
func (n *Netlist) getEnd(pattern string) (graph.ID, error) {
	id, err := n.resolver.GetEnd(pattern, n.cfg.MatchAny)
	if err != nil {
		return graph.NullID, unresolved(err, fmt.Sprintf("could not find end vertex matching %q", pattern))
	}
	return id, nil
}

func (n *Netlist) resolveWaypoints(patterns Waypoints) ([]graph.ID, error) {
	ids := make([]graph.ID, 0, len(patterns))
	for _, p := range patterns {
		id, err := n.resolver.GetMid(p, n.cfg.MatchAny)
		if err != nil {
			return nil, unresolved(err, fmt.Sprintf("could not find through vertex %q", p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveAvoid resolves each avoid pattern to a single mid-point vertex,
// matching readAvoidPoints' getMidVertex-per-name behavior: a pattern that
// resolves to zero or (without MatchAny) more than one vertex is an error
// naming the pattern, not a silently-empty avoid set.
func (n *Netlist) resolveAvoid(patterns []string) (pathengine.AvoidSet, error) {
	ids := make([]graph.ID, 0, len(patterns))
	for _, p := range patterns {
		id, err := n.resolver.GetMid(p, n.cfg.MatchAny)
		if err != nil {
			return pathengine.AvoidSet{}, unresolved(err, fmt.Sprintf("could not find vertex to avoid %q", p))
		}
		ids = append(ids, id)
	}
	return pathengine.NewAvoidSet(ids), nil
}

// StartpointExists reports whether pattern resolves to a start-point vertex.
func (n *Netlist) StartpointExists(pattern string) (bool, error) {
	return n.resolver.Exists(pattern, resolve.StartPoint)
}

// EndpointExists reports whether pattern resolves to an end-point vertex.
func (n *Netlist) EndpointExists(pattern string) (bool, error) {
	return n.resolver.Exists(pattern, resolve.EndPoint)
}

// RegExists reports whether pattern resolves to a register vertex.
func (n *Netlist) RegExists(pattern string) (bool, error) {
	return n.resolver.Exists(pattern, resolve.Reg)
}

// RegAliasExists reports whether pattern resolves to a register-alias
// vertex, one of the combinational signals alias propagation marked as
// carrying the same value as a register it is not itself the split DstReg
// for.
func (n *Netlist) RegAliasExists(pattern string) (bool, error) {
	return n.resolver.Exists(pattern, resolve.RegAlias)
}

// NamedVertices returns the name of every named vertex matching pattern.
func (n *Netlist) NamedVertices(pattern string) ([]string, error) {
	matches, err := n.resolver.Find(pattern, resolve.Named)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, id := range matches {
		names[i] = n.graph.Vertex(id).Name
	}
	return names, nil
}

// PathExists reports whether a combinational path exists between start and
// end, optionally through waypoints, excluding avoided vertices.
func (n *Netlist) PathExists(start, end string, waypoints Waypoints, avoid []string) (bool, error) {
	startID, err := n.getStart(start)
	if err != nil {
		return false, err
	}
	endID, err := n.getEnd(end)
	if err != nil {
		return false, err
	}
	waypointIDs, err := n.resolveWaypoints(waypoints)
	if err != nil {
		return false, err
	}
	avoidSet, err := n.resolveAvoid(avoid)
	if err != nil {
		return false, err
	}
	path := n.engine.AnyPath(startID, endID, waypointIDs, avoidSet)
	return path != nil, nil
}

// AnyPath returns the vertex names of one path from start to end, or nil if
// none exists.
func (n *Netlist) AnyPath(start, end string, waypoints Waypoints, avoid []string) ([]string, error) {
	startID, err := n.getStart(start)
	if err != nil {
		return nil, err
	}
	endID, err := n.getEnd(end)
	if err != nil {
		return nil, err
	}
	waypointIDs, err := n.resolveWaypoints(waypoints)
	if err != nil {
		return nil, err
	}
	avoidSet, err := n.resolveAvoid(avoid)
	if err != nil {
		return nil, err
	}
	path := n.engine.AnyPath(startID, endID, waypointIDs, avoidSet)
	return n.names(path), nil
}

// AllPaths returns the vertex names of every simple path from start to end.
func (n *Netlist) AllPaths(start, end string, waypoints Waypoints, avoid []string) ([][]string, error) {
	startID, err := n.getStart(start)
	if err != nil {
		return nil, err
	}
	endID, err := n.getEnd(end)
	if err != nil {
		return nil, err
	}
	waypointIDs, err := n.resolveWaypoints(waypoints)
	if err != nil {
		return nil, err
	}
	avoidSet, err := n.resolveAvoid(avoid)
	if err != nil {
		return nil, err
	}
	paths := n.engine.AllPaths(startID, endID, waypointIDs, avoidSet)
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = n.names(p)
	}
	return out, nil
}

// AllFanOut returns one path per end-point-role vertex reachable forward
// from start, each running start to that vertex.
func (n *Netlist) AllFanOut(start string, avoid []string) ([][]string, error) {
	startID, err := n.resolver.One(start, resolve.Any, n.cfg.MatchAny)
	if err != nil {
		return nil, err
	}
	avoidSet, err := n.resolveAvoid(avoid)
	if err != nil {
		return nil, err
	}
	paths := n.engine.FanOut(startID, avoidSet)
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = n.names(p)
	}
	return out, nil
}

// AllFanIn returns one path per start-point-role vertex that can reach end,
// each running that vertex to end.
func (n *Netlist) AllFanIn(end string, avoid []string) ([][]string, error) {
	endID, err := n.resolver.One(end, resolve.Any, n.cfg.MatchAny)
	if err != nil {
		return nil, err
	}
	avoidSet, err := n.resolveAvoid(avoid)
	if err != nil {
		return nil, err
	}
	paths := n.engine.FanIn(endID, avoidSet)
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = n.names(p)
	}
	return out, nil
}

// DumpDot writes the Graphviz representation of the graph to w.
func (n *Netlist) DumpDot(w io.Writer) error {
	return n.graph.WriteDot(w)
}

func (n *Netlist) names(ids []graph.ID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = n.graph.Vertex(id).Name
	}
	return out
}

// VertexReport renders a one-line human-readable description of a resolved
// vertex: its kind, name, direction and DType.
func (n *Netlist) VertexReport(name string) (string, error) {
	id, err := n.resolver.One(name, resolve.Any, n.cfg.MatchAny)
	if err != nil {
		return "", err
	}
	v := n.graph.Vertex(id)
	return fmt.Sprintf("%s %s %s %s", v.Kind, v.Name, v.Direction, v.DTypeString()), nil
}
