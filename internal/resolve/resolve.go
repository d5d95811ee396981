// Package resolve implements the name resolver of spec §4.4: turning a
// caller-supplied pattern into a set of graph vertices, under one of three
// match modes, optionally filtered by role (start/end/mid point, register,
// register alias, or any named vertex).
package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/netlist-paths/netlistpaths/internal/graph"
	"github.com/netlist-paths/netlistpaths/internal/nlerr"
)

// MatchMode selects how a pattern string is interpreted.
type MatchMode int

const (
	Exact MatchMode = iota
	Regex
	Wildcard
)

// GraphType narrows a lookup to vertices of a particular role.
type GraphType int

const (
	Any GraphType = iota
	StartPoint
	EndPoint
	MidPoint
	Reg
	RegAlias
	Named
)

// Options configures one Resolver. The ambiguity policy (MatchAny) is not
// part of Options: it is threaded as an explicit per-call argument to One
// and its Get* wrappers instead, mirroring getStartVertex/getEndVertex/
// etc.'s explicit matchAny parameter in the original implementation.
type Options struct {
	MatchMode              MatchMode
	IgnoreHierarchyMarkers bool
}

// Resolver matches name patterns against a graph's vertices.
type Resolver struct {
	g    *graph.Graph
	opts Options
}

// New returns a Resolver bound to g and configured by opts.
func New(g *graph.Graph, opts Options) *Resolver {
	return &Resolver{g: g, opts: opts}
}

func roleMatches(v *graph.Vertex, gt GraphType) bool {
	switch gt {
	case Any:
		return true
	case StartPoint:
		return v.IsStartPoint()
	case EndPoint:
		return v.IsEndPoint()
	case MidPoint:
		return v.IsMidPoint()
	case Reg:
		return v.Kind == graph.DstReg
	case RegAlias:
		return v.IsAliasOfReg
	case Named:
		return v.IsNamed()
	default:
		return false
	}
}

// normalizePattern applies the hierarchy-marker substitution spec §4.4
// describes: when IgnoreHierarchyMarkers is set, '/' and '_' become a
// match-any-character wildcard so callers can write hierarchy-agnostic
// patterns, and (Wildcard mode only) '.' becomes a literal '?' glob
// metachar matching a single character. It applies to Regex and Wildcard
// modes only; an Exact lookup never normalizes, matching getVertexDesc's
// plain string comparison against getVertexDescRegex's pattern rewriting.
func (r *Resolver) normalizePattern(pattern string) string {
	if !r.opts.IgnoreHierarchyMarkers || r.opts.MatchMode == Exact {
		return pattern
	}
	wildcard := "?"
	if r.opts.MatchMode == Regex {
		wildcard = "."
	}
	replaced := strings.ReplaceAll(pattern, "/", wildcard)
	replaced = strings.ReplaceAll(replaced, "_", wildcard)
	if r.opts.MatchMode == Wildcard {
		replaced = strings.ReplaceAll(replaced, ".", "?")
	}
	return replaced
}

func (r *Resolver) matches(pattern, name string) (bool, error) {
	switch r.opts.MatchMode {
	case Exact:
		return pattern == name, nil
	case Regex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, nlerr.Wrap(nlerr.MalformedPattern, "malformed regular expression "+pattern, err)
		}
		return re.MatchString(name), nil
	case Wildcard:
		g, err := glob.Compile(pattern)
		if err != nil {
			return false, nlerr.Wrap(nlerr.MalformedPattern, "malformed wildcard pattern "+pattern, err)
		}
		return g.Match(name), nil
	default:
		return false, nil
	}
}

// Find returns every vertex of role gt whose name matches pattern.
func (r *Resolver) Find(pattern string, gt GraphType) ([]graph.ID, error) {
	pattern = r.normalizePattern(pattern)
	var out []graph.ID
	for _, id := range r.g.AllVertices() {
		v := r.g.Vertex(id)
		if !roleMatches(&v, gt) {
			continue
		}
		ok, err := r.matches(pattern, v.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// One resolves pattern to exactly one vertex of role gt, failing with
// NotFound on zero matches and Ambiguous on more than one. matchAny, when
// true, suppresses the ambiguous-match error and lets the first match by
// vertex ID win instead; callers pass it explicitly per call rather than
// it being baked into the Resolver at construction time.
func (r *Resolver) One(pattern string, gt GraphType, matchAny bool) (graph.ID, error) {
	matches, err := r.Find(pattern, gt)
	if err != nil {
		return graph.NullID, err
	}
	if len(matches) == 0 {
		return graph.NullID, nlerr.Newf(nlerr.NotFound, "no vertex matches %q", pattern)
	}
	if len(matches) == 1 || matchAny {
		return matches[0], nil
	}
	return graph.NullID, r.ambiguous(pattern, matches)
}

// ambiguous reports every candidate vertex with its AST kind, not just a
// count, mirroring reportMultipleMatches' name+astTypeStr formatting.
func (r *Resolver) ambiguous(pattern string, matches []graph.ID) error {
	candidates := make([]string, len(matches))
	for i, id := range matches {
		v := r.g.Vertex(id)
		candidates[i] = fmt.Sprintf("%s (%s)", v.Name, v.Kind)
	}
	return nlerr.Newf(nlerr.Ambiguous, "pattern %q matches %d vertices: %s", pattern, len(matches), strings.Join(candidates, ", "))
}

// GetStart resolves pattern to a single start-point vertex.
func (r *Resolver) GetStart(pattern string, matchAny bool) (graph.ID, error) {
	return r.One(pattern, StartPoint, matchAny)
}

// GetEnd resolves pattern to a single end-point vertex.
func (r *Resolver) GetEnd(pattern string, matchAny bool) (graph.ID, error) {
	return r.One(pattern, EndPoint, matchAny)
}

// GetMid resolves pattern to a single mid-point vertex.
func (r *Resolver) GetMid(pattern string, matchAny bool) (graph.ID, error) {
	return r.One(pattern, MidPoint, matchAny)
}

// GetReg resolves pattern to a single register (DstReg) vertex.
func (r *Resolver) GetReg(pattern string, matchAny bool) (graph.ID, error) {
	return r.One(pattern, Reg, matchAny)
}

// GetRegAlias resolves pattern to a single register-alias vertex.
func (r *Resolver) GetRegAlias(pattern string, matchAny bool) (graph.ID, error) {
	return r.One(pattern, RegAlias, matchAny)
}

// Exists reports whether pattern matches at least one vertex of role gt,
// without the ambiguity check One applies.
func (r *Resolver) Exists(pattern string, gt GraphType) (bool, error) {
	matches, err := r.Find(pattern, gt)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
