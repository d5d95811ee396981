package ingest

import (
	"strconv"
	"strings"

	"github.com/netlist-paths/netlistpaths/internal/dtype"
	"github.com/netlist-paths/netlistpaths/internal/graph"
	"github.com/netlist-paths/netlistpaths/internal/nlerr"
)

// File records one <file> entry from the netlist's <files> table.
type File struct {
	Filename string
	Language string
}

// Result is everything the Graph Builder produces from a single XML document.
type Result struct {
	Graph    *graph.Graph
	Types    *dtype.Registry
	Files    []File
	Warnings []string
	// Empty is set when the netlist has no flat top module (zero, or more
	// than one, top-level module/interface): there is nothing to query.
	Empty bool
}

// builder holds the mutable state threaded through a single ingestion pass.
// It is not safe for concurrent use and is discarded once Ingest returns.
type builder struct {
	g     *graph.Graph
	types *dtype.Registry

	fileIDs map[string]int
	files   []File

	vars map[string]graph.ID

	topName    string
	scopeDepth int
	logicStack []graph.ID

	isLValue        bool
	isDelayedAssign bool

	warnings []string
}

// Ingest parses a Verilator-XML document and builds the combinational graph
// spec §4.2 describes: a two-pass walk of the type table, followed by a
// single depth-first walk of the flat top module that creates Var and logic
// vertices and wires L-value/R-value edges as it goes.
func Ingest(data []byte) (*Result, error) {
	root, err := ParseXML(data)
	if err != nil {
		return nil, nlerr.Wrap(nlerr.Malformed, "could not parse netlist XML", err)
	}
	if root.Name != "verilator_xml" {
		return nil, nlerr.Newf(nlerr.SchemaViolation, "unexpected root element <%s>", root.Name)
	}

	b := &builder{
		g:       graph.New(),
		types:   dtype.New(),
		fileIDs: make(map[string]int),
		vars:    make(map[string]graph.ID),
	}

	if filesNode := root.FirstChild("files"); filesNode != nil {
		if err := b.visitFiles(filesNode); err != nil {
			return nil, err
		}
	}

	netlistNode := root.FirstChild("netlist")
	if netlistNode == nil {
		return nil, nlerr.New(nlerr.SchemaViolation, "missing <netlist> element")
	}

	if typeTableNode := netlistNode.FirstChild("typetable"); typeTableNode != nil {
		if err := b.visitTypeTable(typeTableNode, 1); err != nil {
			return nil, err
		}
		if err := b.visitTypeTable(typeTableNode, 2); err != nil {
			return nil, err
		}
	}

	var modules []*Node
	ifaceCount := 0
	for _, c := range netlistNode.Children {
		switch c.Name {
		case "module":
			modules = append(modules, c)
		case "iface":
			ifaceCount++
		}
	}

	if len(modules) != 1 || ifaceCount > 0 {
		b.warnings = append(b.warnings, "netlist is not a single flat module, skipping")
		return &Result{Graph: b.g, Types: b.types, Files: b.files, Warnings: b.warnings, Empty: true}, nil
	}

	moduleNode := modules[0]
	if name, _ := moduleNode.Attr("name"); name != "TOP" {
		return nil, nlerr.Newf(nlerr.SchemaViolation, "unexpected top module name %q, expected TOP", name)
	}

	if err := b.iterateChildren(moduleNode); err != nil {
		return nil, err
	}

	return &Result{Graph: b.g, Types: b.types, Files: b.files, Warnings: b.warnings}, nil
}

func (b *builder) visitFiles(node *Node) error {
	for _, c := range node.Children {
		if c.Name != "file" {
			continue
		}
		id, err := c.MustAttr("id")
		if err != nil {
			return nlerr.Wrap(nlerr.SchemaViolation, "malformed <file>", err)
		}
		filename, _ := c.Attr("filename")
		language, _ := c.Attr("language")
		b.fileIDs[id] = len(b.files)
		b.files = append(b.files, File{Filename: filename, Language: language})
	}
	return nil
}

// dispatch visits a single node, routing it to the handler for its element
// name. Elements with no handler of their own are transparent: their
// children are visited in turn.
func (b *builder) dispatch(n *Node) error {
	switch n.Name {
	case "var":
		return b.newVar(n)
	case "varscope":
		return b.newVarScope(n)
	case "varref":
		return b.newVarRef(n)
	case "scope", "topscope":
		return b.newScope(n)
	case "assign", "assignw", "contassign":
		kind := graph.Assign
		if n.Name == "assignw" {
			kind = graph.AssignW
		}
		return b.newStatement(n, kind)
	case "assignalias":
		return b.newStatement(n, graph.AssignAlias)
	case "assigndly":
		b.isDelayedAssign = true
		err := b.newStatement(n, graph.AssignDly)
		b.isDelayedAssign = false
		return err
	case "always", "alwayspublic":
		return b.newStatement(n, graph.Always)
	case "initial":
		return b.newStatement(n, graph.Initial)
	case "instance":
		return b.newStatement(n, graph.Instance)
	case "sengate":
		return b.newStatement(n, graph.SenGate)
	case "senitem":
		if len(b.logicStack) > 0 {
			return b.iterateChildren(n)
		}
		return b.newStatement(n, graph.SenItem)
	case "cfunc":
		return b.newStatement(n, graph.CFunc)
	default:
		return b.iterateChildren(n)
	}
}

func (b *builder) iterateChildren(n *Node) error {
	for _, c := range n.Children {
		if err := b.dispatch(c); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) newScope(n *Node) error {
	b.scopeDepth++
	err := b.iterateChildren(n)
	b.scopeDepth--
	return err
}

// newVar implements the <var> half of spec §4.2: it canonicalizes the
// declared name against the auto-discovered top-module prefix, registers a
// Var vertex, and — when the declaration carries an origName attribute
// pointing at an already-declared port — wires the public/internal
// duplication edges in both directions.
func (b *builder) newVar(n *Node) error {
	name, err := n.MustAttr("name")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <var>", err)
	}
	loc, err := b.parseLoc(n)
	if err != nil {
		return err
	}

	_, hasDir := n.Attr("dir")
	direction := graph.DirNone
	if hasDir {
		dirStr, _ := n.Attr("dir")
		direction = graph.ParseDirection(dirStr)
	}

	_, isParam := n.Attr("param")
	paramValue := ""
	if isParam && len(n.Children) > 0 && n.Children[0].Name == "const" {
		paramValue, _ = n.Children[0].Attr("name")
	}

	_, isPublic := n.Attr("public")

	if b.scopeDepth == 0 {
		if pos := strings.IndexByte(name, '.'); pos != -1 && !strings.HasPrefix(name, "__V") {
			prefix := name[:pos]
			if b.topName == "" {
				b.topName = prefix
			} else if b.topName != prefix {
				return nlerr.Newf(nlerr.SchemaViolation, "inconsistent top module prefix: %q vs %q", b.topName, prefix)
			}
		}
	}

	var dt *dtype.DType
	if dtypeID, ok := n.Attr("dtype_id"); ok {
		dt = b.types.Lookup(dtypeID)
	}

	canonical := b.addTopPrefix(name)
	id := b.g.AddVertex(graph.Vertex{
		Kind:        graph.Var,
		Name:        canonical,
		Direction:   direction,
		DType:       dt,
		Loc:         loc,
		IsParam:     isParam,
		ParamValue:  paramValue,
		IsPublic:    isPublic,
		IsTopSignal: hasDir,
	})
	b.vars[canonical] = id

	if origName, ok := n.Attr("origName"); ok {
		if pubID, found := b.vars[origName]; found && pubID != id {
			pub := b.g.Vertex(pubID)
			if pub.IsPort() {
				b.g.AddEdge(pubID, id)
				b.g.AddEdge(id, pubID)
				b.g.VertexPtr(id).Direction = pub.Direction
			}
		}
	}
	return nil
}

// newVarScope handles a <varscope> reference found inside <topscope>/<scope>:
// it re-declares the variable if the earlier <var> pass never saw it.
func (b *builder) newVarScope(n *Node) error {
	name, err := n.MustAttr("name")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <varscope>", err)
	}
	if b.lookupVarVertex(name) == graph.NullID {
		return b.newVar(n)
	}
	return nil
}

// newStatement implements the logic-statement half of spec §4.2: it creates
// a logic vertex, links it under the logic block it is nested in (if any),
// and recurses into its children. The four assign-like statement kinds are
// special-cased: they must have exactly two children, the first treated as
// the R-value expression and the last as the L-value target.
func (b *builder) newStatement(n *Node, kind graph.AstKind) error {
	if b.scopeDepth == 0 {
		return nil
	}
	loc, err := b.parseLoc(n)
	if err != nil {
		return err
	}

	id := b.g.AddVertex(graph.Vertex{Kind: kind, Loc: loc})
	if len(b.logicStack) > 0 {
		b.g.AddEdge(b.logicStack[len(b.logicStack)-1], id)
	}
	b.logicStack = append(b.logicStack, id)

	switch kind {
	case graph.Assign, graph.AssignAlias, graph.AssignDly, graph.AssignW:
		if len(n.Children) != 2 {
			b.logicStack = b.logicStack[:len(b.logicStack)-1]
			return nlerr.Newf(nlerr.SchemaViolation, "assign-like statement at %v has %d children, expected 2", loc, len(n.Children))
		}
		if err := b.dispatch(n.Children[0]); err != nil {
			b.logicStack = b.logicStack[:len(b.logicStack)-1]
			return err
		}
		b.isLValue = true
		err := b.dispatch(n.Children[1])
		b.isLValue = false
		if err != nil {
			b.logicStack = b.logicStack[:len(b.logicStack)-1]
			return err
		}
	default:
		if err := b.iterateChildren(n); err != nil {
			b.logicStack = b.logicStack[:len(b.logicStack)-1]
			return err
		}
	}

	b.logicStack = b.logicStack[:len(b.logicStack)-1]
	return nil
}

// newVarRef implements a <varref>: it must occur inside a logic block, and
// wires an edge in the direction the current L-value/R-value phase demands.
// A delayed-assign L-value marks its target DstReg so the register split can
// find it later.
func (b *builder) newVarRef(n *Node) error {
	if len(b.logicStack) == 0 {
		name, _ := n.Attr("name")
		return nlerr.Newf(nlerr.SchemaViolation, "var %q referenced outside any logic block", name)
	}
	name, err := n.MustAttr("name")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <varref>", err)
	}
	id := b.lookupVarVertex(name)
	if id == graph.NullID {
		return nlerr.Newf(nlerr.SchemaViolation, "var %q has no matching declaration", name)
	}

	cur := b.logicStack[len(b.logicStack)-1]
	if b.isLValue {
		b.g.AddEdge(cur, id)
		if b.isDelayedAssign {
			b.g.VertexPtr(id).Kind = graph.DstReg
		}
	} else {
		b.g.AddEdge(id, cur)
	}
	return b.iterateChildren(n)
}

func (b *builder) lookupVarVertex(name string) graph.ID {
	if id, ok := b.vars[name]; ok {
		return id
	}
	if id, ok := b.vars[b.addTopPrefix(name)]; ok {
		return id
	}
	return graph.NullID
}

func (b *builder) addTopPrefix(name string) string {
	if b.topName != "" && !strings.HasPrefix(name, b.topName) {
		return b.topName + "." + name
	}
	return name
}

func (b *builder) parseLoc(n *Node) (graph.Location, error) {
	raw, ok := n.Attr("loc")
	if !ok {
		return graph.Location{}, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 5 {
		return graph.Location{}, nlerr.Newf(nlerr.Malformed, "malformed loc attribute %q", raw)
	}
	fileID, ok := b.fileIDs[parts[0]]
	if !ok {
		return graph.Location{}, nlerr.Newf(nlerr.Malformed, "loc attribute references unknown file id %q", parts[0])
	}
	nums := make([]int, 4)
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return graph.Location{}, nlerr.Wrap(nlerr.Malformed, "malformed loc attribute", err)
		}
		nums[i] = v
	}
	return graph.Location{FileID: fileID, StartLine: nums[0], StartCol: nums[1], EndLine: nums[2], EndCol: nums[3]}, nil
}
