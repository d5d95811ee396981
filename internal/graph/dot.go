package graph

import (
	"fmt"
	"io"
)

// WriteDot emits the Graphviz representation described in spec §6.2: one
// "digraph netlist { ... }" with a labelled line per vertex and a plain
// edge line per directed edge.
func (g *Graph) WriteDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph netlist {"); err != nil {
		return err
	}
	for i, v := range g.vertices {
		if v.Kind == Deleted {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d [label=\"%s\", type=\"%s\"]\n", i, v.Name, v.Kind); err != nil {
			return err
		}
	}
	for src, adj := range g.out {
		for _, dst := range adj {
			if g.vertices[src].Kind == Deleted || g.vertices[dst].Kind == Deleted {
				continue
			}
			if _, err := fmt.Fprintf(w, "%d -> %d;\n", src, dst); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
