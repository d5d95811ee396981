package ingest

import (
	"strconv"
	"strings"

	"github.com/netlist-paths/netlistpaths/internal/dtype"
	"github.com/netlist-paths/netlistpaths/internal/nlerr"
)

// visitTypeTable walks the <typetable> element once per pass. Pass 1
// registers a shell (or a finished DType, for the forward-reference-free
// basic kind) for every entry; pass 2 resolves the subtype pointers that
// could not be filled in on the first pass because the elaborator is free to
// emit a dtype's subtype ID before the subtype itself is declared.
func (b *builder) visitTypeTable(n *Node, pass int) error {
	for _, c := range n.Children {
		if err := b.visitDType(c, pass); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) visitDType(n *Node, pass int) error {
	switch n.Name {
	case "basicdtype":
		if pass == 1 {
			return b.visitBasicDType(n)
		}
		return nil
	case "refdtype":
		return b.visitRefDType(n, pass)
	case "packarraydtype":
		return b.visitArrayDType(n, true, pass)
	case "unpackarraydtype":
		return b.visitArrayDType(n, false, pass)
	case "structdtype":
		return b.visitAggregateDType(n, false, pass)
	case "uniondtype":
		return b.visitAggregateDType(n, true, pass)
	case "enumdtype":
		return b.visitEnumDType(n, pass)
	case "typedef":
		for _, c := range n.Children {
			if err := b.visitDType(c, pass); err != nil {
				return err
			}
		}
		return nil
	case "ifacerefdtype":
		return nil
	default:
		return nil
	}
}

func (b *builder) visitBasicDType(n *Node) error {
	id, err := n.MustAttr("id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <basicdtype>", err)
	}
	name, _ := n.Attr("name")
	left, hasLeft := n.Attr("left")
	right, hasRight := n.Attr("right")
	if hasLeft && hasRight {
		l, err := strconv.Atoi(left)
		if err != nil {
			return nlerr.Wrap(nlerr.Malformed, "malformed basicdtype left", err)
		}
		r, err := strconv.Atoi(right)
		if err != nil {
			return nlerr.Wrap(nlerr.Malformed, "malformed basicdtype right", err)
		}
		b.types.DeclareBasic(id, name, true, l, r)
	} else {
		b.types.DeclareBasic(id, name, false, 0, 0)
	}
	return nil
}

func (b *builder) visitRefDType(n *Node, pass int) error {
	id, err := n.MustAttr("id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <refdtype>", err)
	}
	if pass == 1 {
		name, _ := n.Attr("name")
		b.types.DeclareRefShell(id, name)
		return nil
	}
	subID, err := n.MustAttr("sub_dtype_id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <refdtype>", err)
	}
	if err := b.types.ResolveRef(id, subID); err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "could not resolve refdtype", err)
	}
	return nil
}

func (b *builder) visitArrayDType(n *Node, packed bool, pass int) error {
	id, err := n.MustAttr("id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed array dtype", err)
	}
	if pass == 1 {
		rangeNode := n.FirstChild("range")
		start, end, err := b.visitRange(rangeNode)
		if err != nil {
			return err
		}
		b.types.DeclareArrayShell(id, start, end, packed)
		return nil
	}
	subID, err := n.MustAttr("sub_dtype_id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed array dtype", err)
	}
	if err := b.types.ResolveArray(id, subID); err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "could not resolve array dtype", err)
	}
	return nil
}

// visitRange reads the two <const> children of a <range> element. Following
// the elaborator's own convention, the first child is the MSB-side bound
// (returned as end) and the last is the LSB-side bound (returned as start).
func (b *builder) visitRange(n *Node) (start, end int, err error) {
	if n == nil || len(n.Children) != 2 {
		return 0, 0, nlerr.New(nlerr.SchemaViolation, "<range> must have exactly 2 children")
	}
	start, err = b.visitConst(n.Children[1])
	if err != nil {
		return 0, 0, err
	}
	end, err = b.visitConst(n.Children[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// visitConst parses a <const> element's name attribute, which carries a
// Verilog-style sized literal such as "32'h4" or "5'sh1f".
func (b *builder) visitConst(n *Node) (int, error) {
	value, err := n.MustAttr("name")
	if err != nil {
		return 0, nlerr.Wrap(nlerr.SchemaViolation, "malformed <const>", err)
	}
	if pos := strings.LastIndex(value, "'sh"); pos != -1 {
		v, err := strconv.ParseInt(value[pos+3:], 16, 64)
		if err != nil {
			return 0, nlerr.Wrap(nlerr.Malformed, "malformed signed hex constant "+value, err)
		}
		return int(v), nil
	}
	if pos := strings.LastIndex(value, "'h"); pos != -1 {
		v, err := strconv.ParseUint(value[pos+2:], 16, 64)
		if err != nil {
			return 0, nlerr.Wrap(nlerr.Malformed, "malformed hex constant "+value, err)
		}
		return int(v), nil
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, nlerr.Wrap(nlerr.Malformed, "malformed constant "+value, err)
	}
	return int(v), nil
}

func (b *builder) visitAggregateDType(n *Node, union bool, pass int) error {
	id, err := n.MustAttr("id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed aggregate dtype", err)
	}
	if pass == 1 {
		name, _ := n.Attr("name")
		b.types.DeclareAggregateShell(id, name, union)
		return nil
	}
	for _, c := range n.Children {
		if c.Name != "memberdtype" {
			continue
		}
		memberName, err := c.MustAttr("name")
		if err != nil {
			return nlerr.Wrap(nlerr.SchemaViolation, "malformed <memberdtype>", err)
		}
		subID, err := c.MustAttr("sub_dtype_id")
		if err != nil {
			return nlerr.Wrap(nlerr.SchemaViolation, "malformed <memberdtype>", err)
		}
		if err := b.types.ResolveAggregateMember(id, memberName, subID); err != nil {
			return nlerr.Wrap(nlerr.SchemaViolation, "could not resolve aggregate member", err)
		}
	}
	return nil
}

func (b *builder) visitEnumDType(n *Node, pass int) error {
	id, err := n.MustAttr("id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <enumdtype>", err)
	}
	if pass == 1 {
		name, _ := n.Attr("name")
		var items []dtype.EnumItem
		for _, c := range n.Children {
			if c.Name != "enumitem" {
				continue
			}
			itemName, err := c.MustAttr("name")
			if err != nil {
				return nlerr.Wrap(nlerr.SchemaViolation, "malformed <enumitem>", err)
			}
			val := 0
			if len(c.Children) > 0 {
				val, err = b.visitConst(c.Children[0])
				if err != nil {
					return err
				}
			}
			items = append(items, dtype.EnumItem{Name: itemName, Value: val})
		}
		b.types.DeclareEnumShell(id, name, items)
		return nil
	}
	subID, err := n.MustAttr("sub_dtype_id")
	if err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "malformed <enumdtype>", err)
	}
	if err := b.types.ResolveEnum(id, subID); err != nil {
		return nlerr.Wrap(nlerr.SchemaViolation, "could not resolve enum dtype", err)
	}
	return nil
}
