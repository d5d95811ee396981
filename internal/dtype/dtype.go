// Package dtype implements the two-pass, forward-reference-safe DType
// registry described for the Verilator-XML type table: basic, ref, array,
// struct/union and enum data types, each addressable by the string ID the
// elaborator assigns them.
package dtype

import "fmt"

// Kind identifies which variant of the DType sum type a value holds.
type Kind int

const (
	Basic Kind = iota
	Ref
	Array
	Struct
	Union
	Enum
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Ref:
		return "ref"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case Union:
		return "union"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// Member is one field of a Struct or Union DType.
type Member struct {
	Name  string
	DType *DType
}

// EnumItem is one named value of an Enum DType.
type EnumItem struct {
	Name  string
	Value int
}

// DType is the immutable-after-resolution representation of a hardware
// data type. Ref, Array and Enum carry a Subtype pointer that is nil until
// the registry's second pass resolves it.
type DType struct {
	ID   string
	Kind Kind
	Name string

	// Basic
	HasRange bool
	Left     int
	Right    int

	// Ref, Array, Enum
	Subtype *DType

	// Array
	Start  int
	End    int
	Packed bool

	// Struct, Union
	Members []Member

	// Enum
	Items []EnumItem
}

// Width returns the bit width of the DType, recursing through Ref/Array
// indirection and summing (struct) or maxing (union) member widths.
func (d *DType) Width() int {
	if d == nil {
		return 0
	}
	switch d.Kind {
	case Basic:
		if d.HasRange {
			w := d.Left - d.Right
			if w < 0 {
				w = -w
			}
			return w + 1
		}
		return 1
	case Ref:
		return d.Subtype.Width()
	case Array:
		count := d.End - d.Start
		if count < 0 {
			count = -count
		}
		count++
		return count * d.Subtype.Width()
	case Struct:
		total := 0
		for _, m := range d.Members {
			total += m.DType.Width()
		}
		return total
	case Union:
		max := 0
		for _, m := range d.Members {
			if w := m.DType.Width(); w > max {
				max = w
			}
		}
		return max
	case Enum:
		return d.Subtype.Width()
	default:
		return 0
	}
}

// String renders a short human-readable type description, sufficient for
// path reports; it is not a full pretty-printer for every DType shape.
func (d *DType) String() string {
	if d == nil {
		return "none"
	}
	switch d.Kind {
	case Basic:
		if d.HasRange {
			return fmt.Sprintf("%s [%d:%d]", d.Name, d.Left, d.Right)
		}
		return d.Name
	case Ref:
		return d.Name
	case Array:
		return fmt.Sprintf("%s[%d:%d]", d.Subtype.String(), d.Start, d.End)
	case Struct:
		return fmt.Sprintf("struct %s", d.Name)
	case Union:
		return fmt.Sprintf("union %s", d.Name)
	case Enum:
		return fmt.Sprintf("enum %s", d.Name)
	default:
		return "unknown"
	}
}

// Registry resolves Verilator-XML type-table IDs to DTypes across two
// ingestion passes, since the elaborator emits IDs in topologically-unsafe
// order (a subtype ID may be referenced before it is declared).
type Registry struct {
	byID map[string]*DType
	all  []*DType
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[string]*DType)}
}

// Lookup returns the DType registered under id, or nil if absent.
func (r *Registry) Lookup(id string) *DType {
	return r.byID[id]
}

// All returns every DType declared in the registry, in declaration order.
func (r *Registry) All() []*DType {
	return r.all
}

// ByName returns the first DType whose Name matches, or nil.
func (r *Registry) ByName(name string) *DType {
	for _, d := range r.all {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (r *Registry) register(id string, d *DType) {
	d.ID = id
	r.byID[id] = d
	r.all = append(r.all, d)
}

// DeclareBasic is pass 1 for a <basicdtype>: construct and register the
// finished DType immediately, since basic types have no forward reference.
func (r *Registry) DeclareBasic(id, name string, hasRange bool, left, right int) {
	if _, ok := r.byID[id]; ok {
		return
	}
	r.register(id, &DType{Kind: Basic, Name: name, HasRange: hasRange, Left: left, Right: right})
}

// DeclareRefShell is pass 1 for a <refdtype>: register a shell with the
// Subtype left unresolved.
func (r *Registry) DeclareRefShell(id, name string) {
	if _, ok := r.byID[id]; ok {
		return
	}
	r.register(id, &DType{Kind: Ref, Name: name})
}

// ResolveRef is pass 2 for a <refdtype>: fill in the shell's Subtype.
func (r *Registry) ResolveRef(id, subtypeID string) error {
	d, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("could not find ref dtype ID %s", id)
	}
	sub, ok := r.byID[subtypeID]
	if !ok {
		return fmt.Errorf("could not find sub dtype ID %s", subtypeID)
	}
	d.Subtype = sub
	return nil
}

// DeclareArrayShell is pass 1 for a <packarraydtype>/<unpackarraydtype>.
func (r *Registry) DeclareArrayShell(id string, start, end int, packed bool) {
	if _, ok := r.byID[id]; ok {
		return
	}
	r.register(id, &DType{Kind: Array, Start: start, End: end, Packed: packed})
}

// ResolveArray is pass 2 for an array dtype: fill in the element Subtype.
func (r *Registry) ResolveArray(id, subtypeID string) error {
	d, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("could not find array dtype ID %s", id)
	}
	sub, ok := r.byID[subtypeID]
	if !ok {
		return fmt.Errorf("could not find sub dtype ID %s", subtypeID)
	}
	d.Subtype = sub
	return nil
}

// DeclareAggregateShell is pass 1 for a <structdtype>/<uniondtype>.
func (r *Registry) DeclareAggregateShell(id, name string, union bool) {
	if _, ok := r.byID[id]; ok {
		return
	}
	kind := Struct
	if union {
		kind = Union
	}
	r.register(id, &DType{Kind: kind, Name: name})
}

// ResolveAggregateMember is pass 2 for a <structdtype>/<uniondtype>: adds
// one resolved member. subtypeID must already be registered.
func (r *Registry) ResolveAggregateMember(id, memberName, subtypeID string) error {
	d, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("could not find aggregate dtype ID %s", id)
	}
	sub, ok := r.byID[subtypeID]
	if !ok {
		return fmt.Errorf("could not find member sub dtype ID %s", subtypeID)
	}
	d.Members = append(d.Members, Member{Name: memberName, DType: sub})
	return nil
}

// DeclareEnumShell is pass 1 for an <enumdtype>.
func (r *Registry) DeclareEnumShell(id, name string, items []EnumItem) {
	if _, ok := r.byID[id]; ok {
		return
	}
	r.register(id, &DType{Kind: Enum, Name: name, Items: items})
}

// ResolveEnum is pass 2 for an <enumdtype>: fill in the underlying Subtype.
func (r *Registry) ResolveEnum(id, subtypeID string) error {
	d, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("could not find enum dtype ID %s", id)
	}
	sub, ok := r.byID[subtypeID]
	if !ok {
		return fmt.Errorf("could not find sub dtype ID %s", subtypeID)
	}
	d.Subtype = sub
	return nil
}
