package dtype

import "testing"

func TestBasicWidthAndString(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", true, 7, 0)
	d := r.Lookup("1")
	if got := d.Width(); got != 8 {
		t.Fatalf("expected width 8, got %d", got)
	}
	if got := d.String(); got != "logic [7:0]" {
		t.Fatalf("unexpected string %q", got)
	}

	r.DeclareBasic("2", "logic", false, 0, 0)
	if got := r.Lookup("2").Width(); got != 1 {
		t.Fatalf("expected scalar width 1, got %d", got)
	}
}

func TestRefResolvesAcrossTwoPasses(t *testing.T) {
	r := New()
	// Pass 1: declare the shell before its subtype exists, mirroring the
	// elaborator's forward-reference ordering.
	r.DeclareRefShell("2", "byte_t")
	r.DeclareBasic("1", "logic", true, 7, 0)

	// Pass 2: resolve now that both IDs are registered.
	if err := r.ResolveRef("2", "1"); err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	ref := r.Lookup("2")
	if got := ref.Width(); got != 8 {
		t.Fatalf("expected ref width 8, got %d", got)
	}
}

func TestResolveRefUnknownIDs(t *testing.T) {
	r := New()
	r.DeclareRefShell("2", "byte_t")
	if err := r.ResolveRef("2", "missing"); err == nil {
		t.Fatal("expected an error resolving an unknown subtype ID")
	}
	if err := r.ResolveRef("missing", "2"); err == nil {
		t.Fatal("expected an error resolving an unknown ref ID")
	}
}

func TestArrayWidthMultipliesElementCount(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", false, 0, 0)
	r.DeclareArrayShell("2", 0, 3, true)
	if err := r.ResolveArray("2", "1"); err != nil {
		t.Fatalf("ResolveArray: %v", err)
	}
	arr := r.Lookup("2")
	if got := arr.Width(); got != 4 {
		t.Fatalf("expected array width 4, got %d", got)
	}
	if got := arr.String(); got != "logic[0:3]" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestStructWidthSumsMembers(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", true, 7, 0)
	r.DeclareBasic("2", "logic", false, 0, 0)
	r.DeclareAggregateShell("3", "packet_t", false)
	if err := r.ResolveAggregateMember("3", "payload", "1"); err != nil {
		t.Fatalf("ResolveAggregateMember: %v", err)
	}
	if err := r.ResolveAggregateMember("3", "valid", "2"); err != nil {
		t.Fatalf("ResolveAggregateMember: %v", err)
	}
	st := r.Lookup("3")
	if got := st.Width(); got != 9 {
		t.Fatalf("expected struct width 9, got %d", got)
	}
	if st.Kind != Struct {
		t.Fatalf("expected Struct kind, got %v", st.Kind)
	}
}

func TestUnionWidthTakesMax(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", true, 7, 0)
	r.DeclareBasic("2", "logic", true, 15, 0)
	r.DeclareAggregateShell("3", "word_t", true)
	if err := r.ResolveAggregateMember("3", "byte", "1"); err != nil {
		t.Fatalf("ResolveAggregateMember: %v", err)
	}
	if err := r.ResolveAggregateMember("3", "half", "2"); err != nil {
		t.Fatalf("ResolveAggregateMember: %v", err)
	}
	un := r.Lookup("3")
	if got := un.Width(); got != 16 {
		t.Fatalf("expected union width 16, got %d", got)
	}
}

func TestEnumResolvesUnderlyingSubtype(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", true, 1, 0)
	items := []EnumItem{{Name: "IDLE", Value: 0}, {Name: "BUSY", Value: 1}}
	r.DeclareEnumShell("2", "state_t", items)
	if err := r.ResolveEnum("2", "1"); err != nil {
		t.Fatalf("ResolveEnum: %v", err)
	}
	en := r.Lookup("2")
	if got := en.Width(); got != 2 {
		t.Fatalf("expected enum width 2, got %d", got)
	}
	if len(en.Items) != 2 || en.Items[1].Name != "BUSY" {
		t.Fatalf("unexpected enum items %v", en.Items)
	}
}

func TestDeclareIsIdempotentOnRepeatedID(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", true, 7, 0)
	r.DeclareBasic("1", "other", false, 0, 0)
	if got := r.Lookup("1").Name; got != "logic" {
		t.Fatalf("expected the first declaration to win, got %q", got)
	}
	if len(r.All()) != 1 {
		t.Fatalf("expected exactly one registered dtype, got %d", len(r.All()))
	}
}

func TestByNameAndNilWidth(t *testing.T) {
	r := New()
	r.DeclareBasic("1", "logic", false, 0, 0)
	if r.ByName("logic") == nil {
		t.Fatal("expected ByName to find the declared dtype")
	}
	if r.ByName("missing") != nil {
		t.Fatal("expected ByName to return nil for an unknown name")
	}
	var nilDType *DType
	if got := nilDType.Width(); got != 0 {
		t.Fatalf("expected nil DType width 0, got %d", got)
	}
	if got := nilDType.String(); got != "none" {
		t.Fatalf("expected nil DType string \"none\", got %q", got)
	}
}
