package validate

import "testing"

func exampleNetlist() map[string]interface{} {
	return map[string]interface{}{
		"vertices": []map[string]interface{}{
			{"id": 0, "name": "i_a", "kind": "VAR", "direction": "input", "isTopSignal": true, "width": 1, "inDegree": 0, "outDegree": 1},
		},
		"edges": []map[string]interface{}{},
	}
}

func TestValidateAcceptsWellFormedNetlist(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(exampleNetlist()); err != nil {
		t.Fatalf("expected valid netlist to pass validation: %v", err)
	}
}

func TestValidateRejectsMissingField(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := exampleNetlist()
	vertices := bad["vertices"].([]map[string]interface{})
	delete(vertices[0], "width")
	if err := v.Validate(bad); err == nil {
		t.Fatal("expected validation to fail on a missing required field")
	}
}
