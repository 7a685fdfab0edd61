package model

import (
	"reflect"
	"testing"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList{"a", "b"}.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if v != `["a","b"]` {
		t.Errorf("Value = %v, want [\"a\",\"b\"]", v)
	}

	v, err = StringList(nil).Value()
	if err != nil {
		t.Fatalf("Value on nil returned error: %v", err)
	}
	if v != "[]" {
		t.Errorf("nil list should serialize as empty array, got %v", v)
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte(`["x","y"]`)); err != nil {
		t.Fatalf("Scan bytes returned error: %v", err)
	}
	if !reflect.DeepEqual([]string(l), []string{"x", "y"}) {
		t.Errorf("Scan bytes = %v, want [x y]", l)
	}

	if err := l.Scan(`["z"]`); err != nil {
		t.Fatalf("Scan string returned error: %v", err)
	}
	if !reflect.DeepEqual([]string(l), []string{"z"}) {
		t.Errorf("Scan string = %v, want [z]", l)
	}

	if err := l.Scan(nil); err != nil {
		t.Fatalf("Scan nil returned error: %v", err)
	}
	if len(l) != 0 {
		t.Errorf("Scan nil should produce empty list, got %v", l)
	}

	if err := l.Scan(42); err == nil {
		t.Error("Scan should reject unsupported types")
	}
}
