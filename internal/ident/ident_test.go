package ident

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestKey_Normalization(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"string trimmed", "  abc  ", "abc"},
		{"blank string", "   ", ""},
		{"int", 3, "3"},
		{"int64", int64(42), "42"},
		{"float64 whole", float64(3), "3"},
		{"float64 fraction", 3.5, "3.5"},
		{"json number whole", json.Number("3.0"), "3"},
		{"json number fraction", json.Number("3.25"), "3.25"},
		{"stringer", id, id.String()},
	}

	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("%s: Key(%v) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestKey_EquatesNumericForms(t *testing.T) {
	// JSON decoding turns 3 into float64(3); legacy rows store "3".
	forms := []any{3, int64(3), float64(3), json.Number("3"), "3", " 3 "}
	for _, f := range forms {
		if got := Key(f); got != "3" {
			t.Fatalf("Key(%v) = %q, want \"3\"", f, got)
		}
	}
}

func TestMissing(t *testing.T) {
	if !Missing(Key(nil)) {
		t.Fatal("nil should key to the missing sentinel")
	}
	if !Missing(Key("  ")) {
		t.Fatal("blank string should key to the missing sentinel")
	}
	if Missing(Key("x")) {
		t.Fatal("real identifier should not be missing")
	}
}

func TestLooksNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3", true},
		{" 42 ", true},
		{"-7", true},
		{"", false},
		{"3.5", false},
		{"abc", false},
		{uuid.NewString(), false},
	}
	for _, tt := range tests {
		if got := LooksNumeric(tt.in); got != tt.want {
			t.Errorf("LooksNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
