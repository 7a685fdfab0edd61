package util

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Allergy", "Allergy"},
		{"  Allergy  ", "Allergy"},
		{"Internal   Medicine", "Internal Medicine"},
		{"internal\tmedicine", "internal medicine"},
		{"", DefaultCategory},
		{"   ", DefaultCategory},
	}

	for _, c := range cases {
		if got := NormalizeCategory(c.in); got != c.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSetEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want bool
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, true},
		{"order independent", []string{"b", "a"}, []string{"a", "b"}, true},
		{"duplicates ignored", []string{"a", "a", "b"}, []string{"a", "b"}, true},
		{"subset is not equal", []string{"a"}, []string{"a", "b"}, false},
		{"superset is not equal", []string{"a", "b", "c"}, []string{"a", "b"}, false},
		{"both empty", nil, nil, true},
		{"one empty", []string{"a"}, nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SetEqual(c.a, c.b); got != c.want {
				t.Errorf("SetEqual(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}
