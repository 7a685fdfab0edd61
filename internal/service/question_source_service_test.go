package service

import "testing"

func TestSubsetOf(t *testing.T) {
	options := []string{"a", "b", "c"}

	if !subsetOf([]string{"a", "c"}, options) {
		t.Error("answers drawn from the option list should pass")
	}
	if !subsetOf(nil, options) {
		t.Error("empty answer list is a valid subset")
	}
	if subsetOf([]string{"a", "x"}, options) {
		t.Error("answer outside the option list should fail")
	}
}
