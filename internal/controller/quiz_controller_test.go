package controller

import (
	"reflect"
	"testing"
)

func TestSplitIDs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", []string{}},
		{" , ", []string{}},
	}

	for _, c := range cases {
		if got := splitIDs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
