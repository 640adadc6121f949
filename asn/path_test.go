package asn

import (
	"errors"
	"testing"
)

type pathTest struct {
	path  string
	steps int
	str   string
	err   bool
}

var pathTests = []pathTest{
	{path: "", steps: 0, str: ""},
	{path: "a", steps: 1, str: "a"},
	{path: "a.b", steps: 2, str: "a.b"},
	{path: "a.3", steps: 2, str: "a.3"},
	{path: "name.#plain", steps: 1, str: "name.#plain"},
	{path: "0.#eth", steps: 2, str: "0.#eth"},
	{path: "pdus.1.#ip4.src-addr.#plain", steps: 4, str: "pdus.1.#ip4.src-addr.#plain"},
	{path: "#plain", steps: 1, str: "#plain"},
	{path: "a..b", err: true},
	{path: "a.", err: true},
	{path: ".a", err: true},
	{path: "#", err: true},
	{path: "a.#", err: true},
	{path: "a.#.b", err: true},
}

func TestParsePath(t *testing.T) {
	for _, pt := range pathTests {
		p, err := ParsePath(pt.path)
		if pt.err {
			if !errors.Is(err, ErrBadPath) {
				t.Errorf("%q: expected ErrBadPath, got %v", pt.path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", pt.path, err)
			continue
		}
		if got := p.Len(); got != pt.steps {
			t.Errorf("%q: got %d steps, want %d", pt.path, got, pt.steps)
		}
		if got := p.String(); got != pt.str {
			t.Errorf("%q: String() = %q", pt.path, got)
		}
	}
}

func TestParsePathCombinedStep(t *testing.T) {
	p, err := ParsePath("name.#plain")
	if err != nil {
		t.Fatal(err)
	}
	if p.Field == nil || *p.Field != "name" || p.Alt == nil || *p.Alt != "plain" {
		t.Errorf("unexpected step %+v", p)
	}
	if p.Next != nil {
		t.Errorf("expected a single step")
	}
}

func TestRSplit(t *testing.T) {
	tests := []struct {
		in, parent, last string
	}{
		{"a.b.c", "a.b", "c"},
		{"a.#plain", "a", "#plain"},
		{"a", "", "a"},
		{"", "", ""},
	}
	for _, tt := range tests {
		parent, last := RSplit(tt.in)
		if parent != tt.parent || last != tt.last {
			t.Errorf("RSplit(%q) = (%q, %q), want (%q, %q)", tt.in, parent, last, tt.parent, tt.last)
		}
	}
}

func TestLastStep(t *testing.T) {
	p, err := ParsePath("a.b.#c")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Last().SegmentString(); got != "b.#c" {
		t.Errorf("got %q", got)
	}
}
