package asn

import (
	"testing"
)

func seqValue(t *testing.T, n int64, s string) *Value {
	t.Helper()
	v := NewValue(testSeq)
	if err := v.WriteInt("number", n); err != nil {
		t.Fatal(err)
	}
	if err := v.WriteString("string", s); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestEqual(t *testing.T) {
	a := seqValue(t, 1, "a")
	if !Equal(a, a.Clone()) {
		t.Errorf("clone not equal")
	}
	if Equal(a, seqValue(t, 2, "a")) {
		t.Errorf("different numbers equal")
	}
	b := a.Clone()
	if err := b.FreeSubvalue("string"); err != nil {
		t.Fatal(err)
	}
	if Equal(a, b) {
		t.Errorf("unset field equal")
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Errorf("nil handling")
	}
}

func TestDiff(t *testing.T) {
	a := seqValue(t, 1, "a")
	if d := Diff(a, a.Clone()); d != "" {
		t.Errorf("equal values diff:\n%s", d)
	}
	want := "- number = 1\n+ number = 2\n  string = \"a\"\n"
	if got := Diff(a, seqValue(t, 2, "a")); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
