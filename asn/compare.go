package asn

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Equal reports whether a and b have the same syntax, labels and
// populated content. Types are compared by syntax only.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.syntax != b.syntax || a.name != b.name {
		return false
	}
	switch da := a.data.(type) {
	case nil:
		return b.data == nil
	case bytesPayload:
		db, ok := b.data.(bytesPayload)
		return ok && bytes.Equal(da.b, db.b)
	case oidPayload:
		db, ok := b.data.(oidPayload)
		return ok && slices.Equal(da.ids, db.ids)
	case *slotsPayload:
		db, ok := b.data.(*slotsPayload)
		if !ok {
			return false
		}
		if a.syntax.IsArray() && len(da.slots) != len(db.slots) {
			return false
		}
		return slices.EqualFunc(da.slots, db.slots, Equal)
	}
	return a.data == b.data
}

// Diff returns a line diff of the textual forms of from and to, one
// field per line, with "-" and "+" prefixes on changed lines. It returns
// the empty string when the texts are equal.
func Diff(from, to *Value) string {
	a, b := diffLines(from), diffLines(to)
	if a == b {
		return ""
	}
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)
	buf := bytes.NewBuffer(nil)
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
		}
	}
	return buf.String()
}

// diffLines lists the populated leaves of v as "path = value" lines.
func diffLines(v *Value) string {
	buf := bytes.NewBuffer(nil)
	var rec func(path string, x *Value)
	rec = func(path string, x *Value) {
		d, ok := x.data.(*slotsPayload)
		if !ok {
			if x.data != nil {
				buf.WriteString(path + " = " + x.primitiveText() + "\n")
			}
			return
		}
		for i, c := range d.slots {
			if c == nil {
				continue
			}
			var label string
			switch {
			case x.syntax.IsArray():
				label = strconv.Itoa(i)
			case x.syntax.IsSingle():
				label = "#" + c.name
				if c.name == "" {
					label = "0"
				}
			default:
				label = c.name
			}
			if path != "" {
				label = path + "." + label
			}
			rec(label, c)
		}
	}
	if v != nil {
		rec("", v)
	}
	return buf.String()
}
