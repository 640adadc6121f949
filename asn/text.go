package asn

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

type Colorable struct {
	Syntax Syntax
	Attr   ColorAttr
}

type ColorAttr int

const (
	LabelColor ColorAttr = iota
	ValueColor
	SepColor
)

// Colors maps syntax/attribute pairs to formatting functions for the
// value printer.
type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, s := range Syntaxes() {
		able := Colorable{Syntax: s, Attr: SepColor}
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = LabelColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}
	for _, s := range []Syntax{Integer, LongInt, Real} {
		able.Syntax = s
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	able.Syntax = Enumerated
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Syntax = Bool
	colors.Map[able] = color.CyanString
	able.Syntax = Null
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Syntax = CharString
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	for _, s := range []Syntax{OctString, BitString, OID} {
		able.Syntax = s
		colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	}
	able.Syntax = Choice
	able.Attr = LabelColor
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(s Syntax, a ColorAttr, v string) string {
	if c == nil {
		return v
	}
	f := c.Map[Colorable{Syntax: s, Attr: a}]
	if f == nil {
		return c.Default(v)
	}
	return f(v)
}

// String renders v in ASN.1 value notation. Unset fields of SEQUENCE and
// SET values are omitted; an unset primitive or CHOICE renders empty.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	v.sprint(buf, nil)
	return buf.String()
}

// Sprint renders v like String with colors applied.
func (v *Value) Sprint(c *Colors) string {
	if v == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	v.sprint(buf, c)
	return buf.String()
}

// TextLen returns the length of String(), or 0 if v is incomplete. The
// length is cached until v or a descendant is modified.
func (v *Value) TextLen() int {
	if v == nil {
		return 0
	}
	if v.txtLen >= 0 {
		return v.txtLen
	}
	n := 0
	if v.complete() {
		n = len(v.String())
	}
	v.txtLen = n
	return n
}

// complete reports whether v has something to print. A SEQUENCE or SET
// needs at least one field set; an empty SEQUENCE OF is complete.
func (v *Value) complete() bool {
	switch d := v.data.(type) {
	case nil:
		return false
	case *slotsPayload:
		switch {
		case v.syntax.IsSingle():
			return d.slots[0] != nil && d.slots[0].complete()
		case v.syntax.IsNamed():
			return slices.ContainsFunc(d.slots, func(c *Value) bool { return c != nil })
		}
	}
	return true
}

func (v *Value) sprint(buf *bytes.Buffer, c *Colors) {
	sep := func(s string) {
		buf.WriteString(c.Color(v.syntax, SepColor, s))
	}
	switch d := v.data.(type) {
	case nil:
		return
	case *slotsPayload:
		switch {
		case v.syntax == Choice:
			child := d.slots[0]
			if child == nil {
				return
			}
			buf.WriteString(c.Color(Choice, LabelColor, child.name))
			sep(":")
			child.sprint(buf, c)
		case v.syntax == Tagged:
			if d.slots[0] != nil {
				d.slots[0].sprint(buf, c)
			}
		default:
			sep("{")
			n := 0
			for _, child := range d.slots {
				if child == nil || !child.complete() {
					continue
				}
				if n > 0 {
					sep(",")
				}
				buf.WriteByte(' ')
				if v.syntax.IsNamed() {
					buf.WriteString(c.Color(v.syntax, LabelColor, child.name))
					buf.WriteByte(' ')
				}
				child.sprint(buf, c)
				n++
			}
			if n > 0 {
				buf.WriteByte(' ')
			}
			sep("}")
		}
	default:
		buf.WriteString(c.Color(v.syntax, ValueColor, v.primitiveText()))
	}
}

func (v *Value) primitiveText() string {
	switch d := v.data.(type) {
	case intPayload:
		switch v.syntax {
		case Bool:
			if d.v != 0 {
				return "TRUE"
			}
			return "FALSE"
		case Enumerated:
			if name, ok := v.typ.EnumName(int(d.v)); ok {
				return name
			}
		}
		return strconv.FormatInt(d.v, 10)
	case bytesPayload:
		switch v.syntax {
		case CharString:
			return strconv.Quote(string(bytes.TrimRight(d.b, "\x00")))
		case LongInt:
			return strconv.FormatInt(beInt(d.b), 10)
		case BitString:
			bits := make([]byte, 0, 8*len(d.b))
			for _, b := range d.b {
				for i := 7; i >= 0; i-- {
					bits = append(bits, '0'+(b>>i)&1)
				}
			}
			return "'" + string(bits) + "'B"
		}
		return "'" + strings.ToUpper(hex.EncodeToString(d.b)) + "'H"
	case realPayload:
		return strconv.FormatFloat(d.f, 'g', -1, 64)
	case oidPayload:
		parts := make([]string, len(d.ids))
		for i, id := range d.ids {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		return "{ " + strings.Join(parts, " ") + " }"
	case nullPayload:
		return "NULL"
	}
	return fmt.Sprintf("<%s>", v.syntax)
}
