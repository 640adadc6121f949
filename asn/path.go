package asn

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Step is one level of a value path. A step holds either a field label,
// a decimal index or a CHOICE/TAGGED alternative label. A field label may
// be combined with an alternative, as in "name.#plain".
//
// Path syntax:
//   - "a.b" → field a, then field b
//   - "a.3" → field a, then element 3 of a *_OF value
//   - "a.#plain" → field a, then its CHOICE alternative plain
//   - "0.#eth" → element 0, then alternative eth
//   - "" → the root value (nil *Step)
type Step struct {
	Field *string
	Index *int
	Alt   *string
	Next  *Step
}

func (p *Step) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		if buf.Len() > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(x.segment())
	}
	return buf.String()
}

// SegmentString returns the textual form of this step only.
func (p *Step) SegmentString() string {
	if p == nil {
		return ""
	}
	return p.segment()
}

func (p *Step) segment() string {
	return strings.Join(p.tokens(), ".")
}

// tokens returns the single-level labels this step applies, in order.
func (p *Step) tokens() []string {
	var res []string
	if p.Field != nil {
		res = append(res, *p.Field)
	}
	if p.Index != nil {
		res = append(res, strconv.Itoa(*p.Index))
	}
	if p.Alt != nil {
		res = append(res, "#"+*p.Alt)
	}
	return res
}

// Len returns the number of steps in the path.
func (p *Step) Len() int {
	n := 0
	for x := p; x != nil; x = x.Next {
		n++
	}
	return n
}

// ParsePath parses a dotted label path. The empty path denotes the root
// and parses to nil.
func ParsePath(path string) (*Step, error) {
	if path == "" {
		return nil, nil
	}
	root := &Step{}
	if err := parseFrag(path, path, root); err != nil {
		return nil, err
	}
	return root, nil
}

func parseFrag(path, frag string, cur *Step) error {
	tok, rest, more := strings.Cut(frag, ".")
	if tok == "" {
		return fmt.Errorf("%w: empty step in %q", ErrBadPath, path)
	}
	switch {
	case tok[0] == '#':
		if len(tok) == 1 {
			return fmt.Errorf("%w: empty alternative label in %q", ErrBadPath, path)
		}
		alt := tok[1:]
		cur.Alt = &alt
	case isIndex(tok):
		i, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("%w: index %q: %w", ErrBadPath, tok, err)
		}
		cur.Index = &i
	default:
		field := tok
		cur.Field = &field
		// a following "#alt" belongs to the same step
		if more && len(rest) > 1 && rest[0] == '#' {
			altTok, altRest, altMore := strings.Cut(rest, ".")
			if len(altTok) == 1 {
				return fmt.Errorf("%w: empty alternative label in %q", ErrBadPath, path)
			}
			alt := altTok[1:]
			cur.Alt = &alt
			rest, more = altRest, altMore
		}
	}
	if !more {
		return nil
	}
	if rest == "" {
		return fmt.Errorf("%w: trailing '.' in %q", ErrBadPath, path)
	}
	next := &Step{}
	if err := parseFrag(path, rest, next); err != nil {
		return err
	}
	cur.Next = next
	return nil
}

// Last returns the final step of the path.
func (p *Step) Last() *Step {
	if p == nil {
		return nil
	}
	x := p
	for x.Next != nil {
		x = x.Next
	}
	return x
}

// RSplit splits a path into its parent path and final single-level
// label.
//
// Examples:
//   - RSplit("a.b.c") → ("a.b", "c")
//   - RSplit("a.#plain") → ("a", "#plain")
//   - RSplit("a") → ("", "a")
func RSplit(path string) (parent, last string) {
	i := strings.LastIndexByte(path, '.')
	if i == -1 {
		return "", path
	}
	return path[:i], path[i+1:]
}
