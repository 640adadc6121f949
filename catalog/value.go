package catalog

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tad/asn"
)

// A value document names its type and lists field paths with their
// leaf values, in write order:
//
//	type: Generic-PDU-Sequence
//	value:
//	  "0.#eth.eth-type.#plain": 0x0800
//	  "1.#ip4.src-addr.#plain": 0a:00:00:01
//	  "1.#ip4.ip-len.#script": "expr:($0 + 20)"
type valueDoc struct {
	Type  string        `json:"type"`
	Value yaml.MapSlice `json:"value"`
}

// LoadValue builds a value from a YAML value document, resolving its
// type from c. A nil c resolves only registered and predefined types.
func (c *Catalog) LoadValue(d []byte) (*asn.Value, error) {
	doc := &valueDoc{}
	if err := yaml.Unmarshal(d, doc); err != nil {
		return nil, err
	}
	if doc.Type == "" {
		return nil, fmt.Errorf("value document has no type")
	}
	t, err := c.lookup(doc.Type)
	if err != nil {
		return nil, err
	}
	return NewValue(t, doc.Value)
}

func (c *Catalog) lookup(name string) (*asn.Type, error) {
	if c == nil {
		return resolveExternal(name)
	}
	return c.Type(name)
}

// NewValue creates a value of type t and writes the given path/leaf
// pairs in order.
func NewValue(t *asn.Type, fields yaml.MapSlice) (*asn.Value, error) {
	v := asn.NewValue(t)
	if v == nil {
		return nil, asn.ErrWrongPointer
	}
	for _, item := range fields {
		path, ok := item.Key.(string)
		if !ok {
			path = fmt.Sprint(item.Key)
		}
		if err := SetField(v, path, item.Value); err != nil {
			v.Free()
			return nil, err
		}
	}
	return v, nil
}

// SetField writes a YAML scalar or sequence to the primitive field of v
// at path, converting it by the syntax of the field.
func SetField(v *asn.Value, path string, x any) error {
	t, err := v.Type().SubtypeAt(path)
	if err != nil {
		return err
	}
	if err := setField(v, t, path, x); err != nil {
		return fmt.Errorf("field %q: %w", path, err)
	}
	return nil
}

func setField(v *asn.Value, t *asn.Type, path string, x any) error {
	switch t.Syntax {
	case asn.Bool:
		if b, ok := x.(bool); ok {
			if b {
				return v.WriteInt(path, 1)
			}
			return v.WriteInt(path, 0)
		}
		fallthrough
	case asn.Integer, asn.LongInt:
		n, err := toInt(x)
		if err != nil {
			return err
		}
		return v.WriteInt(path, n)
	case asn.Enumerated:
		if s, ok := x.(string); ok {
			return v.WriteString(path, s)
		}
		n, err := toInt(x)
		if err != nil {
			return err
		}
		return v.WriteInt(path, n)
	case asn.CharString:
		return v.WriteString(path, fmt.Sprint(x))
	case asn.OctString, asn.BitString:
		b, err := toOctets(x)
		if err != nil {
			return err
		}
		return v.WriteField(path, b)
	case asn.OID:
		ids, err := toOID(x)
		if err != nil {
			return err
		}
		return v.WriteOID(path, ids)
	case asn.Real:
		f, err := toFloat(x)
		if err != nil {
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(f))
		return v.WriteField(path, buf)
	case asn.Null:
		return v.WriteField(path, nil)
	}
	return fmt.Errorf("%w: %s is not a leaf", asn.ErrWrongSyntax, t)
}

func toInt(x any) (int64, error) {
	switch n := x.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d out of range", asn.ErrInvalid, n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %v is not an integer", asn.ErrInvalid, n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", asn.ErrInvalid, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: %T for an integer", asn.ErrInvalid, x)
}

func toFloat(x any) (float64, error) {
	switch n := x.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", asn.ErrInvalid, err)
		}
		return f, nil
	}
	i, err := toInt(x)
	return float64(i), err
}

// toOctets accepts 'hex'H, hex digits optionally separated by ':' and a
// sequence of octet values.
func toOctets(x any) ([]byte, error) {
	switch s := x.(type) {
	case string:
		if h, ok := strings.CutPrefix(s, "'"); ok {
			if h, ok = strings.CutSuffix(h, "'H"); !ok {
				return nil, fmt.Errorf("%w: octets %q", asn.ErrInvalid, s)
			}
			s = h
		}
		b, err := hex.DecodeString(strings.ReplaceAll(s, ":", ""))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", asn.ErrInvalid, err)
		}
		return b, nil
	case []any:
		b := make([]byte, len(s))
		for i, e := range s {
			n, err := toInt(e)
			if err != nil {
				return nil, err
			}
			if n < 0 || n > 0xff {
				return nil, fmt.Errorf("%w: octet %d", asn.ErrInvalid, n)
			}
			b[i] = byte(n)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %T for octets", asn.ErrInvalid, x)
}

// toOID accepts dotted text or a sequence of sub-identifiers.
func toOID(x any) ([]uint32, error) {
	var parts []any
	switch s := x.(type) {
	case string:
		for _, p := range strings.Split(s, ".") {
			parts = append(parts, p)
		}
	case []any:
		parts = s
	default:
		return nil, fmt.Errorf("%w: %T for an OID", asn.ErrInvalid, x)
	}
	ids := make([]uint32, len(parts))
	for i, p := range parts {
		n, err := toInt(p)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > math.MaxUint32 {
			return nil, fmt.Errorf("%w: sub-identifier %d", asn.ErrInvalid, n)
		}
		ids[i] = uint32(n)
	}
	return ids, nil
}
