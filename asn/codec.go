package asn

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/signadot/tad/debug"
)

// Byte buffers exchanged with the codec use these conventions:
//   - BOOLEAN: one octet, zero is FALSE, kept as written
//   - INTEGER, ENUMERATED: big-endian, 1 to 8 octets on write, the type's
//     width on read; two's complement unless the type has an explicit bit
//     width
//   - LONG_INT: big-endian octets, at most the type's width
//   - REAL: 8 octets of big-endian IEEE 754
//   - OBJECT IDENTIFIER: 4 big-endian octets per sub-id
//   - OCTET, CHAR and BIT STRING: raw octets
//   - NULL: no octets

// WriteField resolves path, creating missing intermediate values, and
// stores data in the primitive value found there.
func (v *Value) WriteField(path string, data []byte) error {
	leaf, err := v.leaf(path)
	if err != nil {
		return err
	}
	if err := leaf.writePrimitive(data); err != nil {
		return &PathError{Path: path, Step: path, Err: err}
	}
	if debug.Codec() {
		debug.Logf("write %q (%s): % x\n", path, leaf.typ, data)
	}
	return nil
}

// ReadField copies the primitive data at path into buf and returns the
// number of octets copied. An unpopulated CHOICE or field on the way
// yields ErrIncompleteValue.
func (v *Value) ReadField(path string, buf []byte) (int, error) {
	data, err := v.FieldData(path)
	if err != nil {
		return 0, err
	}
	if len(buf) < len(data) {
		return len(data), fmt.Errorf("%w: need %d octets, have %d", ErrSmallBuffer, len(data), len(buf))
	}
	return copy(buf, data), nil
}

// FieldData returns a copy of the primitive data at path.
func (v *Value) FieldData(path string) ([]byte, error) {
	leaf, err := v.Get(path)
	if err != nil {
		return nil, err
	}
	data, err := leaf.primitiveBytes()
	if err != nil {
		return nil, &PathError{Path: path, Step: path, Err: err}
	}
	if debug.Codec() {
		debug.Logf("read %q (%s): % x\n", path, leaf.typ, data)
	}
	return data, nil
}

// WriteInt stores an integer in the BOOLEAN, INTEGER, ENUMERATED or
// LONG_INT value at path.
func (v *Value) WriteInt(path string, n int64) error {
	leaf, err := v.leaf(path)
	if err != nil {
		return err
	}
	if leaf.syntax == LongInt {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(n))
		err = leaf.writePrimitive(buf)
	} else {
		err = leaf.setInt(n)
	}
	if err != nil {
		return &PathError{Path: path, Step: path, Err: err}
	}
	return nil
}

// ReadInt reads the integer stored at path.
func (v *Value) ReadInt(path string) (int64, error) {
	leaf, err := v.Get(path)
	if err != nil {
		return 0, err
	}
	if leaf, err = leaf.unwrapSingle(); err != nil {
		return 0, &PathError{Path: path, Step: path, Err: err}
	}
	switch d := leaf.data.(type) {
	case intPayload:
		return d.v, nil
	case bytesPayload:
		if leaf.syntax == LongInt {
			return beInt(d.b), nil
		}
	case nil:
		if !leaf.syntax.IsConstructed() {
			return 0, &PathError{Path: path, Step: path, Err: ErrIncompleteValue}
		}
	}
	return 0, &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s is not an integer", ErrWrongSyntax, leaf.syntax)}
}

// WriteString stores s in the string value at path. For ENUMERATED
// values s names the entry.
func (v *Value) WriteString(path string, s string) error {
	leaf, err := v.leaf(path)
	if err != nil {
		return err
	}
	if leaf.syntax == Enumerated {
		n, ok := leaf.typ.EnumValue(s)
		if !ok {
			return &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: enum entry %q in %s", ErrNotFound, s, leaf.typ)}
		}
		return leaf.setInt(int64(n))
	}
	switch leaf.syntax {
	case CharString, OctString:
	default:
		return &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s is not a string", ErrWrongSyntax, leaf.syntax)}
	}
	if err := leaf.writePrimitive([]byte(s)); err != nil {
		return &PathError{Path: path, Step: path, Err: err}
	}
	return nil
}

// ReadString reads the string at path, without trailing NUL octets.
func (v *Value) ReadString(path string) (string, error) {
	leaf, err := v.Get(path)
	if err != nil {
		return "", err
	}
	if leaf, err = leaf.unwrapSingle(); err != nil {
		return "", &PathError{Path: path, Step: path, Err: err}
	}
	switch d := leaf.data.(type) {
	case bytesPayload:
		return string(bytes.TrimRight(d.b, "\x00")), nil
	case intPayload:
		if leaf.syntax == Enumerated {
			if name, ok := leaf.typ.EnumName(int(d.v)); ok {
				return name, nil
			}
		}
	case nil:
		if !leaf.syntax.IsConstructed() {
			return "", &PathError{Path: path, Step: path, Err: ErrIncompleteValue}
		}
	}
	return "", &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s is not a string", ErrWrongSyntax, leaf.syntax)}
}

// WriteOID stores sub-ids in the OBJECT IDENTIFIER value at path.
func (v *Value) WriteOID(path string, ids []uint32) error {
	leaf, err := v.leaf(path)
	if err != nil {
		return err
	}
	if leaf.syntax != OID {
		return &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s is not an OID", ErrWrongSyntax, leaf.syntax)}
	}
	leaf.data = oidPayload{ids: slices.Clone(ids)}
	leaf.touch()
	return nil
}

// ReadOID reads the sub-ids of the OBJECT IDENTIFIER at path.
func (v *Value) ReadOID(path string) ([]uint32, error) {
	leaf, err := v.Get(path)
	if err != nil {
		return nil, err
	}
	if leaf, err = leaf.unwrapSingle(); err != nil {
		return nil, &PathError{Path: path, Step: path, Err: err}
	}
	switch d := leaf.data.(type) {
	case oidPayload:
		return slices.Clone(d.ids), nil
	case nil:
		if leaf.syntax == OID {
			return nil, &PathError{Path: path, Step: path, Err: ErrIncompleteValue}
		}
	}
	return nil, &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s is not an OID", ErrWrongSyntax, leaf.syntax)}
}

func (v *Value) leaf(path string) (*Value, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	leaf, err := v.walk(path, flatten(p), true)
	if err != nil {
		return nil, err
	}
	if leaf.syntax.IsConstructed() {
		return nil, &PathError{Path: path, Step: path, Err: fmt.Errorf("%w: %s value at leaf", ErrWrongSyntax, leaf.syntax)}
	}
	return leaf, nil
}

func (v *Value) writePrimitive(data []byte) error {
	t := v.typ
	switch v.syntax {
	case Bool:
		if len(data) != 1 {
			return fmt.Errorf("%w: %d octets for BOOLEAN", ErrInvalid, len(data))
		}
		// the octet is kept as written; any non-zero octet is TRUE
		v.data = intPayload{v: int64(data[0])}
	case Integer, Enumerated:
		if len(data) == 0 || len(data) > 8 {
			return fmt.Errorf("%w: %d octets for %s", ErrInvalid, len(data), v.syntax)
		}
		// sized integers are unsigned protocol fields
		if t.Len != 0 && len(data) < 8 {
			return v.setInt(beUint(data))
		}
		return v.setInt(beInt(data))
	case LongInt:
		w := t.Width()
		if len(data) == 0 || len(data) > 8 {
			return fmt.Errorf("%w: %d octets for LONG_INT", ErrInvalid, len(data))
		}
		n := beInt(data)
		if !fits(n, w) {
			return fmt.Errorf("%w: %d does not fit %d octets", ErrInvalid, n, w)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(n))
		v.data = bytesPayload{b: buf[8-w:]}
	case Real:
		if len(data) != 8 {
			return fmt.Errorf("%w: %d octets for REAL", ErrInvalid, len(data))
		}
		v.data = realPayload{f: math.Float64frombits(binary.BigEndian.Uint64(data))}
	case OID:
		if len(data)%4 != 0 {
			return fmt.Errorf("%w: %d octets for OBJECT IDENTIFIER", ErrInvalid, len(data))
		}
		ids := make([]uint32, len(data)/4)
		for i := range ids {
			ids[i] = binary.BigEndian.Uint32(data[4*i:])
		}
		v.data = oidPayload{ids: ids}
	case OctString, CharString, BitString:
		if w := t.Width(); w != 0 && len(data) != w {
			return fmt.Errorf("%w: %d octets for %s of width %d", ErrInvalid, len(data), t, w)
		}
		v.data = bytesPayload{b: slices.Clone(data)}
	case Null:
		v.data = nullPayload{}
	default:
		return fmt.Errorf("%w: %s", ErrWrongSyntax, v.syntax)
	}
	v.touch()
	return nil
}

func (v *Value) setInt(n int64) error {
	switch v.syntax {
	case Bool:
		if n != 0 {
			n = 1
		}
	case Integer, Enumerated:
		bits := 8 * v.typ.Width()
		if v.typ.Len != 0 {
			bits = v.typ.Len
		}
		if !fitsBits(n, bits) {
			return fmt.Errorf("%w: %d does not fit %d bits", ErrInvalid, n, bits)
		}
	default:
		return fmt.Errorf("%w: %s is not an integer", ErrWrongSyntax, v.syntax)
	}
	v.data = intPayload{v: n}
	v.touch()
	return nil
}

// unwrapSingle follows CHOICE and TAGGED values down to what they hold.
func (v *Value) unwrapSingle() (*Value, error) {
	for v.syntax.IsSingle() {
		inner := v.slots().slots[0]
		if inner == nil {
			return nil, fmt.Errorf("%w: nothing set in %s", ErrIncompleteValue, v.typ)
		}
		v = inner
	}
	return v, nil
}

func (v *Value) primitiveBytes() ([]byte, error) {
	v, err := v.unwrapSingle()
	if err != nil {
		return nil, err
	}
	switch d := v.data.(type) {
	case intPayload:
		w := v.typ.Width()
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(d.v))
		return buf[8-w:], nil
	case bytesPayload:
		return slices.Clone(d.b), nil
	case realPayload:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(d.f))
		return buf, nil
	case oidPayload:
		buf := make([]byte, 4*len(d.ids))
		for i, id := range d.ids {
			binary.BigEndian.PutUint32(buf[4*i:], id)
		}
		return buf, nil
	case nullPayload:
		if v.syntax == Null {
			return []byte{}, nil
		}
	case nil:
		return nil, ErrIncompleteValue
	}
	return nil, fmt.Errorf("%w: %s value is constructed", ErrWrongSyntax, v.syntax)
}

// beInt sign-extends a big-endian two's complement integer.
func beInt(b []byte) int64 {
	var n int64
	if len(b) > 0 && b[0]&0x80 != 0 {
		n = -1
	}
	for _, c := range b {
		n = n<<8 | int64(c)
	}
	return n
}

func beUint(b []byte) int64 {
	var n int64
	for _, c := range b {
		n = n<<8 | int64(c)
	}
	return n
}

// fits reports whether n is representable in w octets, either signed or
// unsigned.
func fits(n int64, w int) bool {
	return fitsBits(n, 8*w)
}

func fitsBits(n int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return n >= -(int64(1)<<(bits-1)) && n < int64(1)<<bits
}
