package tad

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
	"github.com/signadot/tad/ndn"
)

// MatchData checks received octets against a compiled pattern data unit.
// It returns nil on a match and ErrNotMatch otherwise.
//
// Integer patterns read data as an unsigned big-endian number of 1 to 4
// octets. STRING compares like strncmp over len(data) characters.
// OCTS requires equal octets and MASK equal masked octets. UNDEF
// matches anything.
func MatchData(pattern *DataUnit, data []byte, args []TmplArg) error {
	if pattern == nil || data == nil {
		return ErrWrongPointer
	}
	ok, err := matchData(pattern, data, args)
	if debug.Match() {
		debug.Logf("match %s against % x: %t %v\n", pattern, data, ok, err)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s against % x", ErrNotMatch, pattern, data)
	}
	return nil
}

func matchData(pattern *DataUnit, data []byte, args []TmplArg) (bool, error) {
	switch pattern.Type {
	case DUUndef:
		return true, nil
	case DUI32, DUExpr, DUFunc, DUIntervals:
		if len(data) == 0 || len(data) > 4 {
			return false, fmt.Errorf("%w: integer of %d octets", ErrNotSupported, len(data))
		}
		got := int64(getUint(data))
		switch pattern.Type {
		case DUI32:
			return uint32(got) == uint32(pattern.I32), nil
		case DUIntervals:
			for _, iv := range pattern.Intervals {
				if iv.B <= got && got <= iv.E {
					return true, nil
				}
			}
			return false, nil
		}
		var (
			want int64
			err  error
		)
		if pattern.Type == DUExpr {
			want, err = pattern.Expr.Eval(args)
		} else {
			want, err = pattern.Func.Call(args)
		}
		if err != nil {
			return false, err
		}
		return uint32(got) == uint32(want), nil
	case DUString:
		return strnEqual(pattern.Str, data), nil
	case DUOctets:
		return bytes.Equal(pattern.Octets, data), nil
	case DUMask:
		if len(data) != len(pattern.Mask) {
			return false, nil
		}
		for i, m := range pattern.Mask {
			if data[i]&m != pattern.Pattern[i]&m {
				return false, nil
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: %s pattern", asn.ErrInvalid, pattern.Type)
}

// strnEqual compares at most len(data) characters and stops at the first
// NUL, with s read as NUL-terminated.
func strnEqual(s string, data []byte) bool {
	for i, c := range data {
		var p byte
		if i < len(s) {
			p = s[i]
		}
		if p != c {
			return false
		}
		if p == 0 {
			return true
		}
	}
	return true
}

// MatchField matches data against pattern and on success records it in
// the packet value under label, in the plain alternative of its
// DATA-UNIT. A nil pkt only matches.
func MatchField(pattern *DataUnit, pkt *asn.Value, data []byte, label string) error {
	if err := MatchData(pattern, data, nil); err != nil {
		return err
	}
	if pkt == nil {
		return nil
	}
	path := label + "." + "#" + ndn.LabelPlain
	t, err := pkt.Type().SubtypeAt(path)
	if err != nil {
		return err
	}
	switch t.Syntax {
	case asn.Bool, asn.Integer, asn.Enumerated:
		if len(data) <= 4 {
			return pkt.WriteInt(path, int64(getUint(data)))
		}
	}
	return pkt.WriteField(path, data)
}

// MatchPDU reports whether the packet value pkt satisfies the pattern
// value. Named fields absent from the pattern match anything; set
// fields must be present in pkt and match recursively. DATA-UNIT
// fields compile the pattern and test it against the plain data of the
// packet.
func MatchPDU(pattern, pkt *asn.Value, args []TmplArg) (bool, error) {
	ok, err := matchPDU(pattern, pkt, args)
	if err == nil && !ok && debug.Match() {
		debug.Logf("pdu mismatch:\n%s", asn.Diff(pattern, pkt))
	}
	return ok, err
}

func matchPDU(pattern, pkt *asn.Value, args []TmplArg) (bool, error) {
	if pattern == nil {
		return true, nil
	}
	if pkt == nil {
		return false, nil
	}
	if ndn.IsDataUnit(pattern.Type()) {
		return matchDataUnit(pattern, pkt, args)
	}
	if pattern.Syntax() != pkt.Syntax() {
		return false, nil
	}
	switch s := pattern.Syntax(); {
	case s == asn.Sequence, s == asn.Set:
		for _, pc := range pattern.Children() {
			kc, err := pkt.FindSubvalue(pc.Name())
			if err != nil {
				if errors.Is(err, asn.ErrIncompleteValue) || errors.Is(err, asn.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			ok, err := matchPDU(pc, kc, args)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil

	case s.IsSingle():
		pl, pc, err := firstChild(pattern)
		if err != nil {
			return true, nil
		}
		kl, kc, err := firstChild(pkt)
		if err != nil {
			return false, nil
		}
		if s == asn.Choice && pl != kl {
			return false, nil
		}
		return matchPDU(pc, kc, args)

	case s.IsArray():
		pcs, kcs := pattern.Children(), pkt.Children()
		if len(pcs) != len(kcs) {
			return false, nil
		}
		for i := range pcs {
			ok, err := matchPDU(pcs[i], kcs[i], args)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	}
	return asn.Equal(pattern, pkt), nil
}

func firstChild(v *asn.Value) (string, *asn.Value, error) {
	c, err := v.FindSubvalue("0")
	if err != nil {
		return "", nil, err
	}
	return c.Name(), c, nil
}

func matchDataUnit(pattern, pkt *asn.Value, args []TmplArg) (bool, error) {
	var du DataUnit
	if err := convertField(pattern, &du); err != nil {
		return false, err
	}
	if du.Type == DUUndef {
		return true, nil
	}
	data, err := pkt.FieldData("#" + ndn.LabelPlain)
	if err != nil {
		if errors.Is(err, asn.ErrIncompleteValue) {
			return false, nil
		}
		return false, err
	}
	if du.Type == DUOctets || du.Type == DUMask || du.Type == DUString {
		err = MatchData(&du, data, args)
	} else {
		err = MatchData(&du, trimInt(data), args)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotMatch):
		return false, nil
	}
	return false, err
}

// trimInt drops leading zero octets of a stored integer so it fits the
// 4 octet integer match.
func trimInt(data []byte) []byte {
	for len(data) > 4 && data[0] == 0 {
		data = data[1:]
	}
	return data
}

// Trim returns a copy of pkt holding only the fields that pattern sets,
// for reporting what a pattern looked at.
func Trim(pattern, pkt *asn.Value) (*asn.Value, error) {
	if pattern == nil || pkt == nil {
		return nil, ErrWrongPointer
	}
	res := pkt.Clone()
	if err := trim(pattern, res); err != nil {
		res.Free()
		return nil, err
	}
	return res, nil
}

func trim(pattern, v *asn.Value) error {
	if pattern == nil || v == nil || ndn.IsDataUnit(pattern.Type()) {
		return nil
	}
	switch s := v.Syntax(); {
	case s == asn.Sequence, s == asn.Set:
		for _, c := range v.Children() {
			pc, err := pattern.FindSubvalue(c.Name())
			if err != nil {
				if err := v.FreeSubvalue(c.Name()); err != nil {
					return err
				}
				continue
			}
			if err := trim(pc, c); err != nil {
				return err
			}
		}
	case s.IsSingle():
		_, pc, perr := firstChild(pattern)
		_, c, err := firstChild(v)
		if perr == nil && err == nil {
			return trim(pc, c)
		}
	case s.IsArray():
		pcs, cs := pattern.Children(), v.Children()
		for i := 0; i < len(pcs) && i < len(cs); i++ {
			if err := trim(pcs[i], cs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
