package tad

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
)

// ToBin renders du into dst for one iteration. Integer data units fill
// dst with the low len(dst) octets of their value in network byte order.
// An octet data unit copies its first len(dst) octets and fails with
// ErrLessData when it is shorter.
func ToBin(du *DataUnit, args []TmplArg, dst []byte) error {
	if du == nil {
		return ErrWrongPointer
	}
	if len(dst) == 0 {
		return fmt.Errorf("%w: empty destination", asn.ErrInvalid)
	}
	var (
		n   int64
		err error
	)
	switch du.Type {
	case DUI32:
		n = int64(du.I32)
	case DUExpr:
		n, err = du.Expr.Eval(args)
	case DUFunc:
		n, err = du.Func.Call(args)
	case DUOctets:
		if len(du.Octets) < len(dst) {
			return fmt.Errorf("%w: %d octets for %d", ErrLessData, len(du.Octets), len(dst))
		}
		copy(dst, du.Octets)
		if debug.Expr() {
			debug.Logf("to bin %s: % x\n", du, dst)
		}
		return nil
	default:
		debug.Logger().Error("data unit cannot be rendered",
			zap.Stringer("type", du.Type),
			zap.Int("length", len(dst)))
		return fmt.Errorf("%w: %s", ErrLessData, du.Type)
	}
	if err != nil {
		return err
	}
	if len(dst) > 8 {
		return fmt.Errorf("%w: %d octets for an integer", asn.ErrInvalid, len(dst))
	}
	putInt(dst, n)
	if debug.Expr() {
		debug.Logf("to bin %s with %v: % x\n", du, args, dst)
	}
	return nil
}

// FromBin builds an octet string data unit from received octets, so
// matching against it compares byte by byte.
func FromBin(data []byte, du *DataUnit) error {
	if du == nil {
		return ErrWrongPointer
	}
	du.Clear()
	if len(data) == 0 {
		return fmt.Errorf("%w: no data", asn.ErrInvalid)
	}
	du.Type = DUOctets
	du.Octets = append([]byte(nil), data...)
	return nil
}

func putInt(dst []byte, n int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	copy(dst, buf[8-len(dst):])
}

func getUint(b []byte) uint32 {
	var res uint32
	for _, c := range b {
		res = res<<8 | uint32(c)
	}
	return res
}
