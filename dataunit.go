package tad

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
	"github.com/signadot/tad/ndn"
)

type DUType int

const (
	DUUndef DUType = iota
	DUI32
	DUString
	DUOctets
	DUExpr
	DUMask
	DUIntervals
	DUFunc
)

var duTypeNames = map[DUType]string{
	DUUndef:     "UNDEF",
	DUI32:       "I32",
	DUString:    "STRING",
	DUOctets:    "OCTS",
	DUExpr:      "EXPR",
	DUMask:      "MASK",
	DUIntervals: "INTERVALS",
	DUFunc:      "FUNC",
}

func (t DUType) String() string {
	if n, ok := duTypeNames[t]; ok {
		return n
	}
	return "<unknown data unit>"
}

func (t DUType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Interval is a closed range of integers.
type Interval struct {
	B, E int64
}

// DataUnit is the compiled form of one template or pattern field. Only
// the members selected by Type are meaningful.
type DataUnit struct {
	Type      DUType
	I32       int32
	Str       string
	Octets    []byte
	Expr      *Expr
	Mask      []byte
	Pattern   []byte
	Intervals []Interval
	Func      *Function
}

// Clear resets du to UNDEF, dropping any data it holds.
func (du *DataUnit) Clear() {
	if du == nil {
		return
	}
	*du = DataUnit{}
}

func (du *DataUnit) String() string {
	if du == nil {
		return "<nil>"
	}
	switch du.Type {
	case DUI32:
		return "I32 " + strconv.FormatInt(int64(du.I32), 10)
	case DUString:
		return "STRING " + strconv.Quote(du.Str)
	case DUOctets:
		return "OCTS '" + hex.EncodeToString(du.Octets) + "'H"
	case DUExpr:
		return "EXPR " + du.Expr.String()
	case DUMask:
		return "MASK '" + hex.EncodeToString(du.Pattern) + "'H/'" + hex.EncodeToString(du.Mask) + "'H"
	case DUIntervals:
		parts := make([]string, len(du.Intervals))
		for i, iv := range du.Intervals {
			parts[i] = strconv.FormatInt(iv.B, 10) + ".." + strconv.FormatInt(iv.E, 10)
		}
		return "INTERVALS " + strings.Join(parts, ",")
	case DUFunc:
		return "FUNC " + du.Func.String()
	}
	return du.Type.String()
}

const scriptExprPrefix = "expr:"

// Convert compiles the DATA-UNIT field of pdu carrying PRIVATE tag into
// du. A field that is absent, or whose choice is not made, yields UNDEF
// and no error: the layer default applies.
func Convert(pdu *asn.Value, tag uint16, du *DataUnit) error {
	if pdu == nil || du == nil {
		return ErrWrongPointer
	}
	du.Clear()
	field, err := pdu.ChildByTag(asn.PrivateTag(tag))
	if err != nil {
		if errors.Is(err, asn.ErrIncompleteValue) {
			return nil
		}
		logConvertError(pdu, tag, "child by tag", err)
		return err
	}
	if err := convertField(field, du); err != nil {
		du.Clear()
		logConvertError(pdu, tag, "convert", err)
		return err
	}
	if debug.Convert() {
		debug.Logf("convert %s tag %d: %s\n", pdu.Type(), tag, du)
	}
	return nil
}

// ConvertByLabel is Convert with the field named by label. A CHOICE pdu
// is first unwrapped to its populated alternative.
func ConvertByLabel(pdu *asn.Value, label string, du *DataUnit) error {
	if pdu == nil || du == nil {
		return ErrWrongPointer
	}
	parent := pdu
	if pdu.Syntax() == asn.Choice {
		_, alt, err := pdu.Choice()
		if err != nil {
			return err
		}
		parent = alt
	}
	tag, err := parent.Type().LabelToTag(label)
	if err != nil {
		debug.Logger().Error("wrong data unit label",
			zap.String("label", label),
			zap.Stringer("type", parent.Type()),
			zap.Error(err))
		return err
	}
	return Convert(parent, tag.Val, du)
}

func logConvertError(pdu *asn.Value, tag uint16, step string, err error) {
	fields := []zap.Field{
		zap.String("step", step),
		zap.Uint16("tag", tag),
		zap.String("pdu", pdu.Name()),
		zap.Stringer("type", pdu.Type()),
		zap.Error(err),
	}
	var pe *ExprParseError
	if errors.As(err, &pe) {
		fields = append(fields, zap.Int("offset", pe.Offset))
	}
	debug.Logger().Error("data unit conversion failed", fields...)
}

// convertField compiles a DATA-UNIT choice value.
func convertField(field *asn.Value, du *DataUnit) error {
	label, alt, err := field.Choice()
	if err != nil {
		if errors.Is(err, asn.ErrIncompleteValue) {
			return nil
		}
		return err
	}
	switch label {
	case ndn.LabelPlain:
		return convertPlain(alt, du)

	case ndn.LabelScript:
		script, err := alt.ReadString("")
		if err != nil {
			return err
		}
		src, ok := strings.CutPrefix(script, scriptExprPrefix)
		if !ok {
			return fmt.Errorf("%w: script %q", ErrNotSupported, script)
		}
		e, _, err := ParseExpr(src)
		if err != nil {
			return err
		}
		du.Type = DUExpr
		du.Expr = e

	case ndn.LabelEnum:
		ivs := make([]Interval, 0, alt.Len())
		for _, c := range alt.Children() {
			n, err := c.ReadInt("")
			if err != nil {
				return err
			}
			ivs = append(ivs, Interval{B: n, E: n})
		}
		du.Type = DUIntervals
		du.Intervals = ivs

	case ndn.LabelIntervals:
		ivs := make([]Interval, 0, alt.Len())
		for i, c := range alt.Children() {
			b, err := c.ReadInt("b")
			if err != nil {
				return err
			}
			e, err := c.ReadInt("e")
			if err != nil {
				return err
			}
			if b > e {
				return fmt.Errorf("%w: interval %d is %d..%d", ErrWrongStructure, i, b, e)
			}
			ivs = append(ivs, Interval{B: b, E: e})
		}
		du.Type = DUIntervals
		du.Intervals = ivs

	case ndn.LabelMask:
		v, err := alt.FieldData("v")
		if err != nil {
			return err
		}
		m, err := alt.FieldData("m")
		if err != nil {
			return err
		}
		if len(v) != len(m) {
			return fmt.Errorf("%w: mask of %d octets for pattern of %d", ErrWrongStructure, len(m), len(v))
		}
		du.Type = DUMask
		du.Pattern = v
		du.Mask = m

	case ndn.LabelEnv:
		return convertEnv(field, alt, du)

	case ndn.LabelFunction:
		src, err := alt.ReadString("")
		if err != nil {
			return err
		}
		fn, err := CompileFunction(src)
		if err != nil {
			return err
		}
		du.Type = DUFunc
		du.Func = fn

	default:
		return fmt.Errorf("%w: data unit alternative %q", ErrNotSupported, label)
	}
	return nil
}

func convertPlain(plain *asn.Value, du *DataUnit) error {
	switch s := plain.Syntax(); s {
	case asn.Bool, asn.Integer, asn.Enumerated:
		n, err := plain.ReadInt("")
		if err != nil {
			return err
		}
		du.Type = DUI32
		du.I32 = int32(n)
	case asn.BitString, asn.OctString:
		data, err := plain.FieldData("")
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("%w: empty %s", asn.ErrInvalid, s)
		}
		du.Type = DUOctets
		du.Octets = data
	case asn.CharString:
		str, err := plain.ReadString("")
		if err != nil {
			return err
		}
		du.Type = DUString
		du.Str = str
	case asn.LongInt, asn.Real, asn.OID:
		return fmt.Errorf("%w: plain %s", ErrNotSupported, s)
	default:
		return fmt.Errorf("%w: plain %s", asn.ErrInvalid, s)
	}
	return nil
}

// convertEnv reads the environment variable named by env and converts
// its text as the plain type of the data unit would be.
func convertEnv(field, env *asn.Value, du *DataUnit) error {
	name, err := env.ReadString("name")
	if err != nil {
		return err
	}
	val, ok := os.LookupEnv(name)
	if !ok {
		return fmt.Errorf("%w: environment variable %q", asn.ErrNotFound, name)
	}
	plain, err := field.Type().FindSubtype(ndn.LabelPlain)
	if err != nil {
		return err
	}
	switch plain.Syntax {
	case asn.Bool, asn.Integer, asn.Enumerated:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 0, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrWrongStructure, name, val, err)
		}
		du.Type = DUI32
		du.I32 = int32(n)
	case asn.OctString, asn.BitString:
		b, err := hex.DecodeString(strings.NewReplacer(":", "", "-", "", " ", "").Replace(val))
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrWrongStructure, name, val, err)
		}
		du.Type = DUOctets
		du.Octets = b
	case asn.CharString:
		du.Type = DUString
		du.Str = val
	default:
		return fmt.Errorf("%w: env for plain %s", ErrNotSupported, plain.Syntax)
	}
	return nil
}
