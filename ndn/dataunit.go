// Package ndn holds the network data notation schemas shared by
// templates and patterns: the DATA-UNIT family describing how one field
// is generated or matched, and the generic PDU stack.
package ndn

import (
	"github.com/signadot/tad/asn"
)

// Alternative tags of a DATA-UNIT choice, all in the PRIVATE class.
const (
	DUPlain uint16 = iota + 1
	DUScript
	DUEnum
	DUMask
	DUIntervals
	DUEnv
	DUFunc
)

// Alternative labels of a DATA-UNIT choice.
const (
	LabelPlain     = "plain"
	LabelScript    = "script"
	LabelEnum      = "enum"
	LabelMask      = "mask"
	LabelIntervals = "intervals"
	LabelEnv       = "env"
	LabelFunction  = "function"
)

var (
	Interval = &asn.Type{
		Name:   "INTERVAL",
		Tag:    asn.UniversalTag(asn.TagSequence),
		Syntax: asn.Sequence,
		Entries: []asn.NamedEntry{
			{Name: "b", Type: asn.BaseInteger, Tag: asn.ContextTag(0)},
			{Name: "e", Type: asn.BaseInteger, Tag: asn.ContextTag(1)},
		},
	}

	IntervalSequence = &asn.Type{
		Name:    "SEQUENCE OF INTERVAL",
		Tag:     asn.UniversalTag(asn.TagSequence),
		Syntax:  asn.SequenceOf,
		Subtype: Interval,
	}

	// DataUnitEnum lists the values accepted by an enum data unit.
	DataUnitEnum = &asn.Type{
		Name:    "DATA-UNIT-enum",
		Tag:     asn.UniversalTag(asn.TagSet),
		Syntax:  asn.SetOf,
		Subtype: asn.BaseInteger,
	}

	// DataUnitMask matches data whose masked octets equal the masked
	// pattern: v is the pattern, m the mask.
	DataUnitMask = &asn.Type{
		Name:   "DATA-UNIT-mask",
		Tag:    asn.UniversalTag(asn.TagSequence),
		Syntax: asn.Sequence,
		Entries: []asn.NamedEntry{
			{Name: "v", Type: asn.BaseOctString, Tag: asn.ContextTag(0)},
			{Name: "m", Type: asn.BaseOctString, Tag: asn.ContextTag(1)},
		},
	}

	// DataUnitEnv takes the field value from an environment variable.
	DataUnitEnv = &asn.Type{
		Name:   "DATA-UNIT-env",
		Tag:    asn.UniversalTag(asn.TagSequence),
		Syntax: asn.Sequence,
		Entries: []asn.NamedEntry{
			{Name: "name", Type: asn.BaseCharString, Tag: asn.ContextTag(0)},
		},
	}
)

// DataUnitType builds the DATA-UNIT ( name ) choice over a plain type.
func DataUnitType(name string, plain *asn.Type) *asn.Type {
	return &asn.Type{
		Name:   "DATA-UNIT ( " + name + " )",
		Tag:    asn.PrivateTag(1),
		Syntax: asn.Choice,
		Entries: []asn.NamedEntry{
			{Name: LabelPlain, Type: plain, Tag: asn.PrivateTag(DUPlain)},
			{Name: LabelScript, Type: asn.BaseCharString, Tag: asn.PrivateTag(DUScript)},
			{Name: LabelEnum, Type: DataUnitEnum, Tag: asn.PrivateTag(DUEnum)},
			{Name: LabelMask, Type: DataUnitMask, Tag: asn.PrivateTag(DUMask)},
			{Name: LabelIntervals, Type: IntervalSequence, Tag: asn.PrivateTag(DUIntervals)},
			{Name: LabelEnv, Type: DataUnitEnv, Tag: asn.PrivateTag(DUEnv)},
			{Name: LabelFunction, Type: asn.BaseCharString, Tag: asn.PrivateTag(DUFunc)},
		},
	}
}

// IsDataUnit reports whether t has the shape of a DATA-UNIT choice.
func IsDataUnit(t *asn.Type) bool {
	if t == nil || t.Syntax != asn.Choice || len(t.Entries) == 0 {
		return false
	}
	e := t.Entries[0]
	return e.Name == LabelPlain && e.Tag.Equal(asn.PrivateTag(DUPlain))
}

var (
	Int4         = &asn.Type{Name: "INTEGER(0..15)", Tag: asn.UniversalTag(asn.TagInteger), Syntax: asn.Integer, Len: 4}
	Int5         = &asn.Type{Name: "INTEGER(0..31)", Tag: asn.UniversalTag(asn.TagInteger), Syntax: asn.Integer, Len: 5}
	OctetString6 = asn.FixedOctString("OCTET STRING (SIZE (6))", 6)
	IPAddress    = asn.FixedOctString("IpAddress", 4)

	DataUnitInt4         = DataUnitType("INTEGER(0..15)", Int4)
	DataUnitInt5         = DataUnitType("INTEGER(0..31)", Int5)
	DataUnitInt8         = DataUnitType("INTEGER(0..255)", asn.BaseInt8)
	DataUnitInt16        = DataUnitType("INTEGER(0..65535)", asn.BaseInt16)
	DataUnitInt32        = DataUnitType("INTEGER", asn.BaseInt32)
	DataUnitOctetString  = DataUnitType("OCTET STRING", asn.BaseOctString)
	DataUnitOctetString6 = DataUnitType("OCTET STRING (SIZE (6))", OctetString6)
	DataUnitCharString   = DataUnitType("UniversalString", asn.BaseCharString)
	DataUnitObjID        = DataUnitType("OBJECT IDENTIFIER", asn.BaseOID)
	DataUnitIPAddress    = DataUnitType("IpAddress", IPAddress)
)

// DataUnitTypes lists the predefined data-unit types by the name of
// their plain type.
var DataUnitTypes = map[string]*asn.Type{
	"int4":          DataUnitInt4,
	"int5":          DataUnitInt5,
	"int8":          DataUnitInt8,
	"int16":         DataUnitInt16,
	"int32":         DataUnitInt32,
	"octet-string":  DataUnitOctetString,
	"octet-string6": DataUnitOctetString6,
	"char-string":   DataUnitCharString,
	"objid":         DataUnitObjID,
	"ip-address":    DataUnitIPAddress,
}
