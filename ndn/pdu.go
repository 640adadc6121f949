package ndn

import (
	"github.com/signadot/tad/asn"
)

// Protocol tags of the generic PDU choice, in the PRIVATE class.
const (
	ProtoEth  uint16 = 100
	ProtoIP4  uint16 = 101
	ProtoUDP4 uint16 = 102
	ProtoTCP4 uint16 = 103
)

func duEntries(fields ...asn.NamedEntry) []asn.NamedEntry {
	for i := range fields {
		fields[i].Tag = asn.PrivateTag(uint16(i + 1))
	}
	return fields
}

var (
	EthHeader = &asn.Type{
		Name:   "Ethernet-Header",
		Tag:    asn.PrivateTag(ProtoEth),
		Syntax: asn.Sequence,
		Entries: duEntries(
			asn.NamedEntry{Name: "dst-addr", Type: DataUnitOctetString6},
			asn.NamedEntry{Name: "src-addr", Type: DataUnitOctetString6},
			asn.NamedEntry{Name: "eth-type", Type: DataUnitInt16},
		),
	}

	IP4Header = &asn.Type{
		Name:   "IPv4-Header",
		Tag:    asn.PrivateTag(ProtoIP4),
		Syntax: asn.Sequence,
		Entries: duEntries(
			asn.NamedEntry{Name: "version", Type: DataUnitInt4},
			asn.NamedEntry{Name: "header-len", Type: DataUnitInt4},
			asn.NamedEntry{Name: "type-of-service", Type: DataUnitInt8},
			asn.NamedEntry{Name: "ip-len", Type: DataUnitInt16},
			asn.NamedEntry{Name: "ip-ident", Type: DataUnitInt16},
			asn.NamedEntry{Name: "flags", Type: DataUnitInt8},
			asn.NamedEntry{Name: "ip-offset", Type: DataUnitInt16},
			asn.NamedEntry{Name: "time-to-live", Type: DataUnitInt8},
			asn.NamedEntry{Name: "protocol", Type: DataUnitInt8},
			asn.NamedEntry{Name: "h-checksum", Type: DataUnitInt16},
			asn.NamedEntry{Name: "src-addr", Type: DataUnitIPAddress},
			asn.NamedEntry{Name: "dst-addr", Type: DataUnitIPAddress},
		),
	}

	UDP4Header = &asn.Type{
		Name:   "UDP-Header",
		Tag:    asn.PrivateTag(ProtoUDP4),
		Syntax: asn.Sequence,
		Entries: duEntries(
			asn.NamedEntry{Name: "src-port", Type: DataUnitInt16},
			asn.NamedEntry{Name: "dst-port", Type: DataUnitInt16},
			asn.NamedEntry{Name: "length", Type: DataUnitInt16},
			asn.NamedEntry{Name: "checksum", Type: DataUnitInt16},
		),
	}

	TCP4Header = &asn.Type{
		Name:   "TCP-Header",
		Tag:    asn.PrivateTag(ProtoTCP4),
		Syntax: asn.Sequence,
		Entries: duEntries(
			asn.NamedEntry{Name: "src-port", Type: DataUnitInt16},
			asn.NamedEntry{Name: "dst-port", Type: DataUnitInt16},
			asn.NamedEntry{Name: "seqn", Type: DataUnitInt32},
			asn.NamedEntry{Name: "acqn", Type: DataUnitInt32},
			asn.NamedEntry{Name: "hlen", Type: DataUnitInt8},
			asn.NamedEntry{Name: "flags", Type: DataUnitInt8},
			asn.NamedEntry{Name: "win-size", Type: DataUnitInt16},
			asn.NamedEntry{Name: "checksum", Type: DataUnitInt16},
			asn.NamedEntry{Name: "urg-p", Type: DataUnitInt16},
		),
	}
)

// GenericPDUType builds a PDU choice over protocol headers. Each
// alternative is labelled by its protocol name and tagged with the
// header's tag.
func GenericPDUType(protos map[string]*asn.Type, order ...string) *asn.Type {
	t := &asn.Type{
		Name:   "Generic-PDU",
		Tag:    asn.PrivateTag(1),
		Syntax: asn.Choice,
	}
	for _, name := range order {
		h, ok := protos[name]
		if !ok {
			continue
		}
		t.Entries = append(t.Entries, asn.NamedEntry{Name: name, Type: h, Tag: h.Tag})
	}
	return t
}

// PDUSequenceType builds the SEQUENCE OF a PDU choice describing a
// protocol stack, outermost layer first.
func PDUSequenceType(pdu *asn.Type) *asn.Type {
	return &asn.Type{
		Name:    "Generic-PDU-Sequence",
		Tag:     asn.UniversalTag(asn.TagSequence),
		Syntax:  asn.SequenceOf,
		Subtype: pdu,
	}
}

// TrafficTemplateType builds a template carrying a PDU stack and an
// optional payload.
func TrafficTemplateType(pdus *asn.Type) *asn.Type {
	return &asn.Type{
		Name:   "Traffic-Template",
		Tag:    asn.UniversalTag(asn.TagSequence),
		Syntax: asn.Sequence,
		Entries: []asn.NamedEntry{
			{Name: "pdus", Type: pdus, Tag: asn.ContextTag(0)},
			{Name: "payload", Type: DataUnitOctetString, Tag: asn.ContextTag(1)},
		},
	}
}

var (
	GenericPDU = GenericPDUType(map[string]*asn.Type{
		"eth": EthHeader,
		"ip4": IP4Header,
		"udp": UDP4Header,
		"tcp": TCP4Header,
	}, "eth", "ip4", "udp", "tcp")
	PDUSequence     = PDUSequenceType(GenericPDU)
	TrafficTemplate = TrafficTemplateType(PDUSequence)
)

// Types lists the named types of the package, for lookup by catalogs
// and tools.
var Types = map[string]*asn.Type{
	"INTERVAL":             Interval,
	"Ethernet-Header":      EthHeader,
	"IPv4-Header":          IP4Header,
	"UDP-Header":           UDP4Header,
	"TCP-Header":           TCP4Header,
	"Generic-PDU":          GenericPDU,
	"Generic-PDU-Sequence": PDUSequence,
	"Traffic-Template":     TrafficTemplate,
}
