package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/ndn"
)

const flowCatalog = `
name: test-flow
types:
- name: Port-Range
  syntax: SEQUENCE
  tag: PRIVATE 300
  fields:
  - {name: lo, type: int16}
  - {name: hi, type: int16}
- name: Flow
  syntax: SEQUENCE
  fields:
  - {name: ports, type: Port-List, tag: CONTEXT 0}
  - {name: proto, type: Proto, tag: CONTEXT 1}
  - {name: note, type: UniversalString, tag: CONTEXT 2}
  - {name: sub, type: Flow-List, tag: CONTEXT 3}
  - {name: match, type: DATA-UNIT(Proto), tag: CONTEXT 4}
- name: Port-List
  syntax: SEQUENCE OF
  of: Port-Range
- name: Flow-List
  syntax: SEQUENCE_OF
  of: Flow
- name: Proto
  syntax: ENUMERATED
  dataUnit: true
  enums:
  - {name: tcp, value: 6}
  - {name: udp, value: 17}
`

func TestLoad(t *testing.T) {
	c, err := Load([]byte(flowCatalog))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Port-Range", "Flow", "Port-List", "Flow-List", "Proto", "DATA-UNIT(Proto)"}
	if diff := cmp.Diff(want, c.Order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	pr := c.Types["Port-Range"]
	if !pr.Tag.Equal(asn.PrivateTag(300)) {
		t.Errorf("Port-Range tag %s", pr.Tag)
	}
	for i, e := range pr.Entries {
		if !e.Tag.Equal(asn.PrivateTag(uint16(i + 1))) {
			t.Errorf("%s tag %s", e.Name, e.Tag)
		}
		if e.Type != ndn.DataUnitInt16 {
			t.Errorf("%s type %s", e.Name, e.Type)
		}
	}
	flow := c.Types["Flow"]
	if flow.Entries[0].Type != c.Types["Port-List"] {
		t.Errorf("ports type %s", flow.Entries[0].Type)
	}
	if c.Types["Flow-List"].Subtype != flow {
		t.Errorf("recursive element type %s", c.Types["Flow-List"].Subtype)
	}
	if flow.Entries[4].Type != c.Types["DATA-UNIT(Proto)"] || !ndn.IsDataUnit(flow.Entries[4].Type) {
		t.Errorf("match type %s", flow.Entries[4].Type)
	}
	proto := c.Types["Proto"]
	if !proto.Tag.Equal(asn.UniversalTag(asn.TagEnumerated)) {
		t.Errorf("Proto tag %s", proto.Tag)
	}
	if n, ok := proto.EnumValue("udp"); !ok || n != 17 {
		t.Errorf("udp = %d, %t", n, ok)
	}
	if _, err := c.Type("INTEGER"); err != nil {
		t.Errorf("base type: %v", err)
	}
	if _, err := c.Type("Traffic-Template"); err != nil {
		t.Errorf("ndn type: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{
			name: "unknown type",
			in: `
types:
- {name: A, syntax: SEQUENCE, fields: [{name: x, type: No-Such-Type}]}
`,
			err: ErrUnknownType,
		},
		{
			name: "tagged cycle",
			in: `
types:
- {name: A, syntax: TAGGED, of: B}
- {name: B, syntax: TAGGED, of: A}
`,
			err: ErrTypeCycle,
		},
		{
			name: "bad tag",
			in: `
types:
- {name: A, syntax: INTEGER, tag: PUBLIC 3}
`,
			err: asn.ErrInvalid,
		},
	}
	for _, tt := range tests {
		if _, err := Load([]byte(tt.in)); !errors.Is(err, tt.err) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.err)
		}
	}
	for _, in := range []string{
		"types:\n- {name: A, syntax: NO SUCH SYNTAX}\n",
		"types:\n- {name: A, syntax: INTEGER}\n- {name: A, syntax: INTEGER}\n",
		"types:\n- {syntax: INTEGER}\n",
		"types:\n- {name: A, syntax: SEQUENCE OF}\n",
		"types:\n- {name: A, syntax: SEQUENCE}\n",
	} {
		if _, err := Load([]byte(in)); err == nil {
			t.Errorf("%q: no error", in)
		}
	}
}

func TestRegister(t *testing.T) {
	c, err := Load([]byte(flowCatalog))
	if err != nil {
		t.Fatal(err)
	}
	c.Name = "test-register"
	if err := Register(c); err != nil {
		t.Fatal(err)
	}
	if err := Register(c); !errors.Is(err, ErrCatalogExists) {
		t.Errorf("second register: got %v", err)
	}
	if Lookup("test-register") != c {
		t.Errorf("lookup failed")
	}
	if _, ok := All()["test-register"]; !ok {
		t.Errorf("not listed")
	}
	ext, err := Load([]byte(`
name: test-ext
types:
- {name: Ranges, syntax: SET OF, of: Port-Range}
`))
	if err != nil {
		t.Fatal(err)
	}
	if ext.Types["Ranges"].Subtype != c.Types["Port-Range"] {
		t.Errorf("registered type not used")
	}
}

func TestLoadValue(t *testing.T) {
	c, err := Load([]byte(flowCatalog))
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.LoadValue([]byte(`
type: Flow
value:
  "ports.0.lo.#plain": 1024
  "ports.0.hi.#plain": 0x800
  "ports.1.lo.#plain": "53"
  "proto": tcp
  "note": hello
  "match.#enum.0": 6
`))
	if err != nil {
		t.Fatal(err)
	}
	ints := map[string]int64{
		"ports.0.lo.#plain": 1024,
		"ports.0.hi.#plain": 2048,
		"ports.1.lo.#plain": 53,
		"match.#enum.0":     6,
	}
	for path, want := range ints {
		if n, err := v.ReadInt(path); err != nil || n != want {
			t.Errorf("%s: %d, %v", path, n, err)
		}
	}
	if s, err := v.ReadString("proto"); err != nil || s != "tcp" {
		t.Errorf("proto: %q, %v", s, err)
	}
	if s, err := v.ReadString("note"); err != nil || s != "hello" {
		t.Errorf("note: %q, %v", s, err)
	}
}

func TestLoadPredefinedValue(t *testing.T) {
	var c *Catalog
	v, err := c.LoadValue([]byte(`
type: Generic-PDU-Sequence
value:
  "0.#eth.src-addr.#plain": "00:11:22:33:44:55"
  "0.#eth.dst-addr.#plain": "'ffffffffffff'H"
  "0.#eth.eth-type.#plain": 0x0800
  "1.#ip4.src-addr.#plain": [10, 0, 0, 1]
  "1.#ip4.ip-len.#script": "expr:($0 + 20)"
`))
	if err != nil {
		t.Fatal(err)
	}
	octets := map[string][]byte{
		"0.#eth.src-addr.#plain": {0, 0x11, 0x22, 0x33, 0x44, 0x55},
		"0.#eth.dst-addr.#plain": {0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		"0.#eth.eth-type.#plain": {0x08, 0x00},
		"1.#ip4.src-addr.#plain": {10, 0, 0, 1},
	}
	for path, want := range octets {
		got, err := v.FieldData(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", path, diff)
		}
	}
}

func TestSetFieldErrors(t *testing.T) {
	v := asn.NewValue(ndn.EthHeader)
	tests := []struct {
		path string
		x    any
		err  error
	}{
		{"eth-type.#plain", "not a number", asn.ErrInvalid},
		{"eth-type.#plain", 1.5, asn.ErrInvalid},
		{"src-addr.#plain", "zz", asn.ErrInvalid},
		{"src-addr.#plain", []any{1, 256}, asn.ErrInvalid},
		{"src-addr.#plain", "'0011'", asn.ErrInvalid},
		{"no-such-field", 1, asn.ErrNotFound},
		{"eth-type", 1, asn.ErrWrongSyntax},
	}
	for _, tt := range tests {
		if err := SetField(v, tt.path, tt.x); !errors.Is(err, tt.err) {
			t.Errorf("%s = %v: got %v, want %v", tt.path, tt.x, err, tt.err)
		}
	}
}
