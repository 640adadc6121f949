// Package catalog loads ASN.1 type catalogs and values described in YAML.
//
// A catalog lists types by name:
//
//	name: udp-ext
//	types:
//	- name: Port-Range
//	  syntax: SEQUENCE
//	  tag: PRIVATE 300
//	  fields:
//	  - {name: lo, type: int16}
//	  - {name: hi, type: int16}
//
// Type references resolve in the catalog itself, then in registered
// catalogs, then among the data-unit and PDU types of package ndn, then
// among the base types.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
	"github.com/signadot/tad/ndn"
)

var (
	ErrUnknownType = errors.New("unknown type")
	ErrTypeCycle   = errors.New("type definition cycle")
)

// Catalog is a named set of types built from one YAML document.
type Catalog struct {
	Name  string
	Types map[string]*asn.Type
	Order []string
}

type catalogDoc struct {
	Name  string    `json:"name"`
	Types []typeDoc `json:"types"`
}

type typeDoc struct {
	Name   string     `json:"name"`
	Syntax string     `json:"syntax"`
	Tag    string     `json:"tag,omitempty"`
	Len    int        `json:"len,omitempty"`
	Of     string     `json:"of,omitempty"`
	Fields []fieldDoc `json:"fields,omitempty"`
	Enums  []enumDoc  `json:"enums,omitempty"`

	// DataUnit also defines "DATA-UNIT(name)" over the type.
	DataUnit bool `json:"dataUnit,omitempty"`
}

type fieldDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Tag  string `json:"tag,omitempty"`
}

type enumDoc struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Load(d)
	if err != nil {
		return nil, fmt.Errorf("could not load catalog %s: %w", path, err)
	}
	return c, nil
}

// Load builds a catalog from YAML. Types may refer to each other in any
// order.
func Load(d []byte) (*Catalog, error) {
	doc := &catalogDoc{}
	if err := yaml.Unmarshal(d, doc); err != nil {
		return nil, err
	}
	b := &builder{
		docs:  make(map[string]*typeDoc, len(doc.Types)),
		types: make(map[string]*asn.Type, len(doc.Types)),
	}
	c := &Catalog{Name: doc.Name, Types: b.types}
	for i := range doc.Types {
		td := &doc.Types[i]
		if td.Name == "" {
			return nil, fmt.Errorf("type %d has no name", i)
		}
		if _, dup := b.docs[td.Name]; dup {
			return nil, fmt.Errorf("type %q defined twice", td.Name)
		}
		b.docs[td.Name] = td
		c.Order = append(c.Order, td.Name)
	}
	for _, name := range c.Order {
		if _, err := b.build(name); err != nil {
			return nil, err
		}
	}
	for _, name := range c.Order {
		if b.docs[name].DataUnit {
			if _, err := b.ref(dataUnitName(name)); err != nil {
				return nil, err
			}
			c.Order = append(c.Order, dataUnitName(name))
		}
	}
	if debug.Catalog() {
		debug.LogAny(map[string]any{"catalog": c.Name, "types": c.Order})
	}
	return c, nil
}

func dataUnitName(name string) string {
	return "DATA-UNIT(" + name + ")"
}

// Type returns the type called name as seen from c.
func (c *Catalog) Type(name string) (*asn.Type, error) {
	if t := c.Types[name]; t != nil {
		return t, nil
	}
	return resolveExternal(name)
}

func resolveExternal(name string) (*asn.Type, error) {
	if c, ok := registeredType(name); ok {
		return c.Types[name], nil
	}
	if t := ndn.DataUnitTypes[name]; t != nil {
		return t, nil
	}
	if t := ndn.Types[name]; t != nil {
		return t, nil
	}
	if t := asn.BaseTypes[name]; t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

type builder struct {
	docs  map[string]*typeDoc
	types map[string]*asn.Type
	stack []string
}

func (b *builder) ref(name string) (*asn.Type, error) {
	if _, local := b.docs[name]; local {
		return b.build(name)
	}
	if base := trimDataUnit(name); base != name {
		if td, ok := b.docs[base]; ok && td.DataUnit {
			if t := b.types[name]; t != nil {
				return t, nil
			}
			plain, err := b.build(base)
			if err != nil {
				return nil, err
			}
			t := ndn.DataUnitType(base, plain)
			b.types[name] = t
			return t, nil
		}
	}
	return resolveExternal(name)
}

func trimDataUnit(name string) string {
	s, ok := strings.CutPrefix(name, "DATA-UNIT(")
	if !ok {
		return name
	}
	s, ok = strings.CutSuffix(s, ")")
	if !ok || s == "" {
		return name
	}
	return s
}

// build constructs the named type of the catalog. The type node is
// recorded before its children are built, so types may refer to each
// other and to themselves. Only a loop made of TAGGED types alone is
// rejected: it would have no values.
func (b *builder) build(name string) (*asn.Type, error) {
	if i := slices.Index(b.stack, name); i >= 0 {
		if !slices.ContainsFunc(b.stack[i:], func(n string) bool { return b.types[n].Syntax != asn.Tagged }) {
			return nil, fmt.Errorf("%w: %s", ErrTypeCycle, strings.Join(append(slices.Clone(b.stack[i:]), name), " -> "))
		}
		return b.types[name], nil
	}
	if t := b.types[name]; t != nil {
		return t, nil
	}
	td := b.docs[name]
	var syn asn.Syntax
	if err := syn.UnmarshalText([]byte(td.Syntax)); err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}
	t := &asn.Type{Name: name, Syntax: syn, Len: td.Len}
	if td.Tag != "" {
		tag, err := asn.ParseTag(td.Tag)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		t.Tag = tag
	} else {
		t.Tag = defaultTag(syn)
	}
	b.types[name] = t
	b.stack = append(b.stack, name)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	switch {
	case syn.IsNamed():
		if len(td.Fields) == 0 {
			return nil, fmt.Errorf("type %q: %s without fields", name, syn)
		}
		for i, fd := range td.Fields {
			ft, err := b.ref(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("type %q field %q: %w", name, fd.Name, err)
			}
			tag := asn.PrivateTag(uint16(i + 1))
			if fd.Tag != "" {
				if tag, err = asn.ParseTag(fd.Tag); err != nil {
					return nil, fmt.Errorf("type %q field %q: %w", name, fd.Name, err)
				}
			}
			t.Entries = append(t.Entries, asn.NamedEntry{Name: fd.Name, Type: ft, Tag: tag})
		}
	case syn.IsArray(), syn == asn.Tagged:
		if td.Of == "" {
			return nil, fmt.Errorf("type %q: %s needs an element type", name, syn)
		}
		sub, err := b.ref(td.Of)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		t.Subtype = sub
	case syn == asn.Enumerated:
		for _, e := range td.Enums {
			t.Enums = append(t.Enums, asn.EnumEntry{Name: e.Name, Value: e.Value})
		}
	}
	return t, nil
}

func defaultTag(s asn.Syntax) asn.Tag {
	n, ok := map[asn.Syntax]uint16{
		asn.Bool:       asn.TagBoolean,
		asn.Integer:    asn.TagInteger,
		asn.LongInt:    asn.TagInteger,
		asn.BitString:  asn.TagBitString,
		asn.OctString:  asn.TagOctString,
		asn.Null:       asn.TagNull,
		asn.Enumerated: asn.TagEnumerated,
		asn.Real:       asn.TagReal,
		asn.OID:        asn.TagOID,
		asn.CharString: asn.TagCharString,
		asn.Sequence:   asn.TagSequence,
		asn.SequenceOf: asn.TagSequence,
		asn.Set:        asn.TagSet,
		asn.SetOf:      asn.TagSet,
	}[s]
	if !ok {
		return asn.Tag{}
	}
	return asn.UniversalTag(n)
}
