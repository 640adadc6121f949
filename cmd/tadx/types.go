package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/catalog"
	"github.com/signadot/tad/ndn"
)

func types(cfg *TypesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Types.Parse(cc, args)
	if err != nil {
		cfg.Types.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	all := map[string]*asn.Type{}
	if !cfg.DataUnits {
		maps.Copy(all, asn.BaseTypes)
		maps.Copy(all, ndn.Types)
	}
	maps.Copy(all, ndn.DataUnitTypes)
	for _, c := range catalog.All() {
		for name, t := range c.Types {
			if cfg.DataUnits && !ndn.IsDataUnit(t) {
				continue
			}
			all[name] = t
		}
	}
	if len(args) == 0 {
		args = slices.Sorted(maps.Keys(all))
	}
	for _, name := range args {
		t := all[name]
		if t == nil {
			return fmt.Errorf("no such type %q", name)
		}
		printType(cc.Out, name, t)
	}
	return nil
}

func printType(w io.Writer, name string, t *asn.Type) {
	fmt.Fprintf(w, "%s ::= %s %s", name, t.Tag, t.Syntax)
	switch {
	case t.Syntax.IsNamed():
		fmt.Fprintln(w, " {")
		for _, e := range t.Entries {
			fmt.Fprintf(w, "\t%s %s %s\n", e.Name, e.Tag, e.Type)
		}
		fmt.Fprintln(w, "}")
	case t.Subtype != nil:
		fmt.Fprintf(w, " %s\n", t.Subtype)
	case t.Syntax == asn.Enumerated:
		fmt.Fprint(w, " {")
		for i, e := range t.Enums {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, " %s(%d)", e.Name, e.Value)
		}
		fmt.Fprintln(w, " }")
	case t.Len > 0:
		fmt.Fprintf(w, " (SIZE %d)\n", t.Len)
	default:
		fmt.Fprintln(w)
	}
}
