package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad/asn"
)

func path(cfg *PathConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Path.Parse(cc, args)
	if err != nil {
		cfg.Path.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	for _, arg := range args {
		p, err := asn.ParsePath(arg)
		if err != nil {
			return fmt.Errorf("error parsing %q: %w", arg, err)
		}
		fmt.Fprintf(cc.Out, "%s\n", p)
		for s := p; s != nil; s = s.Next {
			switch {
			case s.Field != nil:
				fmt.Fprintf(cc.Out, "  field %s\n", *s.Field)
			case s.Index != nil:
				fmt.Fprintf(cc.Out, "  index %d\n", *s.Index)
			case s.Alt != nil:
				fmt.Fprintf(cc.Out, "  alt   %s\n", *s.Alt)
			}
		}
	}
	return nil
}
