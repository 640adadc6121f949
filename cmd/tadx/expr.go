package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad"
)

func expr(cfg *ExprConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Expr.Parse(cc, args)
	if err != nil {
		cfg.Expr.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: expr requires at least one expression", cli.ErrUsage)
	}
	for _, src := range args {
		e, n, err := tad.ParseExpr(src)
		if err != nil {
			return err
		}
		if n != len(src) {
			return fmt.Errorf("%q: trailing input at %d", src, n)
		}
		x, err := e.Eval(cfg.Args)
		if err != nil {
			return fmt.Errorf("error evaluating %s: %w", e, err)
		}
		if cfg.Show {
			fmt.Fprintf(cc.Out, "%s = %d\n", e, x)
			continue
		}
		fmt.Fprintln(cc.Out, x)
	}
	return nil
}
