package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Match.Parse(cc, args)
	if err != nil {
		cfg.Match.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: match requires a pattern and a packet", cli.ErrUsage)
	}
	pattern, err := cfg.loadValue(cc, args[0])
	if err != nil {
		return err
	}
	defer pattern.Free()
	pkt, err := cfg.loadValue(cc, args[1])
	if err != nil {
		return err
	}
	defer pkt.Free()
	ok, err := tad.MatchPDU(pattern, pkt, cfg.Args)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cc.Out, "no match")
		return cli.ExitCodeErr(1)
	}
	if !cfg.Trim {
		fmt.Fprintln(cc.Out, "match")
		return nil
	}
	trimmed, err := tad.Trim(pattern, pkt)
	if err != nil {
		return err
	}
	defer trimmed.Free()
	fmt.Fprintln(cc.Out, cfg.sprint(cc.Out, trimmed))
	return nil
}
