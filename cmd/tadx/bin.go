package main

import (
	"encoding/hex"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad"
)

func bin(cfg *BinConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Bin.Parse(cc, args)
	if err != nil {
		cfg.Bin.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: bin requires a pdu path and a field label", cli.ErrUsage)
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("%w: width must be positive", cli.ErrUsage)
	}
	pduPath, label := args[0], args[1]
	files := args[2:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		if err := binFile(cfg, cc, file, pduPath, label); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

func binFile(cfg *BinConfig, cc *cli.Context, file, pduPath, label string) error {
	v, err := cfg.loadValue(cc, file)
	if err != nil {
		return err
	}
	defer v.Free()
	pdu, err := v.Get(pduPath)
	if err != nil {
		return err
	}
	du := &tad.DataUnit{}
	if err := tad.ConvertByLabel(pdu, label, du); err != nil {
		return err
	}
	if du.Type == tad.DUUndef {
		return fmt.Errorf("field %s of %s is not set", label, pduPath)
	}
	dst := make([]byte, cfg.Width)
	if err := tad.ToBin(du, cfg.Args, dst); err != nil {
		return fmt.Errorf("%s: %w", du, err)
	}
	fmt.Fprintf(cc.Out, "%s\t%s\n", du, hex.EncodeToString(dst))
	return nil
}
