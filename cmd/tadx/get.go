package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a value path", cli.ErrUsage)
	}
	path := args[0]
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for i, file := range files {
		v, err := cfg.loadValue(cc, file)
		if err != nil {
			return err
		}
		sub, err := v.Get(path)
		if err != nil {
			v.Free()
			return fmt.Errorf("error getting %s from %s: %w", path, file, err)
		}
		if i > 0 {
			fmt.Fprintln(cc.Out, "---")
		}
		fmt.Fprintln(cc.Out, cfg.sprint(cc.Out, sub))
		v.Free()
	}
	return nil
}
