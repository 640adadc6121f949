package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tad"
	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/catalog"
)

func tadxMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) catalogOpt(_ *cli.Context, a string) (any, error) {
	c, err := catalog.LoadFile(a)
	if err != nil {
		return nil, err
	}
	if c.Name != "" {
		if err := catalog.Register(c); err != nil {
			return nil, err
		}
	}
	cfg.Catalogs = append(cfg.Catalogs, c)
	return a, nil
}

func (cfg *MainConfig) argOpt(_ *cli.Context, a string) (any, error) {
	cfg.Args = append(cfg.Args, tad.ParseArg(a))
	return a, nil
}

// loadValue reads a value document from path, "-" meaning the input of
// cc. The type is looked up in the last catalog given, which sees the
// earlier ones through the registry.
func (cfg *MainConfig) loadValue(cc *cli.Context, path string) (*asn.Value, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	var c *catalog.Catalog
	if n := len(cfg.Catalogs); n > 0 {
		c = cfg.Catalogs[n-1]
	}
	v, err := c.LoadValue(d)
	if err != nil {
		return nil, fmt.Errorf("error loading %q: %w", path, err)
	}
	return v, nil
}

func (cfg *MainConfig) sprint(w io.Writer, v *asn.Value) string {
	return v.Sprint(cfg.colors(w))
}
