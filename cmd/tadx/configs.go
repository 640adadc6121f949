package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tad"
	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/catalog"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='print values with color'"`

	Catalogs []*catalog.Catalog
	Args     []tad.TmplArg

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// colors gives the value printer colors when asked to, or when w is a
// terminal and -color was not given at all.
func (cfg *MainConfig) colors(w io.Writer) *asn.Colors {
	if cfg.Color {
		return asn.NewColors()
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return nil
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return asn.NewColors()
	}
	return nil
}

type ExprConfig struct {
	*MainConfig
	Show bool `cli:"name=s aliases=show desc='print the parsed expression'"`

	Expr *cli.Command
}

type PathConfig struct {
	*MainConfig

	Path *cli.Command
}

type TypesConfig struct {
	*MainConfig
	DataUnits bool `cli:"name=d aliases=du desc='list data-unit types only'"`

	Types *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type BinConfig struct {
	*MainConfig
	Width int `cli:"name=n aliases=width desc='width in bytes of the field'"`

	Bin *cli.Command
}

type MatchConfig struct {
	*MainConfig
	Trim bool `cli:"name=trim desc='print the packet trimmed to the pattern'"`

	Match *cli.Command
}
