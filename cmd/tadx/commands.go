package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "c",
			Aliases:     []string{"catalog"},
			Description: "load and register a type catalog",
			Type:        cli.NamedFuncOpt(cfg.catalogOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "a",
			Aliases:     []string{"arg"},
			Description: "append a template argument: integer, 'hex'H or string",
			Type:        cli.NamedFuncOpt(cfg.argOpt, "(arg)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "tadx").
		WithSynopsis("tadx [opts] command [opts]").
		WithDescription("tadx is a tool for working with traffic templates and their data units.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tadxMain(cfg, cc, args)
		}).
		WithSubs(
			ExprCommand(cfg),
			PathCommand(cfg),
			TypesCommand(cfg),
			GetCommand(cfg),
			BinCommand(cfg),
			MatchCommand(cfg))
}

func ExprCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExprConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("expr").
		WithAliases("e").
		WithSynopsis("expr [-s] <expression>...").
		WithDescription("evaluate template expressions against the -a arguments").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return expr(cfg, cc, args)
		})
	cfg.Expr = cmd
	return cmd
}

func PathCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PathConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Path, "path").
		WithAliases("p").
		WithSynopsis("path <path>...").
		WithDescription("parse value paths and print their steps").
		WithRun(func(cc *cli.Context, args []string) error {
			return path(cfg, cc, args)
		})
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("types").
		WithAliases("t").
		WithSynopsis("types [-d] [names]").
		WithDescription("list the predefined and catalog types").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return types(cfg, cc, args)
		})
	cfg.Types = cmd
	return cmd
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("get").
		WithAliases("g").
		WithSynopsis("get <valuepath> [files]").
		WithDescription("get subvalues of value documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func BinCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BinConfig{MainConfig: mainCfg, Width: 4}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("bin").
		WithAliases("b").
		WithSynopsis("bin [-n width] <pdupath> <label> [files]").
		WithDescription("convert a data unit field of a pdu and print its binary form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return bin(cfg, cc, args)
		})
	cfg.Bin = cmd
	return cmd
}

func MatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("match").
		WithAliases("m").
		WithSynopsis("match [-trim] <pattern> <packet>").
		WithDescription("match a packet value against a pattern value").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return match(cfg, cc, args)
		})
	cfg.Match = cmd
	return cmd
}
