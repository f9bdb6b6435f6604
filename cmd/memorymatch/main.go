package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/memorymatch/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve games over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games with a bot and report statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("memorymatch"),
		kong.Description("Card-matching memory game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
