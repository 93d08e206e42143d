package main

import (
	"github.com/alecthomas/kong"

	"github.com/thiblahute/pitivi-old/cmd/helpbuild/commands"
	"github.com/thiblahute/pitivi-old/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("helpbuild"),
		kong.Description("Build, validate and serve Mallard help documentation."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
