package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/BuDozKeN/aicouncil/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Dev     bool `help:"Enable development mode (console logging, debug level)."`
		Version kong.VersionFlag
		Serve   commands.ServeCmd `cmd:"" help:"Start the API server."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Dev: cli.Dev, Version: version})
	cmd.FatalIfErrorf(err)
}
