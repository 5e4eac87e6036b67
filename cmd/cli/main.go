package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/BuDozKeN/aicouncil/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool   `help:"Enable debug logging."`
		Server  string `help:"Server URL." default:"http://localhost:8080" env:"AICOUNCIL_SERVER"`
		Token   string `help:"Bearer token." env:"AICOUNCIL_TOKEN"`
		Version kong.VersionFlag

		Conversations commands.ConversationsCmd `cmd:"" help:"Work with conversations."`
		Departments   commands.DepartmentsCmd   `cmd:"" help:"Work with a company's departments."`
		Knowledge     commands.KnowledgeCmd     `cmd:"" help:"Save and list knowledge."`
		Token_        commands.TokenCmd         `cmd:"" name:"token" help:"Mint a bearer token."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:  cli.Debug,
		Server: cli.Server,
		Token:  cli.Token,
	})
	cmd.FatalIfErrorf(err)
}
