package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/BuDozKeN/aicouncil/internal/auth"
)

type TokenCmd struct {
	Subject   string        `arg:"" help:"Token subject (user identifier)."`
	Secret    string        `help:"Signing secret." env:"AICOUNCIL_TOKEN_SECRET" required:""`
	Companies []string      `help:"Company ids the token may access."`
	TTL       time.Duration `help:"Token lifetime." default:"24h"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	token, err := auth.IssueToken([]byte(t.Secret), t.Subject, t.Companies, t.TTL)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Println(token)
	return nil
}
