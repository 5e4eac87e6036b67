package commands

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/BuDozKeN/aicouncil/internal/api"
	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

type Globals struct {
	Debug  bool
	Server string
	Token  string
}

// newDataLayer builds the client-side data layer: REST client, query
// cache, and the typed operations over them. The cache is owned by the
// command invocation and closed when it returns.
func newDataLayer(globals *Globals) (*api.DataLayer, func()) {
	level := zerolog.WarnLevel
	if globals.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	client := api.NewClient(api.Config{
		ServerURL:  globals.Server,
		Token:      globals.Token,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Logger:     logger,
	})

	cache := querycache.New(querycache.WithLogger(logger))
	return api.NewDataLayer(client, cache), cache.Close
}
