package logger

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/BuDozKeN/aicouncil/internal/httputil"
)

// Setup configures the process logger. Dev mode gets a console writer
// and debug level; production gets JSON on stderr.
func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: formatTimestamp}).Level(level).With().Stack().Logger()
	}

	return logger
}

// formatTimestamp renders the event's own timestamp, which zerolog
// hands over in TimeFieldFormat (RFC3339 by default), in local time.
func formatTimestamp(i any) string {
	ts, ok := i.(string)
	if !ok {
		return fmt.Sprint(i)
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return parsed.Local().Format(time.RFC3339)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Requests returns middleware that logs each HTTP request with its
// duration and status, and puts a request-scoped logger on the context
// for handlers to pull with zerolog.Ctx.
func Requests(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			ctx := logger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("addr", httputil.ClientIP(r)).
				Logger().WithContext(r.Context())

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(ctx))

			event := zerolog.Ctx(ctx).Info()
			if recorder.status >= 500 {
				event = zerolog.Ctx(ctx).Error()
			}
			event.
				Int("status", recorder.status).
				Dur("duration", time.Since(started)).
				Msg("http request")
		})
	}
}
