package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/pipe-fittings/sanitize"
	"github.com/turbot/tailpipe-sales-etl/constants"
)

// LevelOff disables logging entirely
const LevelOff = slog.Level(100)

// Initialize installs the default logger for the named binary.
// defaultLevel is used when SALES_ETL_LOG_LEVEL is not set.
func Initialize(appName string, defaultLevel string) {
	slog.SetDefault(NewLogger(os.Stderr, appName, getLogLevel(defaultLevel)))
}

// NewLogger returns a logger that writes JSON to w and sanitizes log entries
func NewLogger(w io.Writer, appName string, level slog.Leveler) *slog.Logger {
	if level == LevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level: level,

		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			sanitized := sanitize.Instance.SanitizeKeyValue(a.Key, a.Value.Any())

			return slog.Attr{
				Key:   a.Key,
				Value: slog.AnyValue(sanitized),
			}
		},
	}
	// add app name as source
	longName := fmt.Sprintf("%s-%s", constants.AppName, appName)
	return slog.New(slog.NewJSONHandler(w, handlerOptions)).With("source", longName)
}

func getLogLevel(defaultLevel string) slog.Leveler {
	levelEnv, ok := os.LookupEnv(constants.EnvLogLevel)
	if !ok {
		levelEnv = defaultLevel
	}
	return ParseLevel(levelEnv)
}

// ParseLevel converts a level name to a slog level. Unknown names disable logging.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelOff
	}
}
