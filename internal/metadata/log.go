package metadata

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/lobo/pkg/urlutil"
)

// LogSink writes every metadata event as one structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// NewLogger builds the slog logger used by LogSink. format is "json" or
// "text"; unknown levels fall back to info.
func NewLogger(level string, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *LogSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	args := []any{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("details", details),
	}
	args = append(args, attrsToSlog(attrs)...)
	l.logger.Error("operation failed", args...)
}

func (l *LogSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	cacheHit bool,
) {
	if cacheHit {
		l.logger.Debug("response served from cache",
			slog.String(string(AttrURL), fetchUrl),
			slog.String(string(AttrContentHash), contentHash),
		)
		return
	}

	level := slog.LevelInfo
	if httpStatus == 0 || httpStatus >= 400 {
		level = slog.LevelWarn
	}
	l.logger.Log(context.Background(), level, "sensor endpoint fetched",
		slog.String(string(AttrURL), fetchUrl),
		slog.String(string(AttrHost), urlutil.Host(fetchUrl)),
		slog.Int(string(AttrHTTPStatus), httpStatus),
		slog.Duration("duration", duration),
		slog.String("content_type", contentType),
		slog.String(string(AttrContentHash), contentHash),
	)
}

func (l *LogSink) RecordParse(sensor string, measurementCount int, duration time.Duration) {
	l.logger.Debug("sensor data parsed",
		slog.String(string(AttrSensor), sensor),
		slog.Int("measurements", measurementCount),
		slog.Duration("duration", duration),
	)
}

func (l *LogSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	args := []any{
		slog.String("kind", string(kind)),
		slog.String("path", path),
	}
	args = append(args, attrsToSlog(attrs)...)
	l.logger.Info("artifact written", args...)
}

func attrsToSlog(attrs []Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.String(string(a.Key), a.Value))
	}
	return out
}
