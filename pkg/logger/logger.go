package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	reset     = "\033[0m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	cyan      = "\033[36m"
	magenta   = "\033[35m"
	white     = "\033[37m"
	boldBlue  = "\033[1;34m"
	boldWhite = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: cyan,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

// ColoredHandler renders records as one colored line. A request_id attribute
// is pulled to the front.
type ColoredHandler struct {
	level slog.Leveler
	out   io.Writer
	attrs []slog.Attr
	group string
}

func NewColoredHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &ColoredHandler{level: level, out: w}
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ColoredHandler) Handle(_ context.Context, r slog.Record) error {
	levelColor, ok := levelColors[r.Level]
	if !ok {
		levelColor = white
	}

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		attrs = append(attrs, a)
		return true
	})

	var line strings.Builder
	fmt.Fprintf(&line, "%s%s%s ", magenta, r.Time.Format("15:04:05.000"), reset)
	fmt.Fprintf(&line, "%s%-6s%s ", levelColor, strings.ToUpper(r.Level.String()), reset)

	for _, a := range attrs {
		if a.Key == "request_id" {
			fmt.Fprintf(&line, "%s[%s]%s ", boldBlue, shortID(a.Value.String()), reset)
			break
		}
	}

	fmt.Fprintf(&line, "%s%s%s", boldWhite, r.Message, reset)

	for _, a := range attrs {
		if a.Key == "request_id" {
			continue
		}
		val := a.Value.String()
		if a.Value.Kind() == slog.KindString {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&line, " %s%s%s=%s", yellow, a.Key, reset, val)
	}

	_, err := fmt.Fprintln(h.out, line.String())
	return err
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}

// ParseLevel maps a config value to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Setup installs a colored handler as the default logger
func Setup(w io.Writer, level string) *slog.Logger {
	l := slog.New(NewColoredHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(l)
	return l
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
