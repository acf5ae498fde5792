// Package logger provides structured logging with colored output.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// New creates a structured logger writing to stderr at the given level.
// Stdout is left to the check report. Uses colored text format by default,
// JSON if LOG_FORMAT=json env var is set. Colors can be disabled by setting
// NO_COLOR=1 or LOG_COLOR=false.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, ColorEnabled())
}

// NewWithWriter is New with an explicit destination and color switch.
func NewWithWriter(w io.Writer, level string, useColor bool) *slog.Logger {
	l := ParseLevel(level)

	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
		})
	} else {
		handler = newColoredTextHandler(w, l, useColor)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
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

// ColorEnabled reports whether colored output should be used.
func ColorEnabled() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if logColor := strings.ToLower(os.Getenv("LOG_COLOR")); logColor == "false" || logColor == "0" {
		return false
	}
	return true
}

type palette struct {
	time  *color.Color
	attr  *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
}

func newPalette(useColor bool) palette {
	p := palette{
		time:  color.New(color.FgHiBlack),
		attr:  color.New(color.FgHiBlack),
		debug: color.New(color.FgCyan),
		info:  color.New(color.FgBlue),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
	}
	// Colors follow the caller's choice rather than fatih/color's tty detection.
	for _, c := range []*color.Color{p.time, p.attr, p.debug, p.info, p.warn, p.err} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// coloredTextHandler is a custom slog.Handler that outputs colored text logs.
type coloredTextHandler struct {
	w      io.Writer
	level  slog.Level
	colors palette
	attrs  []slog.Attr
	groups []string
}

func newColoredTextHandler(w io.Writer, level slog.Level, useColor bool) *coloredTextHandler {
	return &coloredTextHandler{
		w:      w,
		level:  level,
		colors: newPalette(useColor),
	}
}

func (h *coloredTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *coloredTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.colors.time.Sprint(r.Time.Format("2006-01-02 15:04:05")))
	buf.WriteString(" ")

	switch {
	case r.Level >= slog.LevelError:
		buf.WriteString(h.colors.err.Sprint("ERROR"))
	case r.Level >= slog.LevelWarn:
		buf.WriteString(h.colors.warn.Sprint("WARN "))
	case r.Level >= slog.LevelInfo:
		buf.WriteString(h.colors.info.Sprint("INFO "))
	default:
		buf.WriteString(h.colors.debug.Sprint("DEBUG"))
	}
	buf.WriteString(" ")

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, a)
		return true
	})

	buf.WriteString("\n")
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *coloredTextHandler) writeAttr(buf *strings.Builder, a slog.Attr) {
	key := a.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	buf.WriteString(" ")
	buf.WriteString(h.colors.attr.Sprint(key + "=" + a.Value.String()))
}

func (h *coloredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &coloredTextHandler{
		w:      h.w,
		level:  h.level,
		colors: h.colors,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *coloredTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name
	return &coloredTextHandler{
		w:      h.w,
		level:  h.level,
		colors: h.colors,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
