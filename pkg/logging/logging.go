// Package logging installs the slog handler used by the command line tool.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

//nolint:gochecknoglobals // Level color table
var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgCyan),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
}

//nolint:gochecknoglobals // Shared color printers
var (
	timeColor    = color.New(color.FgMagenta)
	messageColor = color.New(color.Bold)
	keyColor     = color.New(color.FgYellow)
)

// ColoredHandler writes one colored line per record: time, level, message, then key=value
// attributes.
type ColoredHandler struct {
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

// NewColoredHandler creates a handler writing to w. A nil opts logs at Info and above.
func NewColoredHandler(w io.Writer, opts *slog.HandlerOptions) (h *ColoredHandler) {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	h = &ColoredHandler{
		out:   w,
		level: level,
		mu:    &sync.Mutex{},
	}
	return h
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) (enabled bool) {
	enabled = level >= h.level.Level()
	return enabled
}

func (h *ColoredHandler) Handle(_ context.Context, r slog.Record) (err error) {
	levelColor, ok := levelColors[r.Level]
	if !ok {
		levelColor = color.New(color.FgWhite)
	}

	var line strings.Builder
	line.WriteString(timeColor.Sprint(r.Time.Format("15:04:05.000")))
	line.WriteString(" ")
	line.WriteString(levelColor.Sprintf("%-5s", r.Level.String()))
	line.WriteString(" ")
	line.WriteString(messageColor.Sprint(r.Message))

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&line, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&line, prefix, a)
		return true
	})
	line.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = io.WriteString(h.out, line.String())
	return err
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}

	val := a.Value.String()
	if a.Value.Kind() == slog.KindString {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, " %s=%s", keyColor.Sprint(key), val)
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) (handler slog.Handler) {
	prefix := strings.Join(h.groups, ".")

	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		merged = append(merged, a)
	}

	handler = &ColoredHandler{
		out:    h.out,
		level:  h.level,
		attrs:  merged,
		groups: h.groups,
		mu:     h.mu,
	}
	return handler
}

func (h *ColoredHandler) WithGroup(name string) (handler slog.Handler) {
	if name == "" {
		handler = h
		return handler
	}

	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	handler = &ColoredHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: groups,
		mu:     h.mu,
	}
	return handler
}

// Setup installs a ColoredHandler on stderr as the default logger. Verbose runs log at Debug,
// others at Warn.
func Setup(verbose bool) (h *ColoredHandler) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	h = NewColoredHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))

	return h
}
