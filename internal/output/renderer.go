// Package output renders log entries for terminals and pipes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer writes entries to an output stream.
type Renderer interface {
	Render(entry logging.Entry) error
}

// New returns the renderer for format ("text" or "json") writing to w.
// color only affects the text renderer.
func New(format string, w io.Writer, color bool) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(w, color), nil
	case "json":
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: text, json)", format)
	}
}

// ColorEnabled resolves a color mode ("auto", "always", "never") for f.
// In auto mode color is used when f is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" || f == nil {
			return false
		}
		return term.IsTerminal(int(f.Fd()))
	}
}

// levelStyles holds one style per level plus the module style.
type levelStyles struct {
	time    lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
	module  lipgloss.Style
}

func newLevelStyles(r *lipgloss.Renderer) levelStyles {
	return levelStyles{
		time:    r.NewStyle().Foreground(lipgloss.Color("245")),
		info:    r.NewStyle().Foreground(lipgloss.Color("39")),
		warning: r.NewStyle().Foreground(lipgloss.Color("220")),
		error:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		module:  r.NewStyle().Foreground(lipgloss.Color("51")).Faint(true),
	}
}

// TextRenderer prints entries with severity-based colors.
type TextRenderer struct {
	w      io.Writer
	color  bool
	styles levelStyles
}

// NewTextRenderer returns a Renderer writing one line per entry to w.
func NewTextRenderer(w io.Writer, color bool) *TextRenderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &TextRenderer{
		w:      w,
		color:  color,
		styles: newLevelStyles(r),
	}
}

// Render writes "timestamp LEVEL module message".
func (r *TextRenderer) Render(entry logging.Entry) error {
	ts := entry.Time.Format(logging.EntryTimeLayout)
	tag := fmt.Sprintf("%-9s", string(entry.Level))
	module := entry.Module

	if r.color {
		ts = r.styles.time.Render(ts)
		tag = r.styleLevel(entry.Level).Render(tag)
		module = r.styles.module.Render(module)
	}

	_, err := fmt.Fprintf(r.w, "%s %s %s %s\n", ts, tag, module, entry.Message)
	return err
}

func (r *TextRenderer) styleLevel(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelError:
		return r.styles.error
	case logging.LevelWarning:
		return r.styles.warning
	default:
		return r.styles.info
	}
}

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

// Render encodes entry as one JSON line.
func (r *JSONRenderer) Render(entry logging.Entry) error {
	return r.enc.Encode(entry)
}
