package summarizer

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) (string, error)
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) (string, error)

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) (string, error) {
	return f(summary)
}

// NewFormatter returns the formatter registered under name ("text" or
// "json").
func NewFormatter(name string, opts ...TextOption) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(opts...), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// TextOption configures a TextFormatter.
type TextOption func(*TextFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) TextOption {
	return func(f *TextFormatter) {
		f.translate = fn
	}
}

// WithVersion sets the tool version printed in the footer.
func WithVersion(v string) TextOption {
	return func(f *TextFormatter) {
		f.version = v
	}
}

// TextFormatter renders a Summary as a plain text table.
type TextFormatter struct {
	translate func(string) string
	version   string
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(opts ...TextOption) *TextFormatter {
	f := &TextFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *TextFormatter) Format(s *Summary) (string, error) {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", t("Conformance Report"))
	fmt.Fprintf(&b, "%s: %s\n", t("Run"), s.RunID)
	if s.Mode != "" {
		fmt.Fprintf(&b, "%s: %s\n", t("Mode"), s.Mode)
	}
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, r := range s.Files {
		b.WriteString(FormatFileLine(r, t))
		b.WriteByte('\n')
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "    %s\n", d)
		}
	}

	fmt.Fprintf(&b, "\n%s: %d/%d %s", t("Results"), s.Passed, s.Total, t("passed"))
	if s.Elapsed > 0 {
		fmt.Fprintf(&b, " (%dms)", s.Elapsed.Milliseconds())
	}
	b.WriteByte('\n')

	if f.version != "" {
		fmt.Fprintf(&b, "\nvpxconform %s\n", f.version)
	}
	return b.String(), nil
}

// JSONFormatter renders a Summary as an indented JSON document.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(s *Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	return string(data) + "\n", nil
}
