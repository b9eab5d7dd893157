package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// Printer writes human-readable listings and import previews. Colors follow
// fatih/color's terminal detection unless disabled.
type Printer struct {
	w       io.Writer
	key     *color.Color
	value   *color.Color
	heading *color.Color
	muted   *color.Color
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		key:     color.New(color.FgCyan),
		value:   color.New(color.FgYellow),
		heading: color.New(color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.key, p.value, p.heading, p.muted} {
			c.DisableColor()
		}
	}
	return p
}

// Variables prints vars as key=value lines sorted by key
func (p *Printer) Variables(vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(p.w, "%s=%s\n", p.key.Sprint(name), p.value.Sprint(vars[name])); err != nil {
			return err
		}
	}
	return nil
}

// Section prints a group heading with its entry count
func (p *Printer) Section(title string, count int) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.heading.Sprint(title), p.muted.Sprintf("(%d)", count))
	return err
}

// Item prints one indented key=value entry of a section. detail may be empty.
func (p *Printer) Item(marker, key, value, detail string) error {
	return p.line(marker, p.key.Sprint(key)+"="+p.value.Sprint(value), detail)
}

// Key prints one indented entry that shows only the key
func (p *Printer) Key(marker, key, detail string) error {
	return p.line(marker, p.key.Sprint(key), detail)
}

func (p *Printer) line(marker, body, detail string) error {
	line := "  " + marker + " " + body
	if detail != "" {
		line += " " + p.muted.Sprint(detail)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}
