// Package display renders a canonical schema as terminal tables, one per
// schema in the tree. Nested and item schemas follow their parent and are
// titled with a dotted path such as House.Room.Light.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/reoring/belso"
)

// Option configures Render.
type Option func(*options)

type options struct {
	color    bool
	maxWidth int
}

// WithColor enables ANSI colours. Off by default.
func WithColor(on bool) Option { return func(o *options) { o.color = on } }

// WithMaxWidth truncates each cell to n terminal columns. Zero disables
// truncation.
func WithMaxWidth(n int) Option { return func(o *options) { o.maxWidth = n } }

var headers = []string{"Field", "Type", "Required", "Default", "Constraints", "Description"}

type palette struct {
	title, field, typ, yes, no, def, cons, desc *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		title: color.New(color.FgBlue, color.Bold),
		field: color.New(color.FgCyan),
		typ:   color.New(color.FgMagenta),
		yes:   color.New(color.FgGreen),
		no:    color.New(color.FgRed),
		def:   color.New(color.FgYellow),
		cons:  color.New(color.FgHiBlack),
		desc:  color.New(color.FgWhite),
	}
	for _, c := range []*color.Color{p.title, p.field, p.typ, p.yes, p.no, p.def, p.cons, p.desc} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes one table per schema reachable from s.
func Render(w io.Writer, s *belso.Schema, opts ...Option) error {
	if s == nil {
		return fmt.Errorf("display: nil schema")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	r := &renderer{w: w, o: o, p: newPalette(o.color)}
	r.schema(s, "")
	return r.err
}

// String renders s without colour.
func String(s *belso.Schema) string {
	var b strings.Builder
	if err := Render(&b, s); err != nil {
		return err.Error()
	}
	return b.String()
}

type renderer struct {
	w   io.Writer
	o   options
	p   palette
	err error
	n   int
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// path joins parent and name, collapsing a repeated trailing segment.
func path(parent, name string) string {
	if parent == "" {
		return name
	}
	if i := strings.LastIndexByte(parent, '.'); parent[i+1:] == name {
		return parent
	}
	return parent + "." + name
}

func (r *renderer) schema(s *belso.Schema, parent string) {
	title := path(parent, s.Name())
	rows := make([][]string, 0, s.Len())
	for _, f := range s.Fields() {
		rows = append(rows, []string{
			f.Name,
			typeLabel(f),
			requiredLabel(f.Required),
			defaultLabel(f),
			constraintLabel(f.Constraints),
			orDash(f.Description),
		})
	}
	r.table(title, rows)

	for _, f := range s.Fields() {
		switch {
		case f.Shape() == belso.ShapeNested:
			r.schema(f.Schema, title)
		case f.Items.IsSchema():
			r.schema(f.Items.Schema, title)
		}
	}
}

func (r *renderer) table(title string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range row {
			row[i] = r.fit(row[i])
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	if r.n > 0 {
		r.printf("\n")
	}
	r.n++
	r.printf("%s\n", r.p.title.Sprint(title))
	r.rule("╭", "┬", "╮", widths)
	r.row(headers, widths, nil)
	for _, row := range rows {
		r.rule("├", "┼", "┤", widths)
		r.row(row, widths, r.cellColors(row))
	}
	r.rule("╰", "┴", "╯", widths)
}

func (r *renderer) fit(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r.o.maxWidth <= 0 || runewidth.StringWidth(s) <= r.o.maxWidth {
		return s
	}
	if r.o.maxWidth <= 3 {
		return runewidth.Truncate(s, r.o.maxWidth, "")
	}
	return runewidth.Truncate(s, r.o.maxWidth, "...")
}

func (r *renderer) cellColors(row []string) []*color.Color {
	req := r.p.no
	if row[2] == yes {
		req = r.p.yes
	}
	return []*color.Color{r.p.field, r.p.typ, req, r.p.def, r.p.cons, r.p.desc}
}

func (r *renderer) rule(left, mid, right string, widths []int) {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString(right)
	r.printf("%s\n", b.String())
}

func (r *renderer) row(cells []string, widths []int, colors []*color.Color) {
	var b strings.Builder
	b.WriteString("│")
	for i, c := range cells {
		pad := runewidth.FillRight(c, widths[i])
		if colors != nil {
			pad = colors[i].Sprint(c) + strings.Repeat(" ", widths[i]-runewidth.StringWidth(c))
		}
		b.WriteString(" " + pad + " │")
	}
	r.printf("%s\n", b.String())
}

const (
	yes = "✓"
	no  = "✗"
)

func requiredLabel(r bool) string {
	if r {
		return yes
	}
	return no
}

func typeLabel(f belso.Field) string {
	switch f.Shape() {
	case belso.ShapeNested:
		return "object (" + f.Schema.Name() + ")"
	case belso.ShapeArray:
		if f.Items.IsSchema() {
			return "array[" + f.Items.Schema.Name() + "]"
		}
		return "array[" + f.Items.Kind.String() + "]"
	}
	return f.Kind.String()
}

func defaultLabel(f belso.Field) string {
	if !f.HasDefault() {
		return "-"
	}
	return fmt.Sprint(f.Default)
}

func constraintLabel(c belso.Constraints) string {
	facets := c.Facets()
	if len(facets) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(facets))
	for _, f := range facets {
		var v string
		switch f {
		case belso.FacetEnum:
			v = fmt.Sprint(c.Enum)
		case belso.FacetRange:
			v = c.Range.String()
		case belso.FacetExclusiveRange:
			v = strings.NewReplacer("[", "(", "]", ")").Replace(c.ExclusiveRange.String())
		case belso.FacetLengthRange:
			v = c.LengthRange.String()
		case belso.FacetItemsRange:
			v = c.ItemsRange.String()
		case belso.FacetPropertiesRange:
			v = c.PropertiesRange.String()
		case belso.FacetRegex:
			v = c.Regex
		case belso.FacetMultipleOf:
			v = fmt.Sprint(*c.MultipleOf)
		case belso.FacetFormat:
			v = c.Format
		}
		parts = append(parts, string(f)+"="+v)
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
