package html

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Badge renders s as a status pill; the css class is derived from s.
func Badge(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		class := strings.ToLower(strings.NewReplacer(" ", "-", "_", "-").Replace(s))
		hw.raw(`<span class="badge badge-` + templ.EscapeString(class) + `">`)
		hw.text(s)
		hw.raw(`</span>`)
		return hw.err
	})
}

func Link(href, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<a href="` + templ.EscapeString(href) + `">`)
		hw.text(label)
		hw.raw(`</a>`)
		return hw.err
	})
}

// PostButton is a one-button form; hidden carries extra fields in order.
func PostButton(action, label string, hidden ...Field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<form method="post" action="` + templ.EscapeString(action) + `" class="inline">`)
		for _, f := range hidden {
			hw.raw(`<input type="hidden" name="` + templ.EscapeString(f.Name) + `" value="` + templ.EscapeString(f.Value) + `">`)
		}
		hw.raw(`<button type="submit">`)
		hw.text(label)
		hw.raw(`</button></form>`)
		return hw.err
	})
}

func Section(title string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="card">`)
		if title != "" {
			hw.raw(`<h2>`)
			hw.text(title)
			hw.raw(`</h2>`)
		}
		for _, c := range children {
			hw.render(ctx, c)
		}
		hw.raw(`</section>`)
		return hw.err
	})
}

type Stat struct {
	Label string
	Value string
}

func Stats(items ...Stat) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div class="stats">`)
		for _, s := range items {
			hw.raw(`<div class="stat"><div class="stat-title">`)
			hw.text(s.Label)
			hw.raw(`</div><div class="stat-value">`)
			hw.text(s.Value)
			hw.raw(`</div></div>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

// Table renders rows of cell components. An empty rows slice shows
// emptyText instead of the table body.
func Table(headers []string, rows [][]templ.Component, emptyText string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		if len(rows) == 0 {
			hw.raw(`<p class="empty">`)
			hw.text(emptyText)
			hw.raw(`</p>`)
			return hw.err
		}
		hw.raw(`<table class="table"><thead><tr>`)
		for _, h := range headers {
			hw.raw(`<th>`)
			hw.text(h)
			hw.raw(`</th>`)
		}
		hw.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			hw.raw(`<tr>`)
			for _, cell := range row {
				hw.raw(`<td>`)
				hw.render(ctx, cell)
				hw.raw(`</td>`)
			}
			hw.raw(`</tr>`)
		}
		hw.raw(`</tbody></table>`)
		return hw.err
	})
}

// State picks between the loading, empty and populated renderings of a
// collection. Loading only shows while there is nothing to display yet.
func State(loading bool, count int, populated templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if loading && count == 0 {
			_, err := io.WriteString(w, `<p class="loading" aria-busy="true">Loading…</p>`)
			return err
		}
		return populated.Render(ctx, w)
	})
}

type Option struct {
	Value string
	Label string
}

// Field is one form input. Type "select" uses Options; "textarea" and
// "checkbox" render their own elements; anything else is an <input>.
type Field struct {
	Label    string
	Name     string
	Type     string
	Value    string
	Options  []Option
	Required bool
	Step     string
}

// Form renders a POST form (or GET when method is "get").
func Form(method, action, submit string, fields ...Field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		if method == "" {
			method = "post"
		}
		hw.raw(`<form method="` + templ.EscapeString(method) + `" action="` + templ.EscapeString(action) + `" class="form">`)
		for _, f := range fields {
			writeField(hw, f)
		}
		hw.raw(`<button type="submit">`)
		hw.text(submit)
		hw.raw(`</button></form>`)
		return hw.err
	})
}

func writeField(hw *htmlWriter, f Field) {
	name := templ.EscapeString(f.Name)
	required := ""
	if f.Required {
		required = " required"
	}
	if f.Type == "hidden" {
		hw.raw(`<input type="hidden" name="` + name + `" value="` + templ.EscapeString(f.Value) + `">`)
		return
	}
	hw.raw(`<label class="field"><span>`)
	hw.text(f.Label)
	hw.raw(`</span>`)
	switch f.Type {
	case "select":
		hw.raw(`<select name="` + name + `"` + required + `>`)
		for _, o := range f.Options {
			selected := ""
			if o.Value == f.Value {
				selected = " selected"
			}
			hw.raw(`<option value="` + templ.EscapeString(o.Value) + `"` + selected + `>`)
			hw.text(o.Label)
			hw.raw(`</option>`)
		}
		hw.raw(`</select>`)
	case "textarea":
		hw.raw(`<textarea name="` + name + `"` + required + `>`)
		hw.text(f.Value)
		hw.raw(`</textarea>`)
	case "checkbox":
		checked := ""
		if f.Value == "true" || f.Value == "on" {
			checked = " checked"
		}
		hw.raw(`<input type="checkbox" name="` + name + `" value="on"` + checked + `>`)
	default:
		typ := f.Type
		if typ == "" {
			typ = "text"
		}
		step := ""
		if f.Step != "" {
			step = ` step="` + templ.EscapeString(f.Step) + `"`
		}
		hw.raw(`<input type="` + templ.EscapeString(typ) + `" name="` + name + `" value="` + templ.EscapeString(f.Value) + `"` + step + required + `>`)
	}
	hw.raw(`</label>`)
}
