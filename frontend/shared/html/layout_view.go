package html

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"cwsdash/frontend/shared/nav"
)

// Flash carries the ?status= and ?error= banners set by redirects.
type Flash struct {
	Status string
	Error  string
}

func FlashFromRequest(r *http.Request) Flash {
	q := r.URL.Query()
	return Flash{Status: q.Get("status"), Error: q.Get("error")}
}

// Page describes one authenticated screen.
type Page struct {
	Title string
	Nav   nav.TopNavData
	Flash Flash
	// Watch lists the collections whose background refresh reloads the page.
	Watch []string
}

// Layout wraps body in the dashboard shell.
func Layout(p Page, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(p.Title + " | CWS Dashboard")
		hw.raw(`</title><link rel="stylesheet" href="/assets/app.css"></head><body>`)

		hw.raw(`<header class="topnav"><span class="brand">CWS Dashboard</span><nav>`)
		for _, l := range p.Nav.Links {
			class := ""
			if l.Code == p.Nav.Active {
				class = ` class="active"`
			}
			hw.raw(`<a href="` + templ.EscapeString(l.Href) + `"` + class + `>`)
			hw.text(l.Label)
			hw.raw(`</a>`)
		}
		hw.raw(`</nav><span class="who">`)
		hw.text(p.Nav.Name + " (" + p.Nav.Role + ")")
		hw.raw(`</span><form method="post" action="/cws/refresh" class="inline"><button type="submit">Refresh</button></form>`)
		hw.raw(`<form method="post" action="/logout" class="inline"><button type="submit">Log out</button></form></header>`)

		hw.raw(`<main><h1>`)
		hw.text(p.Title)
		hw.raw(`</h1>`)
		hw.render(ctx, flashBanner(p.Flash))
		for _, c := range body {
			hw.render(ctx, c)
		}
		hw.raw(`</main>`)
		hw.raw(CSRFFormScript())
		hw.raw(LiveFeedScript(p.Watch))
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// PublicLayout is the shell for unauthenticated pages.
func PublicLayout(title string, flash Flash, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><title>`)
		hw.text(title)
		hw.raw(`</title><link rel="stylesheet" href="/assets/app.css"></head><body class="public"><main>`)
		hw.render(ctx, flashBanner(flash))
		hw.render(ctx, body)
		hw.raw(`</main>`)
		hw.raw(CSRFFormScript())
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// Notice renders a standalone error banner inside a page body.
func Notice(msg string) templ.Component {
	return flashBanner(Flash{Error: msg})
}

func flashBanner(f Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		if f.Status != "" {
			hw.raw(`<div class="alert alert-success" role="status">`)
			hw.text(f.Status)
			hw.raw(`</div>`)
		}
		if f.Error != "" {
			hw.raw(`<div class="alert alert-error" role="alert">`)
			hw.text(f.Error)
			hw.raw(`</div>`)
		}
		return hw.err
	})
}

// htmlWriter keeps the first write error so views can write straight
// through and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}
