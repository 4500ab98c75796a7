// Package templates renders the server-side views as templ components.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// printer writes HTML fragments, remembering the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) f(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// esc escapes a value for interpolation into HTML text or attributes.
func esc(s string) string {
	return html.EscapeString(s)
}

// page wraps a body renderer in the shared layout.
func page(title string, body func(p *printer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		p.f("<meta charset=\"utf-8\"><title>%s - Sourcedesk</title>\n", esc(title))
		p.raw(`<script src="https://unpkg.com/htmx.org@1.9.10"></script>` + "\n")
		p.raw("<style>body{font-family:sans-serif;margin:2rem auto;max-width:64rem;padding:0 1rem}table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #ddd;padding:.4rem;text-align:left}nav a{margin-right:1rem}.error{color:#a00}.ok{color:#070}</style>\n")
		p.raw("</head>\n<body>\n")
		p.raw(`<nav><a href="/">Dashboard</a><a href="/requests">Requests</a><a href="/requests/new">File Request</a><a href="/agencies">Agencies</a><a href="/sources">Sources</a><a href="/projects">Projects</a><a href="/stories">Stories</a><a href="/templates/upload">Templates</a></nav>` + "\n")
		p.f("<h1>%s</h1>\n", esc(title))
		body(p)
		p.raw("</body>\n</html>\n")
		return p.err
	})
}

// fragment renders a body with no surrounding layout, for HTMX swaps.
func fragment(body func(p *printer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		body(p)
		return p.err
	})
}
