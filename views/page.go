// Package views holds the templ components for the intake, editor and error
// pages.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// page accumulates markup and keeps the first write error.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (p *page) csrfInput(token string) {
	p.raw(`<input type="hidden" name="_csrf"`)
	p.attr("value", token)
	p.raw(">")
}

func (p *page) notice() {
	p.raw(`<div id="notice" class="notice" role="alert" hidden></div>`)
}

// layout wraps body in the shared document shell.
func layout(site SiteConfig, csrf, title string, body func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if csrf != "" {
			p.raw(`<meta name="csrf-token"`)
			p.attr("content", csrf)
			p.raw(">")
		}
		p.raw("<title>")
		if title != "" {
			p.text(title + " · ")
		}
		p.text(site.Name)
		p.raw("</title>")
		p.raw(`<link rel="stylesheet" href="/public/editor.css">`)
		p.raw(`<script src="/public/editor.js" defer></script>`)
		p.raw(`</head><body><header class="site-header"><a href="/">`)
		p.text(site.Name)
		p.raw("</a></header>")
		body(p)
		p.raw("</body></html>")
		return p.err
	})
}
