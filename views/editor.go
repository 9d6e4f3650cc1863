package views

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// PreviewStyle returns the style attribute value that applies filter to the
// preview image.
func PreviewStyle(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return ""
	}
	return "filter: " + filter
}

// Editor renders the parameter panel, the two action buttons and the live
// preview.
func Editor(d EditorData) templ.Component {
	return layout(d.Site, d.CSRFToken, d.ImageName, func(p *page) {
		p.raw(`<main class="image-editor"><div class="image-editor-wrapper">`)

		p.raw(`<div class="controls">`)
		p.raw(`<form id="controls" action="/editor/export/" method="post" data-params-url="/editor/params/"`)
		p.attr("data-order", strings.Join(d.Order, " "))
		p.attr("data-rev", strconv.FormatUint(d.Rev, 10))
		p.raw(">")
		p.csrfInput(d.CSRFToken)
		p.raw(`<div class="controls-wrapper">`)
		for _, s := range d.Sliders {
			slider(p, s)
		}
		p.raw(`</div></form>`)

		p.raw(`<div class="buttons">`)
		p.raw(`<form action="/editor/reset/" method="post">`)
		p.csrfInput(d.CSRFToken)
		p.raw(`<button class="btn btn-danger" type="submit">Choose Another Image</button></form>`)
		p.raw(`<button id="save" class="btn btn-success" type="submit" form="controls">Save Image</button>`)
		p.raw(`</div>`)
		p.notice()
		p.raw(`</div>`)

		p.raw(`<div class="image-preview"><img id="preview" alt="Edited"`)
		p.attr("src", d.ImageURL)
		if style := PreviewStyle(d.Filter); style != "" {
			p.attr("style", style)
		}
		p.raw(`></div>`)

		p.raw(`</div></main>`)
	})
}

func slider(p *page, s Slider) {
	id := "param-" + s.Key
	p.raw(`<div class="control"><h2><label`)
	p.attr("for", id)
	p.raw(">")
	p.text(s.Label)
	p.raw(`</label></h2><input type="range"`)
	p.attr("id", id)
	p.attr("name", s.Key)
	p.attr("min", s.Min)
	p.attr("max", s.Max)
	p.attr("step", s.Step)
	p.attr("value", s.Value)
	p.attr("data-unit", s.Unit)
	p.raw(`><output`)
	p.attr("for", id)
	p.raw(">")
	p.text(s.Value + s.Unit)
	p.raw(`</output></div>`)
}
