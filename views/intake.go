package views

import (
	"strconv"

	"github.com/a-h/templ"
)

// Intake renders the drop target. The form posts the file picker selection
// directly; editor.js adds drag-and-drop and the drag-active state.
func Intake(d IntakeData) templ.Component {
	return layout(d.Site, d.CSRFToken, "", func(p *page) {
		p.raw(`<main class="image-editor">`)
		p.raw(`<form id="intake" class="dropzone" action="/editor/upload/" method="post" enctype="multipart/form-data">`)
		p.csrfInput(d.CSRFToken)
		p.raw(`<input id="file" class="dropzone-input" type="file" name="image" accept="image/*">`)
		p.raw(`<p><img src="/public/upload.svg" alt="Upload Icon" width="64" height="64"></p>`)
		p.raw(`<p>Drag and drop an image here, or click to select a file</p>`)
		if d.MaxUploadMB > 0 {
			p.raw(`<p class="hint">Up to `)
			p.text(strconv.FormatInt(d.MaxUploadMB, 10))
			p.raw(` MB</p>`)
		}
		p.raw(`<noscript><button class="btn" type="submit">Upload</button></noscript>`)
		p.raw(`</form>`)
		p.notice()
		p.raw(`</main>`)
	})
}
