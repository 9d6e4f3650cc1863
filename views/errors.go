package views

import "github.com/a-h/templ"

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return layout(site, "", "Not found", func(p *page) {
		p.raw(`<main class="error-page"><h1>Not found</h1><p>Nothing lives at this address. <a href="/">Back to the editor</a>.</p></main>`)
	})
}

// ServerError renders the 5xx page.
func ServerError(site SiteConfig) templ.Component {
	return layout(site, "", "Something went wrong", func(p *page) {
		p.raw(`<main class="error-page"><h1>Something went wrong</h1><p>The request could not be completed. <a href="/">Back to the editor</a>.</p></main>`)
	})
}
