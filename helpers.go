package filterbox

import (
	"net/url"

	"github.com/eringen/filterbox/filter"
	"github.com/eringen/filterbox/views"
)

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{Name: a.Config.Name}
}

// sliders describes the editor panel for the current parameter values.
func sliders(p filter.Params) []views.Slider {
	specs := filter.SliderOrder()
	out := make([]views.Slider, 0, len(specs))
	for _, s := range specs {
		out = append(out, views.Slider{
			Key:   s.Key,
			Label: s.Label,
			Min:   filter.FmtNum(s.Min),
			Max:   filter.FmtNum(s.Max),
			Step:  filter.FmtNum(s.Step),
			Value: filter.FmtNum(p.Get(s.Key)),
			Unit:  s.Unit,
		})
	}
	return out
}

// revField is the form field carrying the page's update counter.
const revField = "rev"

// composeOrder lists the parameter keys in the order the filter string
// names them.
func composeOrder() []string {
	specs := filter.Specs()
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.Key
	}
	return keys
}

// hasParams reports whether form carries at least one filter parameter.
func hasParams(form url.Values) bool {
	for _, s := range filter.Specs() {
		if _, ok := form[s.Key]; ok {
			return true
		}
	}
	return false
}
