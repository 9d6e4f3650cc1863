package views

// SiteConfig holds site-wide settings every page needs.
type SiteConfig struct {
	Name string
}

// IntakeData is everything the drop-target page renders.
type IntakeData struct {
	Site        SiteConfig
	CSRFToken   string
	MaxUploadMB int64
}

// EditorData is everything the editing page renders.
type EditorData struct {
	Site      SiteConfig
	CSRFToken string
	ImageName string
	ImageURL  string // source of the preview <img>
	Filter    string // composed filter string applied to the preview
	Sliders   []Slider
	Order     []string // parameter keys in composition order
	Rev       uint64   // last applied parameter update
}

// Slider is one range input of the parameter panel. Numbers are
// pre-formatted for attributes.
type Slider struct {
	Key   string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
	Unit  string
}
