package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestIntakeRendersDropzone(t *testing.T) {
	var buf bytes.Buffer
	err := Intake(IntakeData{Site: SiteConfig{Name: "Filters"}, CSRFToken: "tok", MaxUploadMB: 20}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`name="image"`,
		`accept="image/*"`,
		"Drag and drop an image here, or click to select a file",
		`<meta name="csrf-token" content="tok">`,
		"Up to 20 MB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("intake page missing %q", want)
		}
	}
}

func TestEditorRendersSlidersAndPreview(t *testing.T) {
	var buf bytes.Buffer
	d := EditorData{
		Site:      SiteConfig{Name: "Filters"},
		CSRFToken: "tok",
		ImageName: "cat.png",
		ImageURL:  "/editor/image/",
		Filter:    "brightness(50%) ",
		Sliders: []Slider{
			{Key: "blur", Label: "Blur", Min: "0", Max: "10", Step: "0.1", Value: "0", Unit: "px"},
			{Key: "brightness", Label: "Brightness", Min: "0", Max: "200", Step: "1", Value: "50", Unit: "%"},
		},
	}
	if err := Editor(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`name="blur"`,
		`step="0.1"`,
		`name="brightness"`,
		`value="50"`,
		`style="filter: brightness(50%)"`,
		"Choose Another Image",
		"Save Image",
		`action="/editor/reset/"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("editor page missing %q", want)
		}
	}
	if strings.Index(out, `name="blur"`) > strings.Index(out, `name="brightness"`) {
		t.Error("sliders rendered out of order")
	}
}

func TestEditorEscapesImageName(t *testing.T) {
	var buf bytes.Buffer
	d := EditorData{Site: SiteConfig{Name: "Filters"}, ImageName: `<script>x</script>`, ImageURL: "/editor/image/"}
	if err := Editor(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>x</script>") {
		t.Error("image name was not escaped")
	}
}

func TestEditorCarriesComposeOrderAndRevision(t *testing.T) {
	var buf bytes.Buffer
	d := EditorData{
		Site:     SiteConfig{Name: "Filters"},
		ImageURL: "/editor/image/",
		Order:    []string{"brightness", "blur", "hue-rotate"},
		Rev:      42,
	}
	if err := Editor(d).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `data-order="brightness blur hue-rotate"`) || !strings.Contains(out, `data-rev="42"`) {
		t.Errorf("form attributes missing in %s", out)
	}
}

func TestRuntimeValuesAreEscaped(t *testing.T) {
	var buf bytes.Buffer
	evil := `x"><script>alert(1)</script>`
	d := EditorData{
		Site:      SiteConfig{Name: evil},
		CSRFToken: evil,
		ImageName: evil,
		ImageURL:  evil,
		Filter:    evil,
		Sliders:   []Slider{{Key: evil, Label: evil, Min: evil, Max: evil, Step: evil, Value: evil, Unit: evil}},
		Order:     []string{evil},
	}
	if err := Editor(d).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if err := Intake(IntakeData{Site: SiteConfig{Name: evil}, CSRFToken: evil}).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>alert") || strings.Contains(buf.String(), `x">`) {
		t.Error("a runtime value reached the markup unescaped")
	}
}

func TestPreviewStyle(t *testing.T) {
	if got := PreviewStyle(""); got != "" {
		t.Errorf("PreviewStyle(\"\") = %q", got)
	}
	if got := PreviewStyle("sepia(10%) "); got != "filter: sepia(10%)" {
		t.Errorf("PreviewStyle = %q", got)
	}
}

func TestErrorPages(t *testing.T) {
	site := SiteConfig{Name: "Filters"}
	var buf bytes.Buffer
	if err := NotFound(site).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Not found") {
		t.Error("404 page missing heading")
	}
	buf.Reset()
	if err := ServerError(site).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Something went wrong") {
		t.Error("500 page missing heading")
	}
}
