package editor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/eringen/filterbox/filter"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNewSessionStartsInIntake(t *testing.T) {
	s := NewSession()
	if s.Stage() != Intake {
		t.Fatalf("stage = %s, want intake", s.Stage())
	}
	if _, ok := s.Image(); ok {
		t.Fatal("new session should not hold an image")
	}
}

func TestAcceptUsesFirstFileOnly(t *testing.T) {
	s := NewSession()
	files := []Upload{
		{Name: "first.png", ContentType: "image/png", Data: []byte("one")},
		{Name: "second.png", ContentType: "image/png", Data: []byte("two")},
		{Name: "third.png", ContentType: "image/png", Data: []byte("three")},
	}
	if err := s.Accept(files); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if s.Stage() != Editing {
		t.Fatalf("stage = %s, want editing", s.Stage())
	}
	img, ok := s.Image()
	if !ok {
		t.Fatal("expected a loaded image")
	}
	if img.Name != "first.png" || string(img.Data) != "one" {
		t.Errorf("loaded %q (%q), want first.png", img.Name, img.Data)
	}
}

func TestAcceptRejectsEmptyAndSecondIntake(t *testing.T) {
	s := NewSession()
	if err := s.Accept(nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("Accept(nil) err = %v, want ErrNoFile", err)
	}
	if s.Stage() != Intake {
		t.Fatalf("stage = %s after empty intake", s.Stage())
	}

	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Accept([]Upload{{Name: "b.png", Data: []byte("b")}}); !errors.Is(err, ErrStage) {
		t.Fatalf("second Accept err = %v, want ErrStage", err)
	}
	img, _ := s.Image()
	if img.Name != "a.png" {
		t.Errorf("loaded image replaced by %q", img.Name)
	}
}

func TestAcceptSniffsMissingContentType(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "x", Data: pngBytes(t, 2, 2)}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	img, _ := s.Image()
	if img.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", img.ContentType)
	}
}

func TestAcceptDoesNotValidateImageData(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")}}); err != nil {
		t.Fatalf("Accept of non-image should succeed: %v", err)
	}
	if s.Stage() != Editing {
		t.Errorf("stage = %s, want editing", s.Stage())
	}
}

func TestSetParamRecomputesFilter(t *testing.T) {
	s := NewSession()
	if _, err := s.SetParam(filter.Brightness, 50); !errors.Is(err, ErrStage) {
		t.Fatalf("SetParam in intake err = %v, want ErrStage", err)
	}
	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	steps := []struct {
		key  string
		v    float64
		want string
	}{
		{filter.Brightness, 50, "brightness(50%) "},
		{filter.Contrast, 20, "brightness(50%) contrast(20%) "},
		{filter.Blur, 0, "brightness(50%) contrast(20%) "},
		{filter.Brightness, 0, "contrast(20%) "},
		{filter.Saturate, 99, "contrast(20%) saturate(10) "},
	}
	for _, st := range steps {
		got, err := s.SetParam(st.key, st.v)
		if err != nil {
			t.Fatalf("SetParam(%s, %v): %v", st.key, st.v, err)
		}
		if got != st.want || s.Filter() != st.want {
			t.Errorf("after %s=%v filter = %q (stored %q), want %q", st.key, st.v, got, s.Filter(), st.want)
		}
	}

	if _, err := s.SetParam("opacity", 1); !errors.Is(err, filter.ErrUnknownParam) {
		t.Errorf("SetParam(opacity) err = %v", err)
	}
	if s.Filter() != "contrast(20%) saturate(10) " {
		t.Errorf("failed SetParam changed filter to %q", s.Filter())
	}
}

func TestSetParamsReplacesWholeSet(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := s.SetParam(filter.Sepia, 30); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	var p filter.Params
	if err := p.Set(filter.Saturate, 3); err != nil {
		t.Fatal(err)
	}
	got, err := s.SetParams(p)
	if err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	if got != "saturate(3) " {
		t.Errorf("filter = %q, want %q", got, "saturate(3) ")
	}
}

func TestSetParamsAtDropsOutOfOrderUpdates(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	var older, newer filter.Params
	if err := older.Set(filter.Sepia, 10); err != nil {
		t.Fatal(err)
	}
	if err := newer.Set(filter.Sepia, 80); err != nil {
		t.Fatal(err)
	}

	// The newer request arrives first.
	if _, rev, err := s.SetParamsAt(newer, 2); err != nil || rev != 2 {
		t.Fatalf("SetParamsAt(newer, 2) = rev %d, err %v", rev, err)
	}
	got, rev, err := s.SetParamsAt(older, 1)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("SetParamsAt(older, 1) err = %v, want ErrStale", err)
	}
	if got != "sepia(80%) " || rev != 2 {
		t.Errorf("stale reply = %q rev %d, want current state", got, rev)
	}
	if s.Filter() != "sepia(80%) " || s.Params().Get(filter.Sepia) != 80 {
		t.Errorf("stale update overwrote session: %q", s.Filter())
	}
	if _, _, err := s.SetParamsAt(older, 2); !errors.Is(err, ErrStale) {
		t.Errorf("repeated rev err = %v, want ErrStale", err)
	}

	// Unnumbered updates always apply and advance the revision.
	if _, err := s.SetParams(older); err != nil {
		t.Fatal(err)
	}
	if s.Revision() != 3 || s.Filter() != "sepia(10%) " {
		t.Errorf("after SetParams rev %d filter %q", s.Revision(), s.Filter())
	}
}

func TestRevisionSurvivesChooseAnother(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetParam(filter.Invert, 50); err != nil {
		t.Fatal(err)
	}
	before := s.Revision()
	s.ChooseAnother()
	if err := s.Accept([]Upload{{Name: "b.png", Data: []byte("b")}}); err != nil {
		t.Fatal(err)
	}
	if s.Revision() != before {
		t.Errorf("revision reset from %d to %d", before, s.Revision())
	}
	if _, _, err := s.SetParamsAt(filter.Params{}, before); !errors.Is(err, ErrStale) {
		t.Errorf("old revision accepted after reload: %v", err)
	}
}

func TestChooseAnotherResetsEverything(t *testing.T) {
	s := NewSession()
	if err := s.Accept([]Upload{{Name: "a.png", Data: []byte("a")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := s.SetParam(filter.Invert, 70); err != nil {
		t.Fatalf("SetParam: %v", err)
	}

	s.ChooseAnother()
	if s.Stage() != Intake {
		t.Fatalf("stage = %s, want intake", s.Stage())
	}
	if _, ok := s.Image(); ok {
		t.Fatal("image should be released")
	}

	if err := s.Accept([]Upload{{Name: "b.png", Data: []byte("b")}}); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if p := s.Params(); !p.IsZero() {
		t.Errorf("params carried over: %v", p.Map())
	}
	if s.Filter() != "" {
		t.Errorf("filter carried over: %q", s.Filter())
	}

	// Returning to intake twice is harmless.
	s.ChooseAnother()
	s.ChooseAnother()
	if s.Stage() != Intake {
		t.Errorf("stage = %s, want intake", s.Stage())
	}
}

func TestStageString(t *testing.T) {
	if Intake.String() != "intake" || Editing.String() != "editing" {
		t.Errorf("got %q, %q", Intake, Editing)
	}
	if Stage(7).String() != "stage(7)" {
		t.Errorf("unknown stage = %q", Stage(7))
	}
}
