// Package editor implements the two-stage image editing session: intake of a
// single image, then tuning of the filter parameters and export.
package editor

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eringen/filterbox/filter"
)

var (
	// ErrNoFile is returned when an intake carries no file at all.
	ErrNoFile = errors.New("editor: no file provided")
	// ErrStage is returned when an operation is not valid in the current stage.
	ErrStage = errors.New("editor: operation not allowed in this stage")
	// ErrNoImage is returned when no image is loaded.
	ErrNoImage = errors.New("editor: no image loaded")
	// ErrBusy is returned when an export is already running for the session.
	ErrBusy = errors.New("editor: export already in progress")
	// ErrStale is returned when a parameter update carries a revision older
	// than the one the session already holds.
	ErrStale = errors.New("editor: stale parameter update")
)

// Stage is one of the two mutually exclusive states of a session.
type Stage int

const (
	Intake Stage = iota
	Editing
)

func (s Stage) String() string {
	switch s {
	case Intake:
		return "intake"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Upload is one file offered to the intake stage.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Loaded is the handle to the image owned by an editing session.
type Loaded struct {
	Name        string
	ContentType string
	Data        []byte
	LoadedAt    time.Time
}

// Session owns at most one Loaded Image and its Filter Parameter Set. All
// methods are safe for concurrent use; mutations are serialized.
type Session struct {
	mu        sync.Mutex
	stage     Stage
	image     *Loaded
	params    filter.Params
	composed  string
	exporting bool
	rev       uint64
	maxPixels int
}

// Option configures a Session.
type Option func(*Session)

// WithMaxPixels caps the decoded size of an exported image at n pixels.
// n <= 0 keeps DefaultMaxPixels.
func WithMaxPixels(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// NewSession returns a session in the intake stage.
func NewSession(opts ...Option) *Session {
	s := &Session{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Accept loads the first of files and moves to the editing stage. Extra
// files are ignored. The parameter set always starts from zero.
func (s *Session) Accept(files []Upload) error {
	if len(files) == 0 {
		return ErrNoFile
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != Intake {
		return fmt.Errorf("%w: accept in %s", ErrStage, s.stage)
	}

	f := files[0]
	ct := f.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(f.Data)
	}
	s.image = &Loaded{
		Name:        f.Name,
		ContentType: ct,
		Data:        f.Data,
		LoadedAt:    time.Now().UTC(),
	}
	s.params.Reset()
	s.composed = ""
	s.stage = Editing
	return nil
}

// ChooseAnother releases the loaded image and returns to intake. It is a
// no-op in the intake stage.
func (s *Session) ChooseAnother() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// Release drops everything the session owns. Used on teardown.
func (s *Session) Release() {
	s.ChooseAnother()
}

func (s *Session) releaseLocked() {
	s.image = nil
	s.params.Reset()
	s.composed = ""
	s.stage = Intake
}

// Image returns the loaded image, if any.
func (s *Session) Image() (Loaded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return Loaded{}, false
	}
	return *s.image, true
}

// Params returns a copy of the current parameter set.
func (s *Session) Params() filter.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Filter returns the composed filter string for the current parameters.
func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composed
}

// SetParam updates one parameter and returns the recomputed filter string.
func (s *Session) SetParam(key string, v float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != Editing {
		return "", fmt.Errorf("%w: set %s in %s", ErrStage, key, s.stage)
	}
	next := s.params
	if err := next.Set(key, v); err != nil {
		return "", err
	}
	s.rev++
	s.params = next
	s.composed = filter.Compose(s.params)
	return s.composed, nil
}

// SetParams replaces the whole parameter set and returns the recomputed
// filter string.
func (s *Session) SetParams(p filter.Params) (string, error) {
	composed, _, err := s.SetParamsAt(p, 0)
	return composed, err
}

// SetParamsAt is SetParams for a client that numbers its updates. An update
// whose rev is not newer than the session's revision is dropped with
// ErrStale, and the current filter string and revision are returned so the
// caller can resync. rev 0 always applies.
func (s *Session) SetParamsAt(p filter.Params, rev uint64) (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != Editing {
		return "", s.rev, fmt.Errorf("%w: set params in %s", ErrStage, s.stage)
	}
	switch {
	case rev == 0:
		s.rev++
	case rev <= s.rev:
		return s.composed, s.rev, fmt.Errorf("%w: rev %d, have %d", ErrStale, rev, s.rev)
	default:
		s.rev = rev
	}
	s.params = p
	s.composed = filter.Compose(s.params)
	return s.composed, s.rev, nil
}

// Revision returns the number of the last applied parameter update. It only
// grows, also across a return to intake.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}
