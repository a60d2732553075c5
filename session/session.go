// Package session keeps the state of a try-on page: the camera lifecycle, the position
// offset, transparency, zoom and mirroring applied to the live video, and the capture
// settings. It has no browser dependencies so the same rules drive the WASM client and
// the tests.
package session

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CameraState describes where the camera stream is in its lifecycle.
type CameraState int

const (
	Idle CameraState = iota
	Loading
	Active
	Denied
)

func (s CameraState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Active:
		return "active"
	case Denied:
		return "denied"
	}
	return fmt.Sprintf("CameraState(%d)", int(s))
}

// Direction is one of the four position arrows.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection maps the arrow names used by the page controls and the
// keyboard (`ArrowUp`, `up`...) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimPrefix(s, "Arrow")) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

const (
	DefaultStep         = 10
	DefaultTransparency = 100
	DefaultEffect       = "none"

	MinTransparency = 0
	MaxTransparency = 100

	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

var (
	// ErrRequestPending is returned when a camera permission request is already in flight.
	ErrRequestPending = errors.New("camera request already pending")
	// ErrNotLoading is returned when a permission result arrives without a pending request.
	ErrNotLoading = errors.New("no camera request pending")
	// ErrNoSuchDress is returned when the selected catalogue entry does not exist.
	ErrNoSuchDress = errors.New("no such dress")
	// ErrClosed is returned by the camera transitions once the page is torn down.
	ErrClosed = errors.New("session closed")
)

// Options configures a new Session. Zero values fall back to the defaults.
type Options struct {
	Step         int
	Transparency *int
	Effect       string
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Camera       CameraState
	Offset       image.Point
	Transparency int
	Zoom         float64
	Flipped      bool
	Keypoints    bool
	Dress        int
	Effect       string
	Captures     int
	LastError    error
}

// Session is safe for concurrent use: the browser callbacks fire on their own goroutines.
type Session struct {
	mu sync.Mutex

	step         int
	closed       bool
	camera       CameraState
	lastErr      error
	offset       image.Point
	transparency int
	zoom         float64
	flipped      bool
	keypoints    bool
	dress        int
	effect       string
	captures     int
}

// New creates a session with the camera idle, the video centered and fully opaque.
func New(opts Options) *Session {
	s := &Session{
		step:         DefaultStep,
		transparency: DefaultTransparency,
		zoom:         1,
		dress:        -1,
		effect:       DefaultEffect,
	}
	if opts.Step > 0 {
		s.step = opts.Step
	}
	if opts.Transparency != nil {
		s.transparency = clamp(*opts.Transparency, MinTransparency, MaxTransparency)
	}
	if opts.Effect != "" {
		s.effect = opts.Effect
	}
	return s
}

// BeginCameraRequest marks a permission request as in flight. Only one request may be
// pending at a time.
func (s *Session) BeginCameraRequest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.camera == Loading {
		return ErrRequestPending
	}
	s.camera = Loading
	s.lastErr = nil
	return nil
}

// CameraGranted records a successful permission request.
func (s *Session) CameraGranted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.camera != Loading {
		return ErrNotLoading
	}
	s.camera = Active
	return nil
}

// CameraDenied records a failed permission request and keeps its cause.
func (s *Session) CameraDenied(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.camera != Loading {
		return ErrNotLoading
	}
	s.camera = Denied
	s.lastErr = cause
	return nil
}

// CameraStopped records that the stream tracks were stopped. It reports whether
// a running stream was actually stopped.
func (s *Session) CameraStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera != Active {
		return false
	}
	s.camera = Idle
	return true
}

// Close tears the session down. A permission request still in flight can no
// longer be granted: its stream has to be stopped by the caller.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.camera = Idle
}

// Camera returns the current camera state.
func (s *Session) Camera() CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// PromptVisible reports whether the "Camera access required" prompt should be shown.
func (s *Session) PromptVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera == Idle || s.camera == Denied
}

// Move shifts the position offset one step in the given direction.
func (s *Session) Move(d Direction) image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch d {
	case Up:
		s.offset.Y -= s.step
	case Down:
		s.offset.Y += s.step
	case Left:
		s.offset.X -= s.step
	case Right:
		s.offset.X += s.step
	}
	return s.offset
}

// ResetPosition moves the video back to (0,0). Transparency, zoom and mirroring are kept.
func (s *Session) ResetPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = image.Point{}
}

// SetTransparency sets the opacity percentage, clamped to [0, 100].
func (s *Session) SetTransparency(v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transparency = clamp(v, MinTransparency, MaxTransparency)
	return s.transparency
}

// ZoomIn increases the zoom by one step.
func (s *Session) ZoomIn() float64 { return s.zoomBy(ZoomStep) }

// ZoomOut decreases the zoom by one step.
func (s *Session) ZoomOut() float64 { return s.zoomBy(-ZoomStep) }

func (s *Session) zoomBy(delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Round to one decimal so repeated steps don't drift.
	z := math.Round((s.zoom+delta)*10) / 10
	s.zoom = clamp(z, MinZoom, MaxZoom)
	return s.zoom
}

// Flip toggles horizontal mirroring and returns the new value.
func (s *Session) Flip() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipped = !s.flipped
	return s.flipped
}

// ToggleKeypoints toggles the face keypoints overlay and returns the new value.
func (s *Session) ToggleKeypoints() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keypoints = !s.keypoints
	return s.keypoints
}

// SelectDress selects entry i of a catalogue holding n dresses.
func (s *Session) SelectDress(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d", ErrNoSuchDress, i)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dress = i
	return nil
}

// SetEffect records the effect applied on capture. The caller validates the name.
func (s *Session) SetEffect(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effect = name
}

// Transform returns the CSS transform applied to the stage element.
func (s *Session) Transform() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fmt.Sprintf("translate(%dpx, %dpx) scale(%s)",
		s.offset.X, s.offset.Y, strconv.FormatFloat(s.zoom, 'f', -1, 64))
}

// VideoTransform returns the CSS transform applied to the video element itself.
func (s *Session) VideoTransform() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flipped {
		return "scaleX(-1)"
	}
	return "none"
}

// Opacity returns the CSS opacity matching the transparency percentage.
func (s *Session) Opacity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatFloat(float64(s.transparency)/100, 'f', -1, 64)
}

// CaptureName counts a new capture and returns the download file name for it.
func (s *Session) CaptureName(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.captures++
	return "tryon-" + t.Format("20060102-150405") + ".png"
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Camera:       s.camera,
		Offset:       s.offset,
		Transparency: s.transparency,
		Zoom:         s.zoom,
		Flipped:      s.flipped,
		Keypoints:    s.keypoints,
		Dress:        s.dress,
		Effect:       s.effect,
		Captures:     s.captures,
		LastError:    s.lastErr,
	}
}
