package session

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

func TestCameraLifecycle(t *testing.T) {
	s := New(Options{})
	if got := s.Camera(); got != Idle {
		t.Fatalf("expected idle camera, got %v", got)
	}
	if !s.PromptVisible() {
		t.Error("expected the enable prompt while idle")
	}

	if err := s.BeginCameraRequest(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PromptVisible() {
		t.Error("prompt must be hidden while loading")
	}
	if err := s.BeginCameraRequest(); !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending, got %v", err)
	}

	if err := s.CameraGranted(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Camera(); got != Active {
		t.Fatalf("expected active camera, got %v", got)
	}
	if err := s.CameraGranted(); !errors.Is(err, ErrNotLoading) {
		t.Fatalf("expected ErrNotLoading, got %v", err)
	}

	// Toggle: stop the running stream and ask again.
	if !s.CameraStopped() {
		t.Fatal("expected the active stream to be stopped")
	}
	if s.CameraStopped() {
		t.Error("stopping an idle camera must be a no-op")
	}
	if err := s.BeginCameraRequest(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cause := errors.New("NotAllowedError: Permission denied")
	if err := s.CameraDenied(cause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Camera != Denied {
		t.Errorf("expected denied camera, got %v", snap.Camera)
	}
	if !errors.Is(snap.LastError, cause) {
		t.Errorf("expected last error to be kept, got %v", snap.LastError)
	}
	if !s.PromptVisible() {
		t.Error("expected the enable prompt after a denial")
	}

	// Retrying clears the previous failure.
	if err := s.BeginCameraRequest(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Snapshot().LastError != nil {
		t.Error("expected last error to be cleared on retry")
	}
}

func TestSingleRequestInFlight(t *testing.T) {
	s := New(Options{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.BeginCameraRequest(); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Errorf("expected exactly one request to start, got %d", granted)
	}
}

func TestMoveAndReset(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		dir  Direction
		want image.Point
	}{
		{Up, image.Pt(0, -10)},
		{Up, image.Pt(0, -20)},
		{Right, image.Pt(10, -20)},
		{Down, image.Pt(10, -10)},
		{Left, image.Pt(0, -10)},
		{Left, image.Pt(-10, -10)},
	}
	for _, tt := range tests {
		if got := s.Move(tt.dir); got != tt.want {
			t.Fatalf("Move(%v) = %v, want %v", tt.dir, got, tt.want)
		}
	}

	s.SetTransparency(40)
	s.ZoomIn()
	s.Flip()
	s.ResetPosition()

	snap := s.Snapshot()
	if snap.Offset != (image.Point{}) {
		t.Errorf("expected offset reset to origin, got %v", snap.Offset)
	}
	if snap.Transparency != 40 || snap.Zoom != 1.1 || !snap.Flipped {
		t.Errorf("reset must keep transparency, zoom and flip: %+v", snap)
	}
}

func TestCustomStep(t *testing.T) {
	s := New(Options{Step: 25})
	if got := s.Move(Down); got != image.Pt(0, 25) {
		t.Errorf("expected (0,25), got %v", got)
	}
}

func TestTransparencyClamp(t *testing.T) {
	s := New(Options{})
	if got := s.Snapshot().Transparency; got != DefaultTransparency {
		t.Fatalf("expected default %d, got %d", DefaultTransparency, got)
	}

	tests := []struct {
		in, want int
		opacity  string
	}{
		{50, 50, "0.5"},
		{-5, 0, "0"},
		{140, 100, "1"},
		{75, 75, "0.75"},
		{1, 1, "0.01"},
	}
	for _, tt := range tests {
		if got := s.SetTransparency(tt.in); got != tt.want {
			t.Errorf("SetTransparency(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if got := s.Opacity(); got != tt.opacity {
			t.Errorf("Opacity() after %d = %q, want %q", tt.in, got, tt.opacity)
		}
	}

	initial := 300
	if got := New(Options{Transparency: &initial}).Snapshot().Transparency; got != 100 {
		t.Errorf("expected option to be clamped to 100, got %d", got)
	}
}

func TestZoomBounds(t *testing.T) {
	s := New(Options{})
	for i := 0; i < 50; i++ {
		s.ZoomIn()
	}
	if got := s.Snapshot().Zoom; got != MaxZoom {
		t.Errorf("expected zoom capped at %v, got %v", MaxZoom, got)
	}
	for i := 0; i < 50; i++ {
		s.ZoomOut()
	}
	if got := s.Snapshot().Zoom; got != MinZoom {
		t.Errorf("expected zoom floored at %v, got %v", MinZoom, got)
	}
}

func TestTransforms(t *testing.T) {
	s := New(Options{})
	if got := s.Transform(); got != "translate(0px, 0px) scale(1)" {
		t.Errorf("unexpected initial transform %q", got)
	}
	if got := s.VideoTransform(); got != "none" {
		t.Errorf("unexpected video transform %q", got)
	}

	s.Move(Right)
	s.Move(Up)
	s.ZoomIn()
	s.ZoomIn()
	if got := s.Transform(); got != "translate(10px, -10px) scale(1.2)" {
		t.Errorf("unexpected transform %q", got)
	}

	if !s.Flip() {
		t.Fatal("expected flip to turn mirroring on")
	}
	if got := s.VideoTransform(); got != "scaleX(-1)" {
		t.Errorf("unexpected mirrored transform %q", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"up", Up},
		{"ArrowDown", Down},
		{"LEFT", Left},
		{"ArrowRight", Right},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("expected an error for an unknown direction")
	}
}

func TestSelectDress(t *testing.T) {
	s := New(Options{})
	if got := s.Snapshot().Dress; got != -1 {
		t.Fatalf("expected no dress selected, got %d", got)
	}
	if err := s.SelectDress(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SelectDress(3, 3); !errors.Is(err, ErrNoSuchDress) {
		t.Errorf("expected ErrNoSuchDress, got %v", err)
	}
	if got := s.Snapshot().Dress; got != 2 {
		t.Errorf("failed selection must keep the previous dress, got %d", got)
	}
}

func TestCaptureName(t *testing.T) {
	s := New(Options{})
	ts := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

	if got := s.CaptureName(ts); got != "tryon-20261019-150405.png" {
		t.Errorf("unexpected capture name %q", got)
	}
	s.CaptureName(ts)
	if got := s.Snapshot().Captures; got != 2 {
		t.Errorf("expected 2 captures, got %d", got)
	}
}

func TestToggles(t *testing.T) {
	s := New(Options{Effect: "portrait"})
	if !s.ToggleKeypoints() || s.ToggleKeypoints() {
		t.Error("keypoints toggle must alternate")
	}
	if got := s.Snapshot().Effect; got != "portrait" {
		t.Errorf("expected effect option to be kept, got %q", got)
	}
	s.SetEffect("sketch")
	if got := s.Snapshot().Effect; got != "sketch" {
		t.Errorf("expected sketch effect, got %q", got)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(150, MinTransparency, MaxTransparency); got != 100 {
		t.Errorf("clamp(150) = %d, want 100", got)
	}
	if got := clamp(-3, MinTransparency, MaxTransparency); got != 0 {
		t.Errorf("clamp(-3) = %d, want 0", got)
	}
	if got := clamp(0.2, MinZoom, MaxZoom); got != MinZoom {
		t.Errorf("clamp(0.2) = %v, want %v", got, MinZoom)
	}
	if got := clamp(1.5, MinZoom, MaxZoom); got != 1.5 {
		t.Errorf("clamp(1.5) = %v, want 1.5", got)
	}
}

func TestCloseWhileRequestPending(t *testing.T) {
	s := New(Options{})
	if err := s.BeginCameraRequest(); err != nil {
		t.Fatal(err)
	}

	s.Close()

	if err := s.CameraGranted(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on grant, got %v", err)
	}
	if err := s.CameraDenied(errors.New("denied")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on deny, got %v", err)
	}
	if err := s.BeginCameraRequest(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on a new request, got %v", err)
	}
	if got := s.Camera(); got != Idle {
		t.Errorf("expected the camera to be idle, got %s", got)
	}
	if s.CameraStopped() {
		t.Error("expected no running stream to stop")
	}
}
