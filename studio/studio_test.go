package studio

import (
	"errors"
	"image"
	"testing"
)

func TestFrameSize(t *testing.T) {
	def := image.Pt(640, 480)
	tests := []struct {
		w, h int
		want image.Point
	}{
		{0, 0, def},
		{640, 0, def},
		{640, 480, image.Pt(640, 480)},
		{1280, 720, image.Pt(640, 360)},
		{1920, 1080, image.Pt(640, 360)},
		{480, 640, image.Pt(480, 640)},
		{320, 180, image.Pt(320, 180)},
	}
	for _, tt := range tests {
		if got := frameSize(tt.w, tt.h, def); got != tt.want {
			t.Errorf("frameSize(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestPromiseError(t *testing.T) {
	var err error = &PromiseError{Name: "NotAllowedError", Message: "user gesture required"}
	if err.Error() != "NotAllowedError: user gesture required" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var perr *PromiseError
	if !errors.As(err, &perr) || perr.Canceled() {
		t.Error("a rejected permission must not count as a cancel")
	}
	if !(&PromiseError{Name: "AbortError"}).Canceled() {
		t.Error("expected AbortError to count as a cancel")
	}
}
