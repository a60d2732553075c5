package detector

import (
	"errors"
	"image"
	"testing"

	pigo "github.com/esimov/pigo/core"
)

func TestDetectBeforeUnpack(t *testing.T) {
	d := NewDetector()
	if d.Ready() {
		t.Fatal("new detector must not be ready")
	}

	_, err := d.DetectFaces(make([]uint8, 16), 4, 4)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	left, right := d.DetectPupils(make([]uint8, 16), 4, 4, Face{Row: 2, Col: 2, Scale: 2})
	if left != nil || right != nil {
		t.Error("expected no pupils without cascades")
	}
}

func TestFilterFaces(t *testing.T) {
	dets := []pigo.Detection{
		{Row: 100, Col: 120, Scale: 80, Q: 12.5},
		{Row: 10, Col: 10, Scale: 20, Q: 2},
		{Row: 200, Col: 300, Scale: 60, Q: MinQuality},
	}
	faces := filterFaces(dets, MinQuality)

	if len(faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(faces))
	}
	if faces[0].Row != 100 || faces[0].Col != 120 || faces[0].Scale != 80 {
		t.Errorf("unexpected face %+v", faces[0])
	}
}

func TestFaceRect(t *testing.T) {
	f := Face{Row: 100, Col: 200, Scale: 60}
	if got := f.Rect(); got != image.Rect(170, 70, 230, 130) {
		t.Errorf("unexpected rect %v", got)
	}
}

func TestValidPupil(t *testing.T) {
	if validPupil(nil) != nil {
		t.Error("nil pupil must stay nil")
	}
	if validPupil(&pigo.Puploc{Row: -1, Col: 10}) != nil {
		t.Error("pupil outside the frame must be dropped")
	}
	if validPupil(&pigo.Puploc{Row: 5, Col: 10}) == nil {
		t.Error("expected a valid pupil")
	}
}
