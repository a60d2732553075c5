// Package detector wraps the pigo face and pupil localization cascades.
package detector

import (
	"errors"
	"fmt"
	"image"
	"sync"

	pigo "github.com/esimov/pigo/core"
)

// MinQuality is the detection score under which a face is discarded.
const MinQuality = 5.0

// ErrNotReady is returned when detection is requested before the cascades are unpacked.
var ErrNotReady = errors.New("detector cascades not unpacked")

// Face is a detected face region centered on (Col, Row) with a square side of Scale.
type Face struct {
	Row, Col, Scale int
	Q               float32
}

// Rect returns the square region covered by the face.
func (f Face) Rect() image.Rectangle {
	return image.Rect(f.Col-f.Scale/2, f.Row-f.Scale/2, f.Col+f.Scale/2, f.Row+f.Scale/2)
}

// Detector holds the unpacked face and pupil cascades.
type Detector struct {
	mu     sync.RWMutex
	face   *pigo.Pigo
	puploc *pigo.PuplocCascade

	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64
}

// NewDetector creates a detector with the parameters used for a 640x480 webcam feed.
func NewDetector() *Detector {
	return &Detector{
		MinSize:     100,
		MaxSize:     600,
		ShiftFactor: 0.15,
		ScaleFactor: 1.1,
		IoU:         0.2,
	}
}

// UnpackCascades unpacks the binary face finder and pupil localization cascades.
func (d *Detector) UnpackCascades(face, puploc []byte) error {
	p := pigo.NewPigo()
	classifier, err := p.Unpack(face)
	if err != nil {
		return fmt.Errorf("unpacking face cascade: %w", err)
	}

	pl := pigo.NewPuplocCascade()
	plc, err := pl.UnpackCascade(puploc)
	if err != nil {
		return fmt.Errorf("unpacking puploc cascade: %w", err)
	}

	d.mu.Lock()
	d.face, d.puploc = classifier, plc
	d.mu.Unlock()
	return nil
}

// Ready reports whether the cascades are unpacked.
func (d *Detector) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.face != nil && d.puploc != nil
}

func (d *Detector) imageParams(gray []uint8, rows, cols int) pigo.ImageParams {
	return pigo.ImageParams{
		Pixels: gray,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
}

// DetectFaces runs the face cascade over a grayscale frame.
func (d *Detector) DetectFaces(gray []uint8, rows, cols int) ([]Face, error) {
	d.mu.RLock()
	classifier := d.face
	d.mu.RUnlock()
	if classifier == nil {
		return nil, ErrNotReady
	}
	if len(gray) < rows*cols {
		return nil, fmt.Errorf("frame buffer too small: %d < %d", len(gray), rows*cols)
	}

	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: d.imageParams(gray, rows, cols),
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := classifier.RunCascade(cParams, 0.0)

	// Calculate the intersection over union (IoU) of two clusters.
	dets = classifier.ClusterDetections(dets, d.IoU)
	return filterFaces(dets, MinQuality), nil
}

func filterFaces(dets []pigo.Detection, minQ float32) []Face {
	faces := make([]Face, 0, len(dets))
	for _, det := range dets {
		if det.Q > minQ {
			faces = append(faces, Face{Row: det.Row, Col: det.Col, Scale: det.Scale, Q: det.Q})
		}
	}
	return faces
}

// DetectPupils localizes the pupils inside a detected face. Either result may be nil.
func (d *Detector) DetectPupils(gray []uint8, rows, cols int, f Face) (left, right *pigo.Puploc) {
	d.mu.RLock()
	plc := d.puploc
	d.mu.RUnlock()
	if plc == nil {
		return nil, nil
	}
	imgParams := d.imageParams(gray, rows, cols)

	// Left eye
	puploc := &pigo.Puploc{
		Row:      f.Row - int(0.085*float32(f.Scale)),
		Col:      f.Col - int(0.185*float32(f.Scale)),
		Scale:    float32(f.Scale) * 0.4,
		Perturbs: 63,
	}
	left = validPupil(plc.RunDetector(*puploc, imgParams, 0.0, false))

	// Right eye
	puploc = &pigo.Puploc{
		Row:      f.Row - int(0.085*float32(f.Scale)),
		Col:      f.Col + int(0.185*float32(f.Scale)),
		Scale:    float32(f.Scale) * 0.4,
		Perturbs: 63,
	}
	right = validPupil(plc.RunDetector(*puploc, imgParams, 0.0, false))
	return left, right
}

func validPupil(p *pigo.Puploc) *pigo.Puploc {
	if p == nil || p.Row <= 0 || p.Col <= 0 {
		return nil
	}
	return p
}
