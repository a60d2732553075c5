// Package looks stores the try-on captures users choose to share.
package looks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 1280
	DefaultMaxBytes = 8 << 20
	// DefaultMaxPixels bounds the decoded size. A small compressed file can
	// declare a huge canvas.
	DefaultMaxPixels = 40_000_000
)

var (
	ErrTooLarge = errors.New("image too large")
	ErrNotImage = errors.New("not a PNG or JPEG image")
	ErrNotFound = errors.New("look not found")
)

// Look is a stored capture.
type Look struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// Store keeps the shared captures as PNG files in a directory.
type Store struct {
	dir       string
	MaxWidth  int
	MaxBytes  int64
	MaxPixels int
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating looks directory: %w", err)
	}
	return &Store{
		dir:       dir,
		MaxWidth:  DefaultMaxWidth,
		MaxBytes:  DefaultMaxBytes,
		MaxPixels: DefaultMaxPixels,
	}, nil
}

// Save decodes the image read from r, scales it down to MaxWidth and stores it as PNG.
func (s *Store) Save(ctx context.Context, r io.Reader) (Look, error) {
	b, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return Look{}, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(b)) > s.MaxBytes {
		return Look{}, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return Look{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return Look{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Look{}, fmt.Errorf("%w: empty image", ErrNotImage)
	}
	if s.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(s.MaxPixels) {
		return Look{}, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return Look{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img := s.fit(src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Look{}, fmt.Errorf("encoding look: %w", err)
	}

	id := uuid.NewString()
	path := s.path(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return Look{}, fmt.Errorf("writing look: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Look{}, fmt.Errorf("storing look: %w", err)
	}

	bounds := img.Bounds()
	return Look{ID: id, Width: bounds.Dx(), Height: bounds.Dy(), Size: int64(buf.Len())}, nil
}

// fit scales the image down so that its width does not exceed MaxWidth.
func (s *Store) fit(src image.Image) image.Image {
	bounds := src.Bounds()
	if s.MaxWidth <= 0 || bounds.Dx() <= s.MaxWidth {
		return src
	}
	h := bounds.Dy() * s.MaxWidth / bounds.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, s.MaxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// Open returns the stored PNG of the look with the given id.
func (s *Store) Open(id string) (io.ReadSeekCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening look: %w", err)
	}
	return f, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".png")
}
