package studio

import "image"

// maxFrameWidth caps the detection frame. Larger videos are scaled down with
// their aspect ratio kept.
const maxFrameWidth = 640

// frameSize returns the detection frame size for a video of w x h pixels.
// Before the video metadata is known both are zero and def is used.
func frameSize(w, h int, def image.Point) image.Point {
	if w <= 0 || h <= 0 {
		return def
	}
	if w > maxFrameWidth {
		h = h * maxFrameWidth / w
		w = maxFrameWidth
	}
	return image.Pt(w, max(h, 1))
}
