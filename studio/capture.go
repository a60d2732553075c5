//go:build js && wasm

package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"syscall/js"
	"time"

	"github.com/esimov/pigo-tryon/effects"
	"github.com/esimov/pigo-tryon/pixels"
	"github.com/esimov/pigo-tryon/session"
)

// ErrCameraInactive is returned when a capture is requested without a running stream.
var ErrCameraInactive = errors.New("camera is not active")

// grabFrame draws the current video frame onto an in-memory canvas and returns its pixels.
func (c *Canvas) grabFrame() (*image.NRGBA, error) {
	if c.session.Camera() != session.Active {
		return nil, ErrCameraInactive
	}
	width, height := c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int()
	if width == 0 || height == 0 {
		width, height = c.windowSize.width, c.windowSize.height
	}

	canvas := c.doc.Call("createElement", "canvas")
	canvas.Set("width", width)
	canvas.Set("height", height)
	ctx := canvas.Call("getContext", "2d")
	ctx.Call("drawImage", c.video, 0, 0, width, height)

	rgba := ctx.Call("getImageData", 0, 0, width, height).Get("data")
	data := make([]byte, width*height*4)
	js.CopyBytesToGo(data, js.Global().Get("Uint8Array").New(rgba.Get("buffer")))

	return pixels.PixToImage(data, image.Rect(0, 0, width, height)), nil
}

// faceRects runs the face detector over the frame when the cascades are available.
func (c *Canvas) faceRects(img *image.NRGBA) []image.Rectangle {
	if !c.detector.Ready() {
		return nil
	}
	bounds := img.Bounds()
	gray := pixels.RgbaToGrayscale(pixels.ImgToPix(img), bounds.Dy(), bounds.Dx())

	faces, err := c.detector.DetectFaces(gray, bounds.Dy(), bounds.Dx())
	if err != nil {
		c.Log(fmt.Sprint(err))
		return nil
	}
	rects := make([]image.Rectangle, 0, len(faces))
	for _, f := range faces {
		rects = append(rects, f.Rect())
	}
	return rects
}

// snapshot grabs one frame, mirrors it like the preview and runs the selected effect.
func (c *Canvas) snapshot(ctx context.Context) ([]byte, error) {
	img, err := c.grabFrame()
	if err != nil {
		return nil, err
	}
	snap := c.session.Snapshot()
	if snap.Flipped {
		img = pixels.Mirror(img)
	}

	effect, err := effects.Parse(snap.Effect)
	if err != nil {
		return nil, err
	}
	var faces []image.Rectangle
	if effect.NeedsFaces() {
		faces = c.faceRects(img)
	}
	out, err := effects.Apply(ctx, effect, img, faces)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding capture: %w", err)
	}
	return buf.Bytes(), nil
}

// Capture takes a picture of the current frame and downloads it as a PNG file.
func (c *Canvas) Capture(ctx context.Context) error {
	b, err := c.snapshot(ctx)
	if err != nil {
		return err
	}
	name := c.session.CaptureName(time.Now())

	c.mu.Lock()
	c.lastCapture = b
	c.mu.Unlock()

	c.download(b, name)
	c.Toast(ToastSuccess, "Screenshot captured!")
	return nil
}

// download hands the bytes to the browser through a temporary blob URL.
func (c *Canvas) download(b []byte, name string) {
	url := c.blobURL(b, "image/png")
	defer js.Global().Get("URL").Call("revokeObjectURL", url)

	a := c.doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", name)
	a.Get("style").Set("display", "none")
	c.body.Call("appendChild", a)
	a.Call("click")
	a.Call("remove")
}

func (c *Canvas) blobURL(b []byte, mime string) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)

	opts := js.Global().Get("Object").New()
	opts.Set("type", mime)
	blob := js.Global().Get("Blob").New([]interface{}{arr}, opts)
	return js.Global().Get("URL").Call("createObjectURL", blob)
}

type sharedLook struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Share uploads the last capture, or a fresh one, and offers the resulting link
// through the Web Share API when the browser has it.
func (c *Canvas) Share(ctx context.Context) error {
	c.mu.Lock()
	b := c.lastCapture
	c.mu.Unlock()

	if b == nil {
		var err error
		if b, err = c.snapshot(ctx); err != nil {
			return err
		}
	}

	var look sharedLook
	if err := c.postJSON("/api/looks", "image/png", b, &look); err != nil {
		return fmt.Errorf("uploading look: %w", err)
	}
	link, err := c.resolve(look.URL)
	if err != nil {
		return err
	}

	if share := c.navigator.Get("share"); share.Type() == js.TypeFunction {
		data := js.Global().Get("Object").New()
		data.Set("title", "My virtual try-on")
		data.Set("text", "What do you think of this look?")
		data.Set("url", link)

		err := await(c.navigator.Call("share", data))
		var perr *PromiseError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &perr) && perr.Canceled():
			return nil
		}
		// A refused share sheet falls back to the clipboard link.
		c.Log(fmt.Sprint(err))
	}

	if clip := c.navigator.Get("clipboard"); clip.Truthy() {
		if err := await(clip.Call("writeText", link)); err != nil {
			c.Log(fmt.Sprint(err))
		}
	}
	c.Toast(ToastSuccess, "Ready to share your look! "+link)
	return nil
}

// await blocks until the promise settles. It must not be called from a JS callback.
func await(promise js.Value) error {
	done := make(chan error, 1)

	then := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- nil
		return nil
	})
	defer then.Release()

	catch := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- promiseError(args[0])
		return nil
	})
	defer catch.Release()

	promise.Call("then", then, catch)
	return <-done
}

// promiseError converts a rejection reason. DOMExceptions carry a name, anything
// else is reported through its string form.
func promiseError(reason js.Value) error {
	if reason.Type() == js.TypeObject && reason.Get("name").Type() == js.TypeString {
		perr := &PromiseError{Name: reason.Get("name").String()}
		if msg := reason.Get("message"); msg.Type() == js.TypeString {
			perr.Message = msg.String()
		}
		return perr
	}
	return &PromiseError{Name: "Error", Message: reason.Call("toString").String()}
}
