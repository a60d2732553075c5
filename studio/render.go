//go:build js && wasm

package studio

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"syscall/js"

	"github.com/esimov/pigo-tryon/detector"
	"github.com/esimov/pigo-tryon/pixels"
	"github.com/esimov/pigo-tryon/session"
	pigo "github.com/esimov/pigo/core"
)

// Render calls the `requestAnimationFrame` Javascript function in asynchronous mode.
// It blocks until Stop is called.
func (c *Canvas) Render() error {
	size := image.Pt(c.windowSize.width, c.windowSize.height)
	data := make([]byte, size.X*size.Y*4)

	go func() {
		if err := c.loadCascades(); err != nil {
			c.Log(fmt.Sprintf("keypoints disabled: %v", err))
		}
	}()

	var busy int32
	c.renderer = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.reqID = c.window.Call("requestAnimationFrame", c.renderer)

		snap := c.session.Snapshot()
		if !snap.Keypoints || snap.Camera != session.Active || !c.detector.Ready() {
			return nil
		}
		// Skip the frame while the previous detection is still running.
		if !atomic.CompareAndSwapInt32(&busy, 0, 1) {
			return nil
		}
		// Follow the real video size so the boxes keep the video's aspect ratio.
		want := frameSize(c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int(), size)
		if want != size {
			size = want
			data = make([]byte, size.X*size.Y*4)
			c.resize(size)
		}
		width, height, buf := size.X, size.Y, data

		go func() {
			defer atomic.StoreInt32(&busy, 0)

			// Draw the webcam frame to the offscreen canvas.
			c.frameCtx.Call("drawImage", c.video, 0, 0, width, height)
			rgba := c.frameCtx.Call("getImageData", 0, 0, width, height).Get("data")

			// Convert the rgba value of type Uint8ClampedArray to Uint8Array in order to
			// be able to transfer it from Javascript to Go via the js.CopyBytesToGo function.
			uint8Arr := js.Global().Get("Uint8Array").New(rgba.Get("buffer"))
			js.CopyBytesToGo(buf, uint8Arr)
			gray := pixels.RgbaToGrayscale(buf, height, width)

			faces, err := c.detector.DetectFaces(gray, height, width)
			if err != nil {
				c.Log(fmt.Sprint(err))
				return
			}
			c.drawKeypoints(gray, width, height, faces)
		}()
		return nil
	})
	// Release renderer to free up resources.
	defer c.renderer.Release()

	c.window.Call("requestAnimationFrame", c.renderer)
	<-c.done

	return nil
}

// resize matches the offscreen frame and the overlay to the detection size.
func (c *Canvas) resize(size image.Point) {
	c.frame.Set("width", size.X)
	c.frame.Set("height", size.Y)
	c.overlay.Set("width", size.X)
	c.overlay.Set("height", size.Y)
}

// drawKeypoints draws the detected face regions and pupils on the overlay canvas.
func (c *Canvas) drawKeypoints(gray []uint8, width, height int, faces []detector.Face) {
	c.ctx.Call("clearRect", 0, 0, width, height)
	if !c.session.Snapshot().Keypoints {
		return
	}
	c.ctx.Call("beginPath")
	c.ctx.Set("lineWidth", 2)
	c.ctx.Set("strokeStyle", "rgba(233, 69, 96, 0.8)")

	for _, f := range faces {
		c.ctx.Call("rect", f.Col-f.Scale/2, f.Row-f.Scale/2, f.Scale, f.Scale)

		left, right := c.detector.DetectPupils(gray, height, width, f)
		for _, p := range []*pigo.Puploc{left, right} {
			if p == nil {
				continue
			}
			col, row, scale := float64(p.Col), float64(p.Row), float64(p.Scale)/8
			c.ctx.Call("moveTo", col+scale, row)
			c.ctx.Call("arc", col, row, scale, 0, 2*math.Pi, true)
		}
	}
	c.ctx.Call("stroke")
}
