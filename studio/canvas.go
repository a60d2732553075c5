//go:build js && wasm

// Package studio drives the try-on page in the browser: it owns the camera stream,
// mirrors the session state into the DOM and captures frames.
package studio

import (
	"sync"
	"syscall/js"

	"github.com/esimov/pigo-tryon/detector"
	"github.com/esimov/pigo-tryon/session"
)

// Canvas struct holds the Javascript objects needed by the try-on page.
type Canvas struct {
	done     chan struct{}
	stopOnce sync.Once
	succCh   chan js.Value
	errCh    chan error

	// DOM elements
	window       js.Value
	doc          js.Value
	body         js.Value
	stage        js.Value
	prompt       js.Value
	loading      js.Value
	slider       js.Value
	opacityLabel js.Value
	effectSel    js.Value
	toasts       js.Value
	windowSize   struct{ width, height int }

	// Canvas properties
	overlay  js.Value
	ctx      js.Value
	frame    js.Value
	frameCtx js.Value
	reqID    js.Value
	renderer js.Func
	handlers []js.Func

	// Webcam properties
	navigator js.Value
	video     js.Value
	stream    js.Value

	session  *session.Session
	detector *detector.Detector

	mu          sync.Mutex
	lastCapture []byte
}

// NewCanvas binds to the server rendered try-on page and creates the video and
// overlay elements inside the stage.
func NewCanvas() *Canvas {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")
	c.navigator = c.window.Get("navigator")

	c.windowSize.width = 640
	c.windowSize.height = 480

	c.stage = c.byID("stage")
	c.prompt = c.byID("prompt")
	c.loading = c.byID("loading")
	c.slider = c.byID("transparency")
	c.opacityLabel = c.byID("opacity-label")
	c.effectSel = c.byID("effect")
	c.toasts = c.byID("toasts")

	if c.stage.IsNull() {
		// Running outside of the try-on page: fall back to a bare stage.
		c.stage = c.doc.Call("createElement", "div")
		c.stage.Set("id", "stage")
		c.body.Call("appendChild", c.stage)
	}

	c.video = c.doc.Call("createElement", "video")
	// If we don't do this, the stream will not be played.
	c.video.Set("autoplay", true)
	c.video.Set("playsInline", true) // important for iPhones
	c.video.Set("muted", true)
	c.stage.Call("prepend", c.video)

	c.overlay = c.doc.Call("createElement", "canvas")
	c.overlay.Set("width", c.windowSize.width)
	c.overlay.Set("height", c.windowSize.height)
	c.overlay.Set("id", "keypoints")
	c.video.Call("after", c.overlay)
	c.ctx = c.overlay.Call("getContext", "2d")

	// Offscreen canvas used to read back the video pixels.
	c.frame = c.doc.Call("createElement", "canvas")
	c.frame.Set("width", c.windowSize.width)
	c.frame.Set("height", c.windowSize.height)
	c.frameCtx = c.frame.Call("getContext", "2d", map[string]interface{}{"willReadFrequently": true})

	c.session = session.New(session.Options{})
	c.detector = detector.NewDetector()

	c.done = make(chan struct{})
	c.bindControls()
	c.apply()
	return &c
}

func (c *Canvas) byID(id string) js.Value {
	return c.doc.Call("getElementById", id)
}

// apply mirrors the session state into the DOM.
func (c *Canvas) apply() {
	snap := c.session.Snapshot()

	c.stage.Get("style").Set("transform", c.session.Transform())
	videoTransform := c.session.VideoTransform()
	c.video.Get("style").Set("transform", videoTransform)
	c.overlay.Get("style").Set("transform", videoTransform)
	c.video.Get("style").Set("opacity", c.session.Opacity())

	if !c.opacityLabel.IsNull() {
		c.opacityLabel.Set("textContent", snap.Transparency)
	}
	if !c.slider.IsNull() {
		c.slider.Set("value", snap.Transparency)
	}
	if !c.prompt.IsNull() {
		c.prompt.Set("hidden", !c.session.PromptVisible())
	}
	if !c.loading.IsNull() {
		c.loading.Set("hidden", snap.Camera != session.Loading)
	}
	if !snap.Keypoints {
		c.ctx.Call("clearRect", 0, 0, c.overlay.Get("width").Int(), c.overlay.Get("height").Int())
	}
}

// Stop stops the rendering and the camera, and releases the event handlers.
func (c *Canvas) Stop() {
	c.stopOnce.Do(func() {
		c.window.Call("cancelAnimationFrame", c.reqID)
		c.StopWebcam()
		c.session.Close()
		for _, fn := range c.handlers {
			fn.Release()
		}
		close(c.done)
	})
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(args ...interface{}) {
	alert := c.window.Get("alert")
	alert.Invoke(args...)
}
