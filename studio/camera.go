//go:build js && wasm

package studio

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/esimov/pigo-tryon/session"
)

// ErrNoCamera is returned when the browser exposes no media devices at all.
var ErrNoCamera = errors.New("camera API not available")

// StartWebcam asks for the camera and feeds the stream into the video element.
// Only one permission request can be in flight; a concurrent call returns
// session.ErrRequestPending.
func (c *Canvas) StartWebcam() (*Canvas, error) {
	if err := c.session.BeginCameraRequest(); err != nil {
		return nil, err
	}
	c.apply()

	stream, err := c.getUserMedia()
	if err != nil {
		if errors.Is(c.session.CameraDenied(err), session.ErrClosed) {
			return nil, session.ErrClosed
		}
		c.apply()
		c.Log(fmt.Sprintf("Error accessing camera: %v", err))
		c.Toast(ToastError, "Could not access camera. Please check permissions.")
		return nil, err
	}

	// The page may have been torn down while the permission prompt was open.
	select {
	case <-c.done:
		stopTracks(stream)
		return nil, session.ErrClosed
	default:
	}
	if err := c.session.CameraGranted(); err != nil {
		stopTracks(stream)
		return nil, err
	}

	c.stream = stream
	c.video.Set("srcObject", stream)
	c.video.Call("play")
	c.apply()
	c.Toast(ToastSuccess, "Camera initialized successfully!")
	return c, nil
}

// getUserMedia wraps the `navigator.mediaDevices.getUserMedia` promise and waits for it.
func (c *Canvas) getUserMedia() (js.Value, error) {
	devices := c.navigator.Get("mediaDevices")
	if devices.IsUndefined() || devices.Get("getUserMedia").IsUndefined() {
		return js.Value{}, ErrNoCamera
	}

	c.succCh = make(chan js.Value, 1)
	c.errCh = make(chan error, 1)

	success := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.succCh <- args[0]
		return nil
	})
	defer success.Release()

	failure := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.errCh <- fmt.Errorf("failed initialising the camera: %s", args[0].Call("toString").String())
		return nil
	})
	defer failure.Release()

	opts := js.Global().Get("Object").New()

	videoSize := js.Global().Get("Object").New()
	videoSize.Set("width", c.windowSize.width)
	videoSize.Set("height", c.windowSize.height)
	videoSize.Set("facingMode", "user")

	opts.Set("video", videoSize)
	opts.Set("audio", false)

	promise := devices.Call("getUserMedia", opts)
	promise.Call("then", success, failure)

	select {
	case stream := <-c.succCh:
		return stream, nil
	case err := <-c.errCh:
		return js.Value{}, err
	}
}

// StopWebcam stops every track of the current stream and detaches it from the video.
func (c *Canvas) StopWebcam() {
	if c.stream.Truthy() {
		stopTracks(c.stream)
	}
	c.stream = js.Value{}
	c.video.Set("srcObject", js.Null())

	if c.session.CameraStopped() {
		c.apply()
	}
}

func stopTracks(stream js.Value) {
	tracks := stream.Call("getTracks")
	for i := 0; i < tracks.Length(); i++ {
		tracks.Index(i).Call("stop")
	}
}

// ToggleWebcam restarts the camera: the running stream is stopped and a new one requested.
func (c *Canvas) ToggleWebcam() error {
	if c.session.Camera() == session.Loading {
		return session.ErrRequestPending
	}
	c.StopWebcam()
	_, err := c.StartWebcam()
	return err
}
