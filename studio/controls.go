//go:build js && wasm

package studio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"syscall/js"
	"time"

	"github.com/esimov/pigo-tryon/effects"
	"github.com/esimov/pigo-tryon/session"
)

const actionTimeout = 30 * time.Second

// on registers an event listener and keeps the handler for Stop to release.
func (c *Canvas) on(target js.Value, event string, fn func(js.Value)) {
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn(args[0])
		return nil
	})
	c.handlers = append(c.handlers, handler)
	target.Call("addEventListener", event, handler)
}

// bindControls wires the page buttons, the transparency slider, the effect selector
// and the keyboard shortcuts to the session.
func (c *Canvas) bindControls() {
	c.on(c.doc, "click", func(e js.Value) {
		target := e.Get("target").Call("closest", "[data-action], [data-dress]")
		if target.IsNull() {
			return
		}
		if idx := target.Get("dataset").Get("dress"); !idx.IsUndefined() {
			c.selectDress(target, idx.String())
			return
		}
		dataset := target.Get("dataset")
		direction := ""
		if d := dataset.Get("direction"); !d.IsUndefined() {
			direction = d.String()
		}
		c.dispatch(dataset.Get("action").String(), direction)
	})

	if !c.slider.IsNull() {
		c.on(c.slider, "input", func(e js.Value) {
			v, err := strconv.Atoi(e.Get("target").Get("value").String())
			if err != nil {
				return
			}
			c.session.SetTransparency(v)
			c.apply()
		})
	}

	if !c.effectSel.IsNull() {
		c.on(c.effectSel, "change", func(e js.Value) {
			name := e.Get("target").Get("value").String()
			effect, err := effects.Parse(name)
			if err != nil {
				c.Toast(ToastError, err.Error())
				return
			}
			c.session.SetEffect(string(effect))
		})
	}

	c.on(c.doc, "keydown", c.keyDown)
	c.on(c.window, "pagehide", func(js.Value) { c.Stop() })
}

// dispatch runs a control action. Actions that wait on browser promises run in their
// own goroutine so the event callback returns immediately.
func (c *Canvas) dispatch(action, direction string) {
	switch action {
	case "enable":
		go func() {
			if _, err := c.StartWebcam(); err != nil && !errors.Is(err, session.ErrRequestPending) {
				c.Log(fmt.Sprint(err))
			}
		}()
		return
	case "toggle":
		go func() {
			if err := c.ToggleWebcam(); err != nil && !errors.Is(err, session.ErrRequestPending) {
				c.Log(fmt.Sprint(err))
			}
		}()
		return
	case "capture":
		go c.run("capture", c.Capture)
		return
	case "share":
		go c.run("share", c.Share)
		return
	case "move":
		d, err := session.ParseDirection(direction)
		if err != nil {
			c.Log(err.Error())
			return
		}
		c.session.Move(d)
	case "reset":
		c.session.ResetPosition()
		c.Toast(ToastInfo, "Resetting position...")
	case "zoom-in":
		c.session.ZoomIn()
	case "zoom-out":
		c.session.ZoomOut()
	case "flip":
		c.session.Flip()
	case "keypoints":
		if c.session.ToggleKeypoints() && !c.detector.Ready() {
			c.Toast(ToastInfo, "Loading face keypoints...")
			go func() {
				if err := c.loadCascades(); err != nil {
					c.Toast(ToastError, "Face keypoints are not available.")
					c.Log(fmt.Sprint(err))
				}
			}()
		}
	default:
		return
	}
	c.apply()
}

func (c *Canvas) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		c.Log(fmt.Sprintf("%s: %v", name, err))
		if errors.Is(err, ErrCameraInactive) {
			c.Toast(ToastError, "Enable the camera first.")
			return
		}
		c.Toast(ToastError, fmt.Sprintf("Could not %s the picture.", name))
	}
}

func (c *Canvas) selectDress(target js.Value, idx string) {
	buttons := c.doc.Call("querySelectorAll", "[data-dress]")
	i, err := strconv.Atoi(idx)
	if err != nil {
		return
	}
	if err := c.session.SelectDress(i, buttons.Length()); err != nil {
		c.Log(err.Error())
		return
	}
	for j := 0; j < buttons.Length(); j++ {
		buttons.Index(j).Get("classList").Call("toggle", "selected", j == i)
	}
	c.Toast(ToastSuccess, "Selected: "+target.Get("dataset").Get("name").String())
}

// keyDown maps the keyboard shortcuts to control actions.
func (c *Canvas) keyDown(e js.Value) {
	switch e.Get("target").Get("tagName").String() {
	case "INPUT", "SELECT", "TEXTAREA":
		return
	}
	key := e.Get("key").String()
	switch key {
	case "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight":
		e.Call("preventDefault")
		c.dispatch("move", key)
	case "r":
		c.dispatch("reset", "")
	case "+", "=":
		c.dispatch("zoom-in", "")
	case "-":
		c.dispatch("zoom-out", "")
	case "m":
		c.dispatch("flip", "")
	case "k":
		c.dispatch("keypoints", "")
	case "c":
		c.dispatch("capture", "")
	}
}
