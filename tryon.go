//go:build js && wasm

package main

import (
	"fmt"

	"github.com/esimov/pigo-tryon/studio"
)

func main() {
	c := studio.NewCanvas()
	if _, err := c.StartWebcam(); err != nil {
		// The page shows the "Enable Camera" prompt, the user can retry from there.
		c.Log(fmt.Sprint(err))
	}
	if err := c.Render(); err != nil {
		c.Alert(fmt.Sprint(err))
	}
}
