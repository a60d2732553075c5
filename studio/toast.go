//go:build js && wasm

package studio

import "syscall/js"

// ToastKind selects the styling of a notification.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

const toastTimeout = 3000 // ms

// Toast shows a short lived notification in the #toasts container.
func (c *Canvas) Toast(kind ToastKind, msg string) {
	if c.toasts.IsNull() {
		c.Log(msg)
		return
	}
	el := c.doc.Call("createElement", "div")
	el.Set("className", "toast "+string(kind))
	el.Set("textContent", msg)
	c.toasts.Call("appendChild", el)

	var remove js.Func
	remove = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		el.Call("remove")
		remove.Release()
		return nil
	})
	c.window.Call("setTimeout", remove, toastTimeout)
}
