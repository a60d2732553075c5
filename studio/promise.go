package studio

// PromiseError is the rejection reason of a browser promise, split into the
// DOMException name and message.
type PromiseError struct {
	Name    string
	Message string
}

func (e *PromiseError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// Canceled reports whether the user dismissed the browser dialog.
func (e *PromiseError) Canceled() bool {
	return e.Name == "AbortError"
}
