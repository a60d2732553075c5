//go:build js && wasm

package studio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"syscall/js"
)

// resolve turns a site relative path into an absolute URL based on the page location.
func (c *Canvas) resolve(path string) (string, error) {
	href := js.Global().Get("location").Get("href")
	base, err := url.Parse(href.String())
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// fetchBytes loads a binary resource served by the site.
func (c *Canvas) fetchBytes(path string) ([]byte, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// postJSON posts a body and decodes the JSON response into v.
func (c *Canvas) postJSON(path, contentType string, body []byte, v interface{}) error {
	u, err := c.resolve(path)
	if err != nil {
		return err
	}
	resp, err := http.Post(u, contentType, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("posting %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// loadCascades fetches and unpacks the pigo cascades served from the static directory.
func (c *Canvas) loadCascades() error {
	if c.detector.Ready() {
		return nil
	}
	face, err := c.fetchBytes("/static/cascade/facefinder")
	if err != nil {
		return err
	}
	puploc, err := c.fetchBytes("/static/cascade/puploc")
	if err != nil {
		return err
	}
	return c.detector.UnpackCascades(face, puploc)
}
