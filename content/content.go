// Package content holds the marketing copy of the site.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type Hero struct {
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Primary   Link   `yaml:"primary"`
	Secondary Link   `yaml:"secondary"`
}

// Item is a titled entry of the features, steps and benefits lists.
type Item struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type CTA struct {
	Title  string `yaml:"title"`
	Text   string `yaml:"text"`
	Action Link   `yaml:"action"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Dress is a catalogue entry offered on the try-on page.
type Dress struct {
	Name  string `yaml:"name" json:"name"`
	Style string `yaml:"style" json:"style"`
}

type Content struct {
	Brand    string   `yaml:"brand"`
	Nav      []Link   `yaml:"nav"`
	Hero     Hero     `yaml:"hero"`
	Features []Item   `yaml:"features"`
	Steps    []Item   `yaml:"steps"`
	Benefits []Item   `yaml:"benefits"`
	CTA      CTA      `yaml:"cta"`
	FAQ      []FAQ    `yaml:"faq"`
	Dresses  []Dress  `yaml:"dresses"`
	Topics   []string `yaml:"topics"`
}

// Default returns the content bundled with the binary.
func Default() *Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		// The embedded file is part of the build, a parse error here is a programming bug.
		panic("failed to parse embedded content.yaml: " + err.Error())
	}
	return c
}

// Load reads the content from path. An empty path returns the bundled content.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates YAML content.
func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if c.Brand == "" {
		return errors.New("content: brand is required")
	}
	if c.Hero.Title == "" {
		return errors.New("content: hero title is required")
	}
	for i, d := range c.Dresses {
		if d.Name == "" {
			return fmt.Errorf("content: dress %d has no name", i)
		}
	}
	return nil
}

// HasTopic reports whether t is one of the contact form topics.
func (c *Content) HasTopic(t string) bool {
	for _, topic := range c.Topics {
		if topic == t {
			return true
		}
	}
	return false
}
