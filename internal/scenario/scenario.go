// Package scenario describes scripted windowing sessions in YAML or TOML
// and replays them against a mock container.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	virtual "github.com/grindlemire/go-virtual"
)

// ErrUnknownFormat is returned for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("scenario: unknown file format")

// Format names a scenario file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Scenario is one scripted session: a container, the item kinds shown in it,
// the initial items and a list of steps.
type Scenario struct {
	Name      string    `yaml:"name" toml:"name"`
	Container Container `yaml:"container" toml:"container"`
	// Manual stacks items at fixed rectangles instead of flowing them.
	Manual bool    `yaml:"manual" toml:"manual"`
	Kinds  []Kind  `yaml:"kinds" toml:"kinds"`
	Items  []Group `yaml:"items" toml:"items"`
	Steps  []Step  `yaml:"steps" toml:"steps"`
}

// Container is the viewport of the mock container.
type Container struct {
	Width   int `yaml:"width" toml:"width"`
	Height  int `yaml:"height" toml:"height"`
	Padding Box `yaml:"padding" toml:"padding"`
}

// Box is a four-sided spacing.
type Box struct {
	Top    int `yaml:"top" toml:"top"`
	Right  int `yaml:"right" toml:"right"`
	Bottom int `yaml:"bottom" toml:"bottom"`
	Left   int `yaml:"left" toml:"left"`
}

// Edges converts the box to engine edges.
func (b Box) Edges() virtual.Edges {
	return virtual.EdgeTRBL(b.Top, b.Right, b.Bottom, b.Left)
}

// Kind describes how elements of one kind are styled and sized.
type Kind struct {
	Name   string `yaml:"name" toml:"name"`
	Inline bool   `yaml:"inline" toml:"inline"`
	Margin Box    `yaml:"margin" toml:"margin"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	// Heights, when set, overrides Height and is cycled over the items of
	// the kind in data order.
	Heights []int `yaml:"heights,omitempty" toml:"heights,omitempty"`
}

// sizeAt returns the natural size of the n-th item of the kind.
func (k Kind) sizeAt(n int) virtual.Size {
	h := k.Height
	if len(k.Heights) > 0 {
		h = k.Heights[n%len(k.Heights)]
	}
	return virtual.Size{Width: k.Width, Height: h}
}

// Group adds Count items of one kind. Keys are Prefix followed by a
// counter; Prefix defaults to the kind name.
type Group struct {
	Kind   string `yaml:"kind" toml:"kind"`
	Count  int    `yaml:"count" toml:"count"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// Step is one scripted event. Exactly one field is set.
type Step struct {
	Scroll     *int          `yaml:"scroll,omitempty" toml:"scroll,omitempty"`
	Resize     *Size         `yaml:"resize,omitempty" toml:"resize,omitempty"`
	ScrollTo   *ScrollTarget `yaml:"scroll_to,omitempty" toml:"scroll_to,omitempty"`
	Focus      string        `yaml:"focus,omitempty" toml:"focus,omitempty"`
	Blur       bool          `yaml:"blur,omitempty" toml:"blur,omitempty"`
	Remove     []string      `yaml:"remove,omitempty" toml:"remove,omitempty"`
	Append     *Group        `yaml:"append,omitempty" toml:"append,omitempty"`
	ResizeItem *ItemSize     `yaml:"resize_item,omitempty" toml:"resize_item,omitempty"`
}

// Size is a width and height.
type Size struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// ScrollTarget scrolls an item into view.
type ScrollTarget struct {
	Key      string  `yaml:"key" toml:"key"`
	Position float64 `yaml:"position" toml:"position"`
}

// ItemSize changes the natural size of one item.
type ItemSize struct {
	Key    string `yaml:"key" toml:"key"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// Action names the event a step performs.
func (s Step) Action() string {
	switch {
	case s.Scroll != nil:
		return fmt.Sprintf("scroll %d", *s.Scroll)
	case s.Resize != nil:
		return fmt.Sprintf("resize %dx%d", s.Resize.Width, s.Resize.Height)
	case s.ScrollTo != nil:
		return fmt.Sprintf("scroll_to %s@%.2f", s.ScrollTo.Key, s.ScrollTo.Position)
	case s.Focus != "":
		return "focus " + s.Focus
	case s.Blur:
		return "blur"
	case len(s.Remove) > 0:
		return "remove " + strings.Join(s.Remove, ",")
	case s.Append != nil:
		return fmt.Sprintf("append %d %s", s.Append.Count, s.Append.Kind)
	case s.ResizeItem != nil:
		return fmt.Sprintf("resize_item %s %dx%d", s.ResizeItem.Key, s.ResizeItem.Width, s.ResizeItem.Height)
	}
	return ""
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Scroll != nil, s.Resize != nil, s.ScrollTo != nil, s.Focus != "",
		s.Blur, len(s.Remove) > 0, s.Append != nil, s.ResizeItem != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Load reads a scenario file. The format follows the file extension.
func Load(path string) (*Scenario, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Scenario, error) {
	var s Scenario
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode writes the scenario back out in the given format.
func Encode(s *Scenario, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Validate checks that the scenario can be run.
func (s *Scenario) Validate() error {
	if s.Container.Width <= 0 || s.Container.Height <= 0 {
		return fmt.Errorf("container size must be positive, got %dx%d", s.Container.Width, s.Container.Height)
	}

	kinds := make(map[string]bool, len(s.Kinds))
	for _, k := range s.Kinds {
		if k.Name == "" {
			return errors.New("kind without a name")
		}
		if kinds[k.Name] {
			return fmt.Errorf("kind %q defined twice", k.Name)
		}
		kinds[k.Name] = true
	}

	checkGroup := func(g Group) error {
		if !kinds[g.Kind] {
			return fmt.Errorf("items reference unknown kind %q", g.Kind)
		}
		if g.Count < 0 {
			return fmt.Errorf("items of kind %q have a negative count", g.Kind)
		}
		return nil
	}
	for _, g := range s.Items {
		if err := checkGroup(g); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("step %d must set exactly one action, has %d", i+1, n)
		}
		if step.Append != nil {
			if err := checkGroup(*step.Append); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}
