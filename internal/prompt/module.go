package prompt

import "strings"

// Segment is one named piece of text inside a Module.
type Segment struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Style is the colour and weight a Module is rendered with.
type Style struct {
	Foreground string `json:"foreground,omitempty"`
	Bold       bool   `json:"bold,omitempty"`
}

// Module is the output of one detector for one render pass.
type Module struct {
	Name     string    `json:"name"`
	Style    Style     `json:"style"`
	Segments []Segment `json:"segments"`
}

// SetStyle sets the style applied to every segment.
func (module *Module) SetStyle(style Style) {
	module.Style = style
}

// CreateSegment appends a segment after the existing ones.
func (module *Module) CreateSegment(name string, text string) {
	module.Segments = append(module.Segments, Segment{Name: name, Text: text})
}

// IsEmpty reports whether the module carries no text at all.
func (module *Module) IsEmpty() bool {
	if module == nil {
		return true
	}
	for _, segment := range module.Segments {
		if segment.Text != "" {
			return false
		}
	}
	return true
}

// Text joins the segment texts without styling.
func (module *Module) Text() string {
	if module == nil {
		return ""
	}
	builder := strings.Builder{}
	for _, segment := range module.Segments {
		builder.WriteString(segment.Text)
	}
	return builder.String()
}

// Render returns the module text styled through palette.
func (module *Module) Render(palette Palette) string {
	if module.IsEmpty() {
		return ""
	}
	return palette.Render(module.Style, module.Text())
}
