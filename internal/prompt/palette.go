package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ThemeANSI renders colour names with the terminal's own 16-colour palette.
const ThemeANSI = "ansi"

const (
	// ColorAlways emits escape sequences even when the output is a pipe, as in PS1='$(shellprompt prompt)'.
	ColorAlways = "always"
	// ColorAuto emits escape sequences only when the output is a terminal.
	ColorAuto = "auto"
	// ColorNever prints plain text.
	ColorNever = "never"
)

var (
	errUnknownTheme     = errors.New("unknown theme")
	errUnknownColorMode = errors.New("unknown color mode")
)

// NewRenderer builds a lipgloss renderer for writer. An empty mode means always.
func NewRenderer(writer io.Writer, mode string) (*lipgloss.Renderer, error) {
	renderer := lipgloss.NewRenderer(writer)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ColorAlways:
		renderer.SetColorProfile(termenv.TrueColor)
	case ColorAuto:
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownColorMode, mode)
	}
	return renderer, nil
}

var ansiColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"white":   "7",
}

// Palette resolves Style colour names into terminal colours.
type Palette struct {
	renderer *lipgloss.Renderer
	flavor   catppuccin.Flavor
	themed   bool
}

// NewPalette returns the palette for a theme name: ansi (or empty), latte, frappe, macchiato or mocha.
// A nil renderer falls back to lipgloss's default, which inspects os.Stdout.
func NewPalette(theme string, renderer *lipgloss.Renderer) (Palette, error) {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	palette := Palette{renderer: renderer}
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "", ThemeANSI:
		return palette, nil
	case "latte":
		palette.flavor = catppuccin.Latte
	case "frappe":
		palette.flavor = catppuccin.Frappe
	case "macchiato":
		palette.flavor = catppuccin.Macchiato
	case "mocha":
		palette.flavor = catppuccin.Mocha
	default:
		return Palette{}, fmt.Errorf("%w: %s", errUnknownTheme, theme)
	}
	palette.themed = true
	return palette, nil
}

// Color maps a colour name to a lipgloss colour.
// Hex values and ANSI numbers pass through unchanged.
func (palette Palette) Color(name string) lipgloss.TerminalColor {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return lipgloss.NoColor{}
	}
	if palette.themed {
		if hex := palette.flavorHex(normalized); hex != "" {
			return lipgloss.Color(hex)
		}
	}
	if code, known := ansiColors[normalized]; known {
		return lipgloss.Color(code)
	}
	return lipgloss.Color(normalized)
}

func (palette Palette) flavorHex(name string) string {
	switch name {
	case "black":
		return palette.flavor.Base().Hex
	case "red":
		return palette.flavor.Red().Hex
	case "green":
		return palette.flavor.Green().Hex
	case "yellow":
		return palette.flavor.Yellow().Hex
	case "blue":
		return palette.flavor.Blue().Hex
	case "magenta", "purple":
		return palette.flavor.Mauve().Hex
	case "cyan":
		return palette.flavor.Teal().Hex
	case "white":
		return palette.flavor.Text().Hex
	default:
		return ""
	}
}

// Render styles text.
func (palette Palette) Render(style Style, text string) string {
	renderer := palette.renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	return renderer.NewStyle().
		Bold(style.Bold).
		Foreground(palette.Color(style.Foreground)).
		Render(text)
}
