// Package theme maps the day/night setting to the two CSS colour variables the page uses.
package theme

import (
	"strings"

	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// Theme is a colour scheme name.
type Theme string

// Supported themes.
const (
	Day   Theme = "day"
	Night Theme = "night"
)

// CSS custom properties assigned by a theme.
const (
	VarLight = "--color-light"
	VarDark  = "--color-dark"
)

// ClientHintHeader carries the browser's colour scheme preference.
const ClientHintHeader = "Sec-CH-Prefers-Color-Scheme"

// Palette is a pair of RGB triplets, formatted for use inside rgb(...).
type Palette struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

var palettes = map[Theme]Palette{
	Day:   {Light: "255, 255, 255", Dark: "10, 10, 20"},
	Night: {Light: "10, 10, 20", Dark: "255, 255, 255"},
}

// Parse accepts "day" or "night", ignoring case and surrounding space.
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palettes[t]; !ok {
		return "", errors.ValidationWithDetails("invalid theme", map[string]string{
			"theme": "must be one of: day night",
		})
	}
	return t, nil
}

// Palette returns the colours for t. Unknown themes fall back to Day.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Day]
}

// Variables returns the CSS variable assignments for t.
func (t Theme) Variables() map[string]string {
	p := t.Palette()
	return map[string]string{
		VarLight: p.Light,
		VarDark:  p.Dark,
	}
}

// FromPreference picks the default theme from a dark-mode preference signal.
func FromPreference(prefersDark bool) Theme {
	if prefersDark {
		return Night
	}
	return Day
}

// FromClientHint reads a Sec-CH-Prefers-Color-Scheme value such as `"dark"`.
func FromClientHint(value string) Theme {
	value = strings.Trim(strings.TrimSpace(value), `"`)
	return FromPreference(strings.EqualFold(value, "dark"))
}

// Resolve returns the explicitly requested theme, or the preference default when
// requested is blank.
func Resolve(requested, clientHint string) (Theme, error) {
	if strings.TrimSpace(requested) == "" {
		return FromClientHint(clientHint), nil
	}
	return Parse(requested)
}
