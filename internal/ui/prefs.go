// Package ui holds presentation preferences shared by the terminal and
// desktop front ends.
package ui

import (
	"fmt"
	"math"

	"github.com/metcalfc/folio/internal/config"
)

// ScaleStep is the increment applied by Increase and Decrease.
const ScaleStep = 0.1

// Prefs is the viewer's theme and text scale.
type Prefs struct {
	Dark  bool
	Scale float64
}

// NewPrefs returns preferences from config, clamping the scale.
func NewPrefs(cfg *config.Config) Prefs {
	p := Prefs{Dark: cfg.Theme != config.ThemeLight, Scale: cfg.Scale}
	p.Scale = clampScale(p.Scale)
	return p
}

// ToggleTheme switches between dark and light.
func (p *Prefs) ToggleTheme() {
	p.Dark = !p.Dark
}

// Increase grows the scale by one step. It reports whether anything changed.
func (p *Prefs) Increase() bool {
	if p.Scale >= config.MaxScale-1e-9 {
		return false
	}
	p.Scale = clampScale(round(p.Scale + ScaleStep))
	return true
}

// Decrease shrinks the scale by one step. It reports whether anything changed.
func (p *Prefs) Decrease() bool {
	if p.Scale <= config.MinScale+1e-9 {
		return false
	}
	p.Scale = clampScale(round(p.Scale - ScaleStep))
	return true
}

// Theme returns the theme name.
func (p Prefs) Theme() string {
	if p.Dark {
		return config.ThemeDark
	}
	return config.ThemeLight
}

// Percent is the scale as a whole percentage, e.g. "120%".
func (p Prefs) Percent() string {
	return fmt.Sprintf("%d%%", int(math.Round(p.Scale*100)))
}

// Width scales a base width, never going below floor.
func (p Prefs) Width(base, floor int) int {
	return max(floor, int(math.Round(float64(base)/p.Scale)))
}

func round(f float64) float64 {
	return math.Round(f*10) / 10
}

func clampScale(s float64) float64 {
	if s == 0 {
		return config.DefaultScale
	}
	return math.Min(config.MaxScale, math.Max(config.MinScale, s))
}
