// Package viewport holds the pan/zoom/fullscreen state of one displayed
// molecular diagram and the pure functions that turn it into a CSS transform.
package viewport

import (
	"math"
	"strconv"
)

const (
	// MinZoom and MaxZoom bound State.Zoom after every mutation.
	MinZoom = 0.1
	MaxZoom = 15.0

	// ZoomStep is the factor applied by the zoom-in/zoom-out controls.
	ZoomStep = 1.2

	// Wheel factors: scrolling down shrinks, scrolling up enlarges.
	WheelOutFactor = 0.9
	WheelInFactor  = 1.1

	// DefaultInitialZoom is the zoom restored by Reset unless configured.
	DefaultInitialZoom = 1.0
)

// State is the per-diagram viewport record. It is owned by exactly one
// displayed result and never shared.
type State struct {
	Zoom         float64 `json:"zoom"`
	PanX         float64 `json:"pan_x"`
	PanY         float64 `json:"pan_y"`
	Panning      bool    `json:"panning"`
	LastPointerX float64 `json:"-"`
	LastPointerY float64 `json:"-"`
	Fullscreen   bool    `json:"fullscreen"`
	InitialZoom  float64 `json:"initial_zoom"`
}

// New returns a State at zoom 1 with no pan.
func New() *State {
	return NewWithZoom(DefaultInitialZoom)
}

// NewWithZoom returns a State whose Reset restores initial. Out-of-range or
// non-finite values fall back to 1.
func NewWithZoom(initial float64) *State {
	if !usable(initial) || initial < MinZoom || initial > MaxZoom {
		initial = DefaultInitialZoom
	}
	return &State{Zoom: initial, InitialZoom: initial}
}

func usable(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Clamp bounds z to [MinZoom, MaxZoom].
func Clamp(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// ZoomBy multiplies the zoom by factor and clamps the result. Non-positive
// and non-finite factors leave the state untouched.
func (s *State) ZoomBy(factor float64) {
	if !usable(factor) {
		return
	}
	s.Zoom = Clamp(s.Zoom * factor)
}

func (s *State) ZoomIn()  { s.ZoomBy(ZoomStep) }
func (s *State) ZoomOut() { s.ZoomBy(1 / ZoomStep) }

// Wheel applies a scroll-wheel step. Positive deltaY zooms out.
func (s *State) Wheel(deltaY float64) {
	if deltaY > 0 {
		s.ZoomBy(WheelOutFactor)
		return
	}
	s.ZoomBy(WheelInFactor)
}

// Reset restores the initial zoom and centres the pan. Fullscreen is kept.
func (s *State) Reset() {
	initial := s.InitialZoom
	if initial == 0 {
		initial = DefaultInitialZoom
	}
	s.Zoom = initial
	s.PanX = 0
	s.PanY = 0
}

// BeginPan starts a drag at pointer position (x, y).
func (s *State) BeginPan(x, y float64) {
	s.Panning = true
	s.LastPointerX = x
	s.LastPointerY = y
}

// ContinuePan moves the diagram by the pointer delta divided by the zoom, so a
// drag tracks the cursor at any magnification. It is a no-op unless panning.
func (s *State) ContinuePan(x, y float64) {
	if !s.Panning {
		return
	}
	s.PanX += (x - s.LastPointerX) / s.Zoom
	s.PanY += (y - s.LastPointerY) / s.Zoom
	s.LastPointerX = x
	s.LastPointerY = y
}

// EndPan stops the drag.
func (s *State) EndPan() {
	s.Panning = false
}

// ToggleFullscreen flips fullscreen; leaving fullscreen also resets the view.
func (s *State) ToggleFullscreen() {
	s.Fullscreen = !s.Fullscreen
	if !s.Fullscreen {
		s.Reset()
	}
}

// CurrentTransform renders the state as a CSS transform.
func (s *State) CurrentTransform() string {
	return Transform(*s)
}

// Transform renders s as "scale(<zoom>) translate(<x>px, <y>px)". Scale comes
// first so the translation is expressed in unscaled diagram units.
func Transform(s State) string {
	return "scale(" + formatNumber(s.Zoom) + ") translate(" +
		formatNumber(s.PanX) + "px, " + formatNumber(s.PanY) + "px)"
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//Personal.AI order the ending
