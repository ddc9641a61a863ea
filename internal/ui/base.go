package ui

// Base carries the size and focus shared by panels and popups.
// Embed it in component models:
//
//	type Model struct {
//	    ui.Base
//	    verses []Verse
//	}
type Base struct {
	width, height int
	focused       bool
}

// SetFocused sets whether the component receives keys.
func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused reports whether the component receives keys.
func (b Base) IsFocused() bool {
	return b.focused
}

// SetSize sets the component dimensions.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Size returns the component dimensions.
func (b Base) Size() (width, height int) {
	return b.width, b.height
}

// Width returns the component width.
func (b Base) Width() int {
	return b.width
}

// Height returns the component height.
func (b Base) Height() int {
	return b.height
}

// InnerHeight returns the height left after subtracting overhead rows,
// never less than one.
func (b Base) InnerHeight(overhead int) int {
	return max(b.height-overhead, 1)
}
