// Package ui holds layout constants and helpers shared by the terminal views.
package ui

const (
	// BorderHeight is the vertical space consumed by a rounded border.
	BorderHeight = 2

	// VerseMargin is the number of verses kept visible around the cursor
	// when the verse panel scrolls manually.
	VerseMargin = 2

	// MinProgressBarWidth is the narrowest usable progress bar.
	MinProgressBarWidth = 5

	// MinWidth is the narrowest terminal the player renders in.
	MinWidth = 40

	// StatusHeight is the status line below the verse panel.
	StatusHeight = 1
)
