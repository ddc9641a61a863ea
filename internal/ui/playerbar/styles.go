package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border)
}

func filledStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func emptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().FgSubtle)
}

func markerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Secondary).Bold(true)
}

func timeStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func verseStyle() lipgloss.Style {
	return styles.T().S().Active
}

func repeatStyle() lipgloss.Style {
	return styles.T().S().InRange
}
