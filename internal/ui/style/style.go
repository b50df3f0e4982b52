// Package style holds the colors and icons shared by the logger and the report renderer.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/specscope/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Orange = lipgloss.Color("#EA580C")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2563EB")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// SeverityColor maps a severity to its display color.
func SeverityColor(s domain.Severity) lipgloss.Color {
	switch s {
	case domain.SeverityCritical:
		return Red
	case domain.SeverityHigh:
		return Orange
	case domain.SeverityMedium:
		return Yellow
	case domain.SeverityLow:
		return Blue
	default:
		return Slate
	}
}

// ScoreColor colors a 0-100 security score.
func ScoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return Green
	case score >= 50:
		return Yellow
	default:
		return Red
	}
}
