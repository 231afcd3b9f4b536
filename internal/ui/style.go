package ui

import "github.com/charmbracelet/lipgloss"

// Common adaptive colors used across series/range-diff/mail rendering.
var (
	Yellow  = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}
	Red     = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	Green   = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	Plain   = lipgloss.AdaptiveColor{Light: "0", Dark: "7"}
	Cyan    = lipgloss.AdaptiveColor{Light: "6", Dark: "14"}
	Magenta = lipgloss.AdaptiveColor{Light: "5", Dark: "13"}
	Gray    = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
)
