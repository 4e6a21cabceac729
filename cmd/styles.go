package cmd

import "github.com/charmbracelet/lipgloss"

// Shared styles for command output.
var (
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
)
