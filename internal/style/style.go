// Package style holds the terminal styles used by the basket CLI.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12"))

	// Dim is for secondary details such as ids and timestamps.
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	Bold = lipgloss.NewStyle().
		Bold(true)

	// Done renders picked-up items.
	Done = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Strikethrough(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Underline(true)

	// Assistant renders chat replies; Fallback marks replies from the local responder.
	Assistant = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))
	Fallback = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")).
			Italic(true)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// Checkbox renders the completed marker for a list row.
func Checkbox(completed bool) string {
	if completed {
		return Success.Render("[x]")
	}
	return "[ ]"
}
