package auctionbench

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var commandPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, data := range commands {
		width = max(width, lipgloss.Width(data.Path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commands {
		pad := strings.Repeat(" ", width-lipgloss.Width(data.Path)+2)
		fmt.Fprintf(out, "  %s%s%s\n", commandPathStyle.Render(data.Path), pad, data.Description)
	}
}
