package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	noDataText  = color.New(color.FgYellow).SprintFunc()
	savedText   = color.New(color.FgGreen).SprintFunc()
	headingText = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// NoData prints the notice for a chart that is skipped for lack of data.
func NoData(w io.Writer, name string) {
	fmt.Fprintln(w, noDataText(fmt.Sprintf("No data for %s plot", name)))
}

func saved(w io.Writer, path string) {
	fmt.Fprintln(w, savedText("Saved: "+path))
}

// Heading prints a section title followed by an underline of width
// characters.
func Heading(w io.Writer, title string, width int) {
	fmt.Fprintln(w, headingText(title))
	fmt.Fprintln(w, repeat('=', width))
}

func repeat(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]rune, n)
	for i := range b {
		b[i] = r
	}
	return string(b)
}
