package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/backmassage/testrename/internal/term"
)

// PrintBanner writes the boxed title to w (stderr in practice; stdout only
// ever carries directive lines). Colors follow [term.Enabled].
func PrintBanner(w io.Writer, version string) {
	r := newRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("5")).
		Padding(0, 1)

	fmt.Fprintln(w, box.Render(title.Render("testrename")+" v"+version))
}

// KeyValues renders aligned "key  value" rows, used for the run header and
// the --check report.
func KeyValues(w io.Writer, rows [][2]string) {
	r := newRenderer(w)
	keyStyle := r.NewStyle().Bold(true)

	width := 0
	for _, row := range rows {
		if n := lipgloss.Width(row[0]); n > width {
			width = n
		}
	}
	for _, row := range rows {
		key := keyStyle.Width(width).Render(row[0])
		fmt.Fprintf(w, "  %s  %s\n", key, row[1])
	}
}

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if term.Enabled() {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
