package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// printMarkdown pretty-prints markdown to the terminal, falling back to the
// raw text when rendering is unavailable (pipes, dumb terminals).
func printMarkdown(markdown string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(markdown)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	out, err := r.Render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}
