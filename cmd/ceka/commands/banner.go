package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/teranos/ceka/version"
)

// printBanner writes the welcome message
func printBanner(w io.Writer) {
	info := version.Get()

	title := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	label := pterm.NewStyle(pterm.FgGreen)

	body := fmt.Sprintf("%s\n\n%s %s (commit %s)\n%s %s\n%s mine, arff, sql",
		title.Sprint("Ceka - data mining on ARFF datasets"),
		label.Sprint("Version:"), info.Version, info.Short(),
		label.Sprint("Built:  "), info.BuildTime,
		label.Sprint("Modes:  "),
	)
	fmt.Fprintln(w, pterm.DefaultBox.WithTitle("ceka").Sprint(body))
	fmt.Fprintln(w)
}
