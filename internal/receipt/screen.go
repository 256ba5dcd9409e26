package receipt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderText writes the receipt to w as an aligned text block.
func RenderText(w io.Writer, l Layout) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", l.Title, strings.Repeat("=", len(l.Title))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, section := range l.Sections {
		fmt.Fprintf(tw, "\n%s\n", section.Title)
		for _, line := range section.Lines {
			fmt.Fprintf(tw, "  %s:\t%s\n", line.Label, line.Value)
		}
	}
	return tw.Flush()
}
