package main

import (
	"fmt"
	"strings"
)

// renderList formats the flattened directory as one line per entry,
// highlighting the row at cursor and dimming cross-references.
func renderList(entries []dirRow, cursor int) string {
	var b strings.Builder
	for i, row := range entries {
		line := fmt.Sprintf("%-9s %s", row.kind, row.name)
		switch {
		case i == cursor:
			line = listSelectedStyle.Render(line)
		case !row.local:
			line = listXrefStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
