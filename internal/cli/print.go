package cli

import (
	"fmt"
	"strings"
)

const previewWidth = 72

func (a *App) printNotice() {
	if a.dashboard == nil {
		return
	}
	if n := a.dashboard.Snapshot().Notice; n != nil {
		fmt.Fprintf(a.out, "[%s] %s\n", n.Kind, n.Message)
	}
}

func (a *App) printList() {
	v := a.dashboard.Snapshot()
	if len(v.Entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet. Type 'new' to capture your first thought.")
		return
	}

	for _, e := range v.Entries {
		fmt.Fprintf(a.out, "[%s] %s  %s", e.ID, e.Date, e.Title)
		if len(e.Tags) > 0 {
			fmt.Fprintf(a.out, "  #%s", strings.Join(e.Tags, " #"))
		}
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "    %s\n", preview(e.Content))
		if e.Reflection != "" {
			fmt.Fprintf(a.out, "    ✨ %q\n", e.Reflection)
		}
	}
}

func (a *App) printDraft() {
	v := a.dashboard.Snapshot()
	d := v.Draft

	fmt.Fprintf(a.out, "Date:  %s\n", d.Date)
	fmt.Fprintf(a.out, "Title: %s\n", d.Title)
	fmt.Fprintf(a.out, "Tags:  %s\n", strings.Join(d.Tags, ", "))
	fmt.Fprintln(a.out, "Body:")
	if d.Content != "" {
		fmt.Fprintln(a.out, d.Content)
	}
	if d.Reflection != "" {
		fmt.Fprintf(a.out, "✨ %q\n", d.Reflection)
	}
}

// preview returns the first line of s cut to previewWidth runes.
func preview(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	r := []rune(line)
	if len(r) > previewWidth {
		return string(r[:previewWidth-1]) + "…"
	}
	return line
}
