package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/filex"
)

type draftFields = controller.DraftFields

// List reloads and prints the journal.
func (a *App) List(ctx context.Context) error {
	err := a.dashboard.Load(ctx)
	a.printNotice()
	if err == nil {
		a.printList()
	}
	return err
}

// Export writes the journal as JSON to path.
func (a *App) Export(ctx context.Context, path string) error {
	data, err := a.exporter.Export(ctx, a.session.User.ID)
	if err != nil {
		fmt.Fprintln(a.out, "Export failed:", err)
		return err
	}
	if err := filex.WriteFile(path, data); err != nil {
		fmt.Fprintln(a.out, "Export failed:", err)
		return err
	}
	fmt.Fprintf(a.out, "Exported %d bytes to %s\n", len(data), path)
	return nil
}

func (a *App) delete(ctx context.Context, id string) {
	if a.act(a.dashboard.RequestDelete(id)) != nil {
		return
	}

	title := id
	if p := a.dashboard.Snapshot().PendingDelete; p != nil {
		title = p.Title
	}

	if !confirm(a.reader, fmt.Sprintf("Delete %q?", title), a.out) {
		_ = a.dashboard.CancelDelete()
		fmt.Fprintln(a.out, "Kept.")
		return
	}
	if a.act(a.dashboard.ConfirmDelete(ctx)) == nil {
		a.printList()
	}
}

// updateDraft applies change to the current draft fields.
func (a *App) updateDraft(change func(f *draftFields)) {
	d := a.dashboard.Snapshot().Draft
	f := draftFields{Date: d.Date, Title: d.Title, Content: d.Content, Tags: d.Tags}
	change(&f)
	a.act(a.dashboard.SetDraft(f))
}

// act prints the notice left by a dashboard action and returns its error.
func (a *App) act(err error) error {
	a.printNotice()
	if err != nil && a.dashboard.Snapshot().Notice == nil {
		fmt.Fprintln(a.out, "error:", err)
	}
	a.dashboard.DismissNotice()
	return err
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
