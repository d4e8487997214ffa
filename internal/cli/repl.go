package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Run is the read-eval-print loop. It reads one command per line and
// dispatches on the first token. The loop ends on EOF or "exit"/"quit".
//
//	Signed out:   help, signup, login, exit
//	Journal:      help, list, new, edit <id>, delete <id>, export <file>, logout, exit
//	Editor:       help, show, date <YYYY-MM-DD>, title <text>, body, tags <a,b>,
//	              reflect, save, cancel
//
// Command errors are reported to the user and never end the loop.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to Mindful Journal (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "journal%s> ", a.status())

		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}

		switch {
		case !a.isLoggedIn():
			a.dispatchSignedOut(ctx, cmd)
		case a.editing():
			a.dispatchEditor(ctx, cmd, rest)
		default:
			a.dispatchJournal(ctx, cmd, rest)
		}
	}
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := " (" + a.session.User.Name + ")"
	if a.editing() {
		s += " [" + strings.ToLower(string(a.dashboard.State())) + "]"
	}
	return s
}

func (a *App) dispatchSignedOut(ctx context.Context, cmd string) {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, "Available commands: signup, login, exit")
	case "signup", "register":
		_ = a.SignUp(ctx)
	case "login":
		_ = a.Login(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
}

func (a *App) dispatchJournal(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, "Available commands: (l)ist, new, edit <id>, delete <id>, export <file>, logout, exit")
	case "l", "list":
		_ = a.List(ctx)
	case "new":
		if a.act(a.dashboard.NewEntry()) == nil {
			a.printDraft()
		}
	case "edit":
		if arg == "" {
			fmt.Fprintln(a.out, "Usage: edit <id>")
			return
		}
		if a.act(a.dashboard.Edit(arg)) == nil {
			a.printDraft()
		}
	case "delete":
		if arg == "" {
			fmt.Fprintln(a.out, "Usage: delete <id>")
			return
		}
		a.delete(ctx, arg)
	case "export":
		if arg == "" {
			fmt.Fprintln(a.out, "Usage: export <file>")
			return
		}
		_ = a.Export(ctx, arg)
	case "logout":
		_ = a.Logout(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
}

func (a *App) dispatchEditor(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, "Editor commands: show, date <YYYY-MM-DD>, title <text>, body, tags <a,b>, reflect, save, cancel")
	case "show":
		a.printDraft()
	case "date":
		a.updateDraft(func(f *draftFields) { f.Date = arg })
	case "title":
		a.updateDraft(func(f *draftFields) { f.Title = arg })
	case "tags":
		a.updateDraft(func(f *draftFields) { f.Tags = splitTags(arg) })
	case "body":
		text, err := getMultiline(a.reader, "Write your entry", a.out)
		if err != nil {
			fmt.Fprintln(a.out, "error:", err)
			return
		}
		a.updateDraft(func(f *draftFields) { f.Content = text })
	case "reflect":
		fmt.Fprintln(a.out, "Reflecting...")
		if a.act(a.dashboard.GenerateReflection(ctx)) == nil {
			fmt.Fprintf(a.out, "✨ %q\n", a.dashboard.Snapshot().Draft.Reflection)
		}
	case "save":
		if a.act(a.dashboard.Save(ctx)) == nil {
			a.printList()
		}
	case "cancel":
		a.act(a.dashboard.Cancel())
		fmt.Fprintln(a.out, "Draft discarded.")
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
}
