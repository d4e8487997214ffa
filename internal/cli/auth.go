package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mindjournal/internal/controller"
)

// SignUp prompts for a name, email and password and creates the account.
// The new session becomes the current one.
func (a *App) SignUp(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	return a.authenticate(ctx, controller.ModeSignUp, name)
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, controller.ModeLogin, "")
}

func (a *App) authenticate(ctx context.Context, mode controller.AuthMode, name string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	form := controller.NewAuthForm(a.auth, mode)
	s, err := form.Submit(ctx, a.session, name, email, password)
	if err != nil {
		fmt.Fprintln(a.out, form.Error)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.Name)
	a.startSession(ctx, s)
	return nil
}

// Logout revokes the current session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx, a.session); err != nil {
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	a.endSession()
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
