// Package cli is the terminal front-end of the journal: a REPL over the same
// dashboard controller the web pages use.
package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// Auth is the session manager used by the REPL.
type Auth interface {
	controller.Authenticator
	Logout(ctx context.Context, current *models.Session) error
}

// Exporter renders a user's journal as JSON.
type Exporter interface {
	Export(ctx context.Context, userID string) ([]byte, error)
}

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	confirm       = Confirm
)

type App struct {
	auth      Auth
	entries   controller.Entries
	reflector controller.Reflector
	exporter  Exporter
	log       logging.Logger

	reader *bufio.Reader
	out    io.Writer

	session   *models.Session
	dashboard *controller.Dashboard
}

func NewApp(auth Auth, entries controller.Entries, reflector controller.Reflector, exporter Exporter, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		auth:      auth,
		entries:   entries,
		reflector: reflector,
		exporter:  exporter,
		log:       log.With("module", "cli"),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) editing() bool {
	if a.dashboard == nil {
		return false
	}
	st := a.dashboard.State()
	return st == controller.StateCreate || st == controller.StateEdit
}

// startSession installs s and loads its journal.
func (a *App) startSession(ctx context.Context, s *models.Session) {
	a.session = s
	a.dashboard = controller.NewDashboard(s.User.ID, a.entries, a.reflector, a.log)
	_ = a.dashboard.Load(ctx)
	a.printNotice()
	a.printList()
}

func (a *App) endSession() {
	a.session = nil
	a.dashboard = nil
}
