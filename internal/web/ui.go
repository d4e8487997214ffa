package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/go-chi/chi/v5"
)

// dashboardAct is one user action on the dashboard.
type dashboardAct func(ctx context.Context, d *controller.Dashboard, r *http.Request) error

func actNewEntry(_ context.Context, d *controller.Dashboard, _ *http.Request) error {
	return d.NewEntry()
}

func actEdit(_ context.Context, d *controller.Dashboard, r *http.Request) error {
	return d.Edit(chi.URLParam(r, "id"))
}

func actRequestDelete(_ context.Context, d *controller.Dashboard, r *http.Request) error {
	return d.RequestDelete(chi.URLParam(r, "id"))
}

func actSave(ctx context.Context, d *controller.Dashboard, r *http.Request) error {
	if err := d.SetDraft(draftFromForm(r)); err != nil {
		return err
	}
	return d.Save(ctx)
}

func actCancel(_ context.Context, d *controller.Dashboard, _ *http.Request) error {
	return d.Cancel()
}

func actReflect(ctx context.Context, d *controller.Dashboard, r *http.Request) error {
	if err := d.SetDraft(draftFromForm(r)); err != nil {
		return err
	}
	return d.GenerateReflection(ctx)
}

func actConfirmDelete(ctx context.Context, d *controller.Dashboard, _ *http.Request) error {
	return d.ConfirmDelete(ctx)
}

func actCancelDelete(_ context.Context, d *controller.Dashboard, _ *http.Request) error {
	return d.CancelDelete()
}

func actDismiss(_ context.Context, d *controller.Dashboard, _ *http.Request) error {
	d.DismissNotice()
	return nil
}

func draftFromForm(r *http.Request) controller.DraftFields {
	var tags []string
	if raw := r.PostFormValue("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	return controller.DraftFields{
		Date:    r.PostFormValue("date"),
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
		Tags:    tags,
	}
}

// dashboard returns the caller's dashboard, loading it on first use.
func (s *Server) dashboard(r *http.Request) *controller.Dashboard {
	d, created := s.workspaces.Get(currentSession(r.Context()))
	if created {
		_ = d.Load(r.Context())
	}
	return d
}

// dashboardAction runs act and sends the browser back to the dashboard.
// Failures are already notices on the dashboard; only a busy dashboard is
// reported as an HTTP error.
func (s *Server) dashboardAction(act dashboardAct) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}

		d := s.dashboard(r)
		if err := act(r.Context(), d, r); errors.Is(err, common.ErrBusy) {
			http.Error(w, "Another operation is in progress. Please wait.", http.StatusTooManyRequests)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// handleDashboard renders the current view. The list is re-fetched on
// every visit so writes made elsewhere show up.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())
	d, created := s.workspaces.Get(sess)
	if created {
		_ = d.Load(r.Context())
	} else {
		_ = d.Refresh(r.Context())
	}

	s.render(w, r, http.StatusOK, s.pages.dashboard, dashboardPage{
		User:           sess.User,
		View:           d.Snapshot(),
		ArchiveEnabled: s.cfg.ArchiveEnabled(),
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.optionalSession(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	form := controller.NewAuthForm(s.auth, controller.AuthMode(r.URL.Query().Get("mode")))
	s.render(w, r, http.StatusOK, s.pages.login, form)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitAuth(w, r, controller.ModeLogin)
}

func (s *Server) handleSignUpSubmit(w http.ResponseWriter, r *http.Request) {
	s.submitAuth(w, r, controller.ModeSignUp)
}

func (s *Server) submitAuth(w http.ResponseWriter, r *http.Request, mode controller.AuthMode) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := controller.NewAuthForm(s.auth, mode)
	sess, err := form.Submit(r.Context(), s.optionalSession(r),
		r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		s.render(w, r, statusFor(err), s.pages.login, form)
		return
	}

	setSessionCookie(w, sess)
	d, _ := s.workspaces.Get(sess)
	_ = d.Load(r.Context())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), s.optionalSession(r)); err != nil {
		s.log.Warn(r.Context(), "logout failed", "error", err)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	data, err := s.archive.Export(r.Context(), sess.User.ID)
	if err != nil {
		status := statusFor(err)
		http.Error(w, publicMessage(err, status), status)
		return
	}

	name := fmt.Sprintf("journal-%s.json", time.Now().UTC().Format(common.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	url, err := s.archive.Upload(r.Context(), sess.User.ID)
	if err != nil {
		msg := "Could not upload the archive. Please try again later."
		if errors.Is(err, common.ErrConfiguration) {
			msg = "Archive storage is not configured."
		}
		s.dashboard(r).Notify(controller.NoticeError, msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}
