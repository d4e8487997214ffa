package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/go-chi/chi/v5"
)

type signUpRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string      `json:"token,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type entryRequest struct {
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Title      string   `json:"title" validate:"notblank,max=200"`
	Content    string   `json:"content" validate:"notblank"`
	Tags       []string `json:"tags"`
	Reflection string   `json:"ai_reflection"`
}

type reflectionRequest struct {
	Text string `json:"text" validate:"notblank"`
}

type reflectionResponse struct {
	Reflection string `json:"reflection"`
}

// decodeAndValidate reads a JSON body into dst and validates it.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrValidation, err)
	}
	return s.validator.Validate(dst)
}

func (s *Server) handleAPISignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.auth.SignUp(r.Context(), s.optionalSession(r), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setSessionCookie(w, sess)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: sess.User})
}

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.auth.Login(r.Context(), s.optionalSession(r), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: sess.User})
}

func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), s.optionalSession(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{ExpiresAt: sess.ExpiresAt, User: sess.User})
}

func (s *Server) handleAPIListEntries(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	list, err := s.entries.List(r.Context(), sess.User.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAPICreateEntry(w http.ResponseWriter, r *http.Request) {
	s.saveEntry(w, r, "", http.StatusCreated)
}

func (s *Server) handleAPIUpdateEntry(w http.ResponseWriter, r *http.Request) {
	s.saveEntry(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) saveEntry(w http.ResponseWriter, r *http.Request, id string, status int) {
	sess := currentSession(r.Context())

	var req entryRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.entries.Save(r.Context(), models.JournalEntry{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Date:       req.Date,
		Tags:       req.Tags,
		Reflection: req.Reflection,
	}, sess.User.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, saved)
}

func (s *Server) handleAPIDeleteEntry(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	if err := s.entries.Delete(r.Context(), sess.User.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIReflect(w http.ResponseWriter, r *http.Request) {
	var req reflectionRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	text, err := s.reflector.GenerateReflection(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reflectionResponse{Reflection: text})
}
