package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/validation"
)

// AuthMode selects the form being shown.
type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignUp AuthMode = "signup"
)

// Authenticator is the auth manager as seen by the form.
type Authenticator interface {
	SignUp(ctx context.Context, current *models.Session, name, email, password string) (*models.Session, error)
	Login(ctx context.Context, current *models.Session, email, password string) (*models.Session, error)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signUpInput struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthForm is the login / sign-up form state. Name and Email are kept
// between attempts so the form can be re-rendered; passwords are not.
type AuthForm struct {
	Mode  AuthMode
	Name  string
	Email string
	Error string

	auth      Authenticator
	validator *validation.Validator
}

func NewAuthForm(auth Authenticator, mode AuthMode) *AuthForm {
	if mode != ModeSignUp {
		mode = ModeLogin
	}
	return &AuthForm{Mode: mode, auth: auth, validator: validation.New()}
}

// Toggle switches between login and sign-up and clears the error.
func (f *AuthForm) Toggle() {
	if f.Mode == ModeLogin {
		f.Mode = ModeSignUp
	} else {
		f.Mode = ModeLogin
	}
	f.Error = ""
}

// Submit validates the input and signs up or logs in. current is the
// session the client already holds, if any. On failure f.Error carries the
// inline message and the error is returned.
func (f *AuthForm) Submit(ctx context.Context, current *models.Session, name, email, password string) (*models.Session, error) {
	f.Name = strings.TrimSpace(name)
	f.Email = strings.TrimSpace(email)
	f.Error = ""

	var in any = loginInput{Email: f.Email, Password: password}
	if f.Mode == ModeSignUp {
		in = signUpInput{Name: f.Name, Email: f.Email, Password: password}
	}
	if err := f.validator.Validate(in); err != nil {
		f.Error = inputMessage(err)
		return nil, err
	}

	var (
		s   *models.Session
		err error
	)
	if f.Mode == ModeSignUp {
		s, err = f.auth.SignUp(ctx, current, f.Name, f.Email, password)
	} else {
		s, err = f.auth.Login(ctx, current, f.Email, password)
	}
	if err != nil {
		f.Error = AuthMessage(err)
		return nil, err
	}
	return s, nil
}

// AuthMessage maps an auth failure to the message shown on the form.
func AuthMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrDuplicateAccount):
		return msgUserExists
	case errors.Is(err, common.ErrInvalidCredentials):
		return msgInvalidCreds
	case errors.Is(err, common.ErrValidation):
		return inputMessage(err)
	default:
		return msgSomethingHappened
	}
}

func inputMessage(err error) string {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return msgMissingCredentials
	}
	switch {
	case verr.Has("name"):
		return msgNameRequired
	case verr.Has("email"):
		return msgEmailInvalid
	case verr.Has("password"):
		return msgPasswordRequired
	default:
		return msgMissingCredentials
	}
}
