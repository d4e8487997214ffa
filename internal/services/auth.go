package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/auth"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/metrics"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
)

// AuthService signs users up and in and resolves session tokens. It never
// touches passwords itself; the store hashes and verifies them.
//
// Sessions are explicit values: callers pass the session they hold, and a
// successful sign-up or login revokes it before issuing the new one.
type AuthService struct {
	store      AuthStore
	log        logging.Logger
	metrics    *metrics.Metrics
	secret     []byte
	sessionTTL time.Duration
}

func NewAuthService(store AuthStore, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		store:      store,
		log:        log.With("module", "auth"),
		metrics:    metrics.NewMetrics(),
		secret:     []byte(cfg.SecretKey),
		sessionTTL: cfg.SessionTTL,
	}
}

// SignUp creates the account and opens a session for it. current is
// revoked only once the new session exists.
func (s *AuthService) SignUp(ctx context.Context, current *models.Session, name, email, password string) (*models.Session, error) {
	u, err := s.store.SignUp(ctx, name, email, password)
	if err != nil {
		s.metrics.AuthEventsTotal.WithLabelValues("failed").Inc()
		return nil, storageError(err)
	}
	s.metrics.AuthEventsTotal.WithLabelValues("signed_up").Inc()

	return s.open(ctx, u, current)
}

// Login checks the credentials and opens a session. A failed login leaves
// current untouched.
func (s *AuthService) Login(ctx context.Context, current *models.Session, email, password string) (*models.Session, error) {
	u, err := s.store.SignIn(ctx, email, password)
	if err != nil {
		s.metrics.AuthEventsTotal.WithLabelValues("failed").Inc()
		return nil, storageError(err)
	}

	return s.open(ctx, u, current)
}

// Logout revokes current. A nil session is a no-op.
func (s *AuthService) Logout(ctx context.Context, current *models.Session) error {
	if current == nil {
		return nil
	}

	if err := s.store.DeleteSession(ctx, current.ID); err != nil {
		return storageError(err)
	}
	s.metrics.AuthEventsTotal.WithLabelValues("signed_out").Inc()
	s.log.Info(ctx, "signed out", "user_id", current.User.ID)

	return nil
}

// CurrentSession resolves a token to the live session it names. Any
// problem with the token or its session yields common.ErrorUnauthorized.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	rec, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrSessionExpired) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storageError(err)
	}
	if rec.UserID != claims.UserID {
		return nil, common.ErrorUnauthorized
	}

	u, err := s.store.GetUser(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storageError(err)
	}

	return &models.Session{ID: rec.ID, User: *u, Token: token, ExpiresAt: rec.ExpiresAt}, nil
}

// Subscribe forwards auth-state events from the store.
func (s *AuthService) Subscribe(l persistence.AuthListener) (unsubscribe func()) {
	return s.store.Subscribe(l)
}

// open issues a session for u and then revokes prior.
func (s *AuthService) open(ctx context.Context, u *models.User, prior *models.Session) (*models.Session, error) {
	rec, err := s.store.CreateSession(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, storageError(err)
	}

	token, err := auth.GenerateToken(u.ID, rec.ID, s.secret, rec.ExpiresAt)
	if err != nil {
		_ = s.store.DeleteSession(ctx, rec.ID)
		return nil, common.ErrorInternal
	}

	s.metrics.AuthEventsTotal.WithLabelValues("signed_in").Inc()
	s.log.Info(ctx, "signed in", "user_id", u.ID, "session_id", rec.ID)

	s.revoke(ctx, prior)

	return &models.Session{ID: rec.ID, User: *u, Token: token, ExpiresAt: rec.ExpiresAt}, nil
}

// revoke drops a prior session. Failures are only logged.
func (s *AuthService) revoke(ctx context.Context, current *models.Session) {
	if current == nil {
		return
	}
	if err := s.store.DeleteSession(ctx, current.ID); err != nil {
		s.log.Warn(ctx, "failed to revoke prior session", "session_id", current.ID, "error", err)
	}
}
