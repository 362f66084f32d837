package service

import (
	"context"
	"sync"

	"github.com/paddocklab/racing-admin/admin/apperr"
	"github.com/paddocklab/racing-admin/admin/auth"
	"github.com/paddocklab/racing-admin/admin/state"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/models"
	"github.com/paddocklab/racing-admin/shared/session"
)

// AuthService drives login, registration and logout against the identity
// provider, keeping the session store and the in-memory current identity in
// sync through the provider's identity-change notifications.
type AuthService struct {
	provider auth.Provider
	sessions session.Store
	log      logging.Logger

	mu      sync.Mutex
	current *models.Identity
}

// NewAuthService creates an AuthService and subscribes it to identity
// changes.
func NewAuthService(provider auth.Provider, sessions session.Store, log logging.Logger) *AuthService {
	as := &AuthService{provider: provider, sessions: sessions, log: log}
	provider.OnIdentityChange(func(identity *models.Identity) {
		as.mu.Lock()
		as.current = identity
		as.mu.Unlock()
	})
	return as
}

// CurrentIdentity returns the last identity the provider reported, or nil.
func (s *AuthService) CurrentIdentity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Login authenticates the credentials and persists a session, returning the
// session token. The state's error is cleared on entry; on failure the fixed
// login message is recorded and the error propagates so the form can react.
func (s *AuthService) Login(ctx context.Context, st *state.State, email, password string) (string, *models.Identity, error) {
	st.BeginOp()
	defer st.EndOp()
	st.ClearError()

	identity, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		s.log.Error("login failed", logging.String("email", email), logging.Error(err))
		st.SetError(msgLoginFailed)
		return "", nil, apperr.New(apperr.KindAuth, msgLoginFailed, err)
	}

	token, err := s.sessions.Persist(ctx, identity)
	if err != nil {
		s.log.Error("failed to persist session", logging.Error(err))
		st.SetError(msgLoginFailed)
		return "", nil, apperr.New(apperr.KindAuth, msgLoginFailed, err)
	}

	s.log.Info("login succeeded", logging.String("user", identity.UserID))
	return token, identity, nil
}

// Register creates the account and persists a session for it, mirroring
// Login's state handling.
func (s *AuthService) Register(ctx context.Context, st *state.State, email, password string) (string, *models.Identity, error) {
	st.BeginOp()
	defer st.EndOp()
	st.ClearError()

	identity, err := s.provider.Register(ctx, email, password)
	if err != nil {
		s.log.Error("registration failed", logging.String("email", email), logging.Error(err))
		st.SetError(msgRegisterFail)
		return "", nil, apperr.New(apperr.KindAuth, msgRegisterFail, err)
	}

	token, err := s.sessions.Persist(ctx, identity)
	if err != nil {
		s.log.Error("failed to persist session", logging.Error(err))
		st.SetError(msgRegisterFail)
		return "", nil, apperr.New(apperr.KindAuth, msgRegisterFail, err)
	}

	s.log.Info("registration succeeded", logging.String("user", identity.UserID))
	return token, identity, nil
}

// Logout deauthenticates and clears the session. A failure is recorded on the
// state but never returned; the caller always proceeds to the login view.
func (s *AuthService) Logout(ctx context.Context, st *state.State, token string) {
	if err := s.provider.Deauthenticate(ctx, s.CurrentIdentity()); err != nil {
		s.log.Error("logout failed", logging.Error(err))
		st.SetError(msgLogoutFailed)
		return
	}
	if err := s.sessions.Clear(ctx, token); err != nil {
		s.log.Error("failed to clear session", logging.Error(err))
		st.SetError(msgLogoutFailed)
	}
}
