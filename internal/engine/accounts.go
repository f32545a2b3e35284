package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/auth"
	"github.com/lazypower/bangapda/internal/store"
)

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

// Register creates an account and fills its inbox with the starter requests.
// A taken email returns store.ErrDuplicate.
func (e *Engine) Register(r Registration) (*store.User, error) {
	r = r.normalize()
	if err := validateRegistration(r); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	u := &store.User{
		ID:           e.newID(),
		Email:        r.Email,
		PasswordHash: hash,
		Nickname:     r.Nickname,
		Name:         r.Name,
		BirthYear:    r.BirthYear,
		Gender:       r.Gender,
	}
	if err := e.DB.CreateUser(u); err != nil {
		return nil, err
	}

	inbox, err := store.DefaultInbox()
	if err != nil {
		return nil, fmt.Errorf("starter inbox: %w", err)
	}
	if err := e.DB.AddReceivedRequests(u.ID, inbox); err != nil {
		return nil, fmt.Errorf("starter inbox: %w", err)
	}

	e.Log.Info("registered", zap.String("user", u.ID), zap.Int("inbox", len(inbox)))
	return u, nil
}

// Login checks credentials and issues a session token. Unknown emails and
// wrong passwords both return auth.ErrBadCredentials.
func (e *Engine) Login(email, password string) (*Session, error) {
	if e.Tokens == nil {
		return nil, errors.New("no token issuer configured")
	}

	u, err := e.DB.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, auth.ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}

	token, expires, err := e.Tokens.Issue(u.ID, u.Nickname)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// Authenticate resolves a bearer token to its user.
func (e *Engine) Authenticate(token string) (*store.User, error) {
	if e.Tokens == nil {
		return nil, errors.New("no token issuer configured")
	}
	claims, err := e.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := e.DB.GetUser(claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	return u, err
}

// Profile returns the user with their saved profile.
func (e *Engine) Profile(userID string) (*store.User, error) {
	return e.DB.GetUser(userID)
}

// UpdateProfile validates and saves what a user remembers.
func (e *Engine) UpdateProfile(userID string, p store.Profile) (*store.User, error) {
	p = normalizeProfile(p)
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	if err := e.DB.UpdateProfile(userID, &p); err != nil {
		return nil, err
	}
	return e.DB.GetUser(userID)
}
