package engine

import (
	"errors"
	"testing"

	"github.com/lazypower/bangapda/internal/auth"
	"github.com/lazypower/bangapda/internal/store"
)

func TestRegisterSeedsInbox(t *testing.T) {
	e := testEngine(t)

	u := registerUser(t, e, " Friend@Example.com ")
	if u.ID != "id-1" || u.Email != "friend@example.com" {
		t.Errorf("user = %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Error("password not hashed")
	}

	reqs, err := e.VisibleRequests(u.ID)
	if err != nil {
		t.Fatalf("VisibleRequests: %v", err)
	}
	if len(reqs) != 5 {
		t.Errorf("inbox = %d requests, want 5", len(reqs))
	}
}

func TestRegisterDuplicate(t *testing.T) {
	e := testEngine(t)
	registerUser(t, e, "a@example.com")

	_, err := e.Register(Registration{Email: "A@example.com", Password: "secret1", Nickname: "또"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestRegisterInvalid(t *testing.T) {
	e := testEngine(t)

	_, err := e.Register(Registration{Email: "a@example.com", Password: "123", Nickname: "n"})
	if !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("err = %v, want ErrInvalidRegistration", err)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	e := testEngine(t)
	u := registerUser(t, e, "a@example.com")

	sess, err := e.Login("A@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" || sess.User.ID != u.ID {
		t.Errorf("session = %+v", sess)
	}

	got, err := e.Authenticate("Bearer " + sess.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated %s, want %s", got.ID, u.ID)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	e := testEngine(t)
	registerUser(t, e, "a@example.com")

	if _, err := e.Login("a@example.com", "wrong-password"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := e.Login("nobody@example.com", "secret1"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Errorf("unknown email err = %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	e := testEngine(t)

	token, _, err := e.Tokens.Issue("ghost", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := e.Authenticate(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	e := testEngine(t)
	u := registerUser(t, e, "a@example.com")

	got, err := e.UpdateProfile(u.ID, store.Profile{
		ActivityKeywords:   []string{"농구", " "},
		RememberedYears:    store.RememberedYears{StartYear: 2011, EndYear: 2013},
		RememberedLocation: "대전  둔산동",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Profile == nil || got.Profile.RememberedLocation != "대전 둔산동" {
		t.Fatalf("profile = %+v", got.Profile)
	}
	if len(got.Profile.ActivityKeywords) != 1 {
		t.Errorf("keywords = %v", got.Profile.ActivityKeywords)
	}

	_, err = e.UpdateProfile(u.ID, store.Profile{RememberedLocation: "대전"})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("err = %v, want ErrInvalidProfile", err)
	}
}
