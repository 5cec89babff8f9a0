package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/token"
)

type stubDirectory struct {
	users map[string]*domain.User
}

func newStubDirectory(users ...*domain.User) *stubDirectory {
	d := &stubDirectory{users: make(map[string]*domain.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Public(), nil
}

func (d *stubDirectory) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, nil
}
func (d *stubDirectory) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (d *stubDirectory) FindAll(context.Context) ([]*domain.User, error) { return nil, nil }
func (d *stubDirectory) Update(context.Context, string, ports.UserPatch) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (d *stubDirectory) Delete(context.Context, string) error { return nil }

func protectContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProtect_ValidToken(t *testing.T) {
	tokens, _ := token.NewManager("secret", time.Hour)
	signed, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	dir := newStubDirectory(&domain.User{ID: "u1", Name: "Ana", Email: "ana@x.com", IsAdmin: true})
	c, rec := protectContext(t, "Bearer "+signed)

	called := false
	handler := Protect(tokens, dir, zerolog.Nop())(func(c echo.Context) error {
		called = true
		identity, _ := c.Get(IdentityKey).(*domain.User)
		if identity == nil || identity.ID != "u1" {
			t.Fatalf("identity not attached: %+v", identity)
		}
		if identity.PasswordHash != "" {
			t.Fatalf("identity must not carry the password hash")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtect_MissingOrMalformedHeader(t *testing.T) {
	tokens, _ := token.NewManager("secret", time.Hour)
	mw := Protect(tokens, newStubDirectory(), zerolog.Nop())

	for _, header := range []string{"", "Bearer", "Basic abc123", "justonetoken"} {
		c, _ := protectContext(t, header)
		err := mw(func(echo.Context) error {
			t.Fatalf("next must not run for header %q", header)
			return nil
		})(c)

		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
		if he.Message != "no token provided" {
			t.Fatalf("header %q: unexpected message %v", header, he.Message)
		}
	}
}

func TestProtect_InvalidToken(t *testing.T) {
	tokens, _ := token.NewManager("secret", time.Hour)
	other, _ := token.NewManager("other-secret", time.Hour)
	forged, _ := other.Issue("u1")

	for _, tok := range []string{"garbage", forged} {
		c, _ := protectContext(t, "Bearer "+tok)
		err := Protect(tokens, newStubDirectory(), zerolog.Nop())(func(echo.Context) error {
			t.Fatalf("next must not run")
			return nil
		})(c)

		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized || he.Message != "invalid token" {
			t.Fatalf("token %q: expected 401 invalid token, got %v", tok, err)
		}
	}
}

func TestProtect_ExpiredToken(t *testing.T) {
	short, _ := token.NewManager("secret", time.Nanosecond)
	signed, _ := short.Issue("u1")
	time.Sleep(10 * time.Millisecond)

	verifier, _ := token.NewManager("secret", time.Hour)
	c, _ := protectContext(t, "Bearer "+signed)
	err := Protect(verifier, newStubDirectory(), zerolog.Nop())(func(echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized || he.Message != "invalid token" {
		t.Fatalf("expected 401 invalid token for expired token, got %v", err)
	}
}

func TestProtect_DeletedUser(t *testing.T) {
	tokens, _ := token.NewManager("secret", time.Hour)
	signed, _ := tokens.Issue("gone")

	c, _ := protectContext(t, "Bearer "+signed)
	err := Protect(tokens, newStubDirectory(), zerolog.Nop())(func(echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized || he.Message != "invalid token payload" {
		t.Fatalf("expected 401 invalid token payload, got %v", err)
	}
}
