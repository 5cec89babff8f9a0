package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

type stubUserService struct {
	profile     *domain.User
	profileErr  error
	updateInput ports.UpdateProfileInput
	listActor   *domain.User
	listUsers   []*domain.User
	listErr     error
	deleteActor *domain.User
	deleteID    string
	deleteErr   error
}

func (s *stubUserService) GetProfile(context.Context, string) (*domain.User, error) {
	return s.profile, s.profileErr
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ string, input ports.UpdateProfileInput) (*domain.User, error) {
	s.updateInput = input
	return s.profile, s.profileErr
}

func (s *stubUserService) ListUsers(_ context.Context, actor *domain.User) ([]*domain.User, error) {
	s.listActor = actor
	return s.listUsers, s.listErr
}

func (s *stubUserService) DeleteUser(_ context.Context, actor *domain.User, targetID string) error {
	s.deleteActor = actor
	s.deleteID = targetID
	return s.deleteErr
}

func identityContext(t *testing.T, method, path, body string, identity *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonContext(t, method, path, body)
	if identity != nil {
		c.Set(middleware.IdentityKey, identity)
	}
	return c, rec
}

func TestUserHandler_GetProfile(t *testing.T) {
	svc := &stubUserService{profile: &domain.User{ID: "u1", Name: "Ana", Email: "ana@x.com", Role: domain.RoleUser}}
	h := NewUserHandler(svc)

	c, rec := identityContext(t, http.MethodGet, "/api/users/profile", "", &domain.User{ID: "u1"})
	if err := h.GetProfile(c); err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ana@x.com") {
		t.Fatalf("expected profile body, got %s", body)
	}
	if strings.Contains(body, "password") {
		t.Fatalf("profile body leaks password field: %s", body)
	}
}

func TestUserHandler_GetProfile_NoIdentity(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := identityContext(t, http.MethodGet, "/api/users/profile", "", nil)
	err := h.GetProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	svc := &stubUserService{profile: &domain.User{ID: "u1", Name: "Ana Maria", Email: "ana@x.com"}}
	h := NewUserHandler(svc)

	c, rec := identityContext(t, http.MethodPut, "/api/users/profile",
		`{"name":"Ana Maria"}`, &domain.User{ID: "u1"})
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.updateInput.Name != "Ana Maria" || svc.updateInput.Email != "" || svc.updateInput.Password != "" {
		t.Fatalf("unexpected patch forwarded: %+v", svc.updateInput)
	}
	if !strings.Contains(rec.Body.String(), "Profile updated successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_UpdateProfile_InvalidEmail(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := identityContext(t, http.MethodPut, "/api/users/profile",
		`{"email":"nope"}`, &domain.User{ID: "u1"})
	err := h.UpdateProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	admin := &domain.User{ID: "u9", IsAdmin: true}
	svc := &stubUserService{listUsers: []*domain.User{
		{ID: "u1", Email: "ana@x.com"},
		{ID: "u2", Email: "bob@x.com"},
	}}
	h := NewUserHandler(svc)

	c, rec := identityContext(t, http.MethodGet, "/api/users", "", admin)
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listActor != admin {
		t.Fatalf("actor not forwarded to service")
	}
	if !strings.Contains(rec.Body.String(), "bob@x.com") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	admin := &domain.User{ID: "u9", IsAdmin: true}
	svc := &stubUserService{}
	h := NewUserHandler(svc)

	c, rec := identityContext(t, http.MethodDelete, "/api/users/u1", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.DeleteUser(c); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deleteID != "u1" || svc.deleteActor != admin {
		t.Fatalf("service called with id=%q actor=%+v", svc.deleteID, svc.deleteActor)
	}
	if !strings.Contains(rec.Body.String(), "User deleted successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
