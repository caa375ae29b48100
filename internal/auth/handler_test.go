package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/middleware"
	"github.com/alumni-hub/backend/internal/models"
)

// newTestServer wires the auth routes the way cmd/server does.
func newTestServer(t *testing.T) (*httptest.Server, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	sessions := NewSessionStore(store, time.Hour)
	handler := NewHandler(NewService(store, sessions))

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.Login)
		r.Post("/signup", handler.Signup)
		r.Post("/logout", handler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/verify", handler.Verify)
		r.With(middleware.RequireAuth(sessions)).Put("/profile", handler.Profile)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeAuthResponse(t *testing.T, resp *http.Response) models.AuthResponse {
	t.Helper()
	defer resp.Body.Close()
	var out models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	return out
}

func TestHandler_SignupLoginVerify(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	signedUp := decodeAuthResponse(t, resp)
	if signedUp.Token == "" || signedUp.User.Role != models.RoleUser {
		t.Fatalf("unexpected signup response: %+v", signedUp)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	loggedIn := decodeAuthResponse(t, resp)

	resp = doJSON(t, http.MethodGet, ts.URL+"/auth/verify", loggedIn.Token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status = %d", resp.StatusCode)
	}
	var verified struct {
		User models.PublicUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verified); err != nil {
		t.Fatalf("decode verify: %v", err)
	}
	if verified.User.Email != "lin@alumni.edu" {
		t.Errorf("verify returned wrong user: %+v", verified.User)
	}
}

func TestHandler_SignupResponseOmitsPassword(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	})
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(buf.String(), "password") || strings.Contains(buf.String(), "s3cret") {
		t.Errorf("signup response leaks credentials: %s", buf.String())
	}
}

func TestHandler_LoginRejectsBadCredentials(t *testing.T) {
	ts, _ := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	}).Body.Close()

	for name, body := range map[string]map[string]string{
		"wrong password": {"email": "lin@alumni.edu", "password": "nope"},
		"unknown email":  {"email": "ghost@alumni.edu", "password": "nope"},
	} {
		resp := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", body)
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, resp.StatusCode)
		}
		if msg.Message != "Invalid credentials" {
			t.Errorf("%s: message = %q, must not vary by failure cause", name, msg.Message)
		}
	}
}

func TestHandler_SignupConflict(t *testing.T) {
	ts, _ := newTestServer(t)
	body := map[string]string{"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin"}

	doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", body).Body.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d, want 400", resp.StatusCode)
	}
}

func TestHandler_SignupValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("incomplete signup status = %d, want 400", resp.StatusCode)
	}
}

func TestHandler_VerifyWithoutToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/auth/verify", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("verify status = %d, want 401", resp.StatusCode)
	}
}

func TestHandler_ProfileIgnoresImmutableFields(t *testing.T) {
	ts, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	})
	signedUp := decodeAuthResponse(t, resp)

	// A hostile patch: immutable fields mixed with a legitimate one.
	resp = doJSON(t, http.MethodPut, ts.URL+"/auth/profile", signedUp.Token, map[string]any{
		"email":    "evil@alumni.edu",
		"role":     models.RoleAdmin,
		"password": "pwned",
		"name":     "Lin Chen",
		"company":  "Initech",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}

	stored, err := kv.GetAs[models.User](context.Background(), store, models.UserKeyPrefix+"lin@alumni.edu")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.Email != "lin@alumni.edu" || stored.Role != models.RoleUser {
		t.Errorf("immutable field changed: %+v", stored)
	}
	if stored.Name != "Lin Chen" || stored.Company != "Initech" {
		t.Errorf("legitimate patch fields not applied: %+v", stored)
	}

	// The original password must still work.
	login := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret",
	})
	defer login.Body.Close()
	if login.StatusCode != http.StatusOK {
		t.Errorf("login after hostile patch status = %d, want 200", login.StatusCode)
	}
}

func TestHandler_ProfileVanishedUser(t *testing.T) {
	ts, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	})
	signedUp := decodeAuthResponse(t, resp)

	if err := store.Delete(context.Background(), models.UserKeyPrefix+"lin@alumni.edu"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/auth/profile", signedUp.Token, map[string]string{
		"name": "Ghost",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("profile status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_Logout(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/signup", "", map[string]string{
		"email": "lin@alumni.edu", "password": "s3cret", "name": "Lin",
	})
	signedUp := decodeAuthResponse(t, resp)

	out := doJSON(t, http.MethodPost, ts.URL+"/auth/logout", signedUp.Token, nil)
	out.Body.Close()
	if out.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", out.StatusCode)
	}

	verify := doJSON(t, http.MethodGet, ts.URL+"/auth/verify", signedUp.Token, nil)
	defer verify.Body.Close()
	if verify.StatusCode != http.StatusUnauthorized {
		t.Errorf("verify after logout status = %d, want 401", verify.StatusCode)
	}
}
