package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/models"
)

func newTestRouter(store kv.Store) *chi.Mux {
	h := NewHandler(store)
	r := chi.NewRouter()
	r.Get("/admin/data", h.Data)
	r.Delete("/admin/{category}/{id}", h.Delete)
	return r
}

func seedContent(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()
	records := map[string]any{
		"event:e1": map[string]string{"id": "e1", "title": "Alumni Mixer", "date": "2026-09-12"},
		"event:e2": map[string]string{"id": "e2", "title": "Career Fair", "date": "2026-10-01"},
		"job:j1":   map[string]string{"id": "j1", "title": "Backend Engineer", "company": "Initech"},
		"news:n1":  map[string]string{"id": "n1", "title": "New Library Wing", "date": "2026-08-20"},
		"user:lin@alumni.edu": models.User{
			ID:           "u-1",
			Email:        "lin@alumni.edu",
			PasswordHash: "$2a$10$notarealhashbutsecret",
			Name:         "Lin",
			Role:         models.RoleUser,
		},
	}
	for key, val := range records {
		if err := store.Set(ctx, key, val); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

func TestData_AggregatesAllCategories(t *testing.T) {
	store := kv.NewMemoryStore()
	seedContent(t, store)
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res DataResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Events) != 2 || len(res.Jobs) != 1 || len(res.News) != 1 || len(res.Users) != 1 {
		t.Errorf("unexpected counts: events=%d jobs=%d news=%d users=%d",
			len(res.Events), len(res.Jobs), len(res.News), len(res.Users))
	}
	if res.Users[0].Email != "lin@alumni.edu" {
		t.Errorf("unexpected user: %+v", res.Users[0])
	}
}

func TestData_NeverExposesPasswords(t *testing.T) {
	store := kv.NewMemoryStore()
	seedContent(t, store)
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/data", nil))

	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "passwordHash") {
		t.Errorf("response leaks a password field: %s", body)
	}
	if strings.Contains(body, "notarealhashbutsecret") {
		t.Error("response leaks the stored hash value")
	}
}

func TestData_EmptyCategoriesAreArrays(t *testing.T) {
	router := newTestRouter(kv.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/data", nil))

	body := rec.Body.String()
	if strings.Contains(body, "null") {
		t.Errorf("empty categories must serialize as [], got: %s", body)
	}
}

func TestDelete_RemovesExactlyOneRecord(t *testing.T) {
	store := kv.NewMemoryStore()
	seedContent(t, store)
	router := newTestRouter(store)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/events/e1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	if _, err := store.Get(ctx, "event:e1"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("event:e1 should be deleted, got %v", err)
	}
	// Neighbors under the same and other prefixes are untouched.
	for _, key := range []string{"event:e2", "job:j1", "news:n1", "user:lin@alumni.edu"} {
		if _, err := store.Get(ctx, key); err != nil {
			t.Errorf("%s should survive the delete, got %v", key, err)
		}
	}
}

func TestDelete_AbsentIDSucceeds(t *testing.T) {
	router := newTestRouter(kv.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/jobs/no-such-id", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDelete_UnknownCategory(t *testing.T) {
	store := kv.NewMemoryStore()
	seedContent(t, store)
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/gala/e1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
