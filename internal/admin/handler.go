// Package admin serves the moderator-gated aggregation and deletion
// endpoints over the key-value store.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/models"
	"github.com/alumni-hub/backend/internal/respond"
)

// categoryPrefix maps the plural category names used in URLs to their
// key prefixes. An explicit table, so category naming never depends on
// English pluralization rules.
var categoryPrefix = map[string]string{
	"events": models.EventKeyPrefix,
	"jobs":   models.JobKeyPrefix,
	"news":   models.NewsKeyPrefix,
	"users":  models.UserKeyPrefix,
}

// DataResponse is the body of GET /admin/data. Empty categories
// serialize as [], never null.
type DataResponse struct {
	Events []json.RawMessage   `json:"events"`
	Jobs   []json.RawMessage   `json:"jobs"`
	News   []json.RawMessage   `json:"news"`
	Users  []models.PublicUser `json:"users"`
}

// Handler holds the admin HTTP handlers.
type Handler struct {
	store kv.Store
}

// NewHandler creates the admin handler set.
func NewHandler(store kv.Store) *Handler {
	return &Handler{store: store}
}

// Data handles GET /admin/data: a prefix scan per category. User
// records are re-encoded through the public view so the stored password
// hash never reaches the response.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.store.GetByPrefix(ctx, models.EventKeyPrefix)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	jobs, err := h.store.GetByPrefix(ctx, models.JobKeyPrefix)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	news, err := h.store.GetByPrefix(ctx, models.NewsKeyPrefix)
	if err != nil {
		h.storeFault(w, err)
		return
	}
	rawUsers, err := h.store.GetByPrefix(ctx, models.UserKeyPrefix)
	if err != nil {
		h.storeFault(w, err)
		return
	}

	users := make([]models.PublicUser, 0, len(rawUsers))
	for _, raw := range rawUsers {
		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			slog.Warn("skipping malformed user record", "error", err)
			continue
		}
		users = append(users, user.Public())
	}

	respond.JSON(w, http.StatusOK, DataResponse{
		Events: nonNil(events),
		Jobs:   nonNil(jobs),
		News:   nonNil(news),
		Users:  users,
	})
}

// Delete handles DELETE /admin/{category}/{id}. Deleting an absent id
// succeeds; the record is gone either way.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	prefix, ok := categoryPrefix[category]
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Unknown category")
		return
	}

	if err := h.store.Delete(r.Context(), prefix+id); err != nil {
		h.storeFault(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) storeFault(w http.ResponseWriter, err error) {
	slog.Error("admin store access failed", "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}

func nonNil(vals []json.RawMessage) []json.RawMessage {
	if vals == nil {
		return []json.RawMessage{}
	}
	return vals
}
