package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"postfeed/feedproxy/internal/models"
	"postfeed/feedproxy/internal/server/pagination"
)

// PostPager returns an enriched page of posts.
type PostPager interface {
	Page(ctx context.Context, start, limit int) ([]models.Post, error)
}

// UserLister returns the users shown next to posts.
type UserLister interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds dependencies for the /api/v1 routes.
type Handler struct {
	posts PostPager
	users UserLister
}

// NewHandler creates a new handler instance.
func NewHandler(posts PostPager, users UserLister) *Handler {
	return &Handler{
		posts: posts,
		users: users,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/posts", h.GetPosts)
	mux.HandleFunc("GET /api/v1/users", h.GetUsers)
}

// GetPosts handles GET /api/v1/posts?start=&limit=.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	page, err := pagination.ParseOffset(r.URL.Query())
	if err != nil {
		log.Warn().Err(err).Str("query", r.URL.RawQuery).Msg("Invalid pagination parameters")
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	posts, err := h.posts.Page(r.Context(), page.Start, page.Limit)
	if err != nil {
		log.Error().Err(err).
			Int("start", page.Start).
			Int("limit", page.Limit).
			Msg("Error fetching posts")
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch posts"})
		return
	}

	log.Debug().Int("start", page.Start).Int("limit", page.Limit).Int("count", len(posts)).Msg("Posts served")
	writeJSON(w, r, http.StatusOK, posts)
}

// GetUsers handles GET /api/v1/users.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	users, err := h.users.FetchUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error fetching users")
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, r, http.StatusOK, users)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		log.Error().Err(err).Msg("Error writing JSON response body to client")
	}
}
