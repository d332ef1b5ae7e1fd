package controllers

import (
	"blog-app/middlewares"
	"blog-app/models"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// PostsAPIHandler serves posts as JSON for the list views.
type PostsAPIHandler struct {
	Posts PostRepository
}

func (h *PostsAPIHandler) SetupPostRoutes(r *mux.Router) {
	r.HandleFunc("/api/posts.json", h.GetPosts).Methods("GET")

	postsRouter := r.PathPrefix("/api/posts").Subrouter()
	postsRouter.HandleFunc("", h.GetPosts).Methods("GET")
	postsRouter.HandleFunc("/new", h.NewPost).Methods("GET")
	postsRouter.HandleFunc("/new.json", h.NewPost).Methods("GET")
	postsRouter.HandleFunc("/{id}", h.GetPost).Methods("GET")
}

// GetPosts returns every post, unpublished ones included, unless
// ?published= narrows the list.
func (h *PostsAPIHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	var filter models.PostFilter
	if raw := r.URL.Query().Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			middlewares.JSONError(w, "Invalid published parameter", http.StatusBadRequest, err)
			return
		}
		filter.Published = &published
	}

	posts, err := h.Posts.ListAll(r.Context(), filter)
	if err != nil {
		middlewares.JSONError(w, "Failed to fetch posts", http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondJSON(w, posts, http.StatusOK)
}

func (h *PostsAPIHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		middlewares.JSONError(w, "Post not found", http.StatusNotFound, nil)
		return
	}

	post, err := h.Posts.FindByID(r.Context(), id)
	if errors.Is(err, models.ErrPostNotFound) {
		middlewares.JSONError(w, "Post not found", http.StatusNotFound, err)
		return
	}
	if err != nil {
		middlewares.JSONError(w, "Failed to fetch post", http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondJSON(w, post, http.StatusOK)
}

// NewPost returns an unsaved, blank post.
func (h *PostsAPIHandler) NewPost(w http.ResponseWriter, _ *http.Request) {
	middlewares.RespondJSON(w, models.NewPostScaffold(), http.StatusOK)
}

// parseID accepts a positive integer with an optional ".json" suffix.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, ".json"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
