package controllers

import (
	"blog-app/middlewares"
	"blog-app/models"
	"blog-app/validation"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

// AdminHandler serves the /admin namespace. Every route sits behind gate.
type AdminHandler struct {
	Posts PostRepository
	Views *template.Template
}

type dashboardPage struct {
	Title  string
	Stats  models.PostStats
	Drafts int
}

// postInput is the body accepted by create and update.
type postInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary"`
	Published bool   `json:"published"`
}

func (in postInput) toPost(id int64) models.Post {
	return models.Post{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Summary:   in.Summary,
		Published: in.Published,
	}
}

func (h *AdminHandler) SetupAdminRoutes(r *mux.Router, gate func(http.Handler) http.Handler) {
	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(gate)
	adminRouter.HandleFunc("", h.Dashboard).Methods("GET")
	adminRouter.HandleFunc("/posts", h.CreatePost).Methods("POST")
	adminRouter.HandleFunc("/posts/{id}", h.UpdatePost).Methods("PUT")
	adminRouter.HandleFunc("/posts/{id}", h.DeletePost).Methods("DELETE")
	// Anything else under /admin/ still goes through the gate.
	adminRouter.PathPrefix("/").HandlerFunc(h.Fallback)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Posts.Stats(r.Context())
	if err != nil {
		middlewares.HttpError(w, "Failed to load dashboard", http.StatusInternalServerError, err)
		return
	}

	middlewares.RenderHTML(w, h.Views, "admin/dashboard", dashboardPage{
		Title:  "Admin",
		Stats:  stats,
		Drafts: stats.Total - stats.Published,
	}, http.StatusOK)
}

// Fallback renders the dashboard for other GET paths and rejects any
// other method.
func (h *AdminHandler) Fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middlewares.JSONError(w, "Method not allowed", http.StatusMethodNotAllowed, nil)
		return
	}
	h.Dashboard(w, r)
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middlewares.JSONError(w, "Invalid JSON payload", http.StatusBadRequest, err)
		return
	}

	post := input.toPost(0)
	if err := h.Posts.Create(r.Context(), &post); err != nil {
		writeStoreError(w, "Failed to create post", err)
		return
	}

	middlewares.RespondJSON(w, post, http.StatusCreated)
}

func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		middlewares.JSONError(w, "Post not found", http.StatusNotFound, nil)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middlewares.JSONError(w, "Invalid JSON payload", http.StatusBadRequest, err)
		return
	}

	post := input.toPost(id)
	if err := h.Posts.Update(r.Context(), &post); err != nil {
		writeStoreError(w, "Failed to update post", err)
		return
	}

	middlewares.RespondJSON(w, post, http.StatusOK)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		middlewares.JSONError(w, "Post not found", http.StatusNotFound, nil)
		return
	}

	if err := h.Posts.Delete(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to delete post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, message string, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		middlewares.RespondJSON(w, map[string][]string{"errors": verr.Errors}, http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrPostNotFound):
		middlewares.JSONError(w, "Post not found", http.StatusNotFound, err)
	default:
		middlewares.JSONError(w, message, http.StatusInternalServerError, err)
	}
}
