package controllers

import (
	"blog-app/middlewares"
	"blog-app/models"
	"blog-app/utils"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

// BlogHandler serves the public, server-rendered blog.
type BlogHandler struct {
	Posts   PostRepository
	Views   *template.Template
	PerPage int
}

type blogIndexPage struct {
	Title      string
	Posts      []models.Post
	Pagination utils.Pagination
}

type blogShowPage struct {
	Title string
	Post  models.Post
}

func (h *BlogHandler) SetupBlogRoutes(r *mux.Router) {
	blogRouter := r.PathPrefix("/blog").Subrouter()
	blogRouter.HandleFunc("", h.Index).Methods("GET")
	blogRouter.HandleFunc("/", h.Index).Methods("GET")
	blogRouter.HandleFunc("/{slug}", h.Show).Methods("GET")
}

func (h *BlogHandler) perPage() int {
	if h.PerPage > 0 {
		return h.PerPage
	}
	return utils.DefaultPerPage
}

// Index lists published posts, one page at a time.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := utils.ParsePage(r.URL.Query().Get("page"))

	posts, total, err := h.Posts.ListPublished(r.Context(), page, h.perPage())
	if err != nil {
		middlewares.HttpError(w, "Failed to fetch posts", http.StatusInternalServerError, err)
		return
	}

	middlewares.RenderHTML(w, h.Views, "blog/index", blogIndexPage{
		Title:      "Blog",
		Posts:      posts,
		Pagination: utils.NewPagination(page, h.perPage(), total),
	}, http.StatusOK)
}

// Show renders one published post by slug (or id).
func (h *BlogHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, err := h.Posts.FindPublished(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, models.ErrPostNotFound) {
		RenderNotFound(w, h.Views)
		return
	}
	if err != nil {
		middlewares.HttpError(w, "Failed to fetch post", http.StatusInternalServerError, err)
		return
	}

	middlewares.RenderHTML(w, h.Views, "blog/show", blogShowPage{Title: post.Title, Post: post}, http.StatusOK)
}

type notFoundPage struct {
	Title string
}

// RenderNotFound writes the HTML 404 page.
func RenderNotFound(w http.ResponseWriter, views *template.Template) {
	middlewares.RenderHTML(w, views, "errors/404", notFoundPage{Title: "Not found"}, http.StatusNotFound)
}
