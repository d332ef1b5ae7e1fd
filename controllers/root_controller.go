package controllers

import (
	"blog-app/middlewares"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

type homePage struct {
	Title string
}

// SetupRootRoute serves the home page that mounts the post list script.
func SetupRootRoute(router *mux.Router, views *template.Template) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		middlewares.RenderHTML(w, views, "home/index", homePage{}, http.StatusOK)
	}).Methods("GET")
}
