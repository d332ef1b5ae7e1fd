package routes

import (
	"blog-app/controllers"
	"blog-app/middlewares"
	"html/template"
	"io/fs"
	"net"
	"net/http"

	"github.com/gorilla/mux"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Posts     controllers.PostRepository
	Views     *template.Template
	Assets    fs.FS
	AdminAuth middlewares.BasicAuthConfig
	Cors      *middlewares.CorsConfig
	Limiter   middlewares.Limiter
	// TrustedProxies may set X-Forwarded-For for rate limiting.
	TrustedProxies []*net.IPNet
	PerPage        int
}

// SetupRoutes sets up the application routes and middlewares.
func SetupRoutes(deps Dependencies) http.Handler {
	router := mux.NewRouter()

	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.FS(deps.Assets))))

	controllers.SetupRootRoute(router, deps.Views)

	blog := &controllers.BlogHandler{Posts: deps.Posts, Views: deps.Views, PerPage: deps.PerPage}
	blog.SetupBlogRoutes(router)

	api := &controllers.PostsAPIHandler{Posts: deps.Posts}
	api.SetupPostRoutes(router)

	admin := &controllers.AdminHandler{Posts: deps.Posts, Views: deps.Views}
	admin.SetupAdminRoutes(router, middlewares.BasicAuth(deps.AdminAuth))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		controllers.RenderNotFound(w, deps.Views)
	})

	// Global middlewares wrap the router so unmatched paths and preflight
	// requests pass through them too.
	var handler http.Handler = router
	if deps.Limiter != nil {
		handler = middlewares.Limit(deps.Limiter, deps.TrustedProxies)(handler)
	}
	if deps.Cors != nil {
		handler = middlewares.CorsMiddleware(deps.Cors)(handler)
	}
	handler = middlewares.LoggingMiddleware(handler)
	return middlewares.RequestID(handler)
}
