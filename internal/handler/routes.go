package handler

import (
	"net/http"

	"github.com/mverner/inkwell/internal/service"
	"github.com/mverner/inkwell/internal/view"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Wrap the mux in
// WithIdentity (and SecurityHeaders) before serving; RequireAuth assumes
// identity resolution has already happened.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, blog *service.BlogService, contact *service.ContactService, renderer *view.Renderer, cookieSecure bool) {
	authH := NewAuthHandler(auth, renderer, cookieSecure)
	blogH := NewBlogHandler(blog, renderer)
	contactH := NewContactHandler(contact, renderer)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /static/", view.StaticHandler())

	mux.HandleFunc("GET /register", authH.HandleRegisterForm)
	mux.HandleFunc("POST /register", authH.HandleRegister)
	mux.HandleFunc("GET /login", authH.HandleLoginForm)
	mux.HandleFunc("POST /login", authH.HandleLogin)
	mux.HandleFunc("GET /logout", authH.HandleLogout)

	mux.HandleFunc("GET /post/{postID}", blogH.HandleShowPost)
	mux.HandleFunc("POST /post/{postID}", blogH.HandleAddComment)

	mux.Handle("GET /new-post", RequireAuth(http.HandlerFunc(blogH.HandleNewPostForm)))
	mux.Handle("POST /new-post", RequireAuth(http.HandlerFunc(blogH.HandleCreatePost)))
	mux.Handle("GET /edit-post/{postID}", RequireAuth(http.HandlerFunc(blogH.HandleEditPostForm)))
	mux.Handle("POST /edit-post/{postID}", RequireAuth(http.HandlerFunc(blogH.HandleEditPost)))
	mux.Handle("GET /delete/{postID}", RequireAuth(http.HandlerFunc(blogH.HandleDeletePost)))

	mux.Handle("GET /contact", RequireAuth(http.HandlerFunc(contactH.HandleContactForm)))
	mux.Handle("POST /contact", RequireAuth(http.HandlerFunc(contactH.HandleContactSubmit)))

	// Catch-all: the listing at "/" and the "/{name}_blogs" author profile.
	mux.HandleFunc("GET /", blogH.HandleIndex)
}
