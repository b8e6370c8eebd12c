package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mverner/inkwell/internal/domain"
	"github.com/mverner/inkwell/internal/service"
	"github.com/mverner/inkwell/internal/view"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	auth         *service.AuthService
	renderer     *view.Renderer
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, renderer *view.Renderer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, renderer: renderer, cookieSecure: cookieSecure}
}

// HandleRegisterForm renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(h.renderer, w, r, "register", nil)
}

// HandleRegister creates a new user and establishes their session.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	name := r.FormValue("name")
	password := r.FormValue("password")

	user, err := h.auth.Register(r.Context(), email, name, password)
	if err != nil {
		form := map[string]string{"Email": email, "Name": name}
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			renderPage(h.renderer, w, r, "register", map[string]any{
				"Flash": "Email already taken, Please try again.",
				"Form":  form,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			renderPage(h.renderer, w, r, "register", map[string]any{
				"Flash": validationMessage(err),
				"Form":  form,
			})
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.startSession(w, r, user)
}

// HandleLoginForm renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(h.renderer, w, r, "login", nil)
}

// HandleLogin verifies credentials and establishes a session. The failure
// message is the same whether the email is unknown or the password is
// wrong.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			renderPage(h.renderer, w, r, "login", map[string]any{
				"Flash": "Invalid Credentials! Please try again.",
				"Form":  map[string]string{"Email": email},
			})
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, r, user)
}

// HandleLogout clears the session and returns to the listing.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) {
	token, err := h.auth.IssueToken(user)
	if err != nil {
		slog.Error("issue session token", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, token, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
