package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mverner/inkwell/internal/view"
)

// renderPage fills in the keys every template expects (User, LoggedIn,
// Flash, Form) and writes the named page. A handler that redisplays a form
// with an immediate message sets "Flash" itself; otherwise any pending
// flash cookie is consumed.
func renderPage(renderer *view.Renderer, w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	user := UserFromContext(r.Context())
	data["User"] = user
	data["LoggedIn"] = user != nil
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(w, r)
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, name, data); err != nil {
		slog.Error("render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// validationMessage turns a wrapped domain.ErrInvalidInput into user-facing
// copy: the sentinel prefix is stripped and the detail capitalized.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
