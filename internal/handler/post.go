package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mverner/inkwell/internal/domain"
	"github.com/mverner/inkwell/internal/service"
	"github.com/mverner/inkwell/internal/view"
)

// BlogHandler handles the post listing, detail, authoring, editing,
// deletion, commenting, and author-profile pages.
type BlogHandler struct {
	blog     *service.BlogService
	renderer *view.Renderer
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blog *service.BlogService, renderer *view.Renderer) *BlogHandler {
	return &BlogHandler{blog: blog, renderer: renderer}
}

// HandleIndex renders the post listing. It also dispatches the author
// profile route: "/{name}_blogs" cannot be expressed as a ServeMux pattern
// because wildcards must span a whole path segment, so the catch-all route
// peels it off here.
// GET /
func (h *BlogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		segment := strings.TrimPrefix(r.URL.Path, "/")
		if name, ok := strings.CutSuffix(segment, "_blogs"); ok && name != "" && !strings.Contains(name, "/") {
			h.handleAuthorProfile(w, r, name)
			return
		}
		http.NotFound(w, r)
		return
	}

	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		slog.Error("list posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderPage(h.renderer, w, r, "index", map[string]any{"Posts": posts})
}

// handleAuthorProfile lists all posts for the author id in the query. The
// display name comes straight from the path and is not cross-checked
// against the id; the two can disagree and the page will trust the name.
// GET /{name}_blogs?post_author_id=ID
func (h *BlogHandler) handleAuthorProfile(w http.ResponseWriter, r *http.Request, name string) {
	authorID, err := strconv.ParseInt(r.URL.Query().Get("post_author_id"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid post_author_id", http.StatusBadRequest)
		return
	}

	posts, err := h.blog.ListPostsByAuthor(r.Context(), authorID)
	if err != nil {
		slog.Error("list posts by author", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderPage(h.renderer, w, r, "my_blogs", map[string]any{
		"AuthorName": name,
		"AuthorID":   authorID,
		"Posts":      posts,
	})
}

// HandleShowPost renders a post with its comments and the comment form.
// GET /post/{postID}
func (h *BlogHandler) HandleShowPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	post, comments, err := h.blog.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderPage(h.renderer, w, r, "post", map[string]any{
		"Post":     post,
		"Comments": comments,
	})
}

// HandleAddComment creates a comment on a post as the current identity.
// Anonymous submissions are turned away to the login page and nothing is
// written.
// POST /post/{postID}
func (h *BlogHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	user := UserFromContext(r.Context())
	if user == nil {
		setFlash(w, "You need to login or register to comment.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err := h.blog.AddComment(r.Context(), user, postID, r.FormValue("comment"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrInvalidInput):
			setFlash(w, validationMessage(err))
			http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		default:
			slog.Error("add comment", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	// The comment is committed before this redirect, so the re-rendered
	// page always includes it.
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

// HandleNewPostForm renders the empty authoring form.
// GET /new-post (auth required)
func (h *BlogHandler) HandleNewPostForm(w http.ResponseWriter, r *http.Request) {
	renderPage(h.renderer, w, r, "make-post", map[string]any{"IsEdit": false})
}

// HandleCreatePost validates and persists a new post authored by the
// current identity, then returns to the listing.
// POST /new-post (auth required)
func (h *BlogHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	form := postForm(r)

	_, err := h.blog.CreatePost(r.Context(), user, form["Title"], form["Subtitle"], form["Body"], form["ImgURL"])
	if err != nil {
		h.redisplayPostForm(w, r, form, false, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleEditPostForm renders the authoring form pre-populated with the
// post's current values.
// GET /edit-post/{postID} (auth required)
func (h *BlogHandler) HandleEditPostForm(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	post, _, err := h.blog.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get post for edit", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	renderPage(h.renderer, w, r, "make-post", map[string]any{
		"IsEdit": true,
		"Form": map[string]string{
			"Title":    post.Title,
			"Subtitle": post.Subtitle,
			"ImgURL":   post.ImgURL,
			"Body":     post.Body,
		},
	})
}

// HandleEditPost overwrites the post's fields, reassigns it to the editing
// identity, and redirects to the detail page. The creation date is kept.
// POST /edit-post/{postID} (auth required)
func (h *BlogHandler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	user := UserFromContext(r.Context())
	form := postForm(r)

	post, err := h.blog.UpdatePost(r.Context(), user, postID, form["Title"], form["Subtitle"], form["Body"], form["ImgURL"])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.redisplayPostForm(w, r, form, true, err)
		return
	}
	http.Redirect(w, r, "/post/"+strconv.FormatInt(post.ID, 10), http.StatusSeeOther)
}

// HandleDeletePost removes a post; its comments cascade away with it.
// GET /delete/{postID} (auth required)
func (h *BlogHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.blog.DeletePost(r.Context(), UserFromContext(r.Context()), postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("delete post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BlogHandler) redisplayPostForm(w http.ResponseWriter, r *http.Request, form map[string]string, isEdit bool, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateTitle):
		renderPage(h.renderer, w, r, "make-post", map[string]any{
			"IsEdit": isEdit,
			"Form":   form,
			"Flash":  "That title is already taken, please choose another.",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		renderPage(h.renderer, w, r, "make-post", map[string]any{
			"IsEdit": isEdit,
			"Form":   form,
			"Flash":  validationMessage(err),
		})
	default:
		slog.Error("save post", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func postForm(r *http.Request) map[string]string {
	return map[string]string{
		"Title":    r.FormValue("title"),
		"Subtitle": r.FormValue("subtitle"),
		"Body":     r.FormValue("body"),
		"ImgURL":   r.FormValue("img_url"),
	}
}

// pathID parses the {postID} path segment, writing a 404 for garbage ids.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("postID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
