package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestIntegration_RegisterPostLogoutComment(t *testing.T) {
	app := newTestApp(t)
	srv := newTestServer(t, app)
	client := newTestClient(t)

	// 1. Register and land on the listing with an authenticated session.
	registerVia(t, client, srv.URL, "a@x.com", "Ann", "pw123456")

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Log Out") {
		t.Fatal("expected an authenticated navigation after registration")
	}

	// 2. Create a post and find it on the listing with author and date.
	resp, err = client.PostForm(srv.URL+"/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"body":     {"B1"},
		"img_url":  {"http://x/i.png"},
	})
	if err != nil {
		t.Fatalf("POST /new-post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("create post: expected redirect to listing, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body = readBody(t, resp)
	today := time.Now().Format("January 02, 2006")
	for _, want := range []string{"T1", "Ann", today} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q on the listing", want)
		}
	}

	posts, err := app.blog.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected exactly one post, got %d", len(posts))
	}
	postID := posts[0].ID

	// 3. Log out; the detail page still shows the comment form.
	resp, err = client.Get(srv.URL + "/logout")
	if err != nil {
		t.Fatalf("GET /logout: %v", err)
	}
	resp.Body.Close()

	detailURL := fmt.Sprintf("%s/post/%d", srv.URL, postID)
	resp, err = client.Get(detailURL)
	if err != nil {
		t.Fatalf("GET post detail: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, `name="comment"`) {
		t.Fatal("expected the comment form present while logged out")
	}

	// 4. Submitting it anonymously redirects to login and writes nothing.
	resp, err = client.PostForm(detailURL, url.Values{"comment": {"sneaky"}})
	if err != nil {
		t.Fatalf("POST comment: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	n, err := app.db.Comments().CountByPost(context.Background(), postID)
	if err != nil {
		t.Fatalf("CountByPost: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero comments, got %d", n)
	}

	// The login page shows the flash explaining the redirect.
	resp, err = client.Get(srv.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "You need to login or register to comment.") {
		t.Fatal("expected the comment-login flash on the login page")
	}
}
