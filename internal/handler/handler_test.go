package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/mverner/inkwell/internal/domain"
	"github.com/mverner/inkwell/internal/handler"
	"github.com/mverner/inkwell/internal/repository/sqlite"
	"github.com/mverner/inkwell/internal/service"
	"github.com/mverner/inkwell/internal/view"
)

const (
	testSessionSecret = "test-secret-for-handler-tests-0123456789"
	// Low work factor keeps the suite fast.
	testIterations = 1000
)

// recordingMailer captures messages instead of delivering them.
type recordingMailer struct {
	sent []domain.Message
}

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testApp struct {
	auth    *service.AuthService
	blog    *service.BlogService
	contact *service.ContactService
	mailer  *recordingMailer
	db      *sqlite.DB
	root    http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	renderer, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}

	mailer := &recordingMailer{}
	auth := service.NewAuthService(db.Users(), testSessionSecret, testIterations)
	blog := service.NewBlogService(db.Posts(), db.Comments())
	contact := service.NewContactService(db.Users(), mailer)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, blog, contact, renderer, false)

	return &testApp{
		auth:    auth,
		blog:    blog,
		contact: contact,
		mailer:  mailer,
		db:      db,
		root:    handler.WithIdentity(auth, mux),
	}
}

// newTestClient returns a client with a cookie jar that never follows
// redirects, so each response's status and Location can be asserted.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// registerVia posts the registration form and asserts the redirect to the
// listing, leaving the session cookie in the client's jar.
func registerVia(t *testing.T, client *http.Client, srvURL, email, name, password string) {
	t.Helper()
	resp, err := client.PostForm(srvURL+"/register", url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register: expected 303 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("register: expected redirect to /, got %s", loc)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func newTestServer(t *testing.T, app *testApp) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(app.root)
	t.Cleanup(srv.Close)
	return srv
}
