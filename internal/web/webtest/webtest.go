// Package webtest runs handlers against a fake classroom backend.
package webtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/session"
	"github.com/eureka-quiz/web/internal/web"
)

const cookieName = "eureka_client"

// Call is one request received by the fake backend.
type Call struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// Backend is a scripted classroom API.
type Backend struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []Call
}

// Handle registers a handler for pattern ("GET /api/classes/" style).
func (b *Backend) Handle(pattern string, fn http.HandlerFunc) {
	b.mux.HandleFunc(pattern, fn)
}

// JSON registers a fixed JSON reply.
func (b *Backend) JSON(pattern string, status int, body interface{}) {
	b.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// Calls returns the requests received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Find returns the last call matching method and path.
func (b *Backend) Find(method, path string) (Call, bool) {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Harness is a gin engine wired like the server, with one browser client.
type Harness struct {
	Engine   *gin.Engine
	Registry *clients.Registry
	Storage  *session.MemoryStorage
	Backend  *Backend
	ClientID string

	cookie *http.Cookie
}

// New builds a harness. routes registers the handlers under test.
func New(t *testing.T, routes func(r *gin.Engine)) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{mux: http.NewServeMux()}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := new(bytes.Buffer)
		_, _ = raw.ReadFrom(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: raw.Bytes()})
		b.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(raw.Bytes()))
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)

	storage := session.NewMemoryStorage()
	reg := clients.NewRegistry(storage, apiclient.Config{BaseURL: b.URL + "/api", Timeout: 2 * time.Second}, nil)
	tokens := clients.NewTokenService("test-secret", time.Hour)

	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	r.Use(middleware.Client(reg, tokens, middleware.CookieOptions{Name: cookieName, MaxAge: 3600}, nil))
	routes(r)

	id := clients.NewClientID()
	signed, err := tokens.Issue(id)
	require.NoError(t, err)

	return &Harness{
		Engine:   r,
		Registry: reg,
		Storage:  storage,
		Backend:  b,
		ClientID: id,
		cookie:   &http.Cookie{Name: cookieName, Value: signed},
	}
}

// Client returns the harness browser's state.
func (h *Harness) Client() *clients.Client {
	return h.Registry.Get(context.Background(), h.ClientID)
}

// Login installs a session for the harness browser.
func (h *Harness) Login(t *testing.T, s models.Session) {
	t.Helper()
	require.NoError(t, h.Client().Session.Login(context.Background(), s))
}

// LoginAs installs a session with role.
func (h *Harness) LoginAs(t *testing.T, role models.Role) {
	h.Login(t, models.Session{Username: "user-" + string(role), AccessToken: "tok-" + string(role), Role: role})
}

// Cookie is the harness browser's identity cookie.
func (h *Harness) Cookie() *http.Cookie {
	return h.cookie
}

// Get performs a GET as the harness browser.
func (h *Harness) Get(path string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostForm performs a form POST as the harness browser.
func (h *Harness) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// PostJSON performs a JSON POST as the harness browser.
func (h *Harness) PostJSON(path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return h.do(req)
}

func (h *Harness) do(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(h.cookie)
	w := httptest.NewRecorder()
	h.Engine.ServeHTTP(w, req)
	return w
}

// Flash drains the browser's pending notifications.
func (h *Harness) Flash() []string {
	var out []string
	for _, n := range h.Client().Notes.Drain() {
		out = append(out, n.Message)
	}
	return out
}
