package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bazaar/internal/assets"
	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/docstore"
	"bazaar/internal/http/handlers"
	"bazaar/internal/repos"
)

var (
	pngURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...))
	jpgURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(append([]byte("\xFF\xD8\xFF\xE0"), make([]byte, 16)...))
)

type testApp struct {
	app   *fiber.App
	repos *repos.Repos
}

// newTestApp mounts the API over a seeded in-memory store.
func newTestApp(t *testing.T, opts ...func(*handlers.Deps)) *testApp {
	t.Helper()
	ctx := context.Background()
	s, err := docstore.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	r := repos.New(s)
	if err := repos.Seed(ctx, r); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := config.Config{JWTSecret: strings.Repeat("s", 32), TokenTTL: time.Hour}
	deps := handlers.NewDeps(r, cfg, cache.NewMemory(), assets.NewLocal(t.TempDir(), "/media"))
	deps.LoginMax = 50
	for _, o := range opts {
		o(deps)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, BodyLimit: 1 << 20})
	app.Use(requestid.New())
	handlers.Mount(app, deps)
	return &testApp{app: app, repos: r}
}

type result struct {
	status int
	body   map[string]any
	raw    string
	resp   *http.Response
}

// do sends a JSON request; token, when set, goes in the Authorization header.
func (ta *testApp) do(t *testing.T, method, path, token string, body any) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ta.send(t, req)
}

func (ta *testApp) send(t *testing.T, req *http.Request) result {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	res := result{status: resp.StatusCode, raw: string(raw), resp: resp}
	_ = json.Unmarshal(raw, &res.body)
	return res
}

func (ta *testApp) login(t *testing.T, email string) string {
	t.Helper()
	res := ta.do(t, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": repos.SeedPassword})
	if res.status != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, res.status, res.raw)
	}
	tok, _ := res.body["token"].(string)
	if tok == "" {
		t.Fatalf("login %s: no token in %s", email, res.raw)
	}
	return tok
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}

func mustUnmarshal(t *testing.T, raw string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
}
