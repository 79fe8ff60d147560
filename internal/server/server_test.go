package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/metrics"
	"github.com/san-kum/vgsales/internal/scene"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *scene.Navigator) {
	t.Helper()
	records := []dataset.SalesRecord{
		{Name: "Wii Sports", Genre: "Sports", Year: "2006", GlobalSales: "82.74"},
		{Name: "Tetris", Genre: "Puzzle", Year: "1989", GlobalSales: "30.26"},
		{Name: "<Mario & Luigi>", Genre: "Role-Playing", Year: "2003", GlobalSales: "2.1"},
	}
	size := scene.DefaultSize
	scenes := []scene.Scene{
		scene.TopSalesScene(records, 10, size),
		{
			Title:     "Broken",
			Narrative: "Always *fails*.",
			Render: func(context.Context, *dom.Element) error {
				return errors.New("resource unavailable")
			},
		},
		scene.NewExplorer(records, size).Scene(),
	}
	nav, err := scene.NewNavigator(scenes, dom.NewHost())
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.RenderCurrent(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv, err := New(Config{Addr: "127.0.0.1:0"}, nav, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, nav
}

func do(srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(srv, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestPage(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(srv, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	page := w.Body.String()
	for _, want := range []string{
		"<h2>" + scene.TitleTopSales + "</h2>",
		`<rect class="bar"`,
		"&lt;Mario &amp; Luigi&gt;",
		"<strong>Wii Sports</strong>",
		`<button id="prev" type="submit" disabled>`,
		"1 / 3",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestNavigation(t *testing.T) {
	srv, nav := newTestServer(t)

	tests := []struct {
		method, target string
		wantCode       int
		wantIndex      int
	}{
		{http.MethodPost, "/prev", http.StatusSeeOther, 0},
		{http.MethodPost, "/next", http.StatusSeeOther, 1},
		{http.MethodPost, "/next", http.StatusSeeOther, 2},
		{http.MethodPost, "/next", http.StatusSeeOther, 2},
		{http.MethodPost, "/scenes/1", http.StatusSeeOther, 0},
		{http.MethodPost, "/scenes/9", http.StatusBadRequest, 0},
		{http.MethodPost, "/scenes/x", http.StatusBadRequest, 0},
		{http.MethodGet, "/next", http.StatusMethodNotAllowed, 0},
	}
	for _, tt := range tests {
		w := do(srv, tt.method, tt.target, nil)
		if w.Code != tt.wantCode {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.target, tt.wantCode, w.Code)
		}
		if nav.Index() != tt.wantIndex {
			t.Errorf("%s %s: expected index %d, got %d", tt.method, tt.target, tt.wantIndex, nav.Index())
		}
	}
}

func TestRenderFailureShowsPanel(t *testing.T) {
	srv, _ := newTestServer(t)
	if w := do(srv, http.MethodPost, "/scenes/2", nil); w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	page := do(srv, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(page, `class="scene-error"`) {
		t.Error("expected error panel")
	}
	if !strings.Contains(page, "<em>fails</em>") {
		t.Error("expected narrative rendered from markdown")
	}
}

func TestFilter(t *testing.T) {
	srv, nav := newTestServer(t)

	w := do(srv, http.MethodPost, "/filter", url.Values{"genre": {"Puzzle"}})
	if w.Code != http.StatusConflict {
		t.Errorf("filter on a scene without one: expected 409, got %d", w.Code)
	}

	do(srv, http.MethodPost, "/scenes/3", nil)
	w = do(srv, http.MethodPost, "/filter", url.Values{"genre": {"Puzzle"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if got := len(nav.Host().Content().FindAll(dom.ByClass("point"))); got != 1 {
		t.Errorf("expected 1 point, got %d", got)
	}

	w = do(srv, http.MethodPost, "/filter", url.Values{"genre": {"Racing"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown genre: expected 400, got %d", w.Code)
	}
}

func TestState(t *testing.T) {
	srv, _ := newTestServer(t)
	do(srv, http.MethodPost, "/scenes/3", nil)

	w := do(srv, http.MethodGet, "/api/state", nil)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	var snap scene.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Index != 2 || snap.Count != 3 {
		t.Errorf("expected scene 2 of 3, got %d of %d", snap.Index, snap.Count)
	}
	if snap.Filter == nil || snap.Filter.Selected != scene.AllGenres {
		t.Errorf("expected filter state, got %+v", snap.Filter)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(srv, http.MethodGet, "/static/app.js", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "genre-filter") {
		t.Error("app.js should wire the genre filter")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, WithMetrics(metrics.NewManager()))
	do(srv, http.MethodPost, "/next", nil)

	w := do(srv, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `vgsales_http_requests_total{method="POST",route="/next",status_code="303"} 1`) {
		t.Errorf("missing request counter:\n%s", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestServeAndShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	transport := &http.Transport{}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	transport.CloseIdleConnections()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("expected ErrServerClosed, got %v", err)
	}
}
