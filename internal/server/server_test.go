package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akave-ai/logingest/internal/config"
	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/infrastructure/sources/localsource"
	"github.com/akave-ai/logingest/internal/ingest"
	"github.com/akave-ai/logingest/internal/model"
)

type memWriter struct {
	mu   sync.Mutex
	rows []model.NormalizedRow
}

func (w *memWriter) Insert(_ context.Context, rows []model.NormalizedRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, rows...)
	return nil
}

func newTestServer(t *testing.T, root string, w ingest.RowWriter) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Source.LocalRoot = root

	reg := sources.NewRegistry()
	reg.Register(&localsource.Factory{})
	reader, err := reg.Create(context.Background(), "local", cfg.Source.ReaderConfig())
	if err != nil {
		t.Fatalf("create reader: %v", err)
	}
	orch := ingest.New(reader, w, ingest.NewFetchPermits(cfg.Ingest.ParallelFiles), zerolog.Nop())
	return New(cfg, Deps{Ingester: orch, Sources: reg, Logger: zerolog.Nop()})
}

func do(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := do(newTestServer(t, t.TempDir(), &memWriter{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestServer_IngestEndToEnd(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "b", "f1.json"), []byte(`[{"event_type":"click"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := &memWriter{}
	srv := newTestServer(t, root, w)

	rec := do(srv, http.MethodPost, "/ingest", `{"ingestion_id":"abc","bucket":"b","files":["f1.json"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"OK","message":"Ingested"}` {
		t.Fatalf("unexpected body %s", got)
	}
	if len(w.rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(w.rows))
	}
	row := w.rows[0]
	if row.IngestionID != "abc" || row.EventType != "click" || row.ID == "" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestServer_MissingFileStillAnswers200(t *testing.T) {
	w := &memWriter{}
	rec := do(newTestServer(t, t.TempDir(), w), http.MethodPost, "/ingest", `{"ingestion_id":"abc","bucket":"b","files":["gone.json"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(w.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(w.rows))
	}
}

func TestServer_TelemetryRoutes(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), &memWriter{})
	for _, target := range []string{"/metrics", "/sources", "/sources/local", "/ingestions"} {
		if rec := do(srv, http.MethodGet, target, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}
	}
	if rec := do(srv, http.MethodGet, "/ingest", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET /ingest, got %d", rec.Code)
	}
}

type slowIngester struct {
	started  chan struct{}
	finished atomic.Bool
	delay    time.Duration
}

func (s *slowIngester) Ingest(_ context.Context, req model.IngestionRequest) (model.IngestionResult, error) {
	close(s.started)
	time.Sleep(s.delay)
	s.finished.Store(true)
	return model.IngestionResult{Status: model.IngestionStatusOK, FilesAttempted: len(req.Files)}, nil
}

func waitForListener(t *testing.T, srv *Server) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Echo.ListenerAddr(); addr != nil {
			return addr.String()
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("listener never came up")
	return ""
}

func TestServer_StartDrainsInFlightIngestion(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	ing := &slowIngester{started: make(chan struct{}), delay: 400 * time.Millisecond}
	srv := New(cfg, Deps{Ingester: ing, Sources: sources.NewRegistry(), Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- srv.Start(ctx) }()
	addr := waitForListener(t, srv)

	status := make(chan int, 1)
	go func() {
		resp, err := http.Post("http://"+addr+"/ingest", "application/json",
			strings.NewReader(`{"ingestion_id":"abc","bucket":"b","files":["f1.json"]}`))
		if err != nil {
			t.Errorf("post: %v", err)
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	select {
	case <-ing.started:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestion never started")
	}
	cancel()

	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if !ing.finished.Load() {
		t.Fatal("Start returned before the in-flight ingestion finished")
	}
	if code := <-status; code != http.StatusOK {
		t.Fatalf("expected the drained request to answer 200, got %d", code)
	}
}

func TestServer_StartShutdownTimeoutBoundsDrain(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 50 * time.Millisecond
	ing := &slowIngester{started: make(chan struct{}), delay: 2 * time.Second}
	srv := New(cfg, Deps{Ingester: ing, Sources: sources.NewRegistry(), Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- srv.Start(ctx) }()
	addr := waitForListener(t, srv)

	go func() {
		resp, err := http.Post("http://"+addr+"/ingest", "application/json",
			strings.NewReader(`{"ingestion_id":"abc","bucket":"b","files":["f1.json"]}`))
		if err == nil {
			resp.Body.Close()
		}
	}()
	select {
	case <-ing.started:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestion never started")
	}
	cancel()

	select {
	case err := <-stopped:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected drain deadline error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start ignored the shutdown timeout")
	}
}
