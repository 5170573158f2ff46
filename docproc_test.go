package docproc

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonwraymond/docproc/config"
	"github.com/jonwraymond/docproc/tool"
)

func newTestPlugin(t *testing.T, handler http.HandlerFunc) *Plugin {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API: config.APIConfig{
			Endpoint: srv.URL,
			Key:      "up_testkey",
		},
	}

	p, err := New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(t.Context()); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return p
}

func TestPlugin_Parse(t *testing.T) {
	requests := 0
	p := newTestPlugin(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"content":{"markdown":"# Report"}}`)
	})

	in := tool.ParseInput{Document: []byte("doc bytes"), Filename: "report.pdf"}

	msg, err := p.Parse(t.Context(), in)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if msg.Text != "# Report" {
		t.Errorf("Text = %q, want # Report", msg.Text)
	}
	if msg.CacheHit {
		t.Error("first Parse reported a cache hit")
	}

	// Same document and parameters are served from the cache.
	msg, err = p.Parse(t.Context(), in)
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	if !msg.CacheHit {
		t.Error("second Parse missed the cache")
	}
	if requests != 1 {
		t.Errorf("remote requests = %d, want 1", requests)
	}

	stats := p.CacheStats()
	if stats.Hits != 1 || stats.Entries != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 entry", stats)
	}
}

func TestPlugin_Extract(t *testing.T) {
	p := newTestPlugin(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"total\":\"99.00\"}"}}]}`)
	})

	msg, err := p.Extract(t.Context(), tool.ExtractInput{
		Document: []byte("doc bytes"),
		Filename: "invoice.png",
		Schema:   `{"total": "grand total"}`,
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if msg.Type != tool.MessageJSON {
		t.Errorf("Type = %q, want json", msg.Type)
	}
	if string(msg.JSON) != `{"total":"99.00"}` {
		t.Errorf("JSON = %s", msg.JSON)
	}
}

func TestPlugin_ToolsKeyIndependently(t *testing.T) {
	requests := 0
	p := newTestPlugin(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Path {
		case "/document-digitization":
			fmt.Fprint(w, `{"content":{"markdown":"parsed"}}`)
		default:
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"a\":\"1\"}"}}]}`)
		}
	})

	doc := []byte("same document")
	if _, err := p.Parse(t.Context(), tool.ParseInput{Document: doc, Filename: "a.pdf"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// The extraction tool keys independently, so the same bytes still
	// trigger a remote call.
	msg, err := p.Extract(t.Context(), tool.ExtractInput{Document: doc, Filename: "a.pdf", Schema: `{"a": "x"}`})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if msg.CacheHit {
		t.Error("extraction hit the parse tool's cache entry")
	}
	if requests != 2 {
		t.Errorf("remote requests = %d, want 2", requests)
	}
}

func TestPlugin_ValidateCredentials(t *testing.T) {
	p := newTestPlugin(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if err := p.ValidateCredentials(t.Context()); err == nil {
		t.Error("expected credential error for 401 response")
	}
}

func TestPlugin_HealthEndpoints(t *testing.T) {
	p := newTestPlugin(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux := http.NewServeMux()
	RegisterHealthHandlers(mux, p)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rec.Code)
	}
}
