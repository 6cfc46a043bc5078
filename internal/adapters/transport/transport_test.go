package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newSceneServer(t *testing.T) (*httptest.Server, map[string][]byte) {
	t.Helper()
	var mu sync.Mutex
	docs := map[string][]byte{"/base.scene": []byte(`{"root": "world"}`)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			doc, ok := docs[r.URL.Path]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write(doc)
		case http.MethodPut:
			if r.URL.Path == "/readonly.scene" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			body, _ := io.ReadAll(r.Body)
			docs[r.URL.Path] = body
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, docs
}

func TestHTTP_FetchAndWrite(t *testing.T) {
	srv, docs := newSceneServer(t)
	h := NewHTTP(5 * time.Second)
	ctx := context.Background()

	data, err := h.Fetch(ctx, srv.URL+"/base.scene")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != `{"root": "world"}` {
		t.Errorf("unexpected body %q", data)
	}

	if err := h.Write(ctx, srv.URL+"/room.scene", []byte(`{"inherits": "./base.scene"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(docs["/room.scene"]) != `{"inherits": "./base.scene"}` {
		t.Errorf("server did not receive the document")
	}
}

func TestHTTP_StatusErrors(t *testing.T) {
	srv, _ := newSceneServer(t)
	h := NewHTTP(5 * time.Second)
	ctx := context.Background()

	_, err := h.Fetch(ctx, srv.URL+"/missing.scene")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}

	err = h.Write(ctx, srv.URL+"/readonly.scene", []byte("{}"))
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusForbidden {
		t.Errorf("expected 403 StatusError, got %v", err)
	}
}

type recordingTransport struct {
	fetched []string
	written []string
}

func (r *recordingTransport) Fetch(_ context.Context, uri string) ([]byte, error) {
	r.fetched = append(r.fetched, uri)
	return []byte("{}"), nil
}

func (r *recordingTransport) Write(_ context.Context, uri string, _ []byte) error {
	r.written = append(r.written, uri)
	return nil
}

func TestMux_RoutesByScheme(t *testing.T) {
	local := &recordingTransport{}
	remote := &recordingTransport{}
	mux := NewMux().Handle(local, "file", "").Handle(remote, "http", "https")
	ctx := context.Background()

	tests := []struct {
		uri  string
		want *recordingTransport
	}{
		{"file:///a.scene", local},
		{"/b.scene", local},
		{"https://h/c.scene", remote},
		{"HTTP://h/d.scene", remote},
	}
	for _, tt := range tests {
		if _, err := mux.Fetch(ctx, tt.uri); err != nil {
			t.Fatalf("Fetch(%s) failed: %v", tt.uri, err)
		}
		if got := tt.want.fetched[len(tt.want.fetched)-1]; got != tt.uri {
			t.Errorf("Fetch(%s) routed to the wrong transport", tt.uri)
		}
	}

	if err := mux.Write(ctx, "https://h/e.scene", nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(remote.written) != 1 || len(local.written) != 0 {
		t.Errorf("Write routed to the wrong transport")
	}

	if _, err := mux.Fetch(ctx, "ftp://h/f.scene"); err == nil {
		t.Errorf("expected unsupported scheme error")
	}
}
