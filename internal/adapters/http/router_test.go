package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sceneforge/internal/application"
	"sceneforge/internal/application/commands"
)

type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, uri string) ([]byte, error) {
	doc, ok := m[uri]
	if !ok {
		return nil, fmt.Errorf("no document at %s", uri)
	}
	return []byte(doc), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	docs := mapFetcher{
		"file:///s/base.scene": `{"root": "world", "entities": {"table": {}, "cup": {"parent": "shelf"}}}`,
		"file:///s/room.scene": `{"inherits": "./base.scene", "entities": {"lamp": {"index": 0}}}`,
		"file:///s/bad.scene":  `{"root": `,
		"file:///s/loop.scene": `{"inherits": "./loop.scene"}`,
	}
	srv := httptest.NewServer(NewRouter(application.NewResolver(docs), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleAPIScene(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scene?uri=" + url.QueryEscape("file:///s/room.scene"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view application.SceneView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if view.Root.Name != "world" {
		t.Errorf("expected root world, got %s", view.Root.Name)
	}
	if view.Inherits != "file:///s/base.scene" {
		t.Errorf("unexpected inherits %q", view.Inherits)
	}
	if !view.Conflicts.Missing {
		t.Error("expected missing conflict from the dangling cup parent")
	}
	if len(view.Root.Children) == 0 || view.Root.Children[0].Name != "lamp" {
		t.Errorf("expected lamp first under root")
	}
}

func TestHandleAPIConflicts(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scene/conflicts?uri=" + url.QueryEscape("file:///s/base.scene"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var report commands.ConflictReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(report.MissingRoots) != 1 || report.MissingRoots[0] != "shelf" {
		t.Errorf("expected missing root shelf, got %v", report.MissingRoots)
	}
	if report.Duplicate {
		t.Error("expected no duplicates")
	}
}

func TestHandleAPISerialize(t *testing.T) {
	srv := newTestServer(t)

	body := `{"uri": "file:///s/room.scene", "target": "file:///s/copy/room.scene"}`
	resp, err := http.Post(srv.URL+"/api/scene/serialize", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc["inherits"] != "../base.scene" {
		t.Errorf("expected inherits relative to target, got %v", doc["inherits"])
	}
	if _, ok := doc["root"]; ok {
		t.Error("inheriting scene must not carry a root")
	}
}

func TestHandleAPI_Statuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing uri", http.MethodGet, "/api/scene", "", http.StatusBadRequest},
		{"relative uri", http.MethodGet, "/api/scene?uri=room.scene", "", http.StatusBadRequest},
		{"fetch failure", http.MethodGet, "/api/scene?uri=" + url.QueryEscape("file:///s/none.scene"), "", http.StatusBadGateway},
		{"parse failure", http.MethodGet, "/api/scene?uri=" + url.QueryEscape("file:///s/bad.scene"), "", http.StatusUnprocessableEntity},
		{"inheritance cycle", http.MethodGet, "/api/scene/conflicts?uri=" + url.QueryEscape("file:///s/loop.scene"), "", http.StatusUnprocessableEntity},
		{"bad payload", http.MethodPost, "/api/scene/serialize", "{", http.StatusBadRequest},
		{"payload without uri", http.MethodPost, "/api/scene/serialize", `{"target": "file:///x.scene"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}
