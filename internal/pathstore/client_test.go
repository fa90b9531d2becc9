package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/persona"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

type fakeStore struct {
	mu       sync.Mutex
	requests []recorded
	status   int
}

func (f *fakeStore) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.RequestURI(), body: body})
		status := f.status
		f.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		if r.Method == http.MethodGet && status == http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"key_path": strings.TrimPrefix(r.URL.Path, "/kv/"), "value": "x"})
			return
		}
		w.WriteHeader(status)
	}
}

func newFake(t *testing.T, status int) (*fakeStore, *Client) {
	t.Helper()
	f := &fakeStore{status: status}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "secret")
	t.Cleanup(c.Close)
	return f, c
}

func TestClient_StatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   bool
		retryable bool
	}{
		{"ok", http.StatusOK, false, false},
		{"created", http.StatusCreated, false, false},
		{"bad request", http.StatusBadRequest, true, false},
		{"rate limited", http.StatusTooManyRequests, true, true},
		{"server error", http.StatusBadGateway, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newFake(t, tt.status)
			err := c.PutNode(context.Background(), "a/b", NodeRequest{Value: 1})
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutNode err = %v, wantErr %v", err, tt.wantErr)
			}
			var re *RetryableError
			if got := errors.As(err, &re); got != tt.retryable {
				t.Errorf("retryable = %v, want %v (err %v)", got, tt.retryable, err)
			}
		})
	}
}

func TestClient_GetAndDelete(t *testing.T) {
	f, c := newFake(t, 0)
	ctx := context.Background()

	node, err := c.GetNode(ctx, "docsight/outlines/abc")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if node == nil || node.Key != "docsight/outlines/abc" {
		t.Errorf("unexpected node %+v", node)
	}

	if err := c.DeleteNode(ctx, "docsight/analyses/j1", true); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	last := f.requests[len(f.requests)-1]
	if last.method != http.MethodDelete || last.path != "/kv/docsight/analyses/j1?children=true" {
		t.Errorf("unexpected delete request %+v", last)
	}
}

func TestClient_NotFound(t *testing.T) {
	_, c := newFake(t, http.StatusNotFound)
	ctx := context.Background()

	node, err := c.GetNode(ctx, "missing")
	if err != nil || node != nil {
		t.Errorf("expected nil, nil for a missing node, got %+v, %v", node, err)
	}
	if err := c.DeleteNode(ctx, "missing", false); err != nil {
		t.Errorf("deleting a missing node should succeed, got %v", err)
	}
}

func TestClient_TransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret")
	err := c.PutLink(context.Background(), LinkRequest{From: "a", To: "b", Weight: 1})
	var re *RetryableError
	if !errors.As(err, &re) || re.StatusCode != 0 {
		t.Errorf("expected a retryable transport error, got %v", err)
	}
}

func TestMirror_PublishAnalysis(t *testing.T) {
	f, c := newFake(t, 0)
	m := NewMirror(c, "/team/")

	res := &persona.AnalysisResult{
		Metadata: persona.Metadata{Persona: "Food Contractor", JobToBeDone: "buffet"},
		ExtractedSections: []persona.RankedSection{
			{Document: "a.pdf", SectionTitle: "Gluten-Free Options", ImportanceRank: 1, PageNumber: 2},
			{Document: "b.pdf", SectionTitle: "Vegetarian Main Dishes!", ImportanceRank: 2, PageNumber: 1},
		},
		SubsectionAnalysis: []persona.SubsectionAnalysis{
			{Document: "a.pdf", RefinedText: "Rice dishes.", PageNumber: 2},
			{Document: "b.pdf", RefinedText: "Lasagna.", PageNumber: 1},
		},
	}
	if err := m.PublishAnalysis(context.Background(), "job-1", res); err != nil {
		t.Fatalf("PublishAnalysis: %v", err)
	}

	wantPaths := []string{
		"/kv/team/analyses/job-1",
		"/kv/team/analyses/job-1/sections/1-gluten-free-options",
		"/links",
		"/kv/team/analyses/job-1/sections/2-vegetarian-main-dishes",
		"/links",
	}
	if len(f.requests) != len(wantPaths) {
		t.Fatalf("expected %d requests, got %d: %+v", len(wantPaths), len(f.requests), f.requests)
	}
	for i, want := range wantPaths {
		if f.requests[i].path != want {
			t.Errorf("request %d path = %q, want %q", i, f.requests[i].path, want)
		}
	}

	link := f.requests[4].body
	if link["weight"] != 0.5 || link["from_key"] != "team/analyses/job-1" {
		t.Errorf("unexpected link body %+v", link)
	}
	section := f.requests[1].body["value"].(map[string]any)
	if section["refined_text"] != "Rice dishes." {
		t.Errorf("expected refined text on section node, got %+v", section)
	}
}

func TestMirror_Outline(t *testing.T) {
	f, c := newFake(t, 0)
	m := NewMirror(c, "")
	ctx := context.Background()

	res := &outline.Result{Title: "Report", Outline: []outline.HeadingEntry{{Level: outline.H1, Text: "Intro", Page: 1}}}
	if err := m.PublishOutline(ctx, "abc", "report.pdf", res); err != nil {
		t.Fatalf("PublishOutline: %v", err)
	}
	if err := m.DeleteOutline(ctx, "abc"); err != nil {
		t.Fatalf("DeleteOutline: %v", err)
	}
	if f.requests[0].path != "/kv/docsight/outlines/abc" || f.requests[1].method != http.MethodDelete {
		t.Errorf("unexpected requests %+v", f.requests)
	}
}

func TestMirror_HasOutline(t *testing.T) {
	ctx := context.Background()

	f, c := newFake(t, 0)
	ok, err := NewMirror(c, "team").HasOutline(ctx, "abc")
	if err != nil || !ok {
		t.Errorf("expected an existing node, got %v %v", ok, err)
	}
	if f.requests[0].method != http.MethodGet || f.requests[0].path != "/kv/team/outlines/abc" {
		t.Errorf("unexpected lookup %+v", f.requests[0])
	}

	_, c = newFake(t, http.StatusNotFound)
	if ok, err := NewMirror(c, "").HasOutline(ctx, "abc"); err != nil || ok {
		t.Errorf("expected a missing node, got %v %v", ok, err)
	}

	_, c = newFake(t, http.StatusBadGateway)
	var re *RetryableError
	if _, err := NewMirror(c, "").HasOutline(ctx, "abc"); !errors.As(err, &re) {
		t.Errorf("expected a retryable error, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Gluten-Free Options", "gluten-free-options"},
		{"  Hello,   World!  ", "hello-world"},
		{"***", "section"},
		{strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
