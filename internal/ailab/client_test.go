package ailab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resume/parse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["resume_text"] != "some resume" {
			t.Errorf("unexpected resume text %q", body["resume_text"])
		}
		_ = json.NewEncoder(w).Encode(ResumeParseResult{Name: "Jordan", Skills: []string{"legal writing"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 5*time.Second)
	out, err := c.ParseResume(context.Background(), "some resume")
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if out.Name != "Jordan" || len(out.Skills) != 1 {
		t.Fatalf("unexpected result %+v", out)
	}
}

func TestBackendErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := c.GenerateCoverLetter(context.Background(), CoverLetterRequest{
		ResumeText: "r", JobTitle: "Associate", CompanyName: "Firm",
	}); err == nil {
		t.Fatalf("expected backend error to surface")
	}
}
