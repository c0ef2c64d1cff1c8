package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ciallothu/bcm2711-deskpet-panel/pkg/sysinfo"
)

func testServer() *Server {
	s := NewServer("0")
	s.OnStatus = func() Status {
		return Status{
			System:    sysinfo.Snapshot{IP: "192.168.1.20", Online: true},
			Playback:  Playback{State: "playing", Sequence: "clip_a", FrameIndex: 3, FPS: 10},
			Sequences: []string{"", "clip_a"},
		}
	}
	s.OnRefresh = func() (int, error) { return 2, nil }
	s.OnSelect = func(key string) error {
		if key != "clip_a" && key != "" {
			return fmt.Errorf("%w: %q", ErrUnknownSequence, key)
		}
		return nil
	}
	return s
}

func TestHandleStatus(t *testing.T) {
	s := testServer()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var st Status
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("bad status JSON: %v", err)
	}
	if st.Playback.Sequence != "clip_a" || st.Playback.FrameIndex != 3 {
		t.Errorf("unexpected playback: %+v", st.Playback)
	}
	if !st.System.Online {
		t.Error("expected online system snapshot")
	}
}

func TestHandleSequences(t *testing.T) {
	s := testServer()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/sequences", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Sequences []string `json:"sequences"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(out.Sequences) != 2 {
		t.Errorf("expected 2 sequences, got %v", out.Sequences)
	}
}

func TestHandleRefresh(t *testing.T) {
	s := testServer()

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/refresh", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHandleSelect(t *testing.T) {
	s := testServer()

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/playback/clip_a", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("expected 200 for known key, got %d", resp.StatusCode)
	}

	resp, err = s.app.Test(httptest.NewRequest("POST", "/api/playback/nope", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 for unknown key, got %d", resp.StatusCode)
	}
}

func TestHandleSelect_RootAlias(t *testing.T) {
	s := testServer()

	var got string
	s.OnSelect = func(key string) error {
		got = key
		return nil
	}

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/playback/root", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if got != "" {
		t.Errorf("expected root alias to map to empty key, got %q", got)
	}
}

func TestHandleSelect_NestedKey(t *testing.T) {
	s := testServer()

	var got string
	s.OnSelect = func(key string) error {
		got = key
		return nil
	}

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/playback/pets/cat", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if got != "pets/cat" {
		t.Errorf("expected nested key to pass through, got %q", got)
	}
}

func TestHandlers_Unconfigured(t *testing.T) {
	s := NewServer("0")

	for _, req := range []struct{ method, path string }{
		{"GET", "/api/status"},
		{"POST", "/api/refresh"},
		{"POST", "/api/playback/x"},
	} {
		resp, err := s.app.Test(httptest.NewRequest(req.method, req.path, nil))
		if err != nil {
			t.Fatalf("%s %s failed: %v", req.method, req.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != 503 {
			t.Errorf("%s %s: expected 503, got %d", req.method, req.path, resp.StatusCode)
		}
	}
}
