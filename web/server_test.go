package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecdlp/kangaroo"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	target := kangaroo.ScalarBaseMult(kangaroo.ScalarFromUint64(42))
	srv := NewServer(kangaroo.NewSolver(), Config{
		PubKey:     target.Hex(),
		RangeStart: "0",
		RangeEnd:   "100000",
		Threads:    2,
		DPBits:     32,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.solver.Stop)
	return srv, ts
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Running bool           `json:"running"`
		Stats   kangaroo.Stats `json:"stats"`
	}
	decodeBody(t, resp, &body)
	if body.Running {
		t.Error("fresh solver must not be running")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/start", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start = %d", resp.StatusCode)
	}

	// Double start conflicts.
	resp, err = http.Post(ts.URL+"/api/start", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second start = %d, want 409", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/stop", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop = %d", resp.StatusCode)
	}
}

func TestStartRejectsBadConfig(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/start", "application/json",
		strings.NewReader(`{"pubkey": "deadbeef"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("start with bad pubkey = %d, want 400", resp.StatusCode)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/config", "application/json",
		strings.NewReader(`{"threads": 4, "dp_bits": 20}`))
	if err != nil {
		t.Fatal(err)
	}
	var cfg Config
	decodeBody(t, resp, &cfg)
	if cfg.Threads != 4 || cfg.DPBits != 20 {
		t.Errorf("updated config = %+v", cfg)
	}
	if cfg.RangeEnd != "100000" {
		t.Error("unset fields must keep their previous values")
	}

	resp, err = http.Get(ts.URL + "/api/config")
	if err != nil {
		t.Fatal(err)
	}
	decodeBody(t, resp, &cfg)
	if cfg.Threads != 4 {
		t.Error("config update must persist")
	}
}

func TestCheckpointEndpoints(t *testing.T) {
	srv, ts := testServer(t)

	// No path configured anywhere: reject.
	resp, err := http.Post(ts.URL+"/api/checkpoint/save", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("save without path = %d, want 400", resp.StatusCode)
	}

	// Uninitialized solver with an explicit path: solver error surfaces
	// as 500.
	path := filepath.Join(t.TempDir(), "cp.json")
	body := `{"filename": "` + path + `"}`
	resp, err = http.Post(ts.URL+"/api/checkpoint/save", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("save before init = %d, want 500", resp.StatusCode)
	}

	// After a start/stop cycle, save succeeds and load restores.
	resp, err = http.Post(ts.URL+"/api/start", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	srv.solver.Stop()

	resp, err = http.Post(ts.URL+"/api/checkpoint/save", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/checkpoint/load", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load = %d, want 200", resp.StatusCode)
	}
}

func TestHistoryAccumulates(t *testing.T) {
	_, ts := testServer(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatal(err)
	}
	var history []sample
	decodeBody(t, resp, &history)
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
}
