package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/plotgrid/pkg/cache"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/pipeline"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

const testChart = `
title = "Service"
width = 200
height = 100

[root]
type = "table"

[[root.cells]]
row = 0
col = 0
[root.cells.node]
type = "panel"
name = "bg"
fill = "#336699"
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, log.New(io.Discard))
	ts := httptest.NewServer(New(runner, nil).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/toml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", resp.StatusCode, body)
	}
}

func TestFonts(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/fonts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Default  string   `json:"default"`
		Families []string `json:"families"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Default == "" || len(body.Families) == 0 {
		t.Errorf("GET /fonts = %+v", body)
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)

	first := post(t, ts.URL+"/render?width=320", testChart)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", first.StatusCode)
	}
	if ct := first.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := uuid.Parse(first.Header.Get("X-Run-ID")); err != nil {
		t.Errorf("X-Run-ID %q is not a uuid: %v", first.Header.Get("X-Run-ID"), err)
	}
	if got := first.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	var svg bytes.Buffer
	if _, err := svg.ReadFrom(first.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg.String(), `viewBox="0 0 320 100"`) {
		t.Errorf("svg does not use the width override:\n%s", svg.String())
	}

	second := post(t, ts.URL+"/render?width=320", testChart)
	if got := second.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/layout", testChart)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	snap, err := snapshot.ReadJSON(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Width != 200 || snap.Height != 100 || len(snap.Nodes) != 2 {
		t.Errorf("snapshot = %vx%v with %d nodes", snap.Width, snap.Height, len(snap.Nodes))
	}
	if n, ok := snap.Find("bg"); !ok || n.Rect.Size.Width != 200 {
		t.Errorf("bg = %+v, %v", n, ok)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		body     string
		wantCode int
		wantErr  errors.Code
	}{
		{"bad toml", "", "title = ", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown type", "", "width = 10\nheight = 10\n[root]\ntype = \"circle\"\n", http.StatusUnprocessableEntity, errors.ErrCodeConfiguration},
		{"bad width", "?width=wide", testChart, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "?format=gif", testChart, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"negative size", "?height=-5", testChart, http.StatusBadRequest, errors.ErrCodeInvalidSize},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/render"+tt.query, tt.body)
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantErr || body.Error == "" {
				t.Errorf("body = %+v, want code %s", body, tt.wantErr)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidSize, "x"), http.StatusBadRequest},
		{errors.Precondition("x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
