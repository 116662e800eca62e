package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/backyard-app/backyard-sync/models"
)

func TestCreateEdgeSendsPayloadAndAuth(t *testing.T) {
	var got CreateEdgeRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/edges" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(EdgeResponse{ID: "srv-1", Source: got.Source, Target: got.Target})
	}))
	defer srv.Close()

	c := New(srv.URL, "token-123")
	resp, err := c.CreateEdge(context.Background(), CreateEdgeRequest{
		Source: "a", Target: "b", SourceHandle: "right", ProjectID: "p1",
		Type: models.ConnectionLineBezier, Animated: true,
		Style: &models.EdgeStyle{Stroke: "#C1C1C1", StrokeWidth: 2},
	})
	if err != nil {
		t.Fatalf("create edge: %v", err)
	}
	if resp.ID != "srv-1" {
		t.Errorf("response id = %q", resp.ID)
	}
	if got.Source != "a" || got.Target != "b" || got.ProjectID != "p1" || got.SourceHandle != "right" {
		t.Errorf("payload wrong: %+v", got)
	}
	if auth != "Bearer token-123" {
		t.Errorf("auth header = %q", auth)
	}
}

func TestGetIdeaMapSettingsMergesOverDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "user-1" {
			t.Errorf("userId query missing: %s", r.URL.RawQuery)
		}
		// Server stores only the fields the user changed.
		w.Write([]byte(`{"settings":{"edgeColor":"#FF0000"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	got, err := c.GetIdeaMapSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if got == nil {
		t.Fatalf("expected settings, got nil")
	}
	want := models.DefaultSettings()
	want.EdgeColor = "#FF0000"
	if !got.Equal(want) {
		t.Fatalf("settings not merged over defaults:\n got %+v\nwant %+v", *got, want)
	}
}

func TestGetIdeaMapSettingsNullMeansNoRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"settings":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	got, err := c.GetIdeaMapSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for {settings: null}, got %+v", *got)
	}
}

func TestPatchIdeaMapSettingsBody(t *testing.T) {
	var body struct {
		UserID   string               `json:"userId"`
		Settings models.SettingsPatch `json:"settings"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	snap := true
	c := New(srv.URL, "")
	if err := c.PatchIdeaMapSettings(context.Background(), "user-1", models.SettingsPatch{SnapToGrid: &snap}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if body.UserID != "user-1" || body.Settings.SnapToGrid == nil || !*body.Settings.SnapToGrid {
		t.Fatalf("patch body wrong: %+v", body)
	}
	if body.Settings.EdgeColor != nil {
		t.Fatalf("unset patch fields must be omitted: %+v", body.Settings)
	}
}

func TestListCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cards" || r.URL.Query().Get("projectId") != "p1" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":"1","title":"A","cardTags":[{"tag":{"name":"go"}}]}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	cards, err := c.ListCards(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "A" {
		t.Fatalf("cards wrong: %+v", cards)
	}
	if names := cards[0].TagNames(); len(names) != 1 || names[0] != "go" {
		t.Fatalf("tag names wrong: %v", names)
	}
}

func TestSentinelErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "expired")
	_, err := c.ListCards(context.Background(), "p1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}
