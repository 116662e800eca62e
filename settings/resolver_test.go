package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/backyard-app/backyard-sync/models"
)

type fakeLocal struct {
	cached *models.Settings
	saves  int
}

func (f *fakeLocal) LoadSettings() (*models.Settings, bool) {
	if f.cached == nil {
		return nil, false
	}
	c := *f.cached
	return &c, true
}

func (f *fakeLocal) SaveSettings(s models.Settings) bool {
	f.cached = &s
	f.saves++
	return true
}

type fakeRemote struct {
	settings *models.Settings
	getErr   error
	patchErr error
	patches  []models.SettingsPatch
}

func (f *fakeRemote) GetIdeaMapSettings(ctx context.Context, userID string) (*models.Settings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.settings, nil
}

func (f *fakeRemote) PatchIdeaMapSettings(ctx context.Context, userID string, partial models.SettingsPatch) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, partial)
	return nil
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	r := NewResolver(&fakeLocal{}, &fakeRemote{getErr: errors.New("down")})
	got := r.Resolve(context.Background(), "user-1")
	if !got.Equal(models.DefaultSettings()) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestResolvePrefersLocalCacheOverDefaults(t *testing.T) {
	cached := models.DefaultSettings()
	cached.EdgeColor = "#111111"
	r := NewResolver(&fakeLocal{cached: &cached}, &fakeRemote{getErr: errors.New("down")})

	got := r.Resolve(context.Background(), "user-1")
	if got.EdgeColor != "#111111" {
		t.Fatalf("cached settings ignored: %+v", got)
	}
}

func TestResolvePrefersRemoteAndWritesThrough(t *testing.T) {
	cached := models.DefaultSettings()
	cached.EdgeColor = "#111111"
	remote := models.DefaultSettings()
	remote.EdgeColor = "#222222"

	local := &fakeLocal{cached: &cached}
	r := NewResolver(local, &fakeRemote{settings: &remote})

	got := r.Resolve(context.Background(), "user-1")
	if got.EdgeColor != "#222222" {
		t.Fatalf("remote settings should win: %+v", got)
	}
	if local.cached.EdgeColor != "#222222" || local.saves != 1 {
		t.Fatalf("remote settings not written through: %+v saves=%d", local.cached, local.saves)
	}
}

func TestResolveWithNoRemoteRecordKeepsCache(t *testing.T) {
	cached := models.DefaultSettings()
	cached.EdgeColor = "#111111"
	local := &fakeLocal{cached: &cached}
	// Server answers {"settings": null}: no record for this user.
	r := NewResolver(local, &fakeRemote{settings: nil})

	got := r.Resolve(context.Background(), "user-1")
	if got.EdgeColor != "#111111" {
		t.Fatalf("nil remote record should not clobber cache: %+v", got)
	}
	if local.saves != 0 {
		t.Fatalf("nil remote record should not write through")
	}
}

func TestFetchRemoteReturnsNilForMissingRecord(t *testing.T) {
	r := NewResolver(&fakeLocal{}, &fakeRemote{settings: nil})
	got, err := r.FetchRemote(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing record, got %+v", got)
	}
}

func TestResolveSkipsRemoteWithoutUserID(t *testing.T) {
	remote := &fakeRemote{getErr: errors.New("should not be called")}
	r := NewResolver(&fakeLocal{}, remote)
	got := r.Resolve(context.Background(), "")
	if !got.Equal(models.DefaultSettings()) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestUpdateOnServerMergesAndPatches(t *testing.T) {
	cached := models.DefaultSettings()
	local := &fakeLocal{cached: &cached}
	remote := &fakeRemote{}
	r := NewResolver(local, remote)

	color := "#ABCDEF"
	err := r.UpdateOnServer(context.Background(), "user-1", models.SettingsPatch{EdgeColor: &color})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(remote.patches) != 1 {
		t.Fatalf("patch not sent: %d", len(remote.patches))
	}
	if local.cached.EdgeColor != "#ABCDEF" {
		t.Fatalf("patch not merged into cache: %+v", local.cached)
	}
	// Untouched fields keep their values.
	if local.cached.StrokeWidth != models.DefaultSettings().StrokeWidth {
		t.Fatalf("merge clobbered unrelated field: %+v", local.cached)
	}
}

func TestUpdateOnServerFailureStillMergesLocally(t *testing.T) {
	local := &fakeLocal{}
	r := NewResolver(local, &fakeRemote{patchErr: errors.New("offline")})

	animated := true
	err := r.UpdateOnServer(context.Background(), "user-1", models.SettingsPatch{AnimatedEdges: &animated})
	if err == nil {
		t.Fatalf("expected error from failed patch")
	}
	if local.cached == nil || !local.cached.AnimatedEdges {
		t.Fatalf("optimistic local merge missing: %+v", local.cached)
	}
}
