// Package settings resolves the board's presentation settings from three
// sources in increasing priority: built-in defaults, the local store, and the
// user's remote settings record. Every failure falls back silently to the
// previous source; the final fallback is the one canonical default.
package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/backyard-app/backyard-sync/models"
)

// Local is the subset of the local store the resolver uses as its
// write-through cache.
type Local interface {
	LoadSettings() (*models.Settings, bool)
	SaveSettings(models.Settings) bool
}

// Remote is the backend settings surface.
type Remote interface {
	GetIdeaMapSettings(ctx context.Context, userID string) (*models.Settings, error)
	PatchIdeaMapSettings(ctx context.Context, userID string, partial models.SettingsPatch) error
}

type Resolver struct {
	local  Local
	remote Remote
	log    *slog.Logger
}

func NewResolver(local Local, remote Remote) *Resolver {
	return &Resolver{local: local, remote: remote, log: slog.Default()}
}

// Resolve returns the settings to use for this session. A successful remote
// fetch wins and is written through to the local cache; otherwise the cached
// copy wins; otherwise the defaults.
func (r *Resolver) Resolve(ctx context.Context, userID string) models.Settings {
	resolved := models.DefaultSettings()

	if cached, ok := r.local.LoadSettings(); ok {
		resolved = *cached
	}

	if r.remote == nil || userID == "" {
		return resolved
	}

	remote, err := r.remote.GetIdeaMapSettings(ctx, userID)
	if err != nil {
		r.log.Warn("remote settings unavailable, using cached/default", "err", err)
		return resolved
	}
	if remote == nil {
		// No settings stored for this user yet.
		return resolved
	}

	resolved = *remote
	r.local.SaveSettings(resolved)
	return resolved
}

// FetchRemote exposes the raw remote lookup: nil with no error means the
// server has no settings for the user, and the caller substitutes defaults.
func (r *Resolver) FetchRemote(ctx context.Context, userID string) (*models.Settings, error) {
	if r.remote == nil {
		return nil, fmt.Errorf("no remote settings source configured")
	}
	return r.remote.GetIdeaMapSettings(ctx, userID)
}

// UpdateOnServer PATCHes a partial settings update. The partial is merged
// into the local cache whether or not the server accepted it (best-effort
// optimistic write); a server failure is still reported to the caller.
func (r *Resolver) UpdateOnServer(ctx context.Context, userID string, partial models.SettingsPatch) error {
	var patchErr error
	if r.remote == nil {
		patchErr = fmt.Errorf("no remote settings source configured")
	} else {
		patchErr = r.remote.PatchIdeaMapSettings(ctx, userID, partial)
	}

	base := models.DefaultSettings()
	if cached, ok := r.local.LoadSettings(); ok {
		base = *cached
	}
	r.local.SaveSettings(base.Merge(partial))

	if patchErr != nil {
		r.log.Warn("settings update not persisted remotely, applied locally only", "err", patchErr)
		return fmt.Errorf("update ideamap settings: %w", patchErr)
	}
	return nil
}
