// Package syncer pushes locally created edges to the backend. Edges enter
// the durable outbox when they are created; the syncer drains the outbox on
// every edge-array change and on a retry tick, and an entry only leaves the
// queue once the server acknowledges the create. A failed push therefore
// survives restarts instead of being dropped.
package syncer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/backyard-app/backyard-sync/boardstore"
	"github.com/backyard-app/backyard-sync/client"
	"github.com/backyard-app/backyard-sync/localstore"
	"github.com/backyard-app/backyard-sync/models"
	"github.com/google/uuid"
)

// EdgeCreator is the slice of the backend client the syncer needs.
type EdgeCreator interface {
	CreateEdge(ctx context.Context, req client.CreateEdgeRequest) (*client.EdgeResponse, error)
}

type Syncer struct {
	store     *boardstore.Store
	local     *localstore.Store
	api       EdgeCreator
	projectID string
	deviceID  string
	notifier  boardstore.Notifier
	log       *slog.Logger

	retryInterval time.Duration

	// onEdgeCreated runs after each acknowledged create; the agent uses it
	// to invalidate its cached card/edge queries.
	onEdgeCreated func()

	draining chan struct{} // size 1; serializes drains
}

type Option func(*Syncer)

// WithRetryInterval overrides how often queued entries are retried.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Syncer) { s.retryInterval = d }
}

// WithEdgeCreatedHook registers a callback invoked after each acked create.
func WithEdgeCreatedHook(fn func()) Option {
	return func(s *Syncer) { s.onEdgeCreated = fn }
}

func New(store *boardstore.Store, local *localstore.Store, api EdgeCreator, projectID string, notifier boardstore.Notifier, opts ...Option) *Syncer {
	if notifier == nil {
		notifier = &boardstore.LogNotifier{}
	}
	s := &Syncer{
		store:         store,
		local:         local,
		api:           api,
		projectID:     projectID,
		deviceID:      uuid.NewString(),
		notifier:      notifier,
		log:           slog.Default(),
		retryInterval: 15 * time.Second,
		draining:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeviceID identifies this agent instance in logs and diagnostics.
func (s *Syncer) DeviceID() string { return s.deviceID }

// Run drains the outbox until the context is cancelled: once at startup (to
// recover entries queued by a previous session), on every edge change, and
// on the retry tick.
func (s *Syncer) Run(ctx context.Context) error {
	events := s.store.Subscribe()
	ticker := time.NewTicker(s.retryInterval)
	defer ticker.Stop()

	s.Drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
			s.Drain(ctx)
		case <-ticker.C:
			s.Drain(ctx)
		}
	}
}

// Drain pushes every queued edge once. Drains are serialized: an edge in
// flight is never re-posted by an overlapping call. Returns the number of
// edges the server acknowledged.
func (s *Syncer) Drain(ctx context.Context) int {
	select {
	case s.draining <- struct{}{}:
		defer func() { <-s.draining }()
	default:
		return 0
	}

	pending, err := s.local.PendingOutbox()
	if err != nil {
		s.log.Error("read sync outbox failed", "err", err)
		return 0
	}

	synced := 0
	for _, entry := range pending {
		if ctx.Err() != nil {
			return synced
		}

		var edge models.Edge
		if err := json.Unmarshal([]byte(entry.Payload), &edge); err != nil {
			s.log.Warn("dropping malformed outbox entry", "edge", entry.ID, "err", err)
			s.local.AckOutbox(entry.ID)
			continue
		}

		s.store.MarkEdgeSyncStatus(edge.ID, models.SyncSyncing)
		req := client.CreateEdgeRequest{
			Source:       edge.Source,
			Target:       edge.Target,
			SourceHandle: edge.SourceHandle,
			TargetHandle: edge.TargetHandle,
			ProjectID:    s.projectID,
			Type:         edge.Type,
			Animated:     edge.Animated,
			Style:        &edge.Style,
			Data:         &edge.Data,
		}

		if _, err := s.api.CreateEdge(ctx, req); err != nil {
			s.local.MarkOutboxTried(entry.ID, err)
			s.store.MarkEdgeSyncStatus(edge.ID, models.SyncPending)
			s.notifier.Error("failed to sync connection: " + err.Error())
			s.log.Warn("edge sync failed, will retry", "edge", edge.ID, "attempts", entry.Attempts+1, "err", err)
			continue
		}

		s.local.AckOutbox(entry.ID)
		s.store.MarkEdgeSyncStatus(edge.ID, models.SyncSynced)
		s.notifier.Success("connection saved")
		s.log.Info("edge synced", "edge", edge.ID, "source", edge.Source, "target", edge.Target)
		synced++
		if s.onEdgeCreated != nil {
			s.onEdgeCreated()
		}
	}
	return synced
}
