// Package boardstore holds the in-memory board state: the node and edge
// arrays, the selection they carry, and the active settings. The Store is an
// explicitly owned single-writer object; every mutation funnels through its
// methods under one mutex, and layout/edge persistence happens through the
// local store as part of the mutation that caused it.
package boardstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/backyard-app/backyard-sync/graphutil"
	"github.com/backyard-app/backyard-sync/localstore"
	"github.com/backyard-app/backyard-sync/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrSelfLoop        = errors.New("cannot connect a card to itself")
	ErrUnknownEndpoint = errors.New("connection endpoint is not on the board")
)

// Connection is a user drag-connect between two nodes.
type Connection struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

type Store struct {
	mu sync.Mutex

	nodes    []models.Node
	edges    []models.Edge
	settings models.Settings

	hasUnsavedChanges bool

	local    *localstore.Store
	notifier Notifier
	log      *slog.Logger

	subscribers []chan struct{}
}

type Option func(*Store)

// WithSettings seeds the store with resolved board settings.
func WithSettings(s models.Settings) Option {
	return func(st *Store) { st.settings = s }
}

func New(local *localstore.Store, notifier Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = &LogNotifier{}
	}
	s := &Store{
		local:    local,
		notifier: notifier,
		log:      slog.Default(),
		settings: models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe returns a channel that receives a signal whenever the edge array
// changes. The channel has a buffer of one; coalesced signals are fine, the
// consumer re-reads state anyway.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) signalEdgeChangeLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SetNodes replaces the node array wholesale and marks the board dirty.
func (s *Store) SetNodes(nodes []models.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nodes
	s.hasUnsavedChanges = true
}

// SetEdges replaces the edge array wholesale and marks the board dirty.
func (s *Store) SetEdges(edges []models.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = edges
	s.hasUnsavedChanges = true
	s.signalEdgeChangeLocked()
}

// ApplyCardData refreshes node display data from authoritative card records.
func (s *Store) ApplyCardData(cards []models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = graphutil.UpdateNodesWithCardData(s.nodes, cards)
	s.hasUnsavedChanges = true
}

// ApplyNodeChanges applies a canvas change batch to the node array. Removals
// cascade: the removed ids are pruned from local storage and every edge
// touching them is removed through the edge-change path.
func (s *Store) ApplyNodeChanges(changes []graphutil.NodeChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed, err := graphutil.ApplyNodeChanges(s.nodes, changes)
	if err != nil {
		s.notifier.Error("could not update board: " + err.Error())
		return err
	}
	s.nodes = next
	s.hasUnsavedChanges = true

	if len(removed) == 0 {
		return nil
	}
	s.local.RemoveDeletedNodes(removed)

	gone := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	var cascade []graphutil.EdgeChange
	for _, e := range s.edges {
		if _, ok := gone[e.Source]; ok {
			cascade = append(cascade, graphutil.EdgeChange{Type: graphutil.EdgeChangeRemove, ID: e.ID})
			continue
		}
		if _, ok := gone[e.Target]; ok {
			cascade = append(cascade, graphutil.EdgeChange{Type: graphutil.EdgeChangeRemove, ID: e.ID})
		}
	}
	return s.applyEdgeChangesLocked(cascade)
}

// ApplyEdgeChanges applies a canvas change batch to the edge array.
func (s *Store) ApplyEdgeChanges(changes []graphutil.EdgeChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyEdgeChangesLocked(changes)
}

func (s *Store) applyEdgeChangesLocked(changes []graphutil.EdgeChange) error {
	if len(changes) == 0 {
		return nil
	}
	next, removed, err := graphutil.ApplyEdgeChanges(s.edges, changes)
	if err != nil {
		s.notifier.Error("could not update connections: " + err.Error())
		return err
	}
	s.edges = next
	s.hasUnsavedChanges = true

	if len(removed) > 0 {
		// Rewrite stored edges and drop any pending sync for deleted ones.
		s.local.SaveEdges(s.edges)
		for _, id := range removed {
			s.local.AckOutbox(id)
		}
	}
	s.signalEdgeChangeLocked()
	return nil
}

// ConnectNodes creates an edge for a user drag-connect. Self-loops and
// endpoints not on the board are rejected before any state change, with a
// single error notification. The new edge is stamped with the current
// settings, enqueued in the durable sync outbox, and persisted locally.
func (s *Store) ConnectNodes(conn Connection) (models.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn.Source == conn.Target {
		s.notifier.Error("cannot connect a card to itself")
		return models.Edge{}, ErrSelfLoop
	}
	if !s.hasNodeLocked(conn.Source) || !s.hasNodeLocked(conn.Target) {
		s.notifier.Error("both ends of a connection must be cards on the board")
		return models.Edge{}, ErrUnknownEndpoint
	}

	edge := graphutil.NewEdge(newEdgeID(), conn.Source, conn.Target, conn.SourceHandle, conn.TargetHandle, s.settings)
	edge.SyncStatus = models.SyncPending

	// The outbox entry goes in before the edge becomes visible, so a crash
	// between the two cannot lose an unsynced edge.
	if payload, err := json.Marshal(edge); err == nil {
		s.local.EnqueueOutbox(edge.ID, payload)
	} else {
		s.log.Error("marshal edge for outbox failed", "edge", edge.ID, "err", err)
	}

	s.edges = append(s.edges, edge)
	s.hasUnsavedChanges = true
	s.local.SaveEdges(s.edges)
	s.notifier.Success("cards connected")
	s.signalEdgeChangeLocked()
	return edge, nil
}

// AddNode places a card on the board and returns the node id. When the data
// names a card, the node id is the card id; otherwise a fresh id is minted.
func (s *Store) AddNode(data models.NodeData, pos models.Position) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := data.CardID
	if id == "" {
		id = newNodeID()
	}
	s.nodes = append(s.nodes, models.Node{
		ID:       id,
		Type:     models.NodeTypeCard,
		Position: pos,
		Data:     data,
	})
	s.hasUnsavedChanges = true
	s.local.SaveLayout(s.nodes)
	return id
}

// DeleteNode removes a node by synthesizing a remove change, so dependent
// edges cascade exactly as they do for canvas deletes.
func (s *Store) DeleteNode(id string) error {
	return s.ApplyNodeChanges([]graphutil.NodeChange{{Type: graphutil.NodeChangeRemove, ID: id}})
}

// SaveNodes flushes node positions to the local store.
func (s *Store) SaveNodes() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.SaveLayout(s.nodes)
}

// SaveEdges flushes the edge array to the local store. Success clears the
// dirty flag; failure is reported to the user.
func (s *Store) SaveEdges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.local.SaveEdges(s.edges) {
		s.notifier.Error("failed to save connections to local storage")
		return false
	}
	s.hasUnsavedChanges = false
	return true
}

// SaveAll flushes layout and edges together, with the adapter's AND-of-both
// result.
func (s *Store) SaveAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.local.SaveAllLayoutData(s.nodes, s.edges)
	if ok {
		s.hasUnsavedChanges = false
	}
	return ok
}

// UpdateAllEdgeStyles recomputes every edge's presentation from the current
// settings. When nothing would change, the edge array is left untouched and
// no update is signalled.
func (s *Store) UpdateAllEdgeStyles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateAllEdgeStylesLocked()
}

func (s *Store) updateAllEdgeStylesLocked() {
	if len(s.edges) == 0 {
		return
	}
	next := make([]models.Edge, len(s.edges))
	changed := false
	for i, e := range s.edges {
		restyled := graphutil.ApplyEdgeStyle(e, s.settings)
		if !graphutil.EdgePresentationEqual(restyled, e) {
			changed = true
		}
		next[i] = restyled
	}
	if !changed {
		return
	}
	s.edges = next
	s.hasUnsavedChanges = true
	s.signalEdgeChangeLocked()
}

// SetSettings swaps the active settings and reapplies presentation to all
// edges.
func (s *Store) SetSettings(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.Equal(settings) {
		return
	}
	s.settings = settings
	s.updateAllEdgeStylesLocked()
}

// MarkEdgeSyncStatus advances an edge's sync status. Used by the syncer.
func (s *Store) MarkEdgeSyncStatus(id string, status models.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.edges {
		if s.edges[i].ID == id {
			s.edges[i].SyncStatus = status
			return
		}
	}
}

// Nodes returns a snapshot copy of the node array.
func (s *Store) Nodes() []models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Node(nil), s.nodes...)
}

// Edges returns a snapshot copy of the edge array.
func (s *Store) Edges() []models.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Edge(nil), s.edges...)
}

// Settings returns the active board settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// HasUnsavedChanges reports whether in-memory state has diverged from the
// last explicit save.
func (s *Store) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasUnsavedChanges
}

func (s *Store) hasNodeLocked(id string) bool {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return true
		}
	}
	return false
}

func newEdgeID() string {
	nid, err := gonanoid.New(12)
	if err != nil {
		return fmt.Sprintf("edge-%d", time.Now().UnixNano())
	}
	return "edge-" + nid
}

func newNodeID() string {
	nid, err := gonanoid.New(12)
	if err != nil {
		return fmt.Sprintf("node-%d", time.Now().UnixNano())
	}
	return "node-" + nid
}
