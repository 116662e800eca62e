// Package localstore persists board state the way the browser build used
// localStorage: a handful of fixed keys, each holding one JSON blob. Save
// operations report success as a boolean and never panic; a storage failure
// is logged and the previously stored value is left untouched.
package localstore

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/backyard-app/backyard-sync/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage keys, stable across sessions.
const (
	LayoutKey    = "backyard-board-layout"
	EdgesKey     = "backyard-board-edges"
	TransformKey = "backyard-board-transform"
	SettingsKey  = "backyard-ideamap-settings"
)

// Store wraps the board database with the fixed-key blob contract.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, log: slog.Default()}
}

// storedPosition matches the layout blob shape: {nodeID: {"position": {x,y}}}.
type storedPosition struct {
	Position models.Position `json:"position"`
}

func (s *Store) write(key, value string) bool {
	entry := models.StorageEntry{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.log.Error("board storage write failed", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Store) read(key string) (string, bool) {
	var entry models.StorageEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("board storage read failed", "key", key, "err", err)
		}
		return "", false
	}
	return entry.Value, true
}

// SaveLayout writes every node's position under the layout key.
func (s *Store) SaveLayout(nodes []models.Node) bool {
	layout := make(map[string]storedPosition, len(nodes))
	for _, n := range nodes {
		layout[n.ID] = storedPosition{Position: n.Position}
	}
	buf, err := json.Marshal(layout)
	if err != nil {
		s.log.Error("marshal layout failed", "err", err)
		return false
	}
	return s.write(LayoutKey, string(buf))
}

// SaveEdges writes the full edge array under the edges key.
func (s *Store) SaveEdges(edges []models.Edge) bool {
	if edges == nil {
		edges = []models.Edge{}
	}
	buf, err := json.Marshal(edges)
	if err != nil {
		s.log.Error("marshal edges failed", "err", err)
		return false
	}
	return s.write(EdgesKey, string(buf))
}

// SaveAllLayoutData saves layout then edges and returns the AND of the two
// results. A partial failure (layout saved, edges not) still reports false;
// there is no compensating rollback, the next full save converges.
func (s *Store) SaveAllLayoutData(nodes []models.Node, edges []models.Edge) bool {
	layoutOK := s.SaveLayout(nodes)
	edgesOK := s.SaveEdges(edges)
	if layoutOK != edgesOK {
		s.log.Warn("partial board save", "layout", layoutOK, "edges", edgesOK)
	}
	return layoutOK && edgesOK
}

// LoadLayout returns the stored node positions keyed by node id. Malformed
// stored data is treated as absent.
func (s *Store) LoadLayout() (map[string]models.Position, bool) {
	raw, ok := s.read(LayoutKey)
	if !ok {
		return nil, false
	}
	var layout map[string]storedPosition
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		s.log.Warn("stored layout is malformed, ignoring", "err", err)
		return nil, false
	}
	positions := make(map[string]models.Position, len(layout))
	for id, sp := range layout {
		positions[id] = sp.Position
	}
	return positions, true
}

// LoadEdges returns the stored edge array.
func (s *Store) LoadEdges() ([]models.Edge, bool) {
	raw, ok := s.read(EdgesKey)
	if !ok {
		return nil, false
	}
	var edges []models.Edge
	if err := json.Unmarshal([]byte(raw), &edges); err != nil {
		s.log.Warn("stored edges are malformed, ignoring", "err", err)
		return nil, false
	}
	return edges, true
}

// SaveViewport writes the pan/zoom transform.
func (s *Store) SaveViewport(vp models.Viewport) bool {
	buf, err := json.Marshal(vp)
	if err != nil {
		s.log.Error("marshal viewport failed", "err", err)
		return false
	}
	return s.write(TransformKey, string(buf))
}

// LoadViewport returns the stored pan/zoom transform.
func (s *Store) LoadViewport() (*models.Viewport, bool) {
	raw, ok := s.read(TransformKey)
	if !ok {
		return nil, false
	}
	var vp models.Viewport
	if err := json.Unmarshal([]byte(raw), &vp); err != nil {
		s.log.Warn("stored viewport is malformed, ignoring", "err", err)
		return nil, false
	}
	return &vp, true
}

// SaveSettings caches the resolved board settings locally.
func (s *Store) SaveSettings(settings models.Settings) bool {
	buf, err := json.Marshal(settings)
	if err != nil {
		s.log.Error("marshal settings failed", "err", err)
		return false
	}
	return s.write(SettingsKey, string(buf))
}

// LoadSettings returns the locally cached board settings, if any.
func (s *Store) LoadSettings() (*models.Settings, bool) {
	raw, ok := s.read(SettingsKey)
	if !ok {
		return nil, false
	}
	// Unmarshal over defaults so fields a cached blob omits keep their
	// canonical values.
	settings := models.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn("stored settings are malformed, ignoring", "err", err)
		return nil, false
	}
	return &settings, true
}

// RemoveDeletedNodes drops the given node ids from the stored layout and
// removes any stored edge touching one of them. Silently no-ops when nothing
// is stored or the stored data is unreadable. Idempotent.
func (s *Store) RemoveDeletedNodes(deletedIDs []string) {
	if len(deletedIDs) == 0 {
		return
	}
	deleted := make(map[string]struct{}, len(deletedIDs))
	for _, id := range deletedIDs {
		deleted[id] = struct{}{}
	}

	if raw, ok := s.read(LayoutKey); ok {
		var layout map[string]storedPosition
		if err := json.Unmarshal([]byte(raw), &layout); err == nil {
			for id := range deleted {
				delete(layout, id)
			}
			if buf, err := json.Marshal(layout); err == nil {
				s.write(LayoutKey, string(buf))
			}
		}
	}

	if edges, ok := s.LoadEdges(); ok {
		kept := make([]models.Edge, 0, len(edges))
		for _, e := range edges {
			if _, gone := deleted[e.Source]; gone {
				continue
			}
			if _, gone := deleted[e.Target]; gone {
				continue
			}
			kept = append(kept, e)
		}
		s.SaveEdges(kept)
	}
}
