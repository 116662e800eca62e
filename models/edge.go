package models

// SyncStatus tracks an edge's journey to the backend. Locally created edges
// start as pending, are marked syncing while a create request is in flight,
// and become synced once the server acknowledges them. Edges hydrated from
// the server carry SyncSynced (or no status at all in stored data predating
// the field, which the syncer treats the same way).
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSyncing SyncStatus = "syncing"
	SyncSynced  SyncStatus = "synced"
)

// EdgeStyle is the stroke presentation applied to an edge, derived from the
// board settings active when the edge was created or last restyled.
type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Equal reports whether two styles are field-wise identical.
func (s EdgeStyle) Equal(o EdgeStyle) bool {
	return s == o
}

// MarkerEnd describes the arrowhead drawn at an edge's target. A nil
// *MarkerEnd means no marker and is omitted from JSON entirely.
type MarkerEnd struct {
	Type   string `json:"type"`
	Color  string `json:"color,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Equal reports whether two markers are identical, treating nil as "no marker".
func (m *MarkerEnd) Equal(o *MarkerEnd) bool {
	if m == nil || o == nil {
		return m == o
	}
	return *m == *o
}

// EdgeData carries the settings snapshot active when the edge was created.
type EdgeData struct {
	Settings *Settings `json:"settings,omitempty"`
}

// Edge is a directed connection between two nodes on the board.
type Edge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	SourceHandle string     `json:"sourceHandle,omitempty"`
	TargetHandle string     `json:"targetHandle,omitempty"`
	Type         string     `json:"type,omitempty"`
	Animated     bool       `json:"animated,omitempty"`
	Style        EdgeStyle  `json:"style"`
	MarkerEnd    *MarkerEnd `json:"markerEnd,omitempty"`
	Data         EdgeData   `json:"data"`
	SyncStatus   SyncStatus `json:"syncStatus,omitempty"`
	Selected     bool       `json:"selected,omitempty"`
}
