package models

// Connection line types understood by the canvas.
const (
	ConnectionLineBezier     = "bezier"
	ConnectionLineStraight   = "straight"
	ConnectionLineStep       = "step"
	ConnectionLineSmoothstep = "smoothstep"
)

// Marker types. MarkerNone means edges are drawn without an arrowhead.
const (
	MarkerArrow       = "arrow"
	MarkerArrowClosed = "arrowclosed"
	MarkerNone        = ""
)

// Settings is the board-wide presentation configuration. A single instance is
// active per session, resolved from defaults, the local store, and the user's
// remote record, in increasing priority.
type Settings struct {
	SnapToGrid         bool    `json:"snapToGrid"`
	SnapGrid           [2]int  `json:"snapGrid"`
	ConnectionLineType string  `json:"connectionLineType"`
	MarkerEnd          string  `json:"markerEnd"`
	MarkerSize         int     `json:"markerSize"`
	StrokeWidth        float64 `json:"strokeWidth"`
	EdgeColor          string  `json:"edgeColor"`
	SelectedEdgeColor  string  `json:"selectedEdgeColor"`
	AnimatedEdges      bool    `json:"animated"`
}

// DefaultSettings is the single canonical fallback used by every resolution
// path. Both the local-store loader and the remote loader fall back here.
func DefaultSettings() Settings {
	return Settings{
		SnapToGrid:         false,
		SnapGrid:           [2]int{15, 15},
		ConnectionLineType: ConnectionLineBezier,
		MarkerEnd:          MarkerArrowClosed,
		MarkerSize:         20,
		StrokeWidth:        2,
		EdgeColor:          "#C1C1C1",
		SelectedEdgeColor:  "#FF0072",
		AnimatedEdges:      false,
	}
}

// Equal reports whether two settings records are field-wise identical.
func (s Settings) Equal(o Settings) bool {
	return s == o
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	SnapToGrid         *bool    `json:"snapToGrid,omitempty"`
	SnapGrid           *[2]int  `json:"snapGrid,omitempty"`
	ConnectionLineType *string  `json:"connectionLineType,omitempty"`
	MarkerEnd          *string  `json:"markerEnd,omitempty"`
	MarkerSize         *int     `json:"markerSize,omitempty"`
	StrokeWidth        *float64 `json:"strokeWidth,omitempty"`
	EdgeColor          *string  `json:"edgeColor,omitempty"`
	SelectedEdgeColor  *string  `json:"selectedEdgeColor,omitempty"`
	AnimatedEdges      *bool    `json:"animated,omitempty"`
}

// Merge returns a copy of s with every non-nil patch field applied.
func (s Settings) Merge(p SettingsPatch) Settings {
	if p.SnapToGrid != nil {
		s.SnapToGrid = *p.SnapToGrid
	}
	if p.SnapGrid != nil {
		s.SnapGrid = *p.SnapGrid
	}
	if p.ConnectionLineType != nil {
		s.ConnectionLineType = *p.ConnectionLineType
	}
	if p.MarkerEnd != nil {
		s.MarkerEnd = *p.MarkerEnd
	}
	if p.MarkerSize != nil {
		s.MarkerSize = *p.MarkerSize
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.EdgeColor != nil {
		s.EdgeColor = *p.EdgeColor
	}
	if p.SelectedEdgeColor != nil {
		s.SelectedEdgeColor = *p.SelectedEdgeColor
	}
	if p.AnimatedEdges != nil {
		s.AnimatedEdges = *p.AnimatedEdges
	}
	return s
}
