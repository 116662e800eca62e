package graphutil

import "github.com/backyard-app/backyard-sync/models"

// NewEdge constructs an edge between two nodes, stamped with the presentation
// properties of the given settings and carrying a snapshot of those settings
// in its data. When the settings disable markers the edge's MarkerEnd is nil
// and omitted from JSON, not serialized as null.
func NewEdge(id, source, target, sourceHandle, targetHandle string, settings models.Settings) models.Edge {
	snapshot := settings
	edge := models.Edge{
		ID:           id,
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Type:         settings.ConnectionLineType,
		Animated:     settings.AnimatedEdges,
		Style: models.EdgeStyle{
			Stroke:      settings.EdgeColor,
			StrokeWidth: settings.StrokeWidth,
		},
		MarkerEnd: markerFor(settings, false),
		Data:      models.EdgeData{Settings: &snapshot},
	}
	return edge
}

// ApplyEdgeStyle recomputes an edge's presentation from the given settings,
// preserving identity, endpoints, data and sync status. Selected edges use
// the selected color.
func ApplyEdgeStyle(edge models.Edge, settings models.Settings) models.Edge {
	stroke := settings.EdgeColor
	if edge.Selected {
		stroke = settings.SelectedEdgeColor
	}
	edge.Type = settings.ConnectionLineType
	edge.Animated = settings.AnimatedEdges
	edge.Style = models.EdgeStyle{Stroke: stroke, StrokeWidth: settings.StrokeWidth}
	edge.MarkerEnd = markerFor(settings, edge.Selected)
	return edge
}

func markerFor(settings models.Settings, selected bool) *models.MarkerEnd {
	if settings.MarkerEnd == models.MarkerNone {
		return nil
	}
	color := settings.EdgeColor
	if selected {
		color = settings.SelectedEdgeColor
	}
	return &models.MarkerEnd{
		Type:   settings.MarkerEnd,
		Color:  color,
		Width:  settings.MarkerSize,
		Height: settings.MarkerSize,
	}
}

// EdgePresentationEqual reports whether two edges render identically. Used to
// short-circuit full-array restyles that would not change anything.
func EdgePresentationEqual(a, b models.Edge) bool {
	return a.Type == b.Type &&
		a.Animated == b.Animated &&
		a.Style.Equal(b.Style) &&
		a.MarkerEnd.Equal(b.MarkerEnd)
}
