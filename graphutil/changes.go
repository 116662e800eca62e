package graphutil

import (
	"fmt"

	"github.com/backyard-app/backyard-sync/models"
)

// Change batches mirror what the canvas reports for a user interaction: a
// drag produces position changes, a click produces select changes, a delete
// produces remove changes.

type NodeChangeType string

const (
	NodeChangePosition NodeChangeType = "position"
	NodeChangeSelect   NodeChangeType = "select"
	NodeChangeRemove   NodeChangeType = "remove"
)

type NodeChange struct {
	Type     NodeChangeType
	ID       string
	Position *models.Position // required for position changes
	Selected bool             // for select changes
}

type EdgeChangeType string

const (
	EdgeChangeSelect EdgeChangeType = "select"
	EdgeChangeRemove EdgeChangeType = "remove"
)

type EdgeChange struct {
	Type     EdgeChangeType
	ID       string
	Selected bool
}

// ApplyNodeChanges applies a change batch to a node array and returns the new
// array plus the ids of removed nodes (for storage cleanup and edge cascade).
// Changes referencing unknown ids are ignored, matching canvas behavior for
// stale batches. The input slice is not mutated.
func ApplyNodeChanges(nodes []models.Node, changes []NodeChange) ([]models.Node, []string, error) {
	next := make([]models.Node, len(nodes))
	copy(next, nodes)

	var removed []string
	for _, ch := range changes {
		switch ch.Type {
		case NodeChangePosition:
			if ch.Position == nil {
				return nil, nil, fmt.Errorf("position change for node %s has no position", ch.ID)
			}
			for i := range next {
				if next[i].ID == ch.ID {
					next[i].Position = *ch.Position
					break
				}
			}
		case NodeChangeSelect:
			for i := range next {
				if next[i].ID == ch.ID {
					next[i].Selected = ch.Selected
					break
				}
			}
		case NodeChangeRemove:
			kept := next[:0]
			for _, n := range next {
				if n.ID == ch.ID {
					removed = append(removed, n.ID)
					continue
				}
				kept = append(kept, n)
			}
			next = kept
		default:
			return nil, nil, fmt.Errorf("unknown node change type %q", ch.Type)
		}
	}
	return next, removed, nil
}

// ApplyEdgeChanges is the edge counterpart of ApplyNodeChanges.
func ApplyEdgeChanges(edges []models.Edge, changes []EdgeChange) ([]models.Edge, []string, error) {
	next := make([]models.Edge, len(edges))
	copy(next, edges)

	var removed []string
	for _, ch := range changes {
		switch ch.Type {
		case EdgeChangeSelect:
			for i := range next {
				if next[i].ID == ch.ID {
					next[i].Selected = ch.Selected
					break
				}
			}
		case EdgeChangeRemove:
			kept := next[:0]
			for _, e := range next {
				if e.ID == ch.ID {
					removed = append(removed, e.ID)
					continue
				}
				kept = append(kept, e)
			}
			next = kept
		default:
			return nil, nil, fmt.Errorf("unknown edge change type %q", ch.Type)
		}
	}
	return next, removed, nil
}
