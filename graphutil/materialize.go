// Package graphutil holds the pure graph transformations shared by the board
// store and the agent bootstrap: merging card records into nodes, hydrating
// nodes from a stored layout, and stamping edges with presentation derived
// from board settings.
package graphutil

import "github.com/backyard-app/backyard-sync/models"

// Fallback grid used for cards with no stored position: three columns,
// row-major order.
const (
	gridColumns   = 3
	gridColWidth  = 350.0
	gridRowHeight = 250.0
	gridOffset    = 50.0
)

// UpdateNodesWithCardData refreshes each node's display data from the card
// with the matching id. Position, type and selection are preserved; nodes
// without a backing card pass through unchanged. The input slice is not
// mutated.
func UpdateNodesWithCardData(nodes []models.Node, cards []models.Card) []models.Node {
	if len(nodes) == 0 {
		return nodes
	}
	byID := make(map[string]models.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	out := make([]models.Node, len(nodes))
	for i, n := range nodes {
		if card, ok := byID[n.ID]; ok {
			n.Data.Title = card.Title
			n.Data.Content = card.Content
			n.Data.Tags = card.TagNames()
		}
		out[i] = n
	}
	return out
}

// ApplyStoredLayout builds a fresh node array from card records. A card with
// a stored position keeps it; the rest fall back to the deterministic grid.
func ApplyStoredLayout(cards []models.Card, stored map[string]models.Position) []models.Node {
	nodes := make([]models.Node, 0, len(cards))
	for i, card := range cards {
		pos, ok := stored[card.ID]
		if !ok {
			pos = models.Position{
				X: float64(i%gridColumns)*gridColWidth + gridOffset,
				Y: float64(i/gridColumns)*gridRowHeight + gridOffset,
			}
		}
		nodes = append(nodes, models.Node{
			ID:       card.ID,
			Type:     models.NodeTypeCard,
			Position: pos,
			Data: models.NodeData{
				CardID:  card.ID,
				Title:   card.Title,
				Content: card.Content,
				Tags:    card.TagNames(),
			},
		})
	}
	return nodes
}
