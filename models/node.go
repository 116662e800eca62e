package models

// NodeTypeCard is the discriminator for nodes that render a card.
const NodeTypeCard = "card"

// Position is a node's location on the board canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the denormalized card content a node displays. The board never
// owns this data; the card records fetched from the backend are authoritative.
type NodeData struct {
	CardID  string   `json:"cardId"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Node represents one card placed on the idea map. Its ID equals the backing
// card's ID; nodes without a backing card are left alone by the materializer.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	Selected bool     `json:"selected,omitempty"`
}

// Viewport is the board's pan/zoom transform.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}
