package models

import "time"

// Tag is a label attached to a card.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardTag is the nested card↔tag relation shape some endpoints return.
type CardTag struct {
	Tag Tag `json:"tag"`
}

// Card is the backend-owned record a node denormalizes. The board reads and
// displays cards but is never the source of truth for their content.
type Card struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags,omitempty"`
	CardTags  []CardTag `json:"cardTags,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// TagNames flattens the card's tags to their names, preferring the nested
// relation shape over the flat list when both are present.
func (c Card) TagNames() []string {
	if len(c.CardTags) > 0 {
		names := make([]string, 0, len(c.CardTags))
		for _, ct := range c.CardTags {
			names = append(names, ct.Tag.Name)
		}
		return names
	}
	if len(c.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Name)
	}
	return names
}
