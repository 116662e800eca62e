package localstore

import (
	"time"

	"github.com/backyard-app/backyard-sync/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnqueueOutbox records a locally created edge as awaiting sync. Enqueueing
// the same edge twice is a no-op, so a re-connect after an undo cannot
// produce duplicate create requests.
func (s *Store) EnqueueOutbox(edgeID string, payload []byte) bool {
	entry := models.OutboxEntry{ID: edgeID, Payload: string(payload)}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		s.log.Error("enqueue sync outbox failed", "edge", edgeID, "err", err)
		return false
	}
	return true
}

// PendingOutbox returns all queued entries, oldest first.
func (s *Store) PendingOutbox() ([]models.OutboxEntry, error) {
	var entries []models.OutboxEntry
	err := s.db.Order("enqueued_at ASC, id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkOutboxTried records a failed push attempt. The entry stays queued.
func (s *Store) MarkOutboxTried(edgeID string, tryErr error) {
	now := time.Now()
	msg := ""
	if tryErr != nil {
		msg = tryErr.Error()
		if len(msg) > 500 {
			msg = msg[:500]
		}
	}
	err := s.db.Model(&models.OutboxEntry{}).Where("id = ?", edgeID).Updates(map[string]any{
		"attempts":      gorm.Expr("attempts + 1"),
		"last_error":    msg,
		"last_tried_at": &now,
	}).Error
	if err != nil {
		s.log.Error("record outbox attempt failed", "edge", edgeID, "err", err)
	}
}

// AckOutbox deletes an entry once the server has acknowledged the edge. Also
// used to drop entries for edges deleted before they ever synced.
func (s *Store) AckOutbox(edgeID string) {
	if err := s.db.Delete(&models.OutboxEntry{}, "id = ?", edgeID).Error; err != nil {
		s.log.Error("ack outbox entry failed", "edge", edgeID, "err", err)
	}
}
