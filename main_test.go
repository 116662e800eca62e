package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/backyard-app/backyard-sync/boardstore"
	"github.com/backyard-app/backyard-sync/localstore"
	"github.com/backyard-app/backyard-sync/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestServeUntilShutdownFlushesBeforeReturning(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageEntry{}, &models.OutboxEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	local := localstore.New(db)
	store := boardstore.New(local, nil)
	store.SetNodes([]models.Node{
		{ID: "a", Type: models.NodeTypeCard, Position: models.Position{X: 12, Y: 34}},
	})
	if !store.HasUnsavedChanges() {
		t.Fatalf("expected unflushed state before shutdown")
	}

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if err := serveUntilShutdown(ctx, srv, store, slog.Default()); err != nil {
		t.Fatalf("serve: %v", err)
	}

	// By the time serveUntilShutdown returns, the final flush must have run.
	layout, ok := local.LoadLayout()
	if !ok {
		t.Fatalf("no layout flushed on shutdown")
	}
	if layout["a"] != (models.Position{X: 12, Y: 34}) {
		t.Fatalf("flushed layout wrong: %+v", layout)
	}
	if store.HasUnsavedChanges() {
		t.Fatalf("dirty flag should be cleared by the shutdown flush")
	}
}
