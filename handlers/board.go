package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/backyard-app/backyard-sync/boardstore"
	"github.com/backyard-app/backyard-sync/models"
)

// BoardHandler serves the agent's read-only local surface: a canvas frontend
// polls it for the current board snapshot.
type BoardHandler struct {
	Store *boardstore.Store
}

type BoardStateResponse struct {
	Nodes             []models.Node   `json:"nodes"`
	Edges             []models.Edge   `json:"edges"`
	Settings          models.Settings `json:"settings"`
	HasUnsavedChanges bool            `json:"hasUnsavedChanges"`
}

func (h *BoardHandler) GetBoardState(w http.ResponseWriter, r *http.Request) {
	response := BoardStateResponse{
		Nodes:             h.Store.Nodes(),
		Edges:             h.Store.Edges(),
		Settings:          h.Store.Settings(),
		HasUnsavedChanges: h.Store.HasUnsavedChanges(),
	}
	if response.Nodes == nil {
		response.Nodes = []models.Node{}
	}
	if response.Edges == nil {
		response.Edges = []models.Edge{}
	}

	// Encode before touching the response so a failure can still produce a
	// real 500 instead of a truncated 200.
	buf, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Write(buf)
}

func (h *BoardHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
