package config

import "os"

type Environment struct {
	IsDevelopment bool
	APIBaseURL    string
	APIToken      string
	UserID        string
	ProjectID     string
	ListenAddr    string
	CanvasOrigin  string
}

var Env Environment

// Load reads the agent configuration from the environment. Call after the
// .env file has been loaded.
func Load() {
	isDev := os.Getenv("BACKYARD_ENVIRONMENT") == ""

	apiBase := os.Getenv("BACKYARD_API_URL")
	if apiBase == "" {
		apiBase = "http://localhost:3000"
	}

	listen := os.Getenv("BACKYARD_LISTEN_ADDR")
	if listen == "" {
		listen = "127.0.0.1:8787"
	}

	origin := os.Getenv("BACKYARD_CANVAS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	Env = Environment{
		IsDevelopment: isDev,
		APIBaseURL:    apiBase,
		APIToken:      os.Getenv("BACKYARD_API_TOKEN"),
		UserID:        os.Getenv("BACKYARD_USER_ID"),
		ProjectID:     os.Getenv("BACKYARD_PROJECT_ID"),
		ListenAddr:    listen,
		CanvasOrigin:  origin,
	}
}
