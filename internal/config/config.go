package config

import "os"

// Config holds all environment-driven settings.
type Config struct {
	ServerPort   string
	DBPath       string
	BaseURL      string
	InviteSecret string
}

// Load reads configuration from the environment. INVITE_SECRET has no
// default on purpose: an empty secret leaves the server running but makes
// sign/verify fail with a configuration error while the rest of the system
// keeps working.
func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/splitlink.db"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return Config{
		ServerPort:   ":" + port,
		DBPath:       dbPath,
		BaseURL:      baseURL,
		InviteSecret: os.Getenv("INVITE_SECRET"),
	}
}
