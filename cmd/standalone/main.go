package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"authgate/core"
	"authgate/core/providers"
	"authgate/storage"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Core   *core.Config            `yaml:",inline"`
	Google *providers.GoogleConfig `yaml:"google,omitempty"`

	DB   DBConfig `yaml:"db"`
	Port string   `yaml:"port"`
}

type DBConfig struct {
	Type       string `yaml:"type"`
	SQLitePath string `yaml:"sqlite_path"`
}

func main() {
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	appConfig := loadConfigFromYAML(configPath)

	if appConfig.Core.FrontendURL == "" {
		appConfig.Core.FrontendURL = core.DefaultFrontendURL
	}

	repo := initRepository(appConfig.DB)
	provider := initProvider(appConfig)

	authService := core.NewAuthService(repo, appConfig.Core, provider)
	server := core.NewServer(authService, appConfig.Core)

	http.HandleFunc("/auth/google", server.HandleGoogleLogin)
	http.HandleFunc("/auth/google/callback", server.HandleGoogleCallback)
	http.HandleFunc("/health", server.HandleHealth)

	log.Printf("Starting authgate server on port %s", appConfig.Port)
	log.Printf("Frontend redirect target: %s", appConfig.Core.FrontendURL)

	if err := http.ListenAndServe(":"+appConfig.Port, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfigFromYAML(path string) *AppConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file %s: %v", path, err)
	}

	var config AppConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	if config.Core == nil {
		config.Core = &core.Config{}
	}

	return &config
}

func initRepository(dbConfig DBConfig) core.Repository {
	switch strings.ToLower(dbConfig.Type) {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(dbConfig.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite repository: %v", err)
		}
		log.Printf("Using SQLite database: %s", dbConfig.SQLitePath)
		return repo

	case "mock":
		log.Println("Using mock repository (in-memory)")
		return storage.NewMockRepository()

	default:
		log.Fatalf("Unsupported DB type: %s (supported: sqlite, mock)", dbConfig.Type)
		return nil
	}
}

func initProvider(cfg *AppConfig) core.IdentityProvider {
	if cfg.Google != nil {
		log.Println("Google OAuth provider initialized")
		return providers.NewGoogleProvider(cfg.Google)
	}

	log.Println("No provider configured, using mock provider")
	return providers.NewMockProvider()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
