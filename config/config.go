package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort        int
	NATSUrl           string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecretKey      string
	EventTTL          time.Duration
	AllowedOrigins    []string
}

// Load загружает конфигурацию из переменных окружения. Опционально
// подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	// The password check must never default to "always valid" or "always
	// invalid": a missing secret is a configuration error at startup.
	password := os.Getenv("ADMIN_PASSWORD")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if password == "" && passwordHash == "" {
		return nil, fmt.Errorf("neither ADMIN_PASSWORD nor ADMIN_PASSWORD_HASH is set")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	ttlHoursStr := os.Getenv("EVENT_TTL_HOURS")
	if ttlHoursStr == "" {
		ttlHoursStr = "24"
	}
	ttlHours, err := strconv.Atoi(ttlHoursStr)
	if err != nil || ttlHours <= 0 {
		return nil, fmt.Errorf("invalid EVENT_TTL_HOURS environment variable: %q", ttlHoursStr)
	}

	origins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return &Config{
		ServerPort:        port,
		NATSUrl:           natsURL,
		AdminPassword:     password,
		AdminPasswordHash: passwordHash,
		JWTSecretKey:      jwtKey,
		EventTTL:          time.Duration(ttlHours) * time.Hour,
		AllowedOrigins:    origins,
	}, nil
}
