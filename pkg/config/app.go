package config

import (
	"fmt"
	"strings"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendS3       = "s3"
)

// App is the process-level configuration of the HTTP service.
type App struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"templatestyles"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"memory"`
	StoreCacheSize int    `env:"STORE_CACHE_SIZE" envDefault:"0"`
	// StorePrefix namespaces keys in Redis and objects in S3.
	StorePrefix string `env:"STORE_PREFIX" envDefault:"templatestyles:"`
	MongoDB     string `env:"MONGODB_DATABASE" envDefault:"templatestyles"`
	MongoColl   string `env:"MONGODB_COLLECTION" envDefault:"page_styles"`

	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Backend returns the normalised backend name or ErrUnknownBackend.
func (a App) Backend() (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(a.StoreBackend)); b {
	case BackendMemory, BackendPostgres, BackendRedis, BackendMongo, BackendS3:
		return b, nil
	case "pg", "postgresql":
		return BackendPostgres, nil
	case "mongodb":
		return BackendMongo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, a.StoreBackend)
	}
}
