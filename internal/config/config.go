package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"console/api/internal/gateway"
)

type Config struct {
	Addr       string
	CORSOrigin string

	// Gateway that reports per-stack service versions.
	GatewayURL   string
	GatewayToken string
	ManifestTTL  time.Duration

	// Stack API endpoint pattern; {organization} and {stack} are replaced
	// per session.
	StackURLPattern string
	StackToken      string

	// Operator sessions.
	TokenSecret string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration

	// Redis shares the manifest cache and refresh sessions across instances.
	// Empty means in-process only.
	RedisURL string

	DefaultVersions  gateway.Defaults
	DisabledServices []gateway.Service
}

func Load() Config {
	// Absent .env is fine; env vars win either way.
	_ = godotenv.Load()

	return Config{
		Addr:             getenv("API_ADDR", ":8787"),
		CORSOrigin:       getenv("CONSOLE_CORS_ORIGIN", "*"),
		GatewayURL:       getenv("CONSOLE_GATEWAY_URL", "http://localhost:8093"),
		GatewayToken:     getenv("CONSOLE_GATEWAY_TOKEN", ""),
		ManifestTTL:      time.Duration(getenvInt("CONSOLE_MANIFEST_TTL_SECONDS", 60)) * time.Second,
		StackURLPattern:  getenv("CONSOLE_STACK_URL_PATTERN", "http://localhost:8080"),
		StackToken:       getenv("CONSOLE_STACK_TOKEN", ""),
		TokenSecret:      getenv("CONSOLE_TOKEN_SECRET", "console-dev-secret"),
		AccessTTL:        time.Duration(getenvInt("CONSOLE_ACCESS_TTL_SECONDS", 900)) * time.Second,
		RefreshTTL:       time.Duration(getenvInt("CONSOLE_REFRESH_TTL_SECONDS", 2592000)) * time.Second,
		RedisURL:         getenv("REDIS_URL", ""),
		DefaultVersions:  parseDefaultVersions(getenv("CONSOLE_DEFAULT_VERSIONS", "")),
		DisabledServices: parseServices(getenv("CONSOLE_DISABLED_SERVICES", "")),
	}
}

// StackURL expands the stack endpoint pattern for one tenant stack.
func (c Config) StackURL(organizationID, stackID string) string {
	url := strings.ReplaceAll(c.StackURLPattern, "{organization}", organizationID)
	return strings.ReplaceAll(url, "{stack}", stackID)
}

// parseDefaultVersions reads "payments=1,ledger=2" into per-service defaults.
// Unknown service names and unparseable versions are dropped.
func parseDefaultVersions(raw string) gateway.Defaults {
	defaults := gateway.Defaults{}
	for _, pair := range strings.Split(raw, ",") {
		name, version, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		svc := gateway.Service(strings.TrimSpace(name))
		if !knownService(svc) {
			continue
		}
		switch gateway.Version(strings.TrimSpace(version)) {
		case gateway.V1, gateway.V2, gateway.V3:
			defaults[svc] = gateway.Version(strings.TrimSpace(version))
		}
	}
	return defaults
}

func parseServices(raw string) []gateway.Service {
	var services []gateway.Service
	for _, name := range strings.Split(raw, ",") {
		svc := gateway.Service(strings.TrimSpace(name))
		if knownService(svc) {
			services = append(services, svc)
		}
	}
	return services
}

func knownService(svc gateway.Service) bool {
	for _, known := range gateway.Services {
		if svc == known {
			return true
		}
	}
	return false
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
