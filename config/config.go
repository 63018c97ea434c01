package config

import (
	"os"
	"strings"
)

// AppConfig composes the per-concern configs of the ops center shell. Every field
// is read from the environment with github.com/caarlos0/env; see the sibling files
// for the variables each concern accepts.
type AppConfig struct {
	// IsDev switches to text logs at debug level. NODE_ENV or APP_ENV set to
	// "development" (or "dev") also enables it.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig
	Idle IdleConfig

	// Sync fans session changes out to other shell instances over Redis pub/sub.
	Sync  SyncConfig
	Redis RedisConfig `envPrefix:"REDIS_"`

	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// Sanitize normalises every sub-config. Call it once after parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Idle.Sanitize()
	c.Sync.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()

	if !c.IsDev {
		c.IsDev = devEnvironment()
	}
}

func devEnvironment() bool {
	for _, key := range []string{"NODE_ENV", "APP_ENV"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "development", "dev":
			return true
		}
	}
	return false
}
