package config

import "time"

const (
	defaultIdleWarning = 13 * time.Minute
	defaultIdleLogout  = 15 * time.Minute
)

// IdleConfig holds the inactivity thresholds, both measured from the last activity.
type IdleConfig struct {
	WarningTimeout time.Duration `env:"IDLE_WARNING_TIMEOUT" envDefault:"13m"`
	LogoutTimeout  time.Duration `env:"IDLE_LOGOUT_TIMEOUT"  envDefault:"15m"`
}

// Sanitize keeps the logout threshold strictly after the warning threshold.
// Invalid pairs fall back to the defaults, or to a warning at 80% of the logout
// timeout when only the warning is off.
func (c *IdleConfig) Sanitize() {
	if c.LogoutTimeout <= 0 {
		c.LogoutTimeout = defaultIdleLogout
	}
	if c.WarningTimeout <= 0 || c.WarningTimeout >= c.LogoutTimeout {
		if c.LogoutTimeout == defaultIdleLogout {
			c.WarningTimeout = defaultIdleWarning
			return
		}
		c.WarningTimeout = c.LogoutTimeout * 4 / 5
	}
}
