package config

import "strings"

// SyncConfig controls cross-instance session reconciliation over Redis pub/sub.
type SyncConfig struct {
	Enabled bool   `env:"SYNC_ENABLED" envDefault:"false"`
	Channel string `env:"SYNC_CHANNEL" envDefault:"opscenter:session:sync"`
	// Keys restricts which signal keys trigger a session re-check. Empty accepts any key.
	Keys []string `env:"SYNC_KEYS" envSeparator:","`
}

// Sanitize trims keys and drops empty entries.
func (c *SyncConfig) Sanitize() {
	c.Channel = strings.TrimSpace(c.Channel)
	if c.Channel == "" {
		c.Channel = "opscenter:session:sync"
	}
	keys := c.Keys[:0]
	for _, k := range c.Keys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Keys = keys
	if len(c.Keys) == 0 {
		c.Keys = nil
	}
}
