package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to. The shell fronts a single
	// backend session, so it listens on loopback unless told otherwise.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	// CookieDomain is the domain for the shell's CSRF and session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// LoginRate is the sustained number of login/register attempts per second per client.
	LoginRate float64 `env:"HTTP_LOGIN_RATE" envDefault:"0.2"`

	// LoginBurst is the number of attempts allowed in a burst.
	LoginBurst int `env:"HTTP_LOGIN_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.LoginRate <= 0 {
		h.LoginRate = 0.2
	}
	if h.LoginBurst < 1 {
		h.LoginBurst = 1
	}
}
