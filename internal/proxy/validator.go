package proxy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTarget is the Bot API host; any HTTP answer proves reachability.
const DefaultTarget = "https://api.telegram.org"

// Validator checks that a proxy can reach a target URL.
type Validator struct {
	factory *DefaultHTTPClientFactory
}

// NewValidator creates a new validator.
func NewValidator(factory *DefaultHTTPClientFactory) *Validator {
	return &Validator{factory: factory}
}

// Validate sends a GET through p to targetURL. Any response below 500
// counts as success.
func (v *Validator) Validate(ctx context.Context, p *Config, targetURL string) error {
	if targetURL == "" {
		targetURL = DefaultTarget
	}
	addr := "direct"
	if p.Configured() {
		addr = p.Address
	}

	client, err := v.factory.GetClient(p)
	if err != nil {
		return fmt.Errorf("proxy %s: failed to get HTTP client: %w", addr, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		return fmt.Errorf("proxy %s: failed to create request to %s: %w", addr, targetURL, err)
	}
	req.Header.Set("User-Agent", "SocialPostBotProxyValidator/1.0")

	log.Debug().Str("proxy_address", addr).Str("target_url", targetURL).Msg("Attempting to validate proxy")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("proxy %s: connection test to %s failed: %w", addr, targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 500 {
		log.Info().Str("proxy_address", addr).Int("status_code", resp.StatusCode).Msg("Proxy validation successful")
		return nil
	}
	return fmt.Errorf("proxy %s: connection test to %s returned status %d", addr, targetURL, resp.StatusCode)
}
