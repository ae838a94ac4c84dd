package captcha

import (
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Config holds the settings shared by every provider client.
type Config struct {
	// Transport performs the provider HTTP calls.
	// Default: the provider package builds a go-stealth transport.
	Transport Transport

	// PollInterval is the wait between result requests.
	// Default: provider-specific (2Captcha 3s, CapSolver 2s).
	PollInterval time.Duration

	// Timeout bounds the wall-clock time of one solve. Zero means unbounded.
	Timeout time.Duration

	// MaxPolls bounds result requests per task. Zero means unbounded.
	MaxPolls int

	// MaxResubmits bounds how many times a failed task is recreated. Zero means unbounded.
	MaxResubmits int

	// TransportRetries is the number of times a failed HTTP exchange is retried.
	// Zero propagates transport failures immediately.
	TransportRetries int

	// TransportBackoff spaces transport retries.
	TransportBackoff stealth.BackoffConfig

	// Hook receives lifecycle events. Default: SlogHook(slog.Default()).
	Hook Hook

	// BalanceWarnLevel enables a balance check before each solve and logs a
	// warning when the balance is below it. Zero disables the check.
	BalanceWarnLevel float64

	// CreateTaskURL, ResultURL and BalanceURL override the provider endpoints.
	CreateTaskURL string
	ResultURL     string
	BalanceURL    string
}

// ApplyDefaults fills in zero-value fields. pollInterval is the provider's
// default wait between polls.
func (cfg *Config) ApplyDefaults(pollInterval time.Duration) {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = pollInterval
	}
	if cfg.TransportBackoff.InitialWait == 0 {
		cfg.TransportBackoff = stealth.BackoffConfig{
			InitialWait: 1 * time.Second,
			MaxWait:     30 * time.Second,
			Multiplier:  2.0,
			JitterPct:   0.3,
		}
	}
	if cfg.Hook == nil {
		cfg.Hook = SlogHook(nil)
	}
}
