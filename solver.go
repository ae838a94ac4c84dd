// Package captcha solves CAPTCHA challenges through remote solving providers.
//
// Each provider package (twocaptcha, capsolver) exposes one solver per
// challenge kind. Solvers of the same kind satisfy the same interface, so
// callers can swap providers without code changes.
package captcha

import "context"

// Challenge identifies the kind of CAPTCHA being solved.
type Challenge string

const (
	ChallengeFunCaptcha Challenge = "funcaptcha"
	ChallengeHCaptcha   Challenge = "hcaptcha"
	ChallengeImage      Challenge = "image"
)

// TokenSolver solves interactive-puzzle challenges.
type TokenSolver interface {
	Solve(ctx context.Context, opts ...Option) (*TokenResult, error)
}

// VerificationSolver solves human-verification challenges.
type VerificationSolver interface {
	Solve(ctx context.Context, opts ...Option) (*VerificationResult, error)
}

// ImageSolver recognizes the text in an image challenge.
type ImageSolver interface {
	Solve(ctx context.Context, image []byte, opts ...Option) (*ImageTextResult, error)
}

// Options holds the per-solve settings recognized by solvers.
// Solvers ignore options that do not apply to their challenge kind.
type Options struct {
	// Proxy routes the solve through the given proxy.
	Proxy *Proxy

	// Invisible marks a verification challenge as invisible-mode.
	Invisible bool

	// Module selects the provider's image OCR engine.
	Module string

	// UserAgent overrides the reported browser identity.
	UserAgent string
}

// Option configures a single solve.
type Option func(*Options)

// WithProxy routes the solve through p. A nil proxy means proxyless.
func WithProxy(p *Proxy) Option {
	return func(o *Options) { o.Proxy = p }
}

// Invisible marks a verification challenge as invisible-mode.
func Invisible(v bool) Option {
	return func(o *Options) { o.Invisible = v }
}

// WithModule selects the image OCR module.
func WithModule(module string) Option {
	return func(o *Options) { o.Module = module }
}

// WithUserAgent overrides the user agent sent with the task.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// ApplyOptions folds opts into an Options value.
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// FunCaptchaParams identifies an interactive-puzzle challenge.
type FunCaptchaParams struct {
	WebsiteURL string
	PublicKey  string

	// Subdomain is the custom Arkose API subdomain, if the site uses one.
	Subdomain string

	// UserAgent is reported with the task unless a solve overrides it with WithUserAgent.
	UserAgent string
}

// HCaptchaParams identifies a human-verification challenge.
type HCaptchaParams struct {
	WebsiteURL string
	SiteKey    string
}

// ImageParams describes where an image challenge came from.
type ImageParams struct {
	WebsiteURL string

	// Module is the default OCR module. A solve may override it with WithModule.
	Module string
}

// Balancer reports the prepaid balance of a provider account in USD.
type Balancer interface {
	Balance(ctx context.Context) (float64, error)
}
