package captcha

import "context"

// Response is the outcome of a JSON POST.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport POSTs a JSON payload and returns the raw response.
// A returned error means the exchange did not complete; any HTTP status,
// including non-2xx, is a successful exchange.
type Transport interface {
	PostJSON(ctx context.Context, url string, payload any) (Response, error)
}
