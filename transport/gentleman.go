package transport

import (
	"context"
	"net/http"
	"time"

	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/proxy"

	captcha "github.com/anatolykoptev/go-captcha"
)

// Gentleman sends provider requests through a gentleman HTTP client.
type Gentleman struct {
	client *gentleman.Client
}

var _ captcha.Transport = (*Gentleman)(nil)

// NewGentleman creates a Gentleman transport with the given per-request
// timeout. proxyURL routes the provider API calls through a proxy; empty means direct.
func NewGentleman(timeout time.Duration, proxyURL string) *Gentleman {
	cli := gentleman.New()
	cli.Context.Client.Timeout = timeout
	// The proxy plugin mutates the client's *http.Transport, so each client gets its own.
	cli.Context.Client.Transport = http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		cli.Use(proxy.Set(map[string]string{"http": proxyURL, "https": proxyURL}))
	}
	return &Gentleman{client: cli}
}

// PostJSON implements captcha.Transport. The client timeout bounds each
// call; a canceled ctx cancels the in-flight request and returns at once.
func (g *Gentleman) PostJSON(ctx context.Context, url string, payload any) (captcha.Response, error) {
	req := g.client.Request()
	req.Method("POST")
	req.URL(url)
	req.SetHeader("User-Agent", defaultUserAgent)
	req.SetHeader("Accept", "application/json")
	req.JSON(payload)
	req.Context.SetCancelContext(ctx)

	return await(ctx, func() (captcha.Response, error) {
		res, err := req.Send()
		if err != nil {
			return captcha.Response{}, err
		}
		return captcha.Response{StatusCode: res.StatusCode, Body: res.Bytes()}, nil
	})
}
