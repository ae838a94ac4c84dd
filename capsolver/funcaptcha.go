package capsolver

import (
	"context"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
)

// FunCaptchaSolver solves Arkose Labs FunCaptcha challenges through CapSolver.
type FunCaptchaSolver struct {
	client *Client
	params captcha.FunCaptchaParams
}

var _ captcha.TokenSolver = (*FunCaptchaSolver)(nil)

// FunCaptcha returns a solver for the given FunCaptcha challenge.
func (c *Client) FunCaptcha(params captcha.FunCaptchaParams) *FunCaptchaSolver {
	return &FunCaptchaSolver{client: c, params: params}
}

// Solve submits the challenge and waits for the token.
func (s *FunCaptchaSolver) Solve(ctx context.Context, opts ...captcha.Option) (*captcha.TokenResult, error) {
	out, err := s.client.solve(ctx, captcha.ChallengeFunCaptcha, s.taskBody(captcha.ApplyOptions(opts...)))
	if err != nil {
		return nil, err
	}
	res, err := normalizeFunCaptcha(out.Solution)
	if err != nil {
		return nil, s.client.classify.Malformed(captcha.ChallengeFunCaptcha, err)
	}
	return res, nil
}

func (s *FunCaptchaSolver) taskBody(o captcha.Options) task.Request {
	taskType := typeFunCaptcha
	if o.Proxy != nil {
		taskType = typeFunCaptchaProxy
	}
	body := baseTask(taskType, s.params.WebsiteURL)
	body[keyPublicKey] = s.params.PublicKey

	if s.params.Subdomain != "" {
		body[keySubdomain] = s.params.Subdomain
	}

	ua := s.params.UserAgent
	if o.UserAgent != "" {
		ua = o.UserAgent
	}
	if ua != "" {
		body[keyUserAgent] = ua
	}

	if o.Proxy != nil {
		body.Merge(task.ProxyFields(o.Proxy, proxyKeys))
	}
	return body
}

func normalizeFunCaptcha(raw task.RawSolution) (*captcha.TokenResult, error) {
	token, err := raw.Required(solutionFunCaptchaToken)
	if err != nil {
		return nil, err
	}
	return captcha.NewTokenResult(token), nil
}
