package capsolver

import (
	"context"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
)

// HCaptchaSolver solves hCaptcha challenges through CapSolver.
type HCaptchaSolver struct {
	client *Client
	params captcha.HCaptchaParams
}

var _ captcha.VerificationSolver = (*HCaptchaSolver)(nil)

// HCaptcha returns a solver for the given hCaptcha challenge.
func (c *Client) HCaptcha(params captcha.HCaptchaParams) *HCaptchaSolver {
	return &HCaptchaSolver{client: c, params: params}
}

// Solve submits the challenge and waits for the response pair.
func (s *HCaptchaSolver) Solve(ctx context.Context, opts ...captcha.Option) (*captcha.VerificationResult, error) {
	out, err := s.client.solve(ctx, captcha.ChallengeHCaptcha, s.taskBody(captcha.ApplyOptions(opts...)))
	if err != nil {
		return nil, err
	}
	res, err := normalizeHCaptcha(out.Solution)
	if err != nil {
		return nil, s.client.classify.Malformed(captcha.ChallengeHCaptcha, err)
	}
	return res, nil
}

func (s *HCaptchaSolver) taskBody(o captcha.Options) task.Request {
	taskType := typeHCaptcha
	if o.Proxy != nil {
		taskType = typeHCaptchaProxy
	}
	body := baseTask(taskType, s.params.WebsiteURL)
	body[keySiteKey] = s.params.SiteKey

	if o.Invisible {
		body[keyInvisible] = true
	}
	if o.UserAgent != "" {
		body[keyUserAgent] = o.UserAgent
	}
	if o.Proxy != nil {
		body.Merge(task.ProxyFields(o.Proxy, proxyKeys))
	}
	return body
}

func normalizeHCaptcha(raw task.RawSolution) (*captcha.VerificationResult, error) {
	response, err := raw.Required(solutionHCaptchaResponse)
	if err != nil {
		return nil, err
	}
	request, err := raw.Required(solutionHCaptchaRequest)
	if err != nil {
		return nil, err
	}
	ua, err := raw.Required(solutionHCaptchaUserAgent)
	if err != nil {
		return nil, err
	}
	return captcha.NewVerificationResult(response, request, ua), nil
}
