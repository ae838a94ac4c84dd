package capsolver

import (
	"context"
	"encoding/base64"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
)

// ImageSolver recognizes text in images. CapSolver answers image tasks in
// the createTask response, so no polling takes place.
type ImageSolver struct {
	client *Client
	params captcha.ImageParams
}

var _ captcha.ImageSolver = (*ImageSolver)(nil)

// Image returns an image-to-text solver. An empty params.Module selects "common".
func (c *Client) Image(params captcha.ImageParams) *ImageSolver {
	return &ImageSolver{client: c, params: params}
}

// Solve submits image and returns its text.
func (s *ImageSolver) Solve(ctx context.Context, image []byte, opts ...captcha.Option) (*captcha.ImageTextResult, error) {
	out, err := s.client.solve(ctx, captcha.ChallengeImage, s.taskBody(image, captcha.ApplyOptions(opts...)))
	if err != nil {
		return nil, err
	}
	res, err := normalizeImage(out)
	if err != nil {
		return nil, s.client.classify.Malformed(captcha.ChallengeImage, err)
	}
	return res, nil
}

func (s *ImageSolver) taskBody(image []byte, o captcha.Options) task.Request {
	module := s.params.Module
	if o.Module != "" {
		module = o.Module
	}
	if module == "" {
		module = defaultModule
	}
	body := baseTask(typeImage, s.params.WebsiteURL)
	body[keyModule] = module
	body[keyBody] = base64.StdEncoding.EncodeToString(image)
	return body
}

func normalizeImage(out task.Outcome) (*captcha.ImageTextResult, error) {
	text, err := out.Solution.Required(solutionImageText)
	if err != nil {
		return nil, err
	}
	confidence, _ := out.Solution.Optional(solutionImageConfidence)
	return captcha.NewImageTextResult(text, out.Handle.String(), confidence), nil
}
