package twocaptcha

import (
	"context"
	"encoding/base64"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/task"
)

// ImageSolver recognizes text in images. 2Captcha queues image tasks like
// any other, so results are polled. 2Captcha has no OCR module selector, so
// WithModule is ignored.
type ImageSolver struct {
	client *Client
	params captcha.ImageParams
}

var _ captcha.ImageSolver = (*ImageSolver)(nil)

// Image returns an image-to-text solver.
func (c *Client) Image(params captcha.ImageParams) *ImageSolver {
	return &ImageSolver{client: c, params: params}
}

// Solve submits image and waits for its text.
func (s *ImageSolver) Solve(ctx context.Context, image []byte, opts ...captcha.Option) (*captcha.ImageTextResult, error) {
	out, err := s.client.solve(ctx, captcha.ChallengeImage, s.taskBody(image))
	if err != nil {
		return nil, err
	}
	res, err := normalizeImage(out)
	if err != nil {
		return nil, s.client.classify.Malformed(captcha.ChallengeImage, err)
	}
	return res, nil
}

func (s *ImageSolver) taskBody(image []byte) task.Request {
	body := task.Request{
		keyType: typeImage,
		keyBody: base64.StdEncoding.EncodeToString(image),
	}
	if s.params.WebsiteURL != "" {
		body[keyWebsiteURL] = s.params.WebsiteURL
	}
	return body
}

func normalizeImage(out task.Outcome) (*captcha.ImageTextResult, error) {
	text, err := out.Solution.Required(solutionImageText)
	if err != nil {
		return nil, err
	}
	return captcha.NewImageTextResult(text, out.Handle.String(), ""), nil
}
