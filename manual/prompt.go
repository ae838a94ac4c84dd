// Package manual obtains CAPTCHA tokens from a human operator.
package manual

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	captcha "github.com/anatolykoptev/go-captcha"
)

const providerName = "manual"

// Prompt asks an operator to paste a FunCaptcha token. It satisfies
// captcha.TokenSolver, so it can stand in for a remote provider.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer

	// mu serializes prompts; concurrent solves would otherwise interleave on the terminal.
	mu sync.Mutex

	// pending is the read left running by a canceled solve; the next solve takes it over.
	pending chan line
}

var _ captcha.TokenSolver = (*Prompt)(nil)

// NewPrompt reads tokens from in and writes prompts to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Stdin returns a prompt on the process terminal.
func Stdin() *Prompt {
	return NewPrompt(os.Stdin, os.Stdout)
}

type line struct {
	text string
	err  error
}

// Solve prompts for a token and blocks until a line is entered or ctx ends.
// Options do not apply to manual entry and are ignored.
func (p *Prompt) Solve(ctx context.Context, _ ...captcha.Option) (*captcha.TokenResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprint(p.out, "Token: "); err != nil {
		return nil, &captcha.Error{Kind: captcha.KindTransportFailed, Provider: providerName, Challenge: captcha.ChallengeFunCaptcha, Err: err}
	}

	if p.pending == nil {
		done := make(chan line, 1)
		go func() {
			s, err := p.in.ReadString('\n')
			done <- line{text: s, err: err}
		}()
		p.pending = done
	}

	select {
	case <-ctx.Done():
		return nil, &captcha.Error{Kind: captcha.KindCanceled, Provider: providerName, Challenge: captcha.ChallengeFunCaptcha, Err: ctx.Err()}
	case l := <-p.pending:
		p.pending = nil
		if l.err != nil && !(errors.Is(l.err, io.EOF) && l.text != "") {
			return nil, &captcha.Error{Kind: captcha.KindTransportFailed, Provider: providerName, Challenge: captcha.ChallengeFunCaptcha, Err: fmt.Errorf("read token: %w", l.err)}
		}
		token := strings.TrimSpace(l.text)
		if token == "" {
			return nil, &captcha.Error{Kind: captcha.KindMalformedSolution, Provider: providerName, Challenge: captcha.ChallengeFunCaptcha, Message: "empty token"}
		}
		return captcha.NewTokenResult(token), nil
	}
}
