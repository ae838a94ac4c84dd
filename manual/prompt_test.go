package manual

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captcha "github.com/anatolykoptev/go-captcha"
)

func TestPromptReadsToken(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("  3084f4a302b176cd7.96368058|r=eu-west-1  \nsecond\n"), &out)

	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3084f4a302b176cd7.96368058|r=eu-west-1", res.Token())
	assert.Equal(t, "Token: ", out.String())

	res, err = p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", res.Token())
}

func TestPromptTokenWithoutNewline(t *testing.T) {
	p := NewPrompt(strings.NewReader("last"), io.Discard)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last", res.Token())
}

func TestPromptEmptyLine(t *testing.T) {
	p := NewPrompt(strings.NewReader("\n"), io.Discard)
	_, err := p.Solve(context.Background())
	assert.ErrorIs(t, err, captcha.ErrMalformedSolution)
}

func TestPromptEOF(t *testing.T) {
	p := NewPrompt(strings.NewReader(""), io.Discard)
	_, err := p.Solve(context.Background())
	assert.ErrorIs(t, err, captcha.ErrTransportFailed)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptCancelKeepsPendingRead(t *testing.T) {
	r, w := io.Pipe()
	p := NewPrompt(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Solve(ctx)
	assert.ErrorIs(t, err, captcha.ErrCanceled)

	go func() { _, _ = w.Write([]byte("late-token\n")) }()
	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late-token", res.Token())
}
