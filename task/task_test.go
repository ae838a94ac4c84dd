package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captcha "github.com/anatolykoptev/go-captcha"
)

func TestHandleKeepsJSONForm(t *testing.T) {
	tests := []struct {
		raw  string
		str  string
		wire string
	}{
		{`72345678901`, "72345678901", `72345678901`},
		{`"0b6e2a8c-5d7a-4a0e"`, "0b6e2a8c-5d7a-4a0e", `"0b6e2a8c-5d7a-4a0e"`},
		{` 12 `, "12", `12`},
	}
	for _, tt := range tests {
		h, err := NewHandle(json.RawMessage(tt.raw))
		require.NoError(t, err)
		assert.Equal(t, tt.str, h.String())

		b, err := json.Marshal(map[string]any{"taskId": h})
		require.NoError(t, err)
		assert.JSONEq(t, `{"taskId":`+tt.wire+`}`, string(b))
	}
}

func TestHandleRejectsEmpty(t *testing.T) {
	for _, raw := range []string{``, `null`, `""`, `  `} {
		_, err := NewHandle(json.RawMessage(raw))
		assert.Error(t, err, "NewHandle(%q)", raw)
	}
	assert.True(t, Handle{}.IsZero())
	assert.False(t, IntHandle(1).IsZero())
	assert.Equal(t, "abc", StringHandle("abc").String())
}

func TestProxyFields(t *testing.T) {
	keys := ProxyKeys{Type: "proxyType", Address: "proxyAddress", Port: "proxyPort", Login: "proxyLogin", Password: "proxyPassword"}

	bare := ProxyFields(captcha.NewProxy("10.0.0.1", 8080), keys)
	assert.Equal(t, Request{"proxyType": "http", "proxyAddress": "10.0.0.1", "proxyPort": 8080}, bare)

	full := ProxyFields(captcha.NewProxy("10.0.0.1", 8080, captcha.WithProxyUsername("u"), captcha.WithProxyPassword("p")), keys)
	assert.Equal(t, "u", full["proxyLogin"])
	assert.Equal(t, "p", full["proxyPassword"])

	passOnly := ProxyFields(captcha.NewProxy("10.0.0.1", 8080, captcha.WithProxyPassword("p")), keys)
	assert.NotContains(t, passOnly, "proxyLogin")
	assert.Equal(t, "p", passOnly["proxyPassword"])
}

func TestRequestMerge(t *testing.T) {
	r := Request{"type": "A", "websiteURL": "https://example.com"}
	r.Merge(Request{"type": "B", "proxyPort": 1})
	assert.Equal(t, Request{"type": "B", "websiteURL": "https://example.com", "proxyPort": 1}, r)
}
