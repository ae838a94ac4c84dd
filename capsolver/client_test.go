package capsolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/transport"
)

type reply struct {
	status int
	body   string
}

// fakeAPI answers each endpoint from a script; the last entry repeats.
type fakeAPI struct {
	mu      sync.Mutex
	scripts map[string][]reply
	bodies  map[string][]map[string]any
}

func newFakeAPI(scripts map[string][]reply) *fakeAPI {
	return &fakeAPI{scripts: scripts, bodies: map[string][]map[string]any{}}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], body)
	script := f.scripts[r.URL.Path]
	if len(script) == 0 {
		f.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	rep := script[0]
	if len(script) > 1 {
		f.scripts[r.URL.Path] = script[1:]
	}
	f.mu.Unlock()

	if rep.status == 0 {
		rep.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

func (f *fakeAPI) calls(path string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClient("CAP-test", captcha.Config{
		Transport:     transport.NewGentleman(5*time.Second, ""),
		PollInterval:  time.Millisecond,
		Hook:          func(captcha.Event) {},
		CreateTaskURL: srv.URL + "/createTask",
		ResultURL:     srv.URL + "/getTaskResult",
		BalanceURL:    srv.URL + "/getBalance",
	})
	require.NoError(t, err)
	return c
}

func TestHCaptchaSolve(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {{body: `{"errorId":0,"taskId":"61138bb6-19fb-11ec-a9c8-0242ac110006"}`}},
		"/getTaskResult": {
			{body: `{"errorId":0,"status":"idle"}`},
			{body: `{"errorId":0,"status":"processing"}`},
			{body: `{"errorId":0,"status":"ready","solution":{"gRecaptchaResponse":"P1_eyJ","respKey":"E0_eyJ","userAgent":"Mozilla/5.0"}}`},
		},
	})
	c := newTestClient(t, api)

	p := captcha.NewProxy("10.0.0.1", 8080, captcha.WithProxyUsername("u"))
	res, err := c.HCaptcha(captcha.HCaptchaParams{WebsiteURL: "https://example.com", SiteKey: "k"}).
		Solve(context.Background(), captcha.WithProxy(p), captcha.WithUserAgent("Mozilla/5.0"))
	require.NoError(t, err)
	assert.Equal(t, "P1_eyJ", res.ResponseKey())
	assert.Equal(t, "E0_eyJ", res.RequestKey())

	creates := api.calls("/createTask")
	require.Len(t, creates, 1)
	assert.Equal(t, map[string]any{
		"type":         "HCaptchaTask",
		"websiteURL":   "https://example.com",
		"websiteKey":   "k",
		"userAgent":    "Mozilla/5.0",
		"proxyType":    "http",
		"proxyAddress": "10.0.0.1",
		"proxyPort":    float64(8080),
		"proxyLogin":   "u",
	}, creates[0]["task"])

	polls := api.calls("/getTaskResult")
	require.Len(t, polls, 3)
	assert.Equal(t, "61138bb6-19fb-11ec-a9c8-0242ac110006", polls[0]["taskId"])
}

func TestBadRequestEnvelopeIsRejection(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {{status: http.StatusBadRequest, body: `{"errorId":1,"errorCode":"ERROR_INVALID_TASK_DATA","errorDescription":"websiteKey is required"}`}},
	})
	c := newTestClient(t, api)

	_, err := c.HCaptcha(captcha.HCaptchaParams{WebsiteURL: "https://example.com"}).Solve(context.Background())
	var ce *captcha.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, captcha.KindRequestFailed, ce.Kind)
	assert.Equal(t, "ERROR_INVALID_TASK_DATA", ce.Code)
	assert.Equal(t, "websiteKey is required", ce.Message)
}

func TestServerErrorIsRejection(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {{status: http.StatusBadGateway, body: `bad gateway`}},
	})
	c := newTestClient(t, api)

	_, err := c.FunCaptcha(captcha.FunCaptchaParams{WebsiteURL: "https://example.com", PublicKey: "k"}).Solve(context.Background())
	var ce *captcha.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, captcha.KindRequestFailed, ce.Kind)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
}

func TestFailedTaskIsResubmitted(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {
			{body: `{"errorId":0,"taskId":"a"}`},
			{body: `{"errorId":0,"taskId":"b"}`},
		},
		"/getTaskResult": {
			{body: `{"errorId":0,"status":"failed"}`},
			{body: `{"errorId":0,"status":"ready","solution":{"token":"tok"}}`},
		},
	})
	c := newTestClient(t, api)

	res, err := c.FunCaptcha(captcha.FunCaptchaParams{WebsiteURL: "https://example.com", PublicKey: "k"}).Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token())
	assert.Len(t, api.calls("/createTask"), 2)

	polls := api.calls("/getTaskResult")
	require.Len(t, polls, 2)
	assert.Equal(t, "a", polls[0]["taskId"])
	assert.Equal(t, "b", polls[1]["taskId"])
}

func TestImageSolveIsSynchronous(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {{body: `{"errorId":0,"status":"ready","solution":{"text":"44795sds","confidence":0.9}, "taskId":"img-1"}`}},
	})
	c := newTestClient(t, api)

	res, err := c.Image(captcha.ImageParams{Module: "queueit"}).Solve(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "44795sds", res.Text())
	conf, ok := res.Confidence()
	assert.True(t, ok)
	assert.Equal(t, "0.9", conf)
	id, ok := res.TaskID()
	assert.True(t, ok)
	assert.Equal(t, "img-1", id)

	assert.Empty(t, api.calls("/getTaskResult"))
	task := api.calls("/createTask")[0]["task"].(map[string]any)
	assert.Equal(t, "queueit", task["module"])
	assert.Equal(t, "aW1n", task["body"])
}

func TestImageMissingText(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask": {{body: `{"errorId":0,"status":"ready","solution":{"confidence":0.1}}`}},
	})
	c := newTestClient(t, api)

	_, err := c.Image(captcha.ImageParams{}).Solve(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, captcha.ErrMalformedSolution)
}

func TestCancelWhileProcessing(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask":    {{body: `{"errorId":0,"taskId":"slow"}`}},
		"/getTaskResult": {{body: `{"errorId":0,"status":"processing"}`}},
	})
	c := newTestClient(t, api)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.HCaptcha(captcha.HCaptchaParams{WebsiteURL: "https://example.com", SiteKey: "k"}).Solve(ctx)
	assert.ErrorIs(t, err, captcha.ErrCanceled)
}

func TestMaxPollsExhausted(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/createTask":    {{body: `{"errorId":0,"taskId":"slow"}`}},
		"/getTaskResult": {{body: `{"errorId":0,"status":"processing"}`}},
	})
	srv := httptest.NewServer(api)
	defer srv.Close()

	c, err := NewClient("CAP-test", captcha.Config{
		Transport:     transport.NewGentleman(5*time.Second, ""),
		PollInterval:  time.Millisecond,
		MaxPolls:      2,
		Hook:          func(captcha.Event) {},
		CreateTaskURL: srv.URL + "/createTask",
		ResultURL:     srv.URL + "/getTaskResult",
	})
	require.NoError(t, err)

	_, err = c.FunCaptcha(captcha.FunCaptchaParams{WebsiteURL: "https://example.com", PublicKey: "k"}).Solve(context.Background())
	assert.ErrorIs(t, err, captcha.ErrExhausted)
	assert.Len(t, api.calls("/getTaskResult"), 2)
}

func TestBalanceWarnLevelChecksBalance(t *testing.T) {
	api := newFakeAPI(map[string][]reply{
		"/getBalance":    {{body: `{"errorId":0,"balance":0.5}`}},
		"/createTask":    {{body: `{"errorId":0,"taskId":"t"}`}},
		"/getTaskResult": {{body: `{"errorId":0,"status":"ready","solution":{"token":"tok"}}`}},
	})
	srv := httptest.NewServer(api)
	defer srv.Close()

	c, err := NewClient("CAP-test", captcha.Config{
		Transport:        transport.NewGentleman(5*time.Second, ""),
		PollInterval:     time.Millisecond,
		BalanceWarnLevel: 1,
		Hook:             func(captcha.Event) {},
		CreateTaskURL:    srv.URL + "/createTask",
		ResultURL:        srv.URL + "/getTaskResult",
		BalanceURL:       srv.URL + "/getBalance",
	})
	require.NoError(t, err)

	_, err = c.FunCaptcha(captcha.FunCaptchaParams{WebsiteURL: "https://example.com", PublicKey: "k"}).Solve(context.Background())
	require.NoError(t, err)
	assert.Len(t, api.calls("/getBalance"), 1)
	assert.Equal(t, "CAP-test", api.calls("/getBalance")[0]["clientKey"])
}
