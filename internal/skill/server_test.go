package skill

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"bitbucket.org/sotavant/alexa-skill-server/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return ln.Addr().(*net.TCPAddr).Port
}

func TestServerRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0
	cfg.RootPath = "/alexa"

	h := &welcomeHandler{}
	s := New(cfg, h, map[string]IntentHandlerFunc{
		"HelloIntent": func(context.Context, *models.Request) (any, error) { return nil, nil },
	})
	h.s = s

	srv := NewServer(cfg, s)
	require.NoError(t, srv.Start())
	defer func() { assert.NoError(t, srv.Stop()) }()

	base := "http://" + srv.Addr()
	client := resty.New()

	t.Run("info", func(t *testing.T) {
		resp, err := client.R().Get(base + "/alexa")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.JSONEq(t, `{"name": "alexa-skill-server", "version": "1.0", "status": "ok", "intents": ["HelloIntent"]}`, string(resp.Body()))
		assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
	})

	t.Run("webhook", func(t *testing.T) {
		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(launchBody).
			Post(base + "/alexa")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), `"text":"Welcome"`)
	})

	t.Run("method_not_allowed", func(t *testing.T) {
		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			r := client.R()
			r.Method = method
			r.URL = base + "/alexa"
			resp, err := r.Send()
			require.NoError(t, err)
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode(), method)
		}
	})

	t.Run("unknown_path", func(t *testing.T) {
		resp, err := client.R().SetBody(launchBody).Post(base + "/other")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := client.R().Get(base + "/metrics")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.True(t, strings.Contains(string(resp.Body()), "skill_dispatch_total"))
	})
}

func TestServerProductionVerifiesRequests(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0
	cfg.Production = true

	h := &welcomeHandler{}
	s := New(cfg, h, nil)
	h.s = s

	srv := NewServer(cfg, s)
	require.NoError(t, srv.Start())
	defer func() { assert.NoError(t, srv.Stop()) }()

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(launchBody).
		Post("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	resp, err = resty.New().R().Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestServerForcedShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0
	cfg.ShutdownGrace = 50 * time.Millisecond

	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	s := New(cfg, nil, map[string]IntentHandlerFunc{
		"Slow": func(context.Context, *models.Request) (any, error) {
			close(entered)
			<-release
			return nil, nil
		},
	})

	srv := NewServer(cfg, s)
	require.NoError(t, srv.Start())

	go func() {
		_, _ = resty.New().R().
			SetBody(`{"version": "1.0", "session": {}, "request": {"type": "IntentRequest", "intent": {"name": "Slow"}}}`).
			Post("http://" + srv.Addr() + "/")
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	start := time.Now()
	assert.ErrorIs(t, srv.Stop(), ErrForcedShutdown)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Port = freePort(t)

	srv := NewServer(cfg, New(cfg, nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Addr() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStartFailsOnBusyPort(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0

	first := NewServer(cfg, New(cfg, nil, nil))
	require.NoError(t, first.Start())
	defer func() { assert.NoError(t, first.Stop()) }()

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	busy := cfg
	busy.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	assert.Error(t, NewServer(busy, New(busy, nil, nil)).Start())
}
