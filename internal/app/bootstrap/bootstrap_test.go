package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/honeypot"
	httpmiddleware "github.com/wolfman30/honeypot-agent/internal/http/middleware"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

func TestBuildRedisClientDisabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logging.New("error"), true))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, logging.New("error"), true))
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr()}

	client := BuildRedisClient(context.Background(), cfg, logging.New("error"), true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), cfg, logging.New("error"), true))
}

func TestBuildRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Nil(t, BuildRateLimiter(ctx, &appconfig.Config{RateLimitRPS: 0}, nil, nil))

	cfg := &appconfig.Config{RateLimitRPS: 5, RateLimitBurst: 10}
	_, isMemory := BuildRateLimiter(ctx, cfg, nil, nil).(*httpmiddleware.RateLimiter)
	assert.True(t, isMemory)

	mr := miniredis.RunT(t)
	client := BuildRedisClient(ctx, &appconfig.Config{RedisAddr: mr.Addr()}, nil, false)
	t.Cleanup(func() { _ = client.Close() })
	_, isRedis := BuildRateLimiter(ctx, cfg, client, nil).(*httpmiddleware.RedisRateLimiter)
	assert.True(t, isRedis)
}

func TestBuildScorer(t *testing.T) {
	scorer, err := BuildScorer(&appconfig.Config{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, scorer)

	path := filepath.Join(t.TempDir(), "keywords.txt")
	require.NoError(t, os.WriteFile(path, []byte("gift card\n"), 0o600))
	scorer, err = BuildScorer(&appconfig.Config{ScamKeywordsFile: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, scorer.Hits("please buy a Gift Card today"))

	_, err = BuildScorer(&appconfig.Config{ScamKeywordsFile: filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.Error(t, err)
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, nil, nil, nil, logging.New("error"))
	assert.Error(t, err)
}

func TestBuildWithoutProvidersReturnsUnavailable(t *testing.T) {
	callbacks := 0
	evaluator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callbacks++
		w.WriteHeader(http.StatusOK)
	}))
	defer evaluator.Close()

	cfg := &appconfig.Config{
		CallbackURL:     evaluator.URL,
		CallbackTimeout: time.Second,
		LLMTimeout:      time.Second,
	}
	settings := func() honeypot.Snapshot {
		return honeypot.Snapshot{Policy: cfg.DetectionPolicy()}
	}

	rt, err := Build(context.Background(), cfg, nil, settings, nil, logging.New("error"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	assert.Nil(t, rt.Limiter)
	assert.Nil(t, rt.Redis)

	body := `{"sessionId":"s-1","message":{"sender":"scammer","text":"URGENT: your bank account is blocked, share the OTP to verify immediately","timestamp":1}}`
	rec := httptest.NewRecorder()
	rt.Handler.Message(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no generation provider configured")
	assert.Zero(t, callbacks)
}
