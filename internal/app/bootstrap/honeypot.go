package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/honeypot-agent/internal/agent"
	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/detection"
	"github.com/wolfman30/honeypot-agent/internal/honeypot"
	httpmiddleware "github.com/wolfman30/honeypot-agent/internal/http/middleware"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// Runtime is the wired honeypot pipeline shared by the HTTP server and the
// Lambda entry point.
type Runtime struct {
	Service *honeypot.Service
	Handler *honeypot.Handler
	Admin   *honeypot.AdminHandler
	Limiter httpmiddleware.Limiter
	Redis   *redis.Client
}

// Close releases connections held by the runtime.
func (r *Runtime) Close() error {
	if r == nil || r.Redis == nil {
		return nil
	}
	return r.Redis.Close()
}

// BuildScorer loads the optional keyword list and builds the heuristic scorer.
func BuildScorer(cfg *appconfig.Config, logger *logging.Logger) (*detection.Scorer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	path := strings.TrimSpace(cfg.ScamKeywordsFile)
	if path == "" {
		return detection.NewScorer(nil), nil
	}
	keywords, err := detection.LoadKeywords(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	logger.Info("scam keywords loaded", "path", path, "count", len(keywords))
	return detection.NewScorer(keywords), nil
}

// EnvSettings re-reads the environment on every call so that rotated
// credentials and policy changes apply to the next decision without a restart.
func EnvSettings() honeypot.Snapshot {
	cfg := appconfig.Load()
	return honeypot.Snapshot{
		LLM:    cfg.LLMSettings(),
		Policy: cfg.DetectionPolicy(),
	}
}

// Build wires the full decision pipeline. settings may be nil, in which case
// EnvSettings is used.
func Build(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, settings honeypot.SettingsFunc, m *metrics.HoneypotMetrics, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if settings == nil {
		settings = EnvSettings
	}

	scorer, err := BuildScorer(cfg, logger)
	if err != nil {
		return nil, err
	}
	dispatcher := BuildDispatcher(cfg, awsCfg, m, logger)
	reporter := BuildReporter(cfg, awsCfg, m, logger)
	service := honeypot.NewService(scorer, agent.New(dispatcher, m, logger), reporter, settings, m, logger)

	redisClient := BuildRedisClient(ctx, cfg, logger, true)

	return &Runtime{
		Service: service,
		Handler: honeypot.NewHandler(service, logger),
		Admin:   honeypot.NewAdminHandler(settings, logger),
		Limiter: BuildRateLimiter(ctx, cfg, redisClient, logger),
		Redis:   redisClient,
	}, nil
}
