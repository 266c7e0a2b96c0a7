package bootstrap

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/llm"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// BuildDispatcher wires the provider fallback dispatcher. Bedrock is only
// reachable when an AWS config is supplied.
func BuildDispatcher(cfg *appconfig.Config, awsCfg *aws.Config, m *metrics.HoneypotMetrics, logger *logging.Logger) *llm.Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}

	factory := &llm.DefaultFactory{
		HTTPClient: &http.Client{Timeout: cfg.LLMTimeout},
	}
	if awsCfg != nil {
		factory.Bedrock = bedrockruntime.NewFromConfig(*awsCfg)
	} else if cfg.BedrockModelID != "" {
		logger.Warn("bedrock model configured without aws config; bedrock attempts will fail", "model", cfg.BedrockModelID)
	}
	return llm.NewDispatcher(factory, cfg.LLMTimeout, m, logger)
}
