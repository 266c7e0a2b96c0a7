package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wolfman30/honeypot-agent/internal/callback"
	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// BuildReporter wires the evaluator callback and, when REPORT_QUEUE_URL is
// set, an SQS mirror of every report.
func BuildReporter(cfg *appconfig.Config, awsCfg *aws.Config, m *metrics.HoneypotMetrics, logger *logging.Logger) *callback.Reporter {
	if logger == nil {
		logger = logging.Default()
	}

	primary := callback.NewHTTPSink(cfg.CallbackURL, cfg.CallbackTimeout)

	var mirrors []callback.Sink
	if queueURL := strings.TrimSpace(cfg.ReportQueueURL); queueURL != "" {
		if awsCfg == nil {
			logger.Warn("report queue configured without aws config; mirror disabled", "queue_url", queueURL)
		} else {
			mirrors = append(mirrors, callback.NewSQSSink(sqs.NewFromConfig(*awsCfg), queueURL))
			logger.Info("report mirror enabled", "queue_url", queueURL)
		}
	}
	return callback.NewReporter(primary, m, logger, mirrors...)
}
