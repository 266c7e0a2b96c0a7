package callback

import (
	"context"
	"errors"

	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// Sink is one report destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, report Report) error
}

// Reporter sends each report to the primary sink, then to any mirrors. Only
// the primary result is reported back; every outcome is logged and counted.
type Reporter struct {
	primary Sink
	mirrors []Sink
	metrics *metrics.HoneypotMetrics
	logger  *logging.Logger
}

func NewReporter(primary Sink, m *metrics.HoneypotMetrics, logger *logging.Logger, mirrors ...Sink) *Reporter {
	if primary == nil {
		panic("callback: primary sink cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Reporter{primary: primary, mirrors: mirrors, metrics: m, logger: logger}
}

// WithLogger returns a copy that logs through l.
func (r *Reporter) WithLogger(l *logging.Logger) *Reporter {
	if l == nil {
		return r
	}
	clone := *r
	clone.logger = l
	return &clone
}

// Deliver makes one attempt per sink and reports whether the primary accepted it.
func (r *Reporter) Deliver(ctx context.Context, report Report) bool {
	ok := r.send(ctx, r.primary, report)
	for _, mirror := range r.mirrors {
		r.send(ctx, mirror, report)
	}
	return ok
}

func (r *Reporter) send(ctx context.Context, sink Sink, report Report) bool {
	err := sink.Send(ctx, report)
	r.metrics.ObserveDelivery(sink.Name(), err == nil)
	if err == nil {
		r.logger.Info("callback_sent",
			"sink", sink.Name(),
			"total_messages_exchanged", report.TotalMessagesExchanged,
		)
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		r.logger.Error("callback_failed_non_2xx",
			"sink", sink.Name(),
			"status_code", statusErr.StatusCode,
			"response_preview", statusErr.Preview,
		)
		return false
	}
	r.logger.Error("callback_request_failed", "sink", sink.Name(), "error", err.Error())
	return false
}
