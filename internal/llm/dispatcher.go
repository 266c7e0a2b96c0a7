package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var dispatchTracer = otel.Tracer("honeypot.internal.llm.dispatcher")

// Task labels a generation purpose for logs and metrics.
type Task string

const (
	TaskReply   Task = "reply"
	TaskConfirm Task = "confirm"
	TaskNotes   Task = "notes"
)

// GenerateRequest is one generation task, tried against each descriptor in turn.
type GenerateRequest struct {
	Task        Task
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// Result is the first usable completion.
type Result struct {
	Text       string
	Descriptor Descriptor
	Attempts   int
	Usage      TokenUsage
}

// Dispatcher tries resolved providers strictly in order and returns the first
// usable completion. Attempts are sequential: racing providers would multiply
// cost and make the chosen backend nondeterministic.
type Dispatcher struct {
	factory ClientFactory
	timeout time.Duration
	metrics *metrics.HoneypotMetrics
	logger  *logging.Logger
}

// NewDispatcher creates a dispatcher. timeout bounds each provider call; zero disables it.
func NewDispatcher(factory ClientFactory, timeout time.Duration, m *metrics.HoneypotMetrics, logger *logging.Logger) *Dispatcher {
	if factory == nil {
		panic("llm: client factory cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		factory: factory,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

// WithLogger returns a copy of the dispatcher that logs through l, typically a
// logger already carrying request and session ids.
func (d *Dispatcher) WithLogger(l *logging.Logger) *Dispatcher {
	if l == nil {
		return d
	}
	clone := *d
	clone.logger = l
	return &clone
}

// Generate resolves providers from the snapshot and tries each in order.
func (d *Dispatcher) Generate(ctx context.Context, settings Settings, req GenerateRequest) (Result, error) {
	descriptors := Resolve(settings)
	if len(descriptors) == 0 {
		d.logger.Error("no_llm_configured", "task", req.Task)
		return Result{}, ErrNoProvider
	}

	var lastErr error
	for i, desc := range descriptors {
		d.logger.Info("trying_provider",
			"task", req.Task,
			"provider", desc.Provider,
			"model", desc.Model,
			"message_count", len(req.Messages),
		)

		start := time.Now()
		resp, err := d.attempt(ctx, desc, req)
		elapsed := time.Since(start)
		if err == nil {
			d.metrics.ObserveProviderAttempt(string(desc.Provider), string(req.Task), "ok", elapsed.Seconds())
			d.logger.Info("provider_succeeded",
				"task", req.Task,
				"provider", desc.Provider,
				"response_len", len(resp.Text),
				"duration_ms", elapsed.Milliseconds(),
			)
			return Result{Text: resp.Text, Descriptor: desc, Attempts: i + 1, Usage: resp.Usage}, nil
		}

		status := "error"
		if errors.Is(err, ErrEmptyResponse) {
			status = "empty"
		}
		d.metrics.ObserveProviderAttempt(string(desc.Provider), string(req.Task), status, elapsed.Seconds())
		d.logger.Warn("provider_failed",
			"task", req.Task,
			"provider", desc.Provider,
			"error", err.Error(),
		)
		lastErr = err
	}

	d.logger.Error("all_providers_failed",
		"task", req.Task,
		"provider_count", len(descriptors),
		"last_error", lastErr.Error(),
	)
	return Result{}, &AllProvidersFailedError{Attempts: len(descriptors), Last: lastErr}
}

// attempt makes exactly one call. A panic in a client is contained here so it
// only fails this descriptor.
func (d *Dispatcher) attempt(ctx context.Context, desc Descriptor, req GenerateRequest) (resp Response, err error) {
	ctx, span := dispatchTracer.Start(ctx, "llm.attempt")
	defer span.End()
	span.SetAttributes(
		attribute.String("honeypot.task", string(req.Task)),
		attribute.String("honeypot.provider", string(desc.Provider)),
		attribute.String("honeypot.model", desc.Model),
	)

	defer func() {
		if r := recover(); r != nil {
			resp = Response{}
			err = fmt.Errorf("llm: %s client panicked: %v", desc.Provider, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	client, err := d.factory.ClientFor(ctx, desc)
	if err != nil {
		return Response{}, err
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resp, err = client.Complete(ctx, Request{
		Model:       desc.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return Response{}, ErrEmptyResponse
	}
	return resp, nil
}
