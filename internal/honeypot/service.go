// Package honeypot composes scoring, persona generation, extraction and
// reporting into the per-message decision.
package honeypot

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/wolfman30/honeypot-agent/internal/agent"
	"github.com/wolfman30/honeypot-agent/internal/callback"
	"github.com/wolfman30/honeypot-agent/internal/detection"
	"github.com/wolfman30/honeypot-agent/internal/intel"
	"github.com/wolfman30/honeypot-agent/internal/llm"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("honeypot.internal.honeypot")

// ErrAgentUnavailable is returned when a scam was detected but no reply could
// be generated. It is the only failure surfaced to callers.
var ErrAgentUnavailable = errors.New("honeypot: agent unavailable")

// State is a step of the decision. Outcome.State holds the last one reached.
type State string

const (
	StateReceived           State = "received"
	StateScored             State = "scored"
	StateNotScam            State = "not_scam"
	StateScamSuspected      State = "scam_suspected"
	StateReplyGenerated     State = "reply_generated"
	StateIntelExtracted     State = "intel_extracted"
	StateNotesGenerated     State = "notes_generated"
	StateCallbackDispatched State = "callback_dispatched"
)

// Snapshot is the configuration one decision runs against.
type Snapshot struct {
	LLM    llm.Settings
	Policy detection.Policy
}

// SettingsFunc produces a fresh snapshot. It is called exactly once per decision.
type SettingsFunc func() Snapshot

// Reporter delivers the final report.
type Reporter interface {
	Deliver(ctx context.Context, report callback.Report) bool
}

// Decision is the input for one incoming message.
type Decision struct {
	RequestID string
	SessionID string
	Message   Message
	History   []Message
}

// Outcome is what the decision produced.
type Outcome struct {
	State             State
	ScamDetected      bool
	Confidence        float64
	Reply             string
	Intelligence      intel.Intelligence
	Notes             string
	CallbackDelivered bool
}

// Service runs decisions. It holds no per-request state.
type Service struct {
	scorer   *detection.Scorer
	agent    *agent.Agent
	reporter Reporter
	settings SettingsFunc
	metrics  *metrics.HoneypotMetrics
	logger   *logging.Logger
}

func NewService(scorer *detection.Scorer, ag *agent.Agent, reporter Reporter, settings SettingsFunc, m *metrics.HoneypotMetrics, logger *logging.Logger) *Service {
	if scorer == nil {
		panic("honeypot: scorer cannot be nil")
	}
	if ag == nil {
		panic("honeypot: agent cannot be nil")
	}
	if reporter == nil {
		panic("honeypot: reporter cannot be nil")
	}
	if settings == nil {
		panic("honeypot: settings func cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		scorer:   scorer,
		agent:    ag,
		reporter: reporter,
		settings: settings,
		metrics:  m,
		logger:   logger,
	}
}

// Decide scores the conversation and, for scams, replies in persona, extracts
// intelligence, writes a behavior note and delivers the report. Non-scam
// messages get an empty reply and no further work.
func (s *Service) Decide(ctx context.Context, d Decision) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "honeypot.decide")
	defer span.End()
	span.SetAttributes(
		attribute.String("honeypot.session_id", d.SessionID),
		attribute.Int("honeypot.history_len", len(d.History)),
	)

	logger := s.logger.With("request_id", d.RequestID, "session_id", d.SessionID)
	snap := s.settings()
	ag := s.agent.WithLogger(logger)
	reporter := s.reporter
	if r, ok := reporter.(*callback.Reporter); ok {
		reporter = r.WithLogger(logger)
	}

	logger.Info("request_received",
		"message_len", len(d.Message.Text),
		"history_len", len(d.History),
	)

	text := conversationText(d.Message, d.History)
	var confirmer detection.Confirmer
	if snap.Policy.ConfirmEnabled {
		confirmer = ag.Confirmer(snap.LLM)
	}
	verdict := detection.NewDetector(s.scorer, snap.Policy, confirmer, logger).Detect(ctx, text)
	out := Outcome{State: StateScored, ScamDetected: verdict.IsScam, Confidence: verdict.Confidence}
	logger.Info("scam_detection_complete",
		"is_scam", verdict.IsScam,
		"confidence", math.Round(verdict.Confidence*10000)/10000,
		"confirmation", verdict.Confirmation.String(),
	)

	if !verdict.IsScam {
		out.State = StateNotScam
		s.metrics.ObserveDecision(string(StateNotScam))
		logger.Info("no_scam_returning_empty_reply")
		return out, nil
	}
	out.State = StateScamSuspected

	current := toTurn(d.Message)
	history := toTurns(d.History)

	reply, err := ag.Reply(ctx, snap.LLM, current, history)
	if err != nil {
		s.metrics.ObserveDecision("agent_unavailable")
		logger.Error("agent_error", "error", err.Error())
		span.RecordError(err)
		span.SetStatus(codes.Error, "agent unavailable")
		return out, fmt.Errorf("%w: %w", ErrAgentUnavailable, err)
	}
	out.Reply = reply
	out.State = StateReplyGenerated
	logger.Info("agent_reply_generated", "reply_len", len(reply))

	out.Intelligence = intel.Extract(text)
	out.State = StateIntelExtracted
	logger.Debug("intelligence_extracted", out.Intelligence.LogAttrs()...)

	out.Notes = ag.Notes(ctx, snap.LLM, current, history, out.Intelligence)
	out.State = StateNotesGenerated

	total := len(d.History) + 1
	out.CallbackDelivered = reporter.Deliver(ctx, callback.Report{
		SessionID:              d.SessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: total,
		ExtractedIntelligence:  out.Intelligence,
		AgentNotes:             out.Notes,
	})
	out.State = StateCallbackDispatched
	logger.Info("callback_complete",
		"total_messages", total,
		"callback_success", out.CallbackDelivered,
	)

	s.metrics.ObserveDecision("engaged")
	return out, nil
}

// conversationText joins the current message and every history turn with single spaces.
func conversationText(current Message, history []Message) string {
	text := current.Text
	for _, m := range history {
		text += " " + m.Text
	}
	return text
}

func toTurn(m Message) agent.Turn {
	return agent.Turn{Sender: m.Sender, Text: m.Text}
}

func toTurns(history []Message) []agent.Turn {
	turns := make([]agent.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, toTurn(m))
	}
	return turns
}
