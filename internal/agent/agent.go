// Package agent produces the honeypot persona's generated text: the in-character
// reply, the yes/no scam confirmation and the behavior note for reports.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/honeypot-agent/internal/detection"
	"github.com/wolfman30/honeypot-agent/internal/intel"
	"github.com/wolfman30/honeypot-agent/internal/llm"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// SenderScammer marks turns written by the suspected scammer. Any other sender
// is our side of the conversation.
const SenderScammer = "scammer"

const (
	replyMaxTokens    = 150
	replyTemperature  = 0.7
	confirmMaxTokens  = 10
	confirmMaxChars   = 2000
	notesMaxTokens    = 120
	notesTemperature  = 0.3
	notesMaxChars     = 500
	injectionLogFloor = 0.3
)

// Turn is one message in a conversation.
type Turn struct {
	Sender string
	Text   string
}

// Generator runs one generation task with ordered provider fallback.
type Generator interface {
	Generate(ctx context.Context, settings llm.Settings, req llm.GenerateRequest) (llm.Result, error)
}

// Agent wraps a Generator with the persona prompts and post-processing.
type Agent struct {
	gen     Generator
	metrics *metrics.HoneypotMetrics
	logger  *logging.Logger
}

func New(gen Generator, m *metrics.HoneypotMetrics, logger *logging.Logger) *Agent {
	if gen == nil {
		panic("agent: generator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Agent{gen: gen, metrics: m, logger: logger}
}

// WithLogger returns a copy that logs through l, propagating it to the
// dispatcher when one is in use.
func (a *Agent) WithLogger(l *logging.Logger) *Agent {
	if l == nil {
		return a
	}
	clone := *a
	clone.logger = l
	if d, ok := a.gen.(*llm.Dispatcher); ok {
		clone.gen = d.WithLogger(l)
	}
	return &clone
}

// Reply generates the persona's next message. A generation failure is
// returned to the caller; there is no canned reply.
func (a *Agent) Reply(ctx context.Context, settings llm.Settings, current Turn, history []Turn) (string, error) {
	a.scanInbound(current.Text)

	res, err := a.gen.Generate(ctx, settings, llm.GenerateRequest{
		Task:        llm.TaskReply,
		Messages:    personaMessages(current, history),
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("agent: generate reply: %w", err)
	}

	reply := Sanitize(res.Text)
	guard := GuardReply(reply)
	a.metrics.ObserveReplyGuard(guard.Action)
	if guard.Action != GuardPass {
		a.logger.Warn("reply_guard_intervened",
			"action", guard.Action,
			"reasons", guard.Reasons,
			"provider", res.Descriptor.Provider,
		)
	}
	return guard.Reply, nil
}

// Confirm asks a model whether text looks like a scam. Only a reply containing
// YES confirms; anything else rejects. A dispatcher failure leaves the
// heuristic verdict in charge.
func (a *Agent) Confirm(ctx context.Context, settings llm.Settings, text string) detection.Confirmation {
	res, err := a.gen.Generate(ctx, settings, llm.GenerateRequest{
		Task: llm.TaskConfirm,
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleSystem, Content: confirmPrompt},
			{Role: llm.ChatRoleUser, Content: truncateRunes(text, confirmMaxChars)},
		},
		MaxTokens:   confirmMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		a.logger.Debug("scam_confirm_llm_all_failed", "error", err.Error())
		return detection.ConfirmationUnavailable
	}
	if strings.Contains(strings.ToUpper(res.Text), "YES") {
		return detection.ConfirmationConfirmed
	}
	return detection.ConfirmationRejected
}

// Confirmer binds Confirm to one settings snapshot.
func (a *Agent) Confirmer(settings llm.Settings) detection.Confirmer {
	return detection.ConfirmerFunc(func(ctx context.Context, text string) detection.Confirmation {
		return a.Confirm(ctx, settings, text)
	})
}

// Notes summarizes the scammer's tactics for the report. It never fails.
func (a *Agent) Notes(ctx context.Context, settings llm.Settings, current Turn, history []Turn, found intel.Intelligence) string {
	res, err := a.gen.Generate(ctx, settings, llm.GenerateRequest{
		Task: llm.TaskNotes,
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleSystem, Content: notesPrompt},
			{Role: llm.ChatRoleUser, Content: notesContext(current, history, found)},
		},
		MaxTokens:   notesMaxTokens,
		Temperature: notesTemperature,
	})
	if err != nil {
		a.logger.Warn("agent_notes_fallback_used", "error", err.Error())
		return FallbackNotes
	}

	note := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(res.Text))
	note = strings.TrimSpace(truncateRunes(note, notesMaxChars))
	if note == "" {
		return FallbackNotes
	}
	a.logger.Info("agent_notes_generated", "note_len", len(note))
	return note
}

func (a *Agent) scanInbound(text string) {
	scan := ScanInbound(text)
	for _, reason := range scan.Reasons {
		a.metrics.ObserveInjectionSignal(reason)
	}
	if scan.Score >= injectionLogFloor {
		a.logger.Warn("prompt_injection_signals",
			"score", scan.Score,
			"reasons", scan.Reasons,
		)
	}
}

// personaMessages replays the conversation for the persona. Scammer turns map
// to the user role and always carry the quote prefix; our turns map to assistant.
func personaMessages(current Turn, history []Turn) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: llm.ChatRoleSystem, Content: personaPrompt})
	for _, t := range history {
		if t.Sender == SenderScammer {
			messages = append(messages, llm.ChatMessage{Role: llm.ChatRoleUser, Content: quotePrefix + t.Text})
			continue
		}
		messages = append(messages, llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: t.Text})
	}
	return append(messages, llm.ChatMessage{Role: llm.ChatRoleUser, Content: quotePrefix + current.Text})
}

func notesContext(current Turn, history []Turn, found intel.Intelligence) string {
	var b strings.Builder
	b.WriteString("Conversation:\n")
	b.WriteString("Scammer (latest): " + current.Text)
	for _, t := range history {
		b.WriteString("\n" + t.Sender + ": " + t.Text)
	}

	var details []string
	for _, field := range []struct {
		label  string
		values []string
	}{
		{"bank_accounts", found.BankAccounts},
		{"upi_ids", found.UPIIDs},
		{"phishing_links", found.PhishingLinks},
		{"phone_numbers", found.PhoneNumbers},
		{"suspicious_keywords", found.SuspiciousKeywords},
	} {
		if len(field.values) > 0 {
			details = append(details, fmt.Sprintf("%s: [%s]", field.label, strings.Join(field.values, ", ")))
		}
	}
	b.WriteString("\n\nExtracted details:\n")
	if len(details) == 0 {
		b.WriteString(noIntelExtracted)
	} else {
		b.WriteString(strings.Join(details, "\n"))
	}
	b.WriteString("\n\nWrite the 1-2 sentence summary:")
	return b.String()
}
