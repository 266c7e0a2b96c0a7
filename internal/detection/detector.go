package detection

import (
	"context"
	"math"

	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// rejectedConfidenceCap bounds confidence when the confirmer disagrees with the heuristic.
const rejectedConfidenceCap = 0.25

// Confirmation is the outcome of asking a model to double-check a heuristic hit.
type Confirmation int

const (
	// ConfirmationSkipped means no confirmation was attempted.
	ConfirmationSkipped Confirmation = iota
	ConfirmationConfirmed
	ConfirmationRejected
	// ConfirmationUnavailable means no provider could answer; the heuristic stands.
	ConfirmationUnavailable
)

func (c Confirmation) String() string {
	switch c {
	case ConfirmationConfirmed:
		return "confirmed"
	case ConfirmationRejected:
		return "rejected"
	case ConfirmationUnavailable:
		return "unavailable"
	default:
		return "skipped"
	}
}

// Confirmer asks a second opinion on text the heuristic flagged.
type Confirmer interface {
	Confirm(ctx context.Context, text string) Confirmation
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, text string) Confirmation

func (f ConfirmerFunc) Confirm(ctx context.Context, text string) Confirmation {
	return f(ctx, text)
}

// Verdict is the result of the decision procedure.
type Verdict struct {
	IsScam       bool
	Confidence   float64
	Confirmation Confirmation
	Signals      []string
}

// Detector combines the heuristic scorer with optional model confirmation.
// It is cheap to build and is normally created per decision so it carries
// that decision's policy and confirmer.
type Detector struct {
	scorer    *Scorer
	policy    Policy
	confirmer Confirmer
	logger    *logging.Logger
}

// NewDetector wires a detector. confirmer may be nil to disable confirmation.
func NewDetector(scorer *Scorer, policy Policy, confirmer Confirmer, logger *logging.Logger) *Detector {
	if scorer == nil {
		panic("detection: scorer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Detector{scorer: scorer, policy: policy, confirmer: confirmer, logger: logger}
}

// Detect scores text and, for heuristic hits, asks the confirmer when enabled.
func (d *Detector) Detect(ctx context.Context, text string) Verdict {
	signals := d.scorer.Signals(text)
	score := d.policy.Score(d.scorer.Hits(text))
	verdict := Verdict{
		IsScam:     d.policy.IsScam(score),
		Confidence: score,
		Signals:    signals,
	}

	d.logger.Debug("heuristic_score_computed",
		"score", math.Round(score*10000)/10000,
		"is_scam", verdict.IsScam,
		"text_len", len(text),
		"signals", signals,
	)

	if !verdict.IsScam || !d.policy.ConfirmEnabled || d.confirmer == nil {
		return verdict
	}

	verdict.Confirmation = d.confirmer.Confirm(ctx, text)
	switch verdict.Confirmation {
	case ConfirmationRejected:
		verdict.IsScam = false
		verdict.Confidence = math.Min(verdict.Confidence, rejectedConfidenceCap)
		d.logger.Info("scam_confirm_rejected", "heuristic_score", score)
	case ConfirmationUnavailable:
		d.logger.Debug("scam_confirm_unavailable", "heuristic_score", score)
	}
	return verdict
}
