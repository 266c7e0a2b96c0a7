// Package callback delivers final honeypot reports to the external evaluator
// and optional mirrors. Delivery is a single best-effort attempt per sink.
package callback

import "github.com/wolfman30/honeypot-agent/internal/intel"

// Report is the payload posted once a scam conversation has been engaged.
// Field names are fixed by the external evaluator.
type Report struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}
