package honeypot

import (
	"errors"
	"fmt"
	"strings"
)

// Message is one chat turn as received from the platform.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Metadata is accepted for completeness; the decision logic does not use it.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// Request is the body of POST /.
type Request struct {
	SessionID           string    `json:"sessionId"`
	Message             *Message  `json:"message"`
	ConversationHistory []Message `json:"conversationHistory"`
	Metadata            *Metadata `json:"metadata,omitempty"`
}

// Validate reports missing required fields.
func (r Request) Validate() error {
	var problems []string
	if strings.TrimSpace(r.SessionID) == "" {
		problems = append(problems, "sessionId is required")
	}
	if r.Message == nil {
		problems = append(problems, "message is required")
	} else if strings.TrimSpace(r.Message.Sender) == "" {
		problems = append(problems, "message.sender is required")
	}
	for i, m := range r.ConversationHistory {
		if strings.TrimSpace(m.Sender) == "" {
			problems = append(problems, fmt.Sprintf("conversationHistory[%d].sender is required", i))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// Response is the body returned for a processed message.
type Response struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}
