package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProvider is returned when resolution yields zero descriptors.
	ErrNoProvider = errors.New("llm: no generation provider configured; set OLLAMA_BASE_URL or at least one provider key (e.g. GROQ_API_KEYS)")
	// ErrEmptyResponse marks a blank completion, which counts as a failed attempt.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// AllProvidersFailedError reports that every descriptor was tried and failed.
type AllProvidersFailedError struct {
	Attempts int
	Last     error
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("llm: all %d provider attempts failed; last error: %v", e.Attempts, e.Last)
}

func (e *AllProvidersFailedError) Unwrap() error {
	return e.Last
}
