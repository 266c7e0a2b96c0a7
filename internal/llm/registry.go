package llm

import (
	"fmt"
	"strings"
)

// Settings is an immutable snapshot of provider configuration. It is built
// once per decision so a credential rotation takes effect on the next request.
type Settings struct {
	// Credentials maps a credential env key (GROQ_API_KEYS, ...) to its raw
	// comma-separated value.
	Credentials    map[string]string
	ModelOverrides map[Provider]string
	GlobalModel    string
	GlobalBaseURL  string
	OllamaBaseURL  string
	LocalOnly      bool
	BedrockModelID string
}

// Descriptor is one independently triable backend/credential/endpoint/model
// combination. It is a hypothesis to be tried, not a verified endpoint.
type Descriptor struct {
	Provider Provider `json:"provider"`
	APIKey   string   `json:"-"`
	BaseURL  string   `json:"baseUrl,omitempty"`
	Model    string   `json:"model"`
}

// MaskedKey returns the credential with everything but the last four characters hidden.
func (d Descriptor) MaskedKey() string {
	key := d.APIKey
	if d.Provider == ProviderOllama || key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func (d Descriptor) String() string {
	if masked := d.MaskedKey(); masked != "" {
		return fmt.Sprintf("%s(%s, key=%s)", d.Provider, d.Model, masked)
	}
	return fmt.Sprintf("%s(%s)", d.Provider, d.Model)
}

// Resolve returns the ordered list of descriptors to try. It only reads the
// snapshot; no network I/O is performed.
func Resolve(s Settings) []Descriptor {
	var out []Descriptor

	if base := normalizeOllamaURL(s.OllamaBaseURL); base != "" {
		out = append(out, Descriptor{
			Provider: ProviderOllama,
			APIKey:   "ollama",
			BaseURL:  base,
			Model:    s.modelFor(ProviderOllama),
		})
	}
	if s.LocalOnly {
		return out
	}

	for _, p := range priority {
		switch p.Wire() {
		case WireBedrock:
			if model := strings.TrimSpace(s.BedrockModelID); model != "" {
				out = append(out, Descriptor{Provider: p, Model: model})
			}
			continue
		case WireGemini:
			for _, key := range s.keysFor(p) {
				out = append(out, Descriptor{Provider: p, APIKey: key, Model: s.modelFor(p)})
			}
			continue
		}
		if p == ProviderOllama {
			continue
		}
		base := p.DefaultBaseURL()
		if s.GlobalBaseURL != "" {
			base = s.GlobalBaseURL
		}
		for _, key := range s.keysFor(p) {
			out = append(out, Descriptor{Provider: p, APIKey: key, BaseURL: base, Model: s.modelFor(p)})
		}
	}
	return out
}

func (s Settings) keysFor(p Provider) []string {
	field := providerTable[p].credentialKey
	if field == "" {
		return nil
	}
	return SplitCredentials(s.Credentials[field])
}

// modelFor applies per-provider override, then the global override (OpenAI
// wire only), then the provider default.
func (s Settings) modelFor(p Provider) string {
	if model := strings.TrimSpace(s.ModelOverrides[p]); model != "" {
		return model
	}
	if p.Wire() == WireOpenAI && strings.TrimSpace(s.GlobalModel) != "" {
		return strings.TrimSpace(s.GlobalModel)
	}
	if model := p.DefaultModel(); model != "" {
		return model
	}
	return "gpt-4o-mini"
}

// SplitCredentials parses a comma-delimited credential list, dropping blanks.
func SplitCredentials(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func normalizeOllamaURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}
