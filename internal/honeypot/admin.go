package honeypot

import (
	"encoding/json"
	"net/http"

	"github.com/wolfman30/honeypot-agent/internal/llm"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

// AdminHandler exposes operational views for authenticated operators.
type AdminHandler struct {
	settings SettingsFunc
	logger   *logging.Logger
}

func NewAdminHandler(settings SettingsFunc, logger *logging.Logger) *AdminHandler {
	if settings == nil {
		panic("honeypot: settings func cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{settings: settings, logger: logger}
}

type providerView struct {
	Provider  llm.Provider `json:"provider"`
	Model     string       `json:"model"`
	BaseURL   string       `json:"baseUrl,omitempty"`
	MaskedKey string       `json:"maskedKey,omitempty"`
}

type providersResponse struct {
	Count     int            `json:"count"`
	LocalOnly bool           `json:"localOnly"`
	Providers []providerView `json:"providers"`
}

// Providers handles GET /admin/providers: the descriptors the next decision
// would try, in order, with credentials masked.
func (h *AdminHandler) Providers(w http.ResponseWriter, r *http.Request) {
	snap := h.settings()
	descriptors := llm.Resolve(snap.LLM)

	views := make([]providerView, 0, len(descriptors))
	for _, d := range descriptors {
		views = append(views, providerView{
			Provider:  d.Provider,
			Model:     d.Model,
			BaseURL:   d.BaseURL,
			MaskedKey: d.MaskedKey(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(providersResponse{
		Count:     len(views),
		LocalOnly: snap.LLM.LocalOnly,
		Providers: views,
	}); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
