// Package provider builds the process-wide question-answering model.
package provider

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/webqa/config"
	"github.com/mohammad-safakhou/webqa/internal/qa"
	"github.com/mohammad-safakhou/webqa/provider/huggingface"
	"github.com/mohammad-safakhou/webqa/provider/ollama"
)

// Client names a model backend.
type Client string

const (
	HuggingFace Client = "huggingface"
	Ollama      Client = "ollama"
)

// NewModel creates the model named by cfg.Provider. Callers own the result
// and must Close it at shutdown.
func NewModel(cfg config.QAConfig) (qa.Model, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	switch Client(cfg.Provider) {
	case HuggingFace:
		return huggingface.NewClient(cfg.BaseURL, cfg.Model, cfg.APIKey, httpClient), nil
	case Ollama:
		return ollama.NewClient(cfg.OllamaHost, cfg.Model, httpClient)
	default:
		return nil, fmt.Errorf("unsupported QA provider %q", cfg.Provider)
	}
}
