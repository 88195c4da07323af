package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/webqa/internal/qa"
	"github.com/ollama/ollama/api"
)

const systemPrompt = `You answer questions by extracting text from a context.
RULES:
1. The answer MUST be copied verbatim from the context: a short contiguous span, no rewording.
2. Prefer the shortest span that fully answers the question.
3. If the context does not contain the answer, use an empty string.
Respond ONLY with JSON: {"answer": "<span>"}`

// Client asks a local Ollama model to select an answer span, then locates
// that span in the context. Spans the model did not copy verbatim score 0.
type Client struct {
	api   *api.Client
	model string
}

func NewClient(host, model string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(host)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{api: api.NewClient(base, httpClient), model: model}, nil
}

func (c *Client) Answer(ctx context.Context, question, qaContext string) (qa.Answer, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION: %s", qaContext, question)},
		},
		Stream:  &stream,
		Format:  json.RawMessage(`"json"`),
		Options: map[string]any{"temperature": 0},
	}

	var content strings.Builder
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return qa.Answer{}, fmt.Errorf("ollama chat: %w", err)
	}

	span, err := decodeAnswer(content.String())
	if err != nil {
		return qa.Answer{}, err
	}
	return locate(span, qaContext), nil
}

func decodeAnswer(raw string) (string, error) {
	obj, err := firstJSONObject(raw)
	if err != nil {
		return "", err
	}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return "", fmt.Errorf("failed to parse model output: %w", err)
	}
	return strings.TrimSpace(out.Answer), nil
}

// locate maps span back onto qaContext. An exact match scores 1, a
// case-insensitive match 0.5 (returning the context's casing), anything else 0.
func locate(span, qaContext string) qa.Answer {
	if span == "" {
		return qa.Answer{Start: -1, End: -1}
	}
	if i := strings.Index(qaContext, span); i >= 0 {
		return qa.Answer{Text: span, Score: 1, Start: i, End: i + len(span)}
	}
	lower := strings.ToLower(qaContext)
	if len(lower) == len(qaContext) {
		if i := strings.Index(lower, strings.ToLower(span)); i >= 0 {
			end := i + len(span)
			return qa.Answer{Text: qaContext[i:end], Score: 0.5, Start: i, End: end}
		}
	}
	return qa.Answer{Text: span, Score: 0, Start: -1, End: -1}
}

func (c *Client) Close() error { return nil }
