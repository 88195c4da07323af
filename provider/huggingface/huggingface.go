package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mohammad-safakhou/webqa/internal/qa"
)

// Client calls the question-answering task of a Hugging Face inference
// endpoint (hosted API or a self-hosted server exposing the same route).
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

type request struct {
	Inputs struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	} `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

type response struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

func NewClient(baseURL, model, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) endpoint() string {
	return c.baseURL + "/models/" + c.model
}

func (c *Client) Answer(ctx context.Context, question, qaContext string) (qa.Answer, error) {
	var body request
	body.Inputs.Question = question
	body.Inputs.Context = qaContext
	body.Options.WaitForModel = true

	jsonData, err := json.Marshal(body)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return qa.Answer{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return qa.Answer{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return qa.Answer{}, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return qa.Answer{}, fmt.Errorf("inference API returned status: %d", resp.StatusCode)
	}

	out, err := decode(raw)
	if err != nil {
		return qa.Answer{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return qa.Answer{Text: out.Answer, Score: out.Score, Start: out.Start, End: out.End}, nil
}

// decode accepts a single result object or a ranked list, keeping the top one.
func decode(raw []byte) (response, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []response
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return response{}, err
		}
		if len(list) == 0 {
			return response{}, fmt.Errorf("empty answer list")
		}
		return list[0], nil
	}
	var out response
	err := json.Unmarshal(trimmed, &out)
	return out, err
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
