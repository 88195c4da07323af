// Package models holds the JSON bodies exchanged between the service and its clients.
package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is returned by /index/ and by every failed call.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StartChatResponse is returned by /start_chat/.
type StartChatResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// AskResponse is returned by a successful /ask/. ChatHistory is present
// only when the question was asked within a session.
type AskResponse struct {
	Status      string   `json:"status"`
	Answer      string   `json:"answer"`
	ChatHistory []string `json:"chat_history,omitempty"`
}

// Envelope decodes any of the responses above.
type Envelope struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	SessionID   string   `json:"session_id,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	ChatHistory []string `json:"chat_history,omitempty"`
}

func (e Envelope) OK() bool { return e.Status == StatusSuccess }

func Error(msg string) StatusResponse {
	return StatusResponse{Status: StatusError, Message: msg}
}
