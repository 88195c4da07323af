// Package qa answers questions against indexed page text.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/webqa/internal/index"
	"github.com/mohammad-safakhou/webqa/session"
)

var (
	ErrNotIndexed     = errors.New("URL not indexed yet. Please index it first.")
	ErrInvalidSession = errors.New("Invalid session ID. Please start a new chat.")
)

// DefaultContextWindow is how many history entries are appended to the context.
const DefaultContextWindow = 5

// Answer is a span selected from the context.
type Answer struct {
	Text  string
	Score float64
	Start int
	End   int
}

// Model is an extractive question-answering model. One instance is built
// at startup and shared by every request until Close.
type Model interface {
	Answer(ctx context.Context, question, context string) (Answer, error)
	Close() error
}

type AskRequest struct {
	URL       string
	Question  string
	SessionID string
}

type AskResult struct {
	Answer string
	Score  float64
	// History is the updated session history, nil when no session was used.
	History []string
}

// Responder ties the index, the session store and the model together.
type Responder struct {
	Index         index.Store
	Sessions      session.Store
	Model         Model
	ContextWindow int
	// ObserveModel, when set, is called after every model invocation.
	ObserveModel func(d time.Duration, err error)
}

func (r *Responder) Ask(ctx context.Context, req AskRequest) (AskResult, error) {
	text, ok, err := r.Index.Get(ctx, req.URL)
	if err != nil {
		return AskResult{}, fmt.Errorf("load indexed content: %w", err)
	}
	if !ok {
		return AskResult{}, ErrNotIndexed
	}

	useSession := req.SessionID != ""
	var history []string
	if useSession {
		if r.Sessions == nil || !session.ValidID(req.SessionID) {
			return AskResult{}, ErrInvalidSession
		}
		history, err = r.Sessions.Get(ctx, req.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			return AskResult{}, ErrInvalidSession
		}
		if err != nil {
			return AskResult{}, fmt.Errorf("load session: %w", err)
		}
	}

	window := r.ContextWindow
	if window == 0 {
		window = DefaultContextWindow
	}
	qaContext := BuildContext(text, session.Recent(history, window))

	t0 := time.Now()
	ans, err := r.Model.Answer(ctx, req.Question, qaContext)
	if r.ObserveModel != nil {
		r.ObserveModel(time.Since(t0), err)
	}
	if err != nil {
		return AskResult{}, fmt.Errorf("model: %w", err)
	}

	result := AskResult{Answer: ans.Text, Score: ans.Score}
	if useSession {
		updated, err := r.Sessions.Append(ctx, req.SessionID,
			session.QuestionEntry(req.Question), session.AnswerEntry(ans.Text))
		if errors.Is(err, session.ErrNotFound) {
			return AskResult{}, ErrInvalidSession
		}
		if err != nil {
			return AskResult{}, fmt.Errorf("save session: %w", err)
		}
		result.History = updated
	}
	return result, nil
}

// BuildContext appends the recent history entries to the indexed text,
// separated by single spaces. Empty parts are skipped.
func BuildContext(text string, recent []string) string {
	parts := make([]string, 0, len(recent)+1)
	if text != "" {
		parts = append(parts, text)
	}
	for _, entry := range recent {
		if entry != "" {
			parts = append(parts, entry)
		}
	}
	return strings.Join(parts, " ")
}
