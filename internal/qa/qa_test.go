package qa

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/webqa/internal/index"
	"github.com/mohammad-safakhou/webqa/session/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	contexts  []string
	questions []string
	answer    string
	err       error
}

func (m *fakeModel) Answer(_ context.Context, question, qaContext string) (Answer, error) {
	m.questions = append(m.questions, question)
	m.contexts = append(m.contexts, qaContext)
	if m.err != nil {
		return Answer{}, m.err
	}
	return Answer{Text: m.answer, Score: 0.9}, nil
}

func (m *fakeModel) Close() error { return nil }

func newResponder(t *testing.T, model Model) (*Responder, *inmemory.Store) {
	t.Helper()
	st, err := index.OpenFile(filepath.Join(t.TempDir(), "idx.json"))
	require.NoError(t, err)
	require.NoError(t, st.Put(context.Background(), "https://example.com", "Paris is the capital of France."))
	sessions := inmemory.NewInMemorySessionStore(0)
	return &Responder{Index: st, Sessions: sessions, Model: model, ContextWindow: 5}, sessions
}

func TestAskStateless(t *testing.T) {
	model := &fakeModel{answer: "Paris"}
	r, _ := newResponder(t, model)

	res, err := r.Ask(context.Background(), AskRequest{URL: "https://example.com", Question: "What is the capital?"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", res.Answer)
	assert.Nil(t, res.History)
	assert.Equal(t, []string{"Paris is the capital of France."}, model.contexts)
}

func TestAskNotIndexed(t *testing.T) {
	model := &fakeModel{answer: "x"}
	r, _ := newResponder(t, model)

	_, err := r.Ask(context.Background(), AskRequest{URL: "https://never.example", Question: "q"})
	assert.True(t, errors.Is(err, ErrNotIndexed))
	assert.Equal(t, "URL not indexed yet. Please index it first.", err.Error())
	assert.Empty(t, model.contexts)
}

func TestAskInvalidSession(t *testing.T) {
	r, _ := newResponder(t, &fakeModel{answer: "x"})

	_, err := r.Ask(context.Background(), AskRequest{URL: "https://example.com", Question: "q", SessionID: "bogus"})
	assert.True(t, errors.Is(err, ErrInvalidSession))

	r.Sessions = nil
	_, err = r.Ask(context.Background(), AskRequest{URL: "https://example.com", Question: "q", SessionID: "bogus"})
	assert.True(t, errors.Is(err, ErrInvalidSession))
}

func TestAskWithSessionAppendsTwoEntriesAndWindowsContext(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{answer: "Paris"}
	r, sessions := newResponder(t, model)
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		res, err := r.Ask(ctx, AskRequest{URL: "https://example.com", Question: fmt.Sprintf("q%d", i), SessionID: id})
		require.NoError(t, err)
		assert.Len(t, res.History, 2*(i+1))
		assert.Equal(t, fmt.Sprintf("Q: q%d", i), res.History[2*i])
		assert.Equal(t, "A: Paris", res.History[2*i+1])
	}

	assert.Equal(t, "Paris is the capital of France.", model.contexts[0])
	assert.Equal(t, "Paris is the capital of France. Q: q0 A: Paris", model.contexts[1])
	// Fourth call sees six prior entries; only the last five are included.
	last := model.contexts[3]
	assert.Equal(t, "Paris is the capital of France. A: Paris Q: q1 A: Paris Q: q2 A: Paris", last)
	assert.False(t, strings.Contains(last, "q0"))
}

func TestAskModelErrorLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{err: errors.New("inference down")}
	r, sessions := newResponder(t, model)
	var observed []error
	r.ObserveModel = func(_ time.Duration, err error) { observed = append(observed, err) }
	id, _ := sessions.Create(ctx)

	_, err := r.Ask(ctx, AskRequest{URL: "https://example.com", Question: "q", SessionID: id})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inference down")
	require.Len(t, observed, 1)

	history, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "text", BuildContext("text", nil))
	assert.Equal(t, "text Q: a A: b", BuildContext("text", []string{"Q: a", "A: b"}))
	assert.Equal(t, "Q: a A: b", BuildContext("", []string{"Q: a", "A: b"}))
	assert.Equal(t, "", BuildContext("", nil))
}
