package conversation

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopResponder struct {
	sent []string
}

func (r *nopResponder) Send(text string) error                      { r.sent = append(r.sent, text); return nil }
func (r *nopResponder) SendButtons(text string, _ [][]Button) error { r.sent = append(r.sent, text); return nil }
func (r *nopResponder) Ack(string) error                            { return nil }
func (r *nopResponder) EditMessage(string) error                    { return nil }

func upd(chatID int64, text string) Update {
	return Update{ChatID: chatID, SenderID: chatID, Kind: KindText, Text: text}
}

// scriptedStep is a step that records its run and returns a fixed result
type scriptedStep struct {
	name   string
	result Result
	err    error
}

func buildWorkflow(name string, steps []scriptedStep, ran *[]string) *Workflow {
	w := &Workflow{Name: name}
	for _, s := range steps {
		s := s
		w.Steps = append(w.Steps, Step{
			Name: s.name,
			Handle: func(ctx context.Context, conv *Conversation, u Update, r Responder) (Result, error) {
				*ran = append(*ran, s.name)
				return s.result, s.err
			},
		})
	}
	return w
}

func TestEnterRunsFirstStepImmediately(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Advance()},
		{name: "two", result: Advance()},
	}, &ran))

	require.NoError(t, e.Enter(context.Background(), "wiz", upd(1, "/go"), nil, &nopResponder{}))
	require.Equal(t, []string{"one"}, ran)

	workflow, cursor, active := e.Current(1)
	require.True(t, active)
	require.Equal(t, "wiz", workflow)
	require.Equal(t, 1, cursor)
}

func TestEnterUnknownWorkflow(t *testing.T) {
	e := NewEngine(testLogger())
	err := e.Enter(context.Background(), "missing", upd(1, ""), nil, &nopResponder{})
	require.Error(t, err)
}

func TestDispatchWithoutConversationIsSilent(t *testing.T) {
	e := NewEngine(testLogger())
	r := &nopResponder{}
	require.NoError(t, e.Dispatch(context.Background(), upd(1, "hello"), r))
	require.Empty(t, r.sent)
}

func TestAdvancePastLastStepEndsConversation(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Advance()},
		{name: "two", result: Advance()},
	}, &ran))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "wiz", upd(1, ""), nil, &nopResponder{}))
	require.NoError(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))

	require.Equal(t, []string{"one", "two"}, ran)
	require.False(t, e.Active(1))
}

func TestStayKeepsCursor(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Stay()},
		{name: "two", result: Advance()},
	}, &ran))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "wiz", upd(1, ""), nil, &nopResponder{}))
	require.NoError(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))
	require.NoError(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))

	require.Equal(t, []string{"one", "one", "one"}, ran)
}

func TestGotoJumpsByName(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Goto("three")},
		{name: "two", result: Advance()},
		{name: "three", result: Leave()},
	}, &ran))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "wiz", upd(1, ""), nil, &nopResponder{}))

	_, cursor, active := e.Current(1)
	require.True(t, active)
	require.Equal(t, 2, cursor)

	require.NoError(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))
	require.Equal(t, []string{"one", "three"}, ran)
	require.False(t, e.Active(1))
}

func TestGotoUnknownTargetEndsConversation(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Goto("nowhere")},
	}, &ran))

	require.NoError(t, e.Enter(context.Background(), "wiz", upd(1, ""), nil, &nopResponder{}))
	require.False(t, e.Active(1))
}

func TestLastEntryWins(t *testing.T) {
	var ranA, ranB []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("a", []scriptedStep{
		{name: "a1", result: Advance()},
		{name: "a2", result: Advance()},
	}, &ranA))
	e.Register(buildWorkflow("b", []scriptedStep{
		{name: "b1", result: Advance()},
		{name: "b2", result: Advance()},
	}, &ranB))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "a", upd(1, ""), nil, &nopResponder{}))
	require.NoError(t, e.Enter(ctx, "b", upd(1, ""), nil, &nopResponder{}))

	workflow, cursor, active := e.Current(1)
	require.True(t, active)
	require.Equal(t, "b", workflow)
	require.Equal(t, 1, cursor)

	require.NoError(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))
	require.Equal(t, []string{"a1"}, ranA)
	require.Equal(t, []string{"b1", "b2"}, ranB)
}

func TestHandlerErrorKeepsCursorOnNonTerminalStep(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Stay(), err: errors.New("send failed")},
		{name: "two", result: Advance()},
	}, &ran))

	err := e.Enter(context.Background(), "wiz", upd(1, ""), nil, &nopResponder{})
	require.Error(t, err)
	require.ErrorContains(t, err, "wiz/one")

	_, cursor, active := e.Current(1)
	require.True(t, active)
	require.Equal(t, 0, cursor)
}

func TestHandlerErrorOnTerminalStepEndsConversation(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Advance()},
		{name: "last", result: Stay(), err: errors.New("boom")},
	}, &ran))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "wiz", upd(1, ""), nil, &nopResponder{}))
	require.Error(t, e.Dispatch(ctx, upd(1, ""), &nopResponder{}))
	require.False(t, e.Active(1))
}

func TestLeaveIsIdempotent(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Stay()},
	}, &ran))

	require.NoError(t, e.Enter(context.Background(), "wiz", upd(1, ""), nil, &nopResponder{}))
	e.Leave(1)
	require.False(t, e.Active(1))
	e.Leave(1)
	require.False(t, e.Active(1))
}

func TestInitialStateIsCopied(t *testing.T) {
	var got int
	e := NewEngine(testLogger())
	w := &Workflow{Name: "wiz", Steps: []Step{{
		Name: "one",
		Handle: func(ctx context.Context, conv *Conversation, u Update, r Responder) (Result, error) {
			got = conv.Int("postId")
			return Leave(), nil
		},
	}}}
	e.Register(w)

	initial := map[string]interface{}{"postId": 12}
	require.NoError(t, e.Enter(context.Background(), "wiz", upd(1, ""), initial, &nopResponder{}))
	require.Equal(t, 12, got)

	// Mutating the caller's map after Enter must not affect the engine.
	initial["postId"] = 99
	require.False(t, e.Active(1))
}

func TestConversationsAreIsolatedPerChat(t *testing.T) {
	var ran []string
	e := NewEngine(testLogger())
	e.Register(buildWorkflow("wiz", []scriptedStep{
		{name: "one", result: Advance()},
		{name: "two", result: Stay()},
	}, &ran))

	ctx := context.Background()
	require.NoError(t, e.Enter(ctx, "wiz", upd(1, ""), nil, &nopResponder{}))
	require.False(t, e.Active(2))

	require.NoError(t, e.Dispatch(ctx, upd(2, ""), &nopResponder{}))
	require.Equal(t, []string{"one"}, ran)
}
