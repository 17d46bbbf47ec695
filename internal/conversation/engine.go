package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Engine owns the per-chat conversation lifecycle and step dispatch.
// Exactly one conversation may be active per chat; entering a workflow
// while one is active discards the previous state (last-entry-wins).
//
// Updates for one chat are serialized by a per-chat lock; different
// chats dispatch concurrently. Button-driven transitions arrive as
// synthetic callback updates through the same Dispatch path as
// ordinary messages.
type Engine struct {
	workflows map[string]*Workflow
	convs     *cache.Cache
	locks     map[int64]*sync.Mutex
	mu        sync.Mutex
	logger    *logrus.Logger
}

// NewEngine creates a new conversation engine
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{
		workflows: make(map[string]*Workflow),
		// Conversations never expire on their own: only /cancel or a
		// terminal step ends one.
		convs:  cache.New(cache.NoExpiration, 0),
		locks:  make(map[int64]*sync.Mutex),
		logger: logger,
	}
}

// Register adds a workflow to the engine
func (e *Engine) Register(w *Workflow) {
	e.workflows[w.Name] = w
}

// Enter creates a conversation at cursor 0 for the chat, overwriting any
// existing one, and immediately dispatches the entering update to step 0.
func (e *Engine) Enter(ctx context.Context, workflow string, upd Update, initial map[string]interface{}, r Responder) error {
	w, ok := e.workflows[workflow]
	if !ok {
		return fmt.Errorf("unknown workflow: %s", workflow)
	}

	lock := e.chatLock(upd.ChatID)
	lock.Lock()
	defer lock.Unlock()

	state := make(map[string]interface{})
	for k, v := range initial {
		state[k] = v
	}

	conv := &Conversation{
		Workflow: w.Name,
		Cursor:   0,
		State:    state,
	}
	e.convs.Set(e.key(upd.ChatID), conv, cache.NoExpiration)
	e.logger.Debugf("Entered workflow %s for chat %d", workflow, upd.ChatID)

	return e.runStep(ctx, conv, upd, r)
}

// Dispatch routes an update to the active conversation's current step.
// It is a silent no-op when no conversation is active for the chat.
func (e *Engine) Dispatch(ctx context.Context, upd Update, r Responder) error {
	lock := e.chatLock(upd.ChatID)
	lock.Lock()
	defer lock.Unlock()

	conv, ok := e.conversation(upd.ChatID)
	if !ok {
		return nil
	}

	return e.runStep(ctx, conv, upd, r)
}

// Leave deletes the conversation for the chat if one exists
func (e *Engine) Leave(chatID int64) {
	e.convs.Delete(e.key(chatID))
	e.logger.Debugf("Left conversation for chat %d", chatID)
}

// Current reports the active workflow name and cursor for the chat
func (e *Engine) Current(chatID int64) (string, int, bool) {
	conv, ok := e.conversation(chatID)
	if !ok {
		return "", 0, false
	}
	return conv.Workflow, conv.Cursor, true
}

// Active reports whether a conversation is active for the chat
func (e *Engine) Active(chatID int64) bool {
	_, _, ok := e.Current(chatID)
	return ok
}

// runStep invokes the cursor's handler and applies its declared result.
// Callers must hold the chat lock.
func (e *Engine) runStep(ctx context.Context, conv *Conversation, upd Update, r Responder) error {
	w := e.workflows[conv.Workflow]
	if w == nil || conv.Cursor < 0 || conv.Cursor >= len(w.Steps) {
		e.logger.Errorf("Invalid cursor %d in workflow %s for chat %d", conv.Cursor, conv.Workflow, upd.ChatID)
		e.convs.Delete(e.key(upd.ChatID))
		return nil
	}

	step := w.Steps[conv.Cursor]
	res, err := step.Handle(ctx, conv, upd, r)
	if err != nil {
		// The cursor stays put so the step can be retried, unless the
		// failing step was terminal: then the conversation still ends.
		if conv.Cursor == len(w.Steps)-1 {
			e.convs.Delete(e.key(upd.ChatID))
		}
		return fmt.Errorf("step %s/%s: %w", conv.Workflow, step.Name, err)
	}

	switch res.act {
	case actStay:
		// Re-prompt without advancing.
	case actAdvance:
		conv.Cursor += res.delta
		if conv.Cursor >= len(w.Steps) {
			e.convs.Delete(e.key(upd.ChatID))
		}
	case actGoto:
		idx := w.StepIndex(res.target)
		if idx < 0 {
			e.logger.Errorf("Unknown jump target %q in workflow %s", res.target, conv.Workflow)
			e.convs.Delete(e.key(upd.ChatID))
			return nil
		}
		conv.Cursor = idx
	case actLeave:
		e.convs.Delete(e.key(upd.ChatID))
	}

	return nil
}

func (e *Engine) conversation(chatID int64) (*Conversation, bool) {
	data, found := e.convs.Get(e.key(chatID))
	if !found {
		return nil, false
	}
	conv, ok := data.(*Conversation)
	return conv, ok
}

func (e *Engine) key(chatID int64) string {
	return fmt.Sprintf("conv_%d", chatID)
}

func (e *Engine) chatLock(chatID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[chatID] = lock
	}
	return lock
}
