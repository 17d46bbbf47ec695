package conversation

import (
	"context"
)

// Kind discriminates the inbound update types a step handler can receive
type Kind int

const (
	// KindText is a plain text message (including slash tokens like /skip)
	KindText Kind = iota
	// KindPhoto is a message carrying a photo attachment
	KindPhoto
	// KindCallback is a button press on an inline keyboard
	KindCallback
)

// Photo describes the highest-resolution variant of an attached photo
type Photo struct {
	FileID   string
	FileSize int64
	Width    int
	Height   int
}

// Callback describes a button press event
type Callback struct {
	// Data is the opaque action token carried by the pressed button
	Data string
	// MessageText is the text of the message the keyboard was attached to
	MessageText string
}

// Update is a transport-agnostic inbound chat update
type Update struct {
	ChatID   int64
	SenderID int64
	Kind     Kind
	Text     string
	Photo    *Photo
	Callback *Callback
}

// Button is one inline keyboard button
type Button struct {
	Text string
	Data string
}

// Responder is the outbound side handed to step handlers. The bot
// transport implements it on top of the chat platform; tests use fakes.
type Responder interface {
	// Send sends a plain text reply to the chat
	Send(text string) error
	// SendButtons sends a text reply with an inline keyboard
	SendButtons(text string, rows [][]Button) error
	// Ack acknowledges a button press
	Ack(text string) error
	// EditMessage replaces the text of the pressed button's message,
	// stripping its keyboard
	EditMessage(text string) error
}

// Conversation is the per-chat in-progress multi-step interaction
type Conversation struct {
	Workflow string
	Cursor   int
	State    map[string]interface{}
}

// Set stores a workflow-specific field
func (c *Conversation) Set(key string, value interface{}) {
	c.State[key] = value
}

// Str returns a string field, or "" if unset or of another type
func (c *Conversation) Str(key string) string {
	if v, ok := c.State[key].(string); ok {
		return v
	}
	return ""
}

// Int returns an int field, or 0 if unset or of another type
func (c *Conversation) Int(key string) int {
	if v, ok := c.State[key].(int); ok {
		return v
	}
	return 0
}

type action int

const (
	actStay action = iota
	actAdvance
	actGoto
	actLeave
)

// Result is a step handler's declared next action
type Result struct {
	act    action
	delta  int
	target string
}

// Stay leaves the cursor unchanged so the step sees the next update again
func Stay() Result {
	return Result{act: actStay}
}

// Advance moves the cursor to the next step
func Advance() Result {
	return Result{act: actAdvance, delta: 1}
}

// AdvanceBy moves the cursor forward by n steps
func AdvanceBy(n int) Result {
	return Result{act: actAdvance, delta: n}
}

// Goto jumps to the named step of the current workflow
func Goto(step string) Result {
	return Result{act: actGoto, target: step}
}

// Leave terminates the conversation
func Leave() Result {
	return Result{act: actLeave}
}

// HandlerFunc handles one update at one cursor position
type HandlerFunc func(ctx context.Context, conv *Conversation, upd Update, r Responder) (Result, error)

// Step is one handler bound to a cursor position within a workflow
type Step struct {
	Name   string
	Handle HandlerFunc
}

// Workflow is a named, ordered sequence of step handlers
type Workflow struct {
	Name  string
	Steps []Step
}

// StepIndex resolves a step name to its cursor position, or -1
func (w *Workflow) StepIndex(name string) int {
	for i, s := range w.Steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}
