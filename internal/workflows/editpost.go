package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/commands"
	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/conversation"
	"wp-tg-publisher/internal/helpers"
	"wp-tg-publisher/internal/models"
)

// Step names of the post edit wizard
const (
	editStepLoad    = "load"
	editStepTitle   = "title"
	editStepContent = "content"
	editStepStatus  = "status"
	editStepConfirm = "confirm"
)

const statusPrompt = "Choose new status:\n\n" +
	"1. publish\n" +
	"2. draft\n" +
	"3. pending\n" +
	"4. private\n" +
	"5. trash (deletes)\n\n" +
	"Reply with number or word (or /skip to keep current):"

// PostEdit is the wizard that edits an existing post. It is entered
// with the post ID in the initial conversation state.
type PostEdit struct {
	gateway   Gateway
	transform Transformer
	logger    *logrus.Logger
}

// NewPostEdit creates the post edit wizard
func NewPostEdit(gateway Gateway, transform Transformer, logger *logrus.Logger) *PostEdit {
	return &PostEdit{
		gateway:   gateway,
		transform: transform,
		logger:    logger,
	}
}

// Workflow builds the step sequence
func (p *PostEdit) Workflow() *conversation.Workflow {
	return &conversation.Workflow{
		Name: EditPostName,
		Steps: []conversation.Step{
			{Name: editStepLoad, Handle: p.stepLoad},
			{Name: editStepTitle, Handle: p.stepTitle},
			{Name: editStepContent, Handle: p.stepContent},
			{Name: editStepStatus, Handle: p.stepStatus},
			{Name: editStepConfirm, Handle: p.stepConfirm},
		},
	}
}

// stepLoad fetches the pre-edit snapshot; a missing ID or a gateway
// failure terminates immediately, with no retry.
func (p *PostEdit) stepLoad(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	postID := conv.Int(keyPostID)
	if postID == 0 {
		if err := r.Send("No post ID provided. Try /viewposts again."); err != nil {
			p.logger.Errorf("Failed to send reply: %v", err)
		}
		return conversation.Leave(), nil
	}

	post, err := p.gateway.GetPostByID(ctx, postID)
	if err != nil {
		p.logger.Errorf("Failed to load post %d: %v", postID, err)
		if sendErr := r.Send("Error loading post. Try again."); sendErr != nil {
			p.logger.Errorf("Failed to send reply: %v", sendErr)
		}
		return conversation.Leave(), nil
	}

	conv.Set(keyOriginal, post)

	title := post.Title
	if title == "" {
		title = "(no title)"
	}
	msg := fmt.Sprintf("Editing post #%d: %s\n\nCurrent title: %s\nCurrent status: %s\n\nSend new title (or /skip to keep current):",
		postID, title, title, post.Status)
	if err := r.Send(msg); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepTitle stores the replacement title, keeping the original on /skip
func (p *PostEdit) stepTitle(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	original := p.original(conv)

	text := strings.TrimSpace(upd.Text)
	if upd.Kind == conversation.KindText && text != "" && text != commands.Skip {
		conv.Set(keyTitle, text)
	} else {
		conv.Set(keyTitle, original.Title)
	}

	msg := fmt.Sprintf("New content (Markdown supported, or /skip to keep current):\n\nCurrent content preview: %s...",
		helpers.Truncate(original.Content, constants.PreviewLength))
	if err := r.Send(msg); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepContent stores the replacement body, transforming markdown the
// same way as creation; /skip keeps the original content.
func (p *PostEdit) stepContent(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	original := p.original(conv)

	text := strings.TrimSpace(upd.Text)
	if upd.Kind == conversation.KindText && text != "" && text != commands.Skip {
		conv.Set(keyContent, p.transform.Render(text))
	} else {
		conv.Set(keyContent, original.Content)
	}

	if err := r.Send(statusPrompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepStatus resolves the chosen status and shows the diff confirmation.
// Invalid tokens silently retain the original status.
func (p *PostEdit) stepStatus(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	original := p.original(conv)

	status := original.Status
	if upd.Kind == conversation.KindText && upd.Text != commands.Skip {
		status = helpers.ParsePostStatus(upd.Text, original.Status)
	}
	conv.Set(keyStatus, status)

	contentChanged := "No"
	if conv.Str(keyContent) != original.Content {
		contentChanged = "Yes"
	}

	msg := fmt.Sprintf("Confirm update for post #%d:\n\nTitle: %s\nStatus: %s\nContent changed: %s\n\n/confirm   /cancel",
		original.ID, conv.Str(keyTitle), status, contentChanged)
	if err := r.Send(msg); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepConfirm is terminal: /confirm updates the post, anything else
// cancels; either outcome ends the conversation.
func (p *PostEdit) stepConfirm(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind != conversation.KindText || upd.Text != commands.Confirm {
		if err := r.Send("Update cancelled."); err != nil {
			p.logger.Errorf("Failed to send reply: %v", err)
		}
		return conversation.Leave(), nil
	}

	original := p.original(conv)

	_, err := p.gateway.UpdatePost(ctx, original.ID, models.PostUpdate{
		Title:   conv.Str(keyTitle),
		Content: conv.Str(keyContent),
		Status:  conv.Str(keyStatus),
	})
	if err != nil {
		p.logger.Errorf("Update of post %d failed: %v", original.ID, err)
		r.Send("Error updating post. Check logs.")
		return conversation.Leave(), nil
	}

	r.Send(fmt.Sprintf("Post #%d updated successfully!", original.ID))
	p.logger.Infof("Post %d updated by user %d", original.ID, upd.SenderID)

	return conversation.Leave(), nil
}

// original returns the immutable pre-edit snapshot
func (p *PostEdit) original(conv *conversation.Conversation) *models.Post {
	if post, ok := conv.State[keyOriginal].(*models.Post); ok {
		return post
	}
	return &models.Post{}
}
