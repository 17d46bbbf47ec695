package workflows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/commands"
	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/conversation"
	"wp-tg-publisher/internal/helpers"
)

// Step names of the post creation wizard. Jumps are declared against
// these names rather than numeric offsets, so the jump targets survive
// step insertions.
const (
	stepTitlePrompt  = "title-prompt"
	stepTitle        = "title"
	stepContent      = "content"
	stepCategoryPick = "category-pick"
	stepPhotoOffer   = "photo-offer"
	stepPhotoCollect = "photo-collect"
	stepCaption      = "caption"
	stepPreview      = "preview"
	stepConfirm      = "confirm"
)

const (
	titlePrompt = "What should be the post title? (plain text)"

	contentPrompt = "Now send the post content (main body text).\n\n" +
		"You can use basic Markdown:\n" +
		"• *italic* or _italic_\n" +
		"• **bold** or __bold__\n" +
		"• [link text](https://example.com)\n" +
		"• - unordered list\n" +
		"• 1. ordered list\n" +
		"• `inline code`\n" +
		"• ```code block```\n\n" +
		"Send your content (multiple lines OK)."

	categoryPrompt = "Select a category for this post (required):\nTap one of the buttons below."

	categoryReprompt = "Please select a category using the buttons above.\n" +
		"Category is required – tap one to continue."

	photoPrompt = "Send a photo to use as the featured image (optional).\n" +
		"Or send /skip if you don't want one."

	captionPrompt = "Optional caption for the featured image (or /skip):"
)

// PostCreation is the multi-step wizard that collects a new post
type PostCreation struct {
	gateway    Gateway
	categories CategorySource
	transform  Transformer
	images     ImageFetcher
	siteURL    string
	maxImageMB int
	logger     *logrus.Logger
}

// NewPostCreation creates the post creation wizard
func NewPostCreation(
	gateway Gateway,
	categories CategorySource,
	transform Transformer,
	images ImageFetcher,
	siteURL string,
	maxImageMB int,
	logger *logrus.Logger,
) *PostCreation {
	return &PostCreation{
		gateway:    gateway,
		categories: categories,
		transform:  transform,
		images:     images,
		siteURL:    siteURL,
		maxImageMB: maxImageMB,
		logger:     logger,
	}
}

// Workflow builds the step sequence
func (p *PostCreation) Workflow() *conversation.Workflow {
	return &conversation.Workflow{
		Name: NewPostName,
		Steps: []conversation.Step{
			{Name: stepTitlePrompt, Handle: p.stepTitlePrompt},
			{Name: stepTitle, Handle: p.stepTitle},
			{Name: stepContent, Handle: p.stepContent},
			{Name: stepCategoryPick, Handle: p.stepCategoryPick},
			{Name: stepPhotoOffer, Handle: p.stepPhotoOffer},
			{Name: stepPhotoCollect, Handle: p.stepPhotoCollect},
			{Name: stepCaption, Handle: p.stepCaption},
			{Name: stepPreview, Handle: p.stepPreview},
			{Name: stepConfirm, Handle: p.stepConfirm},
		},
	}
}

// stepTitlePrompt runs on workflow entry and asks for the title
func (p *PostCreation) stepTitlePrompt(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if err := r.Send(titlePrompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepTitle stores the title verbatim; empty or non-text input re-prompts
func (p *PostCreation) stepTitle(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind != conversation.KindText || strings.TrimSpace(upd.Text) == "" {
		if err := r.Send("Please send a title (text required)."); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Stay(), nil
	}

	conv.Set(keyTitle, upd.Text)

	if err := r.Send(contentPrompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepContent transforms the body and presents the category keyboard.
// When the category was already chosen on a previous pass the step
// skips straight through without re-prompting.
func (p *PostCreation) stepContent(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if conv.Int(keyCategoryID) != 0 {
		return conversation.Advance(), nil
	}

	if upd.Kind != conversation.KindText || strings.TrimSpace(upd.Text) == "" {
		if err := r.Send("Please send the post content (text required)."); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Stay(), nil
	}

	conv.Set(keyContent, p.transform.Render(upd.Text))

	categories, err := p.categories.Get(ctx, false)
	if err != nil || len(categories) == 0 {
		if err != nil {
			p.logger.Errorf("Failed to load categories: %v", err)
			if sendErr := r.Send("Error loading categories. Using default (Uncategorized)."); sendErr != nil {
				return conversation.Stay(), sendErr
			}
		} else {
			if sendErr := r.Send("No categories found – auto-assigned to Uncategorized."); sendErr != nil {
				return conversation.Stay(), sendErr
			}
		}
		conv.Set(keyCategoryID, constants.DefaultCategoryID)
		if sendErr := r.Send(photoPrompt); sendErr != nil {
			return conversation.Stay(), sendErr
		}
		return conversation.Goto(stepPhotoOffer), nil
	}

	rows := make([][]conversation.Button, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, []conversation.Button{{
			Text: cat.Name,
			Data: fmt.Sprintf("%s%d", commands.CategorySelectPrefix, cat.ID),
		}})
	}

	if err := r.SendButtons(categoryPrompt, rows); err != nil {
		return conversation.Stay(), err
	}
	// Advance to the pick step and wait there for the button press.
	return conversation.Advance(), nil
}

// stepCategoryPick accepts only a category button press. On selection
// it jumps straight to photo collection, skipping the duplicate
// photo-offer prompt; anything else re-prompts without advancing.
func (p *PostCreation) stepCategoryPick(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind == conversation.KindCallback && strings.HasPrefix(upd.Callback.Data, commands.CategorySelectPrefix) {
		raw := strings.TrimPrefix(upd.Callback.Data, commands.CategorySelectPrefix)
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			p.logger.Warnf("Malformed category callback: %q", upd.Callback.Data)
			if ackErr := r.Ack(""); ackErr != nil {
				return conversation.Stay(), ackErr
			}
			return conversation.Stay(), nil
		}

		conv.Set(keyCategoryID, categoryID)

		if err := r.Ack("Category selected!"); err != nil {
			return conversation.Stay(), err
		}
		if err := r.EditMessage(upd.Callback.MessageText + "\n\nCategory selected. Moving to photo..."); err != nil {
			p.logger.Warnf("Failed to edit category message: %v", err)
		}
		if err := r.Send(photoPrompt); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Goto(stepPhotoCollect), nil
	}

	if err := r.Send(categoryReprompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Stay(), nil
}

// stepPhotoOffer handles /skip by previewing immediately and jumping to
// the terminal confirmation; any other input falls through to photo
// collection.
func (p *PostCreation) stepPhotoOffer(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind == conversation.KindText && upd.Text == commands.Skip {
		conv.Set(keyPhotoFileID, "")
		conv.Set(keyCaption, "")
		if err := r.Send(p.buildPreview(ctx, conv)); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Goto(stepConfirm), nil
	}

	if err := r.Send(photoPrompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepPhotoCollect validates and stores the attached photo
func (p *PostCreation) stepPhotoCollect(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind == conversation.KindText && upd.Text == commands.Skip {
		conv.Set(keyPhotoFileID, "")
		conv.Set(keyCaption, "")
		return conversation.Goto(stepPreview), nil
	}

	if upd.Kind != conversation.KindPhoto || upd.Photo == nil {
		if err := r.Send("Please send a photo or type /skip."); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Stay(), nil
	}

	if upd.Photo.FileSize > int64(p.maxImageMB+1)*constants.BytesInMB {
		msg := fmt.Sprintf("Image too large (> %d MB). Send smaller or /skip.", p.maxImageMB)
		if err := r.Send(msg); err != nil {
			return conversation.Stay(), err
		}
		return conversation.Stay(), nil
	}

	conv.Set(keyPhotoFileID, upd.Photo.FileID)

	if err := r.Send(captionPrompt); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepCaption stores the optional caption and advances unconditionally
func (p *PostCreation) stepCaption(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind == conversation.KindText {
		if upd.Text == commands.Skip {
			conv.Set(keyCaption, "")
		} else {
			conv.Set(keyCaption, strings.TrimSpace(upd.Text))
		}
	}
	return conversation.Advance(), nil
}

// stepPreview sends the formatted preview and moves to confirmation
func (p *PostCreation) stepPreview(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if err := r.Send(p.buildPreview(ctx, conv)); err != nil {
		return conversation.Stay(), err
	}
	return conversation.Advance(), nil
}

// stepConfirm is terminal: /confirm publishes, anything else cancels;
// either outcome ends the conversation.
func (p *PostCreation) stepConfirm(ctx context.Context, conv *conversation.Conversation, upd conversation.Update, r conversation.Responder) (conversation.Result, error) {
	if upd.Kind != conversation.KindText || upd.Text != commands.Confirm {
		if err := r.Send("Cancelled or invalid. Use /newpost to start again."); err != nil {
			p.logger.Errorf("Failed to send cancellation reply: %v", err)
		}
		return conversation.Leave(), nil
	}

	if err := r.Send("Posting to WordPress..."); err != nil {
		p.logger.Errorf("Failed to send publish notice: %v", err)
	}

	mediaID := 0
	if fileID := conv.Str(keyPhotoFileID); fileID != "" {
		data, err := p.images.DownloadAndCompress(ctx, fileID)
		if err != nil {
			p.logger.Errorf("Image processing failed: %v", err)
			r.Send("Error posting. Check logs.")
			return conversation.Leave(), nil
		}

		mediaID, err = p.gateway.UploadMedia(ctx, data, conv.Str(keyCaption))
		if err != nil {
			p.logger.Errorf("Media upload failed: %v", err)
			r.Send("Error posting. Check logs.")
			return conversation.Leave(), nil
		}
	}

	categoryID := conv.Int(keyCategoryID)
	if categoryID == 0 {
		categoryID = constants.DefaultCategoryID
	}

	post, err := p.gateway.CreatePost(ctx, conv.Str(keyTitle), conv.Str(keyContent), mediaID, categoryID)
	if err != nil {
		p.logger.Errorf("Post creation failed: %v", err)
		r.Send("Error posting. Check logs.")
		return conversation.Leave(), nil
	}

	editLink := fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", p.siteURL, post.ID)
	r.Send(fmt.Sprintf("Posted successfully!\n\n%s\n\nEdit: %s", post.Link, editLink))
	p.logger.Infof("Posted %s by user %d", post.Link, upd.SenderID)

	return conversation.Leave(), nil
}

// buildPreview renders the pre-publish summary message
func (p *PostCreation) buildPreview(ctx context.Context, conv *conversation.Conversation) string {
	var b strings.Builder

	b.WriteString("Ready to post?\n\n")
	b.WriteString(fmt.Sprintf("Title: %s\n\n", conv.Str(keyTitle)))

	contentPreview := helpers.Truncate(conv.Str(keyContent), constants.PreviewLength)
	if contentPreview == "" {
		contentPreview = "(empty)"
	}
	b.WriteString(fmt.Sprintf("Content preview:\n%s...\n\n", contentPreview))

	b.WriteString(fmt.Sprintf("Category: %s\n\n", p.categories.ResolveName(ctx, conv.Int(keyCategoryID))))

	if conv.Str(keyPhotoFileID) != "" {
		caption := conv.Str(keyCaption)
		if caption == "" {
			caption = "none"
		}
		b.WriteString(fmt.Sprintf("Featured image: Yes (caption: %s)\n\n", caption))
	} else {
		b.WriteString("Featured image: No\n\n")
	}

	b.WriteString("/confirm   /cancel")
	return b.String()
}
