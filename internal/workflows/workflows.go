package workflows

import (
	"context"

	"wp-tg-publisher/internal/models"
)

// Workflow names
const (
	NewPostName  = "new-post"
	EditPostName = "edit-post"
)

// Conversation state keys shared by both wizards
const (
	keyTitle       = "title"
	keyContent     = "content"
	keyCategoryID  = "categoryId"
	keyPhotoFileID = "photoFileId"
	keyCaption     = "caption"
	keyPostID      = "postId"
	keyOriginal    = "original"
	keyStatus      = "status"
)

// KeyPostID is the initial-state key carrying the post to edit
const KeyPostID = keyPostID

// Gateway performs the create/read/update calls against WordPress
type Gateway interface {
	CreatePost(ctx context.Context, title, content string, mediaID, categoryID int) (*models.Post, error)
	GetPostByID(ctx context.Context, postID int) (*models.Post, error)
	UpdatePost(ctx context.Context, postID int, upd models.PostUpdate) (*models.Post, error)
	UploadMedia(ctx context.Context, data []byte, caption string) (int, error)
}

// CategorySource serves the cached category list
type CategorySource interface {
	Get(ctx context.Context, forceRefresh bool) ([]models.Category, error)
	ResolveName(ctx context.Context, categoryID int) string
}

// Transformer converts user markdown into sanitized HTML
type Transformer interface {
	Render(markdown string) string
}

// ImageFetcher downloads and recompresses an attached photo
type ImageFetcher interface {
	DownloadAndCompress(ctx context.Context, fileID string) ([]byte, error)
}
