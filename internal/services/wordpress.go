package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/config"
	"wp-tg-publisher/internal/models"
	"wp-tg-publisher/pkg/wpclient"
)

// WordPressService manages the WordPress API client
type WordPressService struct {
	client *wpclient.Client
	config *config.Config
	logger *logrus.Logger
}

// NewWordPressService creates a new WordPress service
func NewWordPressService(cfg *config.Config, logger *logrus.Logger) *WordPressService {
	client := wpclient.NewClient(cfg.WordPress, logger)

	return &WordPressService{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// GetCategories fetches the category list from the site
func (s *WordPressService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.client.GetCategories(ctx)
}

// CreatePost creates a post on the site
func (s *WordPressService) CreatePost(ctx context.Context, title, content string, mediaID, categoryID int) (*models.Post, error) {
	return s.client.CreatePost(ctx, title, content, mediaID, categoryID)
}

// GetPostByID fetches a post snapshot from the site
func (s *WordPressService) GetPostByID(ctx context.Context, postID int) (*models.Post, error) {
	return s.client.GetPostByID(ctx, postID)
}

// UpdatePost updates an existing post on the site
func (s *WordPressService) UpdatePost(ctx context.Context, postID int, upd models.PostUpdate) (*models.Post, error) {
	return s.client.UpdatePost(ctx, postID, upd)
}

// UploadMedia uploads a featured image and returns its media ID
func (s *WordPressService) UploadMedia(ctx context.Context, data []byte, caption string) (int, error) {
	return s.client.UploadMedia(ctx, data, caption)
}

// GetRecentPosts lists recent posts of any listable status
func (s *WordPressService) GetRecentPosts(ctx context.Context, limit int) ([]models.PostSummary, error) {
	return s.client.GetRecentPosts(ctx, limit)
}

// CreateCategory creates a new category on the site
func (s *WordPressService) CreateCategory(ctx context.Context, name, slug string) (int, error) {
	return s.client.CreateCategory(ctx, name, slug)
}

// SiteURL returns the configured site URL
func (s *WordPressService) SiteURL() string {
	return s.config.WordPress.URL
}
