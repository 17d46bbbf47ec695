package wpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/config"
	"wp-tg-publisher/internal/constants"
	apperrors "wp-tg-publisher/internal/errors"
	"wp-tg-publisher/internal/models"
)

// Client represents a WordPress REST API client. All calls authenticate
// with the configured application password over basic auth and surface
// non-success HTTP statuses as WordPressAPIError with the response body
// as the (log-only) error detail.
type Client struct {
	httpClient *resty.Client
	config     config.WordPressConfig
	logger     *logrus.Logger
}

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID      int        `json:"id"`
	Title   wpRendered `json:"title"`
	Content wpRendered `json:"content"`
	Status  string     `json:"status"`
	Link    string     `json:"link"`
	Date    string     `json:"date"`
}

type wpCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type wpMedia struct {
	ID int `json:"id"`
}

// NewClient creates a new WordPress API client
func NewClient(cfg config.WordPressConfig, logger *logrus.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(constants.DefaultTimeout * time.Second).
		SetRetryCount(constants.DefaultRetryCount).
		SetRetryWaitTime(constants.DefaultRetryWaitTime * time.Second).
		SetRetryMaxWaitTime(constants.DefaultRetryMaxWaitTime * time.Second).
		SetBasicAuth(cfg.User, cfg.AppPassword)

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}
}

// GetCategories fetches all categories ordered by id ascending
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"per_page": fmt.Sprintf("%d", constants.CategoriesPerPage),
			"orderby":  "id",
			"order":    "asc",
		}).
		Get(c.config.URL + "/wp-json/wp/v2/categories")
	if err != nil {
		return nil, fmt.Errorf("get categories request failed: %w", err)
	}
	if err := c.checkStatus("get categories", resp); err != nil {
		return nil, err
	}

	var raw []wpCategory
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse categories response: %w", err)
	}

	categories := make([]models.Category, 0, len(raw))
	for _, cat := range raw {
		categories = append(categories, models.Category{ID: cat.ID, Name: cat.Name, Slug: cat.Slug})
	}
	return categories, nil
}

// CreatePost creates a post with the configured status. A zero mediaID
// means no featured image; a zero categoryID falls back to the default
// category.
func (c *Client) CreatePost(ctx context.Context, title, content string, mediaID, categoryID int) (*models.Post, error) {
	if categoryID == 0 {
		categoryID = constants.DefaultCategoryID
	}

	payload := map[string]interface{}{
		"title":      title,
		"content":    content,
		"status":     c.config.Status,
		"categories": []int{categoryID},
	}
	if mediaID > 0 {
		payload["featured_media"] = mediaID
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.config.URL + "/wp-json/wp/v2/posts")
	if err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	if err := c.checkStatus("create post", resp); err != nil {
		return nil, err
	}

	return c.parsePost(resp.Body())
}

// GetPostByID fetches a single post with its current title, content and status
func (c *Client) GetPostByID(ctx context.Context, postID int) (*models.Post, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", c.config.URL, postID))
	if err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	if err := c.checkStatus("get post", resp); err != nil {
		return nil, err
	}

	return c.parsePost(resp.Body())
}

// UpdatePost overwrites the given fields of an existing post.
// WordPress uses POST for updates as well.
func (c *Client) UpdatePost(ctx context.Context, postID int, upd models.PostUpdate) (*models.Post, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(upd).
		Post(fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", c.config.URL, postID))
	if err != nil {
		return nil, fmt.Errorf("update post request failed: %w", err)
	}
	if err := c.checkStatus("update post", resp); err != nil {
		return nil, err
	}

	return c.parsePost(resp.Body())
}

// UploadMedia uploads image bytes as a media attachment and returns the
// media ID. A non-empty caption is applied in a follow-up update.
func (c *Client) UploadMedia(ctx context.Context, data []byte, caption string) (int, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", "featured.jpg", bytes.NewReader(data)).
		Post(c.config.URL + "/wp-json/wp/v2/media")
	if err != nil {
		return 0, fmt.Errorf("media upload request failed: %w", err)
	}
	if err := c.checkStatus("upload media", resp); err != nil {
		return 0, err
	}

	var media wpMedia
	if err := json.Unmarshal(resp.Body(), &media); err != nil {
		return 0, fmt.Errorf("failed to parse media response: %w", err)
	}

	if caption != "" {
		capResp, err := c.httpClient.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"alt_text": caption, "caption": caption}).
			Post(fmt.Sprintf("%s/wp-json/wp/v2/media/%d", c.config.URL, media.ID))
		if err != nil {
			return 0, fmt.Errorf("media caption request failed: %w", err)
		}
		if err := c.checkStatus("update media caption", capResp); err != nil {
			return 0, err
		}
	}

	return media.ID, nil
}

// GetRecentPosts lists the most recent posts of any listable status
func (c *Client) GetRecentPosts(ctx context.Context, limit int) ([]models.PostSummary, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"per_page": fmt.Sprintf("%d", limit),
			"order":    "desc",
			"orderby":  "date",
			"status":   "publish,draft,pending",
			"_fields":  "id,title.rendered,link,date,status",
		}).
		Get(c.config.URL + "/wp-json/wp/v2/posts")
	if err != nil {
		return nil, fmt.Errorf("get posts request failed: %w", err)
	}
	if err := c.checkStatus("get posts", resp); err != nil {
		return nil, err
	}

	var raw []wpPost
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse posts response: %w", err)
	}

	posts := make([]models.PostSummary, 0, len(raw))
	for _, p := range raw {
		title := p.Title.Rendered
		if title == "" {
			title = "(no title)"
		}
		posts = append(posts, models.PostSummary{
			ID:     p.ID,
			Title:  title,
			Status: p.Status,
			Link:   p.Link,
			Date:   p.Date,
		})
	}
	return posts, nil
}

// CreateCategory creates a new category, deriving a slug when none is given
func (c *Client) CreateCategory(ctx context.Context, name, slug string) (int, error) {
	if slug == "" {
		slug = deriveSlug(name)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"name": name, "slug": slug}).
		Post(c.config.URL + "/wp-json/wp/v2/categories")
	if err != nil {
		return 0, fmt.Errorf("create category request failed: %w", err)
	}
	if err := c.checkStatus("create category", resp); err != nil {
		return 0, err
	}

	var cat wpCategory
	if err := json.Unmarshal(resp.Body(), &cat); err != nil {
		return 0, fmt.Errorf("failed to parse category response: %w", err)
	}
	return cat.ID, nil
}

func (c *Client) parsePost(body []byte) (*models.Post, error) {
	var raw wpPost
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse post response: %w", err)
	}

	return &models.Post{
		ID:      raw.ID,
		Title:   raw.Title.Rendered,
		Content: raw.Content.Rendered,
		Status:  raw.Status,
		Link:    raw.Link,
	}, nil
}

func (c *Client) checkStatus(operation string, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	c.logger.Errorf("WordPress %s failed - status: %d, response: %s",
		operation, resp.StatusCode(), string(resp.Body()))

	return &apperrors.WordPressAPIError{
		Operation: operation,
		Status:    resp.StatusCode(),
		Message:   string(resp.Body()),
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func deriveSlug(name string) string {
	return strings.Trim(slugCleaner.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
