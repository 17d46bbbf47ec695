package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/models"
)

// CategoryFetcher fetches the category list from WordPress
type CategoryFetcher interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
}

// CategoryCache is the single time-boxed cache in front of the category
// endpoint. It serves the last successfully fetched list on transient
// failure and fails only when no list was ever fetched.
type CategoryCache struct {
	fetcher   CategoryFetcher
	ttl       time.Duration
	cached    []models.Category
	fetchedAt time.Time
	mu        sync.Mutex
	now       func() time.Time
	logger    *logrus.Logger
}

// NewCategoryCache creates a category cache with the default TTL
func NewCategoryCache(fetcher CategoryFetcher, logger *logrus.Logger) *CategoryCache {
	return &CategoryCache{
		fetcher: fetcher,
		ttl:     constants.CategoryCacheTTL * time.Minute,
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns the category list, refetching when the cache is stale or
// forceRefresh is set
func (c *CategoryCache) Get(ctx context.Context, forceRefresh bool) ([]models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !forceRefresh && c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		c.logger.Debug("Returning cached categories")
		return c.cached, nil
	}

	c.logger.Info("Fetching fresh categories from WordPress")
	categories, err := c.fetcher.GetCategories(ctx)
	if err != nil {
		if c.cached != nil {
			c.logger.Warnf("Category fetch failed, serving stale cache: %v", err)
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = categories
	c.fetchedAt = c.now()
	return c.cached, nil
}

// Refresh forces a refetch and returns the fresh list
func (c *CategoryCache) Refresh(ctx context.Context) ([]models.Category, error) {
	return c.Get(ctx, true)
}

// ResolveName looks up a category's display name from the cached list.
// The default category and an unset id display as Uncategorized; a
// failed lookup falls back to the raw id.
func (c *CategoryCache) ResolveName(ctx context.Context, categoryID int) string {
	if categoryID == 0 || categoryID == constants.DefaultCategoryID {
		return constants.UncategorizedDisplay
	}

	categories, err := c.Get(ctx, false)
	if err != nil {
		c.logger.Errorf("Failed to fetch category name: %v", err)
		return "ID " + strconv.Itoa(categoryID)
	}

	for _, cat := range categories {
		if cat.ID == categoryID {
			return cat.Name
		}
	}
	return "ID " + strconv.Itoa(categoryID)
}
