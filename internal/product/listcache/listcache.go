// Package listcache keeps product list pages in Redis.
package listcache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
)

const keyPrefix = "products:list:"

type Page struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

// ListCache methods are no-ops on a nil receiver.
type ListCache struct {
	client *cache.RedisClient
	ttl    time.Duration
	logger logger.ZapLogger
}

func New(client *cache.RedisClient, ttl time.Duration, log logger.ZapLogger) *ListCache {
	return &ListCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *ListCache) Get(ctx context.Context, filters *dto.ProductFilters) (*Page, bool) {
	if c == nil {
		return nil, false
	}
	var page Page
	found, err := c.client.GetJSON(ctx, key(filters), &page)
	if err != nil {
		c.logger.Warn("product list cache read failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &page, true
}

func (c *ListCache) Set(ctx context.Context, filters *dto.ProductFilters, page *Page) {
	if c == nil {
		return
	}
	if err := c.client.SetJSON(ctx, key(filters), page, c.ttl); err != nil {
		c.logger.Warn("product list cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached page.
func (c *ListCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if _, err := c.client.DeletePattern(ctx, keyPrefix+"*"); err != nil {
		c.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}

func key(filters *dto.ProductFilters) string {
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("%s%x", keyPrefix, md5.Sum(data))
}
