// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets fetches and decodes remote images for rendering, with
// an in-memory cache in front of the network.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	// Decoders for the formats tenants actually upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultCapacity bounds the number of decoded images held in memory.
	DefaultCapacity = 100

	// maxImageBytes caps a single download; anything larger is rejected
	// before decode.
	maxImageBytes = 20 << 20

	fetchTimeout = 30 * time.Second
)

// Cache is a bounded first-in-first-out image cache. Eviction follows
// insertion order only: a cache hit does not extend an entry's life.
// Concurrent requests for the same URL share one fetch.
type Cache struct {
	client   *http.Client
	capacity int

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]image.Image
	order   []string
}

// NewCache creates a cache holding at most capacity decoded images.
// A nil client uses a default with a 30s timeout.
func NewCache(capacity int, client *http.Client) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Cache{
		client:   client,
		capacity: capacity,
		entries:  make(map[string]image.Image, capacity),
	}
}

// Get returns the decoded image for url, fetching it on a miss. Images
// are normalized to NRGBA before caching so downstream pixel work never
// sees exotic color models.
func (c *Cache) Get(ctx context.Context, url string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.entries[url]; ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(url, func() (any, error) {
		img, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		c.put(url, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// GetAll fetches every URL concurrently and returns a slice aligned with
// urls. A failed fetch leaves a nil slot and is logged; it never fails
// the batch. The only returned error is context cancellation.
func (c *Cache) GetAll(ctx context.Context, urls []string) ([]image.Image, error) {
	images := make([]image.Image, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, url := range urls {
		if url == "" {
			continue
		}
		g.Go(func() error {
			img, err := c.Get(gctx, url)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("image fetch failed, slot left empty",
					"url", url, "index", i, "error", err)
				return nil
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// GetAssets resolves a variant→URL map into a variant→image map, with
// the same per-entry failure tolerance as GetAll.
func (c *Cache) GetAssets(ctx context.Context, urls map[string]string) (map[string]image.Image, error) {
	var mu sync.Mutex
	assets := make(map[string]image.Image, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for variant, url := range urls {
		if url == "" {
			continue
		}
		g.Go(func() error {
			img, err := c.Get(gctx, url)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("asset fetch failed, variant skipped",
					"variant", variant, "url", url, "error", err)
				return nil
			}
			mu.Lock()
			assets[variant] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) put(url string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[url]; ok {
		return
	}
	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[url] = img
	c.order = append(c.order, url)
}

func (c *Cache) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("assets: build request for %s: %w", url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assets: fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", url, err)
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("assets: %s exceeds %d byte limit", url, maxImageBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", url, err)
	}
	slog.Debug("image decoded", "url", url, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return imaging.Clone(img), nil
}
