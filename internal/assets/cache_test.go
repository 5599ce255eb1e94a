package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestGetFetchesOnceAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pngBytes(t, 3, 3, color.NRGBA{255, 0, 0, 255}))
	}))
	defer srv.Close()

	c := NewCache(10, srv.Client())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		img, err := c.Get(ctx, srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
			t.Fatalf("size = %dx%d, want 3x3", b.Dx(), b.Dy())
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("origin hit %d times, want 1", got)
	}
	if c.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", c.Len())
	}
}

func TestGetErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/garbage":
			w.Write([]byte("definitely not an image"))
		}
	}))
	defer srv.Close()

	c := NewCache(10, srv.Client())
	ctx := context.Background()

	if _, err := c.Get(ctx, srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404 response")
	}
	if _, err := c.Get(ctx, srv.URL+"/garbage"); err == nil {
		t.Error("expected error for undecodable body")
	}
	if c.Len() != 0 {
		t.Errorf("failed fetches must not populate the cache, got %d entries", c.Len())
	}
}

func TestEvictionIsInsertionOrder(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pngBytes(t, 1, 1, color.NRGBA{0, 255, 0, 255}))
	}))
	defer srv.Close()

	c := NewCache(2, srv.Client())
	ctx := context.Background()

	first := srv.URL + "/1"
	second := srv.URL + "/2"
	third := srv.URL + "/3"

	c.Get(ctx, first)
	c.Get(ctx, second)

	// A hit on the oldest entry must not protect it from eviction.
	c.Get(ctx, first)
	c.Get(ctx, third)

	if c.Len() != 2 {
		t.Fatalf("cache holds %d entries, want capacity 2", c.Len())
	}

	before := hits.Load()
	c.Get(ctx, first) // evicted, refetches
	c.Get(ctx, third) // still cached
	if got := hits.Load() - before; got != 1 {
		t.Errorf("expected exactly 1 refetch after eviction, got %d", got)
	}
}

func TestGetAllPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(pngBytes(t, 2, 2, color.NRGBA{0, 0, 255, 255}))
	}))
	defer srv.Close()

	c := NewCache(10, srv.Client())
	urls := []string{srv.URL + "/ok1", srv.URL + "/bad", srv.URL + "/ok2", ""}

	images, err := c.GetAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(images) != 4 {
		t.Fatalf("got %d slots, want 4", len(images))
	}
	if images[0] == nil || images[2] == nil {
		t.Error("successful fetches must fill their slots")
	}
	if images[1] != nil {
		t.Error("failed fetch must leave a nil slot")
	}
	if images[3] != nil {
		t.Error("empty URL must leave a nil slot")
	}
}

func TestGetAllCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 1, 1, color.NRGBA{0, 0, 0, 255}))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCache(10, srv.Client())
	if _, err := c.GetAll(ctx, []string{srv.URL + "/x"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestGetAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.NotFound(w, r)
			return
		}
		w.Write(pngBytes(t, 2, 2, color.NRGBA{9, 9, 9, 255}))
	}))
	defer srv.Close()

	c := NewCache(10, srv.Client())
	got, err := c.GetAssets(context.Background(), map[string]string{
		"logo": srv.URL + "/logo",
		"cta":  srv.URL + "/broken",
	})
	if err != nil {
		t.Fatalf("GetAssets: %v", err)
	}
	if got["logo"] == nil {
		t.Error("logo variant missing")
	}
	if _, ok := got["cta"]; ok {
		t.Error("failed variant must be absent from result")
	}
}

func TestCapacityFillsToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 1, 1, color.NRGBA{1, 2, 3, 255}))
	}))
	defer srv.Close()

	c := NewCache(5, srv.Client())
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		if _, err := c.Get(ctx, fmt.Sprintf("%s/%d", srv.URL, i)); err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
	}
	if c.Len() != 5 {
		t.Errorf("cache holds %d entries, want 5", c.Len())
	}
}
