// Package ai generates tarot card artwork from the scenario image prompts.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/singleflight"
	"image/png"
	"log/slog"
	"sync"
)

const (
	// PlaceholderURL is shown when image generation is not configured.
	PlaceholderURL = "https://picsum.photos/400/600?blur=2"
	// ErrorPlaceholderURL is shown when image generation failed.
	ErrorPlaceholderURL = "https://picsum.photos/400/600?grayscale"
)

// CardImage is either a URL to redirect to or generated PNG bytes.
type CardImage struct {
	URL string
	PNG []byte
}

type Client struct {
	client *openai.Client
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string][]byte
	group singleflight.Group
}

// NewClient creates a card image client. An empty apiKey disables generation. An empty baseURL
// uses the OpenAI API.
func NewClient(apiKey string, baseURL string, logger *slog.Logger) *Client {
	c := &Client{
		client: nil,
		logger: logger,
		mu:     sync.RWMutex{},
		cache:  make(map[string][]byte),
		group:  singleflight.Group{},
	}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		c.client = openai.NewClientWithConfig(cfg)
	}
	return c
}

// Enabled reports whether images can be generated.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// CardImage resolves the artwork for s. An explicit image URL wins, then a generated image, then a
// placeholder. Generated images are cached per prompt for the lifetime of the process.
func (c *Client) CardImage(ctx context.Context, s models.Scenario) CardImage {
	if s.Tarot.ImageURL != "" {
		return CardImage{URL: s.Tarot.ImageURL, PNG: nil}
	}
	if !c.Enabled() || s.Tarot.ImagePrompt == "" {
		return CardImage{URL: PlaceholderURL, PNG: nil}
	}
	img, err := c.cached(ctx, s.Tarot.ImagePrompt)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "card image generation failed",
			slog.String("scenario", s.ID), errors.SlogError(err))
		return CardImage{URL: ErrorPlaceholderURL, PNG: nil}
	}
	return CardImage{URL: "", PNG: img}
}

func (c *Client) cached(ctx context.Context, prompt string) ([]byte, error) {
	c.mu.RLock()
	img, ok := c.cache[prompt]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}
	v, err, _ := c.group.Do(prompt, func() (any, error) {
		generated, err := c.Generate(context.WithoutCancel(ctx), prompt)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[prompt] = generated
		c.mu.Unlock()
		return generated, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped in Generate
	}
	return v.([]byte), nil //nolint:forcetypeassert // always []byte
}

// Generate creates a portrait PNG with DALL-E 3.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if !c.Enabled() {
		return nil, errors.New("image generation not configured")
	}
	request := openai.ImageRequest{ //nolint:exhaustruct // this is better for readability
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1792,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	}
	response, err := c.client.CreateImage(ctx, request)
	if err != nil {
		return nil, errors.Wrap(err, "create image")
	}
	if len(response.Data) == 0 {
		return nil, errors.New("no image data in response")
	}
	img, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64 image")
	}
	if _, err = png.DecodeConfig(bytes.NewReader(img)); err != nil {
		return nil, errors.Wrap(err, "decode png")
	}
	return img, nil
}
