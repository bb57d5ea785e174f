// internal/assets/openai_image.go
//
// OpenAI images-API sprite generator.
// Produces a square 2x2 pixel-art sprite sheet for a subject; the response
// carries image bytes either inline (b64_json) or as a download URL.

package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultImagesURL = "https://api.openai.com/v1/images/generations"

var subjectSpaces = regexp.MustCompile(`\s+`)

// OpenAIImageConfig configures the sprite generator.
type OpenAIImageConfig struct {
	APIKey     string
	Model      string
	Size       string
	Quality    string
	ImagesURL  string
	HTTPClient *http.Client
}

type openAIImageGenerator struct {
	cfg OpenAIImageConfig
}

// NewOpenAIImageGenerator builds an images-API sprite generator. APIKey is
// required; Model/Size/Quality default to gpt-image-1.5 / 1024x1024 / high.
func NewOpenAIImageGenerator(cfg OpenAIImageConfig) (ImageGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("assets: image api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-image-1.5"
	}
	if cfg.Size == "" {
		cfg.Size = "1024x1024"
	}
	if cfg.Quality == "" {
		cfg.Quality = "high"
	}
	if cfg.ImagesURL == "" {
		cfg.ImagesURL = defaultImagesURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &openAIImageGenerator{cfg: cfg}, nil
}

func normalizeSubject(subject string) string {
	s := strings.TrimSpace(strings.ReplaceAll(subject, "_", " "))
	s = subjectSpaces.ReplaceAllString(s, " ")
	if s == "" {
		return "object"
	}
	return s
}

func buildSpritePrompt(subject string) string {
	itemName := normalizeSubject(subject)
	return "Create a single pixel-art sprite sheet containing exactly 4 frames arranged in a 2x2 grid.\n" +
		"The final output image must be perfectly square (1:1 aspect ratio).\n" +
		"Each of the 4 frame cells must also be square and equal in size.\n" +
		fmt.Sprintf("Each frame must depict the same pixel-art %s asset at the exact same scale, orientation, ", itemName) +
		"and color palette, with no stylistic variation between frames.\n" +
		"Art style:\n" +
		"Clean 16-bit / retro pixel art\n" +
		"Crisp, square pixels (no anti-aliasing, no blur)\n" +
		"Limited color palette (game-ready)\n" +
		"Clear silhouette suitable for a 2D game\n" +
		"Sprite requirements:\n" +
		"Transparent background\n" +
		"The subject is centered vertically and horizontally in each frame\n" +
		"The subject size and proportions are identical across all 4 frames\n" +
		"Keep the entire subject visible inside an imaginary square bounding box in every frame\n" +
		"Do not stretch the subject; if it is naturally wide/tall, use transparent padding to keep square framing\n" +
		"No camera movement, no zoom, no rotation\n" +
		"Animation states in this exact 2x2 layout:\n" +
		"Top-left (Frame 1) – Falling: slightly above final ground position, subtle downward motion implied\n" +
		"Top-right (Frame 2) – Transition: closer to the ground, minor squash or anticipation of landing\n" +
		"Bottom-left (Frame 3) – Landing: touching the ground, slight squash for impact\n" +
		"Bottom-right (Frame 4) – Idle / Static: fully landed, neutral resting pose\n" +
		"Pose & motion rules:\n" +
		"Motion is subtle and believable\n" +
		"Only vertical position and slight squash/stretch change\n" +
		"No limb repositioning between frames unless minimal and consistent\n" +
		"Technical constraints:\n" +
		"Sprite sheet must be evenly spaced\n" +
		"No text, no UI, no shadows outside the sprite\n" +
		"No background elements\n" +
		"Designed for seamless looping between frames 1 -> 2 -> 3 -> 4 -> 3 -> 2\n" +
		"Overall goal:\n" +
		fmt.Sprintf("A professional, game-ready pixel-art falling animation of a %s, suitable for direct import ", itemName) +
		"into a 2D game engine."
}

// GenerateSpriteSheet requests one sprite sheet and returns its PNG bytes.
func (g *openAIImageGenerator) GenerateSpriteSheet(ctx context.Context, subject string) ([]byte, error) {
	requestBody, err := json.Marshal(map[string]any{
		"model":         g.cfg.Model,
		"prompt":        buildSpritePrompt(subject),
		"size":          g.cfg.Size,
		"quality":       g.cfg.Quality,
		"background":    "transparent",
		"output_format": "png",
	})
	if err != nil {
		return nil, fmt.Errorf("assets: marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ImagesURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("assets: build image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: image request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("assets: image status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("assets: decode image response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, errors.New("assets: image response missing data")
	}

	first := payload.Data[0]
	if strings.TrimSpace(first.B64JSON) != "" {
		imageBytes, err := base64.StdEncoding.DecodeString(first.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("assets: invalid b64_json payload: %w", err)
		}
		if len(imageBytes) == 0 {
			return nil, errors.New("assets: generated image is empty")
		}
		return imageBytes, nil
	}

	if first.URL != "" {
		return g.download(ctx, first.URL)
	}
	return nil, errors.New("assets: image response missing both b64_json and url")
}

func (g *openAIImageGenerator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("assets: build image download: %w", err)
	}
	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: download generated image: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("assets: image download status %d", res.StatusCode)
	}
	imageBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("assets: read generated image: %w", err)
	}
	if len(imageBytes) == 0 {
		return nil, errors.New("assets: generated image is empty")
	}
	return imageBytes, nil
}
