// internal/assets/assets.go
//
// Display asset resolution for judged items.
// Resolution order for a canonical name:
//   1. Exact slug match against the on-disk asset index.
//   2. Singularized-token match ("golden_gate_bridge" can hit "bridge.png").
//   3. Cached generated sprite under <assets>/generated/item_<slug>.png.
//   4. Fresh generation via the image generator collaborator; on failure,
//      copy of the placeholder sprite.
//
// The index is rescanned per resolve so assets dropped into the directory at
// runtime are picked up without a restart.

package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bribethescale/go-server/internal/text"
)

// Asset source tags.
const (
	SourceExisting  = "existing"
	SourceGenerated = "generated"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Asset is the resolved display reference for one item.
type Asset struct {
	Source    string `json:"source"`
	AssetURL  string `json:"asset_url"`
	AssetSlug string `json:"asset_slug"`
}

// Resolver is the collaborator seam the game engine calls once per turn.
type Resolver interface {
	Resolve(ctx context.Context, canonicalName string) (Asset, error)
}

// ImageGenerator produces sprite-sheet image bytes for a subject. May be nil
// in a Pipeline, in which case generation falls straight to the placeholder.
type ImageGenerator interface {
	GenerateSpriteSheet(ctx context.Context, subject string) ([]byte, error)
}

// Pipeline resolves assets against a project directory layout:
// <root>/assets for curated files, <root>/assets/generated for the cache,
// <root>/assets/cat.png as the placeholder.
type Pipeline struct {
	root         string
	assetsDir    string
	generatedDir string
	placeholder  string
	generator    ImageGenerator
}

// NewPipeline builds a Pipeline rooted at projectRoot and ensures the
// generated cache directory exists.
func NewPipeline(projectRoot string, generator ImageGenerator) (*Pipeline, error) {
	assetsDir := filepath.Join(projectRoot, "assets")
	generatedDir := filepath.Join(assetsDir, "generated")
	if err := os.MkdirAll(generatedDir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: mkdir %s: %w", generatedDir, err)
	}
	return &Pipeline{
		root:         projectRoot,
		assetsDir:    assetsDir,
		generatedDir: generatedDir,
		placeholder:  filepath.Join(assetsDir, "cat.png"),
		generator:    generator,
	}, nil
}

// scanIndex maps slugified file stems to public URLs. First hit per slug
// wins.
func (p *Pipeline) scanIndex() map[string]string {
	index := map[string]string{}
	_ = filepath.WalkDir(p.assetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return nil
		}
		key := text.Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
		if key == "" {
			return nil
		}
		if _, ok := index[key]; !ok {
			index[key] = "/" + filepath.ToSlash(rel)
		}
		return nil
	})
	return index
}

// Resolve returns the display asset for canonicalName, generating and
// caching a sprite when no existing asset matches.
func (p *Pipeline) Resolve(ctx context.Context, canonicalName string) (Asset, error) {
	index := p.scanIndex()
	canonicalSlug := text.Slugify(canonicalName)

	if url, ok := index[canonicalSlug]; ok {
		return Asset{Source: SourceExisting, AssetURL: url, AssetSlug: canonicalSlug}, nil
	}

	for _, token := range strings.Split(canonicalSlug, "_") {
		if token == "" {
			continue
		}
		token = text.Singularize(token)
		if url, ok := index[token]; ok {
			return Asset{Source: SourceExisting, AssetURL: url, AssetSlug: token}, nil
		}
	}

	fallbackSlug := canonicalSlug
	if fallbackSlug == "" {
		fallbackSlug = "unknown_item"
	}
	generatedPath := filepath.Join(p.generatedDir, "item_"+fallbackSlug+".png")

	if _, err := os.Stat(generatedPath); errors.Is(err, fs.ErrNotExist) {
		if p.generator != nil {
			imageBytes, genErr := p.generator.GenerateSpriteSheet(ctx, canonicalName)
			if genErr != nil {
				log.Warn().
					Str("component", "assets").
					Str("event", "resolve.generate_failed").
					Str("canonical_name", canonicalName).
					Err(genErr).
					Msg("sprite generation failed; falling back to placeholder")
			} else if writeErr := os.WriteFile(generatedPath, imageBytes, 0o644); writeErr != nil {
				log.Warn().
					Str("component", "assets").
					Str("event", "resolve.write_failed").
					Str("generated_path", generatedPath).
					Err(writeErr).
					Msg("could not cache generated sprite")
			}
		}

		if _, err := os.Stat(generatedPath); errors.Is(err, fs.ErrNotExist) {
			if err := p.copyPlaceholder(generatedPath); err != nil {
				return Asset{}, err
			}
		}
	}

	rel, err := filepath.Rel(p.root, generatedPath)
	if err != nil {
		return Asset{}, fmt.Errorf("assets: rel path: %w", err)
	}
	return Asset{
		Source:    SourceGenerated,
		AssetURL:  "/" + filepath.ToSlash(rel),
		AssetSlug: fallbackSlug,
	}, nil
}

func (p *Pipeline) copyPlaceholder(dst string) error {
	data, err := os.ReadFile(p.placeholder)
	if err != nil {
		return fmt.Errorf("assets: missing placeholder %s: %w", p.placeholder, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("assets: copy placeholder: %w", err)
	}
	return nil
}
