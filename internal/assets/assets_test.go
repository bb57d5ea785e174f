package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls    int
	subjects []string
	data     []byte
	err      error
}

func (f *fakeGenerator) GenerateSpriteSheet(_ context.Context, subject string) ([]byte, error) {
	f.calls++
	f.subjects = append(f.subjects, subject)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newTestPipeline(t *testing.T, gen ImageGenerator) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	p, err := NewPipeline(root, gen)
	require.NoError(t, err)
	return p, root
}

func writeAsset(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
}

func TestResolveExactMatch(t *testing.T) {
	gen := &fakeGenerator{data: []byte("sprite")}
	p, root := newTestPipeline(t, gen)
	writeAsset(t, root, "assets/anvil.png")

	a, err := p.Resolve(context.Background(), "anvil")
	require.NoError(t, err)
	assert.Equal(t, SourceExisting, a.Source)
	assert.Equal(t, "/assets/anvil.png", a.AssetURL)
	assert.Equal(t, "anvil", a.AssetSlug)
	assert.Zero(t, gen.calls)
}

func TestResolveTokenMatchSingularized(t *testing.T) {
	gen := &fakeGenerator{data: []byte("sprite")}
	p, root := newTestPipeline(t, gen)
	writeAsset(t, root, "assets/bridge.png")

	a, err := p.Resolve(context.Background(), "golden gate bridges")
	require.NoError(t, err)
	assert.Equal(t, SourceExisting, a.Source)
	assert.Equal(t, "/assets/bridge.png", a.AssetURL)
	assert.Equal(t, "bridge", a.AssetSlug)
}

func TestResolveGeneratesAndCaches(t *testing.T) {
	gen := &fakeGenerator{data: []byte("sprite-bytes")}
	p, root := newTestPipeline(t, gen)

	a, err := p.Resolve(context.Background(), "space whale")
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, a.Source)
	assert.Equal(t, "/assets/generated/item_space_whale.png", a.AssetURL)
	assert.Equal(t, []string{"space whale"}, gen.subjects)

	cached, err := os.ReadFile(filepath.Join(root, "assets", "generated", "item_space_whale.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("sprite-bytes"), cached)

	// Second resolve hits the cache, not the generator.
	_, err = p.Resolve(context.Background(), "space whale")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestResolveGeneratorFailureFallsBackToPlaceholder(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	p, root := newTestPipeline(t, gen)
	writeAsset(t, root, "assets/cat.png")

	a, err := p.Resolve(context.Background(), "space whale")
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, a.Source)
	assert.Equal(t, "/assets/generated/item_space_whale.png", a.AssetURL)

	copied, err := os.ReadFile(filepath.Join(root, "assets", "generated", "item_space_whale.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), copied)
}

func TestResolveErrorsWhenPlaceholderMissing(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	p, _ := newTestPipeline(t, gen)

	_, err := p.Resolve(context.Background(), "space whale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestResolveNilGeneratorUsesPlaceholder(t *testing.T) {
	p, root := newTestPipeline(t, nil)
	writeAsset(t, root, "assets/cat.png")

	a, err := p.Resolve(context.Background(), "mystery box")
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, a.Source)
}

func TestScanIndexIgnoresNonImages(t *testing.T) {
	p, root := newTestPipeline(t, nil)
	writeAsset(t, root, "assets/anvil.png")
	writeAsset(t, root, "assets/notes.txt")
	writeAsset(t, root, "assets/.hidden.png")

	index := p.scanIndex()
	assert.Contains(t, index, "anvil")
	assert.NotContains(t, index, "notes")
	assert.Len(t, index, 1)
}
