package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lobbymap/pkg/cache"
	"github.com/matzehuels/lobbymap/pkg/level/decode"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/observability"
	"github.com/matzehuels/lobbymap/pkg/render"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	nodes  int
	err    error
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnExtractStart(ctx context.Context, source string) { r.add("extract-start") }
func (r *recorder) OnExtractComplete(ctx context.Context, source string, nodes int, _ time.Duration, err error) {
	r.add("extract-complete")
	r.nodes, r.err = nodes, err
}
func (r *recorder) OnDrawStart(ctx context.Context, labels, edges int) { r.add("draw-start") }
func (r *recorder) OnDrawComplete(ctx context.Context, labels, edges int, _ time.Duration, err error) {
	r.add("draw-complete")
	r.err = err
}
func (r *recorder) OnCacheHit(ctx context.Context, keyType string)  { r.add("hit:" + keyType) }
func (r *recorder) OnCacheMiss(ctx context.Context, keyType string) { r.add("miss:" + keyType) }
func (r *recorder) OnCacheSet(ctx context.Context, keyType string, size int) {
	r.add("set:" + keyType)
}

func record(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)
	return rec
}

func lobbyFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "lobby.yaml")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, decode.WriteYAML(f, lobby()))
	require.NoError(t, f.Close())
	return p
}

func TestWalkCaches(t *testing.T) {
	rec := record(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	x := NewExtractor(fc, quiet())
	src := Source{Level: lobbyFile(t)}

	first, err := x.Walk(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := x.Walk(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, []string{
		"extract-start", "miss:nodemap", "set:nodemap", "extract-complete",
		"extract-start", "hit:nodemap", "extract-complete",
	}, rec.events)
	assert.Equal(t, 3, rec.nodes)
	assert.NoError(t, rec.err)
}

func TestWalkChangedLevel(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	x := NewExtractor(fc, quiet())
	p := lobbyFile(t)

	_, err = x.Walk(context.Background(), Source{Level: p})
	require.NoError(t, err)

	// any byte change gives a new key
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, append(data, '\n'), 0o644))
	key := cache.NodeMapKey(cache.Hash(append(data, '\n')))
	_, hit, err := fc.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, hit)

	_, err = x.Walk(context.Background(), Source{Level: p})
	require.NoError(t, err)
	_, hit, err = fc.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestWalkUnreadableCacheEntry(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	p := lobbyFile(t)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	key := cache.NodeMapKey(cache.Hash(data))
	require.NoError(t, fc.Set(context.Background(), key, []byte("not a node map"), 0))

	nodes, err := NewExtractor(fc, quiet()).Walk(context.Background(), Source{Level: p})
	require.NoError(t, err)
	assert.Len(t, nodes, 3)

	cached, hit, err := fc.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, hit)
	got, err := nodemap.Unmarshal(cached)
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
}

func TestWalkErrorReported(t *testing.T) {
	rec := record(t)
	_, err := NewExtractor(nil, quiet()).Walk(context.Background(), Source{})
	require.Error(t, err)
	assert.Equal(t, []string{"extract-start", "extract-complete"}, rec.events)
	assert.Equal(t, err, rec.err)
}

func TestDrawHooks(t *testing.T) {
	r := newRenderer(t)
	rec := record(t)
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	err := r.Draw(context.Background(), render.NewCanvas(img), nodemap.NodeMap{"1": {0, 0}}, DrawOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"draw-start", "draw-complete"}, rec.events)
	assert.NoError(t, rec.err)
}
