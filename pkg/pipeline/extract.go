package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lobbymap/pkg/cache"
	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/graph"
	"github.com/matzehuels/lobbymap/pkg/level"
	"github.com/matzehuels/lobbymap/pkg/level/decode"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
	"github.com/matzehuels/lobbymap/pkg/observability"
	"github.com/matzehuels/lobbymap/pkg/source"
)

// DefaultCacheTTL bounds how long an extracted node map is reused.
const DefaultCacheTTL = 30 * 24 * time.Hour

// Source names the level to extract. Either Level is set, or all of Game,
// Mod and Map are.
type Source struct {
	Level string // level file (.bin, .yaml or .xml)

	Game string // game installation directory
	Mod  string // mod directory, archive or everest.yaml name under <Game>/Mods
	Map  string // map path inside the mod, without Maps/ and .bin
}

// Validate checks that exactly one way of locating the level is given.
func (s Source) Validate() error {
	byMod := s.Game != "" || s.Mod != "" || s.Map != ""
	switch {
	case s.Level != "" && byMod:
		return errors.New(errors.ErrCodeInvalidInput, "a level file cannot be combined with --game, --mod or --map")
	case s.Level != "":
		return nil
	case s.Game == "" || s.Mod == "" || s.Map == "":
		return errors.New(errors.ErrCodeInvalidInput, "either a level file or all of --game, --mod and --map are required")
	}
	return nil
}

func (s Source) String() string {
	if s.Level != "" {
		return s.Level
	}
	return s.Mod + ":" + source.MapPath(s.Map)
}

// Extractor runs the walk stage. It is stateless apart from its cache and
// logger.
type Extractor struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewExtractor returns an extractor with the given cache and logger. A nil
// cache disables caching; a nil logger uses the default logger.
func NewExtractor(c cache.Cache, logger *log.Logger) *Extractor {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{Cache: c, Logger: logger}
}

// read returns the raw level bytes named by src and the extension that
// selects their decoder.
func (x *Extractor) read(src Source) ([]byte, string, error) {
	if err := src.Validate(); err != nil {
		return nil, "", err
	}
	if src.Level != "" {
		data, err := os.ReadFile(src.Level)
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "level %s", src.Level)
		}
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "read level %s", src.Level)
		}
		return data, filepath.Ext(src.Level), nil
	}

	inst := source.Installation{Path: src.Game}
	mod, err := inst.OpenMod(src.Mod)
	if err != nil {
		return nil, "", err
	}
	defer mod.Close()
	x.Logger.Debug("opened mod", "name", mod.Name, "location", mod.Location)

	data, err := mod.ReadMap(src.Map)
	if err != nil {
		return nil, "", err
	}
	return data, ".bin", nil
}

func decodeLevel(data []byte, ext string) (*level.Element, *level.Map, error) {
	root, err := decode.Bytes(data, ext)
	if err != nil {
		return nil, nil, err
	}
	m, err := level.Load(root)
	if err != nil {
		return nil, nil, err
	}
	return root, m, nil
}

// Load decodes the level named by src.
func (x *Extractor) Load(ctx context.Context, src Source) (*level.Element, *level.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	data, ext, err := x.read(src)
	if err != nil {
		return nil, nil, err
	}
	root, m, err := decodeLevel(data, ext)
	if err != nil {
		return nil, nil, err
	}
	x.Logger.Debug("decoded level",
		"source", src,
		"package", m.Package,
		"rooms", len(m.Rooms),
		"duration", time.Since(start))
	return root, m, nil
}

// Extract builds the node map of a decoded level.
func (x *Extractor) Extract(ctx context.Context, root *level.Element, m *level.Map) (nodemap.NodeMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	nodes, err := graph.BuildNodeMap(root, m)
	if err != nil {
		return nil, err
	}
	x.Logger.Info("extracted node map",
		"nodes", len(nodes),
		"duration", time.Since(start))
	return nodes, nil
}

// Walk loads src and extracts its node map, reusing a cached result when the
// level's bytes are unchanged.
func (x *Extractor) Walk(ctx context.Context, src Source) (nodes nodemap.NodeMap, err error) {
	hooks := observability.Pipeline()
	hooks.OnExtractStart(ctx, src.String())
	start := time.Now()
	defer func() {
		hooks.OnExtractComplete(ctx, src.String(), len(nodes), time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ext, err := x.read(src)
	if err != nil {
		return nil, err
	}

	key := cache.NodeMapKey(cache.Hash(data))
	if cached, ok := x.cached(ctx, key); ok {
		x.Logger.Info("using cached node map", "nodes", len(cached))
		return cached, nil
	}

	root, m, err := decodeLevel(data, ext)
	if err != nil {
		return nil, err
	}
	x.Logger.Debug("decoded level", "source", src, "package", m.Package, "rooms", len(m.Rooms))
	if nodes, err = x.Extract(ctx, root, m); err != nil {
		return nil, err
	}
	x.store(ctx, key, nodes)
	return nodes, nil
}

// cached looks key up. Cache failures are logged and treated as misses.
func (x *Extractor) cached(ctx context.Context, key string) (nodemap.NodeMap, bool) {
	data, hit, err := x.Cache.Get(ctx, key)
	if err != nil {
		x.Logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "nodemap")
		return nil, false
	}
	nodes, err := nodemap.Unmarshal(data)
	if err != nil {
		x.Logger.Warn("discarding unreadable cache entry", "err", err)
		_ = x.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "nodemap")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "nodemap")
	return nodes, true
}

func (x *Extractor) store(ctx context.Context, key string, nodes nodemap.NodeMap) {
	data, err := nodemap.Marshal(nodes)
	if err != nil {
		return
	}
	if err := x.Cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
		x.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "nodemap", len(data))
}
