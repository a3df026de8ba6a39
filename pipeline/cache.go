package pipeline

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/internal/logging"
)

// DefaultShaderCacheSize is the number of sources a ShaderCache deduplicates
// when no size is given.
const DefaultShaderCacheSize = 32

// ErrInvalidCacheSize is returned by NewShaderCache for a non-positive size.
var ErrInvalidCacheSize = errors.New("pipeline: shader cache size must be positive")

// ShaderCache deduplicates shader modules by WGSL source.
//
// Loading the same source twice returns the same *Shader while the source is
// among the size most recently loaded. Eviction only forgets the source: the
// module stays valid, and reloading the source compiles a new one. Every module
// the cache created is owned by it and released by Destroy.
type ShaderCache struct {
	device hal.Device
	index  *lru.Cache[string, *Shader]
	loaded []*Shader
	hits   int
	misses int
}

// NewShaderCache creates a cache deduplicating up to size sources.
func NewShaderCache(device hal.Device, size int) (*ShaderCache, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCacheSize, size)
	}
	index, err := lru.NewWithEvict[string, *Shader](size, func(_ string, s *Shader) {
		logging.Logger().Debug("pipeline: shader source evicted from cache", "label", s.label)
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create shader cache: %w", err)
	}
	return &ShaderCache{device: device, index: index}, nil
}

// Load returns the cached shader for source, compiling it on a miss.
func (c *ShaderCache) Load(label, source string) (*Shader, error) {
	if s, ok := c.index.Get(source); ok && !s.Released() {
		c.hits++
		return s, nil
	}
	s, err := LoadShader(c.device, label, source)
	if err != nil {
		return nil, err
	}
	c.misses++
	c.loaded = append(c.loaded, s)
	c.index.Add(source, s)
	return s, nil
}

// Len returns the number of deduplicated sources.
func (c *ShaderCache) Len() int { return c.index.Len() }

// Modules returns the number of shader modules the cache owns.
func (c *ShaderCache) Modules() int { return len(c.loaded) }

// Stats returns cache hit and miss counts.
func (c *ShaderCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Destroy releases every module the cache created. Destroy is idempotent.
func (c *ShaderCache) Destroy() {
	c.index.Purge()
	for _, s := range c.loaded {
		s.Destroy(c.device)
	}
	c.loaded = nil
}
