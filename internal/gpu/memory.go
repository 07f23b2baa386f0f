package gpu

import (
	"container/list"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// Texture cache errors.
var (
	// ErrMemoryBudgetExceeded is returned when a texture does not fit in the
	// budget even after evicting every idle texture.
	ErrMemoryBudgetExceeded = errors.New("gpu: texture memory budget exceeded")

	// ErrTextureCacheClosed is returned when operating on a closed cache.
	ErrTextureCacheClosed = errors.New("gpu: texture cache closed")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default texture memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// DefaultEvictionThreshold is when eviction of idle textures starts
	// (80% of budget).
	DefaultEvictionThreshold = 0.8

	// MinMemoryMB is the minimum allowed budget (1 MB).
	MinMemoryMB = 1
)

// MemoryStats contains texture memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the total memory budget in bytes.
	TotalBytes uint64

	// UsedBytes is the memory held by cached textures.
	UsedBytes uint64

	// AvailableBytes is the remaining memory budget.
	AvailableBytes uint64

	// TextureCount is the number of cached textures.
	TextureCount int

	// InUse is the number of cached textures with at least one reference.
	InUse int

	// Hits counts Acquire calls served from the cache.
	Hits uint64

	// EvictionCount is the total number of textures evicted.
	EvictionCount uint64

	// Utilization is the fraction of budget used (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Textures[%.1f%% used, %d/%d KB, %d cached, %d in use, %d hits, %d evictions]",
		s.Utilization*100,
		s.UsedBytes/1024,
		s.TotalBytes/1024,
		s.TextureCount,
		s.InUse,
		s.Hits,
		s.EvictionCount)
}

// textureEntry tracks a cached texture with LRU information.
type textureEntry struct {
	key       string
	texture   *Texture
	sizeBytes uint64
	refs      int
	lastUsed  time.Time
	element   *list.Element // position in LRU list
}

// TextureCacheConfig holds configuration for creating a TextureCache.
type TextureCacheConfig struct {
	// MaxMemoryMB is the budget in megabytes.
	// Defaults to DefaultMaxMemoryMB if < MinMemoryMB.
	MaxMemoryMB int

	// EvictionThreshold is the usage fraction above which idle textures
	// are evicted. Defaults to DefaultEvictionThreshold if <= 0.
	EvictionThreshold float64
}

// TextureCache uploads material textures once per key and shares them
// between models. Textures are reference counted; idle ones (no
// references) stay cached until the budget needs their memory, least
// recently used first.
//
// TextureCache is safe for concurrent use.
type TextureCache struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	budgetBytes uint64
	usedBytes   uint64

	entries   map[string]*textureEntry
	byTexture map[*Texture]*textureEntry

	// front = most recently used, back = least recently used
	lruList *list.List

	hits          uint64
	evictionCount uint64
	anonymous     uint64

	evictionThreshold float64

	closed bool
}

// NewTextureCache creates a texture cache uploading on device and queue.
func NewTextureCache(device hal.Device, queue hal.Queue, config TextureCacheConfig) *TextureCache {
	maxMB := config.MaxMemoryMB
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}

	threshold := config.EvictionThreshold
	if threshold <= 0 || threshold > 1.0 {
		threshold = DefaultEvictionThreshold
	}

	//nolint:gosec // G115: maxMB is bounded by MinMemoryMB minimum
	return &TextureCache{
		device:            device,
		queue:             queue,
		budgetBytes:       uint64(maxMB) * 1024 * 1024,
		entries:           make(map[string]*textureEntry),
		byTexture:         make(map[*Texture]*textureEntry),
		lruList:           list.New(),
		evictionThreshold: threshold,
	}
}

// Acquire returns the texture cached under key, uploading img on a miss.
// Every Acquire must be paired with a Release. An empty key always
// uploads.
func (c *TextureCache) Acquire(key string, img image.Image) (*Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrTextureCacheClosed
	}

	if key != "" {
		if entry, ok := c.entries[key]; ok {
			entry.refs++
			c.touchLocked(entry)
			c.hits++
			return entry.texture, nil
		}
	} else {
		c.anonymous++
		key = fmt.Sprintf("#%d", c.anonymous)
	}

	tex, err := NewTexture(c.device, c.queue, key, img)
	if err != nil {
		return nil, err
	}
	w, h := tex.Size()
	size := uint64(w) * uint64(h) * 4

	if size > c.budgetBytes {
		tex.Destroy()
		return nil, fmt.Errorf("%w: texture %q needs %d KB, budget is %d KB",
			ErrMemoryBudgetExceeded, key, size/1024, c.budgetBytes/1024)
	}
	if err := c.evictIfNeeded(size); err != nil {
		tex.Destroy()
		return nil, err
	}

	entry := &textureEntry{key: key, texture: tex, sizeBytes: size, refs: 1, lastUsed: time.Now()}
	entry.element = c.lruList.PushFront(entry)
	c.entries[key] = entry
	c.byTexture[tex] = entry
	c.usedBytes += size

	slogger().Debug("gpu: texture cached", "key", key, "width", w, "height", h, "used", c.usedBytes)
	return tex, nil
}

// Release drops one reference to tex. The texture stays cached and can be
// evicted once no references remain. Textures the cache does not know
// are destroyed.
func (c *TextureCache) Release(tex *Texture) {
	if tex == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byTexture[tex]
	if !ok {
		tex.Destroy()
		return
	}
	if entry.refs > 0 {
		entry.refs--
	}
	entry.lastUsed = time.Now()
}

// Contains reports whether a texture is cached under key.
func (c *TextureCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	return ok
}

// Stats returns current memory usage statistics.
func (c *TextureCache) Stats() MemoryStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var utilization float64
	if c.budgetBytes > 0 {
		utilization = float64(c.usedBytes) / float64(c.budgetBytes)
	}
	inUse := 0
	for _, e := range c.entries {
		if e.refs > 0 {
			inUse++
		}
	}

	var available uint64
	if c.usedBytes < c.budgetBytes {
		available = c.budgetBytes - c.usedBytes
	}
	return MemoryStats{
		TotalBytes:     c.budgetBytes,
		UsedBytes:      c.usedBytes,
		AvailableBytes: available,
		TextureCount:   len(c.entries),
		InUse:          inUse,
		Hits:           c.hits,
		EvictionCount:  c.evictionCount,
		Utilization:    utilization,
	}
}

// SetBudget updates the budget. Idle textures are evicted to fit; textures
// in use are never evicted, so usage may stay above a lowered budget.
func (c *TextureCache) SetBudget(megabytes int) error {
	if megabytes < MinMemoryMB {
		megabytes = MinMemoryMB
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrTextureCacheClosed
	}

	//nolint:gosec // G115: megabytes bounded by MinMemoryMB minimum
	c.budgetBytes = uint64(megabytes) * 1024 * 1024
	return c.evictIfNeeded(0)
}

// Close destroys every cached texture, referenced or not.
func (c *TextureCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	for _, entry := range c.entries {
		entry.texture.Destroy()
	}
	c.entries = nil
	c.byTexture = nil
	c.lruList = nil
	c.usedBytes = 0
	c.closed = true
}

func (c *TextureCache) touchLocked(entry *textureEntry) {
	entry.lastUsed = time.Now()
	c.lruList.MoveToFront(entry.element)
}

func (c *TextureCache) removeLocked(entry *textureEntry) {
	if entry.element != nil {
		c.lruList.Remove(entry.element)
	}
	delete(c.entries, entry.key)
	delete(c.byTexture, entry.texture)
	c.usedBytes -= entry.sizeBytes
}

// evictIfNeeded evicts idle textures, least recently used first, until
// usage plus requestedBytes is under the eviction threshold. It fails only
// if the request does not fit in the whole budget. Caller must hold mu.
func (c *TextureCache) evictIfNeeded(requestedBytes uint64) error {
	thresholdBytes := uint64(float64(c.budgetBytes) * c.evictionThreshold)
	if c.usedBytes+requestedBytes <= thresholdBytes {
		return nil
	}

	for elem := c.lruList.Back(); elem != nil && c.usedBytes+requestedBytes > thresholdBytes; {
		prev := elem.Prev()
		entry, ok := elem.Value.(*textureEntry)
		if ok && entry.refs == 0 {
			c.removeLocked(entry)
			entry.texture.Destroy()
			c.evictionCount++
			slogger().Debug("gpu: texture evicted", "key", entry.key, "bytes", entry.sizeBytes)
		}
		elem = prev
	}

	if c.usedBytes+requestedBytes > c.budgetBytes {
		return fmt.Errorf("%w: need %d KB, %d KB in use",
			ErrMemoryBudgetExceeded, requestedBytes/1024, c.usedBytes/1024)
	}
	return nil
}
