// Package buffers owns the scratch and output memory of one pipeline
// instance and hands it out again on every call, so that a steady stream of
// same-sized frames runs without heap allocations.
//
// A Cache is not safe for concurrent use. Buffers are rewritten in place on
// every call, so a pipeline sharing a cache must serialize its invocations.
package buffers

import "fmt"

// Slot names used in allocation hooks and logs
const (
	ScratchSlot = "scratch"
	OutputSlot  = "output"
	FloatSlot   = "float"
)

// Buffer is a single reusable byte region
type Buffer struct {
	name  string
	data  []byte
	cache *Cache
}

// Acquire returns a region of exactly size bytes. The backing memory is
// reallocated only when size differs from the previous call; otherwise the
// same memory is returned, starting at its first byte. Contents are not
// cleared. A negative size means the caller's size arithmetic overflowed
// and panics, as make would.
func (b *Buffer) Acquire(size int) []byte {
	if size < 0 {
		panic(fmt.Sprintf("buffers: negative size %d for %s buffer", size, b.name))
	}
	if b.data == nil || len(b.data) != size {
		b.data = make([]byte, size)
		b.cache.allocated(b.name, size)
	}
	return b.data[:size]
}

// Len returns the size of the currently held region, 0 before first use
func (b *Buffer) Len() int {
	return len(b.data)
}

// Name returns the slot name of b
func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) release() {
	b.data = nil
}

// Cache holds the per-instance buffers: one scratch region for the scaled
// intermediate image, one output region for packed uint8 pixels and one
// region for float32 requantization.
type Cache struct {
	Scratch *Buffer
	Output  *Buffer
	Float   *Buffer

	allocations uint64
	bytes       uint64
	onAllocate  func(name string, size int)
}

// New creates an empty cache. Buffers are allocated lazily on first use.
func New() *Cache {
	c := &Cache{}
	c.Scratch = &Buffer{name: ScratchSlot, cache: c}
	c.Output = &Buffer{name: OutputSlot, cache: c}
	c.Float = &Buffer{name: FloatSlot, cache: c}
	return c
}

// OnAllocate registers fn to be called every time a slot allocates new memory
func (c *Cache) OnAllocate(fn func(name string, size int)) {
	c.onAllocate = fn
}

// Allocations returns how many times any slot allocated memory
func (c *Cache) Allocations() uint64 {
	return c.allocations
}

// AllocatedBytes returns the total number of bytes allocated over the cache's lifetime
func (c *Cache) AllocatedBytes() uint64 {
	return c.bytes
}

// Footprint returns the number of bytes currently held by all slots
func (c *Cache) Footprint() int {
	return c.Scratch.Len() + c.Output.Len() + c.Float.Len()
}

// Release drops every held buffer. The next Acquire allocates again.
func (c *Cache) Release() {
	c.Scratch.release()
	c.Output.release()
	c.Float.release()
}

func (c *Cache) allocated(name string, size int) {
	c.allocations++
	c.bytes += uint64(size)
	if c.onAllocate != nil {
		c.onAllocate(name, size)
	}
}
