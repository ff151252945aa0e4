package system

import (
	"image"
	"sync"
)

// FramePool reuses *image.RGBA buffers of a single size to keep the garbage
// collector out of the frame loop.
type FramePool struct {
	rect image.Rectangle
	pool sync.Pool
}

func NewFramePool(rect image.Rectangle) *FramePool {
	p := &FramePool{rect: rect}
	p.pool.New = func() interface{} {
		return image.NewRGBA(rect)
	}
	return p
}

// Get returns a buffer of the pool's size. Its contents are undefined.
func (p *FramePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put returns a buffer to the pool. Buffers of another size are dropped.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.pool.Put(img)
}
