package dstretch

import(
	"image"
	"sync/atomic"
	"time"
)

// A Frame is one decoded camera image. The capture device hands
// ownership to the pipeline via the FrameBox; after delivery the
// device must not touch Image again.
type Frame struct {
	Image     image.Image
	Width     int
	Height    int
	Timestamp time.Time
	Seq       uint64
}

// FrameBox is the single-slot handoff between the camera (writer) and
// the render tick (reader). Latest frame wins: an unconsumed frame is
// overwritten, never queued, so the render path can never fall behind
// the camera.
type FrameBox struct {
	slot  atomic.Pointer[Frame]
	drops atomic.Uint64
}

// Put delivers a frame, overwriting any unconsumed one. Never blocks.
func (b *FrameBox)Put(f *Frame) {
	if prev := b.slot.Swap(f); prev != nil {
		b.drops.Add(1)
	}
}

// Claim takes the pending frame and clears the slot. Returns nil when
// nothing new has arrived since the last claim.
func (b *FrameBox)Claim() *Frame {
	return b.slot.Swap(nil)
}

// Drops counts frames that were overwritten before any tick saw them.
// A persistently growing value means the render loop has stalled.
func (b *FrameBox)Drops() uint64 {
	return b.drops.Load()
}
