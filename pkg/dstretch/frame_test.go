package dstretch

import(
	"testing"
	"time"
)

func TestFrameBoxLatestWins(t *testing.T) {
	var box FrameBox

	if got := box.Claim(); got != nil {
		t.Fatalf("empty box claimed a frame")
	}

	a := &Frame{Seq: 1, Timestamp: time.Now()}
	b := &Frame{Seq: 2, Timestamp: time.Now()}
	c := &Frame{Seq: 3, Timestamp: time.Now()}

	box.Put(a)
	box.Put(b)
	box.Put(c)

	got := box.Claim()
	if got == nil || got.Seq != 3 {
		t.Fatalf("Claim = %+v, want seq 3", got)
	}
	if box.Drops() != 2 {
		t.Errorf("Drops = %d, want 2 (a overwritten by b, b by c)", box.Drops())
	}

	// Claim clears the slot
	if got := box.Claim(); got != nil {
		t.Errorf("second Claim returned %+v, want nil", got)
	}
}
