package mahjong

import (
	"errors"
	"testing"
)

func TestWall_UnforcedOutOfBoundsLeavesCount(t *testing.T) {
	w := NewWall(FourPlayer)
	if _, err := w.Adjust(White, 1, false); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("+1 at 4 expected ErrOutOfBounds, got %v", err)
	}
	if w.Count(White) != 4 {
		t.Fatalf("count should stay 4, got %d", w.Count(White))
	}
}

func TestWall_ForcedClampsAndReverts(t *testing.T) {
	w := NewWall(FourPlayer)

	adj, err := w.Adjust(White, 1, true)
	if err != nil {
		t.Fatalf("forced adjust: %v", err)
	}
	if w.Count(White) != 4 || !adj.Clamped() {
		t.Fatalf("forced +1 at 4 expected clamped to 4, got %d (%+v)", w.Count(White), adj)
	}
	if err := w.Revert(adj, false); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if w.Count(White) != 4 {
		t.Fatalf("revert should restore 4, got %d", w.Count(White))
	}

	for i := 0; i < 4; i++ {
		if _, err := w.Adjust(Man1, -1, false); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	adj, err = w.Adjust(Man1, -1, true)
	if err != nil || w.Count(Man1) != 0 || adj.From != 0 {
		t.Fatalf("forced -1 at 0 expected clamp to 0, got %d %+v %v", w.Count(Man1), adj, err)
	}
}

func TestWall_RevertChecksCurrentCount(t *testing.T) {
	w := NewWall(FourPlayer)
	adj, _ := w.Adjust(Pin5, -1, false)
	if _, err := w.Adjust(Pin5, -1, false); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if err := w.Revert(adj, false); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("stale revert expected ErrOutOfBounds, got %v", err)
	}
	if w.Count(Pin5) != 2 {
		t.Fatalf("failed revert changed count to %d", w.Count(Pin5))
	}
	if err := w.Revert(adj, true); err != nil {
		t.Fatalf("ignore-bounds revert: %v", err)
	}
	if w.Count(Pin5) != 4 {
		t.Fatalf("ignore-bounds revert expected 4, got %d", w.Count(Pin5))
	}
}

func TestWall_AdjustAllIsAtomic(t *testing.T) {
	w := NewWall(FourPlayer)
	tiles, _ := ParseTiles("5z5z5z5z5z")
	if _, err := w.AdjustAll(tiles, -1, false); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("fifth 5z expected ErrOutOfBounds, got %v", err)
	}
	if w.Count(White) != 4 {
		t.Fatalf("failed batch changed count to %d", w.Count(White))
	}
}

func TestWall_ThreePlayer(t *testing.T) {
	w := NewWall(ThreePlayer)
	if w.Remaining() != 108 {
		t.Fatalf("3p wall expected 108 tiles, got %d", w.Remaining())
	}
	if NewWall(FourPlayer).Remaining() != 136 {
		t.Fatalf("4p wall expected 136 tiles")
	}
	if _, err := w.Adjust(Man3, -1, true); !errors.Is(err, ErrIllegalTileForConfig) {
		t.Fatalf("3m in 3p expected ErrIllegalTileForConfig, got %v", err)
	}
	if w.Count(Man1) != 4 || w.Count(Man9) != 4 || w.Count(Man5) != 0 {
		t.Fatalf("3p man counts wrong: %d %d %d", w.Count(Man1), w.Count(Man9), w.Count(Man5))
	}
}

func TestWall_CloneIsIndependent(t *testing.T) {
	w := NewWall(FourPlayer)
	c := w.Clone()
	if _, err := c.Adjust(Red, -1, false); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if w.Count(Red) != 4 {
		t.Fatalf("clone shares counts")
	}
}
