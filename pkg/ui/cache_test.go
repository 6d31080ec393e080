package ui

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestLabelCache_GetPut(t *testing.T) {
	c := newLabelCache(4)

	key := labelKey{nodeID: 1, kind: KindJob}
	if _, ok := c.get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.put(key, "rendered")
	got, ok := c.get(key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != "rendered" {
		t.Errorf("expected %q, got %q", "rendered", got)
	}
}

func TestLabelCache_PutSameKeyUpdates(t *testing.T) {
	c := newLabelCache(4)
	key := labelKey{nodeID: 1}

	c.put(key, "old")
	c.put(key, "new")

	if c.len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.len())
	}
	if got, _ := c.get(key); got != "new" {
		t.Errorf("expected updated value, got %q", got)
	}
}

func TestLabelCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLabelCache(2)

	a := labelKey{nodeID: 1}
	b := labelKey{nodeID: 2}
	d := labelKey{nodeID: 3}

	c.put(a, "a")
	c.put(b, "b")

	// Touch a so b becomes the eviction candidate.
	if _, ok := c.get(a); !ok {
		t.Fatal("expected hit for a")
	}

	c.put(d, "d")

	if c.contains(b) {
		t.Error("expected b to be evicted")
	}
	if !c.contains(a) {
		t.Error("expected a to survive, it was recently used")
	}
	if !c.contains(d) {
		t.Error("expected d to be present")
	}
	if c.len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.len())
	}
}

func TestLabelCache_CapacityBound(t *testing.T) {
	c := newLabelCache(8)
	for i := 0; i < 100; i++ {
		c.put(labelKey{nodeID: i}, fmt.Sprintf("label-%d", i))
	}
	if c.len() != 8 {
		t.Errorf("expected cache to hold exactly 8 entries, got %d", c.len())
	}
	// The most recent inserts are retained.
	for i := 92; i < 100; i++ {
		if !c.contains(labelKey{nodeID: i}) {
			t.Errorf("expected key %d to be retained", i)
		}
	}
}

// TestLabelCache_BoundHoldsUnderArbitraryOps drives random get/put sequences
// and checks the size bound and a hit-after-put guarantee.
func TestLabelCache_BoundHoldsUnderArbitraryOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(t, "capacity")
		c := newLabelCache(capacity)

		ops := rapid.IntRange(1, 500).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			key := labelKey{
				nodeID:   rapid.IntRange(0, 200).Draw(t, "nodeID"),
				isCursor: rapid.Bool().Draw(t, "isCursor"),
				hasFocus: rapid.Bool().Draw(t, "hasFocus"),
			}
			if rapid.Bool().Draw(t, "isPut") {
				want := fmt.Sprintf("v%d", i)
				c.put(key, want)
				got, ok := c.get(key)
				if !ok {
					t.Fatalf("key missing immediately after put")
				}
				if got != want {
					t.Fatalf("expected %q after put, got %q", want, got)
				}
			} else {
				c.get(key)
			}
			if c.len() > capacity {
				t.Fatalf("cache grew to %d entries, capacity %d", c.len(), capacity)
			}
		}
	})
}
