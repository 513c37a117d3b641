package shardstore

import "testing"

func TestDirectoryAllocateResolveFree(t *testing.T) {
	d := newEntityDirectory()

	e1, entry1, err := d.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	entry1.archetypeIndex = 0
	entry1.indexInArchetype = 0

	if _, ok := d.resolve(e1); !ok {
		t.Fatal("resolve() failed for freshly allocated entity")
	}

	if !d.free(e1) {
		t.Fatal("free() returned false for a live entity")
	}
	if _, ok := d.resolve(e1); ok {
		t.Fatal("resolve() succeeded for a freed entity")
	}
}

func TestDirectoryFreelistReuseBumpsVersion(t *testing.T) {
	d := newEntityDirectory()

	e1, entry1, _ := d.allocate()
	entry1.archetypeIndex = 0
	if !d.free(e1) {
		t.Fatal("free() failed")
	}

	e2, entry2, err := d.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	entry2.archetypeIndex = 0

	if e2.Index() != e1.Index() {
		t.Fatalf("expected slot reuse: e1.Index()=%d e2.Index()=%d", e1.Index(), e2.Index())
	}
	if e2.Version() != e1.Version()+1 {
		t.Fatalf("expected version bump on reuse: e1.Version()=%d e2.Version()=%d", e1.Version(), e2.Version())
	}
	if _, ok := d.resolve(e1); ok {
		t.Fatal("stale handle e1 resolved after its slot was recycled")
	}
	if _, ok := d.resolve(e2); !ok {
		t.Fatal("resolve() failed for the reused handle")
	}
}

func TestDirectoryVersionWraps(t *testing.T) {
	d := newEntityDirectory()

	e, entry, _ := d.allocate()
	entry.archetypeIndex = 0
	slot := e.Index()

	for i := 0; i < 256; i++ {
		cur := newEntity(slot, d.entries[slot].version)
		if !d.free(cur) {
			t.Fatalf("free() failed on iteration %d", i)
		}
		e2, entry2, err := d.allocate()
		if err != nil {
			t.Fatalf("allocate() error = %v on iteration %d", err, i)
		}
		entry2.archetypeIndex = 0
		if e2.Index() != slot {
			t.Fatalf("expected the same slot to be reused on iteration %d", i)
		}
	}

	// After exactly 256 destroy/recreate cycles the version counter has
	// wrapped back to its starting value — a documented risk of the
	// 8-bit generation scheme, not a bug.
	if d.entries[slot].version != e.Version() {
		t.Fatalf("expected version to wrap back to %d, got %d", e.Version(), d.entries[slot].version)
	}
}

func TestDirectoryFreelistChainsInLIFOOrder(t *testing.T) {
	d := newEntityDirectory()

	e1, entry1, _ := d.allocate()
	entry1.archetypeIndex = 0
	e2, entry2, _ := d.allocate()
	entry2.archetypeIndex = 0

	if !d.free(e1) {
		t.Fatal("free(e1) failed")
	}
	if !d.free(e2) {
		t.Fatal("free(e2) failed")
	}

	reused1, reusedEntry1, err := d.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	reusedEntry1.archetypeIndex = 0
	if reused1.Index() != e2.Index() {
		t.Fatalf("expected the most-recently-freed slot (%d) to be reused first, got slot %d", e2.Index(), reused1.Index())
	}

	reused2, reusedEntry2, err := d.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	reusedEntry2.archetypeIndex = 0
	if reused2.Index() != e1.Index() {
		t.Fatalf("expected the freelist to chain to the previously-freed slot (%d), got slot %d — freelist corruption", e1.Index(), reused2.Index())
	}
	if reused1 == reused2 {
		t.Fatal("two allocate() calls aliased the same entity handle")
	}
}

func TestDirectoryEachVisitsOnlyLiveEntities(t *testing.T) {
	d := newEntityDirectory()

	e1, entry1, _ := d.allocate()
	entry1.archetypeIndex = 0
	e2, entry2, _ := d.allocate()
	entry2.archetypeIndex = 0
	d.free(e1)

	seen := map[Entity]bool{}
	d.each(func(e Entity) { seen[e] = true })

	if len(seen) != 1 || !seen[e2] {
		t.Fatalf("each() visited %v, want only %v", seen, e2)
	}
}
