package shardstore

// directoryEntry is one slot in the entity directory. A slot is either
// live (archetypeIndex != invalidArchetypeIndex, indexInArchetype points
// at the slot's row in that archetype table) or free (archetypeIndex ==
// invalidArchetypeIndex, indexInArchetype instead doubles as the next
// free slot in the freelist — the same field serves both purposes, never
// both at once). This is the Go-struct equivalent of the original
// engine's packed 6-byte entry; see DESIGN.md for why no manual byte
// packing is used here.
type directoryEntry struct {
	version          uint8
	archetypeIndex   uint16
	indexInArchetype uint32
}

func (e *directoryEntry) isValid() bool {
	return e.archetypeIndex != invalidArchetypeIndex
}

// entityDirectory maps live Entity handles to their current archetype
// table and row. It owns entity identity: CreateEntity/DestroyEntity are
// directory operations, while the archetype table move itself is driven
// by the caller (core.go's Registry).
type entityDirectory struct {
	entries      []directoryEntry
	nextFreeSlot uint32
}

func newEntityDirectory() *entityDirectory {
	return &entityDirectory{
		entries:      make([]directoryEntry, 0, 8192),
		nextFreeSlot: invalidEntityHandleValue,
	}
}

// invalidEntityHandleValue marks an empty freelist. It deliberately sits
// one past MaxEntityHandleValue so it never collides with a real slot
// index.
const invalidEntityHandleValue = uint32(1 << 24)

// allocate reserves a new directory slot and returns the Entity handle for
// it, along with a pointer to the entry so the caller can populate its
// archetype placement. Returns EntityHandlesExhaustedError once the
// directory has MaxEntityHandleValue live slots and the freelist is also
// exhausted.
func (d *entityDirectory) allocate() (Entity, *directoryEntry, error) {
	if d.nextFreeSlot == invalidEntityHandleValue {
		if len(d.entries) >= MaxEntityHandleValue {
			return 0, nil, EntityHandlesExhaustedError{}
		}
		d.entries = append(d.entries, directoryEntry{})
		idx := uint32(len(d.entries) - 1)
		entry := &d.entries[idx]
		return newEntity(idx, 0), entry, nil
	}

	idx := d.nextFreeSlot
	entry := &d.entries[idx]
	d.nextFreeSlot = entry.indexInArchetype
	return newEntity(idx, entry.version), entry, nil
}

// resolve returns the live entry for e, or ok=false if e does not refer to
// a currently live slot (unknown index, stale version, or the reserved
// invalid handle).
func (d *entityDirectory) resolve(e Entity) (*directoryEntry, bool) {
	if !e.Valid() {
		return nil, false
	}
	idx := e.Index()
	if idx >= uint32(len(d.entries)) {
		return nil, false
	}
	entry := &d.entries[idx]
	if entry.version != e.Version() || !entry.isValid() {
		return nil, false
	}
	return entry, true
}

// free releases e's slot back to the freelist, bumping its version (mod
// 256) so stale copies of e no longer resolve.
func (d *entityDirectory) free(e Entity) bool {
	entry, ok := d.resolve(e)
	if !ok {
		return false
	}
	entry.archetypeIndex = invalidArchetypeIndex
	entry.version++
	// Thread this slot onto the head of the freelist: it points at the
	// slot that was the head before, and becomes the new head itself.
	entry.indexInArchetype = d.nextFreeSlot
	d.nextFreeSlot = e.Index()
	return true
}

// liveCount returns the number of directory slots currently holding a live
// entity (O(n); intended for diagnostics/tests, not hot paths).
func (d *entityDirectory) liveCount() int {
	n := 0
	for i := range d.entries {
		if d.entries[i].isValid() {
			n++
		}
	}
	return n
}

// each calls fn once for every live Entity in slot order.
func (d *entityDirectory) each(fn func(Entity)) {
	for i := range d.entries {
		if d.entries[i].isValid() {
			fn(newEntity(uint32(i), d.entries[i].version))
		}
	}
}
