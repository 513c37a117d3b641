package shardstore

import "sort"

// archetypeKey is one entry in a per-level sorted index: archetype id to
// table index, kept sorted by id so lookups are a binary search.
type archetypeKey struct {
	id    uint32
	index uint16
}

// archetypeRegistry owns every archetype table ever created. Tables are
// never destroyed once created (an Open Question resolved in DESIGN.md),
// so a table index stored in a directory entry is stable for the
// registry's entire lifetime.
//
// sortedByLevel[n-1] holds the sorted archetype-id index for every
// archetype with exactly n components, mirroring the original engine's
// per-length bucketing — grouping by component count both shrinks each
// binary search and means add/remove-component neighbor lookups always
// search a bucket one level away from the source archetype's own bucket.
type archetypeRegistry struct {
	sortedByLevel [MaxComponentsPerEntity][]archetypeKey
	tables        []*archetypeTable
}

func newArchetypeRegistry() *archetypeRegistry {
	return &archetypeRegistry{
		tables: make([]*archetypeTable, 0, 128),
	}
}

// find returns the table index for an exact archetype descriptor, or
// ok=false if no such table exists yet.
func (r *archetypeRegistry) find(descriptor *ArchetypeDescriptor) (uint16, bool) {
	if !descriptor.Valid() {
		return 0, false
	}
	level := descriptor.Len() - 1
	bucket := r.sortedByLevel[level]
	i := sort.Search(len(bucket), func(i int) bool { return bucket[i].id >= descriptor.id })
	if i < len(bucket) && bucket[i].id == descriptor.id {
		return bucket[i].index, true
	}
	return 0, false
}

// findOrCreate returns the table index for descriptor, creating a new
// (empty) table and registering it if one doesn't exist yet. Returns
// ArchetypeCountExhaustedError if the registry is already at
// MaxArchetypeCount tables.
func (r *archetypeRegistry) findOrCreate(descriptor ArchetypeDescriptor) (uint16, *archetypeTable, error) {
	if idx, ok := r.find(&descriptor); ok {
		return idx, r.tables[idx], nil
	}
	if len(r.tables) >= MaxArchetypeCount {
		return 0, nil, ArchetypeCountExhaustedError{}
	}

	level := descriptor.Len() - 1
	bucket := r.sortedByLevel[level]
	insertAt := sort.Search(len(bucket), func(i int) bool { return bucket[i].id >= descriptor.id })

	idx := uint16(len(r.tables))
	table := newArchetypeTable(descriptor, uint32(Config.archetypeAllocFloor))
	r.tables = append(r.tables, table)

	bucket = append(bucket, archetypeKey{})
	copy(bucket[insertAt+1:], bucket[insertAt:])
	bucket[insertAt] = archetypeKey{id: descriptor.id, index: idx}
	r.sortedByLevel[level] = bucket

	if Config.archetypeEvents.OnArchetypeCreated != nil {
		Config.archetypeEvents.OnArchetypeCreated(descriptor)
	}
	return idx, table, nil
}

// findOrCreateAdding resolves the neighbor archetype reached by adding
// component to the archetype at srcIndex, creating it if needed. Returns
// the source table, the destination table's index, and the destination
// table. ok is false if component is already present or the source
// archetype is already at MaxComponentsPerEntity.
func (r *archetypeRegistry) findOrCreateAdding(srcIndex uint16, component ComponentDescriptor) (src, dst *archetypeTable, dstIndex uint16, ok bool, err error) {
	src = r.tables[srcIndex]
	neighbor, added := src.descriptor.AddComponent(component)
	if !added {
		return src, nil, 0, false, nil
	}
	dstIndex, dst, err = r.findOrCreate(neighbor)
	if err != nil {
		return src, nil, 0, false, err
	}
	return src, dst, dstIndex, true, nil
}

// findOrCreateRemoving resolves the neighbor archetype reached by
// removing the component with typeID from the archetype at srcIndex,
// creating it if needed.
func (r *archetypeRegistry) findOrCreateRemoving(srcIndex uint16, typeID uint16) (src, dst *archetypeTable, dstIndex uint16, ok bool, err error) {
	src = r.tables[srcIndex]
	neighbor, removed := src.descriptor.RemoveComponent(typeID)
	if !removed {
		return src, nil, 0, false, nil
	}
	dstIndex, dst, err = r.findOrCreate(neighbor)
	if err != nil {
		return src, nil, 0, false, err
	}
	return src, dst, dstIndex, true, nil
}

// table returns the archetype table at index without bounds checking
// beyond a slice index panic — callers only ever pass indices sourced
// from a live directory entry or a prior findOrCreate call.
func (r *archetypeRegistry) table(index uint16) *archetypeTable {
	return r.tables[index]
}

// each calls fn for every archetype table currently registered, in
// creation order.
func (r *archetypeRegistry) each(fn func(index uint16, t *archetypeTable)) {
	for i, t := range r.tables {
		fn(uint16(i), t)
	}
}
