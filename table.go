package shardstore

import (
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// archetypeTable is the contiguous, columnar (Struct-of-Arrays) storage
// for every entity sharing one ArchetypeDescriptor: one column per
// component type, plus a parallel entities slice mapping row -> Entity so
// a swap-remove can patch the displaced entity's directory entry.
//
// Rows are never left with holes: removal always swaps the last row into
// the vacated slot and truncates by one (swap-drop), so iteration never
// needs to skip tombstones.
type archetypeTable struct {
	descriptor ArchetypeDescriptor
	columns    []column       // parallel to descriptor.Components()
	columnByID map[uint16]int // component type id -> index into columns
	entities   []Entity
	allocFloor uint32
}

func newArchetypeTable(descriptor ArchetypeDescriptor, allocFloor uint32) *archetypeTable {
	comps := descriptor.Components()
	t := &archetypeTable{
		descriptor: descriptor,
		columns:    make([]column, len(comps)),
		columnByID: make(map[uint16]int, len(comps)),
		allocFloor: allocFloor,
	}
	for i, c := range comps {
		t.columns[i] = newColumn(c.elem, 0)
		t.columnByID[c.TypeID] = i
	}
	return t
}

func (t *archetypeTable) Len() int { return len(t.entities) }

// pushZero appends a new, zero-valued row for entity and returns its row
// index. Returns ArchetypeRowsExhaustedError if the table is already at
// MaxEntitiesPerArchetype rows.
func (t *archetypeTable) pushZero(e Entity) (uint32, error) {
	if len(t.entities) >= MaxEntitiesPerArchetype {
		return 0, ArchetypeRowsExhaustedError{ArchetypeID: t.descriptor.id}
	}
	var row uint32
	for i := range t.columns {
		row = t.columns[i].pushZero(t.allocFloor)
	}
	t.entities = append(t.entities, e)
	return row, nil
}

// pushRow appends a new row for entity e, initializing every column from
// ptrs (one pointer per column, in the table's canonical column order —
// the same order as descriptor.Components()). Returns
// ArchetypeRowsExhaustedError if the table is already at
// MaxEntitiesPerArchetype rows.
func (t *archetypeTable) pushRow(e Entity, ptrs []unsafe.Pointer) (uint32, error) {
	if len(t.entities) >= MaxEntitiesPerArchetype {
		return 0, ArchetypeRowsExhaustedError{ArchetypeID: t.descriptor.id}
	}
	var row uint32
	for i := range t.columns {
		row = t.columns[i].pushValue(ptrs[i], t.allocFloor)
	}
	t.entities = append(t.entities, e)
	return row, nil
}

// columnFor returns the column index for a component type id, or
// (0, false) if the table does not carry that component.
func (t *archetypeTable) columnFor(typeID uint16) (int, bool) {
	idx, ok := t.columnByID[typeID]
	return idx, ok
}

// componentPtr returns an unsafe pointer to the component of the given
// type at row. Caller must have already verified the table carries
// typeID (see columnFor); panics otherwise, matching the original
// engine's "use of an invalid combination is UB" posture made loud rather
// than silent.
func (t *archetypeTable) componentPtr(row uint32, typeID uint16) unsafe.Pointer {
	idx, ok := t.columnFor(typeID)
	if !ok {
		panic(bark.AddTrace(ComponentNotFoundError{}))
	}
	return t.columns[idx].at(row)
}

// writeComponent overwrites the component of type typeID at row with the
// bytes at src.
func (t *archetypeTable) writeComponent(row uint32, typeID uint16, src unsafe.Pointer) {
	idx, ok := t.columnFor(typeID)
	if !ok {
		panic(bark.AddTrace(ComponentNotFoundError{}))
	}
	t.columns[idx].writeAt(row, src)
}

// swapDrop removes row by swapping the last row into its place (if it
// wasn't already last) and truncating by one. Returns the Entity that was
// moved into row (so the caller can patch its directory entry), or
// invalidEntity if row was the last row (nothing moved).
func (t *archetypeTable) swapDrop(row uint32) Entity {
	last := uint32(len(t.entities)) - 1
	moved := invalidEntity
	if row != last {
		moved = t.entities[last]
	}
	for i := range t.columns {
		t.columns[i].swapRemove(row)
	}
	t.entities[row] = t.entities[last]
	t.entities = t.entities[:last]
	return moved
}

// copyCommonColumns copies every component both src and dst carry from
// src's row srcRow to dst's row dstRow. Used when moving an entity to a
// neighbor archetype during AddComponent/RemoveComponent.
func copyCommonColumns(src, dst *archetypeTable, srcRow, dstRow uint32) {
	for typeID, srcIdx := range src.columnByID {
		dstIdx, ok := dst.columnByID[typeID]
		if !ok {
			continue
		}
		dst.columns[dstIdx].writeAt(dstRow, src.columns[srcIdx].at(srcRow))
	}
}
