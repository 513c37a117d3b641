package shardstore

import (
	"encoding/binary"
	"sort"

	"github.com/TheBitDrifter/mask"
)

// ArchetypeDescriptor describes the exact, unordered set of component types
// carried by every entity in one archetype table. Components are stored
// sorted by type_id so two archetypes with the same component set always
// compare and hash identically regardless of the order components were
// declared or added in.
//
// The zero value is not a valid descriptor — use invalidArchetypeDescriptor
// or build one via newArchetypeDescriptor.
type ArchetypeDescriptor struct {
	id         uint32
	components [MaxComponentsPerEntity]ComponentDescriptor
	len        uint8
	members    mask.Mask
}

var invalidArchetypeDescriptor = ArchetypeDescriptor{id: invalidArchetypeID}

// ID returns the archetype's stable 32-bit identifier.
func (d ArchetypeDescriptor) ID() uint32 { return d.id }

// Valid reports whether d is a usable descriptor (non-empty, id assigned).
func (d ArchetypeDescriptor) Valid() bool {
	return d.id != invalidArchetypeID && d.len > 0
}

// Len returns the number of distinct component types in the archetype.
func (d ArchetypeDescriptor) Len() int { return int(d.len) }

// Components returns the descriptor's components in canonical (sorted by
// type_id) order. The returned slice aliases internal storage and must not
// be mutated by the caller.
func (d *ArchetypeDescriptor) Components() []ComponentDescriptor {
	return d.components[:d.len]
}

// computeArchetypeID hashes a sorted slice of component descriptors into a
// stable archetype id. Mirrors the original engine's compute_archetype_id:
// a single component degenerates to its own type_id widened to 32 bits;
// otherwise it's the FNV-1a hash over the concatenated little-endian
// type_id bytes.
func computeArchetypeID(sorted []ComponentDescriptor) uint32 {
	if len(sorted) == 0 {
		return invalidArchetypeID
	}
	if len(sorted) == 1 {
		return uint32(sorted[0].TypeID)
	}
	bytes := make([]byte, len(sorted)*2)
	for i, c := range sorted {
		binary.LittleEndian.PutUint16(bytes[i*2:], c.TypeID)
	}
	return fnv1aHash32(bytes)
}

// newArchetypeDescriptor builds a descriptor from an arbitrary (possibly
// unsorted) slice of component descriptors. Duplicate component types are
// a caller error; this function does not deduplicate.
func newArchetypeDescriptor(components []ComponentDescriptor) ArchetypeDescriptor {
	if len(components) == 0 || len(components) > MaxComponentsPerEntity {
		return invalidArchetypeDescriptor
	}
	sorted := append([]ComponentDescriptor(nil), components...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TypeID < sorted[j].TypeID })

	var d ArchetypeDescriptor
	copy(d.components[:], sorted)
	d.len = uint8(len(sorted))
	d.id = computeArchetypeID(sorted)
	d.members = membershipMask(sorted)
	return d
}

// indexOf returns the position of typeID within the sorted component array
// via binary search, or (-1, false) if absent.
func (d *ArchetypeDescriptor) indexOf(typeID uint16) (int, bool) {
	comps := d.components[:d.len]
	i := sort.Search(len(comps), func(i int) bool { return comps[i].TypeID >= typeID })
	if i < len(comps) && comps[i].TypeID == typeID {
		return i, true
	}
	return i, false
}

// HasComponent reports whether the archetype carries the given component
// type.
func (d *ArchetypeDescriptor) HasComponent(typeID uint16) bool {
	_, ok := d.indexOf(typeID)
	return ok
}

// ContainsSubset reports whether every component of other is present in d
// (other's components form a subset of d's). An empty/invalid other always
// returns true, matching the original engine's convention that the empty
// query set is satisfied by any archetype.
func (d *ArchetypeDescriptor) ContainsSubset(other *ArchetypeDescriptor) bool {
	if other.len > d.len {
		return false
	}
	return d.members.ContainsAll(other.members)
}

// ExcludesSubset reports whether none of other's components are present in
// d.
func (d *ArchetypeDescriptor) ExcludesSubset(other *ArchetypeDescriptor) bool {
	return d.members.ContainsNone(other.members)
}

// AddComponent returns the neighbor archetype descriptor with component
// added, or ok=false if d already has it or is at MaxComponentsPerEntity.
func (d *ArchetypeDescriptor) AddComponent(component ComponentDescriptor) (ArchetypeDescriptor, bool) {
	if int(d.len) == MaxComponentsPerEntity {
		return ArchetypeDescriptor{}, false
	}
	comps := d.components[:d.len]
	insertAt := sort.Search(len(comps), func(i int) bool { return comps[i].TypeID >= component.TypeID })
	if insertAt < len(comps) && comps[insertAt].TypeID == component.TypeID {
		return ArchetypeDescriptor{}, false
	}

	var v ArchetypeDescriptor
	copy(v.components[:insertAt], comps[:insertAt])
	v.components[insertAt] = component
	copy(v.components[insertAt+1:], comps[insertAt:])
	v.len = d.len + 1
	v.id = computeArchetypeID(v.components[:v.len])
	v.members = membershipMask(v.components[:v.len])
	return v, true
}

// RemoveComponent returns the neighbor archetype descriptor with component
// removed, or ok=false if d does not have it or has only one component
// left (an archetype cannot hold zero components).
func (d *ArchetypeDescriptor) RemoveComponent(typeID uint16) (ArchetypeDescriptor, bool) {
	if d.len == 1 {
		return ArchetypeDescriptor{}, false
	}
	foundAt, ok := d.indexOf(typeID)
	if !ok {
		return ArchetypeDescriptor{}, false
	}

	var v ArchetypeDescriptor
	comps := d.components[:d.len]
	copy(v.components[:foundAt], comps[:foundAt])
	copy(v.components[foundAt:], comps[foundAt+1:])
	v.len = d.len - 1
	v.id = computeArchetypeID(v.components[:v.len])
	v.members = membershipMask(v.components[:v.len])
	return v, true
}
