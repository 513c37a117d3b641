package shardstore

import "unsafe"

// Group1..Group4 describe fixed tuples of component types used as the
// typed front door for creating entities and iterating archetypes. Go has
// no variadic generics, so each arity is hand-written — the same approach
// the pack's other archetype ECS libraries take for their per-arity query
// and group types.
//
// Each group caches its canonical (sorted by type_id) ArchetypeDescriptor
// once per concrete instantiation, plus the permutation between
// declaration order and canonical order, so read/write helpers can map a
// caller's natural argument order onto the table's canonical column order.

type groupBase struct {
	descriptor ArchetypeDescriptor
	perm       []int // perm[i] = canonical index of declaration-order component i
}

func buildGroup(declared []ComponentDescriptor) groupBase {
	type indexed struct {
		ComponentDescriptor
		declIndex int
	}
	tmp := make([]indexed, len(declared))
	for i, d := range declared {
		tmp[i] = indexed{d, i}
	}
	// stable sort by TypeID, tracking where each declaration-order
	// component lands.
	for i := 1; i < len(tmp); i++ {
		for j := i; j > 0 && tmp[j].TypeID < tmp[j-1].TypeID; j-- {
			tmp[j], tmp[j-1] = tmp[j-1], tmp[j]
		}
	}
	sorted := make([]ComponentDescriptor, len(tmp))
	perm := make([]int, len(tmp))
	for canonIdx, e := range tmp {
		sorted[canonIdx] = e.ComponentDescriptor
		perm[e.declIndex] = canonIdx
	}
	return groupBase{
		descriptor: newArchetypeDescriptor(sorted),
		perm:       perm,
	}
}

// Group1 describes a single-component archetype signature.
type Group1[A any] struct{ groupBase }

// NewGroup1 resolves (and caches, via ComponentDescriptorFor) the
// descriptor for component type A.
func NewGroup1[A any]() Group1[A] {
	return Group1[A]{buildGroup([]ComponentDescriptor{ComponentDescriptorFor[A]()})}
}

// Descriptor returns the canonical archetype descriptor for this group.
func (g Group1[A]) Descriptor() ArchetypeDescriptor { return g.descriptor }

// Group2 describes a two-component archetype signature.
type Group2[A, B any] struct{ groupBase }

func NewGroup2[A, B any]() Group2[A, B] {
	return Group2[A, B]{buildGroup([]ComponentDescriptor{
		ComponentDescriptorFor[A](), ComponentDescriptorFor[B](),
	})}
}

func (g Group2[A, B]) Descriptor() ArchetypeDescriptor { return g.descriptor }

// Group3 describes a three-component archetype signature.
type Group3[A, B, C any] struct{ groupBase }

func NewGroup3[A, B, C any]() Group3[A, B, C] {
	return Group3[A, B, C]{buildGroup([]ComponentDescriptor{
		ComponentDescriptorFor[A](), ComponentDescriptorFor[B](), ComponentDescriptorFor[C](),
	})}
}

func (g Group3[A, B, C]) Descriptor() ArchetypeDescriptor { return g.descriptor }

// Group4 describes a four-component archetype signature.
type Group4[A, B, C, D any] struct{ groupBase }

func NewGroup4[A, B, C, D any]() Group4[A, B, C, D] {
	return Group4[A, B, C, D]{buildGroup([]ComponentDescriptor{
		ComponentDescriptorFor[A](), ComponentDescriptorFor[B](), ComponentDescriptorFor[C](), ComponentDescriptorFor[D](),
	})}
}

func (g Group4[A, B, C, D]) Descriptor() ArchetypeDescriptor { return g.descriptor }

// reorderByPerm maps a group's declaration-order component value pointers
// into the table's canonical (sorted by type_id) column order, using the
// permutation buildGroup computed for that group.
func reorderByPerm(perm []int, declared ...unsafe.Pointer) []unsafe.Pointer {
	canonical := make([]unsafe.Pointer, len(declared))
	for declIndex, canonIndex := range perm {
		canonical[canonIndex] = declared[declIndex]
	}
	return canonical
}
