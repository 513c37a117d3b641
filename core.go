package shardstore

import "unsafe"

// Registry is the top-level entry point of the storage engine: it owns an
// entity directory and an archetype registry, and orchestrates every
// operation that touches both together (creating/destroying entities,
// moving entities between archetypes as components are added or removed).
//
// A Registry performs no internal locking; concurrent access from
// multiple goroutines is the caller's responsibility, matching the
// engine's single-threaded-cooperative design (no command buffers, no
// scheduler).
type Registry struct {
	directory *entityDirectory
	archetype *archetypeRegistry
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		directory: newEntityDirectory(),
		archetype: newArchetypeRegistry(),
	}
}

// IsValid reports whether e resolves to a currently live entity in this
// Registry.
func (r *Registry) IsValid(e Entity) bool {
	_, ok := r.directory.resolve(e)
	return ok
}

// HasComponent reports whether entity e carries a component of the given
// type id. Returns false (rather than an error) for an invalid entity,
// matching the teacher's table.Table.Contains convention of treating
// absence and invalidity the same way for a boolean predicate.
func (r *Registry) HasComponent(e Entity, typeID uint16) bool {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return false
	}
	return r.archetype.table(entry.archetypeIndex).descriptor.HasComponent(typeID)
}

// createEntityInArchetype allocates a new directory slot and a new row in
// the table for descriptor, wiring the two together. push is responsible
// for actually appending the row (zero-valued or from caller-supplied
// values) and returns the new row index.
func (r *Registry) createEntityInArchetype(descriptor ArchetypeDescriptor, push func(*archetypeTable, Entity) (uint32, error)) (Entity, *archetypeTable, uint32, error) {
	idx, table, err := r.archetype.findOrCreate(descriptor)
	if err != nil {
		return 0, nil, 0, err
	}
	e, entry, err := r.directory.allocate()
	if err != nil {
		return 0, nil, 0, err
	}
	row, err := push(table, e)
	if err != nil {
		// roll back the directory allocation: put the slot straight back
		// on the freelist without bumping its version (it was never
		// observed as live).
		entry.archetypeIndex = invalidArchetypeIndex
		entry.indexInArchetype = r.directory.nextFreeSlot
		r.directory.nextFreeSlot = e.Index()
		return 0, nil, 0, err
	}
	entry.archetypeIndex = idx
	entry.indexInArchetype = row
	if Config.archetypeEvents.OnRowPushed != nil {
		Config.archetypeEvents.OnRowPushed(descriptor, e)
	}
	return e, table, row, nil
}

// CreateEntity1 creates a new entity carrying a. On failure the returned
// Entity is the zero handle and a is left untouched in the caller — Go's
// by-value argument passing means the caller never loses its copy of an
// unconsumed group, matching the original engine's Result<Entity, group>.
func CreateEntity1[A any](r *Registry, a A) (Entity, error) {
	group := NewGroup1[A]()
	ptrs := reorderByPerm(group.perm, unsafe.Pointer(&a))
	e, _, _, err := r.createEntityInArchetype(group.descriptor, func(t *archetypeTable, e Entity) (uint32, error) {
		return t.pushRow(e, ptrs)
	})
	return e, err
}

// CreateEntity2 creates a new entity carrying a and b.
func CreateEntity2[A, B any](r *Registry, a A, b B) (Entity, error) {
	group := NewGroup2[A, B]()
	ptrs := reorderByPerm(group.perm, unsafe.Pointer(&a), unsafe.Pointer(&b))
	e, _, _, err := r.createEntityInArchetype(group.descriptor, func(t *archetypeTable, e Entity) (uint32, error) {
		return t.pushRow(e, ptrs)
	})
	return e, err
}

// CreateEntity3 creates a new entity carrying a, b and c.
func CreateEntity3[A, B, C any](r *Registry, a A, b B, c C) (Entity, error) {
	group := NewGroup3[A, B, C]()
	ptrs := reorderByPerm(group.perm, unsafe.Pointer(&a), unsafe.Pointer(&b), unsafe.Pointer(&c))
	e, _, _, err := r.createEntityInArchetype(group.descriptor, func(t *archetypeTable, e Entity) (uint32, error) {
		return t.pushRow(e, ptrs)
	})
	return e, err
}

// CreateEntity4 creates a new entity carrying a, b, c and d.
func CreateEntity4[A, B, C, D any](r *Registry, a A, b B, c C, d D) (Entity, error) {
	group := NewGroup4[A, B, C, D]()
	ptrs := reorderByPerm(group.perm, unsafe.Pointer(&a), unsafe.Pointer(&b), unsafe.Pointer(&c), unsafe.Pointer(&d))
	e, _, _, err := r.createEntityInArchetype(group.descriptor, func(t *archetypeTable, e Entity) (uint32, error) {
		return t.pushRow(e, ptrs)
	})
	return e, err
}

// destroyResolved performs the actual swap-drop/patch/free sequence shared
// by DestroyEntity and RemoveEntity1..4, once the caller has already
// resolved entry and table for e.
func (r *Registry) destroyResolved(e Entity, entry *directoryEntry, table *archetypeTable) {
	moved := table.swapDrop(entry.indexInArchetype)
	if moved.Valid() {
		if movedEntry, ok := r.directory.resolve(moved); ok {
			movedEntry.indexInArchetype = entry.indexInArchetype
		}
	}
	if Config.archetypeEvents.OnRowRemoved != nil {
		Config.archetypeEvents.OnRowRemoved(table.descriptor, e)
	}
	r.directory.free(e)
}

// DestroyEntity removes e from the registry entirely, swap-dropping its
// row from its archetype table and patching the directory entry of
// whichever entity (if any) was moved into the vacated row.
func (r *Registry) DestroyEntity(e Entity) error {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	r.destroyResolved(e, entry, table)
	return nil
}

// GetComponent returns a mutable pointer to entity e's component of type
// A, or an error if e is invalid or does not carry A.
func GetComponent[A any](r *Registry, e Entity) (*A, error) {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return nil, InvalidEntityError{Entity: e}
	}
	desc := ComponentDescriptorFor[A]()
	table := r.archetype.table(entry.archetypeIndex)
	if !table.descriptor.HasComponent(desc.TypeID) {
		return nil, ComponentNotFoundError{Component: desc}
	}
	ptr := (*A)(table.componentPtr(entry.indexInArchetype, desc.TypeID))
	return ptr, nil
}

// SetComponent overwrites entity e's component of type A with value.
func SetComponent[A any](r *Registry, e Entity, value A) error {
	ptr, err := GetComponent[A](r, e)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// AddComponent moves entity e to the neighbor archetype that includes
// component type A, initialized to its zero value, preserving every
// component e already carried. Returns ComponentExistsError if e already
// carries A.
func AddComponent[A any](r *Registry, e Entity) error {
	desc := ComponentDescriptorFor[A]()
	entry, ok := r.directory.resolve(e)
	if !ok {
		return InvalidEntityError{Entity: e}
	}
	src, dst, dstIdx, added, err := r.archetype.findOrCreateAdding(entry.archetypeIndex, desc)
	if err != nil {
		return err
	}
	if !added {
		if src.descriptor.HasComponent(desc.TypeID) {
			return ComponentExistsError{Component: desc}
		}
		return TooManyComponentsError{}
	}
	return r.moveEntity(e, entry, src, dst, dstIdx)
}

// RemoveComponent moves entity e to the neighbor archetype excluding
// component type A, discarding its current A value. Returns
// ComponentNotFoundError if e does not carry A.
func RemoveComponent[A any](r *Registry, e Entity) error {
	desc := ComponentDescriptorFor[A]()
	entry, ok := r.directory.resolve(e)
	if !ok {
		return InvalidEntityError{Entity: e}
	}
	src, dst, dstIdx, removed, err := r.archetype.findOrCreateRemoving(entry.archetypeIndex, desc.TypeID)
	if err != nil {
		return err
	}
	if !removed {
		if !src.descriptor.HasComponent(desc.TypeID) {
			return ComponentNotFoundError{Component: desc}
		}
		return LastComponentError{Component: desc}
	}
	return r.moveEntity(e, entry, src, dst, dstIdx)
}

// moveEntity relocates e's row from src to dst, copying every component
// the two archetypes have in common, then swap-drops the vacated src row
// and patches whichever entity was displaced into it.
func (r *Registry) moveEntity(e Entity, entry *directoryEntry, src, dst *archetypeTable, dstIdx uint16) error {
	srcRow := entry.indexInArchetype
	dstRow, err := dst.pushZero(e)
	if err != nil {
		return err
	}
	copyCommonColumns(src, dst, srcRow, dstRow)
	if Config.archetypeEvents.OnRowPushed != nil {
		Config.archetypeEvents.OnRowPushed(dst.descriptor, e)
	}

	moved := src.swapDrop(srcRow)
	if moved.Valid() {
		if movedEntry, ok := r.directory.resolve(moved); ok {
			movedEntry.indexInArchetype = srcRow
		}
	}
	if Config.archetypeEvents.OnRowRemoved != nil {
		Config.archetypeEvents.OnRowRemoved(src.descriptor, e)
	}

	entry.archetypeIndex = dstIdx
	entry.indexInArchetype = dstRow
	return nil
}

// HasComponents1 reports whether entity e carries A. Equivalent to
// HasComponent with a typed descriptor lookup; provided for symmetry with
// HasComponents2..4.
func HasComponents1[A any](r *Registry, e Entity) bool {
	return r.HasComponent(e, ComponentDescriptorFor[A]().TypeID)
}

// HasComponents2 reports whether entity e carries both A and B.
func HasComponents2[A, B any](r *Registry, e Entity) bool {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return false
	}
	desc := &r.archetype.table(entry.archetypeIndex).descriptor
	group := NewGroup2[A, B]().descriptor
	return desc.ContainsSubset(&group)
}

// HasComponents3 reports whether entity e carries A, B and C.
func HasComponents3[A, B, C any](r *Registry, e Entity) bool {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return false
	}
	desc := &r.archetype.table(entry.archetypeIndex).descriptor
	group := NewGroup3[A, B, C]().descriptor
	return desc.ContainsSubset(&group)
}

// HasComponents4 reports whether entity e carries A, B, C and D.
func HasComponents4[A, B, C, D any](r *Registry, e Entity) bool {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return false
	}
	desc := &r.archetype.table(entry.archetypeIndex).descriptor
	group := NewGroup4[A, B, C, D]().descriptor
	return desc.ContainsSubset(&group)
}

// GetComponents1 returns a mutable pointer to entity e's A. Equivalent to
// GetComponent; provided for symmetry with GetComponents2..4.
func GetComponents1[A any](r *Registry, e Entity) (*A, error) {
	return GetComponent[A](r, e)
}

// GetComponents2 returns mutable pointers to entity e's A and B, in that
// order, regardless of their relative order in the entity's archetype.
// Returns ComponentNotFoundError naming whichever of A/B is absent.
func GetComponents2[A, B any](r *Registry, e Entity) (*A, *B, error) {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return nil, nil, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	if !table.descriptor.HasComponent(descA.TypeID) {
		return nil, nil, ComponentNotFoundError{Component: descA}
	}
	if !table.descriptor.HasComponent(descB.TypeID) {
		return nil, nil, ComponentNotFoundError{Component: descB}
	}
	a := (*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := (*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	return a, b, nil
}

// GetComponents3 returns mutable pointers to entity e's A, B and C.
func GetComponents3[A, B, C any](r *Registry, e Entity) (*A, *B, *C, error) {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return nil, nil, nil, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	descC := ComponentDescriptorFor[C]()
	if !table.descriptor.HasComponent(descA.TypeID) {
		return nil, nil, nil, ComponentNotFoundError{Component: descA}
	}
	if !table.descriptor.HasComponent(descB.TypeID) {
		return nil, nil, nil, ComponentNotFoundError{Component: descB}
	}
	if !table.descriptor.HasComponent(descC.TypeID) {
		return nil, nil, nil, ComponentNotFoundError{Component: descC}
	}
	a := (*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := (*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	c := (*C)(table.componentPtr(entry.indexInArchetype, descC.TypeID))
	return a, b, c, nil
}

// GetComponents4 returns mutable pointers to entity e's A, B, C and D.
func GetComponents4[A, B, C, D any](r *Registry, e Entity) (*A, *B, *C, *D, error) {
	entry, ok := r.directory.resolve(e)
	if !ok {
		return nil, nil, nil, nil, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	descC := ComponentDescriptorFor[C]()
	descD := ComponentDescriptorFor[D]()
	if !table.descriptor.HasComponent(descA.TypeID) {
		return nil, nil, nil, nil, ComponentNotFoundError{Component: descA}
	}
	if !table.descriptor.HasComponent(descB.TypeID) {
		return nil, nil, nil, nil, ComponentNotFoundError{Component: descB}
	}
	if !table.descriptor.HasComponent(descC.TypeID) {
		return nil, nil, nil, nil, ComponentNotFoundError{Component: descC}
	}
	if !table.descriptor.HasComponent(descD.TypeID) {
		return nil, nil, nil, nil, ComponentNotFoundError{Component: descD}
	}
	a := (*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := (*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	c := (*C)(table.componentPtr(entry.indexInArchetype, descC.TypeID))
	d := (*D)(table.componentPtr(entry.indexInArchetype, descD.TypeID))
	return a, b, c, d, nil
}

// RemoveEntity1 destroys e and returns the value of its sole component A.
// Returns ArchetypeMismatchError without destroying e if e's archetype is
// not exactly {A} — this reads out the entity's whole component set, so
// the caller must name its exact shape, not just a subset.
func RemoveEntity1[A any](r *Registry, e Entity) (A, error) {
	var zero A
	entry, ok := r.directory.resolve(e)
	if !ok {
		return zero, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	group := NewGroup1[A]()
	if table.descriptor.id != group.descriptor.id {
		return zero, ArchetypeMismatchError{Wanted: group.descriptor.id, Actual: table.descriptor.id}
	}
	desc := ComponentDescriptorFor[A]()
	a := *(*A)(table.componentPtr(entry.indexInArchetype, desc.TypeID))
	r.destroyResolved(e, entry, table)
	return a, nil
}

// RemoveEntity2 destroys e and returns the values of A and B. Returns
// ArchetypeMismatchError without destroying e if e's archetype is not
// exactly {A, B}.
func RemoveEntity2[A, B any](r *Registry, e Entity) (A, B, error) {
	var zeroA A
	var zeroB B
	entry, ok := r.directory.resolve(e)
	if !ok {
		return zeroA, zeroB, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	group := NewGroup2[A, B]()
	if table.descriptor.id != group.descriptor.id {
		return zeroA, zeroB, ArchetypeMismatchError{Wanted: group.descriptor.id, Actual: table.descriptor.id}
	}
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	a := *(*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := *(*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	r.destroyResolved(e, entry, table)
	return a, b, nil
}

// RemoveEntity3 destroys e and returns the values of A, B and C. Returns
// ArchetypeMismatchError without destroying e if e's archetype is not
// exactly {A, B, C}.
func RemoveEntity3[A, B, C any](r *Registry, e Entity) (A, B, C, error) {
	var zeroA A
	var zeroB B
	var zeroC C
	entry, ok := r.directory.resolve(e)
	if !ok {
		return zeroA, zeroB, zeroC, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	group := NewGroup3[A, B, C]()
	if table.descriptor.id != group.descriptor.id {
		return zeroA, zeroB, zeroC, ArchetypeMismatchError{Wanted: group.descriptor.id, Actual: table.descriptor.id}
	}
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	descC := ComponentDescriptorFor[C]()
	a := *(*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := *(*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	c := *(*C)(table.componentPtr(entry.indexInArchetype, descC.TypeID))
	r.destroyResolved(e, entry, table)
	return a, b, c, nil
}

// RemoveEntity4 destroys e and returns the values of A, B, C and D. Returns
// ArchetypeMismatchError without destroying e if e's archetype is not
// exactly {A, B, C, D}.
func RemoveEntity4[A, B, C, D any](r *Registry, e Entity) (A, B, C, D, error) {
	var zeroA A
	var zeroB B
	var zeroC C
	var zeroD D
	entry, ok := r.directory.resolve(e)
	if !ok {
		return zeroA, zeroB, zeroC, zeroD, InvalidEntityError{Entity: e}
	}
	table := r.archetype.table(entry.archetypeIndex)
	group := NewGroup4[A, B, C, D]()
	if table.descriptor.id != group.descriptor.id {
		return zeroA, zeroB, zeroC, zeroD, ArchetypeMismatchError{Wanted: group.descriptor.id, Actual: table.descriptor.id}
	}
	descA := ComponentDescriptorFor[A]()
	descB := ComponentDescriptorFor[B]()
	descC := ComponentDescriptorFor[C]()
	descD := ComponentDescriptorFor[D]()
	a := *(*A)(table.componentPtr(entry.indexInArchetype, descA.TypeID))
	b := *(*B)(table.componentPtr(entry.indexInArchetype, descB.TypeID))
	c := *(*C)(table.componentPtr(entry.indexInArchetype, descC.TypeID))
	d := *(*D)(table.componentPtr(entry.indexInArchetype, descD.TypeID))
	r.destroyResolved(e, entry, table)
	return a, b, c, d, nil
}

// Each calls fn for every live entity in the registry, in directory slot
// order.
func (r *Registry) Each(fn func(Entity)) {
	r.directory.each(fn)
}

// LiveCount returns the number of currently live entities.
func (r *Registry) LiveCount() int {
	return r.directory.liveCount()
}

// Archetypes exposes the underlying archetype registry for iteration
// helpers in iterate.go and query.go.
func (r *Registry) Archetypes() *archetypeRegistry {
	return r.archetype
}
