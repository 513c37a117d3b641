package shardstore

import "iter"

// columnSlice returns the live portion of a table's column for component
// type id typeID as a []T aliasing the column's backing array, or nil if
// the table does not carry that component. Mutating the returned slice
// mutates storage directly.
func columnSlice[T any](t *archetypeTable, typeID uint16) []T {
	idx, ok := t.columnFor(typeID)
	if !ok {
		return nil
	}
	return t.columns[idx].slice().Interface().([]T)
}

// matchesQuery reports whether a table's descriptor satisfies an optional
// query filter. A nil query matches every table.
func matchesQuery(t *archetypeTable, query QueryNode) bool {
	if query == nil {
		return true
	}
	return query.Evaluate(&t.descriptor)
}

// IterComponentsMatching1 walks every archetype carrying component A
// (a "fuzzy" projection — archetypes may carry other components besides
// A too), optionally narrowed by query, yielding each entity alongside a
// mutable pointer to its A. query may be nil to match every archetype
// carrying A.
func IterComponentsMatching1[A any](reg *archetypeRegistry, query QueryNode) iter.Seq2[Entity, *A] {
	typeID := ComponentDescriptorFor[A]().TypeID
	return func(yield func(Entity, *A) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(typeID) || !matchesQuery(t, query) {
				continue
			}
			col := columnSlice[A](t, typeID)
			for row, e := range t.entities {
				if !yield(e, &col[row]) {
					return
				}
			}
		}
	}
}

// IterComponentsExact1 walks only archetypes whose component set is
// exactly {A} — no extra components — yielding each entity and a mutable
// pointer to its A.
func IterComponentsExact1[A any](reg *archetypeRegistry) iter.Seq2[Entity, *A] {
	group := NewGroup1[A]()
	idx, ok := reg.find(&group.descriptor)
	return func(yield func(Entity, *A) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		col := columnSlice[A](t, group.descriptor.components[0].TypeID)
		for row, e := range t.entities {
			if !yield(e, &col[row]) {
				return
			}
		}
	}
}

// Pair2 carries two component pointers for one entity, returned by the
// two-arity iteration helpers below (Go's range-over-func only supports
// 0/1/2-value iterator functions, so arities above one pointer value are
// bundled into a struct rather than expressed as further yield
// parameters).
type Pair2[A, B any] struct {
	A *A
	B *B
}

// IterComponentsMatching2 walks every archetype carrying both A and B,
// optionally narrowed by query, yielding each entity alongside a Pair2 of
// mutable pointers.
func IterComponentsMatching2[A, B any](reg *archetypeRegistry, query QueryNode) iter.Seq2[Entity, Pair2[A, B]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	return func(yield func(Entity, Pair2[A, B]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) || !matchesQuery(t, query) {
				continue
			}
			colA := columnSlice[A](t, idA)
			colB := columnSlice[B](t, idB)
			for row, e := range t.entities {
				if !yield(e, Pair2[A, B]{&colA[row], &colB[row]}) {
					return
				}
			}
		}
	}
}

// IterComponentsExact2 walks only archetypes whose component set is
// exactly {A, B}.
func IterComponentsExact2[A, B any](reg *archetypeRegistry) iter.Seq2[Entity, Pair2[A, B]] {
	group := NewGroup2[A, B]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	return func(yield func(Entity, Pair2[A, B]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		colA := columnSlice[A](t, idA)
		colB := columnSlice[B](t, idB)
		for row, e := range t.entities {
			if !yield(e, Pair2[A, B]{&colA[row], &colB[row]}) {
				return
			}
		}
	}
}

// Triple3 and Quad4 extend Pair2's bundling approach to three and four
// component pointers.
type Triple3[A, B, C any] struct {
	A *A
	B *B
	C *C
}

type Quad4[A, B, C, D any] struct {
	A *A
	B *B
	C *C
	D *D
}

// IterComponentsMatching3 walks every archetype carrying A, B and C.
func IterComponentsMatching3[A, B, C any](reg *archetypeRegistry, query QueryNode) iter.Seq2[Entity, Triple3[A, B, C]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	return func(yield func(Entity, Triple3[A, B, C]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) ||
				!t.descriptor.HasComponent(idC) || !matchesQuery(t, query) {
				continue
			}
			colA := columnSlice[A](t, idA)
			colB := columnSlice[B](t, idB)
			colC := columnSlice[C](t, idC)
			for row, e := range t.entities {
				if !yield(e, Triple3[A, B, C]{&colA[row], &colB[row], &colC[row]}) {
					return
				}
			}
		}
	}
}

// IterComponentsExact3 walks only archetypes whose component set is
// exactly {A, B, C}.
func IterComponentsExact3[A, B, C any](reg *archetypeRegistry) iter.Seq2[Entity, Triple3[A, B, C]] {
	group := NewGroup3[A, B, C]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	return func(yield func(Entity, Triple3[A, B, C]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		colA := columnSlice[A](t, idA)
		colB := columnSlice[B](t, idB)
		colC := columnSlice[C](t, idC)
		for row, e := range t.entities {
			if !yield(e, Triple3[A, B, C]{&colA[row], &colB[row], &colC[row]}) {
				return
			}
		}
	}
}

// IterComponentsExact4 walks only archetypes whose component set is
// exactly {A, B, C, D}.
func IterComponentsExact4[A, B, C, D any](reg *archetypeRegistry) iter.Seq2[Entity, Quad4[A, B, C, D]] {
	group := NewGroup4[A, B, C, D]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	idD := ComponentDescriptorFor[D]().TypeID
	return func(yield func(Entity, Quad4[A, B, C, D]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		colA := columnSlice[A](t, idA)
		colB := columnSlice[B](t, idB)
		colC := columnSlice[C](t, idC)
		colD := columnSlice[D](t, idD)
		for row, e := range t.entities {
			if !yield(e, Quad4[A, B, C, D]{&colA[row], &colB[row], &colC[row], &colD[row]}) {
				return
			}
		}
	}
}

// IterComponentsMatching4 walks every archetype carrying A, B, C and D.
func IterComponentsMatching4[A, B, C, D any](reg *archetypeRegistry, query QueryNode) iter.Seq2[Entity, Quad4[A, B, C, D]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	idD := ComponentDescriptorFor[D]().TypeID
	return func(yield func(Entity, Quad4[A, B, C, D]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) ||
				!t.descriptor.HasComponent(idC) || !t.descriptor.HasComponent(idD) || !matchesQuery(t, query) {
				continue
			}
			colA := columnSlice[A](t, idA)
			colB := columnSlice[B](t, idB)
			colC := columnSlice[C](t, idC)
			colD := columnSlice[D](t, idD)
			for row, e := range t.entities {
				if !yield(e, Quad4[A, B, C, D]{&colA[row], &colB[row], &colC[row], &colD[row]}) {
					return
				}
			}
		}
	}
}

// SlicePair2, SliceTriple3 and SliceQuad4 bundle per-archetype column
// slices the same way Pair2/Triple3/Quad4 bundle per-entity pointers,
// again because range-over-func tops out at two yield values.
type SlicePair2[A, B any] struct {
	A []A
	B []B
}

type SliceTriple3[A, B, C any] struct {
	A []A
	B []B
	C []C
}

type SliceQuad4[A, B, C, D any] struct {
	A []A
	B []B
	C []C
	D []D
}

// IterSlicesMatching1 walks every archetype carrying component A,
// optionally narrowed by query, yielding one (entities, column) slice pair
// per matching archetype rather than per entity — so callers can vectorize
// across a whole archetype's rows instead of visiting them one at a time.
func IterSlicesMatching1[A any](reg *archetypeRegistry, query QueryNode) iter.Seq2[[]Entity, []A] {
	typeID := ComponentDescriptorFor[A]().TypeID
	return func(yield func([]Entity, []A) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(typeID) || !matchesQuery(t, query) {
				continue
			}
			if !yield(t.entities, columnSlice[A](t, typeID)) {
				return
			}
		}
	}
}

// IterSlicesExact1 walks only the archetype whose component set is exactly
// {A}, yielding its entities and A column as whole slices.
func IterSlicesExact1[A any](reg *archetypeRegistry) iter.Seq2[[]Entity, []A] {
	group := NewGroup1[A]()
	idx, ok := reg.find(&group.descriptor)
	return func(yield func([]Entity, []A) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		yield(t.entities, columnSlice[A](t, group.descriptor.components[0].TypeID))
	}
}

// IterSlicesMatching2 walks every archetype carrying both A and B,
// optionally narrowed by query, yielding one (entities, SlicePair2) pair
// per matching archetype.
func IterSlicesMatching2[A, B any](reg *archetypeRegistry, query QueryNode) iter.Seq2[[]Entity, SlicePair2[A, B]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	return func(yield func([]Entity, SlicePair2[A, B]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) || !matchesQuery(t, query) {
				continue
			}
			slices := SlicePair2[A, B]{columnSlice[A](t, idA), columnSlice[B](t, idB)}
			if !yield(t.entities, slices) {
				return
			}
		}
	}
}

// IterSlicesExact2 walks only the archetype whose component set is exactly
// {A, B}.
func IterSlicesExact2[A, B any](reg *archetypeRegistry) iter.Seq2[[]Entity, SlicePair2[A, B]] {
	group := NewGroup2[A, B]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	return func(yield func([]Entity, SlicePair2[A, B]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		yield(t.entities, SlicePair2[A, B]{columnSlice[A](t, idA), columnSlice[B](t, idB)})
	}
}

// IterSlicesMatching3 walks every archetype carrying A, B and C, yielding
// one (entities, SliceTriple3) pair per matching archetype.
func IterSlicesMatching3[A, B, C any](reg *archetypeRegistry, query QueryNode) iter.Seq2[[]Entity, SliceTriple3[A, B, C]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	return func(yield func([]Entity, SliceTriple3[A, B, C]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) ||
				!t.descriptor.HasComponent(idC) || !matchesQuery(t, query) {
				continue
			}
			slices := SliceTriple3[A, B, C]{columnSlice[A](t, idA), columnSlice[B](t, idB), columnSlice[C](t, idC)}
			if !yield(t.entities, slices) {
				return
			}
		}
	}
}

// IterSlicesExact3 walks only the archetype whose component set is exactly
// {A, B, C}.
func IterSlicesExact3[A, B, C any](reg *archetypeRegistry) iter.Seq2[[]Entity, SliceTriple3[A, B, C]] {
	group := NewGroup3[A, B, C]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	return func(yield func([]Entity, SliceTriple3[A, B, C]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		yield(t.entities, SliceTriple3[A, B, C]{columnSlice[A](t, idA), columnSlice[B](t, idB), columnSlice[C](t, idC)})
	}
}

// IterSlicesMatching4 walks every archetype carrying A, B, C and D,
// yielding one (entities, SliceQuad4) pair per matching archetype.
func IterSlicesMatching4[A, B, C, D any](reg *archetypeRegistry, query QueryNode) iter.Seq2[[]Entity, SliceQuad4[A, B, C, D]] {
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	idD := ComponentDescriptorFor[D]().TypeID
	return func(yield func([]Entity, SliceQuad4[A, B, C, D]) bool) {
		for _, t := range reg.tables {
			if !t.descriptor.HasComponent(idA) || !t.descriptor.HasComponent(idB) ||
				!t.descriptor.HasComponent(idC) || !t.descriptor.HasComponent(idD) || !matchesQuery(t, query) {
				continue
			}
			slices := SliceQuad4[A, B, C, D]{
				columnSlice[A](t, idA), columnSlice[B](t, idB), columnSlice[C](t, idC), columnSlice[D](t, idD),
			}
			if !yield(t.entities, slices) {
				return
			}
		}
	}
}

// IterSlicesExact4 walks only the archetype whose component set is exactly
// {A, B, C, D}.
func IterSlicesExact4[A, B, C, D any](reg *archetypeRegistry) iter.Seq2[[]Entity, SliceQuad4[A, B, C, D]] {
	group := NewGroup4[A, B, C, D]()
	idx, ok := reg.find(&group.descriptor)
	idA := ComponentDescriptorFor[A]().TypeID
	idB := ComponentDescriptorFor[B]().TypeID
	idC := ComponentDescriptorFor[C]().TypeID
	idD := ComponentDescriptorFor[D]().TypeID
	return func(yield func([]Entity, SliceQuad4[A, B, C, D]) bool) {
		if !ok {
			return
		}
		t := reg.tables[idx]
		slices := SliceQuad4[A, B, C, D]{
			columnSlice[A](t, idA), columnSlice[B](t, idB), columnSlice[C](t, idC), columnSlice[D](t, idD),
		}
		yield(t.entities, slices)
	}
}

// Cursor provides manual-advance iteration over archetypes matching a
// query, for callers that need to pause and resume iteration rather than
// consume it in one `range` — grounded on the teacher's Cursor, adapted
// to walk an archetypeRegistry directly since this engine performs no
// internal locking (spec Non-goal: no command buffers / no storage
// locking).
type Cursor struct {
	query   QueryNode
	reg     *archetypeRegistry
	tables  []*archetypeTable
	tableAt int
	rowAt   int

	initialized bool
}

// NewCursor creates a Cursor over reg filtered by query. A nil query
// matches every archetype.
func NewCursor(reg *archetypeRegistry, query QueryNode) *Cursor {
	return &Cursor{reg: reg, query: query, rowAt: -1}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	for _, t := range c.reg.tables {
		if matchesQuery(t, c.query) {
			c.tables = append(c.tables, t)
		}
	}
	c.initialized = true
}

// Next advances the cursor to the next matching entity, returning false
// once exhausted.
func (c *Cursor) Next() bool {
	c.initialize()
	for c.tableAt < len(c.tables) {
		t := c.tables[c.tableAt]
		if c.rowAt+1 < len(t.entities) {
			c.rowAt++
			return true
		}
		c.tableAt++
		c.rowAt = -1
	}
	return false
}

// Entity returns the entity at the cursor's current position.
func (c *Cursor) Entity() Entity {
	return c.tables[c.tableAt].entities[c.rowAt]
}

// Reset rewinds the cursor to iterate from the beginning again.
func (c *Cursor) Reset() {
	c.tables = nil
	c.tableAt = 0
	c.rowAt = -1
	c.initialized = false
}

// TotalMatched reports how many entities the cursor's query currently
// matches, across every matching archetype.
func (c *Cursor) TotalMatched() int {
	c.initialize()
	total := 0
	for _, t := range c.tables {
		total += len(t.entities)
	}
	return total
}
