package shardstore

// Config holds package-level configuration for the storage engine. It
// mirrors the teacher's global config singleton: a package-level variable
// callers mutate before constructing a Registry, rather than a constructor
// argument threaded through every call site.
var Config config = config{}

// ArchetypeEvents are optional lifecycle hooks fired as archetype tables
// are created and destroyed entities move between them. All hooks are
// optional; a nil hook is simply skipped.
type ArchetypeEvents struct {
	// OnArchetypeCreated fires once, the first time a given archetype
	// descriptor is resolved into a new table.
	OnArchetypeCreated func(descriptor ArchetypeDescriptor)

	// OnRowPushed fires after a row is appended to an archetype table as
	// part of creating or moving an entity.
	OnRowPushed func(descriptor ArchetypeDescriptor, entity Entity)

	// OnRowRemoved fires after a row is removed (swap-dropped) from an
	// archetype table as part of destroying or moving an entity.
	OnRowRemoved func(descriptor ArchetypeDescriptor, entity Entity)
}

type config struct {
	archetypeEvents     ArchetypeEvents
	archetypeAllocFloor int
}

func init() {
	Config.archetypeAllocFloor = defaultArchetypeAllocationFloor
}

// SetArchetypeEvents configures the archetype lifecycle hooks.
func (c *config) SetArchetypeEvents(e ArchetypeEvents) {
	c.archetypeEvents = e
}

// SetArchetypeAllocationFloor overrides the row capacity reserved the
// first time an archetype table is pushed into from empty. Values below 1
// are ignored.
func (c *config) SetArchetypeAllocationFloor(n int) {
	if n < 1 {
		return
	}
	c.archetypeAllocFloor = n
}
