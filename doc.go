/*
Package shardstore is an archetype-based Entity-Component-System storage
core. Entities sharing the same set of component types are kept packed
together, column-by-column, for cache-friendly bulk iteration.

Core Concepts:

  - Entity: a stable 32-bit handle (index + generation) into the entity
    directory.
  - ComponentDescriptor: type-erased metadata (id, size, name) for one
    component type, resolved once per Go type via ComponentDescriptorFor.
  - ArchetypeDescriptor: the canonical, sorted set of component types
    defining one archetype.
  - Registry: the top-level façade that creates/destroys entities and
    moves them between archetypes as components are added or removed.

Basic usage:

	reg := shardstore.NewRegistry()

	e, _ := shardstore.CreateEntity2(reg, Position{}, Velocity{})

	pos, _ := shardstore.GetComponent[Position](reg, e)
	pos.X = 1

	shardstore.AddComponent[Health](reg, e)

	for entity, pair := range shardstore.IterComponentsMatching2[Position, Velocity](reg.Archetypes(), nil) {
		pair.A.X += pair.B.X
		pair.A.Y += pair.B.Y
		_ = entity
	}
*/
package shardstore
