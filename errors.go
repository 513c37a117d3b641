package shardstore

import "fmt"

// ComponentExistsError is returned when adding a component that the entity
// already carries.
type ComponentExistsError struct {
	Component ComponentDescriptor
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %s", e.Component.Name)
}

// ComponentNotFoundError is returned when removing or reading a component
// the entity does not carry.
type ComponentNotFoundError struct {
	Component ComponentDescriptor
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %s", e.Component.Name)
}

// InvalidEntityError is returned when an operation is given an Entity that
// does not resolve to a live directory entry (unknown slot, version
// mismatch, or the reserved invalid handle).
type InvalidEntityError struct {
	Entity Entity
}

func (e InvalidEntityError) Error() string {
	return fmt.Sprintf("entity %d (slot %d, version %d) is not valid", uint32(e.Entity), e.Entity.Index(), e.Entity.Version())
}

// ArchetypeMismatchError is returned by RemoveEntity1..4 when the group's
// canonical archetype does not equal the entity's actual archetype.
type ArchetypeMismatchError struct {
	Wanted uint32
	Actual uint32
}

func (e ArchetypeMismatchError) Error() string {
	return fmt.Sprintf("archetype mismatch: wanted archetype id %d, entity has %d", e.Wanted, e.Actual)
}

// ComponentCollisionError is the error ComponentDescriptorFor panics with
// (wrapped with a trace) when two distinct component names hash to the
// same 16-bit type id. Per spec this is a usage error: give
// the colliding component type a distinct name.
type ComponentCollisionError struct {
	Name     string
	Existing string
	TypeID   uint16
}

func (e ComponentCollisionError) Error() string {
	return fmt.Sprintf("component name %q collides with %q under type id %d", e.Name, e.Existing, e.TypeID)
}

// EntityHandlesExhaustedError is returned when the entity directory cannot
// grow past MaxEntityHandleValue live slots.
type EntityHandlesExhaustedError struct{}

func (EntityHandlesExhaustedError) Error() string {
	return "entity handle space exhausted"
}

// ArchetypeCountExhaustedError is returned when the registry cannot create
// another distinct archetype table past MaxArchetypeCount.
type ArchetypeCountExhaustedError struct{}

func (ArchetypeCountExhaustedError) Error() string {
	return "archetype count exhausted"
}

// ArchetypeRowsExhaustedError is returned when an archetype table cannot
// grow past MaxEntitiesPerArchetype rows.
type ArchetypeRowsExhaustedError struct {
	ArchetypeID uint32
}

func (e ArchetypeRowsExhaustedError) Error() string {
	return fmt.Sprintf("archetype %d row count exhausted", e.ArchetypeID)
}

// TooManyComponentsError is returned by AddComponent when the entity
// already carries MaxComponentsPerEntity components.
type TooManyComponentsError struct{}

func (TooManyComponentsError) Error() string {
	return "component count exceeds MaxComponentsPerEntity"
}

// LastComponentError is returned by RemoveComponent when the target
// component is the only one the entity carries — an archetype can never
// hold zero components, so the entity must be destroyed instead.
type LastComponentError struct {
	Component ComponentDescriptor
}

func (e LastComponentError) Error() string {
	return fmt.Sprintf("cannot remove %s: it is the entity's only component", e.Component.Name)
}
