package shardstore

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// ComponentDescriptor is the type-erased metadata the storage engine keeps
// for a component type: its stable 16-bit type id, its memory layout, and
// the declared name it was hashed from.
type ComponentDescriptor struct {
	TypeID uint16
	Size   uintptr
	Align  uintptr
	Name   string
	elem   reflect.Type

	// bit is the sequential mask.Mask bit slot assigned to this component
	// the first time it is registered. ArchetypeDescriptor's subset and
	// exclusion tests, and query evaluation, compare these bits only.
	bit uint32
}

// componentRegistry caches descriptors by Go type, with a second index by
// type id used to detect name collisions, mirroring the teacher's
// SimpleCache[T] pattern but keyed on a single global table of descriptors
// rather than a per-T cache, since descriptors here are themselves the
// cached item and must be shared across every Group[...] instantiation of
// the same concrete type.
type componentRegistry struct {
	mu       sync.Mutex
	byTypeID map[uint16]ComponentDescriptor
	byGoType map[reflect.Type]ComponentDescriptor
	nextBit  uint32
}

var globalComponents = &componentRegistry{
	byTypeID: make(map[uint16]ComponentDescriptor),
	byGoType: make(map[reflect.Type]ComponentDescriptor),
}

// ComponentDescriptorFor returns the ComponentDescriptor for T, registering
// it on first use. The component's "name" is its fully-qualified Go type
// name; two distinct Go types are only expected to collide under the
// 16-bit FNV fold astronomically rarely, but when they do this panics with
// a ComponentCollisionError rather than silently aliasing two component
// kinds onto one type id — per spec.md's decision that a hash collision is
// a usage error, not a runtime condition to recover from.
func ComponentDescriptorFor[T any]() ComponentDescriptor {
	var zero T
	goType := reflect.TypeOf(zero)
	name := goType.String()
	if pkg := goType.PkgPath(); pkg != "" {
		name = pkg + "." + goType.Name()
	}

	globalComponents.mu.Lock()
	defer globalComponents.mu.Unlock()

	if d, ok := globalComponents.byGoType[goType]; ok {
		return d
	}

	typeID := hashComponentName(name)
	if existing, ok := globalComponents.byTypeID[typeID]; ok && existing.Name != name {
		panic(bark.AddTrace(ComponentCollisionError{Name: name, Existing: existing.Name, TypeID: typeID}))
	}

	d := ComponentDescriptor{
		TypeID: typeID,
		Size:   goType.Size(),
		Align:  uintptr(goType.Align()),
		Name:   name,
		elem:   goType,
		bit:    globalComponents.nextBit,
	}
	globalComponents.nextBit++

	globalComponents.byGoType[goType] = d
	globalComponents.byTypeID[typeID] = d
	return d
}

// maskBitFor returns the sequential mask.Mask bit slot for a descriptor.
func maskBitFor(d ComponentDescriptor) uint32 {
	return d.bit
}

// membershipMask builds the mask.Mask pre-filter for a set of descriptors,
// grounded on the teacher's query.go (nodeMask.Mark(bit) per component) and
// storage.go's NewOrExistingArchetype.
func membershipMask(descriptors []ComponentDescriptor) mask.Mask {
	var m mask.Mask
	for _, d := range descriptors {
		m.Mark(d.bit)
	}
	return m
}
