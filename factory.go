package shardstore

// factory implements the factory pattern for shardstore's top-level
// constructors, mirroring the teacher's package-level Factory singleton.
type factory struct{}

// Factory is the global factory instance for constructing registries,
// queries and cursors.
var Factory factory

// NewRegistry creates a new, empty Registry.
func (f factory) NewRegistry() *Registry {
	return NewRegistry()
}

// NewQuery creates a new empty, composable Query.
func (f factory) NewQuery() Query {
	return NewQuery()
}

// NewCursor creates a new Cursor over reg filtered by query.
func (f factory) NewCursor(reg *Registry, query QueryNode) *Cursor {
	return NewCursor(reg.archetype, query)
}

// FactoryNewComponent resolves (and registers, on first use) the
// ComponentDescriptor for type T.
func FactoryNewComponent[T any]() ComponentDescriptor {
	return ComponentDescriptorFor[T]()
}
