package shardstore_test

import (
	"fmt"

	"github.com/TheBitDrifter/shardstore"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Name struct{ Value string }

// Example_basic shows entity creation, component access, a cursor
// counting the entities matching a query, and an iterator walking them.
func Example_basic() {
	reg := shardstore.NewRegistry()

	for i := 0; i < 5; i++ {
		shardstore.CreateEntity1(reg, Position{})
	}
	for i := 0; i < 3; i++ {
		shardstore.CreateEntity2(reg, Position{}, Velocity{})
	}

	named, _ := shardstore.CreateEntity3(reg, Position{X: 10, Y: 20}, Velocity{X: 1, Y: 2}, Name{Value: "Player"})

	posVelQuery := shardstore.Factory.NewQuery().And(
		shardstore.FactoryNewComponent[Position](),
		shardstore.FactoryNewComponent[Velocity](),
	)
	matchCount := shardstore.NewCursor(reg.Archetypes(), posVelQuery).TotalMatched()
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	for entity, pair := range shardstore.IterComponentsMatching2[Position, Velocity](reg.Archetypes(), posVelQuery) {
		name, err := shardstore.GetComponent[Name](reg, entity)
		if err != nil {
			continue
		}
		pair.A.X += pair.B.X
		pair.A.Y += pair.B.Y
		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", name.Value, pair.A.X, pair.A.Y)
	}

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}
