package shardstore

import "testing"

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Health struct{ Current, Max int }

func TestCreateAndDestroyEntity(t *testing.T) {
	reg := NewRegistry()

	e, err := CreateEntity2(reg, Position{}, Velocity{})
	if err != nil {
		t.Fatalf("CreateEntity2() error = %v", err)
	}
	if !reg.IsValid(e) {
		t.Fatal("freshly created entity should be valid")
	}
	if reg.LiveCount() != 1 {
		t.Fatalf("LiveCount() = %d, want 1", reg.LiveCount())
	}

	if err := reg.DestroyEntity(e); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}
	if reg.IsValid(e) {
		t.Fatal("destroyed entity should no longer be valid")
	}
	if reg.LiveCount() != 0 {
		t.Fatalf("LiveCount() after destroy = %d, want 0", reg.LiveCount())
	}
}

func TestCreateEntityCarriesInitialValues(t *testing.T) {
	reg := NewRegistry()

	e, err := CreateEntity2(reg, Position{X: 1, Y: 2}, Velocity{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("CreateEntity2() error = %v", err)
	}

	pos, err := GetComponent[Position](reg, e)
	if err != nil || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position not stored at creation: pos=%v err=%v", pos, err)
	}
	vel, err := GetComponent[Velocity](reg, e)
	if err != nil || vel.X != 10 || vel.Y != 20 {
		t.Fatalf("Velocity not stored at creation: vel=%v err=%v", vel, err)
	}
}

func TestGetSetComponent(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity1(reg, Position{})

	if err := SetComponent(reg, e, Position{X: 3, Y: 4}); err != nil {
		t.Fatalf("SetComponent() error = %v", err)
	}
	pos, err := GetComponent[Position](reg, e)
	if err != nil {
		t.Fatalf("GetComponent() error = %v", err)
	}
	if pos.X != 3 || pos.Y != 4 {
		t.Fatalf("got Position{%v, %v}, want {3, 4}", pos.X, pos.Y)
	}

	if _, err := GetComponent[Velocity](reg, e); err == nil {
		t.Fatal("expected ComponentNotFoundError for a component the entity doesn't carry")
	}
}

func TestAddComponentMovesArchetypePreservingData(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity1(reg, Position{})
	_ = SetComponent(reg, e, Position{X: 1, Y: 2})

	if err := AddComponent[Velocity](reg, e); err != nil {
		t.Fatalf("AddComponent() error = %v", err)
	}

	pos, err := GetComponent[Position](reg, e)
	if err != nil || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position not preserved across archetype move: pos=%v err=%v", pos, err)
	}
	if _, err := GetComponent[Velocity](reg, e); err != nil {
		t.Fatalf("expected entity to now carry Velocity: %v", err)
	}

	if err := AddComponent[Velocity](reg, e); err == nil {
		t.Fatal("expected ComponentExistsError when adding an already-present component")
	}
}

func TestRemoveComponentMovesArchetype(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity2(reg, Position{}, Velocity{})
	_ = SetComponent(reg, e, Position{X: 5, Y: 6})

	if err := RemoveComponent[Velocity](reg, e); err != nil {
		t.Fatalf("RemoveComponent() error = %v", err)
	}
	if _, err := GetComponent[Velocity](reg, e); err == nil {
		t.Fatal("expected Velocity to be gone after RemoveComponent")
	}
	pos, err := GetComponent[Position](reg, e)
	if err != nil || pos.X != 5 {
		t.Fatalf("Position not preserved across archetype move: pos=%v err=%v", pos, err)
	}

	if err := RemoveComponent[Position](reg, e); err == nil {
		t.Fatal("expected an error when removing an entity's only remaining component")
	}
}

func TestDestroyEntityPatchesDisplacedEntity(t *testing.T) {
	reg := NewRegistry()
	e1, _ := CreateEntity1(reg, Position{})
	e2, _ := CreateEntity1(reg, Position{})
	_ = SetComponent(reg, e1, Position{X: 1})
	_ = SetComponent(reg, e2, Position{X: 2})

	if err := reg.DestroyEntity(e1); err != nil {
		t.Fatalf("DestroyEntity() error = %v", err)
	}

	pos, err := GetComponent[Position](reg, e2)
	if err != nil {
		t.Fatalf("e2 should still resolve after e1 was destroyed: %v", err)
	}
	if pos.X != 2 {
		t.Fatalf("e2's component was corrupted by the swap-drop: got X=%v, want 2", pos.X)
	}
}

func TestGetComponentsAndHasComponents(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity3(reg, Position{X: 1, Y: 2}, Velocity{X: 3, Y: 4}, Health{Current: 5, Max: 10})

	if !HasComponents3[Position, Velocity, Health](reg, e) {
		t.Fatal("expected entity to carry Position, Velocity and Health")
	}
	if HasComponents2[Velocity, Health](reg, e) == false {
		t.Fatal("expected entity to carry the Velocity/Health subset too")
	}

	// Order independent of canonical (type_id sorted) order, and independent
	// of declaration order at creation time.
	health, pos, vel, err := GetComponents3[Health, Position, Velocity](reg, e)
	if err != nil {
		t.Fatalf("GetComponents3() error = %v", err)
	}
	if pos.X != 1 || vel.X != 3 || health.Current != 5 {
		t.Fatalf("unexpected projected values: pos=%v vel=%v health=%v", pos, vel, health)
	}

	if _, err := GetComponents1[Velocity](reg, e); err != nil {
		t.Fatalf("GetComponents1() error = %v", err)
	}

	other, _ := CreateEntity1(reg, Position{})
	if HasComponents2[Position, Velocity](reg, other) {
		t.Fatal("expected an entity without Velocity to fail the subset check")
	}
	if _, _, err := GetComponents2[Position, Velocity](reg, other); err == nil {
		t.Fatal("expected ComponentNotFoundError for the missing Velocity")
	}
}

func TestRemoveEntityExtractsValuesAndDestroys(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity2(reg, Position{X: 7, Y: 8}, Velocity{X: 9, Y: 10})

	pos, vel, err := RemoveEntity2[Position, Velocity](reg, e)
	if err != nil {
		t.Fatalf("RemoveEntity2() error = %v", err)
	}
	if pos.X != 7 || vel.X != 9 {
		t.Fatalf("unexpected extracted values: pos=%v vel=%v", pos, vel)
	}
	if reg.IsValid(e) {
		t.Fatal("expected RemoveEntity2 to destroy the entity")
	}
}

func TestRemoveEntityMismatchedArchetypeFailsWithoutDestroying(t *testing.T) {
	reg := NewRegistry()
	e, _ := CreateEntity2(reg, Position{}, Velocity{})

	if _, err := RemoveEntity1[Position](reg, e); err == nil {
		t.Fatal("expected ArchetypeMismatchError when the group doesn't name the entity's full archetype")
	}
	if !reg.IsValid(e) {
		t.Fatal("a failed RemoveEntity1 must not destroy the entity")
	}
	if _, err := GetComponent[Position](reg, e); err != nil {
		t.Fatalf("entity's components must be untouched after a failed RemoveEntity1: %v", err)
	}
}

func TestIterComponentsMatching2(t *testing.T) {
	reg := NewRegistry()
	e1, _ := CreateEntity2(reg, Position{}, Velocity{})
	_ = SetComponent(reg, e1, Position{X: 1})
	_ = SetComponent(reg, e1, Velocity{X: 10})

	e2, _ := CreateEntity3(reg, Position{}, Velocity{}, Health{})
	_ = SetComponent(reg, e2, Position{X: 2})
	_ = SetComponent(reg, e2, Velocity{X: 20})

	seen := map[Entity]float64{}
	for entity, pair := range IterComponentsMatching2[Position, Velocity](reg.Archetypes(), nil) {
		pair.A.X += pair.B.X
		seen[entity] = pair.A.X
	}

	if len(seen) != 2 {
		t.Fatalf("expected to visit 2 entities across both archetypes, got %d", len(seen))
	}
	if seen[e1] != 11 || seen[e2] != 22 {
		t.Fatalf("unexpected iteration results: %v", seen)
	}
}

func TestIterComponentsExact1OnlyMatchesExactArchetype(t *testing.T) {
	reg := NewRegistry()
	solo, _ := CreateEntity1(reg, Position{})
	_ = SetComponent(reg, solo, Position{X: 7})
	paired, _ := CreateEntity2(reg, Position{}, Velocity{})
	_ = SetComponent(reg, paired, Position{X: 8})

	count := 0
	for entity, _ := range IterComponentsExact1[Position](reg.Archetypes()) {
		if entity != solo {
			t.Fatalf("IterComponentsExact1 visited %v, want only the solo archetype entity %v", entity, solo)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 match, got %d", count)
	}
}

func TestIterSlicesMatching2VectorizesPerArchetype(t *testing.T) {
	reg := NewRegistry()
	e1, _ := CreateEntity2(reg, Position{X: 1}, Velocity{X: 10})
	e2, _ := CreateEntity2(reg, Position{X: 2}, Velocity{X: 20})
	e3, _ := CreateEntity3(reg, Position{X: 3}, Velocity{X: 30}, Health{})

	archetypesSeen := 0
	totalRows := 0
	for entities, slices := range IterSlicesMatching2[Position, Velocity](reg.Archetypes(), nil) {
		archetypesSeen++
		if len(entities) != len(slices.A) || len(entities) != len(slices.B) {
			t.Fatalf("entity/component slice length mismatch: %d entities, %d A, %d B", len(entities), len(slices.A), len(slices.B))
		}
		for i := range entities {
			slices.A[i].X += slices.B[i].X
		}
		totalRows += len(entities)
	}

	if archetypesSeen != 2 {
		t.Fatalf("expected 2 matching archetypes (one per distinct component set), got %d", archetypesSeen)
	}
	if totalRows != 3 {
		t.Fatalf("expected 3 total rows across archetypes, got %d", totalRows)
	}

	for _, e := range []Entity{e1, e2, e3} {
		pos, _ := GetComponent[Position](reg, e)
		if pos.X < 10 {
			t.Fatalf("entity %v's Position wasn't updated by the vectorized slice write: %v", e, pos)
		}
	}
}
