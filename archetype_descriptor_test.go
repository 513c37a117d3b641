package shardstore

import "testing"

type testA struct{ V int }
type testB struct{ V int }
type testC struct{ V int }

func TestArchetypeDescriptorAddRemoveComponent(t *testing.T) {
	ab := NewGroup2[testA, testB]().Descriptor()
	if !ab.HasComponent(ComponentDescriptorFor[testA]().TypeID) {
		t.Fatal("expected ab to contain A")
	}
	if !ab.HasComponent(ComponentDescriptorFor[testB]().TypeID) {
		t.Fatal("expected ab to contain B")
	}

	abc, ok := ab.AddComponent(ComponentDescriptorFor[testC]())
	if !ok {
		t.Fatal("AddComponent() failed unexpectedly")
	}
	if abc.Len() != 3 {
		t.Fatalf("abc.Len() = %d, want 3", abc.Len())
	}

	ac, ok := abc.RemoveComponent(ComponentDescriptorFor[testB]().TypeID)
	if !ok {
		t.Fatal("RemoveComponent() failed unexpectedly")
	}
	if ac.HasComponent(ComponentDescriptorFor[testB]().TypeID) {
		t.Fatal("ac should no longer contain B")
	}
	if !ac.HasComponent(ComponentDescriptorFor[testA]().TypeID) || !ac.HasComponent(ComponentDescriptorFor[testC]().TypeID) {
		t.Fatal("ac should still contain A and C")
	}
	if ac.Len() != 2 {
		t.Fatalf("ac.Len() = %d, want 2", ac.Len())
	}
}

func TestArchetypeDescriptorAddExistingComponentFails(t *testing.T) {
	ab := NewGroup2[testA, testB]().Descriptor()
	if _, ok := ab.AddComponent(ComponentDescriptorFor[testA]()); ok {
		t.Fatal("AddComponent() should fail when the component is already present")
	}
}

func TestArchetypeDescriptorContainsAndExcludesSubset(t *testing.T) {
	ab := NewGroup2[testA, testB]().Descriptor()
	a := NewGroup1[testA]().Descriptor()
	c := NewGroup1[testC]().Descriptor()

	if !ab.ContainsSubset(&a) {
		t.Fatal("ab should contain the subset {A}")
	}
	if ab.ContainsSubset(&c) {
		t.Fatal("ab should not contain the subset {C}")
	}
	if !ab.ExcludesSubset(&c) {
		t.Fatal("ab should exclude {C}")
	}
	if ab.ExcludesSubset(&a) {
		t.Fatal("ab should not exclude {A}, since it contains A")
	}
}

func TestArchetypeDescriptorIDStableRegardlessOfDeclarationOrder(t *testing.T) {
	ab := NewGroup2[testA, testB]().Descriptor()
	ba := NewGroup2[testB, testA]().Descriptor()
	if ab.ID() != ba.ID() {
		t.Fatalf("expected declaration-order-independent ids: ab=%d ba=%d", ab.ID(), ba.ID())
	}
}
