package shardstore

import "testing"

func TestEntityHandleEncoding(t *testing.T) {
	tests := []struct {
		name    string
		index   uint32
		version uint8
	}{
		{"zero", 0, 0},
		{"slot 1 version 1", 1, 1},
		{"max version", 100, 255},
		{"large index", 1<<24 - 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEntity(tt.index, tt.version)
			if e.Index() != tt.index {
				t.Errorf("Index() = %d, want %d", e.Index(), tt.index)
			}
			if e.Version() != tt.version {
				t.Errorf("Version() = %d, want %d", e.Version(), tt.version)
			}
			if !e.Valid() {
				t.Errorf("expected handle to be valid")
			}
		})
	}
}

func TestInvalidEntity(t *testing.T) {
	inv := InvalidEntity()
	if inv.Valid() {
		t.Fatal("InvalidEntity() reported itself as valid")
	}
	if Entity(0).Valid() == false {
		t.Fatal("slot 0 version 0 must be a distinct, valid handle from InvalidEntity()")
	}
}
