package diagram

import "testing"

func TestIDAllocatorSharedCounter(t *testing.T) {
	a := newIDAllocator()

	if id := a.nextID(KindShape); id != "shape_1" {
		t.Errorf("first shape id = %q, want shape_1", id)
	}
	if id := a.nextID(KindConnection); id != "conn_2" {
		t.Errorf("first connection id = %q, want conn_2 (counter is shared)", id)
	}
	if id := a.nextID(KindShape); id != "shape_3" {
		t.Errorf("second shape id = %q, want shape_3", id)
	}
}

func TestIDAllocatorAdvancePast(t *testing.T) {
	tests := []struct {
		name string
		seen string
		want string
	}{
		{name: "numeric suffix advances", seen: "shape_41", want: "shape_42"},
		{name: "foreign prefix still advances", seen: "node_9", want: "shape_10"},
		{name: "non-numeric suffix ignored", seen: "shape_abc", want: "shape_1"},
		{name: "no underscore ignored", seen: "xyzzy", want: "shape_1"},
		{name: "trailing underscore ignored", seen: "shape_", want: "shape_1"},
		{name: "lower suffix does not rewind", seen: "shape_0", want: "shape_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newIDAllocator()
			a.advancePast(tt.seen)
			if got := a.nextID(KindShape); got != tt.want {
				t.Errorf("after advancePast(%q): nextID = %q, want %q", tt.seen, got, tt.want)
			}
		})
	}
}

func TestIDAllocatorNoCollisionAfterAdoption(t *testing.T) {
	a := newIDAllocator()
	adopted := []string{"shape_1", "conn_2", "shape_7"}
	for _, id := range adopted {
		a.advancePast(id)
	}

	seen := map[string]bool{}
	for _, id := range adopted {
		seen[id] = true
	}
	for i := 0; i < 10; i++ {
		id := a.nextID(KindShape)
		if seen[id] {
			t.Fatalf("allocator produced colliding id %q", id)
		}
		seen[id] = true
	}
}
