package sim

import (
	"reflect"
	"testing"
)

func TestRing_AppendBelowCapacity(t *testing.T) {
	r := NewRing[int](4)
	r.Append(1)
	r.Append(2)
	r.Append(3)

	if r.Len() != 3 || r.Cap() != 4 {
		t.Fatalf("len/cap = %d/%d, want 3/4", r.Len(), r.Cap())
	}
	if got := r.Items(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Items() = %v", got)
	}
}

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Append(i)
	}

	if got := r.Items(); !reflect.DeepEqual(got, []int{3, 4, 5}) {
		t.Errorf("Items() after overflow = %v, want [3 4 5]", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if got := r.At(0); got != 3 {
		t.Errorf("At(0) = %d, want oldest = 3", got)
	}
}

func TestRing_Last(t *testing.T) {
	r := NewRing[string](2)
	if _, ok := r.Last(); ok {
		t.Error("Last() on empty ring reported an entry")
	}

	r.Append("a")
	r.Append("b")
	r.Append("c")
	if v, ok := r.Last(); !ok || v != "c" {
		t.Errorf("Last() = %q, %v, want \"c\", true", v, ok)
	}
}

func TestRing_Clear(t *testing.T) {
	r := NewRing[int](3)
	r.Append(1)
	r.Append(2)
	r.Clear()

	if r.Len() != 0 {
		t.Fatalf("Len() after Clear = %d", r.Len())
	}
	r.Append(9)
	if got := r.Items(); !reflect.DeepEqual(got, []int{9}) {
		t.Errorf("Items() after Clear+Append = %v", got)
	}
}

func TestRing_MinimumCapacity(t *testing.T) {
	r := NewRing[int](0)
	if r.Cap() != 1 {
		t.Errorf("Cap() = %d, want clamped to 1", r.Cap())
	}
	r.Append(1)
	r.Append(2)
	if v, _ := r.Last(); v != 2 {
		t.Errorf("Last() = %d, want 2", v)
	}
}
