package solver

import "testing"

func TestRingPushAndItems(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}

	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	items := r.Items()
	want := []int{3, 4, 5}
	for i, v := range want {
		if items[i] != v {
			t.Fatalf("Items = %v, want %v", items, want)
		}
	}
	if last, ok := r.Last(); !ok || last != 5 {
		t.Fatalf("Last = %d, %v", last, ok)
	}
}

func TestRingUnderCapacity(t *testing.T) {
	r := NewRing[string](10)
	r.Push("a")
	r.Push("b")

	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}
	if items := r.Items(); items[0] != "a" || items[1] != "b" {
		t.Fatalf("Items = %v", items)
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRing[int](2)
	if _, ok := r.Last(); ok {
		t.Fatal("Last on empty ring reported ok")
	}
	if len(r.Items()) != 0 {
		t.Fatal("Items on empty ring not empty")
	}
}

func TestRingClear(t *testing.T) {
	r := NewRing[int](2)
	r.Push(1)
	r.Push(2)
	r.Clear()

	if r.Len() != 0 {
		t.Fatalf("Len after Clear = %d", r.Len())
	}
	r.Push(7)
	if last, _ := r.Last(); last != 7 {
		t.Fatalf("Last after Clear+Push = %d", last)
	}
}

func TestRingMinimumCapacity(t *testing.T) {
	r := NewRing[int](0)
	r.Push(1)
	r.Push(2)
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	if last, _ := r.Last(); last != 2 {
		t.Fatalf("Last = %d, want 2", last)
	}
}
