package sim

import (
	"testing"
)

func TestProcessQueue_FIFOOrder(t *testing.T) {
	var q ProcessQueue
	a := NewProcess("a", 1, 0, nil)
	b := NewProcess("b", 2, 0, nil)
	c := NewProcess("c", 3, 0, nil)

	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	if q.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", q.Len())
	}
	if q.Peek() != a {
		t.Errorf("Peek: got %v, want a", q.Peek())
	}
	for i, want := range []*Process{a, b, c} {
		if got := q.Dequeue(); got != want {
			t.Errorf("Dequeue #%d: got %v, want %v", i, got, want)
		}
	}
	if q.Dequeue() != nil {
		t.Errorf("Dequeue on empty queue: want nil")
	}
}

func TestProcessQueue_RemoveAtPreservesOrder(t *testing.T) {
	var q ProcessQueue
	a := NewProcess("a", 1, 0, nil)
	b := NewProcess("b", 2, 0, nil)
	c := NewProcess("c", 3, 0, nil)
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	q.removeAt(1)

	if q.Len() != 2 {
		t.Fatalf("Len after removeAt: got %d, want 2", q.Len())
	}
	if q.Items()[0] != a || q.Items()[1] != c {
		t.Errorf("removeAt broke ordering: got %v", q.Items())
	}
}

func TestProcessQueue_PeekEmpty(t *testing.T) {
	var q ProcessQueue
	if q.Peek() != nil {
		t.Errorf("Peek on empty queue: want nil")
	}
}
