package containers

import "testing"

func TestStackPushPop(t *testing.T) {
	s := NewStack[int](4)

	if !s.IsEmpty() {
		t.Fatalf("new stack should be empty")
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("pop on empty stack should report false")
	}

	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}

	if v, ok := s.Peek(); !ok || v != 3 {
		t.Fatalf("peek should return 3, got %d (ok=%t)", v, ok)
	}
	if s.Len() != 3 {
		t.Fatalf("peek must not remove elements")
	}

	for want := 3; want >= 1; want-- {
		v, ok := s.Pop()
		if !ok {
			t.Fatalf("pop failed with %d elements expected", want)
		}
		if v != want {
			t.Errorf("expected %d, got %d", want, v)
		}
	}
	if !s.IsEmpty() {
		t.Fatalf("stack should be empty after popping everything")
	}
}

func TestStackDrain(t *testing.T) {
	s := NewStack[string](2)
	s.Push("a")
	s.Push("b")

	out := s.Drain()
	if len(out) != 2 {
		t.Fatalf("expected 2 drained elements, got %d", len(out))
	}
	if !s.IsEmpty() {
		t.Fatalf("stack should be empty after drain")
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("pop after drain should report false")
	}
}
