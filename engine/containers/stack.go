package containers

type Stack[T any] struct {
	data []T
}

// Create a new Stack with room for size elements before it regrows
func NewStack[T any](size int) *Stack[T] {
	return &Stack[T]{
		data: make([]T, 0, size),
	}
}

// Push adds an element on top of the stack
func (s *Stack[T]) Push(value T) {
	s.data = append(s.data, value)
}

// Pop removes and returns the top element of the stack
func (s *Stack[T]) Pop() (T, bool) {
	if s.IsEmpty() {
		var zero T
		return zero, false
	}

	value := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return value, true
}

// Peek returns the top element without removing it
func (s *Stack[T]) Peek() (T, bool) {
	if s.IsEmpty() {
		var zero T
		return zero, false
	}
	return s.data[len(s.data)-1], true
}

// Drain removes and returns all elements, leaving the stack empty
func (s *Stack[T]) Drain() []T {
	out := s.data
	s.data = nil
	return out
}

// IsEmpty checks if the stack is empty
func (s *Stack[T]) IsEmpty() bool {
	return len(s.data) == 0
}

// Len returns the number of elements on the stack
func (s *Stack[T]) Len() int {
	return len(s.data)
}
