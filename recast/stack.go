package recast

// Stack is a growable buffer that keeps its backing array across Clear, so
// the same buffer can be reused for every region of a build.
type Stack[T any] struct {
	data []T
}

func NewStackArray[T any](capacity int) *Stack[T] {
	return &Stack[T]{data: make([]T, 0, capacity)}
}

func (s *Stack[T]) Data() []T {
	return s.data
}

func (s *Stack[T]) Clear() {
	s.data = s.data[:0]
}

func (s *Stack[T]) Pop() T {
	e := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return e
}

func (s *Stack[T]) Push(value T) {
	s.data = append(s.data, value)
}

func (s *Stack[T]) Len() int {
	return len(s.data)
}

func (s *Stack[T]) Empty() bool {
	return s.Len() == 0
}

func (s *Stack[T]) Index(index int) T {
	return s.data[index]
}

func (s *Stack[T]) SetByIndex(index int, value T) {
	s.data[index] = value
}

// Insert places value at index, shifting the tail up by one.
func (s *Stack[T]) Insert(index int, value T) {
	var zero T
	s.data = append(s.data, zero)
	copy(s.data[index+1:], s.data[index:])
	s.data[index] = value
}

// RemoveAt drops the element at index, shifting the tail down by one.
func (s *Stack[T]) RemoveAt(index int) {
	copy(s.data[index:], s.data[index+1:])
	s.data = s.data[:len(s.data)-1]
}

// Clone returns a copy of the contents that does not alias the buffer.
func (s *Stack[T]) Clone() []T {
	res := make([]T, len(s.data))
	copy(res, s.data)
	return res
}
