package seq

// State is a detached copy of the content of a sequence.
type State struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Elements []int32 `json:"elements"`
}

// State returns a snapshot of the sequence.
func (s *Sequence) State() State {
	if s == nil {
		return State{}
	}

	return State{
		Name:     s.name,
		ID:       s.id,
		Elements: s.Snapshot(),
	}
}

// SetState replaces the content of the sequence with the elements of the
// state. The name and ID of the sequence are kept. No hook is invoked.
func (s *Sequence) SetState(state State) {
	if s == nil {
		return
	}

	s.releaseAll()

	tail := nilRef
	for _, v := range state.Elements {
		ref := s.pool.acquire(v)

		if tail == nilRef {
			s.head = ref
		} else {
			s.pool.get(tail).next = ref
		}

		tail = ref
	}
}
