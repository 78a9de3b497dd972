// Package idgen issues monotonically increasing surrogate ids per entity
// kind. A Sequence is owned by the store whose snapshot it is persisted
// with; it is not safe for concurrent use on its own and relies on the
// owner's lock.
package idgen

import "fmt"

type Kind string

const (
	KindHotel Kind = "hotel"
	KindRoom  Kind = "room"
	KindOrder Kind = "order"
	KindUser  Kind = "user"
)

type Sequence struct {
	counters map[Kind]int64
}

func NewSequence() *Sequence {
	return &Sequence{counters: make(map[Kind]int64)}
}

// Next returns the current counter value for the kind and advances it.
// Ids start at 0 and are never reused; deletes do not compact counters.
func (s *Sequence) Next(kind Kind) int64 {
	id := s.counters[kind]
	s.counters[kind]++

	return id
}

// Rewind undoes the most recent allocation for the kind. It exists for the
// persist-failure rollback path only.
func (s *Sequence) Rewind(kind Kind) {
	if s.counters[kind] > 0 {
		s.counters[kind]--
	}
}

func (s *Sequence) Value(kind Kind) int64 {
	return s.counters[kind]
}

// Restore sets the counter for a kind from a loaded snapshot.
func (s *Sequence) Restore(kind Kind, value int64) error {
	if value < 0 {
		return fmt.Errorf("counter %q must not be negative, got %d", kind, value)
	}

	s.counters[kind] = value

	return nil
}
