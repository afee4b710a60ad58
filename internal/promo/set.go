package promo

// mapSet implements Set with a plain map for O(1) lookups.
type mapSet struct {
	codes map[string]struct{}
}

func newMapSet(capacity int) *mapSet {
	return &mapSet{codes: make(map[string]struct{}, capacity)}
}

func (s *mapSet) add(code string) {
	s.codes[code] = struct{}{}
}

// Contains checks if a code exists in the set.
func (s *mapSet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Size returns the number of codes in the set.
func (s *mapSet) Size() int {
	return len(s.codes)
}
