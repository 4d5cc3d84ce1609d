package memory

// SetSequence sets the last issued entry sequence of a branch and year.
func (s *Store) SetSequence(branchID string, year int, last int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[sequenceKey(branchID, year)] = last
}
