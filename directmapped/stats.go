package directmapped

// Stats is a snapshot of the access counters of a cache.
//
// Accesses always equals CompulsoryMisses + ConflictMisses + Hits.
type Stats struct {
	CompulsoryMisses uint64 `json:"compulsory_misses"`
	ConflictMisses   uint64 `json:"conflict_misses"`
	Hits             uint64 `json:"hits"`
	Accesses         uint64 `json:"accesses"`
}

// TotalMisses returns the sum of compulsory and conflict misses.
func (s Stats) TotalMisses() uint64 {
	return s.CompulsoryMisses + s.ConflictMisses
}

// MissRate returns the fraction of accesses that missed. It returns
// ErrNoAccesses if nothing has been accessed.
func (s Stats) MissRate() (float64, error) {
	if s.Accesses == 0 {
		return 0, ErrNoAccesses
	}

	return float64(s.TotalMisses()) / float64(s.Accesses), nil
}

// HitRate returns the fraction of accesses that hit. It returns
// ErrNoAccesses if nothing has been accessed.
func (s Stats) HitRate() (float64, error) {
	if s.Accesses == 0 {
		return 0, ErrNoAccesses
	}

	return float64(s.Hits) / float64(s.Accesses), nil
}

func (s *Stats) count(kind AccessKind) {
	s.Accesses++

	switch kind {
	case CompulsoryMiss:
		s.CompulsoryMisses++
	case ConflictMiss:
		s.ConflictMisses++
	case Hit:
		s.Hits++
	}
}
