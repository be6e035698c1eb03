package models

import "github.com/RoaringBitmap/roaring/v2"

// Summary counts distinct entities per type among the active visits.
// GrandTotal is the number of visits in the collection, active or not.
type Summary struct {
	GrandTotal int
	types      map[EntityType]*roaring.Bitmap
}

func NewSummary(grandTotal int) *Summary {
	s := &Summary{
		GrandTotal: grandTotal,
		types:      make(map[EntityType]*roaring.Bitmap, len(EntityTypes)),
	}
	for _, t := range EntityTypes {
		s.types[t] = roaring.New()
	}
	return s
}

func (s *Summary) Add(e *Entity) {
	s.types[e.Type].Add(uint32(e.ID))
}

func (s *Summary) Count(t EntityType) int {
	bm, ok := s.types[t]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

func (s *Summary) Contains(t EntityType, entityID int) bool {
	bm, ok := s.types[t]
	return ok && entityID >= 0 && bm.Contains(uint32(entityID))
}

// Total is the number of distinct entities across all types.
func (s *Summary) Total() int {
	total := 0
	for _, bm := range s.types {
		total += int(bm.GetCardinality())
	}
	return total
}

// Counts returns the per-type distinct entity counts, zero entries included.
func (s *Summary) Counts() map[EntityType]int {
	out := make(map[EntityType]int, len(s.types))
	for t, bm := range s.types {
		out[t] = int(bm.GetCardinality())
	}
	return out
}
