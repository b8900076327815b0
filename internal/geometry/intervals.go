package geometry

import "sort"

// Interval is a closed range on one axis. Start is always <= End.
type Interval struct {
	Start, End float64
}

// IntervalSet accumulates one-dimensional intervals and answers questions
// about their merged layout: total covered length and the largest gap
// between covered stretches. Atom extents along an axis are modeled as
// intervals of position plus and minus the covalent radius.
type IntervalSet struct {
	intervals []Interval
}

// Add inserts one interval. Argument order does not matter.
func (s *IntervalSet) Add(a, b float64) {
	if a > b {
		a, b = b, a
	}
	s.intervals = append(s.intervals, Interval{Start: a, End: b})
}

// Len returns the number of raw intervals added.
func (s *IntervalSet) Len() int { return len(s.intervals) }

// Merged returns the non-overlapping union of the added intervals, sorted
// by start.
func (s *IntervalSet) Merged() []Interval {
	if len(s.intervals) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), s.intervals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := sorted[:1]
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		switch {
		case last.End < cur.Start:
			merged = append(merged, cur)
		case last.End < cur.End:
			last.End = cur.End
		}
	}
	return merged
}

// MaxGap returns the largest distance between consecutive merged intervals.
// With fewer than two raw intervals the layout has no defined gap and -1 is
// returned; a single merged stretch yields 0.
func (s *IntervalSet) MaxGap() float64 {
	if len(s.intervals) < 2 {
		return -1
	}
	merged := s.Merged()
	if len(merged) == 1 {
		return 0
	}
	max := 0.0
	for i := 0; i+1 < len(merged); i++ {
		if gap := merged[i+1].Start - merged[i].End; gap > max {
			max = gap
		}
	}
	return max
}

// CoveredLength returns the total length of the merged intervals.
func (s *IntervalSet) CoveredLength() float64 {
	total := 0.0
	for _, iv := range s.Merged() {
		total += iv.End - iv.Start
	}
	return total
}
