// Package segment indexes verse timing windows within a chapter recording.
package segment

// Segment is the time window, in seconds, during which a verse is recited.
type Segment struct {
	Verse int
	Start float64
	End   float64
}

// Bounds is a start/end pair in seconds.
type Bounds struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (b Bounds) Duration() float64 {
	return b.End - b.Start
}

// Index answers time and verse lookups over an ordered segment list.
//
// Segments are expected sorted by verse and non-overlapping. Malformed input
// is tolerated: lookups never panic, and the first match in list order wins.
type Index struct {
	segments []Segment
}

// NewIndex builds an index over a copy of segments.
func NewIndex(segments []Segment) Index {
	s := make([]Segment, len(segments))
	copy(s, segments)
	return Index{segments: s}
}

// Len returns the number of segments.
func (ix Index) Len() int {
	return len(ix.segments)
}

// Segments returns a copy of the indexed segments.
func (ix Index) Segments() []Segment {
	s := make([]Segment, len(ix.segments))
	copy(s, ix.segments)
	return s
}

// ActiveVerse returns the verse whose window contains t, bounds inclusive.
// When two windows touch, the earlier one in list order wins.
func (ix Index) ActiveVerse(t float64) (int, bool) {
	for _, s := range ix.segments {
		if t >= s.Start && t <= s.End {
			return s.Verse, true
		}
	}
	return 0, false
}

// Bounds returns the window of the given verse.
func (ix Index) Bounds(verse int) (Bounds, bool) {
	for _, s := range ix.segments {
		if s.Verse == verse {
			return Bounds{Start: s.Start, End: s.End}, true
		}
	}
	return Bounds{}, false
}

// RangeBounds returns the window spanning the start of from to the end of to.
// It fails if either verse is missing or the window is empty.
func (ix Index) RangeBounds(from, to int) (Bounds, bool) {
	first, ok := ix.Bounds(from)
	if !ok {
		return Bounds{}, false
	}
	last, ok := ix.Bounds(to)
	if !ok {
		return Bounds{}, false
	}
	b := Bounds{Start: first.Start, End: last.End}
	if b.End <= b.Start {
		return Bounds{}, false
	}
	return b, true
}
