package virtual

import "math"

// KindProperties describes the layout characteristics shared by every item
// of one kind.
type KindProperties struct {
	// Inline is true when items of this kind flow side by side and wrap.
	Inline bool
	// Margin is the outer margin read from the host's computed style.
	Margin Edges

	// AvgWidth and AvgHeight are the rounded mean of all samples recorded
	// since the last invalidation.
	AvgWidth  int
	AvgHeight int
	Samples   int

	// Valid is false until the style has been read, and again after the
	// container resizes, until the style is reconfirmed.
	Valid bool
}

type kindEntry struct {
	KindProperties
	sumWidth  int
	sumHeight int
	styled    bool // style read at least once
}

// sizeEstimator keeps a running average of measured sizes per kind and
// seeds layout for items that were never measured.
type sizeEstimator struct {
	kinds map[string]*kindEntry
}

func newSizeEstimator() *sizeEstimator {
	return &sizeEstimator{kinds: make(map[string]*kindEntry)}
}

func (s *sizeEstimator) entry(kind string) *kindEntry {
	k, ok := s.kinds[kind]
	if !ok {
		k = &kindEntry{}
		s.kinds[kind] = k
	}
	return k
}

// Record adds one measured sample to the kind's running mean.
func (s *sizeEstimator) Record(kind string, width, height int) {
	k := s.entry(kind)
	k.Samples++
	k.sumWidth += width
	k.sumHeight += height
	k.AvgWidth = roundedMean(k.sumWidth, k.Samples)
	k.AvgHeight = roundedMean(k.sumHeight, k.Samples)
}

// Estimate returns the kind's mean size, zero when nothing was recorded.
func (s *sizeEstimator) Estimate(kind string) Size {
	k, ok := s.kinds[kind]
	if !ok {
		return Size{}
	}
	return Size{Width: k.AvgWidth, Height: k.AvgHeight}
}

// Invalidate discards the kind's samples. Style metadata is kept.
func (s *sizeEstimator) Invalidate(kind string) {
	k, ok := s.kinds[kind]
	if !ok {
		return
	}
	k.Samples = 0
	k.sumWidth, k.sumHeight = 0, 0
	k.AvgWidth, k.AvgHeight = 0, 0
}

// Lookup returns a copy of the kind's properties.
func (s *sizeEstimator) Lookup(kind string) (KindProperties, bool) {
	k, ok := s.kinds[kind]
	if !ok {
		return KindProperties{}, false
	}
	return k.KindProperties, true
}

// invalidateStyles marks every kind as needing its style reconfirmed.
func (s *sizeEstimator) invalidateStyles() {
	for _, k := range s.kinds {
		k.Valid = false
	}
}

// needsStyle reports whether the kind's style must be read from an element.
func (s *sizeEstimator) needsStyle(kind string) bool {
	k, ok := s.kinds[kind]
	return !ok || !k.Valid
}

// confirmStyle stores a freshly read style. A style that differs from the
// one previously confirmed makes the recorded sizes meaningless, so the
// samples are dropped.
func (s *sizeEstimator) confirmStyle(kind string, inline bool, margin Edges) {
	k := s.entry(kind)
	if k.styled && (k.Inline != inline || k.Margin != margin) {
		s.Invalidate(kind)
	}
	k.Inline = inline
	k.Margin = margin
	k.Valid = true
	k.styled = true
}

func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
